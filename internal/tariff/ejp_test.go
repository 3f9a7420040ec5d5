package tariff

import (
	"testing"

	"tarif-engine/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ejpPrices = Prices{FieldEJPNormal: dec("0.1230"), FieldEJPPeak: dec("1.00")}

func TestEJPCalculator_WeekendNeverPeak(t *testing.T) {
	calc := NewEJPCalculator(testOptions())

	// 2025-01-25 : samedi, jour de l'année 25
	r, err := calc.Calculate(datasetOf(pt(at(2025, 1, 25, 12, 0), 1000)), ejpPrices, dec("0"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ejp_normal"}, periodCodes(r))
	assertPeriod(t, r, "ejp_normal", "1", "0.123")
}

func TestEJPCalculator_EstimatedPeakKeepsNormalPeriod(t *testing.T) {
	calc := NewEJPCalculator(testOptions())

	// 2025-01-15 : mercredi, jour de l'année 15
	r, err := calc.Calculate(datasetOf(pt(at(2025, 1, 15, 12, 0), 2000)), ejpPrices, dec("0"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ejp_normal", "ejp_peak"}, periodCodes(r))
	assertPeriod(t, r, "ejp_normal", "0", "0")
	assertPeriod(t, r, "ejp_peak", "2", "2")
	assertDecimal(t, "0", r.Periods[0].Percentage, "normal percentage")
	assertDecimal(t, "100", r.Periods[1].Percentage, "peak percentage")
	assertConservation(t, r)
}

func TestEJPCalculator_CalendarOverridesEstimate(t *testing.T) {
	store := calendar.NewStore()
	store.SetPeakDay(at(2025, 1, 15, 0, 0), false)
	store.SetPeakDay(at(2025, 7, 15, 0, 0), true)

	opts := testOptions()
	opts.PeakDays = store
	calc := NewEJPCalculator(opts)

	dataset := datasetOf(
		pt(at(2025, 1, 15, 12, 0), 1000),
		pt(at(2025, 7, 15, 12, 0), 500),
	)

	r, err := calc.Calculate(dataset, ejpPrices, dec("9.5"), nil)
	require.NoError(t, err)

	assertPeriod(t, r, "ejp_normal", "1", "0.123")
	assertPeriod(t, r, "ejp_peak", "0.5", "0.5")
	assert.Equal(t, 182, r.DaysCount)
	assertConservation(t, r)
}

func TestEJPCalculator_EmptyDataset(t *testing.T) {
	calc := NewEJPCalculator(testOptions())

	r, err := calc.Calculate(datasetOf(), ejpPrices, dec("0"), nil)
	require.NoError(t, err)
	assert.Empty(t, r.Periods)
}

func TestEJPCalculator_MissingPeakPrice(t *testing.T) {
	calc := NewEJPCalculator(testOptions())

	_, err := calc.Calculate(datasetOf(), Prices{FieldEJPNormal: dec("0.12")}, dec("0"), nil)
	assert.ErrorIs(t, err, ErrMissingRequiredPrice)
}
