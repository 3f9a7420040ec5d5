package tariff

import (
	"encoding/json"
	"testing"

	"tarif-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseCalculator_NoWeekendSplit(t *testing.T) {
	calc := NewBaseCalculator(testOptions())
	dataset := datasetOf(
		pt(at(2025, 1, 15, 12, 0), 1000),
		pt(at(2025, 1, 16, 12, 0), 1000),
	)

	r, err := calc.Calculate(dataset, Prices{FieldBasePrice: dec("0.20")}, dec("10.00"), nil)
	require.NoError(t, err)

	assertDecimal(t, "2", r.TotalKwh, "total kwh")
	assertDecimal(t, "0.4", r.TotalCostEuros, "total cost")
	assert.InDelta(t, 0.657, r.SubscriptionCostEuros.InexactFloat64(), 0.001)
	assert.InDelta(t, 1.057, r.TotalWithSubscription.InexactFloat64(), 0.001)
	assert.Equal(t, 2, r.DaysCount)
	assert.Equal(t, "BASE", r.OfferType)
	assert.Equal(t, "Base", r.OfferName)

	require.Equal(t, []string{"base"}, periodCodes(r))
	assertDecimal(t, "100", r.Periods[0].Percentage, "percentage")
	assertConservation(t, r)
}

func TestBaseCalculator_WeekendSplit(t *testing.T) {
	calc := NewBaseCalculator(testOptions())
	dataset := datasetOf(
		pt(at(2025, 1, 17, 12, 0), 1000), // vendredi
		pt(at(2025, 1, 18, 12, 0), 3000), // samedi
	)
	prices := Prices{FieldBasePrice: dec("0.20"), FieldBasePriceWeekend: dec("0.15")}

	r, err := calc.Calculate(dataset, prices, dec("0"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"base_weekday", "base_weekend"}, periodCodes(r))
	assertPeriod(t, r, "base_weekday", "1", "0.2")
	assertPeriod(t, r, "base_weekend", "3", "0.45")
	assertDecimal(t, "0.65", r.TotalCostEuros, "total cost")
	assertDecimal(t, "25", r.Periods[0].Percentage, "weekday percentage")
	assertDecimal(t, "75", r.Periods[1].Percentage, "weekend percentage")
	assertConservation(t, r)
}

func TestBaseCalculator_MissingRequiredPrice(t *testing.T) {
	calc := NewBaseCalculator(testOptions())

	_, err := calc.Calculate(datasetOf(pt(at(2025, 1, 15, 12, 0), 1000)),
		Prices{FieldBasePriceWeekend: dec("0.15")}, dec("10"), nil)

	assert.ErrorIs(t, err, ErrMissingRequiredPrice)
	assert.Contains(t, err.Error(), FieldBasePrice)
}

func TestBaseCalculator_EmptyDataset(t *testing.T) {
	calc := NewBaseCalculator(testOptions())

	r, err := calc.Calculate(datasetOf(), Prices{FieldBasePrice: dec("0.20")}, dec("30.44"), nil)
	require.NoError(t, err)

	assert.Empty(t, r.Periods)
	assert.True(t, r.TotalKwh.IsZero())
	assert.True(t, r.TotalCostEuros.IsZero())
	assert.Equal(t, 1, r.DaysCount)
	assertDecimal(t, "1", r.SubscriptionCostEuros, "subscription")
	assertConservation(t, r)
}

func TestBaseCalculator_InvalidPeriod(t *testing.T) {
	calc := NewBaseCalculator(testOptions())
	dataset := models.ConsumptionDataset{
		StartDate: at(2025, 1, 15, 0, 0),
		EndDate:   at(2025, 1, 14, 0, 0),
	}

	_, err := calc.Calculate(dataset, Prices{FieldBasePrice: dec("0.20")}, dec("10"), nil)
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)
}

func TestBaseCalculator_Idempotent(t *testing.T) {
	calc := NewBaseCalculator(testOptions())
	dataset := datasetOf(
		pt(at(2025, 1, 15, 12, 0), 1234),
		pt(at(2025, 1, 18, 12, 0), 567),
	)
	prices := Prices{FieldBasePrice: dec("0.2516"), FieldBasePriceWeekend: dec("0.1999")}

	first, err := calc.Calculate(dataset, prices, dec("12.03"), nil)
	require.NoError(t, err)
	second, err := calc.Calculate(dataset, prices, dec("12.03"), nil)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestSubscriptionCost(t *testing.T) {
	assertDecimal(t, "2", SubscriptionCost(dec("30.44"), 2), "two days")
	assert.InDelta(t, 10.0/30.44*365, SubscriptionCost(dec("10"), 365).InexactFloat64(), 1e-9)
	assert.True(t, SubscriptionCost(dec("0"), 31).IsZero())

	// le nombre de jours ne dépend pas de l'heure des bornes
	d := models.ConsumptionDataset{StartDate: at(2025, 1, 1, 23, 0), EndDate: at(2025, 1, 31, 1, 0)}
	assert.Equal(t, 31, d.DaysCount())
}
