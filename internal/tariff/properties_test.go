package tariff

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allPrices contient tous les champs de toutes les offres
var allPrices = Prices{
	FieldBasePrice: dec("0.2516"), FieldBasePriceWeekend: dec("0.2011"),
	FieldHCPrice: dec("0.2068"), FieldHPPrice: dec("0.2700"),
	FieldHCPriceWeekend: dec("0.1800"), FieldHPPriceWeekend: dec("0.2300"),
	FieldTempoBlueHC: dec("0.1296"), FieldTempoBlueHP: dec("0.1609"),
	FieldTempoWhiteHC: dec("0.1486"), FieldTempoWhiteHP: dec("0.1894"),
	FieldTempoRedHC: dec("0.1568"), FieldTempoRedHP: dec("0.7562"),
	FieldEJPNormal: dec("0.1230"), FieldEJPPeak: dec("1.0245"),
	FieldHCPriceWinter: dec("0.1500"), FieldHPPriceWinter: dec("0.2500"),
	FieldHCPriceSummer: dec("0.1000"), FieldHPPriceSummer: dec("0.1800"),
	FieldPeakDayPrice: dec("0.8000"),
	FieldHCPriceWeekday: dec("0.1600"), FieldHPPriceWeekday: dec("0.2100"),
}

func randomDataset(rng *rand.Rand, start time.Time, days int) models.ConsumptionDataset {
	var points []models.ConsumptionPoint
	for step := 0; step < days*48; step++ {
		if rng.IntN(4) == 0 {
			continue
		}
		ts := start.Add(time.Duration(step) * 30 * time.Minute)
		points = append(points, pt(ts, int64(rng.IntN(3000))))
	}
	// l'ordre des points ne doit pas influer sur le résultat
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	return models.ConsumptionDataset{
		Points:    points,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days-1),
	}
}

func TestAllCalculators_ConservationAndIdempotence(t *testing.T) {
	store := calendar.NewStore()
	store.SetColor(at(2024, 1, 10, 0, 0), calendar.Red)
	store.SetPeakDay(at(2024, 1, 11, 0, 0), true)

	rng := rand.New(rand.NewPCG(42, 7))
	datasets := map[string]models.ConsumptionDataset{
		"empty":      datasetOf(),
		"single":     datasetOf(pt(at(2024, 2, 29, 22, 30), 731)),
		"one week":   randomDataset(rng, at(2024, 1, 8, 0, 0), 7),
		"multi year": randomDataset(rng, at(2023, 6, 1, 0, 0), 800),
	}

	registry := newTestRegistry()
	for _, code := range registry.Codes() {
		calc, err := registry.Get(code, WithCalendar(store), WithLogger(testOptions().Logger))
		require.NoError(t, err)

		for name, dataset := range datasets {
			t.Run(string(code)+"/"+name, func(t *testing.T) {
				first, err := calc.Calculate(dataset, allPrices, dec("15.47"), nil)
				require.NoError(t, err)
				assertConservation(t, first)
				assert.Equal(t, string(code), first.OfferType)
				assert.Equal(t, dataset.DaysCount(), first.DaysCount)

				second, err := calc.Calculate(dataset, allPrices, dec("15.47"), nil)
				require.NoError(t, err)

				a, err := json.Marshal(first)
				require.NoError(t, err)
				b, err := json.Marshal(second)
				require.NoError(t, err)
				assert.Equal(t, string(a), string(b))
			})
		}
	}
}

func TestAllCalculators_ConcurrentCalls(t *testing.T) {
	registry := newTestRegistry()
	rng := rand.New(rand.NewPCG(1, 2))
	dataset := randomDataset(rng, at(2025, 1, 1, 0, 0), 31)

	for _, code := range registry.Codes() {
		calc, err := registry.Get(code)
		require.NoError(t, err)

		want, err := calc.Calculate(dataset, allPrices, dec("10"), nil)
		require.NoError(t, err)
		wantJSON, err := json.Marshal(want)
		require.NoError(t, err)

		done := make(chan string, 8)
		for range 8 {
			go func() {
				r, err := calc.Calculate(dataset, allPrices, dec("10"), nil)
				if err != nil {
					done <- err.Error()
					return
				}
				b, _ := json.Marshal(r)
				done <- string(b)
			}()
		}
		for range 8 {
			assert.Equal(t, string(wantJSON), <-done, code)
		}
	}
}
