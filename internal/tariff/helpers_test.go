package tariff

import (
	"testing"
	"time"

	"tarif-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testOptions() Options {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // pas de logs pendant les tests
	return Options{Logger: logger}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func pt(ts time.Time, wh int64) models.ConsumptionPoint {
	return models.NewConsumptionPoint(ts, wh)
}

// datasetOf construit un jeu de données borné par le premier et le dernier point
func datasetOf(points ...models.ConsumptionPoint) models.ConsumptionDataset {
	d := models.ConsumptionDataset{Points: points}
	if len(points) == 0 {
		d.StartDate = at(2025, 1, 1, 0, 0)
		d.EndDate = d.StartDate
		return d
	}
	d.StartDate, d.EndDate = points[0].Timestamp, points[0].Timestamp
	for _, p := range points {
		if p.Timestamp.Before(d.StartDate) {
			d.StartDate = p.Timestamp
		}
		if p.Timestamp.After(d.EndDate) {
			d.EndDate = p.Timestamp
		}
	}
	return d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", label, want, got.String())
}

func assertPeriod(t *testing.T, r models.CalculationResult, code, kwh, cost string) {
	t.Helper()
	p, ok := r.Period(code)
	if !assert.True(t, ok, "period %s missing", code) {
		return
	}
	assertDecimal(t, kwh, p.ConsumptionKwh, code+" kwh")
	assertDecimal(t, cost, p.CostEuros, code+" cost")
}

func periodCodes(r models.CalculationResult) []string {
	codes := make([]string, len(r.Periods))
	for i, p := range r.Periods {
		codes[i] = p.Code
	}
	return codes
}

// assertConservation la ventilation conserve énergie, coût et pourcentages
func assertConservation(t *testing.T, r models.CalculationResult) {
	t.Helper()

	kwh, cost, pct := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range r.Periods {
		kwh = kwh.Add(p.ConsumptionKwh)
		cost = cost.Add(p.CostEuros)
		pct = pct.Add(p.Percentage)
		assert.True(t, p.ConsumptionKwh.Mul(p.UnitPrice).Equal(p.CostEuros), "cost of %s", p.Code)
	}

	assert.True(t, kwh.Equal(r.TotalKwh), "energy: %s != %s", kwh, r.TotalKwh)
	assert.True(t, cost.Equal(r.TotalCostEuros), "cost: %s != %s", cost, r.TotalCostEuros)
	assert.True(t, r.TotalWithSubscription.Equal(r.TotalCostEuros.Add(r.SubscriptionCostEuros)))

	if r.TotalKwh.IsZero() {
		assert.True(t, pct.IsZero())
		assert.True(t, r.TotalCostEuros.IsZero())
	} else {
		assert.InDelta(t, 100.0, pct.InexactFloat64(), 0.5)
	}
}
