package models

import (
	"errors"
	"fmt"
	"time"

	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// DefaultIntervalMinutes pas de mesure par défaut des courbes de charge
const DefaultIntervalMinutes = 30

// ErrInvalidPeriod la date de fin précède la date de début
var ErrInvalidPeriod = errors.New("invalid dataset period")

var whPerKwh = decimal.NewFromInt(1000)

type ConsumptionPoint struct {
	Timestamp       time.Time
	ValueWh         int64
	IntervalMinutes int
}

func NewConsumptionPoint(ts time.Time, valueWh int64) ConsumptionPoint {
	return ConsumptionPoint{
		Timestamp:       ts,
		ValueWh:         valueWh,
		IntervalMinutes: DefaultIntervalMinutes,
	}
}

// ValueKwh énergie du point en kWh, sans perte de précision
func (p ConsumptionPoint) ValueKwh() decimal.Decimal {
	return decimal.NewFromInt(p.ValueWh).Div(whPerKwh)
}

// ConsumptionDataset courbe de consommation sur une période [StartDate, EndDate]
type ConsumptionDataset struct {
	Points    []ConsumptionPoint
	StartDate time.Time
	EndDate   time.Time
	Schedule  schedule.Schedule
}

func (d ConsumptionDataset) TotalKwh() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Points {
		total = total.Add(p.ValueKwh())
	}
	return total
}

// DaysCount nombre de jours civils couverts, bornes incluses
func (d ConsumptionDataset) DaysCount() int {
	return civilDays(d.EndDate) - civilDays(d.StartDate) + 1
}

func (d ConsumptionDataset) Validate() error {
	if d.DaysCount() < 1 {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidPeriod,
			d.EndDate.Format(time.DateOnly), d.StartDate.Format(time.DateOnly))
	}
	return nil
}

// civilDays numérote les jours civils indépendamment du fuseau et des changements d'heure
func civilDays(t time.Time) int {
	y, m, day := t.Date()
	return int(time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

type PeriodBreakdown struct {
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	ConsumptionKwh decimal.Decimal `json:"consumption_kwh"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	CostEuros      decimal.Decimal `json:"cost_euros"`
	Color          string          `json:"color,omitempty"`
	Percentage     decimal.Decimal `json:"percentage"`
}

type CalculationResult struct {
	TotalKwh              decimal.Decimal   `json:"total_kwh"`
	TotalCostEuros        decimal.Decimal   `json:"total_cost_euros"`
	SubscriptionCostEuros decimal.Decimal   `json:"subscription_cost_euros"`
	TotalWithSubscription decimal.Decimal   `json:"total_with_subscription"`
	Periods               []PeriodBreakdown `json:"periods"`
	OfferType             string            `json:"offer_type"`
	OfferName             string            `json:"offer_name"`
	DaysCount             int               `json:"days_count"`
}

// AveragePriceKwh prix moyen du kWh hors abonnement
func (r CalculationResult) AveragePriceKwh() decimal.Decimal {
	if r.TotalKwh.IsZero() {
		return decimal.Zero
	}
	return r.TotalCostEuros.Div(r.TotalKwh)
}

func (r CalculationResult) DailyAverageKwh() decimal.Decimal {
	if r.DaysCount <= 0 {
		return decimal.Zero
	}
	return r.TotalKwh.Div(decimal.NewFromInt(int64(r.DaysCount)))
}

// DailyAverageCost coût moyen journalier abonnement compris
func (r CalculationResult) DailyAverageCost() decimal.Decimal {
	if r.DaysCount <= 0 {
		return decimal.Zero
	}
	return r.TotalWithSubscription.Div(decimal.NewFromInt(int64(r.DaysCount)))
}

// Period retourne la période de code donné
func (r CalculationResult) Period(code string) (PeriodBreakdown, bool) {
	for _, p := range r.Periods {
		if p.Code == code {
			return p, true
		}
	}
	return PeriodBreakdown{}, false
}
