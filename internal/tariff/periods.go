package tariff

import (
	"tarif-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// averageDaysPerMonth base de proratisation de l'abonnement mensuel
var averageDaysPerMonth = decimal.RequireFromString("30.44")

var hundred = decimal.NewFromInt(100)

type bucket struct {
	code   string
	name   string
	color  string
	price  decimal.Decimal
	kwh    decimal.Decimal
	always bool
}

// breakdown accumulateur ordonné des consommations par période
type breakdown struct {
	buckets []*bucket
	index   map[string]*bucket
}

func newBreakdown() *breakdown {
	return &breakdown{index: make(map[string]*bucket)}
}

func (b *breakdown) define(code, name, color string, price decimal.Decimal) {
	bk := &bucket{code: code, name: name, color: color, price: price}
	b.buckets = append(b.buckets, bk)
	b.index[code] = bk
}

// keep force l'émission de la période même à consommation nulle
func (b *breakdown) keep(code string) {
	if bk, ok := b.index[code]; ok {
		bk.always = true
	}
}

func (b *breakdown) add(code string, kwh decimal.Decimal) {
	bk, ok := b.index[code]
	if !ok {
		panic("tariff: undefined period " + code)
	}
	bk.kwh = bk.kwh.Add(kwh)
}

func (b *breakdown) kwh(code string) decimal.Decimal {
	if bk, ok := b.index[code]; ok {
		return bk.kwh
	}
	return decimal.Zero
}

func (b *breakdown) periods(total decimal.Decimal) []models.PeriodBreakdown {
	periods := make([]models.PeriodBreakdown, 0, len(b.buckets))
	for _, bk := range b.buckets {
		if bk.kwh.IsZero() && !bk.always {
			continue
		}

		percentage := decimal.Zero
		if !total.IsZero() {
			percentage = bk.kwh.Div(total).Mul(hundred).Round(1)
		}

		periods = append(periods, models.PeriodBreakdown{
			Name:           bk.name,
			Code:           bk.code,
			ConsumptionKwh: bk.kwh,
			UnitPrice:      bk.price,
			CostEuros:      bk.kwh.Mul(bk.price),
			Color:          bk.color,
			Percentage:     percentage,
		})
	}
	return periods
}

// SubscriptionCost abonnement mensuel proratisé au nombre de jours
func SubscriptionCost(subscriptionMonthly decimal.Decimal, days int) decimal.Decimal {
	return subscriptionMonthly.Mul(decimal.NewFromInt(int64(days))).Div(averageDaysPerMonth)
}

// common socle partagé par les calculateurs : métadonnées, logger et assemblage du résultat
type common struct {
	meta   Metadata
	logger *logrus.Logger
}

func newCommon(meta Metadata, opts Options) common {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return common{meta: meta, logger: logger}
}

func (c common) Metadata() Metadata {
	return c.meta
}

func (c common) GetName() string {
	return c.meta.Name
}

// validate contrôles communs avant tout calcul
func (c common) validate(dataset models.ConsumptionDataset, prices Prices) error {
	if err := dataset.Validate(); err != nil {
		return err
	}
	return prices.Require(c.meta.RequiredPriceFields...)
}

func (c common) result(dataset models.ConsumptionDataset, b *breakdown, subscriptionMonthly decimal.Decimal) models.CalculationResult {
	total := dataset.TotalKwh()
	periods := b.periods(total)

	totalCost := decimal.Zero
	for _, p := range periods {
		totalCost = totalCost.Add(p.CostEuros)
	}

	days := dataset.DaysCount()
	subscription := SubscriptionCost(subscriptionMonthly, days)

	result := models.CalculationResult{
		TotalKwh:              total,
		TotalCostEuros:        totalCost,
		SubscriptionCostEuros: subscription,
		TotalWithSubscription: totalCost.Add(subscription),
		Periods:               periods,
		OfferType:             string(c.meta.Code),
		OfferName:             c.meta.Name,
		DaysCount:             days,
	}

	c.logger.Debugf("%s: %d points, %s kWh, %s € over %d days (%d periods)",
		c.meta.Code, len(dataset.Points), total.StringFixed(3), result.TotalWithSubscription.StringFixed(2),
		days, len(periods))

	return result
}
