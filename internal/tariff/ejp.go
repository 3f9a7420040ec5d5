package tariff

import (
	"tarif-engine/internal/calendar"
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// EJPCalculator effacement jour de pointe : prix normal, sauf les jours de pointe mobile
type EJPCalculator struct {
	common
	peakDays calendar.PeakDayProvider
}

func NewEJPCalculator(opts Options) *EJPCalculator {
	return &EJPCalculator{
		common: newCommon(Metadata{
			Code:                CodeEJP,
			Name:                "EJP",
			Description:         "Effacement Jour de Pointe : 22 jours de pointe mobile par hiver à prix élevé",
			Icon:                "alert-triangle",
			Color:               "#F59E0B",
			RequiredPriceFields: []string{FieldEJPNormal, FieldEJPPeak},
			OptionalPriceFields: []string{},
			DisplayOrder:        4,
		}, opts),
		peakDays: opts.PeakDays,
	}
}

func (c *EJPCalculator) Calculate(
	dataset models.ConsumptionDataset,
	prices Prices,
	subscriptionMonthly decimal.Decimal,
	_ schedule.Schedule,
) (models.CalculationResult, error) {
	if err := c.validate(dataset, prices); err != nil {
		return models.CalculationResult{}, err
	}

	b := newBreakdown()
	b.define("ejp_normal", "Jours Normaux", "#10B981", prices.Get(FieldEJPNormal))
	b.define("ejp_peak", "Jours de Pointe Mobile", "#DC2626", prices.Get(FieldEJPPeak))
	if len(dataset.Points) > 0 {
		b.keep("ejp_normal")
	}

	for _, p := range dataset.Points {
		if peak, _ := calendar.PeakDayOf(c.peakDays, p.Timestamp); peak {
			b.add("ejp_peak", p.ValueKwh())
		} else {
			b.add("ejp_normal", p.ValueKwh())
		}
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}
