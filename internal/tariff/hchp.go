package tariff

import (
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// HCHPCalculator heures creuses / heures pleines, avec prix week-end optionnels
type HCHPCalculator struct {
	common
}

func NewHCHPCalculator(opts Options) *HCHPCalculator {
	return &HCHPCalculator{
		common: newCommon(Metadata{
			Code:                CodeHCHP,
			Name:                "Heures Creuses / Heures Pleines",
			Description:         "Deux prix selon la plage horaire, heures creuses définies par le planning du compteur",
			Icon:                "clock",
			Color:               "#10B981",
			RequiredPriceFields: []string{FieldHCPrice, FieldHPPrice},
			OptionalPriceFields: []string{FieldHCPriceWeekend, FieldHPPriceWeekend},
			DisplayOrder:        2,
		}, opts),
	}
}

func (c *HCHPCalculator) Calculate(
	dataset models.ConsumptionDataset,
	prices Prices,
	subscriptionMonthly decimal.Decimal,
	custom schedule.Schedule,
) (models.CalculationResult, error) {
	if err := c.validate(dataset, prices); err != nil {
		return models.CalculationResult{}, err
	}

	hours, err := schedule.Resolve(custom, dataset.Schedule)
	if err != nil {
		return models.CalculationResult{}, err
	}

	hc := prices.Get(FieldHCPrice)
	hp := prices.Get(FieldHPPrice)
	weekendSplit := prices.Has(FieldHCPriceWeekend) || prices.Has(FieldHPPriceWeekend)

	b := newBreakdown()
	b.define("hc", "Heures Creuses", "#10B981", hc)
	b.define("hp", "Heures Pleines", "#F97316", hp)
	b.define("hc_weekend", "HC Week-end", "#34D399", prices.GetOr(FieldHCPriceWeekend, hc))
	b.define("hp_weekend", "HP Week-end", "#FB923C", prices.GetOr(FieldHPPriceWeekend, hp))

	for _, p := range dataset.Points {
		offPeak := hours.IsOffPeak(p.Timestamp)
		weekend := weekendSplit && schedule.IsWeekend(p.Timestamp)

		switch {
		case weekend && offPeak:
			b.add("hc_weekend", p.ValueKwh())
		case weekend:
			b.add("hp_weekend", p.ValueKwh())
		case offPeak:
			b.add("hc", p.ValueKwh())
		default:
			b.add("hp", p.ValueKwh())
		}
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}
