package tariff

import (
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// BaseCalculator prix unique du kWh, avec un prix week-end optionnel
type BaseCalculator struct {
	common
}

func NewBaseCalculator(opts Options) *BaseCalculator {
	return &BaseCalculator{
		common: newCommon(Metadata{
			Code:                CodeBase,
			Name:                "Base",
			Description:         "Prix unique du kWh quelle que soit l'heure de consommation",
			Icon:                "zap",
			Color:               "#3B82F6",
			RequiredPriceFields: []string{FieldBasePrice},
			OptionalPriceFields: []string{FieldBasePriceWeekend},
			DisplayOrder:        1,
		}, opts),
	}
}

func (c *BaseCalculator) Calculate(
	dataset models.ConsumptionDataset,
	prices Prices,
	subscriptionMonthly decimal.Decimal,
	_ schedule.Schedule,
) (models.CalculationResult, error) {
	if err := c.validate(dataset, prices); err != nil {
		return models.CalculationResult{}, err
	}

	b := newBreakdown()

	if !prices.Has(FieldBasePriceWeekend) {
		b.define("base", "Base", "#3B82F6", prices.Get(FieldBasePrice))
		for _, p := range dataset.Points {
			b.add("base", p.ValueKwh())
		}
		return c.result(dataset, b, subscriptionMonthly), nil
	}

	b.define("base_weekday", "Semaine", "#3B82F6", prices.Get(FieldBasePrice))
	b.define("base_weekend", "Week-end", "#22C55E", prices.Get(FieldBasePriceWeekend))
	for _, p := range dataset.Points {
		if schedule.IsWeekend(p.Timestamp) {
			b.add("base_weekend", p.ValueKwh())
		} else {
			b.add("base_weekday", p.ValueKwh())
		}
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}
