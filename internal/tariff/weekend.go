package tariff

import (
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// WeekendCalculator HC/HP avec des prix distincts en semaine et le week-end
type WeekendCalculator struct {
	common
}

func NewWeekendCalculator(opts Options) *WeekendCalculator {
	return &WeekendCalculator{
		common: newCommon(Metadata{
			Code:        CodeWeekend,
			Name:        "Week-end",
			Description: "Prix HC/HP de semaine et prix HC/HP réduits le samedi et le dimanche",
			Icon:        "calendar-days",
			Color:       "#06B6D4",
			RequiredPriceFields: []string{
				FieldHCPriceWeekday, FieldHPPriceWeekday,
				FieldHCPriceWeekend, FieldHPPriceWeekend,
			},
			OptionalPriceFields: []string{},
			DisplayOrder:        6,
		}, opts),
	}
}

func (c *WeekendCalculator) Calculate(
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

	b := newBreakdown()
	b.define("hc_weekday", "HC Semaine", "#10B981", prices.Get(FieldHCPriceWeekday))
	b.define("hp_weekday", "HP Semaine", "#F97316", prices.Get(FieldHPPriceWeekday))
	b.define("hc_weekend", "HC Week-end", "#34D399", prices.Get(FieldHCPriceWeekend))
	b.define("hp_weekend", "HP Week-end", "#FB923C", prices.Get(FieldHPPriceWeekend))

	for _, p := range dataset.Points {
		offPeak := hours.IsOffPeak(p.Timestamp)
		weekend := schedule.IsWeekend(p.Timestamp)

		switch {
		case weekend && offPeak:
			b.add("hc_weekend", p.ValueKwh())
		case weekend:
			b.add("hp_weekend", p.ValueKwh())
		case offPeak:
			b.add("hc_weekday", p.ValueKwh())
		default:
			b.add("hp_weekday", p.ValueKwh())
		}
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}

// NightWeekendCalculator heures creuses la nuit (23h-6h) et tout le week-end
type NightWeekendCalculator struct {
	common
}

func NewNightWeekendCalculator(opts Options) *NightWeekendCalculator {
	return &NightWeekendCalculator{
		common: newCommon(Metadata{
			Code:                CodeNightWeekend,
			Name:                "HC Nuit & Week-end",
			Description:         "Heures creuses de 23h à 6h en semaine et tout le week-end",
			Icon:                "moon",
			Color:               "#6366F1",
			RequiredPriceFields: []string{FieldHCPrice, FieldHPPrice},
			OptionalPriceFields: []string{},
			DisplayOrder:        7,
		}, opts),
	}
}

// IsNightOffPeak plage fixe de nuit, le planning du compteur est ignoré
func IsNightOffPeak(hour int) bool {
	return hour >= 23 || hour < 6
}

func (c *NightWeekendCalculator) Calculate(
	dataset models.ConsumptionDataset,
	prices Prices,
	subscriptionMonthly decimal.Decimal,
	_ schedule.Schedule,
) (models.CalculationResult, error) {
	if err := c.validate(dataset, prices); err != nil {
		return models.CalculationResult{}, err
	}

	hc := prices.Get(FieldHCPrice)
	hp := prices.Get(FieldHPPrice)

	night, weekend, peak := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range dataset.Points {
		switch {
		case schedule.IsWeekend(p.Timestamp):
			weekend = weekend.Add(p.ValueKwh())
		case IsNightOffPeak(p.Timestamp.Hour()):
			night = night.Add(p.ValueKwh())
		default:
			peak = peak.Add(p.ValueKwh())
		}
	}

	b := newBreakdown()
	if !night.IsZero() && !weekend.IsZero() {
		b.define("hc_night", "HC Nuit", "#6366F1", hc)
		b.define("hc_weekend", "HC Week-end", "#A78BFA", hc)
		b.add("hc_night", night)
		b.add("hc_weekend", weekend)
	} else {
		b.define("hc", "Heures Creuses", "#6366F1", hc)
		b.add("hc", night.Add(weekend))
	}
	b.define("hp", "Heures Pleines", "#F97316", hp)
	b.add("hp", peak)

	return c.result(dataset, b, subscriptionMonthly), nil
}
