package tariff

import (
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// IsWinter vrai de novembre à mars inclus
func IsWinter(t time.Time) bool {
	switch t.Month() {
	case time.November, time.December, time.January, time.February, time.March:
		return true
	}
	return false
}

// SeasonalCalculator HC/HP différenciés hiver/été, avec jours de pointe optionnels
type SeasonalCalculator struct {
	common
	peakDays calendar.PeakDayProvider
}

func NewSeasonalCalculator(opts Options) *SeasonalCalculator {
	return &SeasonalCalculator{
		common: newCommon(Metadata{
			Code:        CodeSeasonal,
			Name:        "Saisonnier",
			Description: "Prix HC/HP différents en hiver (novembre à mars) et en été, jours de pointe en option",
			Icon:        "thermometer",
			Color:       "#8B5CF6",
			RequiredPriceFields: []string{
				FieldHCPriceWinter, FieldHPPriceWinter,
				FieldHCPriceSummer, FieldHPPriceSummer,
			},
			OptionalPriceFields: []string{FieldPeakDayPrice},
			DisplayOrder:        5,
		}, opts),
		peakDays: opts.PeakDays,
	}
}

func (c *SeasonalCalculator) Calculate(
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
	b.define("hc_winter", "HC Hiver", "#60A5FA", prices.Get(FieldHCPriceWinter))
	b.define("hp_winter", "HP Hiver", "#1D4ED8", prices.Get(FieldHPPriceWinter))
	b.define("hc_summer", "HC Été", "#FDE68A", prices.Get(FieldHCPriceSummer))
	b.define("hp_summer", "HP Été", "#F59E0B", prices.Get(FieldHPPriceSummer))
	b.define("peak_day", "Jour de Pointe", "#DC2626", prices.Get(FieldPeakDayPrice))

	// seuls les jours de pointe connus comptent, pas d'estimation ici
	peakPricing := prices.Has(FieldPeakDayPrice) && c.peakDays != nil

	for _, p := range dataset.Points {
		if peakPricing {
			if peak, known := c.peakDays.IsPeakDay(p.Timestamp); known && peak {
				b.add("peak_day", p.ValueKwh())
				continue
			}
		}

		offPeak := hours.IsOffPeak(p.Timestamp)
		switch {
		case IsWinter(p.Timestamp) && offPeak:
			b.add("hc_winter", p.ValueKwh())
		case IsWinter(p.Timestamp):
			b.add("hp_winter", p.ValueKwh())
		case offPeak:
			b.add("hc_summer", p.ValueKwh())
		default:
			b.add("hp_summer", p.ValueKwh())
		}
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}
