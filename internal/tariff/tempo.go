package tariff

import (
	"tarif-engine/internal/calendar"
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

type tempoPeriod struct {
	color calendar.Color
	field string
	name  string
	hint  string
}

// ordre d'affichage des six périodes TEMPO
var tempoPeriods = [2][3]tempoPeriod{
	{ // heures creuses
		{calendar.Blue, FieldTempoBlueHC, "Bleu HC", "#93C5FD"},
		{calendar.White, FieldTempoWhiteHC, "Blanc HC", "#F3F4F6"},
		{calendar.Red, FieldTempoRedHC, "Rouge HC", "#FCA5A5"},
	},
	{ // heures pleines
		{calendar.Blue, FieldTempoBlueHP, "Bleu HP", "#2563EB"},
		{calendar.White, FieldTempoWhiteHP, "Blanc HP", "#D1D5DB"},
		{calendar.Red, FieldTempoRedHP, "Rouge HP", "#DC2626"},
	},
}

// TempoCalculator six prix : couleur du jour (bleu, blanc, rouge) x HC/HP
type TempoCalculator struct {
	common
	colors calendar.ColorProvider
}

func NewTempoCalculator(opts Options) *TempoCalculator {
	return &TempoCalculator{
		common: newCommon(Metadata{
			Code:        CodeTempo,
			Name:        "Tempo",
			Description: "Prix selon la couleur du jour (bleu, blanc, rouge) et la plage HC/HP",
			Icon:        "calendar",
			Color:       "#EF4444",
			RequiredPriceFields: []string{
				FieldTempoBlueHC, FieldTempoBlueHP,
				FieldTempoWhiteHC, FieldTempoWhiteHP,
				FieldTempoRedHC, FieldTempoRedHP,
			},
			OptionalPriceFields: []string{},
			DisplayOrder:        3,
		}, opts),
		colors: opts.Colors,
	}
}

func (c *TempoCalculator) Calculate(
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
	for _, color := range []calendar.Color{calendar.Blue, calendar.White, calendar.Red} {
		for slot := range tempoPeriods {
			p := tempoPeriods[slot][color]
			b.define(p.field, "Tempo "+p.name, p.hint, prices.Get(p.field))
		}
	}

	estimated := make(map[string]struct{})
	for _, p := range dataset.Points {
		color, known := calendar.ColorOf(c.colors, p.Timestamp)
		if !known {
			estimated[calendar.DateKey(p.Timestamp)] = struct{}{}
		}

		slot := 1
		if hours.IsOffPeak(p.Timestamp) {
			slot = 0
		}
		b.add(tempoPeriods[slot][color].field, p.ValueKwh())
	}

	if len(estimated) > 0 {
		c.logger.Debugf("TEMPO: %d day(s) without calendar entry, color estimated", len(estimated))
	}

	return c.result(dataset, b, subscriptionMonthly), nil
}
