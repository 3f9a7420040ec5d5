package tariff

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingRequiredPrice un prix obligatoire de l'offre est absent
var ErrMissingRequiredPrice = errors.New("missing required price")

// Champs de prix (€/kWh TTC)
const (
	FieldBasePrice        = "base_price"
	FieldBasePriceWeekend = "base_price_weekend"

	FieldHCPrice        = "hc_price"
	FieldHPPrice        = "hp_price"
	FieldHCPriceWeekend = "hc_price_weekend"
	FieldHPPriceWeekend = "hp_price_weekend"

	FieldTempoBlueHC  = "tempo_blue_hc"
	FieldTempoBlueHP  = "tempo_blue_hp"
	FieldTempoWhiteHC = "tempo_white_hc"
	FieldTempoWhiteHP = "tempo_white_hp"
	FieldTempoRedHC   = "tempo_red_hc"
	FieldTempoRedHP   = "tempo_red_hp"

	FieldEJPNormal = "ejp_normal"
	FieldEJPPeak   = "ejp_peak"

	FieldHCPriceWinter = "hc_price_winter"
	FieldHPPriceWinter = "hp_price_winter"
	FieldHCPriceSummer = "hc_price_summer"
	FieldHPPriceSummer = "hp_price_summer"
	FieldPeakDayPrice  = "peak_day_price"

	FieldHCPriceWeekday = "hc_price_weekday"
	FieldHPPriceWeekday = "hp_price_weekday"
)

// Prices prix unitaires d'une offre, indexés par nom de champ
type Prices map[string]decimal.Decimal

// PricesFromFloats convertit des prix lus depuis la configuration
func PricesFromFloats(m map[string]float64) Prices {
	p := make(Prices, len(m))
	for k, v := range m {
		p[strings.ToLower(strings.TrimSpace(k))] = decimal.NewFromFloat(v)
	}
	return p
}

// PricesFromStrings convertit des prix saisis sous forme texte ("0,2516" accepté)
func PricesFromStrings(m map[string]string) (Prices, error) {
	p := make(Prices, len(m))
	for k, v := range m {
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", k, err)
		}
		p[strings.ToLower(strings.TrimSpace(k))] = d
	}
	return p, nil
}

func (p Prices) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// Get retourne le prix du champ, zéro s'il est absent
func (p Prices) Get(field string) decimal.Decimal {
	return p[field]
}

// GetOr retourne le prix du champ ou la valeur de repli
func (p Prices) GetOr(field string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := p[field]; ok {
		return v
	}
	return fallback
}

// Require vérifie la présence de tous les champs, et les liste tous en cas d'absence
func (p Prices) Require(fields ...string) error {
	var missing []string
	for _, f := range fields {
		if !p.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingRequiredPrice, strings.Join(missing, ", "))
}
