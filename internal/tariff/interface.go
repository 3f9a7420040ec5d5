package tariff

import (
	"tarif-engine/internal/models"
	"tarif-engine/internal/schedule"

	"github.com/shopspring/decimal"
)

// Code identifiant stable d'une structure tarifaire
type Code string

const (
	CodeBase         Code = "BASE"
	CodeHCHP         Code = "HC_HP"
	CodeTempo        Code = "TEMPO"
	CodeEJP          Code = "EJP"
	CodeSeasonal     Code = "SEASONAL"
	CodeWeekend      Code = "WEEKEND"
	CodeNightWeekend Code = "HC_NUIT_WEEKEND"
)

// Metadata description d'une offre pour l'affichage du formulaire de saisie des prix
type Metadata struct {
	Code                Code     `json:"code"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Icon                string   `json:"icon"`
	Color               string   `json:"color"`
	RequiredPriceFields []string `json:"required_price_fields"`
	OptionalPriceFields []string `json:"optional_price_fields"`
	DisplayOrder        int      `json:"display_order"`
}

// Calculator interface commune aux structures tarifaires
type Calculator interface {
	// Calculate ventile la consommation par période et en calcule le coût.
	// custom remplace, jour par jour, le planning HC du jeu de données.
	Calculate(
		dataset models.ConsumptionDataset,
		prices Prices,
		subscriptionMonthly decimal.Decimal,
		custom schedule.Schedule,
	) (models.CalculationResult, error)

	// Metadata retourne la description de l'offre
	Metadata() Metadata

	// GetName retourne le nom affiché de l'offre
	GetName() string
}
