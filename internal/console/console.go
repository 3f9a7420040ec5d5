package console

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/models"
	"tarif-engine/internal/tariff"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Console affichage terminal des offres, résultats et classifications
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// Couleurs des jours TEMPO
var (
	tempoBlue  = color.New(color.BgBlue, color.FgWhite, color.Bold).SprintFunc()
	tempoWhite = color.New(color.BgWhite, color.FgBlack, color.Bold).SprintFunc()
	tempoRed   = color.New(color.BgRed, color.FgWhite, color.Bold).SprintFunc()
	offPeak    = color.New(color.FgGreen, color.Bold).SprintFunc()
	peak       = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// ColorLabel étiquette colorée d'un jour TEMPO, marquée quand la couleur est estimée
func ColorLabel(c calendar.Color, known bool) string {
	var label string
	switch c {
	case calendar.Red:
		label = tempoRed(" ROUGE ")
	case calendar.White:
		label = tempoWhite(" BLANC ")
	default:
		label = tempoBlue(" BLEU ")
	}
	if !known {
		label += " (estimé)"
	}
	return label
}

func PeriodLabel(isOffPeak bool) string {
	if isOffPeak {
		return offPeak("HC")
	}
	return peak("HP")
}

func render(data pterm.TableData) string {
	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data)

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Sprintf("table error: %v", err)
	}
	return rendered
}

// RenderOffers tableau des structures tarifaires disponibles
func RenderOffers(metas []tariff.Metadata) string {
	data := pterm.TableData{{"#", "Code", "Nom", "Prix requis", "Prix optionnels"}}
	for _, m := range metas {
		data = append(data, []string{
			strconv.Itoa(m.DisplayOrder),
			string(m.Code),
			m.Name,
			joinFields(m.RequiredPriceFields),
			joinFields(m.OptionalPriceFields),
		})
	}
	return render(data)
}

// RenderResult tableau de répartition par période suivi des totaux
func RenderResult(result models.CalculationResult) string {
	data := pterm.TableData{{"Période", "kWh", "€/kWh", "Coût (€)", "%"}}
	for _, p := range result.Periods {
		data = append(data, []string{
			p.Name,
			p.ConsumptionKwh.StringFixed(3),
			p.UnitPrice.String(),
			p.CostEuros.StringFixed(2),
			p.Percentage.StringFixed(1),
		})
	}

	summary := pterm.TableData{
		{"Offre", fmt.Sprintf("%s (%s)", result.OfferName, result.OfferType)},
		{"Jours", strconv.Itoa(result.DaysCount)},
		{"Consommation", result.TotalKwh.StringFixed(3) + " kWh"},
		{"Coût consommation", result.TotalCostEuros.StringFixed(2) + " €"},
		{"Abonnement", result.SubscriptionCostEuros.StringFixed(2) + " €"},
		{"Total", result.TotalWithSubscription.StringFixed(2) + " €"},
		{"Prix moyen", result.AveragePriceKwh().StringFixed(4) + " €/kWh"},
		{"Moyenne journalière", result.DailyAverageKwh().StringFixed(2) + " kWh / " + result.DailyAverageCost().StringFixed(2) + " €"},
	}

	totals, err := pterm.DefaultTable.WithBoxed().WithData(summary).Srender()
	if err != nil {
		totals = fmt.Sprintf("table error: %v", err)
	}
	return render(data) + "\n" + totals
}

func (c *Console) PrintOffers(metas []tariff.Metadata) {
	c.Println(RenderOffers(metas))
}

func (c *Console) PrintResult(result models.CalculationResult) {
	c.Println(RenderResult(result))
}

func (c *Console) PrintClassification(cl Classification) {
	c.Println(cl.Render())
}

func joinFields(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	s := fields[0]
	for _, f := range fields[1:] {
		s += ", " + f
	}
	return s
}
