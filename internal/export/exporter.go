package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tarif-engine/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// ErrUnsupportedFormat format d'export inconnu
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Exporter écrit un résultat de calcul dans un répertoire de sortie
type Exporter struct {
	dir string
	now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, now: time.Now}
}

// Export écrit le résultat au format demandé et retourne le chemin absolu du fichier
func (e *Exporter) Export(result models.CalculationResult, format, name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return e.ExportToCSV(result, name)
	case FormatJSON:
		return e.ExportToJSON(result, name)
	case FormatPDF:
		return e.ExportToPDF(result, name)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ParseFormats "csv, pdf" -> [csv pdf], sans doublon
func ParseFormats(s string) ([]string, error) {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		switch f {
		case FormatCSV, FormatJSON, FormatPDF:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

func (e *Exporter) ExportToCSV(result models.CalculationResult, name string) (string, error) {
	outputFilename, err := e.generateFilename(name, FormatCSV)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"offer_type", "period_code", "period_name", "consumption_kwh", "unit_price", "cost_euros", "percentage"}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, p := range result.Periods {
		record := []string{
			result.OfferType,
			p.Code,
			p.Name,
			p.ConsumptionKwh.StringFixed(3),
			p.UnitPrice.String(),
			p.CostEuros.StringFixed(2),
			p.Percentage.StringFixed(1),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	totals := [][]string{
		{result.OfferType, "subscription", "Abonnement", "", "", result.SubscriptionCostEuros.StringFixed(2), ""},
		{result.OfferType, "total", "Total", result.TotalKwh.StringFixed(3), "", result.TotalWithSubscription.StringFixed(2), ""},
	}
	if err := writer.WriteAll(totals); err != nil {
		return "", fmt.Errorf("error writing CSV totals: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (e *Exporter) ExportToJSON(result models.CalculationResult, name string) (string, error) {
	outputFilename, err := e.generateFilename(name, FormatJSON)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (e *Exporter) ExportToPDF(result models.CalculationResult, name string) (string, error) {
	outputFilename, err := e.generateFilename(name, FormatPDF)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s (%s)", result.OfferName, result.OfferType)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  %d jours", result.DaysCount)), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, tr("Détail par période"))
	pdf.Ln(7)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)

	widths := []float64{70, 30, 30, 35, 25}
	headers := []string{"Période", "kWh", "€/kWh", "Coût (€)", "%"}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, p := range result.Periods {
		if r, g, b, ok := hexColor(p.Color); ok {
			pdf.SetFillColor(r, g, b)
			pdf.Rect(pdf.GetX(), pdf.GetY()+2, 3, 3, "F")
		}
		pdf.CellFormat(widths[0], 7, tr("    "+p.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, p.ConsumptionKwh.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, p.UnitPrice.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, p.CostEuros.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, p.Percentage.StringFixed(1), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	summary := [][2]string{
		{"Consommation totale", result.TotalKwh.StringFixed(3) + " kWh"},
		{"Coût consommation", result.TotalCostEuros.StringFixed(2) + " €"},
		{"Abonnement", result.SubscriptionCostEuros.StringFixed(2) + " €"},
		{"Total TTC", result.TotalWithSubscription.StringFixed(2) + " €"},
		{"Prix moyen", result.AveragePriceKwh().StringFixed(4) + " €/kWh"},
		{"Coût moyen par jour", result.DailyAverageCost().StringFixed(2) + " €"},
	}
	for i, row := range summary {
		style := ""
		if i == 3 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(100, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("tarif-engine | %s", e.now().Format("2006-01-02"))), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// generateFilename nom horodaté dans le répertoire de sortie, créé au besoin
func (e *Exporter) generateFilename(base, ext string) (string, error) {
	dir := e.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	if base == "" {
		base = "tarif"
	}
	timestamp := e.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// hexColor "#3B82F6" -> 59, 130, 246
func hexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v>>16&0xff), int(v>>8&0xff), int(v&0xff), true
}
