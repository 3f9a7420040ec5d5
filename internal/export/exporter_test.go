package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tarif-engine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExporter(t *testing.T) *Exporter {
	t.Helper()
	e := NewExporter(filepath.Join(t.TempDir(), "out"))
	e.now = func() time.Time { return time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC) }
	return e
}

func sampleResult() models.CalculationResult {
	return models.CalculationResult{
		TotalKwh:              decimal.RequireFromString("12.3456"),
		TotalCostEuros:        decimal.RequireFromString("2.456789"),
		SubscriptionCostEuros: decimal.RequireFromString("0.657"),
		TotalWithSubscription: decimal.RequireFromString("3.113789"),
		Periods: []models.PeriodBreakdown{{
			Name:           "Tempo Bleu HC",
			Code:           "tempo_blue_hc",
			ConsumptionKwh: decimal.RequireFromString("12.3456"),
			UnitPrice:      decimal.RequireFromString("0.1296"),
			CostEuros:      decimal.RequireFromString("2.456789"),
			Color:          "#3B82F6",
			Percentage:     decimal.NewFromInt(100),
		}},
		OfferType: "TEMPO",
		OfferName: "Tempo",
		DaysCount: 1,
	}
}

func TestExportCSV(t *testing.T) {
	e := testExporter(t)

	path, err := e.Export(sampleResult(), "CSV", "rapport")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "rapport_20250201_103000.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "period_code", records[0][1])
	assert.Equal(t, []string{"TEMPO", "tempo_blue_hc", "Tempo Bleu HC", "12.346", "0.1296", "2.46", "100.0"}, records[1])
	assert.Equal(t, "0.66", records[2][5])
	assert.Equal(t, "3.11", records[3][5])
}

func TestExportJSON_FullPrecision(t *testing.T) {
	e := testExporter(t)

	path, err := e.Export(sampleResult(), FormatJSON, "rapport")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded models.CalculationResult
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "3.113789", decoded.TotalWithSubscription.String())
	assert.Equal(t, "TEMPO", decoded.OfferType)
}

func TestExportPDF(t *testing.T) {
	e := testExporter(t)

	path, err := e.Export(sampleResult(), FormatPDF, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "tarif_"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := testExporter(t).Export(sampleResult(), "xlsx", "rapport")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormats(t *testing.T) {
	formats, err := ParseFormats(" csv,PDF,,csv ")
	require.NoError(t, err)
	assert.Equal(t, []string{"csv", "pdf"}, formats)

	_, err = ParseFormats("json,docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHexColor(t *testing.T) {
	r, g, b, ok := hexColor("#3B82F6")
	require.True(t, ok)
	assert.Equal(t, []int{59, 130, 246}, []int{r, g, b})

	_, _, _, ok = hexColor("blue")
	assert.False(t, ok)
}
