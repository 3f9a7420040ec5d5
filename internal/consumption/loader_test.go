package consumption

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "timestamp,value_wh,interval_minutes\n" +
		"2025-01-15 22:30,500,30\n" +
		"2025-01-15T23:00:00+01:00,250\n" +
		"2025-01-16 00:00:00,125,60\n"

	points, err := ReadCSV(strings.NewReader(input), time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, time.Date(2025, 1, 15, 22, 30, 0, 0, time.UTC), points[0].Timestamp)
	assert.Equal(t, int64(500), points[0].ValueWh)
	assert.Equal(t, 30, points[1].IntervalMinutes)
	assert.Equal(t, 22, points[1].Timestamp.Hour())
	assert.Equal(t, 60, points[2].IntervalMinutes)
}

func TestReadCSV_WithoutHeader(t *testing.T) {
	points, err := ReadCSV(strings.NewReader("2025-01-15 12:00,1000\n"), time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(points[0].ValueKwh()))
}

func TestReadCSV_BadRecords(t *testing.T) {
	for _, input := range []string{
		"timestamp,value_wh\n2025-01-15 12:00\n",
		"timestamp,value_wh\n15/01/2025 12:00,100\n",
		"timestamp,value_wh\n2025-01-15 12:00,abc\n",
		"timestamp,value_wh,interval_minutes\n2025-01-15 12:00,100,-5\n",
	} {
		_, err := ReadCSV(strings.NewReader(input), time.UTC)
		assert.ErrorIs(t, err, ErrBadRecord, input)
	}

	_, err := ReadCSV(strings.NewReader("timestamp,value_wh\n2025-01-15 12:00,abc\n"), time.UTC)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"timestamp": "2025-01-16T06:30:00Z", "value_wh": 300},
		{"timestamp": "2025-01-15 22:30", "value_wh": 500, "interval_minutes": 15}
	]`

	points, err := ReadJSON(strings.NewReader(input), time.UTC)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 30, points[0].IntervalMinutes)
	assert.Equal(t, 15, points[1].IntervalMinutes)

	_, err = ReadJSON(strings.NewReader(`[{"timestamp": "yesterday", "value_wh": 1}]`), time.UTC)
	assert.ErrorIs(t, err, ErrBadRecord)

	_, err = ReadJSON(strings.NewReader(`{`), time.UTC)
	assert.ErrorIs(t, err, ErrBadRecord)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conso.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"timestamp,value_wh\n2025-01-17 08:00,100\n2025-01-15 22:30,500\n"), 0o600))

	d, err := LoadFile(path, time.UTC)
	require.NoError(t, err)

	require.Len(t, d.Points, 2)
	assert.Equal(t, 15, d.Points[0].Timestamp.Day(), "points are sorted")
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), d.StartDate)
	assert.Equal(t, time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), d.EndDate)
	assert.Equal(t, 3, d.DaysCount())

	_, err = LoadFile(filepath.Join(dir, "conso.xml"), time.UTC)
	assert.Error(t, err)

	xml := filepath.Join(dir, "conso.xml")
	require.NoError(t, os.WriteFile(xml, []byte("<x/>"), 0o600))
	_, err = LoadFile(xml, time.UTC)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWithBounds(t *testing.T) {
	d := NewDataset(nil)
	start := time.Date(2025, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	d = WithBounds(d, start, end)
	assert.Equal(t, 31, d.DaysCount())

	d = WithBounds(d, time.Time{}, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 59, d.DaysCount())
}

func TestParseTimestamp_ConvertsToLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	ts, err := ParseTimestamp("2025-01-15T21:30:00Z", paris)
	require.NoError(t, err)
	assert.Equal(t, 22, ts.Hour())
	assert.Equal(t, 30, ts.Minute())

	ts, err = ParseTimestamp("2025-07-15 22:30", paris)
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 7200, offset)
}
