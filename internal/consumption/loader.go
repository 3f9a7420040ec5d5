package consumption

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"tarif-engine/internal/models"
)

var (
	// ErrUnsupportedFormat extension de fichier non gérée
	ErrUnsupportedFormat = errors.New("unsupported consumption file format")
	// ErrBadRecord ligne ou entrée illisible
	ErrBadRecord = errors.New("bad consumption record")
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type jsonPoint struct {
	Timestamp       string `json:"timestamp"`
	ValueWh         int64  `json:"value_wh"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// LoadFile lit une courbe de charge CSV ou JSON. Les horodatages sans fuseau sont
// interprétés dans loc. Les bornes du jeu de données sont les dates du premier et du dernier point.
func LoadFile(filePath string, loc *time.Location) (models.ConsumptionDataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return models.ConsumptionDataset{}, fmt.Errorf("error opening consumption file: %w", err)
	}
	defer f.Close()

	var points []models.ConsumptionPoint
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".csv":
		points, err = ReadCSV(f, loc)
	case ".json":
		points, err = ReadJSON(f, loc)
	default:
		return models.ConsumptionDataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return models.ConsumptionDataset{}, err
	}

	return NewDataset(points), nil
}

// NewDataset trie les points et borne la période sur les jours du premier et du dernier point
func NewDataset(points []models.ConsumptionPoint) models.ConsumptionDataset {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	d := models.ConsumptionDataset{Points: points}
	if len(points) > 0 {
		d.StartDate = startOfDay(points[0].Timestamp)
		d.EndDate = startOfDay(points[len(points)-1].Timestamp)
	}
	return d
}

// WithBounds remplace les bornes de la période quand elles sont fournies
func WithBounds(d models.ConsumptionDataset, start, end time.Time) models.ConsumptionDataset {
	if !start.IsZero() {
		d.StartDate = startOfDay(start)
	}
	if !end.IsZero() {
		d.EndDate = startOfDay(end)
	}
	return d
}

// ReadCSV format : timestamp,value_wh[,interval_minutes] avec une ligne d'en-tête optionnelle
func ReadCSV(r io.Reader, loc *time.Location) ([]models.ConsumptionPoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var points []models.ConsumptionPoint
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected at least 2 fields", ErrBadRecord, line)
		}

		ts, err := ParseTimestamp(record[0], loc)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		wh, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: value_wh: %v", ErrBadRecord, line, err)
		}

		p := models.NewConsumptionPoint(ts, wh)
		if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
			interval, err := strconv.Atoi(strings.TrimSpace(record[2]))
			if err != nil || interval <= 0 {
				return nil, fmt.Errorf("%w: line %d: interval_minutes %q", ErrBadRecord, line, record[2])
			}
			p.IntervalMinutes = interval
		}
		points = append(points, p)
	}
	return points, nil
}

// ReadJSON format : tableau de {timestamp, value_wh, interval_minutes}
func ReadJSON(r io.Reader, loc *time.Location) ([]models.ConsumptionPoint, error) {
	var raw []jsonPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}

	points := make([]models.ConsumptionPoint, 0, len(raw))
	for i, jp := range raw {
		ts, err := ParseTimestamp(jp.Timestamp, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrBadRecord, i, err)
		}
		p := models.NewConsumptionPoint(ts, jp.ValueWh)
		if jp.IntervalMinutes > 0 {
			p.IntervalMinutes = jp.IntervalMinutes
		}
		points = append(points, p)
	}
	return points, nil
}

// ParseTimestamp accepte RFC3339 ou une heure civile locale "2006-01-02 15:04[:05]".
// Un horodatage avec fuseau est ramené à l'heure civile de loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
