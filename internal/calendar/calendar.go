package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownColor couleur TEMPO non reconnue
var ErrUnknownColor = errors.New("unknown tempo color")

// Color couleur d'un jour TEMPO
type Color int

const (
	Blue Color = iota
	White
	Red
)

func ParseColor(s string) (Color, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BLUE", "BLEU", "TEMPO_BLEU":
		return Blue, nil
	case "WHITE", "BLANC", "TEMPO_BLANC":
		return White, nil
	case "RED", "ROUGE", "TEMPO_ROUGE":
		return Red, nil
	default:
		return Blue, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
}

func (c Color) String() string {
	switch c {
	case Blue:
		return "BLUE"
	case White:
		return "WHITE"
	case Red:
		return "RED"
	}
	return "unknown"
}

// Key clé utilisée dans les codes de période ("blue", "white", "red")
func (c Color) Key() string {
	return strings.ToLower(c.String())
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ColorProvider fournit la couleur connue d'un jour
type ColorProvider interface {
	Color(date time.Time) (Color, bool)
}

// PeakDayProvider indique si un jour est un jour de pointe connu
type PeakDayProvider interface {
	IsPeakDay(date time.Time) (peak bool, known bool)
}

// EstimateColor estimation déterministe quand la couleur du jour est inconnue.
// Hiver (décembre à février) : rouge un jour sur 15, blanc un jour sur 8.
// Novembre et mars : blanc un jour sur 20. Le reste est bleu.
func EstimateColor(date time.Time) Color {
	doy := date.YearDay()

	switch date.Month() {
	case time.December, time.January, time.February:
		if doy%15 == 0 {
			return Red
		}
		if doy%8 == 0 {
			return White
		}
	case time.November, time.March:
		if doy%20 == 0 {
			return White
		}
	}
	return Blue
}

// EstimatePeakDay estimation déterministe des jours EJP. Jamais d'avril à octobre
// ni le week-end, puis un jour éligible sur cinq.
func EstimatePeakDay(date time.Time) bool {
	if date.Month() >= time.April && date.Month() <= time.October {
		return false
	}
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return date.YearDay()%5 == 0
}

// ColorOf couleur connue du jour, sinon estimée
func ColorOf(p ColorProvider, date time.Time) (Color, bool) {
	if p != nil {
		if c, ok := p.Color(date); ok {
			return c, true
		}
	}
	return EstimateColor(date), false
}

// PeakDayOf statut EJP connu du jour, sinon estimé
func PeakDayOf(p PeakDayProvider, date time.Time) (bool, bool) {
	if p != nil {
		if peak, ok := p.IsPeakDay(date); ok {
			return peak, true
		}
	}
	return EstimatePeakDay(date), false
}

// DateKey clé civile d'un jour, indépendante de l'heure
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// PeakDates ensemble fixe de jours de pointe. Un jour absent est inconnu.
type PeakDates map[string]struct{}

func NewPeakDates(dates ...time.Time) PeakDates {
	p := make(PeakDates, len(dates))
	for _, d := range dates {
		p[DateKey(d)] = struct{}{}
	}
	return p
}

func (p PeakDates) IsPeakDay(date time.Time) (bool, bool) {
	_, ok := p[DateKey(date)]
	return ok, ok
}
