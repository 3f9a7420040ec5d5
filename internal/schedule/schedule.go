package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Schedule associe à chaque jour de la semaine une plage d'heures creuses
type Schedule map[time.Weekday]string

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"lundi":     time.Monday,
	"mardi":     time.Tuesday,
	"mercredi":  time.Wednesday,
	"jeudi":     time.Thursday,
	"vendredi":  time.Friday,
	"samedi":    time.Saturday,
	"dimanche":  time.Sunday,
}

// FromNames construit un planning à partir de noms de jours ("monday", "lundi", ...)
func FromNames(m map[string]string) (Schedule, error) {
	if len(m) == 0 {
		return nil, nil
	}

	s := make(Schedule, len(m))
	for name, window := range m {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidScheduleFormat, name)
		}
		s[day] = window
	}
	return s, nil
}

// IsWeekend vrai pour samedi et dimanche
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Resolved planning dont toutes les plages ont été validées
type Resolved [7]Window

// Resolve choisit pour chaque jour la plage du planning personnalisé, puis celle du
// jeu de données, puis la plage par défaut. Toutes les plages sont validées ici.
func Resolve(custom, dataset Schedule) (Resolved, error) {
	var r Resolved
	for day := time.Sunday; day <= time.Saturday; day++ {
		raw := DefaultWindow
		if v, ok := dataset[day]; ok && v != "" {
			raw = v
		}
		if v, ok := custom[day]; ok && v != "" {
			raw = v
		}

		w, err := ParseWindow(raw)
		if err != nil {
			return Resolved{}, fmt.Errorf("%s: %w", day, err)
		}
		r[day] = w
	}
	return r, nil
}

// IsOffPeak indique si l'horodatage tombe en heures creuses
func (r Resolved) IsOffPeak(t time.Time) bool {
	return r[t.Weekday()].Contains(ClockOf(t))
}

// Window retourne la plage retenue pour un jour
func (r Resolved) Window(day time.Weekday) Window {
	return r[day]
}
