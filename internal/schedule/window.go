package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidScheduleFormat est retournée quand une plage ne respecte pas "HH:MM-HH:MM"
var ErrInvalidScheduleFormat = errors.New("invalid schedule format")

// DefaultWindow plage HC appliquée quand aucun planning n'est fourni
const DefaultWindow = "22:30-06:30"

var windowPattern = regexp.MustCompile(`^(\d{2}):(\d{2})-(\d{2}):(\d{2})$`)

// ClockTime heure civile exprimée en minutes depuis minuit
type ClockTime int

// NewClockTime construit une heure à partir des heures et minutes
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ClockOf extrait l'heure civile d'un horodatage
func ClockOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

func (c ClockTime) Hour() int {
	return int(c) / 60
}

func (c ClockTime) Minute() int {
	return int(c) % 60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Window plage horaire [Start, End), qui peut traverser minuit
type Window struct {
	Start ClockTime
	End   ClockTime
}

// ParseWindow lit une plage "HH:MM-HH:MM"
func ParseWindow(s string) (Window, error) {
	m := windowPattern.FindStringSubmatch(s)
	if m == nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidScheduleFormat, s)
	}

	start, err := parseClock(m[1], m[2])
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidScheduleFormat, s)
	}
	end, err := parseClock(m[3], m[4])
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidScheduleFormat, s)
	}

	return Window{Start: start, End: end}, nil
}

// MustParseWindow comme ParseWindow mais panique en cas d'erreur
func MustParseWindow(s string) Window {
	w, err := ParseWindow(s)
	if err != nil {
		panic(err)
	}
	return w
}

func parseClock(hh, mm string) (ClockTime, error) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("hhmm out of range %s:%s", hh, mm)
	}
	return NewClockTime(h, m), nil
}

// CrossesMidnight indique si la plage déborde sur le jour suivant
func (w Window) CrossesMidnight() bool {
	return w.Start > w.End
}

// Contains indique si t appartient à la plage
func (w Window) Contains(t ClockTime) bool {
	return IsWithin(t, w.Start, w.End)
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// IsWithin applique la règle d'appartenance:
//   - start <= end : intervalle semi-ouvert [start, end)
//   - start > end  : la plage traverse minuit, t >= start OU t < end
func IsWithin(t, start, end ClockTime) bool {
	if start <= end {
		return t >= start && t < end
	}
	return t >= start || t < end
}
