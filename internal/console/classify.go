package console

import (
	"fmt"
	"strings"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/schedule"
	"tarif-engine/internal/tariff"
)

var weekdayNames = [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// Classification situation tarifaire d'un instant
type Classification struct {
	Time       time.Time
	Window     schedule.Window
	OffPeak    bool
	Weekend    bool
	Winter     bool
	Color      calendar.Color
	ColorKnown bool
	Peak       bool
	PeakKnown  bool
	NightHC    bool
}

// Classify combine les plages heures creuses résolues et le calendrier TEMPO/EJP
func Classify(t time.Time, resolved schedule.Resolved, cal *calendar.Store) Classification {
	cl := Classification{
		Time:    t,
		Window:  resolved.Window(t.Weekday()),
		OffPeak: resolved.IsOffPeak(t),
		Weekend: schedule.IsWeekend(t),
		Winter:  tariff.IsWinter(t),
		NightHC: tariff.IsNightOffPeak(t.Hour()),
	}

	var colors calendar.ColorProvider
	var peakDays calendar.PeakDayProvider
	if cal != nil {
		colors, peakDays = cal, cal
	}
	cl.Color, cl.ColorKnown = calendar.ColorOf(colors, t)
	cl.Peak, cl.PeakKnown = calendar.PeakDayOf(peakDays, t)
	return cl
}

func (cl Classification) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📅 %s %s\n", weekdayNames[cl.Time.Weekday()], cl.Time.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "   Période:    %s (plage HC %s)\n", PeriodLabel(cl.OffPeak), cl.Window)
	fmt.Fprintf(&sb, "   Week-end:   %s\n", yesNo(cl.Weekend))

	season := "été"
	if cl.Winter {
		season = "hiver"
	}
	fmt.Fprintf(&sb, "   Saison:     %s\n", season)
	fmt.Fprintf(&sb, "   Tempo:      %s\n", ColorLabel(cl.Color, cl.ColorKnown))

	ejp := yesNo(cl.Peak)
	if !cl.PeakKnown {
		ejp += " (estimé)"
	}
	fmt.Fprintf(&sb, "   EJP pointe: %s\n", ejp)
	fmt.Fprintf(&sb, "   HC nuit:    %s", yesNo(cl.NightHC))
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
