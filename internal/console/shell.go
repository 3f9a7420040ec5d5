package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tarif-engine/internal/calendar"
	"tarif-engine/internal/schedule"

	"github.com/chzyer/readline"
)

// Shell boucle interactive de classification d'horodatages
type Shell struct {
	console  *Console
	resolved schedule.Resolved
	calendar *calendar.Store
	loc      *time.Location
	now      func() time.Time
}

func NewShell(console *Console, resolved schedule.Resolved, cal *calendar.Store, loc *time.Location) *Shell {
	if loc == nil {
		loc = time.Local
	}
	if cal == nil {
		cal = calendar.NewStore()
	}
	return &Shell{
		console:  console,
		resolved: resolved,
		calendar: cal,
		loc:      loc,
		now:      time.Now,
	}
}

// Run lit les commandes jusqu'à "quit", Ctrl+C, EOF ou annulation du contexte
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "tarif> ",
		HistoryFile: historyFilePath(),
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()

	s.showHelp()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if !s.Handle(strings.TrimSpace(line)) {
			return nil
		}
	}
}

// Handle exécute une commande, false pour quitter
func (s *Shell) Handle(input string) bool {
	if input == "" {
		return true
	}

	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "quit", "q", "exit":
		s.console.Println("👋 Au revoir!")
		return false

	case "help", "h":
		s.showHelp()

	case "now":
		s.console.PrintClassification(Classify(s.now().In(s.loc), s.resolved, s.calendar))

	case "schedule":
		for d := time.Sunday; d <= time.Saturday; d++ {
			s.console.Println(fmt.Sprintf("   %-9s %s", weekdayNames[d], s.resolved.Window(d)))
		}

	case "color", "couleur":
		if len(fields) != 3 {
			s.console.LogError("usage: color <YYYY-MM-DD> <BLEU|BLANC|ROUGE>")
			return true
		}
		date, err := time.ParseInLocation(time.DateOnly, fields[1], s.loc)
		if err != nil {
			s.console.LogError("date invalide: %v", err)
			return true
		}
		c, err := calendar.ParseColor(fields[2])
		if err != nil {
			s.console.LogError("%v", err)
			return true
		}
		s.calendar.SetColor(date, c)
		s.console.LogSuccess("%s: %s", fields[1], c)

	case "ejp":
		if len(fields) < 2 || len(fields) > 3 {
			s.console.LogError("usage: ejp <YYYY-MM-DD> [on|off]")
			return true
		}
		date, err := time.ParseInLocation(time.DateOnly, fields[1], s.loc)
		if err != nil {
			s.console.LogError("date invalide: %v", err)
			return true
		}
		peak := true
		if len(fields) == 3 {
			if peak, err = parsePeakFlag(fields[2]); err != nil {
				s.console.LogError("%v", err)
				return true
			}
		}
		s.calendar.SetPeakDay(date, peak)
		if peak {
			s.console.LogSuccess("%s: jour de pointe", fields[1])
		} else {
			s.console.LogSuccess("%s: jour normal", fields[1])
		}

	default:
		t, err := ParseDateTime(input, s.loc)
		if err != nil {
			s.console.LogError("❌ Commande inconnue. Tapez 'help' pour voir les commandes.")
			return true
		}
		s.console.PrintClassification(Classify(t, s.resolved, s.calendar))
	}
	return true
}

func parsePeakFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "oui", "pointe", "1", "true":
		return true, nil
	case "off", "non", "normal", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("valeur EJP invalide %q, attendu on ou off", s)
}

// ParseDateTime "2025-01-15 22:30" ou "2025-01-15T22:30" dans loc
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q, expected YYYY-MM-DD HH:MM", s)
}

func (s *Shell) showHelp() {
	s.console.Println("🎮 Commandes disponibles:")
	s.console.Println("   <YYYY-MM-DD HH:MM>          - Classer un instant (HC/HP, Tempo, EJP)")
	s.console.Println("   now                         - Classer l'instant présent")
	s.console.Println("   schedule                    - Afficher les plages heures creuses")
	s.console.Println("   color <date> <couleur>      - Fixer la couleur Tempo d'un jour")
	s.console.Println("   ejp <date> [on|off]         - Déclarer un jour EJP de pointe ou normal")
	s.console.Println("   help                        - Afficher cette aide")
	s.console.Println("   quit                        - Quitter")
}

// historyFilePath historique persistant dans le cache utilisateur
func historyFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "tarif-engine")
	_ = os.MkdirAll(dir, 0750)
	return filepath.Join(dir, "shell_history")
}
