package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat extension de fichier calendrier non gérée
var ErrUnsupportedFormat = errors.New("unsupported calendar file format")

// File contenu validé d'un fichier calendrier, indexé par date "2006-01-02"
type File struct {
	Tempo map[string]Color
	EJP   map[string]bool
}

type rawFile struct {
	Tempo map[string]string `json:"tempo" yaml:"tempo" toml:"tempo"`
	EJP   map[string]bool   `json:"ejp" yaml:"ejp" toml:"ejp"`
}

// LoadFile lit un calendrier TOML, YAML ou JSON
func LoadFile(filePath string) (File, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return File{}, fmt.Errorf("error accessing calendar file: %w", err)
	}
	if fileInfo.IsDir() {
		return File{}, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return File{}, fmt.Errorf("error reading calendar file: %w", err)
	}

	return Decode(data, strings.ToLower(filepath.Ext(filePath)))
}

// Decode décode un calendrier selon l'extension (".toml", ".yaml", ".yml", ".json")
func Decode(data []byte, ext string) (File, error) {
	var raw rawFile

	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return File{}, fmt.Errorf("error parsing TOML calendar: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return File{}, fmt.Errorf("error parsing YAML calendar: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return File{}, fmt.Errorf("error parsing JSON calendar: %w", err)
		}
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f := File{
		Tempo: make(map[string]Color, len(raw.Tempo)),
		EJP:   make(map[string]bool, len(raw.EJP)),
	}

	for day, name := range raw.Tempo {
		key, err := normalizeDate(day)
		if err != nil {
			return File{}, err
		}
		c, err := ParseColor(name)
		if err != nil {
			return File{}, fmt.Errorf("tempo %s: %w", day, err)
		}
		f.Tempo[key] = c
	}

	for day, peak := range raw.EJP {
		key, err := normalizeDate(day)
		if err != nil {
			return File{}, err
		}
		f.EJP[key] = peak
	}

	return f, nil
}

func normalizeDate(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("bad calendar date %q: %w", s, err)
	}
	return DateKey(t), nil
}
