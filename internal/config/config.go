// Package config loads pcrelint.toml / .pcrelint.yaml and turns it into the
// settings the driver consumes.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coregx/coregex"

	"pcrelint/internal/diag"
)

// File names searched for by Discover, in priority order.
var FileNames = []string{"pcrelint.toml", ".pcrelint.toml", ".pcrelint.yaml", ".pcrelint.yml"}

var (
	// ErrUnknownInspection is returned for inspection names outside Inspections.
	ErrUnknownInspection = errors.New("unknown inspection")
	// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// Inspection names accepted by Select and the [inspections] table.
const (
	InspectionRegex     = "regex"
	InspectionInclusion = "inclusion"
	InspectionOffset    = "offset"
)

// Config is the decoded configuration file.
type Config struct {
	Analysis    Analysis          `toml:"analysis" yaml:"analysis"`
	Inspections Inspections       `toml:"inspections" yaml:"inspections"`
	Severity    map[string]string `toml:"severity" yaml:"severity"`
	Cache       Cache             `toml:"cache" yaml:"cache"`

	// Path is the file the config was read from; empty for Default.
	Path string `toml:"-" yaml:"-"`
}

type Analysis struct {
	Extensions     []string `toml:"extensions" yaml:"extensions"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	MaxDiagnostics int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Jobs           int      `toml:"jobs" yaml:"jobs"`
}

type Inspections struct {
	Regex     bool `toml:"regex" yaml:"regex"`
	Inclusion bool `toml:"inclusion" yaml:"inclusion"`
	Offset    bool `toml:"offset" yaml:"offset"`
}

type Cache struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Extensions:     []string{".php", ".phtml", ".inc"},
			Exclude:        []string{`^vendor/|/vendor/`, `^node_modules/|/node_modules/`, `^\.git/|/\.git/`},
			MaxDiagnostics: 100,
		},
		Inspections: Inspections{Regex: true, Inclusion: true, Offset: true},
		Severity:    map[string]string{},
	}
}

// Names returns the enabled inspection names in a fixed order.
func (in Inspections) Names() []string {
	var out []string
	if in.Regex {
		out = append(out, InspectionRegex)
	}
	if in.Inclusion {
		out = append(out, InspectionInclusion)
	}
	if in.Offset {
		out = append(out, InspectionOffset)
	}
	return out
}

// Select enables exactly the named inspections.
func Select(names []string) (Inspections, error) {
	var in Inspections
	for _, raw := range names {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case InspectionRegex:
			in.Regex = true
		case InspectionInclusion:
			in.Inclusion = true
		case InspectionOffset:
			in.Offset = true
		case "":
		default:
			return Inspections{}, fmt.Errorf("%w: %q (expected %s|%s|%s)",
				ErrUnknownInspection, raw, InspectionRegex, InspectionInclusion, InspectionOffset)
		}
	}
	return in, nil
}

// Settings is the validated form of Config.
type Settings struct {
	Extensions     map[string]bool
	Excludes       []*coregex.Regex
	MaxDiagnostics int
	Jobs           int
	Inspections    Inspections
	Severity       map[diag.Code]diag.Severity
	Disabled       map[diag.Code]bool
	CacheEnabled   bool
	CacheDir       string
}

// Settings compiles exclude patterns and parses severity overrides. The
// value "off" for a code disables it.
func (c Config) Settings() (Settings, error) {
	s := Settings{
		Extensions:     make(map[string]bool, len(c.Analysis.Extensions)),
		MaxDiagnostics: c.Analysis.MaxDiagnostics,
		Jobs:           c.Analysis.Jobs,
		Inspections:    c.Inspections,
		Severity:       make(map[diag.Code]diag.Severity),
		Disabled:       make(map[diag.Code]bool),
		CacheEnabled:   c.Cache.Enabled,
		CacheDir:       c.Cache.Dir,
	}
	for _, ext := range c.Analysis.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.Extensions[ext] = true
	}
	for _, pat := range c.Analysis.Exclude {
		re, err := coregex.Compile(pat)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: invalid exclude pattern %q: %w", c.where(), pat, err)
		}
		s.Excludes = append(s.Excludes, re)
	}

	ids := make([]string, 0, len(c.Severity))
	for id := range c.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		code, err := diag.ParseCode(id)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: [severity]: %w", c.where(), err)
		}
		val := c.Severity[id]
		if strings.EqualFold(strings.TrimSpace(val), "off") {
			s.Disabled[code] = true
			continue
		}
		sev, err := diag.ParseSeverity(val)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: [severity] %s: %w", c.where(), id, err)
		}
		s.Severity[code] = sev
	}
	if c.Cache.Dir != "" && c.Path != "" && !filepath.IsAbs(c.Cache.Dir) {
		s.CacheDir = filepath.Join(filepath.Dir(c.Path), c.Cache.Dir)
	}
	return s, nil
}

func (c Config) where() string {
	if c.Path == "" {
		return "config"
	}
	return c.Path
}

// Included reports whether path (slash-separated, relative to the run root)
// has an analysed extension and matches no exclude pattern.
func (s Settings) Included(path string) bool {
	if len(s.Extensions) > 0 && !s.Extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	return !s.Excluded(path)
}

// Excluded reports whether any exclude pattern matches path.
func (s Settings) Excluded(path string) bool {
	path = filepath.ToSlash(path)
	for _, re := range s.Excludes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
