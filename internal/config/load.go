package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultTOML is the file written by `pcrelint init`. It decodes to Default.
const DefaultTOML = `# pcrelint configuration

[analysis]
extensions = [".php", ".phtml", ".inc"]
# regular expressions matched against slash-separated paths relative to the run root
exclude = ['^vendor/|/vendor/', '^node_modules/|/node_modules/', '^\.git/|/\.git/']
max_diagnostics = 100
# 0 uses GOMAXPROCS
jobs = 0

[inspections]
regex = true
inclusion = true
offset = true

# per-code overrides: "weak", "warning", "error" or "off"
[severity]
# RGX7009 = "warning"

[cache]
enabled = false
# dir = ".pcrelint-cache"
`

// Load reads a TOML or YAML config file on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(data, &cfg)
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	for _, key := range meta.Undecoded() {
		if len(key) == 2 && key[0] == "inspections" {
			return fmt.Errorf("[inspections]: %w: %q", ErrUnknownInspection, key[1])
		}
		return fmt.Errorf("unknown key %q", key.String())
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Discover walks up from startDir looking for one of FileNames.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when set, otherwise the discovered file, otherwise Default.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Discover(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// WriteDefault creates dir/pcrelint.toml and refuses to overwrite it.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileNames[0])
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(DefaultTOML); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
