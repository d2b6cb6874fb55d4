package textcloud

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.json"

// Environment variables that override configuration file values.
const (
	EnvAnalyzer   = "TEXTCLOUD_ANALYZER"
	EnvDictionary = "TEXTCLOUD_DICTIONARY"
	EnvPython     = "TEXTCLOUD_PYTHON"
	EnvOutput     = "TEXTCLOUD_OUTPUT"
	EnvLanguage   = "TEXTCLOUD_LANGUAGE"
	EnvBackground = "TEXTCLOUD_BACKGROUND"
	EnvFont       = "TEXTCLOUD_FONT"
	EnvLimit      = "TEXTCLOUD_LIMIT"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults. YAML is used for .yaml/.yml paths.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ApplyEnv overrides configuration values from TEXTCLOUD_* variables.
// lookup defaults to os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	kind := string(c.Analyzer.Kind)
	set(EnvAnalyzer, &kind)
	c.Analyzer.Kind = AnalyzerKind(kind)
	set(EnvDictionary, &c.Analyzer.Dictionary)
	set(EnvPython, &c.Analyzer.Python)
	set(EnvOutput, &c.Output)
	set(EnvLanguage, &c.Language)
	set(EnvBackground, &c.Background)
	set(EnvFont, &c.Render.FontPath)

	if v, ok := lookup(EnvLimit); ok && strings.TrimSpace(v) != "" {
		n, err := ParseLimit(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLimit, err)
		}
		c.Limit = n
	}
	return nil
}

// ParseLimit reads a word limit as typed by a user. Blank means no limit.
func ParseLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse limit %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	return n, nil
}
