// Package config loads spool's own settings — reader leniency, the
// redaction rule set, and CLI defaults — the same layered way the
// teacher loads its provider/agent config: a global file, a
// project-local file, then environment overrides, each later source
// winning. JSONC (global/project "spool.jsonc") and YAML
// ("spool.yaml") are both accepted alongside plain JSON.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spoolformat/spool/internal/redact"
)

// Config is spool's own settings, as opposed to the format's own data
// model — none of this is ever written into a .spool file.
type Config struct {
	// Strict selects the codec.Strict reader policy when true,
	// codec.Lenient when false. Defaults to true (strict).
	Strict *bool `json:"strict,omitempty" yaml:"strict,omitempty"`

	Redaction RedactionConfig `json:"redaction,omitempty" yaml:"redaction,omitempty"`
	Playback  PlaybackConfig  `json:"playback,omitempty" yaml:"playback,omitempty"`
}

// RedactionConfig customizes the fixed redaction rule table.
type RedactionConfig struct {
	// DisabledCategories removes categories from DefaultRules.
	DisabledCategories []string `json:"disabled_categories,omitempty" yaml:"disabled_categories,omitempty"`
	// ExtraPatterns extends the fixed table with project-specific
	// regexes, each tagged with its own category name.
	ExtraPatterns []ExtraPattern `json:"extra_patterns,omitempty" yaml:"extra_patterns,omitempty"`
}

// ExtraPattern is one user-supplied redaction rule.
type ExtraPattern struct {
	Category string `json:"category" yaml:"category"`
	Pattern  string `json:"pattern" yaml:"pattern"`
}

// PlaybackConfig holds CLI/player defaults.
type PlaybackConfig struct {
	DefaultSpeed float64 `json:"default_speed,omitempty" yaml:"default_speed,omitempty"`
}

// DefaultConfig returns the built-in defaults: strict reading, the
// fixed redaction table unmodified, 1x playback speed.
func DefaultConfig() *Config {
	strict := true
	return &Config{Strict: &strict, Playback: PlaybackConfig{DefaultSpeed: 1}}
}

// IsStrict reports the effective reader policy, defaulting to strict
// when unset.
func (c *Config) IsStrict() bool {
	return c.Strict == nil || *c.Strict
}

// Load layers the global config, the project config (if directory is
// non-empty), and environment overrides on top of DefaultConfig.
func Load(directory string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range configVariants(GlobalConfigPath()) {
		loadConfigFile(path, cfg)
	}
	if directory != "" {
		for _, path := range configVariants(ProjectConfigPath(directory)) {
			loadConfigFile(path, cfg)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// configVariants returns canonical, ".jsonc", ".yaml", and ".yml"
// siblings of a "*.json" config path, each tried in turn so a project
// can use whichever format it prefers.
func configVariants(jsonPath string) []string {
	base := strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath))
	return []string{
		jsonPath,
		base + ".jsonc",
		base + ".yaml",
		base + ".yml",
	}
}

// loadConfigFile merges the file at path into cfg. A missing or
// unreadable file returns the read error and leaves cfg unchanged.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fileCfg Config
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return err
		}
	default:
		data = stripJSONComments(data)
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return err
		}
	}

	mergeConfig(cfg, &fileCfg)
	return nil
}

var (
	singleLineComment = regexp.MustCompile(`//.*$`)
	multiLineComment  = regexp.MustCompile(`/\*[\s\S]*?\*/`)
)

// stripJSONComments removes // and /* */ comments from JSONC so it
// can be parsed as plain JSON.
func stripJSONComments(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = singleLineComment.ReplaceAll(line, nil)
	}
	data = bytes.Join(lines, []byte("\n"))
	return multiLineComment.ReplaceAll(data, nil)
}

func mergeConfig(target, source *Config) {
	if source.Strict != nil {
		target.Strict = source.Strict
	}
	if len(source.Redaction.DisabledCategories) > 0 {
		target.Redaction.DisabledCategories = source.Redaction.DisabledCategories
	}
	if len(source.Redaction.ExtraPatterns) > 0 {
		target.Redaction.ExtraPatterns = append(target.Redaction.ExtraPatterns, source.Redaction.ExtraPatterns...)
	}
	if source.Playback.DefaultSpeed > 0 {
		target.Playback.DefaultSpeed = source.Playback.DefaultSpeed
	}
}

// applyEnvOverrides applies SPOOL_* environment variable overrides,
// the last and highest-priority layer.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPOOL_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Strict = &b
		}
	}
	if v := os.Getenv("SPOOL_DEFAULT_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Playback.DefaultSpeed = f
		}
	}
	if v := os.Getenv("SPOOL_DISABLED_CATEGORIES"); v != "" {
		cfg.Redaction.DisabledCategories = strings.Split(v, ",")
	}
}

// Save writes cfg as indented JSON to path, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Rules builds the effective redact.Rule table: the fixed table minus
// any DisabledCategories, plus any ExtraPatterns that compile.
func (c *Config) Rules() []redact.Rule {
	disabled := make(map[redact.Category]bool, len(c.Redaction.DisabledCategories))
	for _, name := range c.Redaction.DisabledCategories {
		disabled[redact.Category(name)] = true
	}

	var rules []redact.Rule
	for _, r := range redact.DefaultRules() {
		if !disabled[r.Category] {
			rules = append(rules, r)
		}
	}
	for _, extra := range c.Redaction.ExtraPatterns {
		compiled, err := regexp.Compile(extra.Pattern)
		if err != nil {
			continue
		}
		rules = append(rules, redact.Rule{Category: redact.Category(extra.Category), Pattern: compiled})
	}
	return rules
}
