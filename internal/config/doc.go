// Package config loads spool's own settings — the codec's default
// reader policy, redaction rule customization, and playback defaults —
// as distinct from the format's data model, which never lives in a
// config file.
//
// # Configuration loading
//
// Load merges three layers, each overriding the last:
//
//  1. Global config, from the XDG config directory (spool.json,
//     spool.jsonc, spool.yaml, or spool.yml under ~/.config/spool).
//  2. Project config, the same four filenames under <directory>/.spool.
//  3. SPOOL_* environment variables.
//
// # Supported formats
//
// Both JSON/JSONC and YAML are accepted:
//   - spool.json / spool.jsonc — JSONC comments are stripped before
//     parsing.
//   - spool.yaml / spool.yml — parsed with gopkg.in/yaml.v3.
//
// # Environment variable overrides
//
//   - SPOOL_STRICT - "true"/"false", overrides the codec policy.
//   - SPOOL_DEFAULT_SPEED - overrides the default playback speed.
//   - SPOOL_DISABLED_CATEGORIES - comma-separated redaction category
//     names to drop from the fixed rule table.
//
// # Path management
//
// Paths follows the XDG Base Directory Specification:
//   - Data: ~/.local/share/spool (XDG_DATA_HOME)
//   - Config: ~/.config/spool (XDG_CONFIG_HOME)
//   - Cache: ~/.cache/spool (XDG_CACHE_HOME)
//   - State: ~/.local/state/spool (XDG_STATE_HOME)
package config
