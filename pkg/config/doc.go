// Package config loads dotsync's host settings and directive documents.
//
// Host settings are layered with koanf:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user settings file, TOML or YAML
//  3. DOTSYNC_* environment variables (DOTSYNC_SYNC_FMODE=600 sets sync.fmode)
//  4. explicit overrides, usually from command-line flags
//
// Directive documents are dotbot-style YAML task lists, decoded with yaml.v3
// so that record order survives.
package config
