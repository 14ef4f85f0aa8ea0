package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes environment variables read as settings
const EnvPrefix = "DOTSYNC_"

// LoadOptions selects the sources Load reads
type LoadOptions struct {
	// SettingsFile is the user settings file. Empty means
	// $XDG_CONFIG_HOME/dotsync/config.toml when it exists.
	SettingsFile string

	// Overrides are dotted keys applied last, e.g. "sync.rsync".
	Overrides map[string]interface{}

	// SkipEnv disables the environment layer
	SkipEnv bool
}

// Settings holds the layered host settings
type Settings struct {
	k *koanf.Koanf
}

// DefaultSettingsFile returns the settings path under the XDG config home
func DefaultSettingsFile() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dotsync", "config.toml")
	}
	return filepath.Join(xdg.ConfigHome, "dotsync", "config.toml")
}

// Load builds Settings from every configured layer
func Load(opts LoadOptions) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User settings file
	path := opts.SettingsFile
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "settings file %s", path)
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	return &Settings{k: k}, nil
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// Defaults returns the host defaults for a directive as a flat map. It is
// a copy; callers may modify it.
func (s *Settings) Defaults(directive string) map[string]interface{} {
	if !s.k.Exists(directive) {
		return map[string]interface{}{}
	}
	return s.k.Cut(directive).Raw()
}

// Get returns a single setting by dotted key
func (s *Settings) Get(key string) interface{} {
	return s.k.Get(key)
}

// TOML renders the layered settings as a TOML document
func (s *Settings) TOML() ([]byte, error) {
	out, err := gotoml.Marshal(s.k.Raw())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render settings")
	}
	return out, nil
}
