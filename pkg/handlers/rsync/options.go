package rsync

import (
	"io/fs"
	"reflect"
	"strconv"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/go-viper/mapstructure/v2"
)

// Mode is a permission mode written with octal digits read as a decimal
// number, so Mode(644) means rw-r--r--.
type Mode int

// String renders the mode the way it was written
func (m Mode) String() string {
	return strconv.Itoa(int(m))
}

// FileMode reinterprets the digits as octal
func (m Mode) FileMode() (fs.FileMode, error) {
	if m < 0 {
		return 0, errors.Newf(errors.ErrConfigValid, "invalid mode %d: must not be negative", int(m))
	}
	v, err := strconv.ParseUint(m.String(), 8, 32)
	if err != nil || v > 0o7777 {
		return 0, errors.Newf(errors.ErrConfigValid, "invalid mode %d: expected octal digits such as 644", int(m))
	}
	return fs.FileMode(v), nil
}

// Options holds the optional per-directive and per-record fields. A nil
// field is unset and inherits from the layer below.
type Options struct {
	Create  *bool     `mapstructure:"create"`
	Rsync   *string   `mapstructure:"rsync"`
	Options *[]string `mapstructure:"options"`
	FMode   *Mode     `mapstructure:"fmode"`
	DMode   *Mode     `mapstructure:"dmode"`
	Owner   *string   `mapstructure:"owner"`
	Group   *string   `mapstructure:"group"`
	Stdout  *bool     `mapstructure:"stdout"`
	Stderr  *bool     `mapstructure:"stderr"`
}

// Settings is the fully resolved configuration of one record
type Settings struct {
	Create  bool
	Rsync   string
	Options []string
	FMode   Mode
	DMode   Mode
	Owner   string
	Group   string
	Stdout  bool
	Stderr  bool
}

// Built-in values used when no layer sets a field
const (
	DefaultRsync = "rsync"
	DefaultFMode = Mode(644)
	DefaultDMode = Mode(755)
)

// DefaultOptions returns the rsync flags appended when none are configured
func DefaultOptions() []string {
	return []string{"--delete", "--safe-links"}
}

// Builtin returns the lowest settings layer. Owner and group default to the
// user running the process.
func Builtin(r identity.Resolver) Options {
	opts := DefaultOptions()
	return Options{
		Create:  ptr(false),
		Rsync:   ptr(DefaultRsync),
		Options: &opts,
		FMode:   ptr(DefaultFMode),
		DMode:   ptr(DefaultDMode),
		Owner:   ptr(r.CurrentOwner()),
		Group:   ptr(r.CurrentGroup()),
		Stdout:  ptr(true),
		Stderr:  ptr(true),
	}
}

// Merge returns base with every field set in override replacing base's
func Merge(base, override Options) Options {
	out := base
	if override.Create != nil {
		out.Create = override.Create
	}
	if override.Rsync != nil {
		out.Rsync = override.Rsync
	}
	if override.Options != nil {
		out.Options = override.Options
	}
	if override.FMode != nil {
		out.FMode = override.FMode
	}
	if override.DMode != nil {
		out.DMode = override.DMode
	}
	if override.Owner != nil {
		out.Owner = override.Owner
	}
	if override.Group != nil {
		out.Group = override.Group
	}
	if override.Stdout != nil {
		out.Stdout = override.Stdout
	}
	if override.Stderr != nil {
		out.Stderr = override.Stderr
	}
	return out
}

// Resolve merges layers from lowest to highest precedence and validates
// the result. Fields left unset by every layer take their zero value.
func Resolve(layers ...Options) (Settings, error) {
	var merged Options
	for _, layer := range layers {
		merged = Merge(merged, layer)
	}

	s := Settings{
		Create: deref(merged.Create),
		Rsync:  deref(merged.Rsync),
		FMode:  deref(merged.FMode),
		DMode:  deref(merged.DMode),
		Owner:  deref(merged.Owner),
		Group:  deref(merged.Group),
		Stdout: deref(merged.Stdout),
		Stderr: deref(merged.Stderr),
	}
	if merged.Options != nil {
		s.Options = append([]string(nil), (*merged.Options)...)
	}

	if s.Rsync == "" {
		return Settings{}, errors.New(errors.ErrConfigValid, "rsync executable must not be empty")
	}
	if _, err := s.FMode.FileMode(); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigValid, "fmode")
	}
	if _, err := s.DMode.FileMode(); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigValid, "dmode")
	}
	return s, nil
}

// DecodeOptions decodes a raw map, as found in documents, settings files
// or the environment, into Options. Scalars are converted leniently so that
// "600" and "false" from environment variables work, and a comma-separated
// string is accepted for options.
func DecodeOptions(raw map[string]interface{}) (Options, error) {
	var opts Options
	if err := decode(raw, &opts); err != nil {
		return Options{}, errors.Wrap(err, errors.ErrConfigParse, "invalid sync options")
	}
	return opts, nil
}

func decode(raw interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			stringToModeHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// stringToModeHookFunc rejects non-numeric mode strings with a clear message
// instead of mapstructure's generic conversion error.
func stringToModeHookFunc() mapstructure.DecodeHookFunc {
	modeType := reflect.TypeOf(Mode(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != modeType {
			return data, nil
		}
		v, err := strconv.Atoi(data.(string))
		if err != nil {
			return nil, errors.Newf(errors.ErrConfigValid, "invalid mode %q: expected octal digits such as 644", data)
		}
		return Mode(v), nil
	}
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
