package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// Expander expands path expressions. The zero value is not usable; build
// one with NewExpander.
type Expander struct {
	fs        filesystem.FS
	lookupEnv func(string) (string, bool)
	homeDir   func() (string, error)
}

// Option customizes an Expander
type Option func(*Expander)

// WithEnv replaces the environment lookup
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(e *Expander) { e.lookupEnv = lookup }
}

// WithHomeDir replaces the home directory lookup
func WithHomeDir(home func() (string, error)) Option {
	return func(e *Expander) { e.homeDir = home }
}

// NewExpander creates an Expander that globs against fsys
func NewExpander(fsys filesystem.FS, opts ...Option) *Expander {
	e := &Expander{
		fs:        fsys,
		lookupEnv: os.LookupEnv,
		homeDir:   GetHomeDirectory,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment variable.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}

// ExpandHome expands a leading `~` or `~/`. Other forms, including
// `~user`, are returned unchanged, as is the path when the home
// directory cannot be determined.
func (e *Expander) ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := e.homeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ExpandVars substitutes `$NAME` and `${NAME}` references. References to
// unset variables, and malformed ones, are kept verbatim.
func (e *Expander) ExpandVars(path string) string {
	if !strings.Contains(path, "$") {
		return path
	}

	var b strings.Builder
	for i := 0; i < len(path); {
		if path[i] != '$' {
			b.WriteByte(path[i])
			i++
			continue
		}

		name, width := scanVar(path[i+1:])
		if width == 0 {
			b.WriteByte('$')
			i++
			continue
		}
		if value, ok := e.lookupEnv(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(path[i : i+1+width])
		}
		i += 1 + width
	}
	return b.String()
}

// scanVar reads a variable reference following a `$`. It returns the name
// and how many bytes the reference spans, or a zero width when s does not
// start with a reference.
func scanVar(s string) (string, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end <= 1 {
			return "", 0
		}
		return s[1:end], end + 1
	}

	n := 0
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	return s[:n], n
}

func isNameByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Expand applies home then environment expansion
func (e *Expander) Expand(expr string) string {
	return e.ExpandVars(e.ExpandHome(expr))
}

// Glob expands expr and matches it against the filesystem. Relative
// expressions are anchored at base. Matches come back in lexical order;
// no match is not an error.
func (e *Expander) Glob(expr, base string) ([]string, error) {
	pattern := e.Expand(expr)
	if pattern == "" {
		return nil, nil
	}
	if !filepath.IsAbs(pattern) && base != "" {
		pattern = filepath.Join(base, pattern)
	}

	matches, err := e.fs.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGlob, "invalid glob expression %q", expr)
	}
	return matches, nil
}

// HasMeta reports whether path contains glob metacharacters
func HasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}
