package rsync

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/platform"
	"github.com/rs/zerolog"
)

// DirectiveName is the directive this handler processes
const DirectiveName = "sync"

// Config wires a Handler to its collaborators
type Config struct {
	// BaseDir is the dotfiles root. Relative sources resolve against it and
	// rsync runs inside it.
	BaseDir  string
	Platform platform.Platform
	FS       filesystem.FS
	Runner   executor.Runner
	Resolver identity.Resolver
	Expander *paths.Expander
	Logger   zerolog.Logger

	// OpenNull opens the sink used for silenced output. Defaults to the
	// null device.
	OpenNull func() (io.WriteCloser, error)
}

// Handler processes sync directives
type Handler struct {
	baseDir  string
	platform platform.Platform
	fs       filesystem.FS
	runner   executor.Runner
	resolver identity.Resolver
	expander *paths.Expander
	creator  *DirectoryCreator
	openNull func() (io.WriteCloser, error)
	logger   zerolog.Logger
}

// New creates a Handler. BaseDir, FS, Runner and Resolver are required.
func New(cfg Config) *Handler {
	expander := cfg.Expander
	if expander == nil {
		expander = paths.NewExpander(cfg.FS)
	}
	openNull := cfg.OpenNull
	if openNull == nil {
		openNull = openDevNull
	}
	return &Handler{
		baseDir:  cfg.BaseDir,
		platform: cfg.Platform,
		fs:       cfg.FS,
		runner:   cfg.Runner,
		resolver: cfg.Resolver,
		expander: expander,
		creator:  NewDirectoryCreator(cfg.FS, cfg.Platform, cfg.Logger),
		openNull: openNull,
		logger:   cfg.Logger,
	}
}

func openDevNull() (io.WriteCloser, error) {
	return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
}

func (h *Handler) Name() string {
	return DirectiveName
}

func (h *Handler) Matches(directive string) bool {
	return directive == DirectiveName
}

// Handle parses the task data and defaults, then processes the records
func (h *Handler) Handle(ctx context.Context, directive string, data interface{}, defaults map[string]interface{}) (bool, error) {
	if !h.Matches(directive) {
		return false, errors.Newf(errors.ErrInvalidInput, "sync cannot handle directive %s", directive)
	}

	records, err := ParseRecords(data)
	if err != nil {
		return false, err
	}
	opts, err := DecodeOptions(defaults)
	if err != nil {
		return false, err
	}
	return h.Process(ctx, records, opts)
}

// Process synchronizes every record and returns whether all of them
// succeeded. Failures of a record are logged and do not stop the others;
// configuration errors are returned and end the run.
func (h *Handler) Process(ctx context.Context, records []Record, defaults Options) (bool, error) {
	success := true
	builtin := Builtin(h.resolver)

	for _, rec := range records {
		destination, err := h.resolveDestination(rec.Destination)
		if err != nil {
			return false, err
		}

		settings, err := Resolve(builtin, defaults, rec.Source.Overrides())
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrConfigValid, "invalid settings for %s", rec.Destination)
		}

		owner, err := identity.Resolve(h.resolver, h.platform, settings.Owner, settings.Group)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrConfigValid, "invalid ownership for %s", rec.Destination)
		}

		if !h.processRecord(ctx, rec, destination, settings, owner) {
			success = false
		}
	}

	if success {
		h.logger.Info().Msg("All synchronizations have been done")
	} else {
		h.logger.Warn().Msg("Some synchronizations were not successful")
	}
	return success, nil
}

// resolveDestination expands a destination expression to exactly one
// absolute path. Expressions with glob metacharacters must match exactly
// one existing path.
func (h *Handler) resolveDestination(expr string) (string, error) {
	expanded := h.expander.Expand(expr)

	candidates := []string{expanded}
	if expanded == "" {
		candidates = nil
	} else if paths.HasMeta(expanded) {
		matches, err := h.expander.Glob(expr, h.baseDir)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigValid, "invalid destination %q", expr)
		}
		candidates = matches
	}

	if len(candidates) != 1 {
		return "", errors.Newf(errors.ErrConfigValid, "destination %q must resolve to exactly one path, got %d", expr, len(candidates)).
			WithDetail("destination", expr).
			WithDetail("matches", candidates)
	}
	return h.absolute(candidates[0]), nil
}

func (h *Handler) absolute(path string) string {
	if filepath.IsAbs(path) || h.baseDir == "" {
		return path
	}
	return filepath.Join(h.baseDir, path)
}

func (h *Handler) processRecord(ctx context.Context, rec Record, destination string, s Settings, owner identity.Ownership) bool {
	success := true
	logger := h.logger.With().Str("destination", destination).Logger()

	stdout, stderr, release := h.outputs(s, logger)
	defer release()

	if s.Create {
		dmode, _ := s.DMode.FileMode()
		if !h.creator.CreateParent(destination, dmode, owner) {
			success = false
		}
	}

	expr := rec.Source.Expression()
	sources, err := h.expander.Glob(expr, h.baseDir)
	if err != nil {
		logger.Warn().Err(err).Msgf("Failed to expand %s", expr)
		return false
	}
	if len(sources) > 1 {
		logger.Debug().Msgf("Synchronizing expression %s -> %s", expr, destination)
	}
	if len(sources) == 0 {
		logger.Debug().Msgf("No paths match %s", expr)
	}

	for _, source := range sources {
		if !h.sync(ctx, source, destination, s, stdout, stderr, logger) {
			success = false
		}
	}
	return success
}

// outputs returns the writers for the tool's streams and a func releasing
// whatever was opened. Nil writers inherit the caller's streams.
func (h *Handler) outputs(s Settings, logger zerolog.Logger) (io.Writer, io.Writer, func()) {
	var opened []io.Closer
	open := func(enabled bool, stream string) io.Writer {
		if enabled {
			return nil
		}
		null, err := h.openNull()
		if err != nil {
			logger.Warn().Err(err).Msgf("Failed to open null device for %s, discarding output", stream)
			return io.Discard
		}
		opened = append(opened, null)
		return null
	}

	stdout := open(s.Stdout, "stdout")
	stderr := open(s.Stderr, "stderr")
	return stdout, stderr, func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}
}

// sync runs rsync for one source path. It never returns an error: every
// failure is logged and reported as false.
func (h *Handler) sync(ctx context.Context, source, destination string, s Settings, stdout, stderr io.Writer, logger zerolog.Logger) bool {
	sourceAbs := h.absolute(source)
	destAbs := h.absolute(h.expander.ExpandHome(destination))

	toolSource := h.platform.ToolPath(sourceAbs)
	toolDest := h.platform.ToolPath(destAbs)

	// a trailing slash makes rsync copy the directory's contents
	if info, err := h.fs.Stat(sourceAbs); err == nil && info.IsDir() && !strings.HasSuffix(toolSource, "/") {
		toolSource += "/"
	}

	inv := BuildCommand(s, toolSource, toolDest)
	inv.Dir = h.baseDir
	inv.Stdout = stdout
	inv.Stderr = stderr

	code, err := h.runner.Run(ctx, inv)
	if err != nil {
		logger.Warn().Err(err).Msgf("Failed to sync %s -> %s", toolSource, toolDest)
		return false
	}
	if code != 0 {
		logger.Warn().Int("exitCode", code).Msgf("Failed to sync %s -> %s (exit code %d)", toolSource, toolDest, code)
		return false
	}

	logger.Debug().Msgf("Synchronized %s -> %s", toolSource, toolDest)
	return true
}
