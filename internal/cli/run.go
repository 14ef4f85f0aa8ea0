package cli

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/handlers"
	"github.com/arthur-debert/dotsync/pkg/handlers/rsync"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/platform"
	"github.com/rs/zerolog"
)

// RunOptions holds the inputs of a run
type RunOptions struct {
	Document     string
	BaseDir      string
	SettingsFile string
	Rsync        string
	DryRun       bool
}

// Runtime holds the OS collaborators a run talks to
type Runtime struct {
	Platform platform.Platform
	FS       filesystem.FS
	Runner   executor.Runner
	Resolver identity.Resolver
	Logger   zerolog.Logger
}

// NewRuntime returns the collaborators for the current OS. With dryRun the
// runner only logs commands.
func NewRuntime(dryRun bool) *Runtime {
	p := platform.Current()
	logger := logging.GetLogger("sync")

	var runner executor.Runner = executor.NewExecRunner(logger)
	if dryRun {
		runner = executor.NewDryRunRunner(logger)
	}

	return &Runtime{
		Platform: p,
		FS:       filesystem.NewOS(),
		Runner:   runner,
		Resolver: identity.NewSystem(p),
		Logger:   logger,
	}
}

// Run loads settings and the document, then dispatches every task.
// It returns whether all tasks succeeded.
func Run(ctx context.Context, opts RunOptions, rt Runtime) (bool, error) {
	logger := rt.Logger
	defer logging.LogOperationStart(logger, "run")()

	document, err := filepath.Abs(opts.Document)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrInvalidInput, "invalid document path %s", opts.Document)
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(document)
	}
	if baseDir, err = filepath.Abs(baseDir); err != nil {
		return false, errors.Wrapf(err, errors.ErrInvalidInput, "invalid base directory %s", opts.BaseDir)
	}

	loadOpts := config.LoadOptions{SettingsFile: opts.SettingsFile}
	if opts.Rsync != "" {
		loadOpts.Overrides = map[string]interface{}{rsync.DirectiveName + ".rsync": opts.Rsync}
	}
	settings, err := config.Load(loadOpts)
	if err != nil {
		return false, err
	}

	tasks, err := config.LoadDocument(document)
	if err != nil {
		return false, err
	}
	logger.Info().
		Str("document", document).
		Str("baseDir", baseDir).
		Int("tasks", len(tasks)).
		Msg("Running directive document")

	handler := rsync.New(rsync.Config{
		BaseDir:  baseDir,
		Platform: rt.Platform,
		FS:       rt.FS,
		Runner:   rt.Runner,
		Resolver: rt.Resolver,
		Logger:   logger,
	})

	dispatcher := handlers.NewDispatcher(handlers.NewRegistry(handler), settings, logger)
	return dispatcher.Run(ctx, tasks), nil
}
