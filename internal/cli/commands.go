package cli

import (
	"fmt"

	"github.com/arthur-debert/dotsync/internal/version"
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// DefaultDocument is the directive document run when --config is not given
const DefaultDocument = "install.conf.yaml"

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the command tree. A nil runtime means the real OS
// collaborators are built when a run starts.
func newRootCmd(runtime *Runtime) *cobra.Command {
	var (
		verbosity    int
		settingsFile string
		noColor      bool
	)

	rootCmd := &cobra.Command{
		Use:     "dotsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			if noColor {
				style.DisableColor()
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", MsgFlagSettings)
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd(&settingsFile, runtime))
	rootCmd.AddCommand(newDefaultsCmd(&settingsFile))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
		},
	}
}

func newRunCmd(settingsFile *string, runtime *Runtime) *cobra.Command {
	opts := RunOptions{}

	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SettingsFile = *settingsFile

			rt := runtime
			if rt == nil {
				rt = NewRuntime(opts.DryRun)
			}

			ok, err := Run(cmd.Context(), opts, *rt)
			if err != nil {
				return err
			}
			result := style.Result{Document: opts.Document, Success: ok, DryRun: opts.DryRun}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Render())
			if !ok {
				return errors.New(errors.ErrRunFailed, MsgErrRunFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Document, "config", "c", DefaultDocument, MsgFlagConfig)
	cmd.Flags().StringVarP(&opts.BaseDir, "base-dir", "d", "", MsgFlagBaseDir)
	cmd.Flags().StringVar(&opts.Rsync, "rsync", "", MsgFlagRsync)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, MsgFlagDryRun)

	return cmd
}

func newDefaultsCmd(settingsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: MsgDefaultsShort,
		Long:  MsgDefaultsLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(config.LoadOptions{SettingsFile: *settingsFile})
			if err != nil {
				return err
			}
			out, err := settings.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
