package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Synchronize dotfiles into place with rsync"
	MsgVersionShort  = "Print version information"
	MsgVersionLong   = "Print detailed version information including commit hash and build date"
	MsgRunShort      = "Run the tasks of a directive document"
	MsgDefaultsShort = "Print the host defaults as TOML"
	MsgDefaultsLong  = "Print the built-in defaults layered with the settings file and DOTSYNC_* environment variables."

	// Version output
	MsgVersionFormat = "dotsync version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Error messages
	MsgErrRunFailed = "some tasks were not executed successfully"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Log the rsync commands without running them"
	MsgFlagSettings = "Settings file (default is $XDG_CONFIG_HOME/dotsync/config.toml)"
	MsgFlagConfig   = "Directive document to run"
	MsgFlagBaseDir  = "Dotfiles directory (default is the directory of the document)"
	MsgFlagRsync    = "rsync binary to use, overriding every other setting"
	MsgFlagNoColor  = "Disable colored output"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/run-long.txt
	msgRunLongRaw string
	MsgRunLong    = strings.TrimSpace(msgRunLongRaw)

	//go:embed msgs/run-example.txt
	msgRunExampleRaw string
	MsgRunExample    = strings.TrimRight(msgRunExampleRaw, "\n")
)
