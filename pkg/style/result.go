package style

import (
	"fmt"
)

// Result summarizes a finished run of a directive document
type Result struct {
	Document string
	Success  bool
	DryRun   bool
}

// Render returns the one-line summary shown after a run
func (r Result) Render() string {
	path := PathStyle.Render(r.Document)

	switch {
	case r.DryRun && r.Success:
		return fmt.Sprintf("%s %s %s", WarningStyle.Render(DryRunMark), path, MutedStyle.Render("dry run, nothing was synchronized"))
	case r.Success:
		return fmt.Sprintf("%s %s %s", SuccessStyle.Render(SuccessMark), path, MutedStyle.Render("synchronized"))
	default:
		return fmt.Sprintf("%s %s %s", ErrorStyle.Render(ErrorMark), path, MutedStyle.Render("some tasks failed, run with -v for details"))
	}
}
