package rsync

import (
	"fmt"

	"github.com/arthur-debert/dotsync/pkg/executor"
)

// BuildCommand returns the rsync invocation copying source to destination.
// Paths must already be in the form the tool expects.
func BuildCommand(s Settings, source, destination string) executor.Invocation {
	args := []string{"--update", "--recursive", "--owner", "--group"}
	if s.Owner != "" && s.Group != "" {
		args = append(args, fmt.Sprintf("--chown=%s:%s", s.Owner, s.Group))
	}
	args = append(args, fmt.Sprintf("--chmod=D%s,F%s", s.DMode, s.FMode))
	args = append(args, s.Options...)
	args = append(args, source, destination)

	return executor.Invocation{Program: s.Rsync, Args: args}
}
