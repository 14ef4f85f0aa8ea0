// Package platform describes what the host OS can do for a sync run.
//
// A Platform value is passed to whatever needs to branch on the OS instead of
// consulting runtime.GOOS directly, so both branches can be exercised from
// tests on any machine.
package platform

import (
	"regexp"
	"runtime"
	"strings"
)

// Platform holds the capabilities that change how paths and ownership are
// handled.
type Platform struct {
	// Name is the GOOS-style name of the platform
	Name string

	// RewriteDrivePaths is set where the sync tool expects POSIX paths but the
	// OS hands out drive-letter paths (cwRsync on Windows).
	RewriteDrivePaths bool

	// SupportsOwnership is set where uid/gid ownership can be applied.
	SupportsOwnership bool
}

// Posix is a platform with native POSIX paths and ownership.
var Posix = Platform{Name: "linux", SupportsOwnership: true}

// Windows is a platform with drive-letter paths and no POSIX ownership.
var Windows = Platform{Name: "windows", RewriteDrivePaths: true}

// ForOS returns the platform for a GOOS value
func ForOS(goos string) Platform {
	if goos == "windows" {
		return Windows
	}
	p := Posix
	p.Name = goos
	return p
}

// Current returns the platform the process runs on
func Current() Platform {
	return ForOS(runtime.GOOS)
}

var drivePath = regexp.MustCompile(`^([A-Za-z]):/(.*)$`)

// ToolPath converts a native path into the form the sync tool expects.
// With RewriteDrivePaths, `C:\Users\Name` becomes `/cygdrive/c/Users/Name`
// so cwRsync does not read the drive letter as a remote host. Otherwise the
// path is returned unchanged.
func (p Platform) ToolPath(path string) string {
	if !p.RewriteDrivePaths {
		return path
	}

	path = strings.ReplaceAll(path, `\`, "/")
	if m := drivePath.FindStringSubmatch(path); m != nil {
		return "/cygdrive/" + strings.ToLower(m[1]) + "/" + m[2]
	}
	return path
}
