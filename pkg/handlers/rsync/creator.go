package rsync

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/arthur-debert/dotsync/pkg/platform"
	"github.com/rs/zerolog"
)

// DirectoryCreator makes the parent directory of a destination
type DirectoryCreator struct {
	fs       filesystem.FS
	platform platform.Platform
	logger   zerolog.Logger
}

// NewDirectoryCreator creates a DirectoryCreator
func NewDirectoryCreator(fsys filesystem.FS, p platform.Platform, logger zerolog.Logger) *DirectoryCreator {
	return &DirectoryCreator{fs: fsys, platform: p, logger: logger}
}

// CreateParent creates the parent of path when it does not exist, then
// applies mode and ownership to it. It returns false only when the
// directory could not be created; chmod and chown failures are logged.
func (c *DirectoryCreator) CreateParent(path string, mode fs.FileMode, owner identity.Ownership) bool {
	parent := filepath.Dir(filepath.Clean(path))
	if _, err := c.fs.Stat(parent); err == nil {
		return true
	}

	if err := c.fs.Mkdir(parent, mode); err != nil {
		c.logger.Warn().Err(err).Str("path", parent).Msgf("Failed to create directory %s", parent)
		return false
	}
	c.applyModeAndOwner(parent, mode, owner)

	c.logger.Debug().Str("path", parent).Msgf("Creating directory %s", parent)
	return true
}

// applyModeAndOwner sets mode, then ownership where the platform has it.
// Mkdir is subject to the umask, hence the explicit chmod.
func (c *DirectoryCreator) applyModeAndOwner(path string, mode fs.FileMode, owner identity.Ownership) {
	if err := c.fs.Chmod(path, mode); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msgf("Failed to chmod %s to %#o", path, uint32(mode))
	}

	if !c.platform.SupportsOwnership {
		return
	}
	if err := c.fs.Chown(path, owner.UID, owner.GID); err != nil {
		c.logger.Warn().Err(err).Str("path", path).
			Int("uid", owner.UID).
			Int("gid", owner.GID).
			Msgf("Failed to chown %s to uid=%d, gid=%d", path, owner.UID, owner.GID)
	}
}
