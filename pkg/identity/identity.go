// Package identity resolves owner and group names to numeric ids.
package identity

import (
	"os/user"
	"strconv"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/platform"
)

// Unchanged is the id value that tells chown to leave an id alone
const Unchanged = -1

// Resolver looks up users and groups
type Resolver interface {
	// UID returns the numeric id of the named user
	UID(owner string) (int, error)
	// GID returns the numeric id of the named group
	GID(group string) (int, error)
	// CurrentOwner returns the name of the user running the process
	CurrentOwner() string
	// CurrentGroup returns the name of that user's primary group, or ""
	CurrentGroup() string
}

// System resolves names through the OS user and group databases
type System struct {
	platform platform.Platform
}

// NewSystem creates a resolver for the given platform
func NewSystem(p platform.Platform) *System {
	return &System{platform: p}
}

func (s *System) UID(owner string) (int, error) {
	u, err := user.Lookup(owner)
	if err != nil {
		return Unchanged, errors.Wrapf(err, errors.ErrUserLookup, "unknown owner %q", owner).
			WithDetail("owner", owner)
	}
	return parseID(u.Uid, errors.ErrUserLookup)
}

func (s *System) GID(group string) (int, error) {
	g, err := user.LookupGroup(group)
	if err != nil {
		return Unchanged, errors.Wrapf(err, errors.ErrGroupLookup, "unknown group %q", group).
			WithDetail("group", group)
	}
	return parseID(g.Gid, errors.ErrGroupLookup)
}

func (s *System) CurrentOwner() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// CurrentGroup is always empty where ownership is not supported, which
// keeps the --chown flag out of the tool invocation there.
func (s *System) CurrentGroup() string {
	if !s.platform.SupportsOwnership {
		return ""
	}
	u, err := user.Current()
	if err != nil {
		return ""
	}
	g, err := user.LookupGroupId(u.Gid)
	if err != nil {
		return ""
	}
	return g.Name
}

func parseID(raw string, code errors.ErrorCode) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return Unchanged, errors.Wrapf(err, code, "non-numeric id %q", raw)
	}
	return id, nil
}

// Ownership is a resolved uid/gid pair
type Ownership struct {
	UID int
	GID int
}

// NoOwnership leaves both ids unchanged
var NoOwnership = Ownership{UID: Unchanged, GID: Unchanged}

// Resolve turns owner and group names into an Ownership. Empty names map
// to Unchanged, and so does everything on platforms without ownership.
func Resolve(r Resolver, p platform.Platform, owner, group string) (Ownership, error) {
	if !p.SupportsOwnership {
		return NoOwnership, nil
	}

	o := NoOwnership
	if owner != "" {
		uid, err := r.UID(owner)
		if err != nil {
			return NoOwnership, err
		}
		o.UID = uid
	}
	if group != "" {
		gid, err := r.GID(group)
		if err != nil {
			return NoOwnership, err
		}
		o.GID = gid
	}
	return o, nil
}
