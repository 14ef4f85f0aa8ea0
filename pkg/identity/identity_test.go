package identity_test

import (
	"os/user"
	"strconv"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/identity"
	"github.com/arthur-debert/dotsync/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users  map[string]int
	groups map[string]int
}

func (f fakeResolver) UID(owner string) (int, error) {
	if id, ok := f.users[owner]; ok {
		return id, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrUserLookup, "unknown owner %q", owner)
}

func (f fakeResolver) GID(group string) (int, error) {
	if id, ok := f.groups[group]; ok {
		return id, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrGroupLookup, "unknown group %q", group)
}

func (f fakeResolver) CurrentOwner() string { return "me" }
func (f fakeResolver) CurrentGroup() string { return "staff" }

func TestResolve(t *testing.T) {
	r := fakeResolver{
		users:  map[string]int{"me": 501},
		groups: map[string]int{"staff": 20},
	}

	tests := []struct {
		name     string
		platform platform.Platform
		owner    string
		group    string
		want     identity.Ownership
		wantCode errors.ErrorCode
	}{
		{"both resolved", platform.Posix, "me", "staff", identity.Ownership{UID: 501, GID: 20}, ""},
		{"empty group unchanged", platform.Posix, "me", "", identity.Ownership{UID: 501, GID: -1}, ""},
		{"empty owner unchanged", platform.Posix, "", "staff", identity.Ownership{UID: -1, GID: 20}, ""},
		{"windows skips lookup", platform.Windows, "nobody-known", "none", identity.NoOwnership, ""},
		{"unknown owner", platform.Posix, "ghost", "staff", identity.NoOwnership, errors.ErrUserLookup},
		{"unknown group", platform.Posix, "me", "ghosts", identity.NoOwnership, errors.ErrGroupLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identity.Resolve(r, tt.platform, tt.owner, tt.group)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSystem_CurrentUser(t *testing.T) {
	current, err := user.Current()
	if err != nil {
		t.Skip("current user not available")
	}

	s := identity.NewSystem(platform.Posix)
	assert.Equal(t, current.Username, s.CurrentOwner())

	uid, err := s.UID(current.Username)
	require.NoError(t, err)
	assert.Equal(t, current.Uid, strconv.Itoa(uid))
}

func TestSystem_CurrentGroupEmptyWithoutOwnership(t *testing.T) {
	s := identity.NewSystem(platform.Windows)
	assert.Equal(t, "", s.CurrentGroup())
}

func TestSystem_UnknownUser(t *testing.T) {
	s := identity.NewSystem(platform.Posix)
	_, err := s.UID("no-such-user-dotsync-test")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
}
