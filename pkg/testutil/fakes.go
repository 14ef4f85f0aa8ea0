package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/identity"
)

// FakeRunner records invocations. ExitCodes and Errors are keyed by the
// source argument of an rsync invocation, the second to last argument.
type FakeRunner struct {
	mu        sync.Mutex
	Calls     []executor.Invocation
	ExitCodes map[string]int
	Errors    map[string]error
}

// NewFakeRunner creates a runner where every invocation exits 0
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		ExitCodes: map[string]int{},
		Errors:    map[string]error{},
	}
}

func (f *FakeRunner) Run(_ context.Context, inv executor.Invocation) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, inv)
	if len(inv.Args) < 2 {
		return 0, nil
	}
	source := inv.Args[len(inv.Args)-2]
	if err, ok := f.Errors[source]; ok {
		return -1, err
	}
	return f.ExitCodes[source], nil
}

// Invocations returns a copy of the recorded calls
func (f *FakeRunner) Invocations() []executor.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]executor.Invocation(nil), f.Calls...)
}

// StaticResolver resolves names from fixed tables
type StaticResolver struct {
	Users  map[string]int
	Groups map[string]int
	Owner  string
	Group  string
}

// NewStaticResolver returns a resolver knowing the given current user
// and group, plus root and wheel.
func NewStaticResolver(owner string, uid int, group string, gid int) *StaticResolver {
	return &StaticResolver{
		Users:  map[string]int{owner: uid, "root": 0},
		Groups: map[string]int{group: gid, "wheel": 0},
		Owner:  owner,
		Group:  group,
	}
}

func (r *StaticResolver) UID(owner string) (int, error) {
	if id, ok := r.Users[owner]; ok {
		return id, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrUserLookup, "unknown owner %q", owner)
}

func (r *StaticResolver) GID(group string) (int, error) {
	if id, ok := r.Groups[group]; ok {
		return id, nil
	}
	return identity.Unchanged, errors.Newf(errors.ErrGroupLookup, "unknown group %q", group)
}

func (r *StaticResolver) CurrentOwner() string { return r.Owner }
func (r *StaticResolver) CurrentGroup() string { return r.Group }
