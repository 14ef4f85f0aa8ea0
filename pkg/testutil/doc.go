// Package testutil provides utilities for testing dotsync components.
//
// Key components:
//   - File helpers that build a dotfiles tree under t.TempDir()
//   - IsolateXDG: points the XDG directories at temporary ones
//   - FakeRunner: records tool invocations and scripts exit codes
//   - StaticResolver: resolves a fixed set of users and groups
//
// Unit tests inside the handler packages use an in-memory afero filesystem
// instead; these helpers serve tests that need the real OS.
package testutil
