// Package filesystem provides the filesystem implementations used by dotsync.
//
// Everything goes through afero so the same code runs against the real OS
// filesystem and against in-memory filesystems in tests.
package filesystem
