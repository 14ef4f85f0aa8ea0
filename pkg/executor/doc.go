// Package executor runs external programs for dotsync.
//
// A Runner reports the exit status of a program separately from failures to
// run it at all: a non-zero exit is a result, not an error. The dry-run
// runner logs the invocation it would have made and reports success.
package executor
