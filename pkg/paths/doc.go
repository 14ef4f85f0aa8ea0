// Package paths expands user-supplied path expressions.
//
// Expressions go through home-directory expansion (`~`, `~/...`), then
// environment variable expansion (`$NAME`, `${NAME}`; unknown variables are
// left as written), and optionally glob matching against a filesystem.
package paths
