// Package rsync implements the sync directive: it copies files and
// directories from the dotfiles tree to their destinations by running rsync
// (cwRsync on Windows) once per matched source path.
//
// A task maps destinations to sources:
//
//	- sync:
//	    ~/.zshrc: zsh/zshrc
//	    ~/.config/nvim:
//	      path: nvim
//	      create: true
//	      dmode: 700
//
// Each record resolves its settings from built-in defaults, the host
// defaults and its own fields, in that order of increasing precedence.
// File and directory modes are written as octal digits without a leading
// zero (644, 755). They appear unchanged in rsync's --chmod flag and are read
// as octal when creating directories.
package rsync
