// SPDX-License-Identifier: MPL-2.0

// Package discovery locates and loads the recipefile.
//
// Without an explicit path, the search starts in the base directory and walks
// up to the filesystem root; the first directory holding one of FileNames wins.
// Non-fatal findings (such as a second candidate name in the same directory)
// are returned as Diagnostics for the CLI to render.
package discovery
