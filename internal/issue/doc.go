// SPDX-License-Identifier: MPL-2.0

// Package issue holds the user-facing side of errors: ActionableError, which
// says what failed and what to try, and a catalog of Markdown guidance pages
// that the CLI renders with glamour for the common failure classes.
package issue
