// SPDX-License-Identifier: MPL-2.0

// Package runtime provides process-line execution runtimes for recipes.
//
// Two runtime implementations are available:
//   - native: runs each line through the host shell (sh -cu, or PowerShell on Windows)
//   - virtual: runs each line through an embedded POSIX shell interpreter (mvdan/sh)
//
// All runtimes implement the Runtime interface with Name(), Execute(), Available(), and Validate().
// Runtimes supporting output capture implement CapturingRuntime; capture mode is
// used to evaluate backtick expressions.
//
// Cancelling the execution context forwards an interrupt to the running child,
// waits a bounded time for it to exit, and reports ErrInterrupted with exit code 130.
package runtime
