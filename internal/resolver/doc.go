// SPDX-License-Identifier: MPL-2.0

// Package resolver maps recipe names to definitions, selects the variant for
// the running operating system and binds call-site arguments to parameters.
//
// Expressions (parameter defaults, top-level assignments, invocation
// arguments) are evaluated lazily by an Evaluator. Assignment values are
// memoized for the lifetime of one Evaluator, which the engine creates once
// per run.
package resolver
