// SPDX-License-Identifier: MPL-2.0

// Package engine executes recipes.
//
// An Engine is built once from an immutable recipefile. Each Run resolves the
// requested recipe, selects its variant for the target OS, binds arguments and
// executes the body line by line, depth first. Invocation lines recurse through
// the same path with an explicit call stack; process lines are handed to a
// runtime.Runtime. The first line that exits non-zero (and is not marked with
// `-`) aborts the whole chain and its exit code becomes the run's exit code.
package engine
