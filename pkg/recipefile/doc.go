// SPDX-License-Identifier: MPL-2.0

// Package recipefile provides types and parsing for recipefile definitions.
//
// A recipefile declares named recipes with parameters, OS-conditional variants,
// aliases, top-level variable assignments and settings. Parsing produces an
// immutable Recipefile value that is shared read-only by the resolver and the
// execution engine for the lifetime of the process.
//
// Recipe bodies are opaque shell text: the only processing this package applies
// to them is the {{ identifier }} interpolation grammar and the @ (quiet) and
// - (ignore failure) line prefixes.
package recipefile
