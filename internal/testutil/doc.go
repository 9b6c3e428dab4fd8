// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture helpers that fail the test on error,
// reducing boilerplate in package tests.
package testutil
