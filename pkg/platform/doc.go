// SPDX-License-Identifier: MPL-2.0

// Package platform provides operating-system identification for recipe variants.
//
// Recipe variants are tagged with OS attributes such as [linux] or [unix]. This
// package maps Go's runtime.GOOS values onto the OS names accepted in a
// recipefile and expands family names (unix) into their member systems.
package platform
