// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	goruntime "runtime"
	"slices"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	FreeBSD = "freebsd"
	OpenBSD = "openbsd"
	NetBSD  = "netbsd"
)

// Recipefile OS names. macOS is spelled "macos" in recipefiles, not "darwin".
const (
	OSLinux   OS = "linux"
	OSMacOS   OS = "macos"
	OSWindows OS = "windows"
	OSFreeBSD OS = "freebsd"
	OSOpenBSD OS = "openbsd"
	OSNetBSD  OS = "netbsd"
	// OSUnknown is reported for GOOS values no recipe attribute can name.
	OSUnknown OS = "unknown"

	// FamilyUnix is the attribute name that expands to every unix-like OS.
	FamilyUnix = "unix"
)

// ErrInvalidOS is the sentinel error wrapped by InvalidOSError.
var ErrInvalidOS = errors.New("invalid operating system")

type (
	// OS identifies an operating system as spelled in recipefile attributes.
	OS string

	// InvalidOSError is returned when an attribute names no known OS or family.
	InvalidOSError struct {
		Value string
	}
)

// knownOS lists every concrete OS in a stable order.
var knownOS = []OS{OSLinux, OSMacOS, OSWindows, OSFreeBSD, OSOpenBSD, OSNetBSD}

// Error implements the error interface.
func (e *InvalidOSError) Error() string {
	return fmt.Sprintf("unknown operating system %q (valid: %s, %s)", e.Value, FamilyUnix, joinOS(knownOS))
}

// Unwrap returns ErrInvalidOS so callers can use errors.Is for programmatic detection.
func (e *InvalidOSError) Unwrap() error { return ErrInvalidOS }

// String returns the recipefile spelling of the OS.
func (o OS) String() string { return string(o) }

// IsUnix reports whether the OS belongs to the unix family.
func (o OS) IsUnix() bool {
	switch o {
	case OSLinux, OSMacOS, OSFreeBSD, OSOpenBSD, OSNetBSD:
		return true
	default:
		return false
	}
}

// Family returns "unix" or "windows" for known systems and "unknown" otherwise.
func (o OS) Family() string {
	switch {
	case o.IsUnix():
		return FamilyUnix
	case o == OSWindows:
		return Windows
	default:
		return string(OSUnknown)
	}
}

// Current returns the OS the process is running on.
func Current() OS {
	return FromGOOS(goruntime.GOOS)
}

// FromGOOS maps a runtime.GOOS value to a recipefile OS name.
func FromGOOS(goos string) OS {
	switch goos {
	case Linux:
		return OSLinux
	case Darwin:
		return OSMacOS
	case Windows:
		return OSWindows
	case FreeBSD:
		return OSFreeBSD
	case OpenBSD:
		return OSOpenBSD
	case NetBSD:
		return OSNetBSD
	default:
		return OSUnknown
	}
}

// Expand resolves an attribute name into the concrete systems it covers.
// "unix" expands to every unix-like OS; any other known name maps to itself.
func Expand(name string) ([]OS, error) {
	if name == FamilyUnix {
		var out []OS
		for _, o := range knownOS {
			if o.IsUnix() {
				out = append(out, o)
			}
		}
		return out, nil
	}
	o := OS(name)
	if slices.Contains(knownOS, o) {
		return []OS{o}, nil
	}
	return nil, &InvalidOSError{Value: name}
}

// IsOSAttribute reports whether name is accepted as an OS attribute.
func IsOSAttribute(name string) bool {
	_, err := Expand(name)
	return err == nil
}

// Known returns all concrete systems in declaration order.
func Known() []OS {
	return slices.Clone(knownOS)
}

func joinOS(list []OS) string {
	parts := make([]string, len(list))
	for i, o := range list {
		parts[i] = string(o)
	}
	return strings.Join(parts, ", ")
}
