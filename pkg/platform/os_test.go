// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"slices"
	"testing"
)

func TestFromGOOS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		want OS
	}{
		{"linux", OSLinux},
		{"darwin", OSMacOS},
		{"windows", OSWindows},
		{"freebsd", OSFreeBSD},
		{"openbsd", OSOpenBSD},
		{"netbsd", OSNetBSD},
		{"plan9", OSUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			if got := FromGOOS(tt.goos); got != tt.want {
				t.Errorf("FromGOOS(%q) = %q, want %q", tt.goos, got, tt.want)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	unix, err := Expand("unix")
	if err != nil {
		t.Fatalf("Expand(unix) unexpected error: %v", err)
	}
	if slices.Contains(unix, OSWindows) {
		t.Errorf("unix family must not contain windows, got %v", unix)
	}
	for _, o := range []OS{OSLinux, OSMacOS, OSFreeBSD, OSOpenBSD, OSNetBSD} {
		if !slices.Contains(unix, o) {
			t.Errorf("unix family missing %s", o)
		}
	}

	got, err := Expand("windows")
	if err != nil || !slices.Equal(got, []OS{OSWindows}) {
		t.Errorf("Expand(windows) = %v, %v", got, err)
	}

	_, err = Expand("beos")
	if !errors.Is(err, ErrInvalidOS) {
		t.Errorf("Expand(beos) error = %v, want ErrInvalidOS", err)
	}
}

func TestFamily(t *testing.T) {
	t.Parallel()

	if OSMacOS.Family() != "unix" {
		t.Errorf("macos family = %q", OSMacOS.Family())
	}
	if OSWindows.Family() != "windows" {
		t.Errorf("windows family = %q", OSWindows.Family())
	}
	if OSUnknown.Family() != "unknown" {
		t.Errorf("unknown family = %q", OSUnknown.Family())
	}
}
