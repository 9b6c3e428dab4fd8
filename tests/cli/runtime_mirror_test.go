// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// mirrorExemptions lists virtual-runtime scripts without a native mirror and why.
var mirrorExemptions = map[string]string{}

// TestVirtualRuntimeMirrorCoverage enforces that every virtual_*.txtar script
// has a native_*.txtar mirror so both runtimes keep the same behavior.
func TestVirtualRuntimeMirrorCoverage(t *testing.T) {
	t.Parallel()

	entries, err := os.ReadDir("testdata")
	if err != nil {
		t.Fatalf("failed to read testdata: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	for _, name := range names {
		rest, ok := strings.CutPrefix(name, "virtual_")
		if !ok || filepath.Ext(name) != ".txtar" {
			continue
		}
		if _, exempt := mirrorExemptions[name]; exempt {
			continue
		}
		if mirror := "native_" + rest; !slices.Contains(names, mirror) {
			t.Errorf("%s has no native mirror %s", name, mirror)
		}
	}
}
