// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RecipefileName is the file name fixtures are written under.
const RecipefileName = "recipefile"

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// WriteFile writes content to dir/name, creating dir if needed, and returns
// the file path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	MustMkdirAll(t, dir)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteRecipefile writes content to dir/recipefile and returns the file path.
func WriteRecipefile(t testing.TB, dir, content string) string {
	t.Helper()
	return WriteFile(t, dir, RecipefileName, content)
}
