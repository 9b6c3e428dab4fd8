// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultDotenvFile is loaded from the recipefile directory when dotenv loading is enabled.
const DefaultDotenvFile = ".env"

// LoadEnvFile reads a dotenv file. Relative paths are resolved against basePath.
// When optional is true a missing file yields an empty map instead of an error.
func LoadEnvFile(path, basePath string, optional bool) (map[string]string, error) {
	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(basePath, fullPath)
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env file '%s': %w", path, err)
	}
	return env, nil
}
