// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ParseShell splits a shell command line such as `bash -euo pipefail -c` into
// an argv. An empty string yields nil (platform default).
func ParseShell(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parser := shellwords.NewParser()
	argv, err := parser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid shell %q: %w", s, err)
	}
	return argv, nil
}
