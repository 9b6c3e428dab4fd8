// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// maxConfigSize caps the size of a config file read from disk.
const maxConfigSize = 1 << 20

// decodeConfigCUE unifies data with the #Config definition of the embedded
// schema and decodes the result into a map. Fields absent from data stay
// absent so viper defaults and env overrides still apply.
func decodeConfigCUE(data []byte, filename string) (map[string]any, error) {
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxConfigSize)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: #Config not found in schema: %w", err)
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err, filename)
	}

	unified := def.Unify(user)
	if err := unified.Validate(); err != nil {
		return nil, formatCUEError(err, filename)
	}

	out := map[string]any{}
	if err := unified.Decode(&out); err != nil {
		return nil, formatCUEError(err, filename)
	}
	return out, nil
}

// formatCUEError flattens a CUE error list into "<file>: <path>: <message>"
// lines, one per underlying error.
func formatCUEError(err error, filename string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		path := cuePath(cueerrors.Path(e))
		msg := e.Error()
		if path == "" {
			lines = append(lines, msg)
			continue
		}
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		lines = append(lines, path+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// cuePath renders a CUE selector path in dotted form, with list indices in
// brackets: ["list", "sort"] becomes "list.sort".
func cuePath(parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil && i > 0 {
			sb.WriteString("[" + p + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}
