// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"strings"

	"recipe-cli/pkg/types"
)

type (
	// Capturer runs commands in capture mode for backtick evaluation.
	Capturer struct {
		Runtime CapturingRuntime
	}

	// CaptureError reports a captured command that exited non-zero.
	CaptureError struct {
		Command  string
		ExitCode types.ExitCode
		Stderr   string
	}
)

func (e *CaptureError) Error() string {
	msg := fmt.Sprintf("command exited with code %d", e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Capture runs command in dir with env and returns its standard output.
func (c *Capturer) Capture(ctx context.Context, command, dir string, env []string) (string, error) {
	result := c.Runtime.ExecuteCapture(NewExecutionContext(ctx, command, dir, env, IOContext{}))
	if result.Error != nil {
		return "", result.Error
	}
	if result.ExitCode != 0 {
		return "", &CaptureError{Command: command, ExitCode: result.ExitCode, Stderr: result.ErrOutput}
	}
	return result.Output, nil
}
