// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"io"
	"os/exec"

	"recipe-cli/pkg/types"
)

type (
	// executeOutput configures where command output is directed during execution.
	// It abstracts the difference between streaming (to the caller's writers) and
	// capturing (to bytes.Buffer) execution modes.
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
		// capture indicates whether output is being captured to buffers
		capture bool
	}

	// capturedOutput holds the captured stdout and stderr buffers when capture mode is used.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// newStreamingOutput creates an output configuration that streams to the provided writers.
func newStreamingOutput(stdout, stderr io.Writer) *executeOutput {
	return &executeOutput{
		stdout:  stdout,
		stderr:  stderr,
		capture: false,
	}
}

// newCapturingOutput creates an output configuration that captures to internal buffers.
// Returns the output configuration and the buffer holder to retrieve results from.
func newCapturingOutput() (*executeOutput, *capturedOutput) {
	captured := &capturedOutput{}
	return &executeOutput{
		stdout:  &captured.stdout,
		stderr:  &captured.stderr,
		capture: true,
	}, captured
}

// extractExitCode determines the exit code from a command execution error.
func extractExitCode(err error) *Result {
	if err == nil {
		return NewSuccessResult()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Command executed but returned non-zero exit code. A negative code
		// means the child was killed by a signal.
		exitCode := types.ExitCode(exitErr.ExitCode())
		if exitCode < 0 {
			if code, ok := signalExitCode(exitErr.ProcessState); ok {
				return NewExitCodeResult(code)
			}
			return NewExitCodeResult(types.ExitFailure)
		}
		if validateErr := exitCode.Validate(); validateErr != nil {
			return NewErrorResult(types.ExitFailure, validateErr)
		}
		return NewExitCodeResult(exitCode)
	}

	// Some other error (e.g., command not found, permission denied)
	return NewErrorResult(types.ExitFailure, err)
}
