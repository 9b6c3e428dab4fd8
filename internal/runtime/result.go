// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"

	"recipe-cli/pkg/types"
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}

// NewInterruptedResult creates the result reported when the context is cancelled.
func NewInterruptedResult(cause error) *Result {
	if cause == nil {
		return &Result{ExitCode: types.ExitInterrupted, Error: ErrInterrupted}
	}
	return &Result{ExitCode: types.ExitInterrupted, Error: fmt.Errorf("%w: %w", ErrInterrupted, cause)}
}
