// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"strings"

	"recipe-cli/internal/resolver"
	"recipe-cli/internal/runtime"
	"recipe-cli/pkg/recipefile"
	"recipe-cli/pkg/types"
)

var (
	// ErrProcessFailure is returned when a process line exits non-zero.
	ErrProcessFailure = errors.New("process failure")
	// ErrCyclicInvocation is returned when a recipe invokes itself, directly or indirectly.
	ErrCyclicInvocation = errors.New("cyclic recipe invocation")
	// ErrLineExecution is returned when a process line cannot be started.
	ErrLineExecution = errors.New("failed to execute line")
	// ErrDotenv is returned when a requested dotenv file cannot be loaded.
	ErrDotenv = errors.New("dotenv")
)

type (
	// ProcessFailureError reports a process line that exited non-zero.
	ProcessFailureError struct {
		Recipe   string
		Line     string
		Pos      recipefile.Pos
		ExitCode types.ExitCode
		// Silent is set for recipes with [no-exit-message]; the CLI prints nothing.
		Silent bool
	}

	// CyclicInvocationError reports a recipe name found again on the call stack.
	CyclicInvocationError struct {
		// Stack is the chain of recipe names ending with the repeated one.
		Stack []string
	}

	// LineError reports a process line that could not be run at all. It is
	// never swallowed by the `-` prefix.
	LineError struct {
		Recipe string
		Pos    recipefile.Pos
		Err    error
	}
)

func (e *ProcessFailureError) Error() string {
	return fmt.Sprintf("recipe %q failed on line %d with exit code %d", e.Recipe, e.Pos.Line, e.ExitCode)
}

// Unwrap returns ErrProcessFailure so callers can use errors.Is for programmatic detection.
func (e *ProcessFailureError) Unwrap() error { return ErrProcessFailure }

func (e *CyclicInvocationError) Error() string {
	return fmt.Sprintf("recipe %q invokes itself: %s", e.Stack[len(e.Stack)-1], strings.Join(e.Stack, " -> "))
}

// Unwrap returns ErrCyclicInvocation so callers can use errors.Is for programmatic detection.
func (e *CyclicInvocationError) Unwrap() error { return ErrCyclicInvocation }

func (e *LineError) Error() string {
	return fmt.Sprintf("recipe %q line %d: %v", e.Recipe, e.Pos.Line, e.Err)
}

// Unwrap returns the underlying failure.
func (e *LineError) Unwrap() error { return e.Err }

// Is matches ErrLineExecution in addition to the wrapped chain.
func (e *LineError) Is(target error) bool { return target == ErrLineExecution }

// ExitCodeFor maps a run error to the process exit code:
// the failing child's code for process failures, 130 for interrupts,
// 2 for parse, resolution, binding and cycle errors, and 1 otherwise.
func ExitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	if errors.Is(err, runtime.ErrInterrupted) {
		return types.ExitInterrupted
	}
	var failure *ProcessFailureError
	if errors.As(err, &failure) {
		return failure.ExitCode
	}
	if errors.Is(err, recipefile.ErrParse) || errors.Is(err, ErrCyclicInvocation) || resolver.IsResolutionError(err) {
		return types.ExitResolution
	}
	return types.ExitFailure
}
