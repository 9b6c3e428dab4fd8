// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"recipe-cli/pkg/types"
)

// Runtime type constants for different execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

// DefaultWaitDelay bounds how long a child may take to exit after an interrupt
// before it is killed.
const DefaultWaitDelay = 5 * time.Second

var (
	// ErrInterrupted is returned when execution stops because the context was cancelled.
	ErrInterrupted = errors.New("interrupted")

	// ErrRuntimeNotAvailable is returned when a runtime cannot run on this system.
	ErrRuntimeNotAvailable = errors.New("runtime not available")

	// ErrEmptyScript is returned when there is no command text to run.
	ErrEmptyScript = errors.New("script has no content to execute")
)

type (
	// IOContext holds the standard streams of an execution.
	IOContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExecutionContext contains all information needed to run one process line.
	ExecutionContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Script is the interpolated command text.
		Script string
		// WorkDir is the directory the command runs in.
		WorkDir string
		// Env is the complete child environment as KEY=VALUE entries.
		Env []string
		// PositionalArgs are passed to the shell as $1, $2, ...
		PositionalArgs []string
		// IO holds the standard streams. Nil streams are discarded or empty.
		IO IOContext
	}

	// Result contains the result of a command execution.
	Result struct {
		// ExitCode is the exit code of the command.
		ExitCode types.ExitCode
		// Error is set when the command could not be run or was interrupted.
		Error error
		// Output contains captured stdout (if captured).
		Output string
		// ErrOutput contains captured stderr (if captured).
		ErrOutput string
	}

	// Runtime defines the interface for process-line execution.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Execute runs a command in this runtime.
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system.
		Available() bool
		// Validate checks if a command can be executed with this runtime.
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRuntime is implemented by runtimes that support capturing output.
	CapturingRuntime interface {
		// ExecuteCapture runs a command and captures stdout/stderr.
		ExecuteCapture(ctx *ExecutionContext) *Result
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes.
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}

	// InvalidRuntimeTypeError is returned for an unknown runtime name.
	InvalidRuntimeTypeError struct {
		Value string
	}
)

// NewExecutionContext creates an execution context for script run in workDir
// with exactly env as its environment.
func NewExecutionContext(ctx context.Context, script, workDir string, env []string, stdio IOContext) *ExecutionContext {
	return &ExecutionContext{
		Context: ctx,
		Script:  script,
		WorkDir: workDir,
		Env:     env,
		IO:      stdio,
	}
}

func (e *InvalidRuntimeTypeError) Error() string {
	return fmt.Sprintf("unknown runtime %q (valid: %s, %s)", e.Value, RuntimeTypeNative, RuntimeTypeVirtual)
}

// ParseRuntimeType validates a runtime name. An empty value selects native.
func ParseRuntimeType(s string) (RuntimeType, error) {
	switch RuntimeType(s) {
	case "", RuntimeTypeNative:
		return RuntimeTypeNative, nil
	case RuntimeTypeVirtual:
		return RuntimeTypeVirtual, nil
	default:
		return "", &InvalidRuntimeTypeError{Value: s}
	}
}

// Success returns true if the command executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Error == nil
}

// Interrupted reports whether the result came from a cancelled context.
func (r *Result) Interrupted() bool {
	return errors.Is(r.Error, ErrInterrupted)
}

// NewRegistry creates a new runtime registry.
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// Register adds a runtime to the registry.
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type.
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, &InvalidRuntimeTypeError{Value: string(typ)}
	}
	if !rt.Available() {
		return nil, fmt.Errorf("%w: %s", ErrRuntimeNotAvailable, typ)
	}
	return rt, nil
}

// Available returns the registered runtimes that can run here, sorted by name.
func (r *Registry) Available() []RuntimeType {
	var out []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			out = append(out, typ)
		}
	}
	slices.Sort(out)
	return out
}
