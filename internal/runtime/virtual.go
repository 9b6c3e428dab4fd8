// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"recipe-cli/pkg/types"
)

// VirtualRuntime executes commands using the embedded mvdan/sh interpreter.
// External programs started by the script still run as child processes.
type VirtualRuntime struct {
	// WaitDelay bounds the wait for a child after an interrupt; zero uses DefaultWaitDelay.
	WaitDelay time.Duration
}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Available returns whether this runtime is available.
// The virtual runtime is built in and always available.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Validate checks that the script is present and parses as POSIX shell.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if strings.TrimSpace(ctx.Script) == "" {
		return ErrEmptyScript
	}
	if _, err := parseScript(ctx.Script); err != nil {
		return err
	}
	return nil
}

// Execute runs a command using the virtual shell, streaming its output.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.execute(ctx, newStreamingOutput(ctx.IO.Stdout, ctx.IO.Stderr))
}

// ExecuteCapture runs a command and captures its output.
func (r *VirtualRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	out, captured := newCapturingOutput()
	result := r.execute(ctx, out)
	result.Output = captured.stdout.String()
	result.ErrOutput = captured.stderr.String()
	return result
}

func (r *VirtualRuntime) execute(ctx *ExecutionContext, out *executeOutput) *Result {
	prog, err := parseScript(ctx.Script)
	if err != nil {
		return NewErrorResult(types.ExitFailure, err)
	}

	stdin := ctx.IO.Stdin
	if out.capture {
		stdin = nil
	}
	opts := []interp.RunnerOption{
		interp.Dir(ctx.WorkDir),
		interp.Env(expand.ListEnviron(ctx.Env...)),
		interp.StdIO(stdin, out.stdout, out.stderr),
		interp.ExecHandlers(r.execHandler),
	}

	// "--" ends option parsing; without it args like "-v" would be read as shell options
	if len(ctx.PositionalArgs) > 0 {
		params := append([]string{"--"}, ctx.PositionalArgs...)
		opts = append(opts, interp.Params(params...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err))
	}

	err = runner.Run(ctx.Context, prog)
	if ctxErr := ctx.Context.Err(); ctxErr != nil {
		return NewInterruptedResult(ctxErr)
	}
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(types.ExitCode(exitStatus))
		}
		return NewErrorResult(types.ExitFailure, fmt.Errorf("script execution failed: %w", err))
	}
	return NewSuccessResult()
}

// execHandler runs external commands, interrupting them on cancellation and
// killing them once the wait delay has passed.
func (r *VirtualRuntime) execHandler(_ interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	delay := r.WaitDelay
	if delay <= 0 {
		delay = DefaultWaitDelay
	}
	return interp.DefaultExecHandler(delay)
}

func parseScript(script string) (*syntax.File, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "recipe")
	if err != nil {
		return nil, fmt.Errorf("script syntax error: %w", err)
	}
	return prog, nil
}
