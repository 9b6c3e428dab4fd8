// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"time"

	"recipe-cli/pkg/platform"
)

// positionalArgZero is passed as $0 when positional arguments follow the script.
const positionalArgZero = "recipe"

// NativeRuntime executes commands using the system shell.
type NativeRuntime struct {
	// Shell overrides the default shell.
	Shell string
	// ShellArgs are arguments passed to the shell before the script.
	ShellArgs []string
	// WaitDelay bounds the wait for a child after an interrupt; zero uses DefaultWaitDelay.
	WaitDelay time.Duration
}

// NewNativeRuntime creates a native runtime. shell is an argv such as
// ["bash", "-cu"]; an empty slice selects the platform default.
func NewNativeRuntime(shell []string) *NativeRuntime {
	r := &NativeRuntime{}
	if len(shell) > 0 {
		r.Shell = shell[0]
		r.ShellArgs = append([]string(nil), shell[1:]...)
	}
	return r
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Available returns whether a shell can be found.
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Validate checks if a command can be executed.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if strings.TrimSpace(ctx.Script) == "" {
		return ErrEmptyScript
	}
	return nil
}

// Execute runs a command using the system shell, streaming its output.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.execute(ctx, newStreamingOutput(ctx.IO.Stdout, ctx.IO.Stderr))
}

// ExecuteCapture runs a command and captures its output.
func (r *NativeRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	out, captured := newCapturingOutput()
	result := r.execute(ctx, out)
	result.Output = captured.stdout.String()
	result.ErrOutput = captured.stderr.String()
	return result
}

func (r *NativeRuntime) execute(ctx *ExecutionContext, out *executeOutput) *Result {
	shell, err := r.getShell()
	if err != nil {
		return NewErrorResult(1, err)
	}

	args := r.getShellArgs(shell)
	args = append(args, ctx.Script)
	args = r.appendPositionalArgs(shell, args, ctx.PositionalArgs)

	cmd := exec.CommandContext(ctx.Context, shell, args...)
	cmd.Cancel = func() error { return interruptProcess(cmd.Process) }
	cmd.WaitDelay = r.waitDelay()
	cmd.Dir = ctx.WorkDir
	cmd.Env = ctx.Env
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr
	if !out.capture {
		cmd.Stdin = ctx.IO.Stdin
	}

	err = cmd.Run()
	if ctxErr := ctx.Context.Err(); ctxErr != nil {
		return NewInterruptedResult(ctxErr)
	}
	return extractExitCode(err)
}

func (r *NativeRuntime) waitDelay() time.Duration {
	if r.WaitDelay > 0 {
		return r.WaitDelay
	}
	return DefaultWaitDelay
}

// getShell determines which shell to use.
func (r *NativeRuntime) getShell() (string, error) {
	if r.Shell != "" {
		if filepath.IsAbs(r.Shell) {
			return r.Shell, nil
		}
		return exec.LookPath(r.Shell)
	}

	switch goruntime.GOOS {
	case platform.Windows:
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		return "", fmt.Errorf("%w: no shell found", ErrRuntimeNotAvailable)
	}
}

// getShellArgs returns the arguments to pass to the shell before the script.
func (r *NativeRuntime) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return append([]string(nil), r.ShellArgs...)
	}

	switch shellBase(shell) {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// POSIX shell; -u turns references to unset variables into errors
		return []string{"-cu"}
	}
}

// appendPositionalArgs appends positional arguments after the script for shell access.
// For POSIX shells: args become $1, $2, ... (with "recipe" as $0)
// For PowerShell: args become $args[0], $args[1], ...
// For cmd.exe: no change (doesn't support inline positional args)
func (r *NativeRuntime) appendPositionalArgs(shell string, args, positionalArgs []string) []string {
	if len(positionalArgs) == 0 {
		return args
	}

	switch shellBase(shell) {
	case "cmd":
		return args
	case "powershell", "pwsh":
		return append(args, positionalArgs...)
	default:
		args = append(args, positionalArgZero)
		return append(args, positionalArgs...)
	}
}

// shellBase extracts the executable name, handling Windows separators on any host.
func shellBase(shell string) string {
	base := filepath.Base(shell)
	if lastSlash := strings.LastIndex(base, "\\"); lastSlash >= 0 {
		base = base[lastSlash+1:]
	}
	return strings.TrimSuffix(base, ".exe")
}
