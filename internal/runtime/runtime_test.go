// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
	"time"

	"recipe-cli/pkg/types"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("POSIX shell tests do not run on Windows")
	}
}

// runtimesUnderTest returns both runtimes so behavior shared by native and
// virtual execution is checked once.
func runtimesUnderTest() []interface {
	Runtime
	CapturingRuntime
} {
	return []interface {
		Runtime
		CapturingRuntime
	}{NewNativeRuntime(nil), NewVirtualRuntime()}
}

func newTestContext(t *testing.T, script string) (*ExecutionContext, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	ctx := NewExecutionContext(t.Context(), script, t.TempDir(), os.Environ(),
		IOContext{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	return ctx, &stdout
}

func TestRuntimes_Execute(t *testing.T) {
	skipOnWindows(t)
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Parallel()

	for _, rt := range runtimesUnderTest() {
		t.Run(rt.Name(), func(t *testing.T) {
			t.Parallel()

			t.Run("output", func(t *testing.T) {
				ctx, stdout := newTestContext(t, "echo hello from $GREETING_TARGET")
				ctx.Env = append(ctx.Env, "GREETING_TARGET=recipe")
				result := rt.Execute(ctx)
				if !result.Success() {
					t.Fatalf("Execute() = %d, %v", result.ExitCode, result.Error)
				}
				if got := strings.TrimSpace(stdout.String()); got != "hello from recipe" {
					t.Errorf("stdout = %q", got)
				}
			})

			t.Run("exit code", func(t *testing.T) {
				ctx, _ := newTestContext(t, "exit 3")
				result := rt.Execute(ctx)
				if result.ExitCode != 3 || result.Error != nil {
					t.Errorf("Execute() = %d, %v; want 3, nil", result.ExitCode, result.Error)
				}
			})

			t.Run("working directory", func(t *testing.T) {
				ctx, stdout := newTestContext(t, "pwd")
				result := rt.Execute(ctx)
				if !result.Success() {
					t.Fatalf("Execute() = %d, %v", result.ExitCode, result.Error)
				}
				got, _ := filepath.EvalSymlinks(strings.TrimSpace(stdout.String()))
				want, _ := filepath.EvalSymlinks(ctx.WorkDir)
				if got != want {
					t.Errorf("pwd = %q, want %q", got, want)
				}
			})

			t.Run("positional arguments", func(t *testing.T) {
				ctx, stdout := newTestContext(t, `echo "$1|$2|$#"`)
				ctx.PositionalArgs = []string{"-v", "two words"}
				result := rt.Execute(ctx)
				if !result.Success() {
					t.Fatalf("Execute() = %d, %v", result.ExitCode, result.Error)
				}
				if got := strings.TrimSpace(stdout.String()); got != "-v|two words|2" {
					t.Errorf("stdout = %q", got)
				}
			})

			t.Run("capture", func(t *testing.T) {
				ctx, _ := newTestContext(t, "echo captured; echo oops >&2")
				result := rt.ExecuteCapture(ctx)
				if !result.Success() || result.Output != "captured\n" || result.ErrOutput != "oops\n" {
					t.Errorf("ExecuteCapture() = %+v", result)
				}
			})
		})
	}
}

func TestRuntimes_Interrupt(t *testing.T) {
	skipOnWindows(t)
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Parallel()

	for _, rt := range runtimesUnderTest() {
		t.Run(rt.Name(), func(t *testing.T) {
			t.Parallel()

			ctx, _ := newTestContext(t, "sleep 30")
			cancelCtx, cancel := context.WithCancel(ctx.Context)
			ctx.Context = cancelCtx
			time.AfterFunc(100*time.Millisecond, cancel)

			start := time.Now()
			result := rt.Execute(ctx)
			if !errors.Is(result.Error, ErrInterrupted) || !result.Interrupted() {
				t.Fatalf("expected ErrInterrupted, got %v", result.Error)
			}
			if result.ExitCode != types.ExitInterrupted {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, types.ExitInterrupted)
			}
			if elapsed := time.Since(start); elapsed > 10*time.Second {
				t.Errorf("interrupt took %v", elapsed)
			}
		})
	}
}

func TestNativeRuntime_SignalExitCode(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	ctx, _ := newTestContext(t, "kill -TERM $$")
	result := NewNativeRuntime(nil).Execute(ctx)
	if result.Error != nil {
		t.Fatalf("Execute() error = %v", result.Error)
	}
	if want := types.ExitCode(128 + 15); result.ExitCode != want {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, want)
	}
}

func TestVirtualRuntime_ValidateSyntax(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime()
	if err := rt.Validate(&ExecutionContext{Script: "if then fi ("}); err == nil {
		t.Error("expected syntax error")
	}
	if err := rt.Validate(&ExecutionContext{Script: "   "}); !errors.Is(err, ErrEmptyScript) {
		t.Errorf("expected ErrEmptyScript, got %v", err)
	}
	if err := rt.Validate(&ExecutionContext{Script: "echo ok"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCapturer(t *testing.T) {
	skipOnWindows(t)
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	t.Parallel()

	c := &Capturer{Runtime: NewVirtualRuntime()}
	out, err := c.Capture(t.Context(), "echo abc", t.TempDir(), os.Environ())
	if err != nil || out != "abc\n" {
		t.Errorf("Capture() = %q, %v", out, err)
	}

	_, err = c.Capture(t.Context(), "echo bad >&2; exit 4", t.TempDir(), os.Environ())
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CaptureError, got %v", err)
	}
	if capErr.ExitCode != 4 || !strings.Contains(capErr.Error(), "bad") {
		t.Errorf("CaptureError = %v", capErr)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(RuntimeTypeVirtual, NewVirtualRuntime())

	rt, err := reg.Get(RuntimeTypeVirtual)
	if err != nil || rt.Name() != "virtual" {
		t.Errorf("Get(virtual) = %v, %v", rt, err)
	}
	var invalid *InvalidRuntimeTypeError
	if _, err := reg.Get("container"); !errors.As(err, &invalid) {
		t.Errorf("expected *InvalidRuntimeTypeError, got %v", err)
	}

	if got := reg.Available(); len(got) != 1 || got[0] != RuntimeTypeVirtual {
		t.Errorf("Available() = %v, want [virtual]", got)
	}
}

func TestParseRuntimeType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]RuntimeType{"": RuntimeTypeNative, "native": RuntimeTypeNative, "virtual": RuntimeTypeVirtual} {
		got, err := ParseRuntimeType(in)
		if err != nil || got != want {
			t.Errorf("ParseRuntimeType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseRuntimeType("docker"); err == nil {
		t.Error("expected error for docker")
	}
}

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	reg := BuildRegistry(BuildRegistryOptions{Shell: []string{"/bin/custom-sh", "-e"}, WaitDelay: time.Second})
	rt, err := reg.Get(RuntimeTypeVirtual)
	if err != nil {
		t.Fatalf("Get(virtual) error = %v", err)
	}
	if rt.(*VirtualRuntime).WaitDelay != time.Second {
		t.Error("virtual runtime did not receive the wait delay")
	}
	native := reg.runtimes[RuntimeTypeNative].(*NativeRuntime)
	if native.Shell != "/bin/custom-sh" || len(native.ShellArgs) != 1 || native.ShellArgs[0] != "-e" {
		t.Errorf("native runtime shell = %q %v", native.Shell, native.ShellArgs)
	}
}
