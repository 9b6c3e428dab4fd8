// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"recipe-cli/internal/resolver"
	"recipe-cli/internal/runtime"
	"recipe-cli/pkg/platform"
	"recipe-cli/pkg/recipefile"
	"recipe-cli/pkg/types"
)

type (
	// Options configures an Engine.
	Options struct {
		// Runtime runs process lines. Required unless DryRun is set.
		Runtime runtime.Runtime
		// OS selects recipe variants. Defaults to platform.Current().
		OS platform.OS
		// WorkDir overrides the working directory of every process line.
		WorkDir string
		// InvocationDir is where the user invoked the tool. It is the working
		// directory of [no-cd] recipes. Defaults to the process working directory.
		InvocationDir string
		// Overrides replace assignment values (--set NAME=VALUE).
		Overrides map[string]string
		// DryRun echoes every process line without running it.
		DryRun bool
		// AllowRecursion disables call-stack cycle detection.
		AllowRecursion bool
		// DotenvLoad loads .env from the recipefile directory even when the
		// recipefile does not ask for it.
		DotenvLoad bool
		// DotenvPath names a dotenv file to load, relative to InvocationDir.
		// It takes precedence over the recipefile's dotenv settings.
		DotenvPath string
		// Environ returns the host environment. Defaults to os.Environ.
		Environ func() []string
		// Echo formats an echoed line. Defaults to the line unchanged.
		Echo func(line string) string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		Logger *slog.Logger
	}

	// Engine runs recipes from one immutable recipefile. An Engine holds no
	// per-run state; concurrent Runs are safe as long as the runtime is.
	Engine struct {
		file     *recipefile.Recipefile
		resolver *resolver.Resolver
		opts     Options
		logger   *slog.Logger
	}

	// run carries the state of a single Run call.
	run struct {
		*Engine
		eval    *resolver.Evaluator
		dotenv  map[string]string
		exports []string
	}
)

// New creates an Engine for file.
func New(file *recipefile.Recipefile, opts Options) *Engine {
	if opts.OS == "" {
		opts.OS = platform.Current()
	}
	if opts.InvocationDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.InvocationDir = wd
		}
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	if opts.Echo == nil {
		opts.Echo = func(line string) string { return line }
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		file:     file,
		resolver: resolver.New(file),
		opts:     opts,
		logger:   logger,
	}
}

// File returns the recipefile the engine runs.
func (e *Engine) File() *recipefile.Recipefile { return e.file }

// Resolver returns the resolver bound to the engine's recipefile.
func (e *Engine) Resolver() *resolver.Resolver { return e.resolver }

// Run executes the named recipe with args and returns the resulting exit code.
// The error describes why a non-zero code was returned.
func (e *Engine) Run(ctx context.Context, name string, args []string) (types.ExitCode, error) {
	if e.opts.Runtime == nil && !e.opts.DryRun {
		return types.ExitFailure, fmt.Errorf("%w: no runtime configured", runtime.ErrRuntimeNotAvailable)
	}

	r, err := e.newRun()
	if err != nil {
		return ExitCodeFor(err), err
	}
	err = r.invoke(ctx, name, args, nil)
	return ExitCodeFor(err), err
}

func (e *Engine) newRun() (*run, error) {
	dotenv, err := e.loadDotenv()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDotenv, err)
	}

	var capturer resolver.Capturer
	if cr, ok := e.opts.Runtime.(runtime.CapturingRuntime); ok {
		capturer = &runtime.Capturer{Runtime: cr}
	}
	base := runtime.NewEnvBuilder(e.opts.Environ).WithDotenv(dotenv).Base()
	eval, err := resolver.NewEvaluator(e.file, resolver.EvaluatorOptions{
		Env:           base,
		Overrides:     e.opts.Overrides,
		Capturer:      capturer,
		OS:            e.opts.OS,
		InvocationDir: e.opts.InvocationDir,
	})
	if err != nil {
		return nil, err
	}
	return &run{Engine: e, eval: eval, dotenv: dotenv}, nil
}

// loadDotenv applies, in order of precedence: the DotenvPath option, the
// dotenv-path setting, then an optional .env when loading is enabled.
func (e *Engine) loadDotenv() (map[string]string, error) {
	settings := e.file.Settings
	switch {
	case e.opts.DotenvPath != "":
		return runtime.LoadEnvFile(e.opts.DotenvPath, e.opts.InvocationDir, false)
	case settings.DotenvPath != "":
		return runtime.LoadEnvFile(settings.DotenvPath, e.recipefileDir(), false)
	case settings.DotenvLoad || e.opts.DotenvLoad:
		return runtime.LoadEnvFile(runtime.DefaultDotenvFile, e.recipefileDir(), true)
	default:
		return nil, nil
	}
}

func (e *Engine) recipefileDir() string {
	dir := e.file.Dir()
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func (e *Engine) workDir(v *recipefile.Variant) string {
	switch {
	case e.opts.WorkDir != "":
		return e.opts.WorkDir
	case v.NoCD:
		return e.opts.InvocationDir
	default:
		return e.recipefileDir()
	}
}

// invoke runs one recipe. stack holds the recipes currently executing above it.
func (r *run) invoke(ctx context.Context, name string, args []string, stack []string) error {
	recipe, err := r.resolver.Resolve(name)
	if err != nil {
		return err
	}
	if !r.opts.AllowRecursion && slices.Contains(stack, recipe.Name) {
		return &CyclicInvocationError{Stack: append(slices.Clone(stack), recipe.Name)}
	}
	stack = append(slices.Clone(stack), recipe.Name)

	v, err := r.resolver.SelectVariant(recipe, r.opts.OS)
	if err != nil {
		return err
	}
	r.logger.Debug("selected variant", "recipe", recipe.Name, "os", r.opts.OS, "predicate", v.Predicate.String())

	bindings, err := r.resolver.BindArguments(ctx, v, args, r.eval)
	if err != nil {
		return err
	}
	for _, b := range bindings.Entries() {
		r.logger.Debug("bound parameter", "recipe", recipe.Name, "parameter", b.Parameter.Name, "values", b.Values)
	}

	for _, line := range v.Lines {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("recipe %q: %w", recipe.Name, runtime.ErrInterrupted)
		}
		if line.Kind == recipefile.LineInvocation {
			if err := r.invokeLine(ctx, line, bindings, stack); err != nil {
				return err
			}
			continue
		}
		if err := r.processLine(ctx, recipe.Name, v, line, bindings); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) invokeLine(ctx context.Context, line *recipefile.Line, bindings *resolver.Bindings, stack []string) error {
	args := make([]string, 0, len(line.Args))
	for _, expr := range line.Args {
		val, err := r.eval.Eval(ctx, expr, bindings)
		if err != nil {
			return err
		}
		args = append(args, val)
	}
	return r.invoke(ctx, line.Target, args, stack)
}

func (r *run) processLine(ctx context.Context, recipeName string, v *recipefile.Variant, line *recipefile.Line, bindings *resolver.Bindings) error {
	text, err := line.Text.Render(func(name string) (string, error) {
		return r.eval.Lookup(ctx, name, bindings)
	})
	if err != nil {
		return err
	}

	quiet := line.Quiet || v.Quiet || r.file.Settings.Quiet
	if r.opts.DryRun || !quiet {
		_, _ = fmt.Fprintln(r.opts.Stderr, r.opts.Echo(text))
	}
	if r.opts.DryRun || strings.TrimSpace(text) == "" {
		return nil
	}

	env, err := r.lineEnv(ctx, bindings)
	if err != nil {
		return err
	}
	execCtx := runtime.NewExecutionContext(ctx, text, r.workDir(v), env, runtime.IOContext{
		Stdin:  r.opts.Stdin,
		Stdout: r.opts.Stdout,
		Stderr: r.opts.Stderr,
	})
	if r.file.Settings.PositionalArguments {
		execCtx.PositionalArgs = bindings.Positional()
	}

	if err := r.opts.Runtime.Validate(execCtx); err != nil {
		return &LineError{Recipe: recipeName, Pos: line.Pos, Err: err}
	}
	result := r.opts.Runtime.Execute(execCtx)
	switch {
	case result.Interrupted():
		return fmt.Errorf("recipe %q: %w", recipeName, result.Error)
	case result.Error != nil:
		return &LineError{Recipe: recipeName, Pos: line.Pos, Err: result.Error}
	case result.Success():
		return nil
	case line.IgnoreFailure:
		r.logger.Debug("ignoring failed line", "recipe", recipeName, "line", line.Pos.Line, "exit_code", int(result.ExitCode))
		return nil
	default:
		return &ProcessFailureError{
			Recipe:   recipeName,
			Line:     text,
			Pos:      line.Pos,
			ExitCode: result.ExitCode,
			Silent:   v.NoExitMessage,
		}
	}
}

// lineEnv builds a fresh child environment for one process line.
func (r *run) lineEnv(ctx context.Context, bindings *resolver.Bindings) ([]string, error) {
	if r.exports == nil {
		exports, err := r.eval.Exports(ctx)
		if err != nil {
			return nil, err
		}
		r.exports = append([]string{}, exports...)
	}
	return runtime.NewEnvBuilder(r.opts.Environ).
		WithDotenv(r.dotenv).
		WithExports(r.exports).
		WithParams(bindings.Env()).
		Build(), nil
}
