// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	goruntime "runtime"
	"strconv"
	"strings"

	"recipe-cli/pkg/platform"
	"recipe-cli/pkg/recipefile"
)

var errNoCapturer = errors.New("backtick evaluation is not available")

type (
	// Capturer runs a command and returns its standard output. The runtime
	// package provides the implementation used for backticks.
	Capturer interface {
		Capture(ctx context.Context, command, dir string, env []string) (string, error)
	}

	// Scope resolves identifiers before top-level assignments are consulted.
	Scope interface {
		Lookup(name string) (string, bool)
	}

	// EvaluatorOptions configures an Evaluator.
	EvaluatorOptions struct {
		// Env is the merged environment (process environment plus dotenv) as KEY=VALUE entries.
		Env []string
		// Overrides replace assignment values (from --set NAME=VALUE).
		Overrides map[string]string
		// Capturer runs backtick commands. Backticks fail when nil.
		Capturer Capturer
		// OS is reported by os() and os_family().
		OS platform.OS
		// InvocationDir is reported by invocation_directory().
		InvocationDir string
	}

	// Evaluator evaluates expressions for one run. Assignment values are
	// memoized, so backticks in assignments run at most once.
	Evaluator struct {
		file       *recipefile.Recipefile
		opts       EvaluatorOptions
		env        map[string]string
		values     map[string]string
		evaluating map[string]bool
	}
)

// NewEvaluator creates an Evaluator. Overrides naming undefined variables are rejected.
func NewEvaluator(file *recipefile.Recipefile, opts EvaluatorOptions) (*Evaluator, error) {
	for name := range opts.Overrides {
		if _, ok := file.Assignments[name]; !ok {
			return nil, &UnknownOverrideError{Name: name}
		}
	}
	env := make(map[string]string, len(opts.Env))
	for _, kv := range opts.Env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return &Evaluator{
		file:       file,
		opts:       opts,
		env:        env,
		values:     make(map[string]string),
		evaluating: make(map[string]bool),
	}, nil
}

// Env returns the merged environment the evaluator reads from.
func (e *Evaluator) Env() []string {
	return e.opts.Env
}

// Assignment returns the value of a top-level variable, evaluating it on first use.
func (e *Evaluator) Assignment(ctx context.Context, name string) (string, error) {
	if v, ok := e.opts.Overrides[name]; ok {
		return v, nil
	}
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	a, ok := e.file.Assignments[name]
	if !ok {
		return "", &EvaluationError{Subject: fmt.Sprintf("variable %q", name), Err: errors.New("undefined variable")}
	}
	if e.evaluating[name] {
		return "", &EvaluationError{Subject: fmt.Sprintf("variable %q", name), Err: errors.New("variable refers to itself")}
	}
	e.evaluating[name] = true
	defer delete(e.evaluating, name)

	v, err := e.Eval(ctx, a.Value, nil)
	if err != nil {
		return "", &EvaluationError{Subject: fmt.Sprintf("variable %q", name), Err: err}
	}
	e.values[name] = v
	return v, nil
}

// Exports returns KEY=VALUE entries for exported assignments, or for every
// assignment when the file sets `export`.
func (e *Evaluator) Exports(ctx context.Context) ([]string, error) {
	var out []string
	for _, name := range e.file.AssignmentOrder {
		a := e.file.Assignments[name]
		if !a.Export && !e.file.Settings.Export {
			continue
		}
		v, err := e.Assignment(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, name+"="+v)
	}
	return out, nil
}

// Default evaluates a parameter default with the bindings made so far in scope.
func (e *Evaluator) Default(ctx context.Context, v *recipefile.Variant, p *recipefile.Parameter, bound Scope) (string, error) {
	val, err := e.Eval(ctx, p.Default, bound)
	if err != nil {
		return "", &EvaluationError{Subject: fmt.Sprintf("default of parameter %q in recipe %q", p.Name, v.Name), Err: err}
	}
	return val, nil
}

// Lookup resolves an identifier through scope, then top-level assignments.
func (e *Evaluator) Lookup(ctx context.Context, name string, scope Scope) (string, error) {
	if scope != nil {
		if v, ok := scope.Lookup(name); ok {
			return v, nil
		}
	}
	return e.Assignment(ctx, name)
}

// Eval evaluates an expression. Identifiers are looked up in scope first.
func (e *Evaluator) Eval(ctx context.Context, expr *recipefile.Expression, scope Scope) (string, error) {
	switch expr.Kind {
	case recipefile.ExprString:
		return expr.Value, nil
	case recipefile.ExprIdent:
		return e.Lookup(ctx, expr.Value, scope)
	case recipefile.ExprBacktick:
		return e.capture(ctx, expr.Value)
	case recipefile.ExprConcat, recipefile.ExprJoin:
		left, err := e.Eval(ctx, expr.Args[0], scope)
		if err != nil {
			return "", err
		}
		right, err := e.Eval(ctx, expr.Args[1], scope)
		if err != nil {
			return "", err
		}
		if expr.Kind == recipefile.ExprJoin {
			return strings.TrimSuffix(left, "/") + "/" + right, nil
		}
		return left + right, nil
	case recipefile.ExprCall:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			v, err := e.Eval(ctx, a, scope)
			if err != nil {
				return "", err
			}
			args[i] = v
		}
		return e.call(expr.Value, args)
	default:
		return "", fmt.Errorf("unsupported expression kind %d", expr.Kind)
	}
}

func (e *Evaluator) capture(ctx context.Context, command string) (string, error) {
	if e.opts.Capturer == nil {
		return "", errNoCapturer
	}
	out, err := e.opts.Capturer.Capture(ctx, command, e.file.Dir(), e.opts.Env)
	if err != nil {
		return "", fmt.Errorf("backtick `%s`: %w", command, err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}

func (e *Evaluator) call(name string, args []string) (string, error) {
	switch name {
	case "env", "env_var", "env_var_or_default":
		if v, ok := e.env[args[0]]; ok {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return "", fmt.Errorf("environment variable %q is not set", args[0])
	case "os":
		return e.opts.OS.String(), nil
	case "os_family":
		return e.opts.OS.Family(), nil
	case "arch":
		return Arch(), nil
	case "recipefile_directory":
		return absDir(e.file.Dir()), nil
	case "recipefile":
		return e.file.Path, nil
	case "invocation_directory":
		return e.opts.InvocationDir, nil
	case "num_cpus":
		return strconv.Itoa(goruntime.NumCPU()), nil
	case "uppercase":
		return strings.ToUpper(args[0]), nil
	case "lowercase":
		return strings.ToLower(args[0]), nil
	case "trim":
		return strings.TrimSpace(args[0]), nil
	case "quote":
		return "'" + strings.ReplaceAll(args[0], "'", `'\''`) + "'", nil
	default:
		return "", fmt.Errorf("unknown function %q", name)
	}
}

// Arch returns the processor architecture using conventional names (x86_64, aarch64).
func Arch() string {
	switch goruntime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return goruntime.GOARCH
	}
}

func absDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
