// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"recipe-cli/internal/config"
	"recipe-cli/internal/discovery"
	"recipe-cli/internal/engine"
	"recipe-cli/internal/issue"
	"recipe-cli/internal/runtime"
	"recipe-cli/pkg/recipefile"

	"github.com/spf13/cobra"
)

// ErrInvalidOverride is returned for a --set value that is not NAME=VALUE.
var ErrInvalidOverride = errors.New("invalid variable override")

type (
	// App wires CLI commands to configuration, discovery and the engine. It is the
	// composition root of the CLI layer; command handlers only talk to the App.
	App struct {
		Config  config.Provider
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		Getwd   func() (string, error)
		Environ func() []string

		flags  globalFlags
		cfg    *config.Config
		logger *slog.Logger
	}

	globalFlags struct {
		file       string
		workDir    string
		verbose    bool
		configPath string
		runtime    string
		shell      string
		dryRun     bool
		set        []string
		dotenvPath string
	}

	// session holds what every recipe command needs: the invocation directory
	// and the loaded recipefile.
	session struct {
		cwd  string
		path string
		file *recipefile.Recipefile
	}

	// InvalidOverrideError reports a malformed --set value.
	InvalidOverrideError struct {
		Value string
	}
)

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid --set value %q: expected NAME=VALUE", e.Value)
}

// Unwrap returns ErrInvalidOverride so callers can use errors.Is for programmatic detection.
func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }

// NewApp creates an App bound to the process streams and the file-based config provider.
func NewApp() *App {
	return &App{
		Config:  config.NewProvider(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getwd:   os.Getwd,
		Environ: os.Environ,
	}
}

// prepare loads configuration and sets up logging. A broken config file is
// reported as a warning and the defaults apply.
func (a *App) prepare(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		BaseDir:        a.cwd(),
	})
	if err != nil {
		fmt.Fprintln(a.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	a.logger = newLogger(a.Stderr, a.verbose())
	slog.SetDefault(a.logger)
}

// config returns the loaded configuration, falling back to defaults when
// prepare did not run (shell completion).
func (a *App) config() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		return newLogger(a.Stderr, a.verbose())
	}
	return a.logger
}

func (a *App) verbose() bool {
	return a.flags.verbose || (a.cfg != nil && a.cfg.UI.Verbose)
}

func (a *App) cwd() string {
	wd, err := a.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// loadSession discovers and parses the recipefile.
func (a *App) loadSession() (*session, error) {
	cwd := a.cwd()
	res, err := discovery.New(
		discovery.WithBaseDir(cwd),
		discovery.WithFile(a.flags.file),
	).Load()
	if err != nil {
		return nil, describeError(err)
	}
	for _, diag := range res.Diagnostics {
		a.log().Warn(diag.Message, "code", diag.Code, "path", diag.Path)
	}
	a.log().Debug("loaded recipefile", "path", res.File.Path, "source", res.File.Source)
	return &session{cwd: cwd, path: res.File.Path, file: res.File.Recipefile}, nil
}

// newEngine builds an engine for the session from flags and configuration.
func (a *App) newEngine(s *session) (*engine.Engine, error) {
	overrides, err := parseOverrides(a.flags.set)
	if err != nil {
		return nil, err
	}
	rt, err := a.selectRuntime(s)
	if err != nil {
		return nil, err
	}
	cfg := a.config()
	return engine.New(s.file, engine.Options{
		Runtime:        rt,
		WorkDir:        a.flags.workDir,
		InvocationDir:  s.cwd,
		Overrides:      overrides,
		DryRun:         a.flags.dryRun,
		AllowRecursion: cfg.Engine.AllowRecursion,
		DotenvLoad:     cfg.Dotenv.Load,
		DotenvPath:     a.flags.dotenvPath,
		Environ:        a.Environ,
		Echo:           func(line string) string { return EchoStyle.Render(line) },
		Stdin:          a.Stdin,
		Stdout:         a.Stdout,
		Stderr:         a.Stderr,
		Logger:         a.log(),
	}), nil
}

// selectRuntime picks the runtime from --runtime or default_runtime. The native
// shell comes from --shell, then `set shell`, then the shell config key.
func (a *App) selectRuntime(s *session) (runtime.Runtime, error) {
	mode := a.flags.runtime
	if mode == "" {
		mode = a.config().DefaultRuntime.String()
	}
	typ, err := runtime.ParseRuntimeType(mode)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(mode).
			WithIssue(issue.InvalidRuntimeModeId).
			Wrap(err).
			BuildError()
	}

	shell, err := a.shellArgv(s)
	if err != nil {
		return nil, err
	}
	reg := runtime.BuildRegistry(runtime.BuildRegistryOptions{Shell: shell})
	if available := reg.Available(); !slices.Contains(available, typ) {
		if a.flags.dryRun {
			// Dry runs never execute process lines.
			a.log().Debug("runtime not available, dry run continues without one", "runtime", typ)
			return nil, nil
		}
		id := issue.RuntimeNotAvailableId
		if typ == runtime.RuntimeTypeNative {
			id = issue.ShellNotFoundId
		}
		ec := issue.NewErrorContext().
			WithOperation("select runtime").
			WithResource(string(typ)).
			WithIssue(id)
		for _, alt := range available {
			ec.WithSuggestion(fmt.Sprintf("Use '--runtime %s' to run lines with the %s runtime", alt, alt))
		}
		return nil, ec.Wrap(runtime.ErrRuntimeNotAvailable).BuildError()
	}
	rt, err := reg.Get(typ)
	if err != nil {
		return nil, err
	}
	a.log().Debug("selected runtime", "runtime", rt.Name(), "shell", shell)
	return rt, nil
}

func (a *App) shellArgv(s *session) ([]string, error) {
	switch {
	case a.flags.shell != "":
		return runtime.ParseShell(a.flags.shell)
	case len(s.file.Settings.Shell) > 0:
		return s.file.Settings.Shell, nil
	default:
		return runtime.ParseShell(a.config().Shell.String())
	}
}

// parseOverrides turns repeated NAME=VALUE flags into a map; later values win.
func parseOverrides(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, kv := range values {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &InvalidOverrideError{Value: kv}
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}

// completeRecipes completes recipe names for the first positional argument.
func (a *App) completeRecipes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	s, err := a.loadSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	summaries := engine.ListRecipes(s.file, engine.ListOptions{Order: engine.SortDeclaration})
	names := make([]string, 0, len(summaries))
	for _, r := range summaries {
		if r.Doc != "" {
			names = append(names, r.Name+"\t"+r.Doc)
		} else {
			names = append(names, r.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
