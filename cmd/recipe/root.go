// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for recipe.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"recipe-cli/internal/engine"
	"recipe-cli/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// Execute runs the CLI with the process arguments and exits with the resulting code.
// This is called by main.main().
func Execute() {
	os.Exit(int(NewApp().Execute(context.Background(), os.Args[1:])))
}

// Execute runs the CLI with args and returns the exit code the process should report.
func (a *App) Execute(ctx context.Context, args []string) types.ExitCode {
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(a.renderError),
	)
	return exitCodeFor(err)
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "recipe [recipe] [args...]",
		Short: "A command runner for recipefiles",
		Long: TitleStyle.Render("recipe") + SubtitleStyle.Render(" - a command runner for recipefiles") + `

recipe runs named recipes from a 'recipefile' found in the current directory
or one of its parents. A recipe is a list of shell lines and calls to other
recipes; lines run in order and the first failure stops the whole run.

` + SubtitleStyle.Render("Examples:") + `
  recipe                    List available recipes
  recipe build              Run the 'build' recipe
  recipe test -- -run Foo   Run 'test' with arguments
  recipe --dry-run deploy   Print what 'deploy' would run
  recipe validate           Check the recipefile for cycles and unknown targets`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: a.completeRecipes,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.prepare(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.listRecipes(listFlags{})
			}
			return a.runRecipe(cmd.Context(), args[0], args[1:])
		},
	}
	// Everything after the recipe name belongs to the recipe.
	root.Flags().SetInterspersed(false)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.file, "file", "f", "", "use this recipefile instead of searching for one")
	pf.StringVarP(&a.flags.workDir, "working-directory", "d", "", "run process lines in this directory")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default is $HOME/.config/recipe/config.cue)")
	pf.StringVar(&a.flags.runtime, "runtime", "", "runtime for process lines: native or virtual")
	pf.StringVar(&a.flags.shell, "shell", "", "shell command for the native runtime, e.g. 'bash -cu'")
	pf.BoolVarP(&a.flags.dryRun, "dry-run", "n", false, "print process lines without running them")
	pf.StringArrayVar(&a.flags.set, "set", nil, "override a variable (NAME=VALUE, repeatable)")
	pf.StringVar(&a.flags.dotenvPath, "dotenv-path", "", "load environment variables from this file")

	root.AddCommand(
		newRunCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newValidateCommand(a),
		newConfigCommand(a),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return engine.ExitCodeFor(err)
}
