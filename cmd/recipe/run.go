// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newRunCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <recipe> [args...]",
		Short: "Run a recipe",
		Long: `Run a recipe with positional arguments.

'recipe run build x' and 'recipe build x' are equivalent; use 'run' when a
recipe shares its name with a built-in command such as 'list'.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecipe(cmd.Context(), args[0], args[1:])
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// runRecipe runs name and converts a failure into an ExitError carrying the
// engine's exit code.
func (a *App) runRecipe(ctx context.Context, name string, args []string) error {
	s, err := a.loadSession()
	if err != nil {
		return err
	}
	eng, err := a.newEngine(s)
	if err != nil {
		return describeError(err)
	}

	code, err := eng.Run(ctx, name, trimArgSeparator(args))
	if err != nil {
		return &ExitError{Code: code, Err: describeError(err)}
	}
	return nil
}

// trimArgSeparator drops a single "--" directly after the recipe name. Flag
// parsing stops at the recipe name, so the separator reaches us verbatim.
func trimArgSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
