// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"recipe-cli/pkg/recipefile"

	"github.com/spf13/cobra"
)

func newShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:               "show <recipe>",
		Short:             "Print the definition of a recipe",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.completeRecipes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showRecipe(args[0])
		},
	}
}

// showRecipe prints every variant of the recipe (or alias target) as it would
// be written in a recipefile.
func (a *App) showRecipe(name string) error {
	s, err := a.loadSession()
	if err != nil {
		return err
	}
	recipe, err := newResolver(s).Resolve(name)
	if err != nil {
		return describeError(err)
	}

	for i, v := range recipe.Variants {
		if i > 0 {
			fmt.Fprintln(a.Stdout)
		}
		fmt.Fprint(a.Stdout, formatVariant(v))
	}
	return nil
}

func formatVariant(v *recipefile.Variant) string {
	var sb strings.Builder
	if v.Doc != "" {
		sb.WriteString(DocStyle.Render("# "+v.Doc) + "\n")
	}

	var attrs []string
	if !v.Predicate.IsZero() {
		attrs = append(attrs, v.Predicate.String())
	}
	if v.Private {
		attrs = append(attrs, "private")
	}
	if v.NoCD {
		attrs = append(attrs, "no-cd")
	}
	if v.NoExitMessage {
		attrs = append(attrs, "no-exit-message")
	}
	for _, attr := range attrs {
		sb.WriteString(SubtitleStyle.Render("["+attr+"]") + "\n")
	}

	if v.Quiet {
		sb.WriteString("@")
	}
	sb.WriteString(CmdStyle.Render(v.Name))
	for _, p := range v.Parameters {
		sb.WriteString(" " + ParamStyle.Render(p.String()))
	}
	sb.WriteString(":\n")
	for _, line := range v.Lines {
		sb.WriteString("    " + line.String() + "\n")
	}
	return sb.String()
}
