// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"recipe-cli/internal/engine"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

type listFlags struct {
	unsorted bool
	all      bool
}

func newListCommand(a *App) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.listRecipes(flags)
		},
	}
	cmd.Flags().BoolVarP(&flags.unsorted, "unsorted", "u", false, "list recipes in declaration order")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "include private recipes")
	return cmd
}

func (a *App) listRecipes(flags listFlags) error {
	s, err := a.loadSession()
	if err != nil {
		return err
	}
	cfg := a.config()

	order, err := engine.ParseSortOrder(cfg.List.Sort.String())
	if err != nil {
		return err
	}
	if flags.unsorted {
		order = engine.SortDeclaration
	}

	summaries := engine.ListRecipes(s.file, engine.ListOptions{
		IncludePrivate: flags.all || cfg.List.ShowPrivate,
		Order:          order,
	})
	fmt.Fprint(a.Stdout, renderRecipeList(summaries))
	return nil
}

// renderRecipeList renders one recipe per line with doc comments aligned in a
// column after the longest header.
func renderRecipeList(recipes []engine.RecipeSummary) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Available recipes:") + "\n")
	if len(recipes) == 0 {
		sb.WriteString("    " + SubtitleStyle.Render("(none)") + "\n")
		return sb.String()
	}

	headers := make([]string, len(recipes))
	width := 0
	for i, r := range recipes {
		headers[i] = strings.Join(append([]string{r.Name}, r.Params...), " ")
		width = max(width, runewidth.StringWidth(headers[i]))
	}

	for i, r := range recipes {
		sb.WriteString("    " + CmdStyle.Render(r.Name))
		if len(r.Params) > 0 {
			sb.WriteString(" " + ParamStyle.Render(strings.Join(r.Params, " ")))
		}

		var notes []string
		if r.Doc != "" {
			notes = append(notes, DocStyle.Render("# "+r.Doc))
		}
		if len(r.Aliases) > 0 {
			notes = append(notes, SubtitleStyle.Render("[alias: "+strings.Join(r.Aliases, ", ")+"]"))
		}
		if len(r.Platforms) > 0 {
			notes = append(notes, SubtitleStyle.Render("["+strings.Join(r.Platforms, ", ")+"]"))
		}
		if len(notes) > 0 {
			pad := width - runewidth.StringWidth(headers[i]) + 1
			sb.WriteString(strings.Repeat(" ", pad) + strings.Join(notes, " "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
