// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"recipe-cli/internal/resolver"
	"recipe-cli/pkg/platform"
	"recipe-cli/pkg/types"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the recipefile without running anything",
		Long: `Parse the recipefile and run static checks:

  - recipes that invoke each other in a cycle
  - invocation lines that name no recipe or alias
  - recipes with no definition for the current OS (warning)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.validate()
		},
	}
}

func newResolver(s *session) *resolver.Resolver {
	return resolver.New(s.file)
}

func (a *App) validate() error {
	s, err := a.loadSession()
	if err != nil {
		return err
	}
	out, errOut := a.Stdout, a.Stderr

	fmt.Fprintf(out, "%s Parsed %s: %d recipe(s), %d alias(es)\n",
		successIcon, s.path, len(s.file.Order), len(s.file.AliasOrder))

	problems := 0
	if cycle := s.file.InvocationGraph().FindCycle(); cycle != nil {
		fmt.Fprintf(errOut, "%s invocation cycle: %s\n", errorIcon, strings.Join(cycle, " -> "))
		problems++
	}
	for _, u := range s.file.UnresolvedInvocations() {
		fmt.Fprintf(errOut, "%s %s:%s: recipe %q invokes unknown recipe %q\n",
			errorIcon, s.path, u.Pos, u.Recipe, u.Target)
		problems++
	}

	// Missing variants only matter on the OS that runs them, so they do not fail validation.
	res := newResolver(s)
	current := platform.Current()
	for _, name := range s.file.Order {
		if _, err := res.SelectVariant(s.file.Recipes[name], current); err != nil {
			if errors.Is(err, resolver.ErrAmbiguousVariant) {
				fmt.Fprintf(errOut, "%s %v\n", errorIcon, err)
				problems++
				continue
			}
			fmt.Fprintf(errOut, "%s %v\n", warningIcon, err)
		}
	}

	if problems > 0 {
		fmt.Fprintf(errOut, "\n%s Validation failed with %d issue(s)\n", errorIcon, problems)
		return &ExitError{Code: types.ExitResolution}
	}
	fmt.Fprintf(out, "%s Recipefile is valid\n", successIcon)
	return nil
}
