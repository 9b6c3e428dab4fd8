// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"slices"

	"recipe-cli/pkg/recipefile"
)

// Listing orders.
const (
	// SortAlphabetical orders recipes by name.
	SortAlphabetical SortOrder = "alphabetical"
	// SortDeclaration keeps the order recipes appear in the recipefile.
	SortDeclaration SortOrder = "declaration"
)

type (
	// SortOrder selects how ListRecipes orders its result.
	SortOrder string

	// ListOptions configures ListRecipes.
	ListOptions struct {
		IncludePrivate bool
		Order          SortOrder
	}

	// RecipeSummary describes a recipe for listing.
	RecipeSummary struct {
		Name string
		// Params are the parameters of the first variant as written in the header.
		Params  []string
		Doc     string
		Private bool
		// Aliases are the public aliases targeting the recipe.
		Aliases []string
		// Platforms holds the predicate of each OS-specific variant.
		Platforms []string
	}
)

// ParseSortOrder converts a configuration or flag value into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortAlphabetical:
		return SortAlphabetical, nil
	case SortDeclaration:
		return SortDeclaration, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (expected %s or %s)", s, SortAlphabetical, SortDeclaration)
	}
}

// ListRecipes summarizes the recipes of file. Private recipes and private
// aliases are left out unless IncludePrivate is set.
func ListRecipes(file *recipefile.Recipefile, opts ListOptions) []RecipeSummary {
	names := slices.Clone(file.Order)
	if opts.Order != SortDeclaration {
		slices.Sort(names)
	}

	out := make([]RecipeSummary, 0, len(names))
	for _, name := range names {
		r := file.Recipes[name]
		if r.Private() && !opts.IncludePrivate {
			continue
		}
		s := RecipeSummary{
			Name:    r.Name,
			Doc:     r.Doc(),
			Private: r.Private(),
		}
		if len(r.Variants) > 0 {
			for _, p := range r.Variants[0].Parameters {
				s.Params = append(s.Params, p.String())
			}
		}
		for _, v := range r.Variants {
			if !v.Predicate.IsZero() {
				s.Platforms = append(s.Platforms, v.Predicate.String())
			}
		}
		for _, alias := range file.AliasesFor(r.Name) {
			if file.Aliases[alias].Private && !opts.IncludePrivate {
				continue
			}
			s.Aliases = append(s.Aliases, alias)
		}
		out = append(out, s)
	}
	return out
}
