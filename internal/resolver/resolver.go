// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"github.com/agnivade/levenshtein"

	"recipe-cli/pkg/platform"
	"recipe-cli/pkg/recipefile"
)

// Resolver answers name, variant and binding questions against one parsed recipefile.
// It holds no mutable state and is safe to share.
type Resolver struct {
	file *recipefile.Recipefile
}

// New creates a Resolver for the given recipefile.
func New(file *recipefile.Recipefile) *Resolver {
	return &Resolver{file: file}
}

// File returns the recipefile the resolver reads from.
func (r *Resolver) File() *recipefile.Recipefile {
	return r.file
}

// Resolve looks the name up in the alias table first, then in the recipe table.
// Aliases resolve exactly one hop.
func (r *Resolver) Resolve(name string) (*recipefile.Recipe, error) {
	target := name
	if alias, ok := r.file.Aliases[name]; ok {
		target = alias.Target
	}
	if recipe, ok := r.file.Recipes[target]; ok {
		return recipe, nil
	}
	return nil, &UnknownRecipeError{Name: name, Suggestion: r.suggest(name)}
}

// SelectVariant picks the variant that applies to os. A variant whose
// predicate names os wins over the unconditional variant.
func (r *Resolver) SelectVariant(recipe *recipefile.Recipe, os platform.OS) (*recipefile.Variant, error) {
	var (
		matching      []*recipefile.Variant
		unconditional []*recipefile.Variant
	)
	for _, v := range recipe.Variants {
		switch {
		case v.Predicate.IsZero():
			unconditional = append(unconditional, v)
		case v.Predicate.Matches(os):
			matching = append(matching, v)
		}
	}

	candidates := matching
	if len(candidates) == 0 {
		candidates = unconditional
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		supported := make([]string, 0, len(recipe.Variants))
		for _, v := range recipe.Variants {
			supported = append(supported, v.Predicate.String())
		}
		return nil, &NoApplicableVariantError{Recipe: recipe.Name, OS: os, Supported: supported}
	default:
		names := make([]string, 0, len(candidates))
		for _, v := range candidates {
			names = append(names, v.Predicate.String())
		}
		return nil, &AmbiguousVariantError{Recipe: recipe.Name, OS: os, Candidates: names}
	}
}

// suggestMinDistance matches cobra's default SuggestionsMinimumDistance.
const suggestMinDistance = 2

// suggest returns the public recipe or alias name closest to name, or "".
// Candidates further than max(suggestMinDistance, len(name)/3) edits away
// are not suggested.
func (r *Resolver) suggest(name string) string {
	best, bestDist := "", -1
	consider := func(candidate string, private bool) {
		if private {
			return
		}
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	for _, n := range r.file.Order {
		consider(n, r.file.Recipes[n].Private())
	}
	for _, n := range r.file.AliasOrder {
		consider(n, r.file.Aliases[n].Private)
	}
	if bestDist < 0 || bestDist >= len(name) || bestDist > max(suggestMinDistance, len(name)/3) {
		return ""
	}
	return best
}
