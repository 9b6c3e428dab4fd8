// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"slices"
	"testing"
)

const listRecipes = `
# Build the project
build target='debug':
    cargo build

[private]
helper:
    true

_internal:
    true

[linux]
open:
    xdg-open .

[macos]
open:
    open .

alias b := build
alias _bb := build
`

func TestListRecipes(t *testing.T) {
	t.Parallel()

	f := parse(t, listRecipes, "")

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"alphabetical", ListOptions{}, []string{"build", "open"}},
		{"declaration", ListOptions{Order: SortDeclaration}, []string{"build", "open"}},
		{"with private", ListOptions{IncludePrivate: true}, []string{"_internal", "build", "helper", "open"}},
		{"with private declaration", ListOptions{IncludePrivate: true, Order: SortDeclaration}, []string{"build", "helper", "_internal", "open"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, s := range ListRecipes(f, tt.opts) {
				got = append(got, s.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("names = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListRecipes_Summary(t *testing.T) {
	t.Parallel()

	summaries := ListRecipes(parse(t, listRecipes, ""), ListOptions{})
	build := summaries[0]
	if build.Doc != "Build the project" {
		t.Errorf("Doc = %q", build.Doc)
	}
	if !slices.Equal(build.Params, []string{"target='debug'"}) {
		t.Errorf("Params = %q", build.Params)
	}
	if !slices.Equal(build.Aliases, []string{"b"}) {
		t.Errorf("Aliases = %q", build.Aliases)
	}

	open := summaries[1]
	if !slices.Equal(open.Platforms, []string{"linux", "macos"}) {
		t.Errorf("Platforms = %q", open.Platforms)
	}
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SortOrder{"": SortAlphabetical, "alphabetical": SortAlphabetical, "declaration": SortDeclaration} {
		if got, err := ParseSortOrder(in); err != nil || got != want {
			t.Errorf("ParseSortOrder(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSortOrder("random"); err == nil {
		t.Error("ParseSortOrder(random) succeeded")
	}
}
