// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"recipe-cli/internal/engine"
	"recipe-cli/pkg/types"
)

func TestRenderRecipeList_AlignsComments(t *testing.T) {
	t.Parallel()

	got := renderRecipeList([]engine.RecipeSummary{
		{Name: "build", Params: []string{"target='all'"}, Doc: "Build it", Aliases: []string{"b"}},
		{Name: "fmt", Doc: "Format"},
		{Name: "open", Platforms: []string{"linux", "macos"}},
		{Name: "clean"},
	})

	want := strings.Join([]string{
		"Available recipes:",
		"    build target='all' # Build it [alias: b]",
		"    fmt                # Format",
		"    open               [linux, macos]",
		"    clean",
		"",
	}, "\n")
	if got != want {
		t.Errorf("renderRecipeList() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderRecipeList_WideRunes(t *testing.T) {
	t.Parallel()

	got := renderRecipeList([]engine.RecipeSummary{
		{Name: "デプロイ", Doc: "wide"},
		{Name: "abcdefgh", Doc: "narrow"},
	})
	lines := strings.Split(got, "\n")
	// デプロイ occupies 8 columns, the same as abcdefgh.
	if lines[1] != "    デプロイ # wide" || lines[2] != "    abcdefgh # narrow" {
		t.Errorf("renderRecipeList() =\n%s", got)
	}
}

func TestRenderRecipeList_Empty(t *testing.T) {
	t.Parallel()

	if got := renderRecipeList(nil); !strings.Contains(got, "(none)") {
		t.Errorf("renderRecipeList(nil) = %q", got)
	}
}

func TestListCommand_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		order []string
	}{
		{"alphabetical", []string{"list"}, []string{"build", "fail", "quietfail", "test"}},
		{"unsorted", []string{"list", "-u"}, []string{"build", "test", "fail", "quietfail"}},
		{"all", []string{"list", "--all"}, []string{"_helper", "build", "fail", "quietfail", "test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t, projectRecipes)
			if code := app.run(tt.args...); code != types.ExitSuccess {
				t.Fatalf("exit code = %d, stderr:\n%s", code, app.stderr)
			}
			var names []string
			for _, line := range strings.Split(strings.TrimSpace(app.stdout.String()), "\n")[1:] {
				names = append(names, strings.Fields(line)[0])
			}
			if strings.Join(names, ",") != strings.Join(tt.order, ",") {
				t.Errorf("listed %v, want %v", names, tt.order)
			}
		})
	}
}
