// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"recipe-cli/pkg/types"
)

func TestShowCommand(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, `
# Open the docs
[linux]
[no-cd]
@open page='index':
    xdg-open {{page}}.html

[macos]
open page='index':
    -open {{page}}.html
`)
	if code := app.run("show", "open"); code != types.ExitSuccess {
		t.Fatalf("exit code = %d, stderr:\n%s", code, app.stderr)
	}

	want := strings.Join([]string{
		"# Open the docs",
		"[linux]",
		"[no-cd]",
		"@open page='index':",
		"    xdg-open {{page}}.html",
		"",
		"[macos]",
		"open page='index':",
		"    -open {{page}}.html",
		"",
	}, "\n")
	if got := app.stdout.String(); got != want {
		t.Errorf("show output =\n%s\nwant:\n%s", got, want)
	}
}

func TestShowCommand_UnknownRecipe(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, projectRecipes)
	if code := app.run("show", "nope"); code != types.ExitResolution {
		t.Fatalf("exit code = %d, want %d", code, types.ExitResolution)
	}
	if !strings.Contains(app.stderr.String(), `unknown recipe "nope"`) {
		t.Errorf("stderr = %s", app.stderr)
	}
}
