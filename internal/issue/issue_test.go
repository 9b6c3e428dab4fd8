// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// stubRender replaces the glamour renderer with an identity function for the test's duration.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{RecipefileNotFoundId, "No recipefile found"},
		{RecipefileParseErrorId, "Failed to parse the recipefile"},
		{RecipeNotFoundId, "Recipe not found"},
		{ArgumentMismatchId, "Wrong number of arguments"},
		{NoApplicableVariantId, "not available on this OS"},
		{AmbiguousVariantId, "Ambiguous recipe definitions"},
		{CyclicInvocationId, "invokes itself"},
		{RuntimeNotAvailableId, "Runtime not available"},
		{ShellNotFoundId, "Shell not found"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{InvalidRuntimeModeId, "Invalid runtime mode"},
		{DotenvLoadFailedId, "Failed to load dotenv file"},
		{UnknownVariableId, "Unknown variable override"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			got := Get(tt.id)
			if got == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if got.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", got.Id(), tt.id)
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() should contain %q", tt.contains)
			}
		})
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if got := Get(Id(9999)); got != nil {
		t.Errorf("Get(9999) = %v, want nil", got)
	}
	if got := Get(0); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
}

func TestValues_SortedAndComplete(t *testing.T) {
	t.Parallel()

	all := Values()
	if len(all) != int(UnknownVariableId) {
		t.Fatalf("Values() returned %d issues, want %d", len(all), UnknownVariableId)
	}
	for i, is := range all {
		if is.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, is.Id(), i+1)
		}
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has empty markdown", is.Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	is := &Issue{
		id:       Id(42),
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	links := is.DocLinks()
	links[0] = "modified"
	if is.DocLinks()[0] != "https://docs.example.com" {
		t.Error("DocLinks() should return a copy")
	}

	ext := is.ExtLinks()
	ext[0] = "modified"
	if is.ExtLinks()[0] != "https://external.example.com" {
		t.Error("ExtLinks() should return a copy")
	}
}

//nolint:paralleltest // mutates the package-level renderer
func TestIssue_Render(t *testing.T) {
	stubRender(t)

	withLinks := &Issue{
		id:       Id(42),
		mdMsg:    "# Test Issue",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}
	rendered, err := withLinks.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"# Test Issue", "See also", "<https://docs.example.com>", "<https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() missing %q in:\n%s", want, rendered)
		}
	}

	noLinks := &Issue{id: Id(43), mdMsg: "# Plain"}
	rendered, err = noLinks.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_RenderWithGlamour(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		rendered, err := is.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", is.Id(), err)
			continue
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("issue %d rendered to empty string", is.Id())
		}
	}
}
