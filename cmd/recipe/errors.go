// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"recipe-cli/internal/config"
	"recipe-cli/internal/discovery"
	"recipe-cli/internal/engine"
	"recipe-cli/internal/issue"
	"recipe-cli/internal/resolver"
	"recipe-cli/internal/runtime"
	"recipe-cli/pkg/recipefile"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// describeError attaches operation context, suggestions and a catalog entry to
// the engine and discovery failures users hit most. Other errors pass through.
func describeError(err error) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	var (
		missing *resolver.MissingArgumentError
		tooMany *resolver.TooManyArgumentsError
	)
	ctx := issue.NewErrorContext()
	switch {
	case errors.Is(err, discovery.ErrRecipefileNotFound):
		ctx.WithOperation("find recipefile").
			WithIssue(issue.RecipefileNotFoundId)
	case errors.Is(err, recipefile.ErrParse):
		ctx.WithOperation("load recipefile").
			WithIssue(issue.RecipefileParseErrorId)
	case errors.Is(err, resolver.ErrUnknownRecipe):
		ctx.WithOperation("resolve recipe").
			WithIssue(issue.RecipeNotFoundId).
			WithSuggestion("Run 'recipe list' to see the available recipes")
	case errors.As(err, &missing):
		ctx.WithOperation("bind arguments").
			WithIssue(issue.ArgumentMismatchId).
			WithSuggestion("Usage: recipe " + missing.Signature)
	case errors.As(err, &tooMany):
		ctx.WithOperation("bind arguments").
			WithIssue(issue.ArgumentMismatchId).
			WithSuggestion("Usage: recipe " + tooMany.Signature)
	case errors.Is(err, resolver.ErrNoApplicableVariant):
		ctx.WithOperation("select recipe variant").
			WithIssue(issue.NoApplicableVariantId)
	case errors.Is(err, resolver.ErrAmbiguousVariant):
		ctx.WithOperation("select recipe variant").
			WithIssue(issue.AmbiguousVariantId)
	case errors.Is(err, engine.ErrCyclicInvocation):
		ctx.WithOperation("run recipe").
			WithIssue(issue.CyclicInvocationId)
	case errors.Is(err, resolver.ErrUnknownOverride):
		ctx.WithOperation("apply variable overrides").
			WithIssue(issue.UnknownVariableId)
	case errors.Is(err, engine.ErrDotenv):
		ctx.WithOperation("load dotenv file").
			WithIssue(issue.DotenvLoadFailedId)
	case errors.Is(err, runtime.ErrRuntimeNotAvailable):
		ctx.WithOperation("run recipe").
			WithIssue(issue.RuntimeNotAvailableId)
	default:
		return err
	}
	return ctx.Wrap(err).BuildError()
}

// renderError is the fang error handler. Failing process lines get a one-line
// message, actionable errors also get their catalog entry.
func (a *App) renderError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var failure *engine.ProcessFailureError
	if errors.As(err, &failure) && failure.Silent {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("error:")+" "+formatErrorForDisplay(err, a.verbose()))

	var parseErr *recipefile.ParseError
	if errors.As(err, &parseErr) {
		if snippet := parseErr.Snippet(); snippet != "" {
			fmt.Fprintln(w, snippet)
		}
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	entry := ae.CatalogEntry()
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(a.colorScheme())
	if renderErr != nil {
		a.log().Warn("failed to render issue catalog entry", "issue", ae.Issue, "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}

// colorScheme is the glamour style for catalog entries. The auto scheme picks
// plain text when stderr is not a terminal.
func (a *App) colorScheme() string {
	return glamourStyle(a.config().UI.ColorScheme, isTerminal(a.Stderr))
}

func glamourStyle(scheme config.ColorScheme, tty bool) string {
	switch {
	case scheme == config.ColorSchemeDark:
		return "dark"
	case scheme == config.ColorSchemeLight:
		return "light"
	case !tty:
		return "notty"
	case lipgloss.HasDarkBackground():
		return "dark"
	default:
		return "light"
	}
}

func isTerminal(w io.Writer) bool {
	type fdProvider interface {
		Fd() uintptr
	}
	f, ok := w.(fdProvider)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
