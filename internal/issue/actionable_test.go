// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load recipefile"},
			expected: "failed to load recipefile",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load recipefile", Resource: "./recipefile"},
			expected: "failed to load recipefile: ./recipefile",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "run recipe",
				Resource:  "build",
				Cause:     errors.New("exit status 2"),
			},
			expected: "failed to run recipe: build: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := fmt.Errorf("wrapped: %w", &ActionableError{
		Operation: "resolve recipe",
		Cause:     fmt.Errorf("lookup: %w", sentinel),
	})

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should reach the cause through ActionableError")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find the ActionableError")
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() without cause should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions listed",
			err: &ActionableError{
				Operation:   "find recipefile",
				Resource:    "/work",
				Suggestions: []string{"Create a recipefile", "Pass --file"},
			},
			contains: []string{"failed to find recipefile: /work", "• Create a recipefile", "• Pass --file"},
		},
		{
			name: "chain hidden when not verbose",
			err: &ActionableError{
				Operation: "load configuration",
				Cause:     errors.New("syntax error"),
			},
			contains: []string{"failed to load configuration: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested chain when verbose",
			err: &ActionableError{
				Operation: "run recipe",
				Cause: &ActionableError{
					Operation: "load dotenv",
					Cause:     errors.New("file not found"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to load dotenv: file not found",
				"2. file not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("parse error")
	ae := NewErrorContext().
		WithOperation("load recipefile").
		WithResource("./recipefile").
		WithSuggestion("Run 'recipe validate'").
		WithSuggestion("").
		WithIssue(RecipefileParseErrorId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load recipefile" || ae.Resource != "./recipefile" {
		t.Errorf("Operation/Resource = %q/%q", ae.Operation, ae.Resource)
	}
	if len(ae.Suggestions) != 1 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v, want one (empty strings dropped)", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("Build() should keep the cause")
	}
	if entry := ae.CatalogEntry(); entry == nil || entry.Id() != RecipefileParseErrorId {
		t.Errorf("CatalogEntry() = %v, want parse error issue", entry)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() = %v, want nil", got)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
}

func TestActionableError_CatalogEntryUnset(t *testing.T) {
	t.Parallel()

	ae := &ActionableError{Operation: "run recipe"}
	if ae.CatalogEntry() != nil {
		t.Error("CatalogEntry() should be nil without an issue id")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}

	cause := errors.New("boom")
	ae := WrapWithOperation(cause, "list recipes")
	if ae.Operation != "list recipes" || !errors.Is(ae, cause) {
		t.Errorf("WrapWithOperation() = %+v", ae)
	}
}
