// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"strings"

	"recipe-cli/pkg/platform"
)

var (
	// ErrUnknownRecipe is returned when a name matches neither a recipe nor an alias.
	ErrUnknownRecipe = errors.New("unknown recipe")
	// ErrAmbiguousVariant is returned when more than one variant applies.
	ErrAmbiguousVariant = errors.New("ambiguous recipe variant")
	// ErrNoApplicableVariant is returned when no variant applies to the running OS.
	ErrNoApplicableVariant = errors.New("no applicable recipe variant")
	// ErrMissingArgument is returned when a required parameter receives no value.
	ErrMissingArgument = errors.New("missing argument")
	// ErrTooManyArguments is returned when arguments remain after binding.
	ErrTooManyArguments = errors.New("too many arguments")
	// ErrEvaluation is returned when an expression cannot be evaluated.
	ErrEvaluation = errors.New("expression evaluation failed")
	// ErrUnknownOverride is returned when a --set override names no assignment.
	ErrUnknownOverride = errors.New("unknown variable override")
)

type (
	// UnknownRecipeError reports a name that resolves to nothing.
	UnknownRecipeError struct {
		Name string
		// Suggestion is the closest known name, if one is close enough.
		Suggestion string
	}

	// AmbiguousVariantError reports several variants matching the same OS.
	AmbiguousVariantError struct {
		Recipe     string
		OS         platform.OS
		Candidates []string
	}

	// NoApplicableVariantError reports that no variant covers the OS.
	NoApplicableVariantError struct {
		Recipe    string
		OS        platform.OS
		Supported []string
	}

	// MissingArgumentError reports a required parameter without a value.
	MissingArgumentError struct {
		Recipe    string
		Parameter string
		// Signature is the recipe header used for usage hints.
		Signature string
	}

	// TooManyArgumentsError reports surplus arguments.
	TooManyArgumentsError struct {
		Recipe    string
		Max       int
		Got       int
		Signature string
	}

	// EvaluationError wraps a failure while evaluating an expression.
	EvaluationError struct {
		// Subject names what was being evaluated, e.g. `variable "version"`.
		Subject string
		Err     error
	}

	// UnknownOverrideError reports an override for an undefined variable.
	UnknownOverrideError struct {
		Name string
	}
)

func (e *UnknownRecipeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown recipe %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown recipe %q", e.Name)
}

// Unwrap returns ErrUnknownRecipe so callers can use errors.Is for programmatic detection.
func (e *UnknownRecipeError) Unwrap() error { return ErrUnknownRecipe }

func (e *AmbiguousVariantError) Error() string {
	return fmt.Sprintf("recipe %q has %d variants matching %s: [%s]",
		e.Recipe, len(e.Candidates), e.OS, strings.Join(e.Candidates, "], ["))
}

// Unwrap returns ErrAmbiguousVariant so callers can use errors.Is for programmatic detection.
func (e *AmbiguousVariantError) Unwrap() error { return ErrAmbiguousVariant }

func (e *NoApplicableVariantError) Error() string {
	return fmt.Sprintf("recipe %q has no variant for %s (available: %s)",
		e.Recipe, e.OS, strings.Join(e.Supported, "; "))
}

// Unwrap returns ErrNoApplicableVariant so callers can use errors.Is for programmatic detection.
func (e *NoApplicableVariantError) Unwrap() error { return ErrNoApplicableVariant }

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("recipe %q is missing a value for parameter %q", e.Recipe, e.Parameter)
}

// Unwrap returns ErrMissingArgument so callers can use errors.Is for programmatic detection.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("recipe %q accepts at most %d argument(s) but got %d", e.Recipe, e.Max, e.Got)
}

// Unwrap returns ErrTooManyArguments so callers can use errors.Is for programmatic detection.
func (e *TooManyArgumentsError) Unwrap() error { return ErrTooManyArguments }

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate %s: %v", e.Subject, e.Err)
}

// Unwrap returns the underlying failure.
func (e *EvaluationError) Unwrap() error { return e.Err }

// Is matches ErrEvaluation in addition to the wrapped chain.
func (e *EvaluationError) Is(target error) bool { return target == ErrEvaluation }

func (e *UnknownOverrideError) Error() string {
	return fmt.Sprintf("cannot override undefined variable %q", e.Name)
}

// Unwrap returns ErrUnknownOverride so callers can use errors.Is for programmatic detection.
func (e *UnknownOverrideError) Unwrap() error { return ErrUnknownOverride }

// IsResolutionError reports whether err belongs to the resolution or binding
// taxonomy (unknown recipe, variant selection, argument binding, overrides).
func IsResolutionError(err error) bool {
	for _, target := range []error{
		ErrUnknownRecipe, ErrAmbiguousVariant, ErrNoApplicableVariant,
		ErrMissingArgument, ErrTooManyArguments, ErrUnknownOverride,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
