// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RuntimeNative runs process lines in the host system shell.
	// Defined locally to avoid coupling config to internal/runtime.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs process lines in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// ListSortAlphabetical lists recipes by name.
	ListSortAlphabetical ListSort = "alphabetical"
	// ListSortDeclaration lists recipes in recipefile order.
	ListSortDeclaration ListSort = "declaration"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidListSort is returned when a ListSort value is not recognized.
	ErrInvalidListSort = errors.New("invalid list sort order")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidShellCommand is returned when a ShellCommand value is whitespace-only.
	ErrInvalidShellCommand = errors.New("invalid shell command")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode specifies the execution runtime for process lines.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// ListSort specifies the default order of `recipe list`.
	ListSort string

	// InvalidListSortError is returned when a ListSort value is not recognized.
	InvalidListSortError struct {
		Value ListSort
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ShellCommand is a shell command line such as "bash -cu".
	// The zero value ("") is valid and means "detect the shell".
	ShellCommand string

	// InvalidShellCommandError is returned when a ShellCommand value is
	// non-empty but whitespace-only.
	InvalidShellCommandError struct {
		Value ShellCommand
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultRuntime sets the runtime used when --runtime is not given.
		DefaultRuntime RuntimeMode `json:"default_runtime" mapstructure:"default_runtime"`
		// Shell overrides the native runtime's shell when the recipefile does not set one.
		Shell ShellCommand `json:"shell" mapstructure:"shell"`
		// List configures `recipe list`.
		List ListConfig `json:"list" mapstructure:"list"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Engine configures recipe execution.
		Engine EngineConfig `json:"engine" mapstructure:"engine"`
		// Dotenv configures dotenv loading.
		Dotenv DotenvConfig `json:"dotenv" mapstructure:"dotenv"`
	}

	// ListConfig configures recipe listing.
	ListConfig struct {
		Sort        ListSort `json:"sort" mapstructure:"sort"`
		ShowPrivate bool     `json:"show_private" mapstructure:"show_private"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// EngineConfig configures recipe execution.
	EngineConfig struct {
		// AllowRecursion disables recursive-invocation detection.
		AllowRecursion bool `json:"allow_recursion" mapstructure:"allow_recursion"`
	}

	// DotenvConfig configures dotenv loading.
	DotenvConfig struct {
		// Load reads .env next to the recipefile for every run.
		Load bool `json:"load" mapstructure:"load"`
	}
)

// IsValid returns whether the Config has valid fields.
// Bool fields need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DefaultRuntime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Shell.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.List.Sort.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Error implements the error interface for InvalidConfigRuntimeModeError.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidConfigRuntimeModeError) Unwrap() error {
	return ErrInvalidConfigRuntimeMode
}

// String returns the string representation of the config RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// IsValid returns whether the config RuntimeMode is one of the defined runtime modes,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidListSortError.
func (e *InvalidListSortError) Error() string {
	return fmt.Sprintf("invalid list sort order %q (valid: alphabetical, declaration)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidListSortError) Unwrap() error { return ErrInvalidListSort }

// String returns the string representation of the ListSort.
func (s ListSort) String() string { return string(s) }

// IsValid returns whether the ListSort is a defined order.
func (s ListSort) IsValid() (bool, []error) {
	switch s {
	case ListSortAlphabetical, ListSortDeclaration:
		return true, nil
	default:
		return false, []error{&InvalidListSortError{Value: s}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidShellCommandError.
func (e *InvalidShellCommandError) Error() string {
	return fmt.Sprintf("invalid shell command %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidShellCommand for errors.Is() compatibility.
func (e *InvalidShellCommandError) Unwrap() error { return ErrInvalidShellCommand }

// String returns the string representation of the ShellCommand.
func (s ShellCommand) String() string { return string(s) }

// IsValid returns whether the ShellCommand is valid.
// The zero value ("") is valid (means "detect the shell").
func (s ShellCommand) IsValid() (bool, []error) {
	if s != "" && strings.TrimSpace(string(s)) == "" {
		return false, []error{&InvalidShellCommandError{Value: s}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultRuntime: RuntimeNative,
		Shell:          "",
		List: ListConfig{
			Sort:        ListSortAlphabetical,
			ShowPrivate: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Engine: EngineConfig{
			AllowRecursion: false,
		},
		Dotenv: DotenvConfig{
			Load: false,
		},
	}
}
