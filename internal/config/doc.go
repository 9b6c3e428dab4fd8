// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/recipe/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/recipe/config.cue on macOS, %APPDATA%\recipe\config.cue
// on Windows), falling back to config.cue in the base directory. Values can be overridden
// with RECIPE_* environment variables (RECIPE_DEFAULT_RUNTIME, RECIPE_LIST_SORT, ...).
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
