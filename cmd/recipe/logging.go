// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"recipe-cli/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog.Logger writing human-readable records to w.
// Debug records (variant selection, bindings, ignored failures) need verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
	return slog.New(handler)
}
