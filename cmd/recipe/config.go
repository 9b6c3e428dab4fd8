// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"recipe-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `recipe config` command tree.
func newConfigCommand(a *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage recipe configuration",
		Long: `Manage recipe configuration.

Configuration is stored in:
  - Linux: ~/.config/recipe/config.cue
  - macOS: ~/Library/Application Support/recipe/config.cue
  - Windows: %APPDATA%\recipe\config.cue

A config.cue in the current directory is used when none exists there.
Every key can be overridden with a RECIPE_<KEY> environment variable,
for example RECIPE_LIST_SORT=declaration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.showConfig(cmd.Context())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigFilePath("")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context) error {
	cfg, source, err := config.LoadWithSource(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		BaseDir:        a.cwd(),
	})
	if err != nil {
		return err
	}

	origin := SubtitleStyle.Render("(using defaults)")
	if source.Path != "" {
		origin = source.Path
	}
	fmt.Fprintf(a.Stderr, "%s: %s\n\n", CmdStyle.Render("Config file"), origin)
	fmt.Fprint(a.Stdout, config.GenerateCUE(cfg))
	return nil
}

func (a *App) initConfig() error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(a.Stdout, "%s Configuration already exists at %s\n", warningIcon, path)
		return nil
	}
	fmt.Fprintf(a.Stdout, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}
