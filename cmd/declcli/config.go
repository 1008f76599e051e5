// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/declcli/internal/config"
)

// newConfigCommand creates the `declcli config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage declcli configuration",
		Long: `Manage declcli configuration.

Configuration is stored in:
  - Linux: ~/.config/declcli/config.cue
  - macOS: ~/Library/Application Support/declcli/config.cue
  - Windows: %APPDATA%\declcli\config.cue

Every key can be overridden with a DECLCLI_* environment variable,
e.g. DECLCLI_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfig(cmd.Context(), flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initConfig(flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.showConfigPath(flags)
		},
	})

	return cfgCmd
}

func (a *App) showConfig(ctx context.Context, flags *rootFlags) error {
	loaded, err := config.LoadWithSource(ctx, a.loadOptions(flags))
	if err != nil {
		return a.fail(nil, flags, err)
	}

	source := SubtitleStyle.Render("(using defaults)")
	if loaded.Source != "" {
		source = loaded.Source
	}
	fmt.Fprintf(a.stderr, "%s: %s\n\n", CmdStyle.Render("Config file"), source)
	fmt.Fprint(a.stdout, config.GenerateCUE(loaded.Config))
	return nil
}

func (a *App) initConfig(flags *rootFlags) error {
	path, err := config.CreateDefaultConfig(a.configDir)
	if err != nil {
		return a.fail(nil, flags, err)
	}
	fmt.Fprintf(a.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func (a *App) showConfigPath(flags *rootFlags) error {
	if flags.configPath != "" {
		fmt.Fprintf(a.stdout, "Config file: %s\n", flags.configPath)
		return nil
	}

	cfgDir := a.configDir
	if cfgDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return a.fail(nil, flags, err)
		}
		cfgDir = dir
	}
	fmt.Fprintf(a.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(a.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
