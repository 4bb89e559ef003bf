// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/hazmat-go/hazmat/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `hazmat config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hazmat configuration",
		Long: `Manage hazmat configuration.

Configuration is stored in:
  - Linux: ~/.config/hazmat/config.cue
  - macOS: ~/Library/Application Support/hazmat/config.cue
  - Windows: %APPDATA%\hazmat\config.cue

A project-local hazmat.cue in the working directory takes precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the resolved configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	keyStyle := FileStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	path, pathErr := config.ResolvedPath()
	if pathErr == nil && path != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("cap_suffix"), valueStyle.Render(cfg.CapSuffix))
	fmt.Printf("%s: %s\n", keyStyle.Render("param_name"), valueStyle.Render(cfg.ParamName))
	fmt.Printf("%s: %s\n", keyStyle.Render("manifest_path"), valueStyle.Render(cfg.ManifestPath))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("exclude"))
	if len(cfg.Exclude) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, pattern := range cfg.Exclude {
			fmt.Printf("  - %s\n", valueStyle.Render(pattern))
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/%s.cue\n", cfgDir, config.ConfigFileName)
	fmt.Printf("Project file: ./%s\n", config.LocalConfigFileName)

	return nil
}
