// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hazmat-go/hazmat/internal/config"

	"github.com/spf13/cobra"
)

var (
	initForce  bool
	initGlobal bool

	// initCmd creates a starter config, project-local by default.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a hazmat.cue config in the current directory",
		Long: `Create a hazmat.cue configuration file in the current directory.

The generated file records the current defaults so they are easy to
adjust per project. Project-local configuration takes precedence over
the user-level config directory; use --global to write the user-level
config instead.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	initCmd.Flags().BoolVarP(&initGlobal, "global", "g", false, "write to the user config directory instead of the current directory")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := config.LocalConfigFileName
	switch {
	case initGlobal:
		if len(args) > 0 {
			return fmt.Errorf("--global does not take a filename argument")
		}
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		cfgDir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		filename = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	case len(args) > 0:
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := config.GenerateCUE(config.DefaultConfig())
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Mark an interface with //hazmat:suit")
	fmt.Println("  2. Run 'hazmat suit -w ./...' to rewrite it")
	fmt.Println("  3. Add 'hazmat check ./...' to CI")

	return nil
}
