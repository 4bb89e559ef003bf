// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/hazmat-go/hazmat/internal/manifest"
	"github.com/hazmat-go/hazmat/pkg/suit"

	"github.com/spf13/cobra"
)

var (
	checkManifest bool

	// checkCmd verifies that the tree is fully suited. CI gates run this.
	checkCmd = &cobra.Command{
		Use:   "check [packages]",
		Short: "Verify that all marked interfaces are already suited",
		Long: `Verify that running 'hazmat suit -w' would change nothing.

check rewrites the given packages in memory and fails when any file
differs from the rewritten form, when a directive is malformed, or when
the recorded manifest no longer matches the guarded interfaces in the
source tree. The manifest is verified whenever the manifest file exists;
--manifest forces verification even when it is absent, so a deleted
manifest still fails. Nothing is written to disk.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheck,
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&checkManifest, "manifest", "m", false, "verify the manifest even when the manifest file is absent")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	opts := suit.Options{CapSuffix: cfg.CapSuffix, ParamName: cfg.ParamName}
	result, err := suit.RewritePatterns(cmd.Context(), patterns, opts, cfg.Exclude)
	if err != nil {
		return err
	}

	problems := 0

	for _, d := range result.Diagnostics {
		problems++
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+d.String())
	}

	for _, f := range result.Files {
		if f.Changed {
			problems++
			fmt.Printf("%s %s\n", WarningStyle.Render("stale:"), f.Name)
		}
	}

	if shouldVerifyManifest(checkManifest, cfg.ManifestPath) {
		recorded, loadErr := manifest.Load(cfg.ManifestPath)
		if loadErr != nil {
			return fmt.Errorf("loading manifest: %w", loadErr)
		}
		recorded = manifest.Scope(recorded, result.Packages)
		for _, drift := range manifest.Diff(recorded, manifest.Build(result.Guarded)) {
			problems++
			fmt.Printf("%s %s\n", WarningStyle.Render("manifest:"), drift)
		}
	}

	if problems > 0 {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("check failed: %d problem(s); run 'hazmat suit -w' to fix stale files", problems),
		}
	}

	fmt.Println(SuccessStyle.Render("✓") + " all marked interfaces are suited")
	return nil
}

// shouldVerifyManifest reports whether check compares the recorded
// manifest with the derived one. A present manifest file is always
// verified; force extends that to absent files, where every guarded
// interface then counts as unrecorded drift.
func shouldVerifyManifest(force bool, path string) bool {
	if force {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
