// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/hazmat-go/hazmat/internal/manifest"
	"github.com/hazmat-go/hazmat/pkg/suit"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	suitList     bool
	suitWrite    bool
	suitManifest bool

	// suitCmd rewrites marked interfaces and their implementations.
	suitCmd = &cobra.Command{
		Use:   "suit [packages]",
		Short: "Rewrite //hazmat:suit interfaces to require a capability",
		Long: `Rewrite interfaces and implementations marked with //hazmat:suit.

Each marked interface gains a capability parameter on every method and a
capability type declared next to it. Marked implementations gain the same
parameter so they keep satisfying the interface. The rewrite is a no-op on
files that are already suited, so it is safe to run repeatedly.

Without flags the rewritten files are printed to stdout. Use -w to write
files in place and -l to only list files that would change.`,
		Args: cobra.ArbitraryArgs,
		RunE: runSuit,
	}
)

func init() {
	suitCmd.Flags().BoolVarP(&suitList, "list", "l", false, "list files whose content would change")
	suitCmd.Flags().BoolVarP(&suitWrite, "write", "w", false, "write rewritten files in place")
	suitCmd.Flags().BoolVarP(&suitManifest, "manifest", "m", false, "record guarded interfaces in the manifest")
}

func runSuit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newSuitLogger()

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	opts := suit.Options{CapSuffix: cfg.CapSuffix, ParamName: cfg.ParamName}
	logger.Debug("loading packages", "patterns", patterns, "cap_suffix", opts.CapSuffix)

	result, err := suit.RewritePatterns(cmd.Context(), patterns, opts, cfg.Exclude)
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+d.String())
	}

	changed := 0
	for _, f := range result.Files {
		if !f.Changed {
			continue
		}
		changed++
		switch {
		case suitList:
			fmt.Println(f.Name)
		case suitWrite:
			logger.Debug("writing file", "file", f.Name, "bytes", len(f.Output))
			if writeErr := os.WriteFile(f.Name, f.Output, 0o644); writeErr != nil {
				return fmt.Errorf("writing %s: %w", f.Name, writeErr)
			}
			fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), f.Name)
		default:
			os.Stdout.Write(f.Output)
		}
	}

	if suitManifest {
		m := manifest.Build(result.Guarded)
		if suitWrite {
			recorded, loadErr := manifest.Load(cfg.ManifestPath)
			if loadErr != nil {
				return fmt.Errorf("loading manifest: %w", loadErr)
			}
			m = manifest.Merge(recorded, m, result.Packages)
			if err := m.Write(cfg.ManifestPath); err != nil {
				return fmt.Errorf("writing manifest: %w", err)
			}
			fmt.Printf("%s %s (%d interfaces)\n", SuccessStyle.Render("✓"), cfg.ManifestPath, len(m.Interfaces))
		} else {
			for _, e := range m.Interfaces {
				fmt.Printf("%s.%s guarded by %s\n", e.Package, FileStyle.Render(e.Interface), e.Capability)
			}
		}
	}

	if suitWrite && changed == 0 && len(result.Diagnostics) == 0 {
		fmt.Println(SubtitleStyle.Render("all files already suited"))
	}

	if len(result.Diagnostics) > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d directive problem(s)", len(result.Diagnostics))}
	}
	return nil
}

// newSuitLogger returns a logger that only emits in verbose mode.
func newSuitLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "hazmat",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
