// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/hazmat-go/hazmat/internal/issue"

	"github.com/spf13/cobra"
)

// newExplainCommand creates the `hazmat explain` command.
func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [category]",
		Short: "Explain a diagnostic category",
		Long: `Explain a diagnostic category reported by suit, check, or hazmatvet.

Without arguments, lists every category with a one-line summary. With a
category name, renders the full explanation including the fix.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeExplainCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(TitleStyle.Render("Diagnostic categories"))
				fmt.Println()
				for _, category := range issue.Categories() {
					fmt.Printf("  %s  %s\n", FileStyle.Render(category), issue.Summary(category))
				}
				fmt.Println()
				fmt.Println(SubtitleStyle.Render("Run 'hazmat explain <category>' for details."))
				return nil
			}

			exp, ok := issue.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown category %q; run 'hazmat explain' to list categories", args[0])
			}
			rendered, err := exp.Render()
			if err != nil {
				return fmt.Errorf("rendering explanation: %w", err)
			}
			fmt.Print(rendered)
			return nil
		},
	}
}

func completeExplainCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return issue.Categories(), cobra.ShellCompDirectiveNoFileComp
}
