// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for hazmat.
//
// This package implements the Cobra command hierarchy for the hazmat CLI,
// including the root command, the suit rewriter, the check gate used in CI,
// configuration management, and diagnostic explanations.
package cmd
