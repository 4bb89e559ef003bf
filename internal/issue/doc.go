// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines error types that carry remediation steps, plus the Markdown-formatted
// explanations behind `hazmat explain`, improving the user experience when the
// rewriter or the vet pass reports findings.
package issue
