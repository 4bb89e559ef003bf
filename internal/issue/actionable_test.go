// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "load configuration",
			},
			expected: "failed to load configuration",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "./hazmat.cue",
			},
			expected: "failed to load configuration: ./hazmat.cue",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "rewrite package",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to rewrite package: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "write manifest",
				Resource:  "hazmat.lock.toml",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to write manifest: hazmat.lock.toml: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	err := NewErrorContext().
		WithOperation("rewrite package").
		WithResource("./crypto/prim").
		WithSuggestion("Run 'hazmat suit --list ./...' to see which files would change").
		WithSuggestion("Check that the package parses with 'go vet'").
		Wrap(errors.New("parse failure")).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "failed to rewrite package: ./crypto/prim: parse failure") {
		t.Errorf("Format(false) missing main message: %q", plain)
	}
	if !strings.Contains(plain, "• Run 'hazmat suit --list ./...'") {
		t.Errorf("Format(false) missing suggestion: %q", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. parse failure") {
		t.Errorf("Format(true) missing error chain: %q", verbose)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().WithResource("x").BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapHelpers_NilPassthrough(t *testing.T) {
	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
	if got := WrapWithContext(nil, "anything", "res"); got != nil {
		t.Errorf("WrapWithContext(nil) = %v, want nil", got)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapWithOperation(cause, "rewrite package")
	if !errors.Is(err, cause) {
		t.Error("errors.Is() did not find the wrapped cause")
	}
}
