// SPDX-License-Identifier: MPL-2.0

package hazmatvet

import "testing"

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		wantKey string
		wantArg string
		wantOK  bool
	}{
		{
			name:    "bare suit",
			comment: "//hazmat:suit",
			wantKey: "suit",
			wantOK:  true,
		},
		{
			name:    "suit with interface argument",
			comment: "//hazmat:suit store.Vault",
			wantKey: "suit",
			wantArg: "store.Vault",
			wantOK:  true,
		},
		{
			name:    "reason suffix is stripped",
			comment: "//hazmat:suit store.Vault -- keeps callers out",
			wantKey: "suit",
			wantArg: "store.Vault",
			wantOK:  true,
		},
		{
			name:    "unknown key still parses",
			comment: "//hazmat:armor",
			wantKey: "armor",
			wantOK:  true,
		},
		{
			name:    "regular comment",
			comment: "// hazmat is great",
			wantOK:  false,
		},
		{
			name:    "prefix must start the comment",
			comment: "// see //hazmat:suit for details",
			wantOK:  false,
		},
		{
			name:    "empty key",
			comment: "//hazmat:",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, arg, ok := parseDirective(tt.comment)
			if ok != tt.wantOK {
				t.Fatalf("parseDirective(%q) ok = %v, want %v", tt.comment, ok, tt.wantOK)
			}
			if key != tt.wantKey {
				t.Errorf("parseDirective(%q) key = %q, want %q", tt.comment, key, tt.wantKey)
			}
			if arg != tt.wantArg {
				t.Errorf("parseDirective(%q) arg = %q, want %q", tt.comment, arg, tt.wantArg)
			}
		})
	}
}
