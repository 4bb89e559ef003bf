// SPDX-License-Identifier: MPL-2.0

package hazmatvet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBaseline_Missing(t *testing.T) {
	bl, err := loadBaseline("")
	if err != nil {
		t.Fatalf("loadBaseline(\"\") error = %v", err)
	}
	if bl.Count() != 0 {
		t.Errorf("empty baseline Count() = %d, want 0", bl.Count())
	}

	bl, err = loadBaseline(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("loadBaseline(absent) error = %v", err)
	}
	if bl.ContainsFinding(CategoryNilCapability, "hz1_x", "anything") {
		t.Error("missing baseline should match nothing")
	}
}

func TestLoadBaseline_Matching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.toml")
	content := `
[nil-capability]
entries = [
    { id = "hz1_abc", message = "nil passed as capability VaultCap" },
]

[unsuited-method]
messages = [
    "method Pump.Stop lacks capability parameter PumpCap",
]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	bl, err := loadBaseline(path)
	if err != nil {
		t.Fatalf("loadBaseline() error = %v", err)
	}

	if !bl.ContainsFinding(CategoryNilCapability, "hz1_abc", "different message") {
		t.Error("ID match should succeed regardless of message")
	}
	if !bl.ContainsFinding(CategoryUnsuitedMethod, "", "method Pump.Stop lacks capability parameter PumpCap") {
		t.Error("message match should succeed for entries without IDs")
	}
	if bl.ContainsFinding(CategoryNilCapability, "hz1_other", "no match") {
		t.Error("unrelated finding should not match")
	}
	if bl.ContainsFinding(CategoryUnsuitedMethod, "hz1_abc", "") {
		t.Error("IDs must match within their own category")
	}
	if bl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", bl.Count())
	}
}

func TestWriteBaseline_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.toml")

	findings := map[string][]BaselineFinding{
		CategoryNilCapability: {
			{ID: "", Message: "nil passed as capability VaultCap"},
			{ID: "hz1_fixed", Message: "nil passed as capability PumpCap"},
		},
		CategoryUnsuitedMethod: {
			{ID: "hz1_dup", Message: "method Pump.Stop lacks capability parameter PumpCap"},
			{ID: "hz1_dup", Message: "method Pump.Stop lacks capability parameter PumpCap"},
		},
	}

	if err := WriteBaseline(path, findings); err != nil {
		t.Fatalf("WriteBaseline() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# SPDX-License-Identifier: MPL-2.0") {
		t.Error("baseline should start with the license header")
	}

	bl, err := loadBaseline(path)
	if err != nil {
		t.Fatalf("loadBaseline() error = %v", err)
	}

	// The empty-ID entry gets a deterministic fallback ID.
	fallback := FallbackFindingID(CategoryNilCapability, "nil passed as capability VaultCap")
	if !bl.ContainsFinding(CategoryNilCapability, fallback, "") {
		t.Error("fallback ID entry should round trip")
	}
	if !bl.ContainsFinding(CategoryNilCapability, "hz1_fixed", "") {
		t.Error("explicit ID entry should round trip")
	}

	// Duplicates collapse to one entry.
	if got := bl.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
}

func TestWriteBaseline_OmitsEmptyCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.toml")

	findings := map[string][]BaselineFinding{
		CategoryNilCapability: {{ID: "hz1_only", Message: "nil passed as capability VaultCap"}},
	}
	if err := WriteBaseline(path, findings); err != nil {
		t.Fatalf("WriteBaseline() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "[unsuited-method]") {
		t.Error("empty categories should be omitted")
	}
	if !strings.Contains(string(data), "[nil-capability]") {
		t.Error("populated categories should be present")
	}
}
