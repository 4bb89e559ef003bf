// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazmat-go/hazmat/pkg/suit"
)

func sampleGuarded() []suit.GuardedInterface {
	return []suit.GuardedInterface{
		{
			Package:    "example.com/prim",
			Name:       "Decrypter",
			Capability: "DecrypterCap",
			Methods:    []string{"Decrypt", "Reset"},
		},
		{
			Package:    "example.com/prim",
			Name:       "AddOnce",
			Capability: "AddOnceCap",
			Methods:    []string{"AddOnce"},
		},
	}
}

func TestBuild_SortsEntries(t *testing.T) {
	m := Build(sampleGuarded())

	if len(m.Interfaces) != 2 {
		t.Fatalf("Build() entries = %d, want 2", len(m.Interfaces))
	}
	if m.Interfaces[0].Interface != "AddOnce" || m.Interfaces[1].Interface != "Decrypter" {
		t.Errorf("Build() order = [%s %s], want [AddOnce Decrypter]",
			m.Interfaces[0].Interface, m.Interfaces[1].Interface)
	}
	for _, e := range m.Interfaces {
		if !strings.HasPrefix(e.Checksum, "hz1_") {
			t.Errorf("checksum %q missing hz1_ prefix", e.Checksum)
		}
	}
}

func TestBuild_ChecksumIsStable(t *testing.T) {
	a := Build(sampleGuarded())
	b := Build(sampleGuarded())
	for i := range a.Interfaces {
		if a.Interfaces[i].Checksum != b.Interfaces[i].Checksum {
			t.Errorf("checksum for %s not deterministic", a.Interfaces[i].Interface)
		}
	}
}

func TestWriteAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hazmat.lock.toml")

	written := Build(sampleGuarded())
	if err := written.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diffs := Diff(written, loaded); len(diffs) != 0 {
		t.Errorf("round trip drift: %v", diffs)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest back: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Guarded interfaces recorded by hazmat.") {
		t.Errorf("manifest missing header comment:\n%s", data)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Interfaces) != 0 {
		t.Errorf("Load() on missing file = %v, want empty", m.Interfaces)
	}
}

func TestMerge(t *testing.T) {
	recorded := Build(append(sampleGuarded(), suit.GuardedInterface{
		Package:    "example.com/store",
		Name:       "Opener",
		Capability: "OpenerCap",
		Methods:    []string{"Open"},
	}))

	t.Run("keeps packages outside the run", func(t *testing.T) {
		derived := Build([]suit.GuardedInterface{{
			Package:    "example.com/prim",
			Name:       "Signer",
			Capability: "SignerCap",
			Methods:    []string{"Sign"},
		}})

		merged := Merge(recorded, derived, []string{"example.com/prim"})

		var names []string
		for _, e := range merged.Interfaces {
			names = append(names, e.Package+"."+e.Interface)
		}
		want := []string{"example.com/prim.Signer", "example.com/store.Opener"}
		if len(names) != len(want) {
			t.Fatalf("Merge() entries = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Merge() entry %d = %s, want %s", i, names[i], want[i])
			}
		}
	})

	t.Run("unguarding removes entries of rewritten packages", func(t *testing.T) {
		merged := Merge(recorded, &Manifest{Version: 1}, []string{"example.com/prim"})

		if len(merged.Interfaces) != 1 || merged.Interfaces[0].Package != "example.com/store" {
			t.Errorf("Merge() = %v, want only the store entry", merged.Interfaces)
		}
	})

	t.Run("full run replaces everything", func(t *testing.T) {
		derived := Build(sampleGuarded())
		merged := Merge(recorded, derived, []string{"example.com/prim", "example.com/store"})

		if diffs := Diff(derived, merged); len(diffs) != 0 {
			t.Errorf("Merge() over all packages drifted from derived: %v", diffs)
		}
	})

	t.Run("empty recorded manifest", func(t *testing.T) {
		derived := Build(sampleGuarded())
		merged := Merge(&Manifest{Version: 1}, derived, []string{"example.com/prim"})

		if diffs := Diff(derived, merged); len(diffs) != 0 {
			t.Errorf("Merge() from empty recorded drifted: %v", diffs)
		}
	})
}

func TestScope(t *testing.T) {
	m := Build(append(sampleGuarded(), suit.GuardedInterface{
		Package:    "example.com/store",
		Name:       "Opener",
		Capability: "OpenerCap",
		Methods:    []string{"Open"},
	}))

	scoped := Scope(m, []string{"example.com/store"})
	if len(scoped.Interfaces) != 1 || scoped.Interfaces[0].Interface != "Opener" {
		t.Errorf("Scope() = %v, want only Opener", scoped.Interfaces)
	}

	if empty := Scope(m, nil); len(empty.Interfaces) != 0 {
		t.Errorf("Scope() with no packages = %v, want empty", empty.Interfaces)
	}
}

func TestDiff(t *testing.T) {
	base := Build(sampleGuarded())

	t.Run("no drift", func(t *testing.T) {
		if diffs := Diff(base, Build(sampleGuarded())); len(diffs) != 0 {
			t.Errorf("Diff() = %v, want empty", diffs)
		}
	})

	t.Run("removed interface", func(t *testing.T) {
		derived := Build(sampleGuarded()[:1])
		diffs := Diff(base, derived)
		if len(diffs) != 1 || !strings.Contains(diffs[0], "no longer present") {
			t.Errorf("Diff() = %v, want one removal", diffs)
		}
	})

	t.Run("new interface", func(t *testing.T) {
		extra := append(sampleGuarded(), suit.GuardedInterface{
			Package:    "example.com/prim",
			Name:       "Signer",
			Capability: "SignerCap",
			Methods:    []string{"Sign"},
		})
		diffs := Diff(base, Build(extra))
		if len(diffs) != 1 || !strings.Contains(diffs[0], "not recorded") {
			t.Errorf("Diff() = %v, want one addition", diffs)
		}
	})

	t.Run("changed method set", func(t *testing.T) {
		changed := sampleGuarded()
		changed[0].Methods = []string{"Decrypt"}
		diffs := Diff(base, Build(changed))
		if len(diffs) != 1 || !strings.Contains(diffs[0], "changed") {
			t.Errorf("Diff() = %v, want one change", diffs)
		}
	})
}
