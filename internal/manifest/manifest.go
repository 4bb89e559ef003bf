// SPDX-License-Identifier: MPL-2.0

// Package manifest records the guarded interfaces of a module in a TOML
// lock file. `hazmat suit` writes it; `hazmat check` re-derives it and
// fails on drift, so CI notices interfaces that were guarded, unguarded,
// or reshaped without rerunning the tool.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hazmat-go/hazmat/pkg/suit"
)

// DefaultPath is the manifest location relative to the working
// directory.
const DefaultPath = "hazmat.lock.toml"

// checksumVersion is part of the checksum preimage. Bump only for
// intentional, incompatible checksum schema changes.
const checksumVersion = "1"

type (
	// Manifest is the persisted picture of every guarded interface.
	Manifest struct {
		Version    int     `toml:"version"`
		Interfaces []Entry `toml:"interfaces"`
	}

	// Entry describes one guarded interface.
	Entry struct {
		Package    string   `toml:"package"`
		Interface  string   `toml:"interface"`
		Capability string   `toml:"capability"`
		Methods    []string `toml:"methods"`
		Checksum   string   `toml:"checksum"`
	}
)

// Build derives a manifest from the interfaces a rewrite run guarded.
// Entries are sorted by package then interface so output is stable.
func Build(guarded []suit.GuardedInterface) *Manifest {
	m := &Manifest{Version: 1}
	for _, g := range guarded {
		m.Interfaces = append(m.Interfaces, Entry{
			Package:    g.Package,
			Interface:  g.Name,
			Capability: g.Capability,
			Methods:    g.Methods,
			Checksum:   checksum(g),
		})
	}
	sort.Slice(m.Interfaces, func(i, j int) bool {
		a, b := m.Interfaces[i], m.Interfaces[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Interface < b.Interface
	})
	return m
}

// checksum returns a stable identity for one guarded interface, derived
// from its semantic parts rather than source text so formatting churn
// does not invalidate the manifest.
func checksum(g suit.GuardedInterface) string {
	parts := append([]string{checksumVersion, g.Package, g.Name, g.Capability}, g.Methods...)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "hz" + checksumVersion + "_" + hex.EncodeToString(sum[:])
}

// Load reads a manifest file. A missing file yields an empty manifest,
// so first runs and fresh clones work without special-casing.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Version: 1}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest TOML: %w", err)
	}
	return &m, nil
}

// Write serializes the manifest to path.
func (m *Manifest) Write(path string) error {
	var sb strings.Builder
	sb.WriteString("# Guarded interfaces recorded by hazmat. Do not edit by hand;\n")
	sb.WriteString("# regenerate with: hazmat suit ./...\n\n")

	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Merge folds a freshly derived manifest into a recorded one. Entries
// for the rewritten packages are replaced wholesale by the derived
// entries (so unguarding an interface removes it); entries for packages
// outside the run are kept, so a narrowed run like `hazmat suit -w -m
// ./pkg/...` does not drop the rest of the module from the manifest.
func Merge(recorded, derived *Manifest, rewrittenPkgs []string) *Manifest {
	rewritten := make(map[string]bool, len(rewrittenPkgs))
	for _, p := range rewrittenPkgs {
		rewritten[p] = true
	}

	out := &Manifest{Version: 1}
	for _, e := range recorded.Interfaces {
		if !rewritten[e.Package] {
			out.Interfaces = append(out.Interfaces, e)
		}
	}
	out.Interfaces = append(out.Interfaces, derived.Interfaces...)

	sort.Slice(out.Interfaces, func(i, j int) bool {
		a, b := out.Interfaces[i], out.Interfaces[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Interface < b.Interface
	})
	return out
}

// Scope returns the subset of m whose entries belong to the given
// packages. `hazmat check` scopes the recorded manifest to the packages
// a run loaded before diffing, so a narrowed run does not flag every
// entry outside it as missing.
func Scope(m *Manifest, pkgs []string) *Manifest {
	keep := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		keep[p] = true
	}

	out := &Manifest{Version: m.Version}
	for _, e := range m.Interfaces {
		if keep[e.Package] {
			out.Interfaces = append(out.Interfaces, e)
		}
	}
	return out
}

// Diff reports human-readable differences between a recorded manifest
// and a freshly derived one. An empty result means no drift.
func Diff(recorded, derived *Manifest) []string {
	var diffs []string

	recordedByKey := indexEntries(recorded)
	derivedByKey := indexEntries(derived)

	for _, key := range sortedEntryKeys(recordedByKey) {
		old := recordedByKey[key]
		cur, ok := derivedByKey[key]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("%s: guarded interface no longer present", key))
		case cur.Checksum != old.Checksum:
			diffs = append(diffs, fmt.Sprintf("%s: guarded interface changed (methods or capability)", key))
		}
	}
	for _, key := range sortedEntryKeys(derivedByKey) {
		if _, ok := recordedByKey[key]; !ok {
			diffs = append(diffs, fmt.Sprintf("%s: guarded interface not recorded in manifest", key))
		}
	}

	return diffs
}

func indexEntries(m *Manifest) map[string]Entry {
	out := make(map[string]Entry, len(m.Interfaces))
	for _, e := range m.Interfaces {
		key := e.Interface
		if e.Package != "" {
			key = e.Package + "." + e.Interface
		}
		out[key] = e
	}
	return out
}

func sortedEntryKeys(m map[string]Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
