// SPDX-License-Identifier: MPL-2.0

package hazmatvet

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// BaselineConfig holds accepted findings loaded from a baseline TOML file.
// Findings present in the baseline are suppressed during analysis, so only
// new regressions are reported.
type BaselineConfig struct {
	MisplacedDirective    BaselineCategory `toml:"misplaced-directive"`
	UnknownDirective      BaselineCategory `toml:"unknown-directive"`
	UnsuitedMethod        BaselineCategory `toml:"unsuited-method"`
	MissingCapabilityType BaselineCategory `toml:"missing-capability-type"`
	NilCapability         BaselineCategory `toml:"nil-capability"`

	// lookupByID is an O(1) index keyed by category → finding ID.
	lookupByID map[string]map[string]bool
	// lookupByMessage is keyed by category → message, for hand-edited
	// baselines without IDs.
	lookupByMessage map[string]map[string]bool
}

// BaselineFinding holds a single accepted finding entry.
// ID is the stable semantic identity. Message is retained for readability.
type BaselineFinding struct {
	ID      string `toml:"id"`
	Message string `toml:"message"`
}

// BaselineCategory holds accepted findings for one category.
type BaselineCategory struct {
	Entries  []BaselineFinding `toml:"entries"`
	Messages []string          `toml:"messages"`
}

// baselinedCategoryNames lists every category a baseline can suppress,
// in canonical output order.
func baselinedCategoryNames() []string {
	return []string{
		CategoryMisplacedDirective,
		CategoryUnknownDirective,
		CategoryUnsuitedMethod,
		CategoryMissingCapabilityType,
		CategoryNilCapability,
	}
}

// loadBaseline reads and parses a baseline TOML file, building an internal
// lookup index for fast Contains checks.
//
// Returns an empty baseline (matches nothing) if path is empty or the file
// does not exist, so trees without a baseline file still pass.
func loadBaseline(path string) (*BaselineConfig, error) {
	if path == "" {
		return emptyBaseline(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyBaseline(), nil
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	var cfg BaselineConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing baseline TOML: %w", err)
	}

	cfg.buildLookup()

	return &cfg, nil
}

// ContainsFinding reports whether a finding is present in the baseline.
// Matching prefers stable finding ID and falls back to message matching
// for hand-edited baselines.
func (b *BaselineConfig) ContainsFinding(category, findingID, message string) bool {
	if b == nil {
		return false
	}
	if findingID != "" && b.lookupByID != nil {
		if ids, ok := b.lookupByID[category]; ok && ids[findingID] {
			return true
		}
	}
	if message != "" && b.lookupByMessage != nil {
		if msgs, ok := b.lookupByMessage[category]; ok && msgs[message] {
			return true
		}
	}
	return false
}

// Count returns the total number of baseline entries across all categories.
func (b *BaselineConfig) Count() int {
	if b == nil {
		return 0
	}
	total := 0
	for _, cat := range baselinedCategoryNames() {
		total += countCategory(b.categoryForName(cat))
	}
	return total
}

// buildLookup populates the internal lookup maps from the parsed TOML data.
func (b *BaselineConfig) buildLookup() {
	cats := baselinedCategoryNames()
	b.lookupByID = make(map[string]map[string]bool, len(cats))
	b.lookupByMessage = make(map[string]map[string]bool, len(cats))

	for _, cat := range cats {
		ids, msgs := categorySets(b.categoryForName(cat))
		b.lookupByID[cat] = ids
		b.lookupByMessage[cat] = msgs
	}
}

// WriteBaseline writes a baseline TOML file from categorized findings.
// The findings map is keyed by category constant. Empty categories are
// omitted from the output.
func WriteBaseline(path string, findings map[string][]BaselineFinding) error {
	var sb strings.Builder

	sb.WriteString("# SPDX-License-Identifier: MPL-2.0\n")
	sb.WriteString("#\n")
	sb.WriteString("# hazmatvet baseline — accepted findings\n")
	sb.WriteString(fmt.Sprintf("# Generated: %s\n", time.Now().UTC().Format("2006-01-02")))
	sb.WriteString("# Regenerate: hazmatvet -update-baseline=hazmatvet.baseline.toml ./...\n")

	total := 0
	for category, entries := range findings {
		total += len(normalizeBaselineFindings(category, entries))
	}
	sb.WriteString(fmt.Sprintf("# Total: %d findings\n", total))

	for _, cat := range baselinedCategoryNames() {
		entries := normalizeBaselineFindings(cat, findings[cat])
		if len(entries) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("\n[%s]\n", cat))
		sb.WriteString("entries = [\n")
		for _, entry := range entries {
			sb.WriteString(fmt.Sprintf("    { id = %s, message = %s },\n",
				quote(entry.ID), quote(entry.Message)))
		}
		sb.WriteString("]\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func (b *BaselineConfig) categoryForName(name string) BaselineCategory {
	switch name {
	case CategoryMisplacedDirective:
		return b.MisplacedDirective
	case CategoryUnknownDirective:
		return b.UnknownDirective
	case CategoryUnsuitedMethod:
		return b.UnsuitedMethod
	case CategoryMissingCapabilityType:
		return b.MissingCapabilityType
	case CategoryNilCapability:
		return b.NilCapability
	default:
		return BaselineCategory{}
	}
}

// emptyBaseline returns a baseline that matches nothing.
func emptyBaseline() *BaselineConfig {
	b := &BaselineConfig{}
	b.buildLookup()
	return b
}

// countCategory counts unique entries in one baseline category.
func countCategory(cat BaselineCategory) int {
	seen := make(map[string]bool, len(cat.Entries)+len(cat.Messages))
	for _, entry := range cat.Entries {
		if entry.ID != "" {
			seen["id:"+entry.ID] = true
			continue
		}
		if entry.Message != "" {
			seen["msg:"+entry.Message] = true
		}
	}
	for _, msg := range cat.Messages {
		if msg == "" {
			continue
		}
		seen["msg:"+msg] = true
	}
	return len(seen)
}

// categorySets builds ID and message lookup sets from one category value.
func categorySets(cat BaselineCategory) (map[string]bool, map[string]bool) {
	ids := make(map[string]bool, len(cat.Entries))
	messages := make(map[string]bool, len(cat.Entries)+len(cat.Messages))

	for _, entry := range cat.Entries {
		if entry.ID != "" {
			ids[entry.ID] = true
		}
		if entry.Message != "" {
			messages[entry.Message] = true
		}
	}
	for _, msg := range cat.Messages {
		if msg == "" {
			continue
		}
		messages[msg] = true
	}
	return ids, messages
}

// normalizeBaselineFindings fills fallback IDs, removes invalid rows,
// deduplicates by ID, and sorts by ID/message for stable diffs.
func normalizeBaselineFindings(category string, in []BaselineFinding) []BaselineFinding {
	byID := make(map[string]BaselineFinding, len(in))

	for _, entry := range in {
		if entry.Message == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = FallbackFindingID(category, entry.Message)
		}
		byID[entry.ID] = entry
	}

	out := make([]BaselineFinding, 0, len(byID))
	for _, entry := range byID {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == out[j].ID {
			return out[i].Message < out[j].Message
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// quote produces a TOML-compatible double-quoted string with proper escaping.
// TOML basic strings use the same escape sequences as Go string literals.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
