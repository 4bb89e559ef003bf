// SPDX-License-Identifier: MPL-2.0

package suit

import (
	"fmt"
	"sort"
)

// edit is a byte-range replacement against the original source of one
// file. The rewriter only inserts (start == end), but the apply logic
// supports replacement so future directives can remove text too.
type edit struct {
	start, end int
	text       string
}

// applyEdits splices the edits into src. Edits must not overlap; they
// may touch (an insertion exactly at another edit's boundary). Later
// offsets are applied first so earlier offsets stay valid.
func applyEdits(src []byte, edits []edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].end < sorted[j].end
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].start < sorted[i-1].end {
			return nil, fmt.Errorf("internal error: overlapping edits at offsets %d and %d", sorted[i-1].start, sorted[i].start)
		}
	}
	last := sorted[len(sorted)-1]
	if last.end > len(src) {
		return nil, fmt.Errorf("internal error: edit end %d beyond source length %d", last.end, len(src))
	}

	out := make([]byte, 0, len(src)+totalInserted(sorted))
	prev := 0
	for _, e := range sorted {
		out = append(out, src[prev:e.start]...)
		out = append(out, e.text...)
		prev = e.end
	}
	out = append(out, src[prev:]...)

	return out, nil
}

func totalInserted(edits []edit) int {
	n := 0
	for _, e := range edits {
		n += len(e.text) - (e.end - e.start)
	}
	return n
}
