// Package playlist converts caller item selections into the backend's
// playlist item-selector syntax.
package playlist

import (
	"sort"
	"strconv"
	"strings"
)

// SelectionKind names what a resolution produced.
type SelectionKind int

const (
	// SelectWhole requests the whole collection: no restricting option.
	SelectWhole SelectionKind = iota

	// SelectItems restricts to a comma-joined index list or range.
	SelectItems

	// SelectSingle forces a single-item-only constraint for requests that
	// did not opt into collection mode.
	SelectSingle

	// InvalidRange marks a range that fails validation against the known
	// entry count. It is a value, not an error, and must never reach the
	// backend.
	InvalidRange
)

// Resolution is the outcome of resolving one request's item selection.
type Resolution struct {
	Kind  SelectionKind
	Items string // backend syntax, set only for SelectItems
}

// Resolver turns item selections into backend selector values. Explicit
// indices are one-shot: they are consumed by the first resolve so a later
// request cannot silently reuse a stale selection.
type Resolver struct {
	explicit []int
}

// SetExplicitIndices stages a set of 1-based indices for the next resolve.
func (r *Resolver) SetExplicitIndices(indices []int) {
	r.explicit = append(r.explicit[:0:0], indices...)
}

// Resolve produces the item selector for one request.
//
// collectionMode=false always forces the single-item constraint, even when
// the URL references a collection. Otherwise explicit indices win, then a
// (start, end) range, then the whole collection. totalKnown > 0 enables
// range validation against the probed entry count.
func (r *Resolver) Resolve(collectionMode bool, start, end, totalKnown int) Resolution {
	if !collectionMode {
		return Resolution{Kind: SelectSingle}
	}

	if len(r.explicit) > 0 {
		indices := append([]int(nil), r.explicit...)
		r.explicit = nil // consumed; one use only

		sort.Ints(indices)
		parts := make([]string, 0, len(indices))
		for _, i := range indices {
			parts = append(parts, strconv.Itoa(i))
		}
		return Resolution{Kind: SelectItems, Items: strings.Join(parts, ",")}
	}

	if start == 0 && end == 0 {
		return Resolution{Kind: SelectWhole}
	}

	if start == 0 {
		start = 1
	}

	if start < 1 {
		return Resolution{Kind: InvalidRange}
	}
	if end != 0 && end < start {
		return Resolution{Kind: InvalidRange}
	}
	if totalKnown > 0 {
		if start > totalKnown || (end != 0 && end > totalKnown) {
			return Resolution{Kind: InvalidRange}
		}
	}

	if end != 0 {
		return Resolution{Kind: SelectItems, Items: strconv.Itoa(start) + "-" + strconv.Itoa(end)}
	}
	return Resolution{Kind: SelectItems, Items: strconv.Itoa(start) + "-"}
}
