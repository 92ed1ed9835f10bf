// Package collection implements the action graph's intermediate stores:
// ArrayScanSource, SortBuffer, HashSet and LimitCounter (spec.md §3),
// grounded on the same id-addressed, no-direct-pointers discipline as the
// rest of the action graph.
package collection

import (
	"sort"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// ArrayScanSource buffers tuples produced by a child iterator so they can
// be rescanned from the top without re-running the producer, the backing
// store behind iterator.Sort and iterator.GroupBy.
type ArrayScanSource struct {
	action.Base
	rows   []*value.Value
	cursor int
}

var _ action.Collection = (*ArrayScanSource)(nil)
var _ program.Describable = (*ArrayScanSource)(nil)

func NewArrayScanSource(id int, clock *action.Clock) *ArrayScanSource {
	return &ArrayScanSource{Base: action.NewBase(id, action.ClassArrayScanSource, clock)}
}

func (s *ArrayScanSource) Clear() { s.rows = nil; s.cursor = 0 }

func (s *ArrayScanSource) Add(v *value.Value) { s.rows = append(s.rows, v.Copy()) }

func (s *ArrayScanSource) Len() int { return len(s.rows) }

// Next returns the row at the cursor and advances it, or ok=false once
// exhausted.
func (s *ArrayScanSource) Next() (*value.Value, bool) {
	if s.cursor >= len(s.rows) {
		return nil, false
	}
	row := s.rows[s.cursor]
	s.cursor++
	return row, true
}

func (s *ArrayScanSource) Rewind() { s.cursor = 0 }

func (s *ArrayScanSource) Describe() program.Descriptor {
	return program.Descriptor{ClassID: action.ClassArrayScanSource, ID: s.ID()}
}

// SortBuffer accumulates rows and a parallel sort key, then sorts both by
// key when Sorted is called (iterator.Sort's backing store). asc controls
// direction; ties keep insertion order (stable sort).
type SortBuffer struct {
	action.Base
	keys []*value.Value
	rows []*value.Value
	asc  bool
}

var _ action.Collection = (*SortBuffer)(nil)
var _ program.Describable = (*SortBuffer)(nil)

func NewSortBuffer(id int, clock *action.Clock, ascending bool) *SortBuffer {
	return &SortBuffer{Base: action.NewBase(id, action.ClassSortBuffer, clock), asc: ascending}
}

func (s *SortBuffer) Clear() { s.keys = nil; s.rows = nil }

func (s *SortBuffer) Add(key, row *value.Value) {
	s.keys = append(s.keys, key.Copy())
	s.rows = append(s.rows, row.Copy())
}

// Sorted returns the rows in key order. It is idempotent: calling it more
// than once simply re-sorts the same data.
func (s *SortBuffer) Sorted() []*value.Value {
	idx := make([]int, len(s.rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		cmp := s.keys[idx[i]].CompareTo(s.keys[idx[j]])
		if s.asc {
			return cmp < 0
		}
		return cmp > 0
	})
	out := make([]*value.Value, len(idx))
	for i, id := range idx {
		out[i] = s.rows[id]
	}
	return out
}

func (s *SortBuffer) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassSortBuffer,
		ID:      s.ID(),
		Fields:  map[string]interface{}{"asc": s.asc},
	}
}

// HashSet is the backing store for Distinct/GroupBy/In: a set of values
// keyed on their canonical String() form (spec.md's value model gives
// every kind a total, null-aware ordering via CompareTo, but gob-free
// string keys are simpler and sufficient for equality grouping here).
type HashSet struct {
	action.Base
	seen map[string]*value.Value
}

var _ action.Collection = (*HashSet)(nil)
var _ program.Describable = (*HashSet)(nil)

func NewHashSet(id int, clock *action.Clock) *HashSet {
	return &HashSet{Base: action.NewBase(id, action.ClassHashSet, clock), seen: map[string]*value.Value{}}
}

func (h *HashSet) Clear() { h.seen = map[string]*value.Value{} }

// Add reports whether v was newly inserted (false if already present).
func (h *HashSet) Add(v *value.Value) bool {
	key := v.String()
	if _, ok := h.seen[key]; ok {
		return false
	}
	h.seen[key] = v.Copy()
	return true
}

func (h *HashSet) Contains(v *value.Value) bool {
	_, ok := h.seen[v.String()]
	return ok
}

func (h *HashSet) Len() int { return len(h.seen) }

func (h *HashSet) Describe() program.Descriptor {
	return program.Descriptor{ClassID: action.ClassHashSet, ID: h.ID()}
}

// LimitCounter backs iterator.Limit: a tuple count with an optional
// offset, so Limit can skip the first Offset rows before counting
// toward Limit.
type LimitCounter struct {
	action.Base
	limit  int
	offset int
	seen   int
}

var _ action.Collection = (*LimitCounter)(nil)
var _ program.Describable = (*LimitCounter)(nil)

func NewLimitCounter(id int, clock *action.Clock, limit, offset int) *LimitCounter {
	return &LimitCounter{Base: action.NewBase(id, action.ClassLimitCounter, clock), limit: limit, offset: offset}
}

func (l *LimitCounter) Clear() { l.seen = 0 }

// Advance records one more upstream tuple and reports whether it should
// be emitted (past the offset) and whether the limit has now been
// reached (the caller should stop pulling more).
func (l *LimitCounter) Advance() (emit bool, exhausted bool) {
	l.seen++
	emit = l.seen > l.offset
	exhausted = l.limit >= 0 && l.seen >= l.offset+l.limit
	return emit, exhausted
}

func (l *LimitCounter) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassLimitCounter,
		ID:      l.ID(),
		Fields:  map[string]interface{}{"limit": l.limit, "offset": l.offset},
	}
}

func init() {
	program.RegisterFactory(action.ClassArrayScanSource, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		return NewArrayScanSource(d.ID, clock), nil
	})
	program.RegisterFactory(action.ClassSortBuffer, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		asc, _ := d.Fields["asc"].(bool)
		return NewSortBuffer(d.ID, clock, asc), nil
	})
	program.RegisterFactory(action.ClassHashSet, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		return NewHashSet(d.ID, clock), nil
	})
	program.RegisterFactory(action.ClassLimitCounter, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		limit, _ := d.Fields["limit"].(int)
		offset, _ := d.Fields["offset"].(int)
		return NewLimitCounter(d.ID, clock, limit, offset), nil
	})
}
