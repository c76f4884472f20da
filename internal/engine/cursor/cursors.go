package cursor

import "sort"

// ID is a stable, opaque identifier for a cursor within a CursorSet. IDs
// are monotonically assigned per buffer and are never reused, so an ID
// keeps identifying "the same cursor" across edits even as its position
// and insertion-order slot change.
type ID uint64

// Entry pairs a cursor's stable ID with its current selection.
type Entry struct {
	ID        ID
	Selection Selection
}

// CursorSet manages multiple cursors/selections for one buffer.
//
// Unlike a plain slice of selections, every cursor carries a stable ID
// assigned once at Add time. The set always has a distinguished primary
// ID; operations expressed on "the" cursor (viewport tracking, single-
// cursor commands) use it. Iteration order is insertion order, not
// position order — callers that need cursors sorted by where they sit in
// the buffer should use Sorted.
type CursorSet struct {
	order   []ID // insertion order
	byID    map[ID]Selection
	primary ID
	nextID  ID
}

// NewCursorSet creates a cursor set with a single selection as primary.
func NewCursorSet(initial Selection) *CursorSet {
	cs := &CursorSet{byID: make(map[ID]Selection, 4)}
	id := cs.alloc()
	cs.order = append(cs.order, id)
	cs.byID[id] = initial
	cs.primary = id
	return cs
}

// NewCursorSetAt creates a cursor set with a single cursor (no selection)
// at the given offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return NewCursorSet(NewCursorSelection(offset))
}

// NewCursorSetFromSlice builds a cursor set from an ordered list of
// selections. The first selection becomes primary. Each subsequent
// selection is appended and re-normalized against what came before, so
// overlapping input selections merge exactly as Add would merge them one
// at a time; non-overlapping selections (the common case for multi-cursor
// test fixtures and programmatic setup) keep their own IDs and insertion
// order.
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	if len(selections) == 0 {
		return NewCursorSet(NewCursorSelection(0))
	}
	cs := NewCursorSet(selections[0])
	for _, sel := range selections[1:] {
		cs.Add(sel)
	}
	return cs
}

func (cs *CursorSet) alloc() ID {
	cs.nextID++
	return cs.nextID
}

// Add appends a new cursor, re-normalizing the set afterward (merging it
// into an existing cursor if its range overlaps one). Returns the new
// cursor's ID; if the addition was merged away, the returned ID still
// names a cursor in the set (the merge survivor).
func (cs *CursorSet) Add(sel Selection) ID {
	id := cs.alloc()
	cs.order = append(cs.order, id)
	cs.byID[id] = sel
	return cs.normalize(id)
}

// Remove deletes the cursor with the given ID. If it was the primary, the
// next cursor in insertion order is promoted (wrapping to the first if the
// primary was last). Removing the last remaining cursor is a no-op — a
// buffer always has at least one cursor.
func (cs *CursorSet) Remove(id ID) {
	if len(cs.order) <= 1 {
		return
	}
	idx := cs.indexOf(id)
	if idx < 0 {
		return
	}

	wasPrimary := cs.primary == id
	cs.order = append(cs.order[:idx], cs.order[idx+1:]...)
	delete(cs.byID, id)

	if wasPrimary {
		next := idx
		if next >= len(cs.order) {
			next = 0
		}
		cs.primary = cs.order[next]
	}
}

// RemoveSecondary drops every cursor except the primary.
func (cs *CursorSet) RemoveSecondary() {
	primarySel := cs.byID[cs.primary]
	cs.order = []ID{cs.primary}
	cs.byID = map[ID]Selection{cs.primary: primarySel}
}

func (cs *CursorSet) indexOf(id ID) int {
	for i, oid := range cs.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// Primary returns the primary cursor's selection.
func (cs *CursorSet) Primary() Selection {
	return cs.byID[cs.primary]
}

// PrimaryID returns the primary cursor's stable ID.
func (cs *CursorSet) PrimaryID() ID {
	return cs.primary
}

// Promote makes the cursor with the given ID the primary. No-op if id is
// not present.
func (cs *CursorSet) Promote(id ID) {
	if _, ok := cs.byID[id]; ok {
		cs.primary = id
	}
}

// Get returns the selection for the given ID and whether it exists.
func (cs *CursorSet) Get(id ID) (Selection, bool) {
	sel, ok := cs.byID[id]
	return sel, ok
}

// Set replaces the selection for an existing cursor, without re-sorting
// insertion order. Normalizing (merging overlaps) is left to the caller
// via Normalize, matching the event-application model where AddCursor/
// RemoveCursor/MoveCursor apply one at a time and the set is renormalized
// only on explicit request.
func (cs *CursorSet) Set(id ID, sel Selection) {
	if _, ok := cs.byID[id]; ok {
		cs.byID[id] = sel
	}
}

// SetPrimary replaces the primary cursor's selection.
func (cs *CursorSet) SetPrimary(sel Selection) {
	cs.Set(cs.primary, sel)
}

// PrimaryCursor returns the primary cursor's head offset.
func (cs *CursorSet) PrimaryCursor() ByteOffset {
	return cs.Primary().Head
}

// Clear removes every cursor but the primary and collapses its
// selection to a bare cursor.
func (cs *CursorSet) Clear() {
	cs.RemoveSecondary()
	cs.SetPrimary(NewCursorSelection(cs.Primary().Head))
}

// MapInPlace applies f to every cursor in insertion order.
func (cs *CursorSet) MapInPlace(f func(Selection) Selection) {
	for _, id := range cs.order {
		cs.byID[id] = f(cs.byID[id])
	}
}

// SetAll replaces every cursor's position from an ordered slice of
// selections. When the count matches the current cursor count (the common
// case: an edit repositions cursors but doesn't add or remove any), each
// selection is written back to the cursor at the same slot, preserving IDs.
// Otherwise fresh IDs are allocated and the former primary's slot (clamped
// to the new length) stays primary.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		sels = []Selection{NewCursorSelection(0)}
	}

	if len(sels) == len(cs.order) {
		for i, sel := range sels {
			cs.byID[cs.order[i]] = sel
		}
		cs.Normalize()
		return
	}

	primaryIdx := cs.indexOf(cs.primary)
	order := make([]ID, len(sels))
	byID := make(map[ID]Selection, len(sels))
	for i, sel := range sels {
		id := cs.alloc()
		order[i] = id
		byID[id] = sel
	}

	cs.order = order
	cs.byID = byID
	if primaryIdx < 0 || primaryIdx >= len(order) {
		primaryIdx = 0
	}
	cs.primary = order[primaryIdx]
	cs.Normalize()
}

// Iter returns every cursor in insertion order.
func (cs *CursorSet) Iter() []Entry {
	out := make([]Entry, len(cs.order))
	for i, id := range cs.order {
		out[i] = Entry{ID: id, Selection: cs.byID[id]}
	}
	return out
}

// Sorted returns every cursor ordered by selection start, ties broken by
// descending end (wider ranges first) — the order used by merge and by
// renderer multi-cursor highlighting.
func (cs *CursorSet) Sorted() []Entry {
	out := cs.Iter()
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Selection.Start(), out[j].Selection.Start()
		if si != sj {
			return si < sj
		}
		return out[i].Selection.End() > out[j].Selection.End()
	})
	return out
}

// Count returns the number of cursors.
func (cs *CursorSet) Count() int { return len(cs.order) }

// IsMulti returns true if there is more than one cursor.
func (cs *CursorSet) IsMulti() bool { return len(cs.order) > 1 }

// HasSelection returns true if any cursor has a non-empty selection.
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.byID {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// All returns every selection, in insertion order, discarding IDs. Kept
// for callers (e.g. rendering) that only need positions.
func (cs *CursorSet) All() []Selection {
	out := make([]Selection, len(cs.order))
	for i, id := range cs.order {
		out[i] = cs.byID[id]
	}
	return out
}

// Ranges returns every cursor's range (collapsed cursors yield empty
// ranges), in insertion order.
func (cs *CursorSet) Ranges() []Range {
	out := make([]Range, len(cs.order))
	for i, id := range cs.order {
		out[i] = cs.byID[id].Range()
	}
	return out
}

// SelectionRanges returns ranges only for cursors with a non-empty
// selection.
func (cs *CursorSet) SelectionRanges() []Range {
	var out []Range
	for _, id := range cs.order {
		sel := cs.byID[id]
		if !sel.IsEmpty() {
			out = append(out, sel.Range())
		}
	}
	return out
}

// CollapseAll collapses every selection to a cursor at its head.
func (cs *CursorSet) CollapseAll() {
	for id, sel := range cs.byID {
		cs.byID[id] = sel.Collapse()
	}
}

// Clamp clamps every cursor to the valid range [0, maxOffset], then
// re-normalizes (clamping can make distinct cursors collide).
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for id, sel := range cs.byID {
		cs.byID[id] = sel.Clamp(maxOffset)
	}
	cs.Normalize()
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	clone := &CursorSet{
		order:   append([]ID(nil), cs.order...),
		byID:    make(map[ID]Selection, len(cs.byID)),
		primary: cs.primary,
		nextID:  cs.nextID,
	}
	for id, sel := range cs.byID {
		clone.byID[id] = sel
	}
	return clone
}

// Equals returns true if two cursor sets have the same cursors (by
// position; IDs are not compared since they are an internal identity, not
// observable state).
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil || cs.Count() != other.Count() {
		return false
	}
	a, b := cs.Sorted(), other.Sorted()
	for i := range a {
		if !a[i].Selection.Equals(b[i].Selection) {
			return false
		}
	}
	return true
}

// Normalize sorts cursors by position and merges any that overlap,
// implementing the §4.C merge rule: the merged cursor's anchor/head become
// the outer minimum/maximum of the merged group, and its direction is the
// primary's direction if the primary participated, else the most-recently
// -added participant's direction (recency = larger ID, since IDs are
// assigned monotonically). Returns the ID that now represents the cursor
// the caller most recently added or moved (newlyAdded), which may be a
// merge survivor rather than newlyAdded itself.
func (cs *CursorSet) Normalize() {
	cs.normalize(0)
}

func (cs *CursorSet) normalize(newlyAdded ID) ID {
	if len(cs.order) <= 1 {
		if len(cs.order) == 1 {
			return cs.order[0]
		}
		return 0
	}

	type group struct {
		ids []ID
	}

	sorted := cs.Sorted()
	groups := []group{{ids: []ID{sorted[0].ID}}}
	merged := []Selection{sorted[0].Selection}

	for _, e := range sorted[1:] {
		last := len(merged) - 1
		if e.Selection.Start() <= merged[last].End() {
			merged[last] = mergeRange(merged[last], e.Selection)
			groups[last].ids = append(groups[last].ids, e.ID)
		} else {
			merged = append(merged, e.Selection)
			groups = append(groups, group{ids: []ID{e.ID}})
		}
	}

	survivorFor := func(g group) ID {
		for _, id := range g.ids {
			if id == cs.primary {
				return id
			}
		}
		best := g.ids[0]
		for _, id := range g.ids[1:] {
			if id > best {
				best = id
			}
		}
		return best
	}

	newOrder := make([]ID, 0, len(groups))
	newByID := make(map[ID]Selection, len(groups))
	var result ID

	// Preserve relative insertion order of survivors, not position order.
	survivorSel := make(map[ID]Selection, len(groups))
	survivorSet := make(map[ID]bool, len(groups))
	for i, g := range groups {
		surv := survivorFor(g)
		survivorSel[surv] = withDirectionAndRange(cs.byID[surv], merged[i])
		survivorSet[surv] = true
		for _, id := range g.ids {
			if id == newlyAdded {
				result = surv
			}
		}
	}
	for _, id := range cs.order {
		if survivorSet[id] {
			newOrder = append(newOrder, id)
			newByID[id] = survivorSel[id]
		}
	}

	cs.order = newOrder
	cs.byID = newByID
	if _, ok := cs.byID[cs.primary]; !ok {
		// Primary was merged away into another survivor; that survivor
		// was chosen specifically because it retained the primary's
		// participation, so it becomes the new primary.
		for i, g := range groups {
			for _, id := range g.ids {
				if id == cs.primary {
					cs.primary = survivorFor(g)
					_ = i
				}
			}
		}
	}
	if result == 0 {
		result = cs.primary
	}
	return result
}

// mergeRange returns the union range of two selections as a plain Range,
// direction resolved later by withDirectionAndRange.
func mergeRange(a, b Selection) Selection {
	start := a.Start()
	if b.Start() < start {
		start = b.Start()
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return Selection{Anchor: start, Head: end}
}

// withDirectionAndRange applies dir's forward/backward direction to the
// [start,end) range carried by ranged (ranged.Anchor/Head hold the outer
// min/max from mergeRange, always as Anchor<=Head at this point).
func withDirectionAndRange(dir, ranged Selection) Selection {
	start, end := ranged.Anchor, ranged.Head
	if dir.IsBackward() {
		return Selection{Anchor: end, Head: start}
	}
	return Selection{Anchor: start, Head: end}
}
