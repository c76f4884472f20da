package history

import (
	"time"

	"github.com/radiorambo/fresh/internal/engine/buffer"
	"github.com/radiorambo/fresh/internal/engine/cursor"
	"github.com/radiorambo/fresh/internal/engine/event"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Operation represents a single undoable edit.
// It captures all information needed to undo or redo the edit.
type Operation struct {
	// Edit data
	Range   Range  // Range that was modified (in original document)
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)

	// Cursor state for restore
	CursorsBefore []Selection // Cursor positions before the edit
	CursorsAfter  []Selection // Cursor positions after the edit

	// CursorID attributes the edit to the cursor that produced it, so it
	// round-trips through event.Insert/event.Delete. Zero means the
	// producing command didn't track per-cursor identity.
	CursorID event.CursorID

	// Metadata
	Timestamp time.Time // When the operation occurred
}

// NewOperation creates a new operation.
func NewOperation(r Range, oldText, newText string) *Operation {
	return &Operation{
		Range:     r,
		OldText:   oldText,
		NewText:   newText,
		Timestamp: time.Now(),
	}
}

// NewInsertOperation creates an operation for an insertion.
func NewInsertOperation(offset ByteOffset, text string) *Operation {
	return &Operation{
		Range:     Range{Start: offset, End: offset},
		OldText:   "",
		NewText:   text,
		Timestamp: time.Now(),
	}
}

// NewDeleteOperation creates an operation for a deletion.
func NewDeleteOperation(r Range, deletedText string) *Operation {
	return &Operation{
		Range:     r,
		OldText:   deletedText,
		NewText:   "",
		Timestamp: time.Now(),
	}
}

// WithCursorID attributes the operation to a cursor and returns it for
// chaining.
func (op *Operation) WithCursorID(id event.CursorID) *Operation {
	op.CursorID = id
	return op
}

// NewReplaceOperation creates an operation for a replacement.
func NewReplaceOperation(r Range, oldText, newText string) *Operation {
	return &Operation{
		Range:     r,
		OldText:   oldText,
		NewText:   newText,
		Timestamp: time.Now(),
	}
}

// IsInsert returns true if this operation is a pure insertion.
func (op *Operation) IsInsert() bool {
	return op.Range.IsEmpty() && len(op.NewText) > 0
}

// IsDelete returns true if this operation is a pure deletion.
func (op *Operation) IsDelete() bool {
	return !op.Range.IsEmpty() && len(op.NewText) == 0
}

// IsReplace returns true if this operation replaces text.
func (op *Operation) IsReplace() bool {
	return !op.Range.IsEmpty() && len(op.NewText) > 0
}

// IsNoop returns true if this operation makes no changes.
func (op *Operation) IsNoop() bool {
	return op.Range.IsEmpty() && len(op.NewText) == 0
}

// BytesDelta returns the change in document length.
func (op *Operation) BytesDelta() int {
	return len(op.NewText) - int(op.Range.End-op.Range.Start)
}

// NewRange returns the range of the text after the operation.
func (op *Operation) NewRange() Range {
	return Range{
		Start: op.Range.Start,
		End:   op.Range.Start + ByteOffset(len(op.NewText)),
	}
}

// Invert returns an operation that undoes this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Range:         op.NewRange(),
		OldText:       op.NewText,
		NewText:       op.OldText,
		CursorsBefore: op.CursorsAfter,
		CursorsAfter:  op.CursorsBefore,
		CursorID:      op.CursorID,
		Timestamp:     time.Now(),
	}
}

// WithCursors sets the cursor state and returns the operation for chaining.
func (op *Operation) WithCursors(before, after []Selection) *Operation {
	op.CursorsBefore = before
	op.CursorsAfter = after
	return op
}

// Clone creates a deep copy of the operation.
func (op *Operation) Clone() *Operation {
	clone := &Operation{
		Range:     op.Range,
		OldText:   op.OldText,
		NewText:   op.NewText,
		CursorID:  op.CursorID,
		Timestamp: op.Timestamp,
	}

	if op.CursorsBefore != nil {
		clone.CursorsBefore = make([]Selection, len(op.CursorsBefore))
		copy(clone.CursorsBefore, op.CursorsBefore)
	}

	if op.CursorsAfter != nil {
		clone.CursorsAfter = make([]Selection, len(op.CursorsAfter))
		copy(clone.CursorsAfter, op.CursorsAfter)
	}

	return clone
}

// OperationInfo provides read-only info about an operation.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the operation occurred
	BytesDelta  int       // Positive for insertions, negative for deletions
}

// OperationList is a collection of operations that can be applied together.
type OperationList []*Operation

// Invert returns a list of inverse operations in reverse order.
func (ops OperationList) Invert() OperationList {
	result := make(OperationList, len(ops))
	for i, op := range ops {
		result[len(ops)-1-i] = op.Invert()
	}
	return result
}

// TotalBytesDelta returns the total change in document length.
func (ops OperationList) TotalBytesDelta() int {
	total := 0
	for _, op := range ops {
		total += op.BytesDelta()
	}
	return total
}

// FromEvent builds an Operation from the Event union's text-mutating
// members. Insert and Delete are the only members that describe a buffer
// edit; every other member (cursor movement, scroll, overlay, popup)
// reports ok=false since it has no undoable text effect here.
func FromEvent(ev event.Event) (op *Operation, ok bool) {
	switch e := ev.(type) {
	case event.Insert:
		return &Operation{
			Range:     Range{Start: e.Position, End: e.Position},
			NewText:   e.Text,
			CursorID:  e.CursorID,
			Timestamp: time.Now(),
		}, true
	case event.Delete:
		return &Operation{
			Range:     e.Range,
			OldText:   e.DeletedText,
			CursorID:  e.CursorID,
			Timestamp: time.Now(),
		}, true
	default:
		return nil, false
	}
}

// ToEvent converts a pure insert or pure delete operation back into its
// Event union member. A mixed replace (both OldText and NewText non-empty)
// has no single union member, so the caller should split it into a
// Delete followed by an Insert instead; ToEvent reports ok=false for that
// case rather than lossily collapsing it.
func (op *Operation) ToEvent() (event.Event, bool) {
	switch {
	case op.IsInsert():
		return event.Insert{Position: op.Range.Start, Text: op.NewText, CursorID: op.CursorID}, true
	case op.IsDelete():
		return event.Delete{Range: op.Range, DeletedText: op.OldText, CursorID: op.CursorID}, true
	default:
		return nil, false
	}
}

// Events converts each operation to its Event union member where possible,
// splitting a mixed replace into its Delete then Insert pair so a single
// Operation can still be fully represented.
func (op *Operation) Events() []event.Event {
	if ev, ok := op.ToEvent(); ok {
		return []event.Event{ev}
	}
	if !op.IsReplace() {
		return nil
	}
	return []event.Event{
		event.Delete{Range: op.Range, DeletedText: op.OldText, CursorID: op.CursorID},
		event.Insert{Position: op.Range.Start, Text: op.NewText, CursorID: op.CursorID},
	}
}

// Events flattens every operation's Events in order.
func (ops OperationList) Events() []event.Event {
	var out []event.Event
	for _, op := range ops {
		out = append(out, op.Events()...)
	}
	return out
}
