// Package event defines the tagged union of mutations that can be applied
// to buffer state. Every state change flows through one of these types:
// the buffer state's apply method is a deterministic function from
// (state, Event) to state, and the event log records them so undo can
// replay inverses instead of snapshotting.
package event

import (
	"fmt"

	"github.com/radiorambo/fresh/internal/engine/cursor"
)

// CursorID names the cursor an event is attributed to.
type CursorID = cursor.ID

// ByteOffset is an absolute byte position in a buffer.
type ByteOffset = cursor.ByteOffset

// Range is a half-open byte range [Start, End).
type Range = cursor.Range

// OverlayID identifies an overlay. IDs beginning with the reserved prefix
// "lsp-diagnostic-" belong to the diagnostic engine and are cleared as a
// group whenever a fresh diagnostic set is applied.
type OverlayID string

// DiagnosticPrefix is the reserved overlay id prefix owned by the
// diagnostic engine.
const DiagnosticPrefix = "lsp-diagnostic-"

// Face is the visual treatment of an overlay: either a background color
// or an underline style, never both populated in typical use, but both
// fields are free-form so the renderer's color/style packages can supply
// whatever its theme resolves to.
type Face struct {
	Background string
	Underline  string
}

// Popup is the content of a shown popup (hover text, signature help, a
// small menu). Its shape is intentionally minimal; the renderer owns
// layout, this just carries what to display and where.
type Popup struct {
	Anchor  ByteOffset
	Lines   []string
	Kind    string
}

// Event is the tagged union of buffer mutations. Concrete types below
// implement it; Buffer State's Apply uses a type switch over these, and
// Event Log computes inverses for undo from them.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Insert adds text at position, attributed to cursor_id.
type Insert struct {
	Position ByteOffset
	Text     string
	CursorID CursorID
}

func (Insert) isEvent() {}
func (e Insert) String() string {
	return fmt.Sprintf("Insert{pos:%d text:%q cursor:%d}", e.Position, e.Text, e.CursorID)
}

// Delete removes Range, attributed to cursor_id. DeletedText is always
// populated with the exact removed bytes so Invert can reconstruct the
// Insert that undoes it.
type Delete struct {
	Range       Range
	DeletedText string
	CursorID    CursorID
}

func (Delete) isEvent() {}
func (e Delete) String() string {
	return fmt.Sprintf("Delete{range:%v text:%q cursor:%d}", e.Range, e.DeletedText, e.CursorID)
}

// MoveCursor repositions an existing cursor. A nil Anchor clears any
// selection; a non-nil Anchor sets one.
type MoveCursor struct {
	CursorID CursorID
	Position ByteOffset
	Anchor   *ByteOffset
}

func (MoveCursor) isEvent() {}
func (e MoveCursor) String() string {
	if e.Anchor == nil {
		return fmt.Sprintf("MoveCursor{id:%d pos:%d}", e.CursorID, e.Position)
	}
	return fmt.Sprintf("MoveCursor{id:%d pos:%d anchor:%d}", e.CursorID, e.Position, *e.Anchor)
}

// AddCursor introduces a new cursor. CursorID is the id the caller
// allocated for it (from cursor.CursorSet.Add) before emitting the event,
// so the event log and the state transition agree on identity.
type AddCursor struct {
	CursorID CursorID
	Position ByteOffset
	Anchor   *ByteOffset
}

func (AddCursor) isEvent() {}
func (e AddCursor) String() string {
	return fmt.Sprintf("AddCursor{id:%d pos:%d}", e.CursorID, e.Position)
}

// RemoveCursor deletes a cursor from the set.
type RemoveCursor struct {
	CursorID CursorID
}

func (RemoveCursor) isEvent() {}
func (e RemoveCursor) String() string { return fmt.Sprintf("RemoveCursor{id:%d}", e.CursorID) }

// Scroll adjusts the viewport's top line by a signed line delta.
type Scroll struct {
	LineOffset int
}

func (Scroll) isEvent() {}
func (e Scroll) String() string { return fmt.Sprintf("Scroll{delta:%d}", e.LineOffset) }

// AddOverlay installs or replaces an overlay.
type AddOverlay struct {
	OverlayID OverlayID
	Range     Range
	Face      Face
	Priority  int
	Message   string
}

func (AddOverlay) isEvent() {}
func (e AddOverlay) String() string {
	return fmt.Sprintf("AddOverlay{id:%s range:%v priority:%d}", e.OverlayID, e.Range, e.Priority)
}

// RemoveOverlay removes an overlay by id. No-op if absent.
type RemoveOverlay struct {
	OverlayID OverlayID
}

func (RemoveOverlay) isEvent() {}
func (e RemoveOverlay) String() string { return fmt.Sprintf("RemoveOverlay{id:%s}", e.OverlayID) }

// ShowPopup pushes a popup onto the popup stack.
type ShowPopup struct {
	Popup Popup
}

func (ShowPopup) isEvent() {}
func (e ShowPopup) String() string { return fmt.Sprintf("ShowPopup{kind:%s}", e.Popup.Kind) }

// ClosePopup pops the top popup off the stack, if any.
type ClosePopup struct{}

func (ClosePopup) isEvent() {}
func (ClosePopup) String() string { return "ClosePopup{}" }

// Invert returns the event that undoes e, for the subset of events that
// mutate buffer content or cursor position (the only ones whose undo is
// meaningful: Insert/Delete invert to each other, MoveCursor inverts to
// the cursor's previous position/anchor supplied by the caller since the
// event itself doesn't carry it). Overlay/popup/scroll events are their
// own best-effort inverse at the log level (see history.Group) rather
// than through this function.
func Invert(e Event) (Event, bool) {
	switch v := e.(type) {
	case Insert:
		end := v.Position + ByteOffset(len(v.Text))
		return Delete{
			Range:       Range{Start: v.Position, End: end},
			DeletedText: v.Text,
			CursorID:    v.CursorID,
		}, true
	case Delete:
		return Insert{
			Position: v.Range.Start,
			Text:     v.DeletedText,
			CursorID: v.CursorID,
		}, true
	default:
		return nil, false
	}
}
