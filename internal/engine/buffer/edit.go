package buffer

import "fmt"

// Edit replaces a byte range with new text. An empty range is an
// insert; empty text is a delete.
type Edit struct {
	Range   Range
	NewText string
}

// String renders the edit for debugging.
func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	case e.NewText == "":
		return fmt.Sprintf("Delete%s", e.Range)
	default:
		return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
	}
}

// IsInsert reports a pure insertion.
func (e Edit) IsInsert() bool { return e.Range.IsEmpty() && e.NewText != "" }

// IsDelete reports a pure deletion.
func (e Edit) IsDelete() bool { return !e.Range.IsEmpty() && e.NewText == "" }

// IsReplace reports a replacement of existing text.
func (e Edit) IsReplace() bool { return !e.Range.IsEmpty() && e.NewText != "" }

// IsNoOp reports an edit that changes nothing.
func (e Edit) IsNoOp() bool { return e.Range.IsEmpty() && e.NewText == "" }

// Delta returns how the edit changes the buffer length.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// EditResult describes an applied edit: the range it replaced, the
// range the new text occupies, and the removed text (which is what
// makes the edit invertible).
type EditResult struct {
	OldRange Range
	NewRange Range
	OldText  string
	Delta    int64
}
