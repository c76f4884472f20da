package engine

import "errors"

var (
	// ErrOffsetOutOfRange reports an offset past the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid reports end before start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrEditsOverlap reports a batch whose edits overlap or are not in
	// descending order.
	ErrEditsOverlap = errors.New("edits overlap or are not in reverse order")

	// ErrNothingToUndo reports an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo reports an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrSnapshotNotFound reports an unknown snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrRevisionNotFound reports an unknown revision.
	ErrRevisionNotFound = errors.New("revision not found")

	// ErrReadOnly reports a mutation on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
