package mouse

// dragTracker follows a press-move-release gesture: where it started,
// where it is, and whether it has turned into a selection drag.
type dragTracker struct {
	active    bool
	selecting bool
	button    Button
	startPos  Position
	current   Position
}

func newDragTracker() *dragTracker {
	return &dragTracker{}
}

// start begins a gesture at pos with the given button held.
func (t *dragTracker) start(pos Position, button Button) {
	*t = dragTracker{active: true, button: button, startPos: pos, current: pos}
}

// update moves the gesture's current position.
func (t *dragTracker) update(pos Position) {
	if t.active {
		t.current = pos
	}
}

// end resets the tracker after release.
func (t *dragTracker) end() {
	*t = dragTracker{}
}

func (t *dragTracker) isActive() bool    { return t.active }
func (t *dragTracker) isSelecting() bool { return t.selecting }
func (t *dragTracker) getButton() Button { return t.button }

// startSelection marks the active gesture as extending a selection.
func (t *dragTracker) startSelection() {
	if t.active {
		t.selecting = true
	}
}

func (t *dragTracker) getStartPos() Position   { return t.startPos }
func (t *dragTracker) getCurrentPos() Position { return t.current }

// getDelta returns how far the gesture has moved from its start.
func (t *dragTracker) getDelta() Position {
	return Position{X: t.current.X - t.startPos.X, Y: t.current.Y - t.startPos.Y}
}

// DragState is a copyable snapshot of the gesture for callers outside
// the handler.
type DragState struct {
	Active     bool
	Selecting  bool
	Button     Button
	StartPos   Position
	CurrentPos Position
}

// GetState snapshots the tracker.
func (t *dragTracker) GetState() DragState {
	return DragState{
		Active:     t.active,
		Selecting:  t.selecting,
		Button:     t.button,
		StartPos:   t.startPos,
		CurrentPos: t.current,
	}
}
