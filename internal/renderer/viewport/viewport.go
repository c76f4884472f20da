// Package viewport tracks which slice of the buffer is on screen.
//
// The viewport is pure integers: a top line, a left column, a size, and
// the scroll margins that keep a minimum number of lines visible above
// and below the cursor. Every mutation clamps against the buffer's line
// count, so a stale viewport can never address past the end.
package viewport

import (
	"math"
	"sync"
)

// Viewport is the visible window over a buffer.
type Viewport struct {
	mu sync.RWMutex

	topLine    uint32
	leftColumn int
	width      int
	height     int

	// Scroll margins: the minimum context kept around the cursor when
	// revealing a position.
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	// maxLine is the buffer's line count; 0 means unknown/unbounded.
	maxLine uint32

	// Smooth-scroll animation toward a target position.
	smoothScroll bool
	animating    bool
	targetTop    uint32
	targetLeft   int
}

// NewViewport creates a viewport of the given size, clamped to at least
// one cell each way.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{
		marginTop:    5,
		marginBottom: 5,
		marginLeft:   10,
		marginRight:  10,
		smoothScroll: true,
	}
	v.setSize(width, height)
	return v
}

func (v *Viewport) setSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height
}

// Width returns the viewport width in columns.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height in rows.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible buffer line.
func (v *Viewport) TopLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible buffer line.
func (v *Viewport) BottomLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() uint32 {
	bottom := v.topLine + uint32(v.height) - 1
	if v.maxLine > 0 && bottom >= v.maxLine {
		bottom = v.maxLine - 1
	}
	return bottom
}

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setSize(width, height)
}

// SetMaxLine records the buffer's line count and clamps the viewport to
// it.
func (v *Viewport) SetMaxLine(maxLine uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxLine = maxLine
	v.topLine = v.clampLine(v.topLine)
	v.targetTop = v.clampLine(v.targetTop)
}

func (v *Viewport) clampLine(line uint32) uint32 {
	if v.maxLine > 0 && line >= v.maxLine {
		return v.maxLine - 1
	}
	return line
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop, v.marginBottom = top, bottom
	v.marginLeft, v.marginRight = left, right
}

// Margins returns the current scroll margins.
func (v *Viewport) Margins() (top, bottom, left, right int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.marginTop, v.marginBottom, v.marginLeft, v.marginRight
}

// SetSmoothScroll toggles animated scrolling.
func (v *Viewport) SetSmoothScroll(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.smoothScroll = enabled
}

// VisibleLineRange returns the inclusive range of visible buffer lines.
func (v *Viewport) VisibleLineRange() (start, end uint32) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// IsLineVisible reports whether the line is currently on screen.
func (v *Viewport) IsLineVisible(line uint32) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToScreenRow maps a buffer line to its screen row, or -1 when the
// line is off screen.
func (v *Viewport) LineToScreenRow(line uint32) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return int(line - v.topLine)
}

// ScreenRowToLine maps a screen row to its buffer line, clamped to the
// buffer.
func (v *Viewport) ScreenRowToLine(row int) uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if row < 0 {
		return v.topLine
	}
	return v.clampLine(v.topLine + uint32(row))
}

// ScrollTo places line at the top of the viewport.
func (v *Viewport) ScrollTo(line uint32, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.moveTo(v.clampLine(line), v.leftColumn, smooth)
}

// ScrollBy moves the top line by a signed delta, clamped at both ends.
func (v *Viewport) ScrollBy(deltaLines int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := int64(v.topLine) + int64(deltaLines)
	if top < 0 {
		top = 0
	}
	v.moveTo(v.clampLine(uint32(top)), v.leftColumn, smooth)
}

// moveTo commits or animates toward a new position. Callers hold the
// lock.
func (v *Viewport) moveTo(top uint32, left int, smooth bool) {
	if left < 0 {
		left = 0
	}
	v.targetTop = top
	v.targetLeft = left
	if smooth && v.smoothScroll {
		v.animating = true
		return
	}
	v.topLine = top
	v.leftColumn = left
	v.animating = false
}

// ScrollToReveal scrolls the minimum needed so the position sits inside
// the margins, and reports whether any scroll was needed. After it
// returns (and any animation settles), at least marginTop lines show
// above the position and marginBottom below, clamped at buffer edges,
// and the column sits inside the horizontal margins.
func (v *Viewport) ScrollToReveal(line uint32, col int, smooth bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := v.topLine
	left := v.leftColumn
	moved := false

	switch {
	case line < v.topLine+uint32(v.marginTop):
		if line >= uint32(v.marginTop) {
			top = line - uint32(v.marginTop)
		} else {
			top = 0
		}
		moved = true
	case line > v.bottomLine()-uint32(v.marginBottom):
		if v.height > v.marginBottom {
			top = line + uint32(v.marginBottom) + 1 - uint32(v.height)
		} else {
			top = line
		}
		moved = true
	}

	screenCol := col - v.leftColumn
	switch {
	case screenCol < v.marginLeft:
		if l := col - v.marginLeft; l > 0 {
			left = l
		} else {
			left = 0
		}
	case screenCol > v.width-v.marginRight:
		left = col - v.width + v.marginRight
	}
	if left != v.leftColumn {
		moved = true
	}

	if moved {
		v.moveTo(v.clampLine(top), left, smooth)
	}
	return moved
}

// EnsureLineVisible scrolls just enough vertically to bring the line
// inside the margins, leaving the horizontal position alone.
func (v *Viewport) EnsureLineVisible(line uint32, smooth bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := v.topLine
	switch {
	case line < v.topLine+uint32(v.marginTop):
		if line >= uint32(v.marginTop) {
			top = line - uint32(v.marginTop)
		} else {
			top = 0
		}
	case line > v.bottomLine()-uint32(v.marginBottom):
		if v.height > v.marginBottom {
			top = line + uint32(v.marginBottom) + 1 - uint32(v.height)
		} else {
			top = line
		}
	default:
		return false
	}

	v.moveTo(v.clampLine(top), v.leftColumn, smooth)
	return true
}

// CenterOn scrolls so the line sits in the middle of the viewport.
func (v *Viewport) CenterOn(line uint32, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	half := uint32(v.height / 2)
	top := uint32(0)
	if line >= half {
		top = line - half
	}
	v.moveTo(v.clampLine(top), v.leftColumn, smooth)
}

// IsAnimating reports whether a smooth scroll is in flight.
func (v *Viewport) IsAnimating() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.animating
}

// StopAnimation pins the viewport at its current position.
func (v *Viewport) StopAnimation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.animating = false
	v.targetTop = v.topLine
	v.targetLeft = v.leftColumn
}

// Update advances the scroll animation by dt seconds, closing a fixed
// fraction of the remaining distance per frame but always at least one
// cell, so every animation terminates. Reports whether the viewport
// moved.
func (v *Viewport) Update(dt float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.animating {
		return false
	}

	factor := 1.0 - math.Pow(0.1, dt*10)
	moved := false

	if v.topLine != v.targetTop {
		v.topLine = stepToward(v.topLine, v.targetTop, factor)
		moved = true
	}
	if v.leftColumn != v.targetLeft {
		diff := float64(v.targetLeft - v.leftColumn)
		step := diff * factor
		if math.Abs(step) < 1 {
			step = math.Copysign(1, diff)
		}
		if math.Abs(step) >= math.Abs(diff) {
			v.leftColumn = v.targetLeft
		} else {
			v.leftColumn += int(step)
		}
		moved = true
	}

	if v.topLine == v.targetTop && v.leftColumn == v.targetLeft {
		v.animating = false
	}
	return moved
}

// stepToward moves cur a fraction of the way to target, at least one
// line, without overshooting.
func stepToward(cur, target uint32, factor float64) uint32 {
	diff := float64(int64(target) - int64(cur))
	step := diff * factor
	if math.Abs(step) < 1 {
		step = math.Copysign(1, diff)
	}
	if math.Abs(step) >= math.Abs(diff) {
		return target
	}
	return uint32(int64(cur) + int64(step))
}
