package viewport

import "testing"

func testViewport() *Viewport {
	v := NewViewport(80, 24)
	v.SetMaxLine(1000)
	return v
}

func TestNewViewportClampsSize(t *testing.T) {
	v := NewViewport(0, -5)
	if v.Width() != 1 || v.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", v.Width(), v.Height())
	}
}

func TestVisibleLineRange(t *testing.T) {
	v := testViewport()
	start, end := v.VisibleLineRange()
	if start != 0 || end != 23 {
		t.Errorf("range = [%d,%d], want [0,23]", start, end)
	}

	v.ScrollTo(100, false)
	start, end = v.VisibleLineRange()
	if start != 100 || end != 123 {
		t.Errorf("range after scroll = [%d,%d]", start, end)
	}
}

func TestScrollClampsToBuffer(t *testing.T) {
	v := testViewport()
	v.ScrollTo(5000, false)
	if got := v.TopLine(); got != 999 {
		t.Errorf("top = %d, want clamp to 999", got)
	}

	v.ScrollBy(-100000, false)
	if got := v.TopLine(); got != 0 {
		t.Errorf("top after huge negative scroll = %d", got)
	}
}

func TestSetMaxLineReclampsTop(t *testing.T) {
	v := testViewport()
	v.ScrollTo(900, false)
	v.SetMaxLine(100)
	if got := v.TopLine(); got != 99 {
		t.Errorf("top after shrinking buffer = %d, want 99", got)
	}
}

func TestLineRowMapping(t *testing.T) {
	v := testViewport()
	v.ScrollTo(50, false)

	if got := v.LineToScreenRow(55); got != 5 {
		t.Errorf("row for line 55 = %d, want 5", got)
	}
	if got := v.LineToScreenRow(10); got != -1 {
		t.Errorf("off-screen line should map to -1, got %d", got)
	}
	if got := v.ScreenRowToLine(5); got != 55 {
		t.Errorf("line for row 5 = %d, want 55", got)
	}
	if got := v.ScreenRowToLine(-3); got != 50 {
		t.Errorf("negative row = %d, want top line", got)
	}
}

func TestIsLineVisible(t *testing.T) {
	v := testViewport()
	v.ScrollTo(10, false)
	for _, tt := range []struct {
		line uint32
		want bool
	}{{9, false}, {10, true}, {33, true}, {34, false}} {
		if got := v.IsLineVisible(tt.line); got != tt.want {
			t.Errorf("IsLineVisible(%d) = %v", tt.line, got)
		}
	}
}

// The margin invariant: revealing a position leaves at least the margin
// of context around it.
func TestScrollToRevealMargins(t *testing.T) {
	v := testViewport()
	v.SetMargins(3, 3, 5, 5)
	v.ScrollTo(100, false)

	// Below the bottom margin: top moves so three lines show beneath.
	if !v.ScrollToReveal(130, 0, false) {
		t.Fatal("reveal below should scroll")
	}
	if got := v.TopLine(); got != 130+3+1-24 {
		t.Errorf("top = %d, want %d", got, 130+3+1-24)
	}

	// Above the top margin: top moves so three lines show above.
	if !v.ScrollToReveal(50, 0, false) {
		t.Fatal("reveal above should scroll")
	}
	if got := v.TopLine(); got != 47 {
		t.Errorf("top = %d, want 47", got)
	}

	// Already inside the margins: nothing moves.
	if v.ScrollToReveal(55, 0, false) {
		t.Error("reveal of an in-margin position should not scroll")
	}
}

func TestScrollToRevealHorizontal(t *testing.T) {
	v := testViewport()
	v.SetMargins(0, 0, 5, 5)

	if !v.ScrollToReveal(0, 200, false) {
		t.Fatal("far column should scroll")
	}
	if got := v.LeftColumn(); got != 200-80+5 {
		t.Errorf("left = %d, want %d", got, 200-80+5)
	}

	v.ScrollToReveal(0, 2, false)
	if got := v.LeftColumn(); got != 0 {
		t.Errorf("left near origin = %d, want 0", got)
	}
}

func TestEnsureLineVisibleLeavesColumnAlone(t *testing.T) {
	v := testViewport()
	v.SetMargins(2, 2, 5, 5)
	v.ScrollToReveal(0, 300, false)
	left := v.LeftColumn()

	if !v.EnsureLineVisible(500, false) {
		t.Fatal("distant line should scroll")
	}
	if v.LeftColumn() != left {
		t.Error("vertical reveal must not move the horizontal position")
	}
	if v.EnsureLineVisible(v.TopLine()+5, false) {
		t.Error("line inside margins should not scroll")
	}
}

func TestCenterOn(t *testing.T) {
	v := testViewport()
	v.CenterOn(100, false)
	if got := v.TopLine(); got != 88 {
		t.Errorf("top = %d, want 88", got)
	}
	v.CenterOn(3, false)
	if got := v.TopLine(); got != 0 {
		t.Errorf("top when centering near start = %d", got)
	}
}

func TestSmoothScrollAnimation(t *testing.T) {
	v := testViewport()
	v.SetSmoothScroll(true)
	v.ScrollTo(200, true)

	if !v.IsAnimating() {
		t.Fatal("smooth scroll should animate")
	}
	if v.TopLine() != 0 {
		t.Fatal("position should not jump immediately")
	}

	// Drive frames until the animation settles.
	for i := 0; i < 1000 && v.IsAnimating(); i++ {
		v.Update(1.0 / 60)
	}
	if v.IsAnimating() {
		t.Fatal("animation did not converge")
	}
	if got := v.TopLine(); got != 200 {
		t.Errorf("final top = %d, want 200", got)
	}
}

func TestStopAnimation(t *testing.T) {
	v := testViewport()
	v.ScrollTo(500, true)
	v.Update(1.0 / 60)
	v.StopAnimation()

	top := v.TopLine()
	if v.Update(1.0 / 60) {
		t.Error("stopped animation should not move")
	}
	if v.TopLine() != top {
		t.Error("position changed after stop")
	}
}

func TestImmediateScrollCancelsAnimation(t *testing.T) {
	v := testViewport()
	v.ScrollTo(500, true)
	v.ScrollTo(10, false)
	if v.IsAnimating() {
		t.Error("hard scroll should cancel the animation")
	}
	if got := v.TopLine(); got != 10 {
		t.Errorf("top = %d, want 10", got)
	}
}
