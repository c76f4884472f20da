package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FF0000", ColorRed, false},
		{"00FF00", ColorGreen, false},
		{"#0F0", ColorGreen, false},
		{"#12345", Color{}, true},
		{"#GGHHII", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && !got.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorEquals(t *testing.T) {
	if !ColorDefault.Equals(Color{Default: true}) {
		t.Error("defaults should compare equal")
	}
	if ColorDefault.Equals(ColorRed) {
		t.Error("default should not equal a concrete color")
	}
	if !ColorFromIndex(5).Equals(Color{R: 5, G: 99, B: 99, Indexed: true}) {
		t.Error("palette colors compare by index only")
	}
}

func TestColorLightenDarken(t *testing.T) {
	base := ColorFromRGB(100, 100, 100)

	lighter := base.Lighten(0.5)
	if lighter.R <= base.R {
		t.Errorf("lighten did not brighten: %v", lighter)
	}
	darker := base.Darken(0.5)
	if darker.R >= base.R {
		t.Errorf("darken did not darken: %v", darker)
	}

	// Palette and default colors pass through untouched.
	if got := ColorFromIndex(3).Lighten(0.5); !got.Equals(ColorFromIndex(3)) {
		t.Error("palette color should not change")
	}
	if got := ColorDefault.Darken(0.5); !got.IsDefault() {
		t.Error("default color should not change")
	}
}

func TestColorBlendEndpoints(t *testing.T) {
	a, b := ColorBlack, ColorWhite
	if got := a.Blend(b, 0); !got.Equals(a) {
		t.Errorf("blend(0) = %v", got)
	}
	if got := a.Blend(b, 1); !got.Equals(b) {
		t.Errorf("blend(1) = %v", got)
	}
	mid := a.Blend(b, 0.5)
	if mid.R == 0 || mid.R == 255 {
		t.Errorf("midpoint blend = %v", mid)
	}
	// Indexed endpoints fall back to nearest-side selection.
	if got := ColorFromIndex(1).Blend(b, 0.4); !got.Equals(ColorFromIndex(1)) {
		t.Errorf("indexed blend low = %v", got)
	}
	if got := ColorFromIndex(1).Blend(b, 0.6); !got.Equals(b) {
		t.Errorf("indexed blend high = %v", got)
	}
}

func TestAttributeSet(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrUnderline)
	if !a.Has(AttrBold) || !a.Has(AttrUnderline) || a.Has(AttrDim) {
		t.Errorf("attribute set = %b", a)
	}
	if a.Without(AttrBold).Has(AttrBold) {
		t.Error("Without did not remove the flag")
	}
}

func TestStyleMerge(t *testing.T) {
	base := NewStyle(ColorRed).WithBackground(ColorBlue)
	over := Style{Foreground: ColorGreen, Background: ColorDefault, Attributes: AttrBold}

	merged := base.Merge(over)
	if !merged.Foreground.Equals(ColorGreen) {
		t.Errorf("foreground = %v", merged.Foreground)
	}
	if !merged.Background.Equals(ColorBlue) {
		t.Error("default background in overlay should not replace base")
	}
	if !merged.Attributes.Has(AttrBold) {
		t.Error("attributes should union")
	}
}

func TestStyleInvert(t *testing.T) {
	s := NewStyle(ColorRed).WithBackground(ColorBlue)
	inv := s.Invert()
	if !inv.Foreground.Equals(ColorBlue) || !inv.Background.Equals(ColorRed) {
		t.Errorf("invert = %+v", inv)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{' ', 1},
		{'\t', 0},
		{0x7F, 0},
		{'中', 2},
		{'한', 2},
		{'ｗ', 2}, // fullwidth
		{'é', 1},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestCellsRoundTrip(t *testing.T) {
	cells := CellsFromString("a中b", DefaultStyle())
	// Wide char contributes a continuation cell.
	if len(cells) != 4 {
		t.Fatalf("cell count = %d, want 4", len(cells))
	}
	if !cells[2].IsContinuation() {
		t.Error("expected continuation after the wide cell")
	}
	if got := StringFromCells(cells); got != "a中b" {
		t.Errorf("round trip = %q", got)
	}
}

func TestScreenRect(t *testing.T) {
	r := RectFromSize(2, 3, 4, 10)
	if r.Width() != 10 || r.Height() != 4 {
		t.Fatalf("size = %dx%d", r.Width(), r.Height())
	}
	if !r.Contains(NewScreenPos(2, 3)) || r.Contains(NewScreenPos(6, 3)) {
		t.Error("containment boundaries wrong")
	}

	other := NewScreenRect(4, 8, 10, 20)
	if !r.Intersects(other) {
		t.Fatal("rects should intersect")
	}
	inter := r.Intersection(other)
	if inter.Top != 4 || inter.Left != 8 || inter.Bottom != 6 || inter.Right != 13 {
		t.Errorf("intersection = %+v", inter)
	}

	union := r.Union(other)
	if union.Top != 2 || union.Left != 3 || union.Bottom != 10 || union.Right != 20 {
		t.Errorf("union = %+v", union)
	}

	clamped := r.Clamp(NewScreenPos(100, -5))
	if clamped.Row != 5 || clamped.Col != 3 {
		t.Errorf("clamp = %+v", clamped)
	}
}
