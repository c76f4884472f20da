package key

import "testing"

func TestKeyNames(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyEscape, "escape"},
		{KeyEnter, "enter"},
		{KeyF1, "f1"},
		{KeyF12, "f12"},
		{KeyKP7, "kp-7"},
		{KeyKPEnter, "kp-enter"},
		{KeyRune, "rune"},
		{Key(999), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestKeyCategories(t *testing.T) {
	if !KeyF5.IsFunctionKey() || KeyEnter.IsFunctionKey() {
		t.Error("function key range wrong")
	}
	if !KeyLeft.IsArrowKey() || KeyHome.IsArrowKey() {
		t.Error("arrow key range wrong")
	}
	if !KeyPageDown.IsNavigationKey() || !KeyUp.IsNavigationKey() || KeyTab.IsNavigationKey() {
		t.Error("navigation key range wrong")
	}
	if !KeyKP5.IsKeypadKey() || KeyF1.IsKeypadKey() {
		t.Error("keypad range wrong")
	}
	if !KeyEscape.IsSpecial() || KeyRune.IsSpecial() || KeyNone.IsSpecial() {
		t.Error("special classification wrong")
	}
}

func TestModifierSet(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModShift)
	if !m.HasCtrl() || !m.HasShift() || m.HasAlt() {
		t.Errorf("set = %b", m)
	}
	if m.Without(ModCtrl).HasCtrl() {
		t.Error("Without failed")
	}
	if !ModNone.IsEmpty() || m.IsEmpty() {
		t.Error("emptiness wrong")
	}
	if got := m.String(); got != "ctrl+shift" {
		t.Errorf("string = %q", got)
	}
	if got := ModNone.String(); got != "" {
		t.Errorf("empty string = %q", got)
	}
}

func TestEventPredicates(t *testing.T) {
	ch := NewRuneEvent('a', ModNone)
	if !ch.IsRune() || !ch.IsChar() || ch.IsModified() || ch.IsSpecial() {
		t.Error("plain rune classification wrong")
	}

	shifted := NewRuneEvent('A', ModShift)
	if !shifted.IsChar() || shifted.IsModified() {
		t.Error("shift should not count as a chord modifier")
	}

	chord := NewRuneEvent('s', ModCtrl)
	if chord.IsChar() || !chord.IsModified() {
		t.Error("ctrl chord classification wrong")
	}

	esc := NewSpecialEvent(KeyEscape, ModNone)
	if !esc.IsEscape() || !esc.IsSpecial() || esc.IsRune() {
		t.Error("escape classification wrong")
	}
	if !NewSpecialEvent(KeyEnter, ModNone).IsEnter() {
		t.Error("enter predicate wrong")
	}
	if !NewSpecialEvent(KeyTab, ModNone).IsTab() {
		t.Error("tab predicate wrong")
	}
	if !NewSpecialEvent(KeyBackspace, ModNone).IsBackspace() {
		t.Error("backspace predicate wrong")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('x', ModNone), "x"},
		{NewRuneEvent('s', ModCtrl), "ctrl+s"},
		{NewSpecialEvent(KeyEscape, ModNone), "escape"},
		{NewSpecialEvent(KeyEnter, ModAlt), "alt+enter"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("event string = %q, want %q", got, tt.want)
		}
	}
}

func TestEventEqualsIgnoresTimestamp(t *testing.T) {
	a := NewRuneEvent('q', ModCtrl)
	b := NewRuneEvent('q', ModCtrl)
	if !a.Equals(b) {
		t.Error("equal events should compare equal despite timestamps")
	}
	if a.Equals(NewRuneEvent('q', ModNone)) {
		t.Error("different modifiers should not compare equal")
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence()
	if !s.IsEmpty() {
		t.Fatal("new sequence should be empty")
	}

	s.Add(NewRuneEvent('g', ModNone))
	s.Add(NewRuneEvent('g', ModNone))
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
	if got := s.String(); got != "g g" {
		t.Errorf("string = %q", got)
	}
	if s.Last() == nil || s.Last().Rune != 'g' {
		t.Error("last wrong")
	}

	clone := s.Clone()
	s.Add(NewRuneEvent('x', ModNone))
	if clone.Len() != 2 {
		t.Error("clone should not share growth")
	}
	if s.Equals(clone) {
		t.Error("diverged sequences should not be equal")
	}
	if !clone.Equals(NewSequenceFrom(NewRuneEvent('g', ModNone), NewRuneEvent('g', ModNone))) {
		t.Error("equal sequences should compare equal")
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("clear failed")
	}
}
