package key

import (
	"fmt"
	"time"
)

// Event is one key press: the key, its character when printable, and
// the held modifiers.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewEvent creates an event, stamping it with the current time.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{Key: key, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewRuneEvent creates a character-key event.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates a non-character event.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return NewEvent(key, 0, mods)
}

// IsRune reports a character key.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports a plain printable character: a rune with at most
// shift held (shift is already folded into the rune's case).
func (e Event) IsChar() bool {
	return e.IsRune() && e.Modifiers.Without(ModShift).IsEmpty()
}

// IsModified reports any held modifier beyond shift.
func (e Event) IsModified() bool {
	return !e.Modifiers.Without(ModShift).IsEmpty()
}

// IsSpecial reports a non-character key.
func (e Event) IsSpecial() bool {
	return e.Key.IsSpecial()
}

// Common single-key predicates.
func (e Event) IsEscape() bool    { return e.Key == KeyEscape }
func (e Event) IsEnter() bool     { return e.Key == KeyEnter }
func (e Event) IsBackspace() bool { return e.Key == KeyBackspace }
func (e Event) IsTab() bool       { return e.Key == KeyTab }

// Equals compares key, rune, and modifiers, ignoring the timestamp.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String renders the event for logs and the pending-keys display:
// "a", "ctrl+s", "escape", "alt+enter".
func (e Event) String() string {
	var name string
	if e.IsRune() {
		name = string(e.Rune)
	} else {
		name = e.Key.String()
	}
	if mods := e.Modifiers.String(); mods != "" {
		return fmt.Sprintf("%s+%s", mods, name)
	}
	return name
}
