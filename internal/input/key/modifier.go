package key

import "strings"

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether mod is held.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

// Per-modifier shorthands.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With returns the set with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns the set with mod removed.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// IsEmpty reports no held modifiers.
func (m Modifier) IsEmpty() bool { return m == ModNone }

// String renders the set as "ctrl+alt"-style text, empty for none.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "alt")
	}
	if m.HasShift() {
		parts = append(parts, "shift")
	}
	if m.HasMeta() {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}
