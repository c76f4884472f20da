// Package key models keyboard input: keys, modifier sets, events, and
// accumulated sequences. The terminal backend translates raw escape
// codes into these values; the mode state machines consume them.
package key

import "fmt"

// Key identifies a physical key. Character keys all report KeyRune with
// the character in the event's Rune field.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Other special keys
	KeySpace
	KeyPause
	KeyPrintScreen
	KeyScrollLock
	KeyNumLock
	KeyCapsLock

	// Keypad keys
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPAdd
	KeyKPSubtract
	KeyKPMultiply
	KeyKPDivide
	KeyKPDecimal
	KeyKPEnter

	// KeyRune is a character key; the character rides in Event.Rune.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:        "none",
	KeyEscape:      "escape",
	KeyEnter:       "enter",
	KeyTab:         "tab",
	KeyBackspace:   "backspace",
	KeyDelete:      "delete",
	KeyInsert:      "insert",
	KeyHome:        "home",
	KeyEnd:         "end",
	KeyPageUp:      "pageup",
	KeyPageDown:    "pagedown",
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	KeySpace:       "space",
	KeyPause:       "pause",
	KeyPrintScreen: "printscreen",
	KeyScrollLock:  "scrolllock",
	KeyNumLock:     "numlock",
	KeyCapsLock:    "capslock",
	KeyKPAdd:       "kp-add",
	KeyKPSubtract:  "kp-subtract",
	KeyKPMultiply:  "kp-multiply",
	KeyKPDivide:    "kp-divide",
	KeyKPDecimal:   "kp-decimal",
	KeyKPEnter:     "kp-enter",
	KeyRune:        "rune",
}

// String returns the key's lowercase name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.IsFunctionKey() {
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	if k >= KeyKP0 && k <= KeyKP9 {
		return fmt.Sprintf("kp-%d", k-KeyKP0)
	}
	return "unknown"
}

// IsSpecial reports any non-character key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey reports F1 through F12.
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey reports the four arrows.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsNavigationKey reports arrows plus home/end/page keys.
func (k Key) IsNavigationKey() bool {
	return k.IsArrowKey() || (k >= KeyHome && k <= KeyPageDown)
}

// IsKeypadKey reports the numeric keypad.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKP0 && k <= KeyKPEnter
}
