// Package input defines the editor's action vocabulary and input state.
//
// The input package carries the structured types the rest of the editor
// speaks: Action names an editor operation with its arguments, and
// Context tracks pending input state (counts, registers, operators)
// across keystrokes. Raw terminal events are parsed by the key
// subpackage, resolved into actions by the mode subpackage's modal state
// machines, and mouse gestures are translated by the mouse subpackage.
//
// # Modal Editing
//
// Modes follow the modal-editing convention:
//
//   - Normal mode: Navigation and commands
//   - Insert mode: Text entry
//   - Visual mode: Selection (character, line, or block)
//   - Command-line mode: Ex commands
//   - Operator-pending mode: Awaiting motion/text object
//
// Each mode resolves keys to Action values; the dispatcher executes
// them against buffer state.
package input
