// Package mode implements the "mode" action namespace: switching
// between the modal editing states and the transitions that carry
// pending state (counts, registers) across them.
package mode
