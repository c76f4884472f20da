package key

import "strings"

// Sequence accumulates the keys of an in-flight chord or count prefix.
type Sequence struct {
	events []Event
}

// NewSequence creates an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceFrom creates a sequence holding the given events.
func NewSequenceFrom(events ...Event) *Sequence {
	return &Sequence{events: append([]Event(nil), events...)}
}

// Len returns the number of accumulated keys.
func (s *Sequence) Len() int { return len(s.events) }

// IsEmpty reports an empty sequence.
func (s *Sequence) IsEmpty() bool { return len(s.events) == 0 }

// Add appends one event.
func (s *Sequence) Add(event Event) {
	s.events = append(s.events, event)
}

// Clear empties the sequence.
func (s *Sequence) Clear() {
	s.events = s.events[:0]
}

// Last returns the most recent event, nil when empty.
func (s *Sequence) Last() *Event {
	if len(s.events) == 0 {
		return nil
	}
	return &s.events[len(s.events)-1]
}

// Events returns the accumulated events in order.
func (s *Sequence) Events() []Event {
	return append([]Event(nil), s.events...)
}

// Clone copies the sequence.
func (s *Sequence) Clone() *Sequence {
	return NewSequenceFrom(s.events...)
}

// Equals compares two sequences event by event.
func (s *Sequence) Equals(other *Sequence) bool {
	if other == nil || len(s.events) != len(other.events) {
		return false
	}
	for i := range s.events {
		if !s.events[i].Equals(other.events[i]) {
			return false
		}
	}
	return true
}

// String renders the sequence for the pending-keys display.
func (s *Sequence) String() string {
	parts := make([]string, len(s.events))
	for i, e := range s.events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
