package app

import (
	"errors"
	"testing"
)

func TestInitErrorWrapsCause(t *testing.T) {
	cause := errors.New("no terminal")
	err := &InitError{Component: "backend", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("InitError should unwrap to its cause")
	}
	msg := err.Error()
	if msg == "" || !containsSub(msg, "backend") {
		t.Errorf("message = %q, should name the component", msg)
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	sentinels := []error{
		ErrQuit,
		ErrAlreadyRunning,
		ErrNoActiveDocument,
		ErrUnsavedChanges,
		ErrCannotCloseLast,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %d matches %d", i, j)
			}
		}
	}
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
