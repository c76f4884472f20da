package event

import (
	"errors"
	"testing"
)

func TestHandlerErrorWrapping(t *testing.T) {
	inner := errors.New("db unavailable")
	he := &HandlerError{SubscriptionID: "sub-1", Topic: "a.b", Err: inner}

	if !errors.Is(he, inner) {
		t.Error("HandlerError should unwrap to its cause")
	}
	msg := he.Error()
	for _, want := range []string{"sub-1", "a.b", "db unavailable"} {
		if !containsStr(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestPanicErrorMatchesSentinel(t *testing.T) {
	pe := &PanicError{SubscriptionID: "sub-2", Topic: "x.y", Value: "boom"}

	if !errors.Is(pe, ErrHandlerPanic) {
		t.Error("PanicError should match ErrHandlerPanic")
	}
	if errors.Is(pe, ErrBusNotRunning) {
		t.Error("PanicError should not match unrelated sentinels")
	}
	if !containsStr(pe.Error(), "sub-2") {
		t.Errorf("message = %q", pe.Error())
	}
}

func containsStr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
