package engine

import (
	"testing"
	"time"
)

func typeChars(t *testing.T, e *Engine, s string) {
	t.Helper()
	for _, r := range s {
		offset := e.PrimaryCursor()
		if _, err := e.Insert(offset, string(r)); err != nil {
			t.Fatalf("insert %q: %v", r, err)
		}
	}
}

func TestTypedRunUndoesAsOneGroup(t *testing.T) {
	e := New(WithUndoGroupTimeout(time.Minute))
	typeChars(t, e, "hello")

	if got := e.Text(); got != "hello" {
		t.Fatalf("text = %q", got)
	}
	if n := e.UndoCount(); n != 1 {
		t.Fatalf("undo count = %d, want 1 coalesced entry", n)
	}
	if err := e.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Text(); got != "" {
		t.Errorf("text after undo = %q, want empty", got)
	}
}

func TestEnterBreaksUndoGroup(t *testing.T) {
	e := New(WithUndoGroupTimeout(time.Minute))
	typeChars(t, e, "ab")
	if _, err := e.Insert(e.PrimaryCursor(), "\n"); err != nil {
		t.Fatal(err)
	}
	typeChars(t, e, "cd")

	if n := e.UndoCount(); n != 3 {
		t.Fatalf("undo count = %d, want 3 (run, newline, run)", n)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "ab\n" {
		t.Errorf("text after one undo = %q, want %q", got, "ab\n")
	}
}

func TestPasteDoesNotJoinTypedRun(t *testing.T) {
	e := New(WithUndoGroupTimeout(time.Minute))
	typeChars(t, e, "ab")
	if _, err := e.Insert(e.PrimaryCursor(), "pasted"); err != nil {
		t.Fatal(err)
	}

	if n := e.UndoCount(); n != 2 {
		t.Fatalf("undo count = %d, want 2", n)
	}
}

func TestUndoGroupTimeoutDisabled(t *testing.T) {
	e := New(WithUndoGroupTimeout(0))
	typeChars(t, e, "abc")
	if n := e.UndoCount(); n != 3 {
		t.Errorf("undo count = %d, want 3 with merging disabled", n)
	}
}

func TestNewInsertAfterUndoClearsRedo(t *testing.T) {
	e := New(WithUndoGroupTimeout(0))
	if _, err := e.Insert(0, "foo"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Insert(3, "bar"); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	if _, err := e.Insert(3, "X"); err != nil {
		t.Fatal(err)
	}
	if e.CanRedo() {
		t.Error("a new insert after undo must clear the redo stack")
	}
}

func TestClampToCharBoundary(t *testing.T) {
	e := New(WithContent("aéb")) // é is two bytes at offsets 1-2
	tests := []struct {
		offset ByteOffset
		want   ByteOffset
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // middle of é backs up to its start
		{3, 3},
		{4, 4},
		{99, 4}, // clamps to length
	}
	for _, tt := range tests {
		if got := e.ClampToCharBoundary(tt.offset); got != tt.want {
			t.Errorf("ClampToCharBoundary(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
