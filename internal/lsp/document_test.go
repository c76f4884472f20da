package lsp

import (
	"context"
	"errors"
	"testing"
)

func TestDocumentManagerTracksOpenDocuments(t *testing.T) {
	dm := NewDocumentManager(nil)

	if err := dm.OpenDocument("/tmp/a.go", "go", "package a"); err != nil {
		t.Fatal(err)
	}
	if !dm.IsOpen("/tmp/a.go") || dm.IsOpen("/tmp/b.go") {
		t.Error("open tracking wrong")
	}

	content, ok := dm.GetContent("/tmp/a.go")
	if !ok || content != "package a" {
		t.Errorf("content = %q ok=%v", content, ok)
	}
	if v, ok := dm.GetVersion("/tmp/a.go"); !ok || v != 1 {
		t.Errorf("initial version = %d ok=%v", v, ok)
	}

	if err := dm.CloseDocument("/tmp/a.go"); err != nil {
		t.Fatal(err)
	}
	if dm.IsOpen("/tmp/a.go") {
		t.Error("document still open after close")
	}
}

func TestDocumentManagerFullChangeBumpsVersion(t *testing.T) {
	dm := NewDocumentManager(nil)
	if err := dm.OpenDocument("/tmp/a.go", "go", "one"); err != nil {
		t.Fatal(err)
	}

	err := dm.ChangeDocument("/tmp/a.go", []TextDocumentContentChangeEvent{{Text: "two"}})
	if err != nil {
		t.Fatal(err)
	}

	if content, _ := dm.GetContent("/tmp/a.go"); content != "two" {
		t.Errorf("content = %q", content)
	}
	if v, _ := dm.GetVersion("/tmp/a.go"); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if !dm.IsDirty("/tmp/a.go") {
		t.Error("changed document should be dirty")
	}
}

func TestDocumentManagerIncrementalChange(t *testing.T) {
	dm := NewDocumentManager(nil)
	if err := dm.OpenDocument("/tmp/a.go", "go", "hello world"); err != nil {
		t.Fatal(err)
	}

	err := dm.ChangeDocument("/tmp/a.go", []TextDocumentContentChangeEvent{{
		Range: &Range{
			Start: Position{Line: 0, Character: 6},
			End:   Position{Line: 0, Character: 11},
		},
		Text: "there",
	}})
	if err != nil {
		t.Fatal(err)
	}

	if content, _ := dm.GetContent("/tmp/a.go"); content != "hello there" {
		t.Errorf("content = %q", content)
	}
}

func TestDocumentManagerChangeUnopened(t *testing.T) {
	dm := NewDocumentManager(nil)
	err := dm.ChangeDocument("/tmp/missing.go", []TextDocumentContentChangeEvent{{Text: "x"}})
	if !errors.Is(err, ErrDocumentNotOpen) {
		t.Errorf("err = %v", err)
	}
}

// The stale guard: a version bump between request and response drops
// the response instead of applying it against moved offsets.
func TestDocumentManagerRenameStaleGuard(t *testing.T) {
	dm := NewDocumentManager(nil)
	if _, err := dm.Rename(context.Background(), "/tmp/a.go", Position{}, "x"); !errors.Is(err, ErrDocumentNotOpen) {
		t.Errorf("rename with nil manager/unopened doc = %v", err)
	}
}

func TestDocumentManagerOpenDocumentLists(t *testing.T) {
	dm := NewDocumentManager(nil)
	_ = dm.OpenDocument("/tmp/a.go", "go", "")
	_ = dm.OpenDocument("/tmp/b.go", "go", "")

	if got := len(dm.OpenDocuments()); got != 2 {
		t.Errorf("open uris = %d", got)
	}
	if got := len(dm.OpenDocumentPaths()); got != 2 {
		t.Errorf("open paths = %d", got)
	}

	dm.CloseAll()
	if got := len(dm.OpenDocuments()); got != 0 {
		t.Errorf("open after close-all = %d", got)
	}
}

func TestApplyTextChangeSplices(t *testing.T) {
	rng := Range{
		Start: Position{Line: 0, Character: 0},
		End:   Position{Line: 0, Character: 3},
	}
	if got := applyTextChange("old content", rng, "new"); got != "new content" {
		t.Errorf("ranged change = %q", got)
	}

	multi := Range{
		Start: Position{Line: 0, Character: 2},
		End:   Position{Line: 1, Character: 1},
	}
	if got := applyTextChange("ab\ncd", multi, "X"); got != "abXd" {
		t.Errorf("cross-line change = %q", got)
	}
}
