package app

import (
	"errors"
	"testing"
)

func TestCloseDocument_CannotCloseLast(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	doc := app.documents.CreateScratch()
	app.documents.SetActive(doc)

	if got := app.documents.Count(); got != 1 {
		t.Fatalf("expected 1 document, got %d", got)
	}

	if err := app.CloseDocument(doc, true); !errors.Is(err, ErrCannotCloseLast) {
		t.Fatalf("expected ErrCannotCloseLast, got %v", err)
	}
	if app.documents.Count() != 1 {
		t.Fatal("document should not have been removed")
	}
}

func TestCloseDocument_AllowsCloseWhenMultiple(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	first := app.documents.CreateScratch()
	second := app.documents.CreateScratch()

	if got := app.documents.Count(); got != 2 {
		t.Fatalf("expected 2 documents, got %d", got)
	}

	if err := app.CloseDocument(first, true); err != nil {
		t.Fatalf("CloseDocument() failed: %v", err)
	}
	if app.documents.Count() != 1 {
		t.Fatalf("expected 1 document remaining, got %d", app.documents.Count())
	}
	_ = second
}
