package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/radiorambo/fresh/internal/lsp"
)

func renameEdit(line, startChar, endChar int, newText string) lsp.TextEdit {
	return lsp.TextEdit{
		Range: lsp.Range{
			Start: lsp.Position{Line: line, Character: startChar},
			End:   lsp.Position{Line: line, Character: endChar},
		},
		NewText: newText,
	}
}

func TestResolveEditsDescendingOrder(t *testing.T) {
	content := "foo bar foo"
	edits := []lsp.TextEdit{
		renameEdit(0, 0, 3, "qux"),
		renameEdit(0, 8, 11, "qux"),
	}
	resolved := resolveEdits(content, edits)
	if len(resolved) != 2 {
		t.Fatalf("got %d edits", len(resolved))
	}
	if resolved[0].start != 8 || resolved[1].start != 0 {
		t.Errorf("order = [%d, %d], want descending [8, 0]", resolved[0].start, resolved[1].start)
	}
}

func TestApplyResidentEditsDescending(t *testing.T) {
	app := &Application{documents: NewDocumentManager()}
	doc := NewDocument("", []byte("foo bar foo"))

	// Ascending input order must not corrupt the second edit's offsets.
	edits := []lsp.TextEdit{
		renameEdit(0, 0, 3, "quux"),
		renameEdit(0, 8, 11, "quux"),
	}
	n, err := app.applyResidentEdits(doc, edits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d edits, want 2", n)
	}
	if got := doc.Content(); got != "quux bar quux" {
		t.Errorf("content = %q, want %q", got, "quux bar quux")
	}
	if !doc.IsModified() {
		t.Error("document should be marked modified")
	}

	// The whole rename undoes as one group.
	if err := doc.Engine.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := doc.Content(); got != "foo bar foo" {
		t.Errorf("content after undo = %q", got)
	}
}

func TestApplyDiskEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("alpha beta alpha"), 0644); err != nil {
		t.Fatal(err)
	}

	edits := []lsp.TextEdit{
		renameEdit(0, 0, 5, "gamma"),
		renameEdit(0, 11, 16, "gamma"),
	}
	n, err := applyDiskEdits(path, edits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("applied %d edits", n)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "gamma beta gamma" {
		t.Errorf("content = %q", got)
	}
}

func TestCollectWorkspaceEditsBothShapes(t *testing.T) {
	uri := lsp.FilePathToURI("/tmp/a.go")
	edit := &lsp.WorkspaceEdit{
		Changes: map[lsp.DocumentURI][]lsp.TextEdit{
			uri: {renameEdit(0, 0, 1, "x")},
		},
		DocumentChanges: []any{
			map[string]any{
				"textDocument": map[string]any{"uri": string(lsp.FilePathToURI("/tmp/b.go")), "version": 3},
				"edits": []any{
					map[string]any{
						"range": map[string]any{
							"start": map[string]any{"line": 0, "character": 0},
							"end":   map[string]any{"line": 0, "character": 2},
						},
						"newText": "y",
					},
				},
			},
			// File operations (create/rename/delete) are skipped.
			map[string]any{"kind": "create", "uri": "file:///tmp/c.go"},
		},
	}

	perFile := collectWorkspaceEdits(edit)
	if len(perFile) != 2 {
		t.Fatalf("got %d files: %v", len(perFile), perFile)
	}
	if len(perFile[lsp.URIToFilePath(uri)]) != 1 {
		t.Error("map-shaped edit missing")
	}
	bPath := lsp.URIToFilePath(lsp.FilePathToURI("/tmp/b.go"))
	bEdits := perFile[bPath]
	if len(bEdits) != 1 || bEdits[0].NewText != "y" {
		t.Errorf("documentChanges edit = %v", bEdits)
	}
}

func TestDecodeTextDocumentEditRejectsFileOps(t *testing.T) {
	if _, ok := lsp.DecodeTextDocumentEdit(map[string]any{"kind": "rename"}); ok {
		t.Error("file operation should not decode as a text document edit")
	}
	if _, ok := lsp.DecodeTextDocumentEdit(42); ok {
		t.Error("non-map value should not decode")
	}
}
