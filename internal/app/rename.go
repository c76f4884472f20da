package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/radiorambo/fresh/internal/lsp"
)

// workspaceTextEdit is one edit resolved to byte offsets against the
// content it was computed for.
type workspaceTextEdit struct {
	start   int
	end     int
	newText string
}

// RenameSymbol renames the symbol under the active document's primary
// cursor. The request is version-guarded: if the buffer is edited while
// the server is working, the response is dropped and a status message
// says so instead of applying edits against superseded offsets.
func (app *Application) RenameSymbol(ctx context.Context, newName string) error {
	doc := app.documents.Active()
	if doc == nil || doc.IsScratch() {
		return nil
	}
	if app.lspDocs == nil {
		app.RecordStatus("rename: language server unavailable")
		return nil
	}

	content := doc.Content()
	offset := int(doc.Engine.PrimaryCursor())
	pos := lsp.ByteOffsetToLSPPosition(content, offset)

	edit, err := app.lspDocs.Rename(ctx, doc.Path, pos, newName)
	if err != nil {
		if errors.Is(err, lsp.ErrStaleResponse) {
			app.RecordStatus("content modified, rename canceled")
			return nil
		}
		app.RecordStatus("rename failed: " + err.Error())
		return err
	}
	if edit == nil {
		app.RecordStatus("rename: no edits returned")
		return nil
	}

	return app.ApplyWorkspaceEdit(edit)
}

// ApplyWorkspaceEdit applies a server-provided workspace edit. Both wire
// representations are handled: the uri-to-edits map and the versioned
// documentChanges sequence. Within each document, edits apply in
// descending start-offset order so earlier offsets stay valid while
// later ones are rewritten. Documents open in the editor are edited
// through their engine as one undo group; files not resident are patched
// on disk.
func (app *Application) ApplyWorkspaceEdit(edit *lsp.WorkspaceEdit) error {
	perFile := collectWorkspaceEdits(edit)
	if len(perFile) == 0 {
		app.RecordStatus("rename: nothing to change")
		return nil
	}

	files := 0
	edits := 0
	var firstErr error
	for path, textEdits := range perFile {
		n, err := app.applyDocumentEdits(path, textEdits)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			app.RecordStatus("rename: " + err.Error())
			continue
		}
		if n > 0 {
			files++
			edits += n
		}
	}

	if firstErr == nil && edits > 0 {
		app.RecordStatus(fmt.Sprintf("renamed %d occurrence(s) in %d file(s)", edits, files))
	}
	return firstErr
}

// applyDocumentEdits applies one document's edits, resident or on disk,
// and returns how many were applied.
func (app *Application) applyDocumentEdits(path string, textEdits []lsp.TextEdit) (int, error) {
	if len(textEdits) == 0 {
		return 0, nil
	}

	if doc, open := app.documents.Get(path); open {
		return app.applyResidentEdits(doc, textEdits)
	}
	return applyDiskEdits(path, textEdits)
}

// applyResidentEdits routes edits through the document's engine so they
// participate in undo and cursor adjustment.
func (app *Application) applyResidentEdits(doc *Document, textEdits []lsp.TextEdit) (int, error) {
	content := doc.Content()
	resolved := resolveEdits(content, textEdits)

	doc.Engine.BeginUndoGroup("rename")
	defer doc.Engine.EndUndoGroup()

	for _, e := range resolved {
		if _, err := doc.Engine.Replace(int64(e.start), int64(e.end), e.newText); err != nil {
			return 0, err
		}
	}
	doc.SetModified(true)
	doc.IncrementVersion()
	return len(resolved), nil
}

// applyDiskEdits patches a file that is not open as a buffer.
func applyDiskEdits(path string, textEdits []lsp.TextEdit) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(raw)

	for _, e := range resolveEdits(content, textEdits) {
		if e.start < 0 || e.end > len(content) || e.start > e.end {
			continue
		}
		content = content[:e.start] + e.newText + content[e.end:]
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return 0, err
	}
	return len(textEdits), nil
}

// resolveEdits converts every edit's position range to byte offsets
// against the original content, then orders them by descending start so
// application never shifts a not-yet-applied edit.
func resolveEdits(content string, textEdits []lsp.TextEdit) []workspaceTextEdit {
	resolved := make([]workspaceTextEdit, 0, len(textEdits))
	for _, te := range textEdits {
		resolved = append(resolved, workspaceTextEdit{
			start:   lsp.LSPPositionToByteOffset(content, te.Range.Start),
			end:     lsp.LSPPositionToByteOffset(content, te.Range.End),
			newText: te.NewText,
		})
	}
	sort.Slice(resolved, func(a, b int) bool {
		return resolved[a].start > resolved[b].start
	})
	return resolved
}

// collectWorkspaceEdits flattens both WorkspaceEdit representations into
// one path-keyed map.
func collectWorkspaceEdits(edit *lsp.WorkspaceEdit) map[string][]lsp.TextEdit {
	if edit == nil {
		return nil
	}
	perFile := make(map[string][]lsp.TextEdit)

	for uri, textEdits := range edit.Changes {
		path := lsp.URIToFilePath(uri)
		perFile[path] = append(perFile[path], textEdits...)
	}

	for _, change := range edit.DocumentChanges {
		docEdit, ok := lsp.DecodeTextDocumentEdit(change)
		if !ok {
			continue
		}
		path := lsp.URIToFilePath(docEdit.TextDocument.URI)
		perFile[path] = append(perFile[path], docEdit.Edits...)
	}

	return perFile
}
