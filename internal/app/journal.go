// Package app provides the main application structure and coordination.
package app

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	evtag "github.com/radiorambo/fresh/internal/engine/event"
	"github.com/radiorambo/fresh/internal/renderer/statusline"
)

// keystrokeRecord is one line of the keystroke log: a JSON rendering of an
// Insert or Delete event, with a timestamp and a discriminant kind field.
type keystrokeRecord struct {
	Timestamp string `json:"ts"`
	Kind      string `json:"kind"`
	Position  int64  `json:"position,omitempty"`
	Text      string `json:"text,omitempty"`
	CursorID  uint64 `json:"cursor_id"`
}

// KeystrokeLog records every committed Insert/Delete event as one JSON
// object per line, so a session's edit history can be replayed or audited.
type KeystrokeLog struct {
	mu     sync.Mutex
	output io.Writer
	closer io.Closer
}

// NewKeystrokeLog creates a keystroke log writing to path, truncating any
// existing file there.
func NewKeystrokeLog(path string) (*KeystrokeLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &KeystrokeLog{output: f, closer: f}, nil
}

// NewKeystrokeLogWriter creates a keystroke log over an arbitrary writer,
// for tests.
func NewKeystrokeLogWriter(w io.Writer) *KeystrokeLog {
	return &KeystrokeLog{output: w}
}

// keystrokeTrace is the ancillary key trace: which key with which
// modifiers, not tied to any buffer mutation and not part of undo.
type keystrokeTrace struct {
	Timestamp string `json:"ts"`
	Kind      string `json:"kind"`
	Code      string `json:"code"`
	Modifiers string `json:"modifiers,omitempty"`
}

// LogKeystroke appends one trace line for a raw key press.
func (kl *KeystrokeLog) LogKeystroke(code, modifiers string) {
	rec := keystrokeTrace{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Kind:      "keystroke",
		Code:      code,
		Modifiers: modifiers,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	_, _ = kl.output.Write(line)
	_, _ = kl.output.Write([]byte("\n"))
}

// Record appends one line for ev. Non-Insert/Delete events are ignored;
// the keystroke log only tracks buffer mutations.
func (kl *KeystrokeLog) Record(ev evtag.Event) {
	var rec keystrokeRecord
	switch e := ev.(type) {
	case evtag.Insert:
		rec = keystrokeRecord{Kind: "insert", Position: int64(e.Position), Text: e.Text, CursorID: uint64(e.CursorID)}
	case evtag.Delete:
		rec = keystrokeRecord{Kind: "delete", Position: int64(e.Range.Start), Text: e.DeletedText, CursorID: uint64(e.CursorID)}
	default:
		return
	}
	rec.Timestamp = time.Now().Format(time.RFC3339Nano)

	line, err := json.Marshal(rec)
	if err != nil {
		return
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	_, _ = kl.output.Write(line)
	_, _ = kl.output.Write([]byte("\n"))
}

// Close closes the underlying file, if any.
func (kl *KeystrokeLog) Close() error {
	if kl.closer == nil {
		return nil
	}
	return kl.closer.Close()
}

// StatusLog records status-line messages to a file, one per line, each
// stamped "<YYYY-MM-DD HH:MM:SS> <message>". Lets a user review the full
// history of status messages rather than just the last one shown.
type StatusLog struct {
	mu     sync.Mutex
	output io.Writer
	closer io.Closer
}

// NewStatusLog creates a status log writing to path, truncating any
// existing file there.
func NewStatusLog(path string) (*StatusLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &StatusLog{output: f, closer: f}, nil
}

// NewStatusLogWriter creates a status log over an arbitrary writer, for
// tests.
func NewStatusLogWriter(w io.Writer) *StatusLog {
	return &StatusLog{output: w}
}

// Write appends one timestamped line for msg.
func (sl *StatusLog) Write(msg string) {
	line := time.Now().Format("2006-01-02 15:04:05") + " " + msg + "\n"

	sl.mu.Lock()
	defer sl.mu.Unlock()
	_, _ = sl.output.Write([]byte(line))
}

// Close closes the underlying file, if any.
func (sl *StatusLog) Close() error {
	if sl.closer == nil {
		return nil
	}
	return sl.closer.Close()
}

// RecordStatus writes msg to the status log, the application logger, and
// the bottom status row. Safe to call when the status log was never
// initialized.
func (app *Application) RecordStatus(msg string) {
	if msg == "" {
		return
	}
	app.LogInfo(msg)
	app.status.set(msg, statusline.MessageInfo)
	if app.statusLog != nil {
		app.statusLog.Write(msg)
	}
}

// wireDocumentJournal attaches the keystroke log to a document's history so
// every committed edit in it is recorded, if logging was initialized.
func (app *Application) wireDocumentJournal(doc *Document) {
	if doc == nil || doc.Engine == nil || app.keystrokeLog == nil {
		return
	}
	doc.Engine.OnHistoryEvent(app.keystrokeLog.Record)
}

// defaultLogDir returns the directory the application's log files live in.
func defaultLogDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "fresh", "log")
	}
	return filepath.Join(os.TempDir(), "fresh", "log")
}
