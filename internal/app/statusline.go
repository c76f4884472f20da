package app

import (
	"sync"

	"github.com/radiorambo/fresh/internal/engine"
	"github.com/radiorambo/fresh/internal/renderer/statusline"
)

// statusState carries the last status message for the bottom row.
type statusState struct {
	mu      sync.Mutex
	message string
	kind    statusline.MessageType
}

func (s *statusState) set(msg string, kind statusline.MessageType) {
	s.mu.Lock()
	s.message = msg
	s.kind = kind
	s.mu.Unlock()
}

func (s *statusState) get() (string, statusline.MessageType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message, s.kind
}

// renderStatusLine refreshes and draws the bottom status row: mode,
// file name, modified marker, cursor position, and the latest status
// message. Runs on the frame tick after the content render so it always
// paints over the last text row.
func (app *Application) renderStatusLine() {
	if app.statusline == nil || app.backend == nil {
		return
	}

	width, height := app.backend.Size()
	if height < 2 {
		return
	}
	app.statusline.Resize(width, height)

	if app.modeManager != nil {
		if m := app.modeManager.Current(); m != nil {
			app.statusline.SetMode(m.DisplayName())
		}
	}

	if doc := app.documents.Active(); doc != nil {
		app.statusline.SetFilename(doc.Name)
		app.statusline.SetModified(doc.IsModified())

		pt := doc.Engine.OffsetToPoint(doc.Engine.PrimaryCursor())
		app.statusline.SetPosition(pt.Line+1, pt.Column+1)

		if total := doc.Engine.LineCount(); total != engine.LineCountUnknown {
			app.statusline.SetTotalLines(total)
			if total > 0 {
				app.statusline.SetScrollPercent(int((pt.Line + 1) * 100 / total))
			}
		} else {
			app.statusline.SetTotalLines(0)
		}
	}

	if msg, kind := app.status.get(); msg != "" {
		app.statusline.SetMessage(msg, kind)
	}

	app.statusline.Render(app.backend, height-1)
}
