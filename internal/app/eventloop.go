// Package app provides the main application structure and coordination.
package app

import (
	"errors"
	"strings"
	"time"

	"github.com/radiorambo/fresh/internal/dispatcher/handler"
	editorhandler "github.com/radiorambo/fresh/internal/dispatcher/handlers/editor"
	"github.com/radiorambo/fresh/internal/input"
	"github.com/radiorambo/fresh/internal/input/key"
	"github.com/radiorambo/fresh/internal/input/mode"
	"github.com/radiorambo/fresh/internal/input/mouse"
	"github.com/radiorambo/fresh/internal/lsp"
	"github.com/radiorambo/fresh/internal/renderer/backend"
)

// editingActionPrefixes contains action name prefixes that modify document content.
var editingActionPrefixes = []string{
	"editor.insert",
	"editor.delete",
	"editor.backspace",
	"editor.newline",
	"editor.indent",
	"editor.unindent",
	"editor.yank",
	"editor.paste",
	"editor.change",
	"editor.substitute",
	"editor.replace",
	"editor.join",
	"editor.toggle",
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	case backend.EventFocus:
		return app.handleFocusEvent(ev)
	default:
		return nil
	}
}

// handleResize processes terminal resize events.
func (app *Application) handleResize(ev backend.Event) error {
	if app.renderer != nil {
		app.renderer.Resize(ev.Width, ev.Height)
	}
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	// Convert backend event to key.Event
	keyEv := app.convertToKeyEvent(ev)

	// Ancillary trace of the raw key, separate from the edit stream.
	if app.keystrokeLog != nil {
		app.keystrokeLog.LogKeystroke(keyEv.Key.String(), keyEv.Modifiers.String())
	}

	// Let mode manager handle the key
	if app.modeManager == nil {
		return nil
	}

	currentMode := app.modeManager.Current()
	if currentMode == nil {
		return nil
	}

	// Try to handle unmapped key
	modeCtx := app.buildModeContext()
	result := currentMode.HandleUnmapped(keyEv, modeCtx)
	if result == nil {
		return nil
	}

	// Process the result
	return app.processModeResult(result, keyEv)
}

// handleMouseEvent routes mouse input through the mouse handler, which
// turns clicks, drags, and wheel ticks into dispatcher actions the same
// way keys do.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	if app.mouseHandler == nil {
		app.mouseHandler = mouse.NewHandler(mouse.DefaultConfig())
	}

	action := app.mouseHandler.Handle(app.convertToMouseEvent(ev))
	if action == nil {
		return nil
	}
	return app.dispatchAction(action)
}

// convertToMouseEvent converts a backend mouse event. The backend only
// reports the current button state, so a release is synthesized when the
// state returns to none after a press.
func (app *Application) convertToMouseEvent(ev backend.Event) mouse.Event {
	button := mapBackendButton(ev.MouseButton)

	action := mouse.ActionMove
	switch {
	case button.IsScroll():
		action = mouse.ActionPress
	case button != mouse.ButtonNone:
		if app.mouseButtonDown {
			action = mouse.ActionDrag
		} else {
			action = mouse.ActionPress
			app.mouseButtonDown = true
		}
	case app.mouseButtonDown:
		action = mouse.ActionRelease
		app.mouseButtonDown = false
	}

	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}

	return mouse.Event{
		Position:  mouse.Position{X: ev.MouseX, Y: ev.MouseY},
		Button:    button,
		Modifiers: mods,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// mapBackendButton maps the backend button state to a mouse button.
func mapBackendButton(b backend.MouseButton) mouse.Button {
	switch b {
	case backend.MouseLeft:
		return mouse.ButtonLeft
	case backend.MouseMiddle:
		return mouse.ButtonMiddle
	case backend.MouseRight:
		return mouse.ButtonRight
	case backend.MouseWheelUp:
		return mouse.ButtonScrollUp
	case backend.MouseWheelDown:
		return mouse.ButtonScrollDown
	default:
		return mouse.ButtonNone
	}
}

// handlePasteEvent processes paste events.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteText == "" {
		return nil
	}

	// Get active document
	doc := app.documents.Active()
	if doc == nil || doc.ReadOnly {
		return nil
	}

	return app.insertText(ev.PasteText)
}

// handleFocusEvent processes focus change events.
func (app *Application) handleFocusEvent(_ backend.Event) error {
	// Focus handling will be implemented in a future phase
	// Could be used to pause/resume certain operations
	return nil
}

// convertToKeyEvent converts a backend.Event to a key.Event.
func (app *Application) convertToKeyEvent(ev backend.Event) key.Event {
	// Map backend key to key.Key
	k := mapBackendKey(ev.Key, ev.Rune)

	// Map modifiers
	mods := key.ModNone
	if ev.Mod.Has(backend.ModCtrl) {
		mods = mods.With(key.ModCtrl)
	}
	if ev.Mod.Has(backend.ModAlt) {
		mods = mods.With(key.ModAlt)
	}
	if ev.Mod.Has(backend.ModShift) {
		mods = mods.With(key.ModShift)
	}
	if ev.Mod.Has(backend.ModMeta) {
		mods = mods.With(key.ModMeta)
	}

	return key.NewEvent(k, ev.Rune, mods)
}

// mapBackendKey maps a backend.Key to a key.Key.
func mapBackendKey(bk backend.Key, r rune) key.Key {
	switch bk {
	case backend.KeyRune:
		return key.KeyRune
	case backend.KeyEscape:
		return key.KeyEscape
	case backend.KeyEnter:
		return key.KeyEnter
	case backend.KeyTab:
		return key.KeyTab
	case backend.KeyBackspace:
		return key.KeyBackspace
	case backend.KeyDelete:
		return key.KeyDelete
	case backend.KeyInsert:
		return key.KeyInsert
	case backend.KeyHome:
		return key.KeyHome
	case backend.KeyEnd:
		return key.KeyEnd
	case backend.KeyPageUp:
		return key.KeyPageUp
	case backend.KeyPageDown:
		return key.KeyPageDown
	case backend.KeyUp:
		return key.KeyUp
	case backend.KeyDown:
		return key.KeyDown
	case backend.KeyLeft:
		return key.KeyLeft
	case backend.KeyRight:
		return key.KeyRight
	case backend.KeyF1:
		return key.KeyF1
	case backend.KeyF2:
		return key.KeyF2
	case backend.KeyF3:
		return key.KeyF3
	case backend.KeyF4:
		return key.KeyF4
	case backend.KeyF5:
		return key.KeyF5
	case backend.KeyF6:
		return key.KeyF6
	case backend.KeyF7:
		return key.KeyF7
	case backend.KeyF8:
		return key.KeyF8
	case backend.KeyF9:
		return key.KeyF9
	case backend.KeyF10:
		return key.KeyF10
	case backend.KeyF11:
		return key.KeyF11
	case backend.KeyF12:
		return key.KeyF12
	case backend.KeyCtrlA:
		return key.KeyRune // Will be handled via modifier
	case backend.KeyCtrlB:
		return key.KeyRune
	case backend.KeyCtrlC:
		return key.KeyRune
	case backend.KeyCtrlD:
		return key.KeyRune
	case backend.KeyCtrlE:
		return key.KeyRune
	case backend.KeyCtrlF:
		return key.KeyRune
	case backend.KeyCtrlG:
		return key.KeyRune
	case backend.KeyCtrlH:
		return key.KeyBackspace // Ctrl+H is often backspace
	case backend.KeyCtrlI:
		return key.KeyTab // Ctrl+I is tab
	case backend.KeyCtrlJ:
		return key.KeyEnter // Ctrl+J is often enter
	case backend.KeyCtrlK:
		return key.KeyRune
	case backend.KeyCtrlL:
		return key.KeyRune
	case backend.KeyCtrlM:
		return key.KeyEnter // Ctrl+M is carriage return
	case backend.KeyCtrlN:
		return key.KeyRune
	case backend.KeyCtrlO:
		return key.KeyRune
	case backend.KeyCtrlP:
		return key.KeyRune
	case backend.KeyCtrlQ:
		return key.KeyRune
	case backend.KeyCtrlR:
		return key.KeyRune
	case backend.KeyCtrlS:
		return key.KeyRune
	case backend.KeyCtrlT:
		return key.KeyRune
	case backend.KeyCtrlU:
		return key.KeyRune
	case backend.KeyCtrlV:
		return key.KeyRune
	case backend.KeyCtrlW:
		return key.KeyRune
	case backend.KeyCtrlX:
		return key.KeyRune
	case backend.KeyCtrlY:
		return key.KeyRune
	case backend.KeyCtrlZ:
		return key.KeyRune
	default:
		if r != 0 {
			return key.KeyRune
		}
		return key.KeyNone
	}
}

// processModeResult handles the result of an unmapped key press.
func (app *Application) processModeResult(result *mode.UnmappedResult, _ key.Event) error {
	if result == nil {
		return nil
	}

	// Handle action dispatch
	if result.Action != nil {
		action := &input.Action{
			Name: result.Action.Name,
			Args: convertModeArgs(result.Action.Args),
		}

		// Check for mode change action
		if action.Name == "mode.normal" || action.Name == "mode.insert" ||
			action.Name == "mode.visual" || action.Name == "mode.command" ||
			action.Name == "mode.replace" {
			modeName := action.Name[5:] // Remove "mode." prefix
			if err := app.modeManager.SetInitialMode(modeName); err != nil {
				_ = err // Log but don't fail
			}
			return nil
		}

		return app.dispatchAction(action)
	}

	// Handle text insertion in insert mode
	if result.InsertText != "" {
		return app.insertText(result.InsertText)
	}

	return nil
}

// convertModeArgs converts mode.Action.Args to input.ActionArgs.
func convertModeArgs(args map[string]any) input.ActionArgs {
	result := input.ActionArgs{}
	if args != nil {
		result.Extra = make(map[string]interface{})
		for k, v := range args {
			result.Extra[k] = v
		}
	}
	return result
}

// insertText inserts text at every active cursor via the editor.insertText
// handler, so multi-cursor fan-out, selection replacement, and undo grouping
// all go through the same path as dispatcher-driven edits.
func (app *Application) insertText(text string) error {
	if text == "" {
		return nil
	}
	doc := app.documents.Active()
	if doc == nil || doc.ReadOnly || doc.Engine == nil {
		return nil
	}

	return app.dispatchAction(&input.Action{
		Name: editorhandler.ActionInsertText,
		Args: input.ActionArgs{Text: text},
	})
}

// dispatchAction sends an action through the dispatcher.
func (app *Application) dispatchAction(action *input.Action) error {
	if app.dispatcher == nil || action == nil {
		return nil
	}

	// Re-wire the dispatcher to the active document's current engine/cursor
	// state before every dispatch: the cursor adapter caches a clone, so a
	// stale wiring from a previous document switch would apply edits against
	// cursor positions predating this keystroke.
	if doc := app.documents.Active(); doc != nil {
		app.wireDispatcherContext(doc)
	}

	// Build input context
	inputCtx := app.buildInputContext()

	// Dispatch the action
	result := app.dispatcher.DispatchWithContext(*action, inputCtx)

	// Check for quit action
	if action.Name == "app.quit" || action.Name == "quit" {
		return ErrQuit
	}

	// A rename or code action hands back a workspace edit for the shell
	// to apply: only the shell sees every open buffer and the disk.
	if result.Status == handler.StatusOK && result.Data != nil {
		if raw, ok := result.Data["workspaceEdit"]; ok {
			if edit, ok := raw.(*lsp.WorkspaceEdit); ok && edit != nil {
				if err := app.ApplyWorkspaceEdit(edit); err != nil {
					app.RecordStatus("apply edit failed: " + err.Error())
				}
			}
		}
	}

	// Handle errors from dispatch
	if result.Error != nil {
		if errors.Is(result.Error, lsp.ErrStaleResponse) {
			app.RecordStatus("content modified, rename canceled")
		} else {
			app.RecordStatus(result.Error.Error())
		}
	}

	// Mark document as modified if action changed content
	if result.Status == handler.StatusOK {
		doc := app.documents.Active()
		if doc != nil && !doc.ReadOnly {
			// Check if this was an editing action
			if isEditingAction(action.Name) {
				doc.SetModified(true)
				doc.IncrementVersion()
			}
		}
	}

	return nil
}

// buildInputContext creates an input.Context for dispatcher.
func (app *Application) buildInputContext() *input.Context {
	ctx := &input.Context{}

	// Set mode
	if app.modeManager != nil && app.modeManager.Current() != nil {
		ctx.Mode = app.modeManager.Current().Name()
	}

	// Set document info
	doc := app.documents.Active()
	if doc != nil {
		ctx.FilePath = doc.Path
		ctx.FileType = doc.LanguageID
		ctx.IsModified = doc.IsModified()
		ctx.IsReadOnly = doc.ReadOnly

		if doc.Engine != nil {
			cursors := doc.Engine.Cursors()
			if cursors != nil {
				ctx.HasSelection = cursors.HasSelection()
			}
		}
	}

	return ctx
}

// buildModeContext creates a mode.Context for mode handling.
func (app *Application) buildModeContext() *mode.Context {
	ctx := &mode.Context{}

	// Set previous mode if available
	if app.modeManager != nil && app.modeManager.Current() != nil {
		ctx.PreviousMode = app.modeManager.Current().Name()
	}

	return ctx
}

// isEditingAction returns true if the action modifies document content.
func isEditingAction(name string) bool {
	for _, prefix := range editingActionPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// Note: PollEvent is blocking, so this goroutine may not exit immediately
// on shutdown. The backend should be shutdown to unblock PollEvent.
// Callers should close the done channel and call backend.Shutdown() to
// ensure clean termination.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for app.running.Load() {
			if app.backend == nil {
				return
			}

			// PollEvent is blocking. The backend.Shutdown() call in Run()
			// will unblock this by closing the underlying terminal.
			ev := app.backend.PollEvent()

			// Check if we should stop (may have been signaled during blocking poll)
			if !app.running.Load() {
				return
			}

			// Send event (non-blocking with buffer to avoid deadlock)
			select {
			case events <- ev:
			case <-app.done:
				return
			default:
				// Buffer full, drop event to prevent blocking.
				// This should be rare with buffer size 100.
				// In production, consider logging this at debug level.
			}
		}
	}()

	return events
}
