// Package app provides the main application structure and coordination
// for the Fresh editor. It wires together all core modules and manages
// the application lifecycle.
package app

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radiorambo/fresh/internal/config"
	"github.com/radiorambo/fresh/internal/dispatcher"
	"github.com/radiorambo/fresh/internal/event"
	"github.com/radiorambo/fresh/internal/input/key"
	"github.com/radiorambo/fresh/internal/input/mode"
	"github.com/radiorambo/fresh/internal/input/mouse"
	"github.com/radiorambo/fresh/internal/lsp"
	"github.com/radiorambo/fresh/internal/renderer"
	"github.com/radiorambo/fresh/internal/renderer/backend"
	"github.com/radiorambo/fresh/internal/renderer/highlight"
	"github.com/radiorambo/fresh/internal/renderer/statusline"
)

// Application is the central coordinator for all Fresh components.
// It manages component lifecycles, wiring, and the main event loop.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	eventBus event.Bus
	config   *config.Config

	// Editor components
	renderer    *renderer.Renderer
	backend     backend.Backend
	modeManager *mode.Manager
	dispatcher  *dispatcher.System

	// Document management
	documents *DocumentManager

	// Workspace components
	lsp            *lsp.Manager
	lspClient      *lsp.Client
	lspDocs        *lsp.DocumentManager
	lspDiagnostics *lsp.DiagnosticsService

	// Active syntax-highlighting theme
	theme *highlight.Theme

	// Mouse input state
	mouseHandler    *mouse.Handler
	mouseButtonDown bool

	// Bottom status row
	statusline *statusline.StatusLine
	status     statusState

	// Frame/input timing
	metrics *Metrics

	// Event subscriptions
	subscriptions *subscriptionManager

	// logger is the application's own logger instance; nil falls back to
	// the package-level GetLogger().
	logger *Logger

	// keystrokeLog records every committed buffer edit across all open
	// documents; nil when logging was not configured.
	keystrokeLog *KeystrokeLog

	// statusLog records status-line messages as they're shown; nil when
	// logging was not configured.
	statusLog *StatusLog

	// State
	running atomic.Bool
	done    chan struct{}

	// Shutdown synchronization
	shutdownOnce sync.Once

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// WorkspacePath is the workspace/project directory.
	WorkspacePath string

	// Files are files to open on startup.
	Files []string

	// Debug enables debug mode with extra logging.
	Debug bool

	// LogLevel sets the logging verbosity.
	LogLevel string

	// ReadOnly opens files in read-only mode.
	ReadOnly bool

	// ThemeBackground and ThemeForeground, when both set, derive a
	// two-color theme (e.g. from a terminal profile that exposes only its
	// own background/foreground) instead of using the built-in default
	// theme.
	ThemeBackground string
	ThemeForeground string
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	// Use bootstrapper for component initialization with cleanup on failure
	b := newBootstrapper(app, opts)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}

	// Wire event subscriptions after successful bootstrap
	if err := app.WireEventSubscriptions(); err != nil {
		b.cleanup()
		return nil, &InitError{Component: "event subscriptions", Err: err}
	}

	return app, nil
}

// Theme returns the active syntax-highlighting theme.
func (app *Application) Theme() *highlight.Theme {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.theme
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until shutdown is requested.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	// Initialize backend if set
	if app.backend != nil {
		if err := app.backend.Init(); err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		defer app.backend.Shutdown()

		// Create renderer with backend
		app.renderer = renderer.New(app.backend, renderer.DefaultOptions())
		app.metrics = NewMetrics()
		app.statusline = statusline.New()
		if w, h := app.backend.Size(); h > 0 {
			app.statusline.Resize(w, h)
		}
	}

	// Wire dispatcher to active document
	app.WireDispatcher()

	// Set initial mode
	if err := app.modeManager.SetInitialMode("normal"); err != nil {
		// Non-fatal, continue without mode
		_ = err
	}

	// Run main event loop
	return app.eventLoop()
}

// eventLoop is the main application loop.
func (app *Application) eventLoop() error {
	if app.backend == nil {
		// No backend - wait for shutdown
		<-app.done
		return nil
	}

	const (
		targetFPS = 60
		frameTime = time.Second / targetFPS
	)

	frameTicker := time.NewTicker(frameTime)
	defer frameTicker.Stop()

	// Start input polling goroutine
	inputEvents := app.startInputPolling()

	lastUpdate := time.Now()

	for app.running.Load() {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-inputEvents:
			if !ok {
				// Input channel closed
				return nil
			}
			// Handle input event
			inputStart := time.Now()
			err := app.handleBackendEvent(ev)
			if app.metrics != nil {
				app.metrics.RecordInput(time.Since(inputStart))
			}
			if err != nil {
				if err == ErrQuit {
					return nil
				}
				// Log error but continue
				_ = err
			}

		case <-frameTicker.C:
			// Calculate delta time
			now := time.Now()
			dt := now.Sub(lastUpdate).Seconds()
			lastUpdate = now

			// Update and render
			if app.renderer != nil {
				app.updateRenderer()
				app.renderer.Update(dt)
				app.renderer.Render()
				app.renderStatusLine()
				if app.metrics != nil {
					frame := time.Since(now)
					app.metrics.RecordFrame(frame)
					app.metrics.RecordRender(frame)
				}
			}
		}
	}

	return nil
}

// updateRenderer updates renderer state from current document.
func (app *Application) updateRenderer() {
	doc := app.documents.Active()
	if doc == nil || app.renderer == nil {
		return
	}

	// Set buffer for rendering
	app.renderer.SetBuffer(doc.Engine)

	// Overlay state (diagnostics, ghost text) follows the active document.
	app.renderer.SetOverlays(doc.Overlays)

	// Cursor and selection state so the renderer can draw every caret and
	// highlight every selection, not just the primary.
	app.renderer.SetCursorProvider(documentCursorProvider{doc: doc})

	// Syntax highlighting, when the document's language has a bundled
	// lexer. The nil check keeps a typed nil out of the interface slot.
	if provider := app.highlightProviderFor(doc); provider != nil {
		app.renderer.SetHighlightProvider(provider)
	} else {
		app.renderer.SetHighlightProvider(nil)
	}
}

// builtinHighlighters holds the bundled per-language lexers.
var builtinHighlighters = highlight.Builtins()

// highlightProviderFor returns the document's highlight provider,
// building and caching one on first use. Documents whose language has
// no bundled lexer render unhighlighted.
func (app *Application) highlightProviderFor(doc *Document) *highlight.Provider {
	if doc.highlight != nil {
		return doc.highlight
	}

	h, ok := builtinHighlighters.GetByLanguage(doc.LanguageID)
	if !ok {
		h, ok = builtinHighlighters.GetByExtension(filepath.Ext(doc.Path))
	}
	if !ok {
		return nil
	}

	theme := app.theme
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	provider := highlight.NewProvider(theme, 512)
	provider.SetHighlighter(h)
	provider.SetLineGetter(doc.Engine.LineText)
	doc.highlight = provider
	return provider
}

// documentCursorProvider adapts a document's engine to the renderer's
// cursor provider: byte offsets become (line, column) points, and every
// cursor in the set is reported so multi-caret editing is visible.
type documentCursorProvider struct {
	doc *Document
}

func (p documentCursorProvider) PrimaryCursor() (uint32, uint32) {
	pt := p.doc.Engine.OffsetToPoint(p.doc.Engine.PrimaryCursor())
	return pt.Line, pt.Column
}

func (p documentCursorProvider) Selections() []renderer.Selection {
	cursors := p.doc.Engine.Cursors()
	primary := cursors.PrimaryID()

	out := make([]renderer.Selection, 0, cursors.Count())
	for _, entry := range cursors.Iter() {
		anchor := p.doc.Engine.OffsetToPoint(entry.Selection.Anchor)
		head := p.doc.Engine.OffsetToPoint(entry.Selection.Head)
		out = append(out, renderer.Selection{
			StartLine: anchor.Line,
			StartCol:  anchor.Column,
			EndLine:   head.Line,
			EndCol:    head.Column,
			IsPrimary: entry.ID == primary,
		})
	}
	return out
}

// Shutdown initiates graceful shutdown.
// Safe to call multiple times.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		// Signal event loop to stop
		close(app.done)

		// Perform cleanup if running
		if app.running.Load() {
			app.shutdown()
		}
	})
}

// shutdown performs cleanup in reverse initialization order.
func (app *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	// 1. Stop LSP. The client clears its service caches; the manager
	// owns the server processes and shuts them down.
	if app.lspClient != nil {
		app.lspClient.Shutdown(ctx)
	}
	if app.lsp != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.lsp.Shutdown(ctx)
		}()
	}

	// Wait for async shutdowns with timeout
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Timeout - continue with cleanup
	}

	// 2. Cleanup event subscriptions (before stopping event bus)
	// Subscriptions must be cleaned up while event bus is still running
	// to properly unsubscribe handlers.
	if app.subscriptions != nil {
		app.subscriptions.cleanup()
	}

	// 3. Close config
	if app.config != nil {
		app.config.Close()
	}

	// 4. Stop event bus
	if app.eventBus != nil {
		app.eventBus.Stop(ctx)
	}

	// 5. Close logging sinks
	if app.keystrokeLog != nil {
		app.keystrokeLog.Close()
	}
	if app.statusLog != nil {
		app.statusLog.Close()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// EventBus returns the event bus.
func (app *Application) EventBus() event.Bus {
	return app.eventBus
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.renderer
}

// ModeManager returns the mode manager.
func (app *Application) ModeManager() *mode.Manager {
	return app.modeManager
}

// Dispatcher returns the dispatcher system.
func (app *Application) Dispatcher() *dispatcher.System {
	return app.dispatcher
}

// Documents returns the document manager.
func (app *Application) Documents() *DocumentManager {
	return app.documents
}

// LSP returns the LSP manager.
func (app *Application) LSP() *lsp.Manager {
	return app.lsp
}

// ActiveDocument returns the active document (may be nil).
func (app *Application) ActiveDocument() *Document {
	return app.documents.Active()
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return "init " + e.Component
	}
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// placeholderMode is a minimal mode implementation for bootstrapping.
type placeholderMode struct {
	name string
}

// Compile-time assertion that placeholderMode implements mode.Mode.
var _ mode.Mode = (*placeholderMode)(nil)

func (m *placeholderMode) Name() string        { return m.name }
func (m *placeholderMode) DisplayName() string { return m.name }
func (m *placeholderMode) CursorStyle() mode.CursorStyle {
	if m.name == "insert" {
		return mode.CursorBar
	}
	return mode.CursorBlock
}

func (m *placeholderMode) Enter(_ *mode.Context) error { return nil }
func (m *placeholderMode) Exit(_ *mode.Context) error  { return nil }

func (m *placeholderMode) HandleUnmapped(_ key.Event, _ *mode.Context) *mode.UnmappedResult {
	return nil
}
