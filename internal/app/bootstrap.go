package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/radiorambo/fresh/internal/config"
	"github.com/radiorambo/fresh/internal/dispatcher"
	"github.com/radiorambo/fresh/internal/event"
	"github.com/radiorambo/fresh/internal/input/mode"
	"github.com/radiorambo/fresh/internal/lsp"
	"github.com/radiorambo/fresh/internal/renderer/core"
	"github.com/radiorambo/fresh/internal/renderer/highlight"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	var err error

	// 1. Event Bus - messaging foundation
	if err = b.initEventBus(); err != nil {
		b.cleanup()
		return err
	}

	// 2. Config System
	if err = b.initConfig(); err != nil {
		b.cleanup()
		return err
	}

	// Theme has no external dependencies and nothing depends on its
	// failure path, so it isn't tracked in initOrder/cleanup.
	b.initTheme()

	// 3. Mode Manager
	if err = b.initModeManager(); err != nil {
		b.cleanup()
		return err
	}

	// 4. Dispatcher
	if err = b.initDispatcher(); err != nil {
		b.cleanup()
		return err
	}

	// 5. LSP Manager
	if err = b.initLSP(); err != nil {
		b.cleanup()
		return err
	}

	// 6. Open initial files and setup documents
	if err = b.initDocuments(); err != nil {
		b.cleanup()
		return err
	}

	// 7. Logging sinks (keystroke/status logs). Non-fatal: an editor that
	// can't write its log directory still edits files fine.
	b.initLogging()

	return nil
}

// initEventBus initializes the event bus.
func (b *bootstrapper) initEventBus() error {
	b.app.eventBus = event.NewBus()
	if err := b.app.eventBus.Start(); err != nil {
		return &InitError{Component: "event bus", Err: err}
	}
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initConfig initializes the configuration system.
func (b *bootstrapper) initConfig() error {
	configOpts := []config.Option{
		config.WithWatcher(true),
		config.WithSchemaValidation(true),
	}

	if b.opts.ConfigPath != "" {
		// ConfigPath specifies user config directory
		configOpts = append(configOpts, config.WithUserConfigDir(b.opts.ConfigPath))
	}

	if b.opts.WorkspacePath != "" {
		configOpts = append(configOpts, config.WithProjectConfigDir(b.opts.WorkspacePath))
	}

	b.app.config = config.New(configOpts...)

	// Load configuration - errors are non-fatal, use defaults
	if err := b.app.config.Load(context.Background()); err != nil {
		// Log warning in production but continue with defaults
		_ = err
	}

	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initTheme selects the syntax-highlighting theme. When the caller supplies
// both a background and foreground color (e.g. read from the user's own
// terminal profile, which rarely exposes more than those two), the rest of
// the theme's palette is derived from them; otherwise the built-in default
// theme is used.
func (b *bootstrapper) initTheme() {
	if b.opts.ThemeBackground == "" || b.opts.ThemeForeground == "" {
		b.app.theme = highlight.DefaultTheme()
		return
	}

	bg, err := core.ColorFromHex(b.opts.ThemeBackground)
	if err != nil {
		b.app.theme = highlight.DefaultTheme()
		return
	}
	fg, err := core.ColorFromHex(b.opts.ThemeForeground)
	if err != nil {
		b.app.theme = highlight.DefaultTheme()
		return
	}

	b.app.theme = highlight.DeriveTheme("custom", bg, fg)
}

// initModeManager initializes the mode manager with default modes.
func (b *bootstrapper) initModeManager() error {
	b.app.modeManager = mode.NewManager()

	// Register default editing modes
	b.registerModes()

	b.initOrder = append(b.initOrder, "modeManager")
	return nil
}

// registerModes registers the default editing modes.
func (b *bootstrapper) registerModes() {
	// Register placeholder modes - real modes from vim package would be registered here
	// This allows the application to be tested without full vim implementation
	b.app.modeManager.Register(&placeholderMode{name: "normal"})
	b.app.modeManager.Register(&placeholderMode{name: "insert"})
	b.app.modeManager.Register(&placeholderMode{name: "visual"})
	b.app.modeManager.Register(&placeholderMode{name: "command"})
	b.app.modeManager.Register(&placeholderMode{name: "replace"})
}

// initDispatcher initializes the dispatcher system. System wires every
// namespace handler (cursor, editor, mode, operator, search, view, file,
// window, completion, macro) plus the repeat and AI-context hooks in one
// shot; per-document state is attached later by wireDispatcherContext.
func (b *bootstrapper) initDispatcher() error {
	sysConfig := dispatcher.DefaultSystemConfig()
	sysConfig.DispatcherConfig.RecoverFromPanic = true
	sysConfig.DispatcherConfig.EnableMetrics = b.opts.Debug

	b.app.dispatcher = dispatcher.NewSystem(sysConfig)

	if b.app.modeManager != nil {
		b.app.dispatcher.SetModeManager(NewModeExecAdapter(b.app.modeManager))
	}

	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// initLSP initializes the LSP manager.
func (b *bootstrapper) initLSP() error {
	b.app.lsp = lsp.NewManager(
		lsp.WithRequestTimeout(10*time.Second),
		lsp.WithSupervision(lsp.DefaultSupervisorConfig()),
	)

	// Register default language servers based on detection
	for lang, cfg := range lsp.AutoDetectServers() {
		b.app.lsp.RegisterServer(lang, cfg)
	}

	// Workspace folders are detected directly from common project markers;
	// there is no project/workspace indexer in this core (out of scope).
	if b.opts.WorkspacePath != "" {
		b.app.lsp.SetWorkspaceFolders(lsp.DetectWorkspaceFolders(b.opts.WorkspacePath))
	}

	// DocumentManager tracks per-document versions so completion/rename
	// responses can be dropped once stale (see its Completion/Rename).
	b.app.lspDocs = lsp.NewDocumentManager(b.app.lsp)

	// DiagnosticsService aggregates publishDiagnostics notifications per
	// file; its change handler republishes them on the event bus so
	// subscriptions.handleDiagnostics can turn them into overlays.
	b.app.lspDiagnostics = lsp.NewDiagnosticsService(b.app.lsp,
		lsp.WithDiagnosticsChangeHandler(b.app.publishDiagnostics),
	)

	// The client layers the high-level navigation/actions/completion
	// services over the same manager, and backs the "lsp" dispatcher
	// namespace plus the completion handler's provider.
	b.app.lspClient = lsp.NewClient(
		lsp.WithManager(b.app.lsp),
		lsp.WithClientEditApplier(b.app.ApplyWorkspaceEdit),
	)
	if err := b.app.lspClient.Start(context.Background()); err != nil {
		return &InitError{Component: "lsp client", Err: err}
	}
	if b.app.dispatcher != nil {
		b.app.dispatcher.RegisterNamespace("lsp", lsp.NewHandler(lsp.WithLSPClient(b.app.lspClient)))
		if ch := b.app.dispatcher.CompletionHandler(); ch != nil {
			ch.SetProvider(lsp.NewProvider(b.app.lspClient))
		}
	}

	b.initOrder = append(b.initOrder, "lsp")
	return nil
}

// initDocuments initializes the document manager and opens initial files.
func (b *bootstrapper) initDocuments() error {
	b.app.documents = NewDocumentManager()
	if b.app.config != nil {
		b.app.documents.SetLargeFileThreshold(b.app.config.LargeFileThreshold())
		b.app.documents.SetUndoGroupTimeout(b.app.config.UndoGroupTimeout())
	}

	// Open initial files
	for _, file := range b.opts.Files {
		if doc, err := b.app.documents.Open(file); err != nil {
			// File open errors are non-fatal for startup
			_ = err
		} else {
			b.app.wireDocumentJournal(doc)
		}
	}

	// Create scratch buffer if no files opened
	if b.app.documents.Count() == 0 {
		b.app.wireDocumentJournal(b.app.documents.CreateScratch())
	}

	b.initOrder = append(b.initOrder, "documents")
	return nil
}

// initLogging opens the keystroke and status log files under the
// application's log directory. Failures are logged and otherwise ignored;
// editing works fine without a journal.
func (b *bootstrapper) initLogging() {
	dir := defaultLogDir()

	if kl, err := NewKeystrokeLog(filepath.Join(dir, "keystrokes.log")); err == nil {
		b.app.keystrokeLog = kl
		for _, doc := range b.app.documents.All() {
			b.app.wireDocumentJournal(doc)
		}
	}

	if sl, err := NewStatusLog(filepath.Join(dir, "status.log")); err == nil {
		b.app.statusLog = sl
	}

	b.initOrder = append(b.initOrder, "logging")
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Cleanup in reverse order
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		component := b.initOrder[i]
		b.cleanupComponent(ctx, component)
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(ctx context.Context, component string) {
	switch component {
	case "eventBus":
		if b.app.eventBus != nil {
			b.app.eventBus.Stop(ctx)
			b.app.eventBus = nil
		}
	case "config":
		if b.app.config != nil {
			b.app.config.Close()
			b.app.config = nil
		}
	case "modeManager":
		b.app.modeManager = nil
	case "dispatcher":
		b.app.dispatcher = nil
	case "lsp":
		if b.app.lspClient != nil {
			b.app.lspClient.Shutdown(ctx)
			b.app.lspClient = nil
		}
		if b.app.lsp != nil {
			b.app.lsp.Shutdown(ctx)
			b.app.lsp = nil
		}
		b.app.lspDocs = nil
		b.app.lspDiagnostics = nil
	case "documents":
		b.app.documents = nil
	case "logging":
		if b.app.keystrokeLog != nil {
			b.app.keystrokeLog.Close()
			b.app.keystrokeLog = nil
		}
		if b.app.statusLog != nil {
			b.app.statusLog.Close()
			b.app.statusLog = nil
		}
	}
}

// WireEventSubscriptions sets up event subscriptions between components.
// Called after bootstrap completes successfully.
// Prerequisites: eventBus must be initialized and started.
func (app *Application) WireEventSubscriptions() error {
	if app.eventBus == nil {
		return nil
	}

	// Create and initialize subscription manager
	app.subscriptions = newSubscriptionManager(app)
	if err := app.subscriptions.setupSubscriptions(); err != nil {
		return &InitError{Component: "subscriptions", Err: err}
	}

	return nil
}

// WireDispatcher connects the dispatcher to the active document's engine,
// cursors, and history, and to the renderer, so dispatched actions operate
// on live state rather than a stale snapshot from the last document switch.
func (app *Application) WireDispatcher() {
	if app.dispatcher == nil {
		return
	}

	doc := app.documents.Active()
	if doc == nil {
		return
	}

	app.wireDispatcherContext(doc)

	if app.renderer != nil {
		app.dispatcher.SetRenderer(NewRendererAdapter(NewRendererExecWrapper(app.renderer)))
	}
}

// SwitchDocument changes the active document and re-wires the dispatcher.
func (app *Application) SwitchDocument(doc *Document) {
	if doc == nil {
		return
	}

	app.documents.SetActive(doc)
	app.WireDispatcher()
}
