package lsp

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// SupervisorState is the lifecycle state of a supervised server.
type SupervisorState int

const (
	SupervisorStateIdle SupervisorState = iota
	SupervisorStateRunning
	SupervisorStateRestarting
	SupervisorStateFailed
	SupervisorStateStopped
)

var supervisorStateNames = map[SupervisorState]string{
	SupervisorStateIdle:       "idle",
	SupervisorStateRunning:    "running",
	SupervisorStateRestarting: "restarting",
	SupervisorStateFailed:     "failed",
	SupervisorStateStopped:    "stopped",
}

func (s SupervisorState) String() string {
	if name, ok := supervisorStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// SupervisorConfig bounds the crash-restart policy.
type SupervisorConfig struct {
	// MaxRestarts is how many consecutive restarts are attempted before
	// the supervisor gives up.
	MaxRestarts int

	// InitialBackoff is the delay before the first restart; each further
	// attempt multiplies it by BackoffMultiplier up to MaxBackoff.
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64

	// ResetWindow is how long a server must stay up for the restart
	// counter to reset, so an occasional crash per hour never
	// accumulates into a permanent failure.
	ResetWindow time.Duration
}

// DefaultSupervisorConfig returns the standard policy: five attempts,
// 1s doubling to 60s, counter reset after five stable minutes.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		MaxRestarts:       5,
		InitialBackoff:    time.Second,
		MaxBackoff:        60 * time.Second,
		BackoffMultiplier: 2,
		ResetWindow:       5 * time.Minute,
	}
}

// SupervisorEventType classifies supervisor events.
type SupervisorEventType int

const (
	SupervisorEventCrash SupervisorEventType = iota
	SupervisorEventRestarting
	SupervisorEventRecovered
	SupervisorEventFailed
)

func (t SupervisorEventType) String() string {
	switch t {
	case SupervisorEventCrash:
		return "crash"
	case SupervisorEventRestarting:
		return "restarting"
	case SupervisorEventRecovered:
		return "recovered"
	case SupervisorEventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SupervisorEvent reports a lifecycle transition to listeners.
type SupervisorEvent struct {
	Type       SupervisorEventType
	LanguageID string
	Error      error
	Attempt    int
	NextRetry  time.Duration
}

// trackedDoc is a document's last known content, replayed onto a
// recovered server so it resumes with the same open set.
type trackedDoc struct {
	uri        DocumentURI
	languageID string
	content    string
}

// Supervisor keeps one language server alive: it watches the process,
// restarts it with exponential backoff when it crashes, re-opens the
// tracked documents on the fresh instance, and reports every transition
// on its event channel. The editor's typing path never blocks on any of
// this; a request during a restart simply sees a not-ready server.
//
// state is atomic so readiness checks stay lock-free; everything else is
// guarded by mu.
type Supervisor struct {
	mu sync.Mutex

	config       SupervisorConfig
	languageID   string
	serverConfig ServerConfig
	folders      []WorkspaceFolder

	server       *Server
	restartCount int
	lastStart    time.Time

	documents   map[DocumentURI]trackedDoc
	diagHandler func(uri DocumentURI, diagnostics []Diagnostic)

	state     atomic.Int32
	ctx       context.Context
	cancel    context.CancelFunc
	eventCh   chan SupervisorEvent
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewSupervisor creates a supervisor for one server configuration.
func NewSupervisor(serverConfig ServerConfig, languageID string, config SupervisorConfig) *Supervisor {
	s := &Supervisor{
		config:       config,
		languageID:   languageID,
		serverConfig: serverConfig,
		documents:    make(map[DocumentURI]trackedDoc),
		eventCh:      make(chan SupervisorEvent, 16),
	}
	s.state.Store(int32(SupervisorStateIdle))
	return s
}

// Start launches the server and begins watching it.
func (s *Supervisor) Start(ctx context.Context, folders []WorkspaceFolder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if SupervisorState(s.state.Load()) != SupervisorStateIdle {
		return ErrServerAlreadyRunning
	}

	s.folders = folders
	s.ctx, s.cancel = context.WithCancel(ctx)

	if err := s.launchLocked(); err != nil {
		s.state.Store(int32(SupervisorStateFailed))
		return err
	}
	s.state.Store(int32(SupervisorStateRunning))

	go s.watch()
	return nil
}

// launchLocked starts a fresh server process. Callers hold mu.
func (s *Supervisor) launchLocked() error {
	server := NewServer(s.serverConfig, s.languageID)
	if s.diagHandler != nil {
		server.OnDiagnostics(s.diagHandler)
	}
	if err := server.Start(s.ctx, s.folders); err != nil {
		return err
	}
	s.server = server
	s.lastStart = time.Now()
	return nil
}

// watch waits for the server process to exit and drives recovery. It
// returns when the supervisor stops, fails permanently, or its context
// is canceled.
func (s *Supervisor) watch() {
	for {
		s.mu.Lock()
		server := s.server
		s.mu.Unlock()
		if server == nil {
			return
		}

		select {
		case <-s.ctx.Done():
			return
		case exitErr := <-server.ExitChannel():
			if !s.recover(exitErr) {
				return
			}
		}
	}
}

// recover runs the backoff-restart loop after a crash. It reports true
// once a replacement server is running, false when the supervisor was
// stopped or gave up.
func (s *Supervisor) recover(exitErr error) bool {
	for {
		s.mu.Lock()
		if SupervisorState(s.state.Load()) == SupervisorStateStopped {
			s.mu.Unlock()
			return false
		}

		// A long stable run forgives earlier crashes.
		if time.Since(s.lastStart) > s.config.ResetWindow {
			s.restartCount = 0
		}
		s.restartCount++
		attempt := s.restartCount

		s.emit(SupervisorEvent{
			Type:       SupervisorEventCrash,
			LanguageID: s.languageID,
			Error:      exitErr,
			Attempt:    attempt,
		})

		if attempt > s.config.MaxRestarts {
			s.state.Store(int32(SupervisorStateFailed))
			s.emit(SupervisorEvent{
				Type:       SupervisorEventFailed,
				LanguageID: s.languageID,
				Error:      exitErr,
				Attempt:    attempt,
			})
			s.mu.Unlock()
			return false
		}

		delay := CalculateBackoff(attempt, s.config.InitialBackoff, s.config.MaxBackoff, s.config.BackoffMultiplier)
		s.state.Store(int32(SupervisorStateRestarting))
		s.emit(SupervisorEvent{
			Type:       SupervisorEventRestarting,
			LanguageID: s.languageID,
			Attempt:    attempt,
			NextRetry:  delay,
		})
		s.mu.Unlock()

		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(delay):
		}

		s.mu.Lock()
		if SupervisorState(s.state.Load()) == SupervisorStateStopped {
			s.mu.Unlock()
			return false
		}
		if err := s.launchLocked(); err != nil {
			exitErr = err
			s.mu.Unlock()
			continue
		}

		s.replayDocumentsLocked()
		s.state.Store(int32(SupervisorStateRunning))
		s.emit(SupervisorEvent{
			Type:       SupervisorEventRecovered,
			LanguageID: s.languageID,
			Attempt:    s.restartCount,
		})
		s.mu.Unlock()
		return true
	}
}

// replayDocumentsLocked re-opens every tracked document on the new
// server. Callers hold mu.
func (s *Supervisor) replayDocumentsLocked() {
	if s.server == nil || len(s.documents) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	for _, doc := range s.documents {
		_ = s.server.OpenDocument(ctx, URIToFilePath(doc.uri), doc.languageID, doc.content)
	}
}

// emit publishes an event, dropping it if nobody is draining the
// channel. A slow listener must never wedge the recovery loop.
func (s *Supervisor) emit(event SupervisorEvent) {
	if s.closed.Load() {
		return
	}
	select {
	case s.eventCh <- event:
	default:
	}
}

// Stop shuts the supervisor and its server down.
func (s *Supervisor) Stop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	switch SupervisorState(s.state.Load()) {
	case SupervisorStateStopped, SupervisorStateIdle:
		s.mu.Unlock()
		return nil
	}
	s.state.Store(int32(SupervisorStateStopped))
	server := s.server
	s.server = nil
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.eventCh)
	})

	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}

// State returns the current lifecycle state.
func (s *Supervisor) State() SupervisorState {
	return SupervisorState(s.state.Load())
}

// Server returns the live server, nil while restarting.
func (s *Supervisor) Server() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server
}

// RestartCount returns the attempts since the counter last reset.
func (s *Supervisor) RestartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restartCount
}

// Events returns the transition channel; closed on Stop.
func (s *Supervisor) Events() <-chan SupervisorEvent {
	return s.eventCh
}

// OnDiagnostics installs the diagnostics forwarder on the current and
// every future server instance.
func (s *Supervisor) OnDiagnostics(handler func(uri DocumentURI, diagnostics []Diagnostic)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagHandler = handler
	if s.server != nil {
		s.server.OnDiagnostics(handler)
	}
}

// IsReady reports whether requests can be served right now.
func (s *Supervisor) IsReady() bool {
	if SupervisorState(s.state.Load()) != SupervisorStateRunning {
		return false
	}
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	return server != nil && server.Status() == ServerStatusReady
}

// LanguageID returns the supervised language.
func (s *Supervisor) LanguageID() string {
	return s.languageID
}

// TrackDocument records a document for post-recovery replay.
func (s *Supervisor) TrackDocument(uri DocumentURI, languageID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = trackedDoc{uri: uri, languageID: languageID, content: content}
}

// UpdateDocumentContent refreshes a tracked document's content.
func (s *Supervisor) UpdateDocumentContent(uri DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[uri]; ok {
		doc.content = content
		s.documents[uri] = doc
	}
}

// UntrackDocument stops replaying a document.
func (s *Supervisor) UntrackDocument(uri DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, uri)
}

// TrackedDocuments lists the URIs queued for replay.
func (s *Supervisor) TrackedDocuments() []DocumentURI {
	s.mu.Lock()
	defer s.mu.Unlock()
	uris := make([]DocumentURI, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

// OpenDocument opens on the server and tracks for recovery.
func (s *Supervisor) OpenDocument(ctx context.Context, path, languageID, content string) error {
	server := s.Server()
	if server == nil {
		return ErrServerNotReady
	}
	s.TrackDocument(FilePathToURI(path), languageID, content)
	return server.OpenDocument(ctx, path, languageID, content)
}

// CloseDocument closes on the server and stops tracking.
func (s *Supervisor) CloseDocument(ctx context.Context, path string) error {
	server := s.Server()
	if server == nil {
		return ErrServerNotReady
	}
	s.UntrackDocument(FilePathToURI(path))
	return server.CloseDocument(ctx, path)
}

// ChangeDocument forwards changes, refreshing the tracked content on
// full-document syncs so a later replay starts from the latest text.
func (s *Supervisor) ChangeDocument(ctx context.Context, path string, changes []TextDocumentContentChangeEvent) error {
	server := s.Server()
	if server == nil {
		return ErrServerNotReady
	}
	uri := FilePathToURI(path)
	for _, change := range changes {
		if change.Range == nil {
			s.UpdateDocumentContent(uri, change.Text)
		}
	}
	return server.ChangeDocument(ctx, path, changes)
}

// SupervisorStats is a point-in-time snapshot for status displays.
type SupervisorStats struct {
	State          SupervisorState
	RestartCount   int
	LastStartTime  time.Time
	CurrentBackoff time.Duration
	TrackedDocs    int
}

// Stats snapshots the supervisor.
func (s *Supervisor) Stats() SupervisorStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SupervisorStats{
		State:          SupervisorState(s.state.Load()),
		RestartCount:   s.restartCount,
		LastStartTime:  s.lastStart,
		CurrentBackoff: CalculateBackoff(s.restartCount, s.config.InitialBackoff, s.config.MaxBackoff, s.config.BackoffMultiplier),
		TrackedDocs:    len(s.documents),
	}
}

// CalculateBackoff returns the delay before the given attempt: the
// initial delay for the first attempt, multiplied exponentially after,
// capped at max.
func CalculateBackoff(attempt int, initial, max time.Duration, multiplier float64) time.Duration {
	if attempt <= 1 {
		return initial
	}
	delay := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if delay > float64(max) {
		return max
	}
	return time.Duration(delay)
}
