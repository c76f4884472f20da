package lsp

import (
	"sort"
	"sync"
	"time"
)

// DiagnosticsService aggregates publishDiagnostics notifications per
// file: it filters by severity and source, keeps each file's set sorted
// by position, and debounces the change callback so a server that
// republishes on every keystroke doesn't flood the editor.
type DiagnosticsService struct {
	mu      sync.RWMutex
	manager *Manager

	files map[DocumentURI]*FileDiagnostics

	minSeverity    DiagnosticSeverity
	debounceDelay  time.Duration
	maxPerFile     int
	enabledSources map[string]bool // nil means every source

	onChange func(uri DocumentURI, diagnostics []Diagnostic)

	// Debounce bookkeeping. Each arrival bumps the URI's generation;
	// a timer only fires its callback if it is still the latest.
	pending    map[DocumentURI]*time.Timer
	generation map[DocumentURI]uint64
}

// FileDiagnostics is one file's current diagnostic set with counts.
type FileDiagnostics struct {
	URI         DocumentURI
	Path        string
	Diagnostics []Diagnostic
	UpdatedAt   time.Time
	Version     int

	ErrorCount   int
	WarningCount int
	InfoCount    int
	HintCount    int
}

// DiagnosticSummary aggregates counts across every file.
type DiagnosticSummary struct {
	TotalFiles   int
	TotalErrors  int
	TotalWarns   int
	TotalInfos   int
	TotalHints   int
	FilesWithErr int
}

// DiagnosticsServiceOption configures the service.
type DiagnosticsServiceOption func(*DiagnosticsService)

// WithMinSeverity drops diagnostics less severe than the given level.
func WithMinSeverity(severity DiagnosticSeverity) DiagnosticsServiceOption {
	return func(ds *DiagnosticsService) {
		ds.minSeverity = severity
	}
}

// WithDiagnosticsDebounce sets the change-callback debounce window.
func WithDiagnosticsDebounce(d time.Duration) DiagnosticsServiceOption {
	return func(ds *DiagnosticsService) {
		ds.debounceDelay = d
	}
}

// WithMaxDiagnosticsPerFile caps how many diagnostics one file keeps.
func WithMaxDiagnosticsPerFile(max int) DiagnosticsServiceOption {
	return func(ds *DiagnosticsService) {
		ds.maxPerFile = max
	}
}

// WithDiagnosticsChangeHandler installs the change callback.
func WithDiagnosticsChangeHandler(handler func(uri DocumentURI, diagnostics []Diagnostic)) DiagnosticsServiceOption {
	return func(ds *DiagnosticsService) {
		ds.onChange = handler
	}
}

// WithEnabledSources keeps only diagnostics from the named sources.
func WithEnabledSources(sources []string) DiagnosticsServiceOption {
	return func(ds *DiagnosticsService) {
		ds.enabledSources = make(map[string]bool, len(sources))
		for _, s := range sources {
			ds.enabledSources[s] = true
		}
	}
}

// NewDiagnosticsService creates the service and registers it as the
// manager's diagnostics sink.
func NewDiagnosticsService(mgr *Manager, opts ...DiagnosticsServiceOption) *DiagnosticsService {
	ds := &DiagnosticsService{
		manager:       mgr,
		files:         make(map[DocumentURI]*FileDiagnostics),
		minSeverity:   DiagnosticSeverityHint,
		debounceDelay: 100 * time.Millisecond,
		maxPerFile:    1000,
		pending:       make(map[DocumentURI]*time.Timer),
		generation:    make(map[DocumentURI]uint64),
	}
	for _, opt := range opts {
		opt(ds)
	}

	if mgr != nil {
		mgr.mu.Lock()
		mgr.diagnosticsCb = ds.handleDiagnostics
		mgr.mu.Unlock()
	}
	return ds
}

// handleDiagnostics ingests one publishDiagnostics notification.
func (ds *DiagnosticsService) handleDiagnostics(uri DocumentURI, diagnostics []Diagnostic) {
	kept := ds.filter(diagnostics)
	sortByPosition(kept)

	ds.mu.Lock()
	entry, ok := ds.files[uri]
	if !ok {
		entry = &FileDiagnostics{URI: uri, Path: URIToFilePath(uri)}
		ds.files[uri] = entry
	}
	entry.Diagnostics = kept
	entry.UpdatedAt = time.Now()
	entry.Version++
	entry.ErrorCount, entry.WarningCount, entry.InfoCount, entry.HintCount = countBySeverity(kept)

	callback := ds.onChange
	delay := ds.debounceDelay
	ds.generation[uri]++
	gen := ds.generation[uri]
	if t, ok := ds.pending[uri]; ok {
		t.Stop()
	}
	ds.mu.Unlock()

	if callback == nil {
		return
	}
	if delay <= 0 {
		callback(uri, kept)
		return
	}

	timer := time.AfterFunc(delay, func() {
		ds.mu.RLock()
		stillLatest := ds.generation[uri] == gen
		var current []Diagnostic
		if entry, ok := ds.files[uri]; ok {
			current = entry.Diagnostics
		}
		ds.mu.RUnlock()
		if stillLatest {
			callback(uri, current)
		}
	})

	ds.mu.Lock()
	ds.pending[uri] = timer
	ds.mu.Unlock()
}

// filter applies the severity floor, source allowlist, and per-file cap.
func (ds *DiagnosticsService) filter(diagnostics []Diagnostic) []Diagnostic {
	kept := make([]Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		severity := d.Severity
		if severity == 0 {
			severity = DiagnosticSeverityHint
		}
		if severity > ds.minSeverity {
			continue
		}
		if ds.enabledSources != nil && d.Source != "" && !ds.enabledSources[d.Source] {
			continue
		}
		kept = append(kept, d)
		if ds.maxPerFile > 0 && len(kept) >= ds.maxPerFile {
			break
		}
	}
	return kept
}

// GetDiagnostics returns a file's diagnostics, sorted by position.
func (ds *DiagnosticsService) GetDiagnostics(path string) []Diagnostic {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if entry, ok := ds.files[FilePathToURI(path)]; ok {
		return append([]Diagnostic(nil), entry.Diagnostics...)
	}
	return nil
}

// GetFileDiagnostics returns a file's diagnostic record.
func (ds *DiagnosticsService) GetFileDiagnostics(path string) (*FileDiagnostics, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	entry, ok := ds.files[FilePathToURI(path)]
	if !ok {
		return nil, false
	}
	cp := *entry
	cp.Diagnostics = append([]Diagnostic(nil), entry.Diagnostics...)
	return &cp, true
}

// GetDiagnosticsAtLine returns the diagnostics whose range touches the
// line.
func (ds *DiagnosticsService) GetDiagnosticsAtLine(path string, line int) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.GetDiagnostics(path) {
		if line >= d.Range.Start.Line && line <= d.Range.End.Line {
			out = append(out, d)
		}
	}
	return out
}

// GetDiagnosticsAtPosition returns the diagnostics covering pos.
func (ds *DiagnosticsService) GetDiagnosticsAtPosition(path string, pos Position) []Diagnostic {
	var out []Diagnostic
	for _, d := range ds.GetDiagnostics(path) {
		if IsPositionInRange(pos, d.Range) {
			out = append(out, d)
		}
	}
	return out
}

// AllDiagnostics returns every file's diagnostics keyed by path.
func (ds *DiagnosticsService) AllDiagnostics() map[string][]Diagnostic {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	out := make(map[string][]Diagnostic, len(ds.files))
	for _, entry := range ds.files {
		if len(entry.Diagnostics) > 0 {
			out[entry.Path] = append([]Diagnostic(nil), entry.Diagnostics...)
		}
	}
	return out
}

// HasDiagnostics reports whether the file has any diagnostics.
func (ds *DiagnosticsService) HasDiagnostics(path string) bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	entry, ok := ds.files[FilePathToURI(path)]
	return ok && len(entry.Diagnostics) > 0
}

// Summary aggregates counts across every tracked file.
func (ds *DiagnosticsService) Summary() DiagnosticSummary {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	var s DiagnosticSummary
	for _, entry := range ds.files {
		if len(entry.Diagnostics) == 0 {
			continue
		}
		s.TotalFiles++
		s.TotalErrors += entry.ErrorCount
		s.TotalWarns += entry.WarningCount
		s.TotalInfos += entry.InfoCount
		s.TotalHints += entry.HintCount
		if entry.ErrorCount > 0 {
			s.FilesWithErr++
		}
	}
	return s
}

// Clear drops every file's diagnostics and cancels pending callbacks.
func (ds *DiagnosticsService) Clear() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	for uri, t := range ds.pending {
		t.Stop()
		delete(ds.pending, uri)
	}
	ds.files = make(map[DocumentURI]*FileDiagnostics)
}

// ClearFile drops one file's diagnostics.
func (ds *DiagnosticsService) ClearFile(path string) {
	uri := FilePathToURI(path)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if t, ok := ds.pending[uri]; ok {
		t.Stop()
		delete(ds.pending, uri)
	}
	delete(ds.files, uri)
}

// SetMinSeverity adjusts the severity floor for future notifications.
func (ds *DiagnosticsService) SetMinSeverity(severity DiagnosticSeverity) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.minSeverity = severity
}

// sortByPosition orders diagnostics by start position so next/prev
// navigation can scan linearly.
func sortByPosition(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(a, b int) bool {
		return ComparePositions(diagnostics[a].Range.Start, diagnostics[b].Range.Start) < 0
	})
}

// countBySeverity tallies a set by severity, treating absent severity as
// hint per the protocol's recommendation.
func countBySeverity(diagnostics []Diagnostic) (errs, warns, infos, hints int) {
	for _, d := range diagnostics {
		switch d.Severity {
		case DiagnosticSeverityError:
			errs++
		case DiagnosticSeverityWarning:
			warns++
		case DiagnosticSeverityInformation:
			infos++
		default:
			hints++
		}
	}
	return errs, warns, infos, hints
}
