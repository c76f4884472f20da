package overlay

import (
	"github.com/radiorambo/fresh/internal/renderer/core"
)

// DiagnosticSeverity mirrors the LSP severity levels (Error=1..Hint=4).
// Defined here rather than imported from the lsp package so overlay stays
// free of the protocol layer.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// DiagnosticPriority maps a diagnostic severity to its rendering priority,
// so errors always draw over warnings and warnings over hints.
func DiagnosticPriority(severity DiagnosticSeverity) Priority {
	switch severity {
	case SeverityError:
		return PriorityCritical
	case SeverityWarning:
		return PriorityHigh
	case SeverityInformation:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

// DiagnosticOverlay renders an LSP diagnostic as an underline across its
// range, with the message available for status line / hover display.
type DiagnosticOverlay struct {
	*BaseOverlay

	severity DiagnosticSeverity
	message  string
	source   string
	style    core.Style
}

// NewDiagnosticOverlay creates a diagnostic overlay for the given range.
func NewDiagnosticOverlay(id string, rng Range, severity DiagnosticSeverity, message, source string, style core.Style) *DiagnosticOverlay {
	return &DiagnosticOverlay{
		BaseOverlay: NewBaseOverlay(id, TypeDiagnostic, DiagnosticPriority(severity), rng),
		severity:    severity,
		message:     message,
		source:      source,
		style:       style,
	}
}

// Severity returns the diagnostic's severity.
func (d *DiagnosticOverlay) Severity() DiagnosticSeverity {
	return d.severity
}

// Message returns the diagnostic message.
func (d *DiagnosticOverlay) Message() string {
	return d.message
}

// Source returns the diagnostic's reporting source (e.g. the language
// server or linter name), empty if the server didn't supply one.
func (d *DiagnosticOverlay) Source() string {
	return d.source
}

// DiagnosticLines returns the distinct lines carrying at least one
// visible diagnostic overlay, for the gutter's margin indicators.
func (m *Manager) DiagnosticLines() []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[uint32]bool)
	var lines []uint32
	for _, ov := range m.overlays {
		d, ok := ov.(*DiagnosticOverlay)
		if !ok || !d.IsVisible() {
			continue
		}
		for line := d.rng.Start.Line; line <= d.rng.End.Line; line++ {
			if !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// DiagnosticOnLine reports the most severe visible diagnostic touching
// the line, if any.
func (m *Manager) DiagnosticOnLine(line uint32) (DiagnosticSeverity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	best := DiagnosticSeverity(0)
	found := false
	for _, ov := range m.overlays {
		d, ok := ov.(*DiagnosticOverlay)
		if !ok || !d.IsVisible() || !d.rng.ContainsLine(line) {
			continue
		}
		if !found || d.severity < best {
			best = d.severity
			found = true
		}
	}
	return best, found
}

// SpansForLine returns the underline span for a specific line. Diagnostics
// only style existing content; they never insert text.
func (d *DiagnosticOverlay) SpansForLine(line uint32) []Span {
	if !d.visible || !d.rng.ContainsLine(line) {
		return nil
	}

	startCol := uint32(0)
	if line == d.rng.Start.Line {
		startCol = d.rng.Start.Col
	}

	endCol := uint32(0)
	if line == d.rng.End.Line {
		endCol = d.rng.End.Col
		if endCol <= startCol {
			endCol = startCol + 1
		}
	}

	return []Span{
		{
			StartCol:       startCol,
			EndCol:         endCol,
			Style:          d.style,
			ReplaceContent: false,
		},
	}
}
