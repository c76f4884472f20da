package buffer

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithLineEnding sets the line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) { b.lineEnding = le }
}

// WithTabWidth sets the tab width; non-positive widths are ignored.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithLF selects Unix line endings.
func WithLF() Option { return WithLineEnding(LineEndingLF) }

// WithCRLF selects Windows line endings.
func WithCRLF() Option { return WithLineEnding(LineEndingCRLF) }

// WithCR selects classic Mac line endings.
func WithCR() Option { return WithLineEnding(LineEndingCR) }

// DetectLineEnding picks the majority break style in text, defaulting
// to LF for break-less content. Ties resolve CRLF over CR over LF.
func DetectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case crlf > 0 && crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// WithDetectedLineEnding sets the style from the content itself.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
