package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Rule pairs a compiled pattern with the token type it produces. When
// Submatch is non-zero, that capture group is highlighted instead of
// the whole match.
type Rule struct {
	Pattern   *regexp.Regexp
	TokenType TokenType
	Submatch  int
}

// multiSpan is a multi-line construct: an open delimiter, its closing
// delimiter, and the state carried across lines while it stays open.
type multiSpan struct {
	open      string
	close     string
	tokenType TokenType
	state     LexerState
}

// SimpleHighlighter is a line-oriented regex lexer: multi-line spans
// first, then pattern rules, then keyword/identifier runs, each pass
// claiming bytes so later passes can't restyle them. It exists as the
// built-in fallback behind the Highlighter interface; richer engines
// plug in behind the same interface.
type SimpleHighlighter struct {
	language   string
	extensions []string
	rules      []Rule
	keywords   map[string]TokenType
	spans      []multiSpan
}

// NewSimpleHighlighter creates an empty highlighter for a language.
func NewSimpleHighlighter(language string, extensions []string) *SimpleHighlighter {
	return &SimpleHighlighter{
		language:   language,
		extensions: extensions,
		keywords:   make(map[string]TokenType),
	}
}

// AddRule registers a regex rule. The pattern must compile; rule
// construction happens at startup with literal patterns.
func (h *SimpleHighlighter) AddRule(pattern string, tokenType TokenType) *SimpleHighlighter {
	h.rules = append(h.rules, Rule{
		Pattern:   regexp.MustCompile(pattern),
		TokenType: tokenType,
	})
	return h
}

// AddKeywords registers identifier words of one token type.
func (h *SimpleHighlighter) AddKeywords(tokenType TokenType, keywords ...string) *SimpleHighlighter {
	for _, kw := range keywords {
		h.keywords[kw] = tokenType
	}
	return h
}

// AddMultiLine registers a construct that may span lines, like a block
// comment.
func (h *SimpleHighlighter) AddMultiLine(open, close string, tokenType TokenType, state LexerState) *SimpleHighlighter {
	h.spans = append(h.spans, multiSpan{open: open, close: close, tokenType: tokenType, state: state})
	return h
}

// Language returns the language name.
func (h *SimpleHighlighter) Language() string { return h.language }

// FileExtensions returns the extensions this highlighter claims.
func (h *SimpleHighlighter) FileExtensions() []string { return h.extensions }

// HighlightLine lexes one line given the state the previous line ended
// in, and returns the sorted tokens plus the state this line ends in.
func (h *SimpleHighlighter) HighlightLine(line string, prevState LexerState) ([]Token, LexerState) {
	if prevState == LexerStateNormal {
		return h.lexLine(line, 0)
	}

	// Inside a multi-line construct: style up to its closing delimiter,
	// or the whole line if it stays open.
	span, ok := h.spanForState(prevState)
	if !ok {
		return nil, LexerStateNormal
	}
	idx := strings.Index(line, span.close)
	if idx < 0 {
		return []Token{{Type: span.tokenType, EndCol: uint32(len(line))}}, prevState
	}

	closeEnd := idx + len(span.close)
	tokens := []Token{{Type: span.tokenType, EndCol: uint32(closeEnd)}}
	rest, state := h.lexLine(line[closeEnd:], uint32(closeEnd))
	return append(tokens, rest...), state
}

// lexLine lexes text that starts in the normal state; base offsets all
// emitted columns.
func (h *SimpleHighlighter) lexLine(line string, base uint32) ([]Token, LexerState) {
	var tokens []Token
	claimed := make([]bool, len(line))
	state := LexerStateNormal

	emit := func(t TokenType, start, end int) {
		tokens = append(tokens, Token{
			Type:     t,
			StartCol: base + uint32(start),
			EndCol:   base + uint32(end),
		})
		for i := start; i < end && i < len(claimed); i++ {
			claimed[i] = true
		}
	}
	free := func(start, end int) bool {
		for i := start; i < end && i < len(claimed); i++ {
			if claimed[i] {
				return false
			}
		}
		return true
	}

	// Multi-line openers. One that doesn't close on this line claims
	// the rest of it and hands its state to the next line.
	for _, span := range h.spans {
		idx := strings.Index(line, span.open)
		if idx < 0 || !free(idx, idx+len(span.open)) {
			continue
		}
		rest := line[idx+len(span.open):]
		if closeIdx := strings.Index(rest, span.close); closeIdx >= 0 {
			emit(span.tokenType, idx, idx+len(span.open)+closeIdx+len(span.close))
		} else {
			emit(span.tokenType, idx, len(line))
			state = span.state
		}
	}

	// Regex rules in registration order.
	for _, rule := range h.rules {
		for _, m := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if rule.Submatch > 0 && len(m) > rule.Submatch*2+1 {
				start, end = m[rule.Submatch*2], m[rule.Submatch*2+1]
			}
			if start >= 0 && end > start && free(start, end) {
				emit(rule.TokenType, start, end)
			}
		}
	}

	// Identifier runs: keywords style as registered, the rest as plain
	// identifiers.
	for i := 0; i < len(line); {
		if claimed[i] || !isIdentStart(rune(line[i])) {
			i++
			continue
		}
		start := i
		for i < len(line) && isIdentPart(rune(line[i])) {
			i++
		}
		if free(start, i) {
			t := TokenIdentifier
			if kw, ok := h.keywords[line[start:i]]; ok {
				t = kw
			}
			emit(t, start, i)
		}
	}

	sort.Slice(tokens, func(a, b int) bool {
		return tokens[a].StartCol < tokens[b].StartCol
	})
	return tokens, state
}

func (h *SimpleHighlighter) spanForState(state LexerState) (multiSpan, bool) {
	for _, span := range h.spans {
		if span.state == state {
			return span, true
		}
	}
	return multiSpan{}, false
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

// Builtins returns a registry with the bundled language definitions.
// These are intentionally coarse; a server- or grammar-based engine can
// replace them per language behind the same Highlighter interface.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(goHighlighter())
	r.Register(jsonHighlighter())
	r.Register(markdownHighlighter())
	return r
}

func goHighlighter() *SimpleHighlighter {
	return NewSimpleHighlighter("go", []string{".go"}).
		AddMultiLine("/*", "*/", TokenCommentBlock, LexerStateBlockComment).
		AddMultiLine("`", "`", TokenStringQuoted, LexerStateStringBacktick).
		AddRule(`//.*$`, TokenCommentLine).
		AddRule(`"(?:[^"\\]|\\.)*"`, TokenStringQuoted).
		AddRule(`'(?:[^'\\]|\\.)*'`, TokenStringQuoted).
		AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumberHex).
		AddRule(`\b\d+\.\d+(?:[eE][+-]?\d+)?\b`, TokenNumberFloat).
		AddRule(`\b\d[\d_]*\b`, TokenNumberInteger).
		AddKeywords(TokenKeywordControl,
			"if", "else", "for", "range", "switch", "case", "default",
			"return", "break", "continue", "goto", "fallthrough",
			"select", "defer", "go").
		AddKeywords(TokenKeywordDeclaration,
			"func", "var", "const", "type", "struct", "interface", "map", "chan").
		AddKeywords(TokenKeywordOther, "package", "import").
		AddKeywords(TokenConstantLanguage, "true", "false", "nil", "iota").
		AddKeywords(TokenTypeBuiltin,
			"bool", "byte", "rune", "string", "error", "int", "int8",
			"int16", "int32", "int64", "uint", "uint8", "uint16",
			"uint32", "uint64", "uintptr", "float32", "float64",
			"complex64", "complex128", "any").
		AddKeywords(TokenFunctionBuiltin,
			"append", "cap", "close", "copy", "delete", "len", "make",
			"new", "panic", "recover", "print", "println", "min", "max", "clear")
}

func jsonHighlighter() *SimpleHighlighter {
	return NewSimpleHighlighter("json", []string{".json"}).
		AddRule(`"(?:[^"\\]|\\.)*"\s*:`, TokenAttribute).
		AddRule(`"(?:[^"\\]|\\.)*"`, TokenStringQuoted).
		AddRule(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`, TokenNumber).
		AddKeywords(TokenConstantLanguage, "true", "false", "null")
}

func markdownHighlighter() *SimpleHighlighter {
	return NewSimpleHighlighter("markdown", []string{".md", ".markdown"}).
		AddMultiLine("```", "```", TokenMarkupCode, LexerStateStringRaw).
		AddRule(`^#{1,6}\s.*$`, TokenMarkupHeading).
		AddRule("`[^`]+`", TokenMarkupCode).
		AddRule(`\*\*[^*]+\*\*`, TokenMarkupBold).
		AddRule(`\*[^*]+\*`, TokenMarkupItalic).
		AddRule(`\[[^\]]*\]\([^)]*\)`, TokenMarkupLink).
		AddRule(`^\s*[-*+]\s`, TokenMarkupList)
}
