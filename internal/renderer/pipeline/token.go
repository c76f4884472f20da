package pipeline

import (
	"github.com/radiorambo/fresh/internal/renderer/core"
)

// NoSource marks a token or character that was injected by a transform
// and has no originating byte in the buffer.
const NoSource = -1

// TokenKind discriminates the token union.
type TokenKind uint8

const (
	// TokenText is a run of non-whitespace source bytes, or a single tab.
	TokenText TokenKind = iota
	// TokenSpace is one ASCII space.
	TokenSpace
	// TokenNewline is one line break (LF, CR, or CRLF).
	TokenNewline
	// TokenBreak is a synthetic wrap point. Only the wrapper emits these;
	// they never carry a source offset.
	TokenBreak
)

// Token is one element of the view token stream.
type Token struct {
	Kind TokenKind

	// Text is the token's content. For TokenNewline it holds the actual
	// break bytes ("\n", "\r", or "\r\n") so the original byte sequence
	// can be reconstructed. Empty for TokenBreak.
	Text string

	// Src is the byte offset of the token's first byte in the buffer, or
	// NoSource for injected content.
	Src int

	// Style is the token's resolved display style. Transforms may restyle
	// tokens; the zero value renders with the view's default style.
	Style core.Style
}

// HasSource reports whether the token originated from buffer bytes.
func (t Token) HasSource() bool {
	return t.Src != NoSource
}

// Newline constructs a source newline token for the given break bytes.
func Newline(breakBytes string, src int) Token {
	return Token{Kind: TokenNewline, Text: breakBytes, Src: src}
}

// InjectedNewline constructs a newline token with no source offset, for
// transforms that insert their own line boundaries (headers, banners).
func InjectedNewline() Token {
	return Token{Kind: TokenNewline, Text: "\n", Src: NoSource}
}

// InjectedText constructs a text token with no source offset.
func InjectedText(s string) Token {
	return Token{Kind: TokenText, Text: s, Src: NoSource}
}

// Tokenize converts source bytes into the base token stream. Runs of
// non-whitespace bytes become single text tokens; each ASCII space is its
// own token; tabs are single-byte text tokens so the assembler can expand
// them in place; LF, CR, and CRLF each produce one newline token, with
// CRLF consumed as a single two-byte break.
func Tokenize(src []byte) []Token {
	tokens := make([]Token, 0, len(src)/4+1)
	i := 0
	for i < len(src) {
		b := src[i]
		switch {
		case b == ' ':
			tokens = append(tokens, Token{Kind: TokenSpace, Text: " ", Src: i})
			i++
		case b == '\t':
			tokens = append(tokens, Token{Kind: TokenText, Text: "\t", Src: i})
			i++
		case b == '\n':
			tokens = append(tokens, Newline("\n", i))
			i++
		case b == '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				tokens = append(tokens, Newline("\r\n", i))
				i += 2
			} else {
				tokens = append(tokens, Newline("\r", i))
				i++
			}
		default:
			start := i
			for i < len(src) && !isTokenBoundary(src[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: TokenText, Text: string(src[start:i]), Src: start})
		}
	}
	return tokens
}

func isTokenBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Transform is a pure function over the token stream. Transforms run
// before wrapping and must not emit TokenBreak.
type Transform func([]Token) []Token

// ApplyTransforms runs each transform over the stream in order.
func ApplyTransforms(tokens []Token, transforms ...Transform) []Token {
	for _, tr := range transforms {
		if tr == nil {
			continue
		}
		tokens = tr(tokens)
	}
	return tokens
}

// Restyle returns a transform that applies style to every token whose
// source offset lies in [start, end). Injected tokens are left alone.
func Restyle(start, end int, style core.Style) Transform {
	return func(tokens []Token) []Token {
		out := make([]Token, len(tokens))
		copy(out, tokens)
		for i, t := range out {
			if t.HasSource() && t.Src >= start && t.Src < end {
				out[i].Style = style
			}
		}
		return out
	}
}

// InjectHeader returns a transform that prepends a header line above the
// stream. The header's text and newline carry no source offset, so the
// gutter shows no line number for it and cursor mapping skips it.
func InjectHeader(text string, style core.Style) Transform {
	return func(tokens []Token) []Token {
		header := InjectedText(text)
		header.Style = style
		out := make([]Token, 0, len(tokens)+2)
		out = append(out, header, InjectedNewline())
		return append(out, tokens...)
	}
}
