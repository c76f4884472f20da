// Package highlight provides syntax highlighting for the renderer.
package highlight

import "strings"

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types for syntax highlighting.
// These follow TextMate/VS Code scope naming conventions at a high level.
const (
	TokenNone TokenType = iota

	// Comments
	TokenComment
	TokenCommentLine
	TokenCommentBlock
	TokenCommentDoc

	// Strings
	TokenString
	TokenStringQuoted
	TokenStringInterpolated
	TokenStringRegexp
	TokenStringEscape

	// Numbers
	TokenNumber
	TokenNumberInteger
	TokenNumberFloat
	TokenNumberHex
	TokenNumberOctal
	TokenNumberBinary

	// Keywords
	TokenKeyword
	TokenKeywordControl     // if, else, for, while, switch, case, return, break, continue
	TokenKeywordOperator    // new, delete, typeof, instanceof
	TokenKeywordOther       // package, import, export, from
	TokenKeywordDeclaration // var, let, const, func, type, struct, interface

	// Operators and punctuation
	TokenOperator
	TokenOperatorAssignment
	TokenOperatorComparison
	TokenOperatorArithmetic
	TokenOperatorLogical
	TokenPunctuation
	TokenPunctuationBracket
	TokenPunctuationDelimiter

	// Identifiers
	TokenIdentifier
	TokenVariable
	TokenVariableParameter
	TokenVariableOther
	TokenConstant
	TokenConstantLanguage // true, false, nil, null

	// Functions
	TokenFunction
	TokenFunctionDeclaration
	TokenFunctionCall
	TokenFunctionMethod
	TokenFunctionBuiltin

	// Types
	TokenTypeName
	TokenTypeBuiltin   // int, string, bool, etc.
	TokenTypeClass     // class names
	TokenTypeInterface // interface names
	TokenTypeStruct    // struct names
	TokenTypeEnum      // enum names
	TokenTypeParameter // generic type parameters

	// Storage
	TokenStorage
	TokenStorageType     // class, struct, enum, interface
	TokenStorageModifier // public, private, static, const

	// Support
	TokenSupport
	TokenSupportFunction
	TokenSupportClass
	TokenSupportType
	TokenSupportConstant
	TokenSupportVariable

	// Markup (for markdown, HTML, etc.)
	TokenMarkup
	TokenMarkupHeading
	TokenMarkupBold
	TokenMarkupItalic
	TokenMarkupUnderline
	TokenMarkupStrike
	TokenMarkupQuote
	TokenMarkupList
	TokenMarkupLink
	TokenMarkupCode
	TokenMarkupRaw

	// Invalid/Error
	TokenInvalid
	TokenInvalidDeprecated
	TokenInvalidIllegal

	// Special
	TokenMeta      // Meta information (e.g., preprocessor)
	TokenTag       // HTML/XML tags
	TokenAttribute // HTML/XML attributes
	TokenNamespace // Namespace identifiers
	TokenLabel     // Labels (goto targets, etc.)

	// Editor-specific (not for syntax, for UI hints)
	TokenEditorWhitespace
	TokenEditorIndentGuide
	TokenEditorLineNumber
	TokenEditorSelection
	TokenEditorCursor

	// Sentinel for iteration
	tokenTypeCount
)

// String returns the type's dotted scope name.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) && tokenTypeNames[t] != "" {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Category predicates. Each token family occupies a contiguous constant
// run, so membership is a range check.
func (t TokenType) IsComment() bool    { return t >= TokenComment && t <= TokenCommentDoc }
func (t TokenType) IsString() bool     { return t >= TokenString && t <= TokenStringEscape }
func (t TokenType) IsNumber() bool     { return t >= TokenNumber && t <= TokenNumberBinary }
func (t TokenType) IsKeyword() bool    { return t >= TokenKeyword && t <= TokenKeywordDeclaration }
func (t TokenType) IsOperator() bool   { return t >= TokenOperator && t <= TokenPunctuationDelimiter }
func (t TokenType) IsIdentifier() bool { return t >= TokenIdentifier && t <= TokenConstantLanguage }
func (t TokenType) IsFunction() bool   { return t >= TokenFunction && t <= TokenFunctionBuiltin }
func (t TokenType) IsType() bool       { return t >= TokenTypeName && t <= TokenTypeParameter }

// Token is one highlighted span on a line, in buffer columns.
type Token struct {
	Type     TokenType
	StartCol uint32
	EndCol   uint32 // exclusive
	Text     string // optional, for debugging
}

// Len returns the token's width in columns.
func (t Token) Len() uint32 { return t.EndCol - t.StartCol }

// Contains reports whether col falls inside the token.
func (t Token) Contains(col uint32) bool {
	return col >= t.StartCol && col < t.EndCol
}

// LexerState carries multi-line lexing context (an open block comment
// or string) from one line into the next.
type LexerState uint32

const (
	LexerStateNormal LexerState = iota
	LexerStateBlockComment
	LexerStateBlockCommentDoc
	LexerStateStringDouble
	LexerStateStringSingle
	LexerStateStringBacktick
	LexerStateStringRaw
	LexerStateStringHeredoc
)

// TokenLine is one line's sorted tokens plus the state the lexer ended
// the line in.
type TokenLine struct {
	Line   uint32
	Tokens []Token
	State  LexerState
}

// TokenAt returns the token covering col, if any. Tokens are sorted by
// start column, so the scan stops at the first token past it.
func (tl TokenLine) TokenAt(col uint32) (Token, bool) {
	for _, tok := range tl.Tokens {
		if tok.Contains(col) {
			return tok, true
		}
		if tok.StartCol > col {
			break
		}
	}
	return Token{}, false
}

// TokenTypeFromString resolves a dotted scope name to a TokenType,
// falling back through parent scopes ("string.quoted.single" tries
// "string.quoted" then "string") so unknown leaf scopes still inherit
// their family's style.
func TokenTypeFromString(scope string) TokenType {
	for scope != "" {
		if t, ok := scopeToToken[scope]; ok {
			return t
		}
		idx := strings.LastIndexByte(scope, '.')
		if idx < 0 {
			break
		}
		scope = scope[:idx]
	}
	return TokenNone
}

// Scope returns the type's dotted scope name.
func (t TokenType) Scope() string {
	return t.String()
}

var tokenTypeNames = []string{
	TokenNone: "none",

	TokenComment:      "comment",
	TokenCommentLine:  "comment.line",
	TokenCommentBlock: "comment.block",
	TokenCommentDoc:   "comment.block.documentation",

	TokenString:             "string",
	TokenStringQuoted:       "string.quoted",
	TokenStringInterpolated: "string.interpolated",
	TokenStringRegexp:       "string.regexp",
	TokenStringEscape:       "string.escape",

	TokenNumber:        "number",
	TokenNumberInteger: "number.integer",
	TokenNumberFloat:   "number.float",
	TokenNumberHex:     "number.hex",
	TokenNumberOctal:   "number.octal",
	TokenNumberBinary:  "number.binary",

	TokenKeyword:            "keyword",
	TokenKeywordControl:     "keyword.control",
	TokenKeywordOperator:    "keyword.operator",
	TokenKeywordOther:       "keyword.other",
	TokenKeywordDeclaration: "keyword.declaration",

	TokenOperator:             "operator",
	TokenOperatorAssignment:   "operator.assignment",
	TokenOperatorComparison:   "operator.comparison",
	TokenOperatorArithmetic:   "operator.arithmetic",
	TokenOperatorLogical:      "operator.logical",
	TokenPunctuation:          "punctuation",
	TokenPunctuationBracket:   "punctuation.bracket",
	TokenPunctuationDelimiter: "punctuation.delimiter",

	TokenIdentifier:        "identifier",
	TokenVariable:          "variable",
	TokenVariableParameter: "variable.parameter",
	TokenVariableOther:     "variable.other",
	TokenConstant:          "constant",
	TokenConstantLanguage:  "constant.language",

	TokenFunction:            "function",
	TokenFunctionDeclaration: "function.declaration",
	TokenFunctionCall:        "function.call",
	TokenFunctionMethod:      "function.method",
	TokenFunctionBuiltin:     "function.builtin",

	TokenTypeName:      "type",
	TokenTypeBuiltin:   "type.builtin",
	TokenTypeClass:     "type.class",
	TokenTypeInterface: "type.interface",
	TokenTypeStruct:    "type.struct",
	TokenTypeEnum:      "type.enum",
	TokenTypeParameter: "type.parameter",

	TokenStorage:         "storage",
	TokenStorageType:     "storage.type",
	TokenStorageModifier: "storage.modifier",

	TokenSupport:         "support",
	TokenSupportFunction: "support.function",
	TokenSupportClass:    "support.class",
	TokenSupportType:     "support.type",
	TokenSupportConstant: "support.constant",
	TokenSupportVariable: "support.variable",

	TokenMarkup:          "markup",
	TokenMarkupHeading:   "markup.heading",
	TokenMarkupBold:      "markup.bold",
	TokenMarkupItalic:    "markup.italic",
	TokenMarkupUnderline: "markup.underline",
	TokenMarkupStrike:    "markup.strike",
	TokenMarkupQuote:     "markup.quote",
	TokenMarkupList:      "markup.list",
	TokenMarkupLink:      "markup.link",
	TokenMarkupCode:      "markup.code",
	TokenMarkupRaw:       "markup.raw",

	TokenInvalid:           "invalid",
	TokenInvalidDeprecated: "invalid.deprecated",
	TokenInvalidIllegal:    "invalid.illegal",

	TokenMeta:      "meta",
	TokenTag:       "tag",
	TokenAttribute: "attribute",
	TokenNamespace: "namespace",
	TokenLabel:     "label",

	TokenEditorWhitespace:  "editor.whitespace",
	TokenEditorIndentGuide: "editor.indent-guide",
	TokenEditorLineNumber:  "editor.line-number",
	TokenEditorSelection:   "editor.selection",
	TokenEditorCursor:      "editor.cursor",
}

// scopeToToken inverts the name table for scope lookup.
var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" {
			m[name] = TokenType(i)
		}
	}
	return m
}()
