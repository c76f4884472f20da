package highlight

import "testing"

func TestTokenTypeCategories(t *testing.T) {
	tests := []struct {
		tok  TokenType
		pred func(TokenType) bool
		want bool
	}{
		{TokenCommentDoc, TokenType.IsComment, true},
		{TokenStringEscape, TokenType.IsString, true},
		{TokenNumberHex, TokenType.IsNumber, true},
		{TokenKeywordControl, TokenType.IsKeyword, true},
		{TokenPunctuationBracket, TokenType.IsOperator, true},
		{TokenConstantLanguage, TokenType.IsIdentifier, true},
		{TokenFunctionBuiltin, TokenType.IsFunction, true},
		{TokenTypeParameter, TokenType.IsType, true},
		{TokenComment, TokenType.IsString, false},
		{TokenString, TokenType.IsKeyword, false},
	}
	for _, tt := range tests {
		if got := tt.pred(tt.tok); got != tt.want {
			t.Errorf("category of %v = %v, want %v", tt.tok, got, tt.want)
		}
	}
}

func TestTokenTypeNames(t *testing.T) {
	if TokenCommentLine.String() != "comment.line" {
		t.Errorf("name = %q", TokenCommentLine.String())
	}
	if TokenKeywordControl.Scope() != "keyword.control" {
		t.Errorf("scope = %q", TokenKeywordControl.Scope())
	}
	if TokenType(9999).String() != "unknown" {
		t.Error("out-of-range type should be unknown")
	}
}

func TestTokenTypeFromString(t *testing.T) {
	tests := []struct {
		scope string
		want  TokenType
	}{
		{"comment.line", TokenCommentLine},
		{"keyword.control", TokenKeywordControl},
		// Unknown leaf scopes inherit the nearest known parent.
		{"string.quoted.single", TokenStringQuoted},
		{"keyword.control.flow.extra", TokenKeywordControl},
		{"totally.unknown", TokenNone},
		{"", TokenNone},
	}
	for _, tt := range tests {
		if got := TokenTypeFromString(tt.scope); got != tt.want {
			t.Errorf("from %q = %v, want %v", tt.scope, got, tt.want)
		}
	}
}

func TestTokenGeometry(t *testing.T) {
	tok := Token{Type: TokenString, StartCol: 4, EndCol: 9}
	if tok.Len() != 5 {
		t.Errorf("len = %d", tok.Len())
	}
	if !tok.Contains(4) || !tok.Contains(8) || tok.Contains(9) || tok.Contains(3) {
		t.Error("containment boundaries wrong")
	}
}

func TestTokenLineTokenAt(t *testing.T) {
	tl := TokenLine{Tokens: []Token{
		{Type: TokenKeyword, StartCol: 0, EndCol: 3},
		{Type: TokenIdentifier, StartCol: 4, EndCol: 8},
	}}

	if tok, ok := tl.TokenAt(1); !ok || tok.Type != TokenKeyword {
		t.Errorf("at 1 = %+v, ok=%v", tok, ok)
	}
	if tok, ok := tl.TokenAt(5); !ok || tok.Type != TokenIdentifier {
		t.Errorf("at 5 = %+v, ok=%v", tok, ok)
	}
	if _, ok := tl.TokenAt(3); ok {
		t.Error("gap column should have no token")
	}
	if _, ok := tl.TokenAt(20); ok {
		t.Error("past-end column should have no token")
	}
}
