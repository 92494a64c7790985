package token

// Type identifies the lexical class of a token.
type Type string

const (
	IDENT  Type = "IDENT"
	INT    Type = "INT"
	STRING Type = "STRING"
	BOOL   Type = "BOOL"
	LPAREN Type = "("
	EOF    Type = "EOF"
)

// Token is a source position attached to every AST node. Declarations that
// are built programmatically (rather than parsed) may carry a zero Token;
// diagnostics then report only the unit, not a position.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

// At builds an identifier token at a position. Used by declaration builders
// so diagnostics can point somewhere useful.
func At(lexeme string, line, column int) Token {
	return Token{Type: IDENT, Lexeme: lexeme, Line: line, Column: column}
}

// IsZero reports whether the token carries no position information.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0 && t.Lexeme == ""
}
