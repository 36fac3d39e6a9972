package token

import (
	"pasnav/internal/source"
)

// Token represents a single significant source token with its location.
// Text keeps the source spelling; keyword recognition folds case but
// identifier spellings are preserved for display.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAnd && t.Kind <= KwWith
}

// IsEOF reports whether the token ends the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }
