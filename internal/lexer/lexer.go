package lexer

import (
	"fmt"

	"pasnav/internal/diag"
	"pasnav/internal/source"
	"pasnav/internal/token"
)

// Directive is a compiler directive found inside a comment, e.g.
// {$I filename}. The span covers the whole comment.
type Directive struct {
	Text string
	Span source.Span
}

// Lexer produces the significant tokens of one Pascal source file.
// Comments and whitespace are skipped; directives hidden in comments
// are handed to OnDirective as they are passed over.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token

	// OnDirective, when set, receives every compiler directive.
	OnDirective func(Directive)

	sloc     uint32
	lastLine uint32 // last line that contributed to sloc, 0 = none
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
	}
}

// Sloc returns the number of lines seen so far that carry at least one
// significant token. Blank and comment-only lines do not count.
func (lx *Lexer) Sloc() uint32 {
	return lx.sloc
}

// File returns the file this lexer reads.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next returns the next significant token. After EOF it always
// returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case isDigit(ch):
		tok = lx.scanNumber()
	case ch == '$':
		tok = lx.scanHexNumber()
	case ch == '\'':
		tok = lx.scanString()
	default:
		tok = lx.scanOperator()
	}

	lx.countLine(tok.Span.Start)
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) countLine(off uint32) {
	line := lx.file.Pos(off).Line
	if line != lx.lastLine {
		lx.lastLine = line
		lx.sloc++
	}
}

func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lx.cursor.Bump()
		case ch == '{':
			lx.skipComment("{", "}")
		case ch == '(':
			if _, b1, ok := lx.cursor.Peek2(); ok && b1 == '*' {
				lx.skipComment("(*", "*)")
			} else {
				return
			}
		default:
			return
		}
	}
}

// skipComment consumes a comment and surfaces a directive if the body
// starts with '$'.
func (lx *Lexer) skipComment(open, close string) {
	m := lx.cursor.Mark()
	for range open {
		lx.cursor.Bump()
	}
	bodyStart := lx.cursor.Off

	closed := false
	for !lx.cursor.EOF() {
		if lx.matchString(close) {
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	bodyEnd := lx.cursor.Off
	if closed {
		for range close {
			lx.cursor.Bump()
		}
	} else {
		diag.ReportError(lx.reporter, diag.LexUnterminatedComment, lx.cursor.SpanFrom(m),
			"unterminated comment")
	}

	body := string(lx.file.Content[bodyStart:bodyEnd])
	if len(body) > 0 && body[0] == '$' && lx.OnDirective != nil {
		lx.OnDirective(Directive{Text: body, Span: lx.cursor.SpanFrom(m)})
	}
}

func (lx *Lexer) matchString(s string) bool {
	if int(lx.cursor.Off)+len(s) > len(lx.file.Content) {
		return false
	}
	return string(lx.file.Content[lx.cursor.Off:int(lx.cursor.Off)+len(s)]) == s
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(m)
	text := string(lx.file.Content[span.Start:span.End])
	if kind, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kind, Span: span, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: span, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	kind := token.IntLit
	for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// fraction, but not the '..' subrange operator
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDigit(b1) {
		kind = token.RealLit
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if ch := lx.cursor.Peek(); ch == 'e' || ch == 'E' {
		kind = token.RealLit
		lx.cursor.Bump()
		if ch := lx.cursor.Peek(); ch == '+' || ch == '-' {
			lx.cursor.Bump()
		}
		if !isDigit(lx.cursor.Peek()) {
			diag.ReportError(lx.reporter, diag.LexBadNumber, lx.cursor.SpanFrom(m),
				"malformed exponent in real literal")
		}
		for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}

func (lx *Lexer) scanHexNumber() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	n := 0
	for !lx.cursor.EOF() && isHexDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	span := lx.cursor.SpanFrom(m)
	if n == 0 {
		diag.ReportError(lx.reporter, diag.LexBadNumber, span, "'$' without hex digits")
		return token.Token{Kind: token.Invalid, Span: span, Text: "$"}
	}
	return token.Token{Kind: token.IntLit, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}

func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			diag.ReportError(lx.reporter, diag.LexUnterminatedString, lx.cursor.SpanFrom(m),
				"unterminated string literal")
			break
		}
		ch := lx.cursor.Bump()
		if ch == '\'' {
			// doubled quote is an escaped quote
			if lx.cursor.Peek() == '\'' {
				lx.cursor.Bump()
				continue
			}
			break
		}
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.StringLit, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}

func (lx *Lexer) scanOperator() token.Token {
	m := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	kind := token.Invalid
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '=':
		kind = token.Eq
	case '<':
		switch lx.cursor.Peek() {
		case '=':
			lx.cursor.Bump()
			kind = token.LtEq
		case '>':
			lx.cursor.Bump()
			kind = token.NotEq
		default:
			kind = token.Lt
		}
	case '>':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.GtEq
		} else {
			kind = token.Gt
		}
	case ':':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.Assign
		} else {
			kind = token.Colon
		}
	case ';':
		kind = token.Semi
	case ',':
		kind = token.Comma
	case '.':
		if lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
			kind = token.DotDot
		} else {
			kind = token.Dot
		}
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '^':
		kind = token.Caret
	case '@':
		kind = token.At
	}
	span := lx.cursor.SpanFrom(m)
	if kind == token.Invalid {
		diag.ReportWarning(lx.reporter, diag.LexUnknownChar, span,
			fmt.Sprintf("unexpected character %q", ch))
	}
	return token.Token{Kind: kind, Span: span, Text: string(lx.file.Content[span.Start:span.End])}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
