package driver

import (
	"pasnav/internal/lexer"
	"pasnav/internal/source"
	"pasnav/internal/token"
)

// Use is one dependency found by the uses pre-scan.
type Use struct {
	Name string
	Span source.Span
}

// findUses is a cheap, parser-independent scan for the first uses
// clause. It reads tokens only until the clause's closing semicolon,
// or until a keyword proves no uses clause can follow.
func findUses(file *source.File) []Use {
	lx := lexer.New(file, nil)
	var res []Use
	t := lx.Next()
	for t.Kind != token.EOF {
		switch t.Kind {
		case token.KwUses:
			t = lx.Next()
			for t.Kind != token.EOF && t.Kind != token.Semi {
				if t.Kind == token.Comma {
					t = lx.Next()
					continue
				}
				if t.Kind == token.Ident {
					use := Use{Name: t.Text, Span: t.Span}
					t = lx.Next()
					if t.Kind == token.Slash {
						// unitname/realname records the real name
						t = lx.Next()
						if t.Kind == token.Ident {
							res = append(res, Use{Name: t.Text, Span: t.Span})
							t = lx.Next()
						}
					} else {
						res = append(res, use)
					}
				} else {
					t = lx.Next()
				}
			}
			return res
		case token.KwLabel, token.KwVar, token.KwConst, token.KwType,
			token.KwProcedure, token.KwFunction, token.KwImplementation:
			return res
		}
		t = lx.Next()
	}
	return res
}
