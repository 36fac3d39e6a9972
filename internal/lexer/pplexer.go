package lexer

import (
	"fmt"
	"strings"

	"pasnav/internal/diag"
	"pasnav/internal/source"
	"pasnav/internal/token"
)

// IncludeResolver maps the file name of an include directive, seen from
// the file that contains the directive, to a real path.
type IncludeResolver interface {
	ResolveInclude(includerPath, name string) (string, bool)
}

// Include records one processed include directive. Span locates the
// directive inside the including file.
type Include struct {
	Path string
	Span source.Span
}

// PpLexer is the preprocessing lexer: it expands include directives by
// stacking a nested Lexer per included file, records every directive it
// expanded, and accumulates the source-line count over all files it
// touched.
type PpLexer struct {
	fset     *source.FileSet
	resolver IncludeResolver
	reporter diag.Reporter

	stack    []*ppEntry
	includes []Include
	sloc     uint32
	done     bool
	pushed   bool
}

type ppEntry struct {
	lx   *Lexer
	hold *token.Token
}

// NewPp creates a preprocessing lexer over the given root file.
func NewPp(fset *source.FileSet, file *source.File, resolver IncludeResolver, reporter diag.Reporter) *PpLexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	pp := &PpLexer{
		fset:     fset,
		resolver: resolver,
		reporter: reporter,
	}
	pp.push(file)
	return pp
}

// Includes returns the directives expanded so far, in encounter order.
func (pp *PpLexer) Includes() []Include {
	return pp.includes
}

// Sloc returns the summed source-line count of every file fully
// processed so far.
func (pp *PpLexer) Sloc() uint32 {
	return pp.sloc
}

// Next returns the next significant token across file boundaries:
// tokens of an included file are spliced in place of the directive.
func (pp *PpLexer) Next() token.Token {
	for {
		if len(pp.stack) == 0 {
			return token.Token{Kind: token.EOF}
		}
		e := pp.stack[len(pp.stack)-1]

		if e.hold != nil {
			tok := *e.hold
			e.hold = nil
			return tok
		}

		pp.pushed = false
		tok := e.lx.Next()
		if pp.pushed {
			// the token after the directive belongs behind the
			// included file's tokens
			if tok.Kind != token.EOF {
				e.hold = &tok
			}
			continue
		}
		if tok.Kind == token.EOF {
			if len(pp.stack) == 1 {
				if !pp.done {
					pp.done = true
					pp.sloc += e.lx.Sloc()
				}
				return tok
			}
			pp.sloc += e.lx.Sloc()
			pp.stack = pp.stack[:len(pp.stack)-1]
			continue
		}
		return tok
	}
}

func (pp *PpLexer) push(file *source.File) {
	lx := New(file, pp.reporter)
	lx.OnDirective = func(d Directive) { pp.handleDirective(lx, d) }
	pp.stack = append(pp.stack, &ppEntry{lx: lx})
}

// handleDirective reacts to {$I filename}; every other directive is
// passed over. {$I+} and {$I-} are io-checking toggles, not includes.
func (pp *PpLexer) handleDirective(from *Lexer, d Directive) {
	body := strings.TrimSpace(d.Text)
	if len(body) < 2 || (body[1] != 'I' && body[1] != 'i') {
		return
	}
	arg := strings.TrimSpace(body[2:])
	if arg == "" || arg[0] == '+' || arg[0] == '-' {
		return
	}

	if pp.resolver == nil {
		diag.ReportWarning(pp.reporter, diag.LexUnresolvedInclude, d.Span,
			fmt.Sprintf("cannot resolve include file %q", arg))
		return
	}
	path, ok := pp.resolver.ResolveInclude(from.File().Path, arg)
	if !ok {
		diag.ReportWarning(pp.reporter, diag.LexUnresolvedInclude, d.Span,
			fmt.Sprintf("cannot resolve include file %q", arg))
		return
	}

	pp.includes = append(pp.includes, Include{Path: path, Span: d.Span})

	id, err := pp.fset.Load(path)
	if err != nil {
		diag.ReportWarning(pp.reporter, diag.LexUnresolvedInclude, d.Span,
			fmt.Sprintf("cannot read include file %q: %v", path, err))
		return
	}
	pp.push(pp.fset.Get(id))
	pp.pushed = true
}
