package parser

import (
	"fmt"

	"pasnav/internal/source"
	"pasnav/internal/token"
)

// TokenSource delivers a significant-token stream, typically a
// preprocessing lexer.
type TokenSource interface {
	Next() token.Token
}

// Error is one structured parse error. Parsing never fails hard: the
// parser records errors and keeps whatever partial tree it built.
type Error struct {
	Path string
	Row  uint32
	Col  uint32
	Msg  string
}

func (e Error) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Row, e.Col, e.Msg)
}

// Parser builds the uniform syntax tree for one program or unit file.
type Parser struct {
	fset   *source.FileSet
	src    TokenSource
	cur    token.Token
	ahead  *token.Token
	errors []Error
}

func New(fset *source.FileSet, src TokenSource) *Parser {
	p := &Parser{fset: fset, src: src}
	p.cur = src.Next()
	return p
}

// Errors returns the parse errors in discovery order.
func (p *Parser) Errors() []Error {
	return p.errors
}

// Parse consumes the whole token stream and returns the tree root.
func (p *Parser) Parse() *Node {
	root := newNode(NodeRoot)
	switch p.cur.Kind {
	case token.KwProgram:
		root.add(p.program())
		p.expectEnd("program")
	case token.KwUnit:
		root.add(p.regularUnit())
		p.expectEnd("unit")
	case token.EOF:
		// empty file, empty tree
	default:
		p.errorf("expected 'program' or 'unit', found %s", p.describe(p.cur))
		p.skipTo(token.EOF)
	}
	return root
}

// expectEnd reports tokens left over after the closing '.' and drains
// the stream; line accounting upstream needs every file read to EOF.
func (p *Parser) expectEnd(what string) {
	if p.at(token.EOF) {
		return
	}
	p.errorf("unexpected text after %s end, found %s", what, p.describe(p.cur))
	p.skipTo(token.EOF)
}

// --- token plumbing -------------------------------------------------

func (p *Parser) next() token.Token {
	tok := p.cur
	if p.ahead != nil {
		p.cur = *p.ahead
		p.ahead = nil
	} else {
		p.cur = p.src.Next()
	}
	return tok
}

func (p *Parser) peek() token.Token {
	if p.ahead == nil {
		t := p.src.Next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur.Kind == k
}

func (p *Parser) accept(k token.Kind) bool {
	if p.cur.Kind == k {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) bool {
	if p.accept(k) {
		return true
	}
	p.errorf("expected %q, found %s", k.String(), p.describe(p.cur))
	return false
}

func (p *Parser) describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *Parser) errorf(format string, args ...any) {
	sp := p.cur.Span
	f := p.fset.Get(sp.File)
	pos := f.Pos(sp.Start)
	p.errors = append(p.errors, Error{
		Path: f.Path,
		Row:  pos.Line,
		Col:  pos.Col,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// skipTo drops tokens until one of the kinds (or EOF) is current.
func (p *Parser) skipTo(kinds ...token.Kind) {
	for !p.at(token.EOF) {
		for _, k := range kinds {
			if p.at(k) {
				return
			}
		}
		p.next()
	}
}

// --- program and unit -----------------------------------------------

func (p *Parser) program() *Node {
	n := newNode(NodeProgram)
	p.expect(token.KwProgram)
	if p.at(token.Ident) {
		n.add(leaf(p.next()))
	} else {
		p.errorf("expected program name, found %s", p.describe(p.cur))
	}
	if p.accept(token.LParen) { // program parameters
		p.skipTo(token.RParen, token.Semi)
		p.accept(token.RParen)
	}
	p.expect(token.Semi)
	if p.at(token.KwUses) {
		n.add(p.usesClause())
	}
	n.add(p.block())
	if p.at(token.KwBegin) {
		n.add(p.statementPart())
	}
	p.accept(token.Dot)
	return n
}

func (p *Parser) regularUnit() *Node {
	n := newNode(NodeRegularUnit)
	p.expect(token.KwUnit)
	if p.at(token.Ident) {
		n.add(leaf(p.next()))
	} else {
		p.errorf("expected unit name, found %s", p.describe(p.cur))
	}
	p.expect(token.Semi)
	if p.at(token.KwInterface) {
		n.add(p.interfacePart())
	} else {
		p.errorf("expected 'interface', found %s", p.describe(p.cur))
	}
	if p.at(token.KwImplementation) {
		n.add(p.implementationPart())
	}
	p.accept(token.KwEnd)
	p.accept(token.Dot)
	return n
}

func (p *Parser) usesClause() *Node {
	n := newNode(NodeUsesClause)
	p.expect(token.KwUses)
	for {
		if p.at(token.Ident) {
			n.add(leaf(p.next()))
			// optional /realname override
			if p.accept(token.Slash) && p.at(token.Ident) {
				n.add(leaf(p.next()))
			}
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Semi)
	return n
}

func (p *Parser) interfacePart() *Node {
	n := newNode(NodeInterfacePart)
	p.expect(token.KwInterface)
	if p.at(token.KwUses) {
		n.add(p.usesClause())
	}
	for {
		switch p.cur.Kind {
		case token.KwConst:
			n.add(p.constantDeclarationPart())
		case token.KwType:
			n.add(p.typeDeclarationPart())
		case token.KwVar:
			n.add(p.variableDeclarationPart())
		case token.KwProcedure, token.KwFunction:
			n.add(p.procedureAndFunctionInterfacePart())
		case token.KwImplementation, token.KwEnd, token.EOF:
			return n
		default:
			p.errorf("unexpected %s in interface part", p.describe(p.cur))
			p.next()
		}
	}
}

func (p *Parser) procedureAndFunctionInterfacePart() *Node {
	n := newNode(NodeProcedureAndFunctionDeclarationPart)
	for {
		switch p.cur.Kind {
		case token.KwProcedure:
			n.add(p.procedureHeading())
			p.expect(token.Semi)
		case token.KwFunction:
			n.add(p.functionHeading())
			p.expect(token.Semi)
		default:
			return n
		}
	}
}

func (p *Parser) implementationPart() *Node {
	n := newNode(NodeImplementationPart)
	p.expect(token.KwImplementation)
	if p.at(token.KwUses) {
		n.add(p.usesClause())
	}
	for {
		switch p.cur.Kind {
		case token.KwConst:
			n.add(p.constantDeclarationPart())
		case token.KwType:
			n.add(p.typeDeclarationPart())
		case token.KwVar:
			n.add(p.variableDeclarationPart())
		case token.KwLabel:
			n.add(p.labelDeclarationPart())
		case token.KwProcedure, token.KwFunction:
			n.add(p.subroutinePart())
		case token.KwEnd, token.EOF:
			return n
		default:
			p.errorf("unexpected %s in implementation part", p.describe(p.cur))
			p.next()
		}
	}
}

// --- declaration parts ----------------------------------------------

// block collects the declaration parts of a program or routine body.
func (p *Parser) block() *Node {
	n := newNode(NodeBlock)
	for {
		switch p.cur.Kind {
		case token.KwLabel:
			n.add(p.labelDeclarationPart())
		case token.KwConst:
			n.add(p.constantDeclarationPart())
		case token.KwType:
			n.add(p.typeDeclarationPart())
		case token.KwVar:
			n.add(p.variableDeclarationPart())
		case token.KwProcedure, token.KwFunction:
			n.add(p.procedureAndFunctionDeclarationPart())
		default:
			return n
		}
	}
}

func (p *Parser) labelDeclarationPart() *Node {
	n := newNode(NodeLabelDeclarationPart)
	p.expect(token.KwLabel)
	for {
		if p.at(token.IntLit) {
			lbl := newNode(NodeLabel)
			lbl.add(leaf(p.next()))
			n.add(lbl)
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Semi)
	return n
}

func (p *Parser) constantDeclarationPart() *Node {
	n := newNode(NodeConstantDeclarationPart)
	p.expect(token.KwConst)
	for p.at(token.Ident) {
		n.add(p.constantDeclaration())
	}
	return n
}

func (p *Parser) constantDeclaration() *Node {
	n := newNode(NodeConstantDeclaration)
	n.add(leaf(p.next())) // the constant name
	p.expect(token.Eq)
	n.add(p.expression())
	p.expect(token.Semi)
	return n
}

func (p *Parser) typeDeclarationPart() *Node {
	n := newNode(NodeTypeDeclarationPart)
	p.expect(token.KwType)
	for p.at(token.Ident) {
		n.add(p.typeDeclaration())
	}
	return n
}

func (p *Parser) typeDeclaration() *Node {
	n := newNode(NodeTypeDeclaration)
	n.add(leaf(p.next())) // the type name
	p.expect(token.Eq)
	n.add(p.typeSpec())
	p.expect(token.Semi)
	return n
}

func (p *Parser) variableDeclarationPart() *Node {
	n := newNode(NodeVariableDeclarationPart)
	p.expect(token.KwVar)
	for p.at(token.Ident) {
		n.add(p.variableDeclaration())
	}
	return n
}

func (p *Parser) variableDeclaration() *Node {
	n := newNode(NodeVariableDeclaration)
	n.add(p.identifierList())
	p.expect(token.Colon)
	n.add(p.typeSpec())
	p.expect(token.Semi)
	return n
}

func (p *Parser) identifierList() *Node {
	n := newNode(NodeIdentifierList)
	for {
		if p.at(token.Ident) {
			n.add(leaf(p.next()))
		} else {
			p.errorf("expected identifier, found %s", p.describe(p.cur))
		}
		if !p.accept(token.Comma) {
			return n
		}
	}
}

// --- types ----------------------------------------------------------

func (p *Parser) typeSpec() *Node {
	n := newNode(NodeTypeSpec)
	switch p.cur.Kind {
	case token.Caret:
		n.add(p.pointerType())
	case token.KwString:
		n.add(p.stringType())
	case token.KwPacked, token.KwArray, token.KwRecord, token.KwSet, token.KwFile:
		n.add(p.structuredType())
	default:
		n.add(p.simpleType())
	}
	return n
}

func (p *Parser) pointerType() *Node {
	n := newNode(NodePointerType)
	p.expect(token.Caret)
	n.add(p.typeIdentifier())
	return n
}

func (p *Parser) stringType() *Node {
	n := newNode(NodeStringType)
	p.expect(token.KwString)
	if p.accept(token.LBracket) {
		if p.at(token.Ident) {
			sa := newNode(NodeSizeAttribute)
			sa.add(leaf(p.next()))
			n.add(sa)
		} else {
			p.skipTo(token.RBracket, token.Semi)
		}
		p.expect(token.RBracket)
	}
	return n
}

func (p *Parser) simpleType() *Node {
	n := newNode(NodeSimpleType)
	switch {
	case p.at(token.LParen):
		n.add(p.enumeratedType())
	case p.at(token.Ident) && p.peek().Kind != token.DotDot:
		n.add(leaf(p.next()))
	default:
		n.add(p.subrangeType())
	}
	return n
}

func (p *Parser) enumeratedType() *Node {
	n := newNode(NodeEnumeratedType)
	p.expect(token.LParen)
	for {
		if p.at(token.Ident) {
			n.add(leaf(p.next()))
		} else {
			p.errorf("expected enumeration member, found %s", p.describe(p.cur))
			p.skipTo(token.Comma, token.RParen, token.Semi)
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return n
}

func (p *Parser) subrangeType() *Node {
	n := newNode(NodeSubrangeType)
	n.add(p.constant())
	p.expect(token.DotDot)
	n.add(p.constant())
	return n
}

// constant is a literal or a named constant, optionally signed.
func (p *Parser) constant() *Node {
	n := newNode(NodeConstant)
	if p.at(token.Plus) || p.at(token.Minus) {
		p.next()
	}
	switch p.cur.Kind {
	case token.Ident, token.IntLit, token.RealLit, token.StringLit:
		n.add(leaf(p.next()))
	default:
		p.errorf("expected constant, found %s", p.describe(p.cur))
	}
	return n
}

func (p *Parser) structuredType() *Node {
	n := newNode(NodeStructuredType)
	p.accept(token.KwPacked)
	switch p.cur.Kind {
	case token.KwArray:
		n.add(p.arrayType())
	case token.KwRecord:
		n.add(p.recordType())
	case token.KwSet:
		n.add(p.setType())
	case token.KwFile:
		n.add(p.fileType())
	default:
		p.errorf("expected structured type, found %s", p.describe(p.cur))
	}
	return n
}

// arrayType consumes the index part without modeling it; element
// members are a documented gap of the model.
func (p *Parser) arrayType() *Node {
	n := newNode(NodeArrayType)
	p.expect(token.KwArray)
	if p.accept(token.LBracket) {
		depth := 1
		for depth > 0 && !p.at(token.EOF) {
			switch p.cur.Kind {
			case token.LBracket:
				depth++
			case token.RBracket:
				depth--
			}
			p.next()
		}
	}
	p.expect(token.KwOf)
	n.add(p.typeSpec())
	return n
}

// recordType consumes the field list without modeling it.
func (p *Parser) recordType() *Node {
	n := newNode(NodeRecordType)
	p.expect(token.KwRecord)
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.KwRecord:
			depth++
		case token.KwEnd:
			depth--
		}
		p.next()
	}
	return n
}

func (p *Parser) setType() *Node {
	n := newNode(NodeSetType)
	p.expect(token.KwSet)
	p.expect(token.KwOf)
	n.add(p.typeSpec())
	return n
}

func (p *Parser) fileType() *Node {
	n := newNode(NodeFileType)
	p.expect(token.KwFile)
	if p.accept(token.KwOf) {
		n.add(p.typeSpec())
	}
	return n
}

func (p *Parser) typeIdentifier() *Node {
	n := newNode(NodeTypeIdentifier)
	if p.at(token.Ident) {
		n.add(leaf(p.next()))
	} else {
		p.errorf("expected type identifier, found %s", p.describe(p.cur))
	}
	return n
}

// --- routines -------------------------------------------------------

func (p *Parser) procedureAndFunctionDeclarationPart() *Node {
	n := newNode(NodeProcedureAndFunctionDeclarationPart)
	for {
		switch p.cur.Kind {
		case token.KwProcedure:
			n.add(p.procedureDeclaration())
		case token.KwFunction:
			n.add(p.functionDeclaration())
		default:
			return n
		}
	}
}

func (p *Parser) subroutinePart() *Node {
	n := newNode(NodeSubroutinePart)
	for {
		switch p.cur.Kind {
		case token.KwProcedure:
			n.add(p.procedureDeclaration())
		case token.KwFunction:
			n.add(p.functionDeclaration())
		default:
			return n
		}
	}
}

func (p *Parser) procedureDeclaration() *Node {
	n := newNode(NodeProcedureDeclaration)
	n.add(p.procedureHeading())
	p.expect(token.Semi)
	n.add(p.routineBody())
	return n
}

func (p *Parser) functionDeclaration() *Node {
	n := newNode(NodeFunctionDeclaration)
	n.add(p.functionHeading())
	p.expect(token.Semi)
	n.add(p.routineBody())
	return n
}

func (p *Parser) procedureHeading() *Node {
	n := newNode(NodeProcedureHeading)
	p.expect(token.KwProcedure)
	if p.at(token.Ident) {
		n.add(leaf(p.next()))
	} else {
		p.errorf("expected procedure name, found %s", p.describe(p.cur))
	}
	if p.at(token.LParen) {
		n.add(p.formalParameterList())
	}
	return n
}

func (p *Parser) functionHeading() *Node {
	n := newNode(NodeFunctionHeading)
	p.expect(token.KwFunction)
	if p.at(token.Ident) {
		n.add(leaf(p.next()))
	} else {
		p.errorf("expected function name, found %s", p.describe(p.cur))
	}
	if p.at(token.LParen) {
		n.add(p.formalParameterList())
	}
	if p.accept(token.Colon) {
		n.add(p.typeIdentifier())
	}
	return n
}

func (p *Parser) formalParameterList() *Node {
	n := newNode(NodeFormalParameterList)
	p.expect(token.LParen)
	for {
		n.add(p.formalParameterSection())
		if !p.accept(token.Semi) {
			break
		}
	}
	p.expect(token.RParen)
	return n
}

func (p *Parser) formalParameterSection() *Node {
	n := newNode(NodeFormalParameterSection)
	switch p.cur.Kind {
	case token.KwProcedure:
		n.add(p.procedureHeading())
	case token.KwFunction:
		n.add(p.functionHeading())
	case token.KwVar:
		p.next()
		n.add(p.parameterDeclaration())
	default:
		n.add(p.parameterDeclaration())
	}
	return n
}

func (p *Parser) parameterDeclaration() *Node {
	n := newNode(NodeParameterDeclaration)
	n.add(p.identifierList())
	p.expect(token.Colon)
	n.add(p.typeIdentifier())
	return n
}

// routineBody parses block + statement part, or the external/forward
// stand-ins that have no body.
func (p *Parser) routineBody() *Node {
	if p.accept(token.KwExternal) || p.accept(token.KwForward) {
		p.expect(token.Semi)
		return nil
	}
	n := newNode(NodeBody)
	n.add(p.block())
	if p.at(token.KwBegin) {
		n.add(p.statementPart())
	} else {
		p.errorf("expected 'begin', found %s", p.describe(p.cur))
	}
	p.expect(token.Semi)
	return n
}

// --- statements -----------------------------------------------------

func (p *Parser) statementPart() *Node {
	n := newNode(NodeStatementPart)
	n.add(p.compoundStatement())
	return n
}

func (p *Parser) compoundStatement() *Node {
	n := newNode(NodeCompoundStatement)
	p.expect(token.KwBegin)
	n.add(p.statementSequence())
	p.expect(token.KwEnd)
	return n
}

func (p *Parser) statementSequence() *Node {
	n := newNode(NodeStatementSequence)
	for {
		n.add(p.statement())
		if !p.accept(token.Semi) {
			return n
		}
	}
}

func (p *Parser) statement() *Node {
	n := newNode(NodeStatement)
	// leading statement label
	if p.at(token.IntLit) && p.peek().Kind == token.Colon {
		p.next()
		p.next()
	}
	switch p.cur.Kind {
	case token.KwBegin, token.KwIf, token.KwCase, token.KwWhile,
		token.KwRepeat, token.KwFor, token.KwWith:
		n.add(p.structuredStatement())
	case token.KwGoto:
		p.next()
		p.accept(token.IntLit)
	case token.Ident, token.At:
		n.add(p.simpleStatement())
	case token.KwEnd, token.KwUntil, token.KwOtherwise, token.Semi, token.EOF:
		// empty statement
	default:
		p.errorf("unexpected %s in statement", p.describe(p.cur))
		p.skipTo(token.Semi, token.KwEnd, token.KwUntil, token.EOF)
	}
	return n
}

func (p *Parser) simpleStatement() *Node {
	n := newNode(NodeSimpleStatement)
	ac := newNode(NodeAssigOrCall)
	ac.add(p.variableReference())
	if p.accept(token.Assign) {
		ac.add(p.expression())
	}
	n.add(ac)
	return n
}

func (p *Parser) structuredStatement() *Node {
	n := newNode(NodeStructuredStatement)
	switch p.cur.Kind {
	case token.KwBegin:
		n.add(p.compoundStatement())
	case token.KwIf, token.KwCase:
		n.add(p.conditionalStatement())
	case token.KwWhile, token.KwRepeat, token.KwFor:
		n.add(p.repetitiveStatement())
	case token.KwWith:
		n.add(p.withStatement())
	}
	return n
}

func (p *Parser) conditionalStatement() *Node {
	n := newNode(NodeConditionalStatement)
	if p.at(token.KwIf) {
		n.add(p.ifStatement())
	} else {
		n.add(p.caseStatement())
	}
	return n
}

func (p *Parser) ifStatement() *Node {
	n := newNode(NodeIfStatement)
	p.expect(token.KwIf)
	n.add(p.expression())
	p.expect(token.KwThen)
	n.add(p.statement())
	if p.accept(token.KwElse) {
		n.add(p.statement())
	}
	return n
}

func (p *Parser) caseStatement() *Node {
	n := newNode(NodeCaseStatement)
	p.expect(token.KwCase)
	n.add(p.expression())
	p.expect(token.KwOf)
	for {
		switch p.cur.Kind {
		case token.KwEnd, token.EOF:
			p.accept(token.KwEnd)
			return n
		case token.KwOtherwise:
			n.add(p.otherwiseClause())
			p.accept(token.KwEnd)
			return n
		case token.Semi:
			p.next()
		default:
			n.add(p.caseLimb())
		}
	}
}

func (p *Parser) caseLimb() *Node {
	n := newNode(NodeCaseLimb)
	for {
		n.add(p.expression())
		if p.accept(token.DotDot) {
			n.add(p.expression())
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.Colon)
	n.add(p.statement())
	return n
}

func (p *Parser) otherwiseClause() *Node {
	n := newNode(NodeOtherwiseClause)
	p.expect(token.KwOtherwise)
	n.add(p.statementSequence())
	return n
}

func (p *Parser) repetitiveStatement() *Node {
	n := newNode(NodeRepetitiveStatement)
	switch p.cur.Kind {
	case token.KwWhile:
		n.add(p.whileStatement())
	case token.KwRepeat:
		n.add(p.repeatStatement())
	case token.KwFor:
		n.add(p.forStatement())
	}
	return n
}

func (p *Parser) whileStatement() *Node {
	n := newNode(NodeWhileStatement)
	p.expect(token.KwWhile)
	n.add(p.expression())
	p.expect(token.KwDo)
	n.add(p.statement())
	return n
}

func (p *Parser) repeatStatement() *Node {
	n := newNode(NodeRepeatStatement)
	p.expect(token.KwRepeat)
	n.add(p.statementSequence())
	p.expect(token.KwUntil)
	n.add(p.expression())
	return n
}

func (p *Parser) forStatement() *Node {
	n := newNode(NodeForStatement)
	p.expect(token.KwFor)
	vi := newNode(NodeVariableIdentifier)
	if p.at(token.Ident) {
		vi.add(leaf(p.next()))
	} else {
		p.errorf("expected loop variable, found %s", p.describe(p.cur))
	}
	n.add(vi)
	p.expect(token.Assign)
	iv := newNode(NodeInitialValue)
	iv.add(p.expression())
	n.add(iv)
	if !p.accept(token.KwTo) {
		p.expect(token.KwDownto)
	}
	fv := newNode(NodeFinalValue)
	fv.add(p.expression())
	n.add(fv)
	p.expect(token.KwDo)
	n.add(p.statement())
	return n
}

func (p *Parser) withStatement() *Node {
	n := newNode(NodeWithStatement)
	p.expect(token.KwWith)
	for {
		n.add(p.variableReference())
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.KwDo)
	n.add(p.statement())
	return n
}

// --- expressions ----------------------------------------------------

func (p *Parser) expression() *Node {
	n := newNode(NodeExpression)
	n.add(p.simpleExpression())
	for p.atRelOp() {
		p.next()
		n.add(p.simpleExpression())
	}
	return n
}

func (p *Parser) atRelOp() bool {
	switch p.cur.Kind {
	case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.KwIn:
		return true
	default:
		return false
	}
}

func (p *Parser) simpleExpression() *Node {
	n := newNode(NodeSimpleExpression)
	if p.at(token.Plus) || p.at(token.Minus) {
		p.next()
	}
	n.add(p.term())
	for p.at(token.Plus) || p.at(token.Minus) || p.at(token.KwOr) {
		p.next()
		n.add(p.term())
	}
	return n
}

func (p *Parser) term() *Node {
	n := newNode(NodeTerm)
	n.add(p.factor())
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.KwDiv) ||
		p.at(token.KwMod) || p.at(token.KwAnd) {
		p.next()
		n.add(p.factor())
	}
	return n
}

func (p *Parser) factor() *Node {
	n := newNode(NodeFactor)
	switch p.cur.Kind {
	case token.Ident, token.At:
		n.add(p.variableReference())
	case token.IntLit, token.RealLit, token.StringLit, token.KwNil:
		n.add(leaf(p.next()))
	case token.LParen:
		p.next()
		n.add(p.expression())
		p.expect(token.RParen)
	case token.KwNot:
		p.next()
		n.add(p.factor())
	case token.LBracket:
		n.add(p.setLiteral())
	default:
		p.errorf("expected expression, found %s", p.describe(p.cur))
		p.skipTo(token.Semi, token.RParen, token.RBracket,
			token.KwEnd, token.KwThen, token.KwDo, token.KwUntil, token.EOF)
	}
	return n
}

func (p *Parser) setLiteral() *Node {
	n := newNode(NodeSetLiteral)
	p.expect(token.LBracket)
	depth := 1
	for depth > 0 && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.LBracket:
			depth++
		case token.RBracket:
			depth--
		}
		p.next()
	}
	return n
}

func (p *Parser) variableReference() *Node {
	n := newNode(NodeVariableReference)
	p.accept(token.At)
	vi := newNode(NodeVariableIdentifier)
	if p.at(token.Ident) {
		vi.add(leaf(p.next()))
	} else {
		p.errorf("expected identifier, found %s", p.describe(p.cur))
		return n
	}
	n.add(vi)
	for {
		switch p.cur.Kind {
		case token.LBracket:
			q := newNode(NodeQualifier)
			q.add(p.index())
			n.add(q)
		case token.Dot:
			// no type information: field names stay unresolved
			if p.peek().Kind != token.Ident {
				return n
			}
			p.next()
			q := newNode(NodeQualifier)
			fd := newNode(NodeFieldDesignator)
			fd.add(leaf(p.next()))
			q.add(fd)
			n.add(q)
		case token.Caret:
			p.next()
		case token.LParen:
			n.add(p.actualParameterList())
		default:
			return n
		}
	}
}

func (p *Parser) index() *Node {
	n := newNode(NodeIndex)
	p.expect(token.LBracket)
	el := newNode(NodeExpressionList)
	for {
		el.add(p.expression())
		if !p.accept(token.Comma) {
			break
		}
	}
	n.add(el)
	p.expect(token.RBracket)
	return n
}

func (p *Parser) actualParameterList() *Node {
	n := newNode(NodeActualParameterList)
	p.expect(token.LParen)
	if p.accept(token.RParen) {
		return n
	}
	for {
		ap := newNode(NodeActualParameter)
		ap.add(p.expression())
		n.add(ap)
		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	return n
}
