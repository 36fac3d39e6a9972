// Package sema walks one file's syntax tree and populates the
// entity graph: declarations into scopes, identifier occurrences into
// the file's symbol list and the declarations' reference indices.
package sema

import (
	"pasnav/internal/model"
	"pasnav/internal/parser"
	"pasnav/internal/token"
)

// Builder populates one CodeFile from its syntax tree. Unresolved
// identifiers are skipped silently: they may be built-ins or members
// of structured types the model does not track.
type Builder struct {
	file *model.CodeFile
}

// Build runs the walk for one file.
func Build(file *model.CodeFile, root *parser.Node) {
	b := &Builder{file: file}
	b.visit(root)
}

func (b *Builder) visit(root *parser.Node) {
	if root == nil || len(root.Children) == 0 {
		return
	}
	top := root.Children[0]
	switch top.Kind {
	case parser.NodeProgram:
		b.program(top)
	case parser.NodeRegularUnit:
		b.regularUnit(top)
	}
}

func (b *Builder) program(n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeBlock:
			b.block(b.file.Impl, c)
		case parser.NodeStatementPart:
			b.statementPart(b.file.Impl, c)
		}
	}
}

func (b *Builder) regularUnit(n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeInterfacePart:
			b.interfacePart(c)
		case parser.NodeImplementationPart:
			b.implementationPart(c)
		}
	}
}

func (b *Builder) interfacePart(n *parser.Node) {
	scope := b.file.Intf
	if scope == nil {
		scope = b.file.Impl
	}
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeConstantDeclarationPart:
			b.constantDeclarationPart(scope, c)
		case parser.NodeTypeDeclarationPart:
			b.typeDeclarationPart(scope, c)
		case parser.NodeVariableDeclarationPart:
			b.variableDeclarationPart(scope, c)
		case parser.NodeProcedureAndFunctionDeclarationPart:
			b.routineInterfacePart(scope, c)
		}
	}
}

// routineInterfacePart handles headings without bodies.
func (b *Builder) routineInterfacePart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeProcedureHeading:
			b.procedureHeading(scope, c)
		case parser.NodeFunctionHeading:
			b.functionHeading(scope, c)
		}
	}
}

func (b *Builder) implementationPart(n *parser.Node) {
	scope := b.file.Impl
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeLabelDeclarationPart:
			// labels are inert: no navigation target
		case parser.NodeConstantDeclarationPart:
			b.constantDeclarationPart(scope, c)
		case parser.NodeTypeDeclarationPart:
			b.typeDeclarationPart(scope, c)
		case parser.NodeVariableDeclarationPart:
			b.variableDeclarationPart(scope, c)
		case parser.NodeSubroutinePart:
			b.subroutinePart(scope, c)
		}
	}
}

func (b *Builder) subroutinePart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeProcedureDeclaration:
			b.procedureDeclaration(scope, c)
		case parser.NodeFunctionDeclaration:
			b.functionDeclaration(scope, c)
		}
	}
}

func (b *Builder) block(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeLabelDeclarationPart:
			// labels are inert
		case parser.NodeConstantDeclarationPart:
			b.constantDeclarationPart(scope, c)
		case parser.NodeTypeDeclarationPart:
			b.typeDeclarationPart(scope, c)
		case parser.NodeVariableDeclarationPart:
			b.variableDeclarationPart(scope, c)
		case parser.NodeProcedureAndFunctionDeclarationPart:
			b.procedureAndFunctionDeclarationPart(scope, c)
		}
	}
}

// --- declaring and referencing --------------------------------------

func (b *Builder) addDecl(scope *model.Scope, tok token.Token, kind model.DeclKind) *model.Declaration {
	d := model.NewDeclaration(kind, tok.Text, tok.Span)
	scope.Declare(d)
	return d
}

func (b *Builder) addSym(scope *model.Scope, tok token.Token) *model.Symbol {
	d := scope.FindDecl(tok.Text)
	if d == nil {
		return nil
	}
	sym := &model.Symbol{Loc: tok.Span, Decl: d}
	b.file.AddSymbol(sym)
	d.AddRef(b.file, sym)
	return sym
}

// findIdent returns the last identifier leaf among direct children,
// which for headings is the routine name.
func findIdent(n *parser.Node) (token.Token, bool) {
	var tok token.Token
	found := false
	for _, c := range n.Children {
		if c.IsToken(token.Ident) {
			tok = c.Tok
			found = true
		}
	}
	return tok, found
}

// --- declaration parts ----------------------------------------------

func (b *Builder) constantDeclarationPart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeConstantDeclaration {
			b.constantDeclaration(scope, c)
		}
	}
}

func (b *Builder) constantDeclaration(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch {
		case c.IsToken(token.Ident):
			b.addDecl(scope, c.Tok, model.DeclConst)
		case c.Kind == parser.NodeExpression:
			b.expression(scope, c)
		}
	}
}

func (b *Builder) typeDeclarationPart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeTypeDeclaration {
			b.typeDeclaration(scope, c)
		}
	}
}

func (b *Builder) typeDeclaration(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch {
		case c.IsToken(token.Ident):
			b.addDecl(scope, c.Tok, model.DeclType)
		case c.Kind == parser.NodeTypeSpec:
			b.typeSpec(scope, c)
		}
	}
}

func (b *Builder) variableDeclarationPart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeVariableDeclaration {
			b.variableDeclaration(scope, c)
		}
	}
}

func (b *Builder) variableDeclaration(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeIdentifierList:
			for _, id := range identifierList(c) {
				b.addDecl(scope, id, model.DeclVar)
			}
		case parser.NodeTypeSpec:
			b.typeSpec(scope, c)
		}
	}
}

func identifierList(n *parser.Node) []token.Token {
	var out []token.Token
	for _, c := range n.Children {
		if c.IsToken(token.Ident) {
			out = append(out, c.Tok)
		}
	}
	return out
}

// --- types ----------------------------------------------------------

func (b *Builder) typeSpec(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeSimpleType:
			b.simpleType(scope, c)
		case parser.NodeStringType:
			b.stringType(scope, c)
		case parser.NodeStructuredType:
			// record fields, array index types and set/file element
			// types are not modeled; nothing to declare or resolve
		case parser.NodePointerType:
			b.pointerType(scope, c)
		}
	}
}

func (b *Builder) simpleType(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch {
		case c.IsToken(token.Ident):
			b.addSym(scope, c.Tok)
		case c.Kind == parser.NodeSubrangeType:
			b.subrangeType(scope, c)
		case c.Kind == parser.NodeEnumeratedType:
			b.enumeratedType(scope, c)
		}
	}
}

func (b *Builder) subrangeType(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeConstant {
			b.constant(scope, c)
		}
	}
}

// enumeratedType declares each member as its own constant.
func (b *Builder) enumeratedType(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.IsToken(token.Ident) {
			b.addDecl(scope, c.Tok, model.DeclConst)
		}
	}
}

func (b *Builder) stringType(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeSizeAttribute {
			b.sizeAttribute(scope, c)
		}
	}
}

func (b *Builder) sizeAttribute(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.IsToken(token.Ident) {
			b.addSym(scope, c.Tok)
		}
	}
}

func (b *Builder) pointerType(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeTypeIdentifier {
			b.typeIdentifier(scope, c)
		}
	}
}

func (b *Builder) typeIdentifier(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.IsToken(token.Ident) {
			b.addSym(scope, c.Tok)
		}
	}
}

// --- routines -------------------------------------------------------

func (b *Builder) procedureAndFunctionDeclarationPart(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeProcedureDeclaration:
			b.procedureDeclaration(scope, c)
		case parser.NodeFunctionDeclaration:
			b.functionDeclaration(scope, c)
		}
	}
}

func (b *Builder) procedureDeclaration(scope *model.Scope, n *parser.Node) {
	var d *model.Declaration
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeProcedureHeading:
			d = b.procedureHeading(scope, c)
		case parser.NodeBody:
			b.body(bodyScope(d, scope), c)
		}
	}
}

func (b *Builder) functionDeclaration(scope *model.Scope, n *parser.Node) {
	var d *model.Declaration
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeFunctionHeading:
			d = b.functionHeading(scope, c)
		case parser.NodeBody:
			b.body(bodyScope(d, scope), c)
		}
	}
}

// bodyScope picks the routine's own scope; after a heading parse
// error there is no declaration and locals fall into the enclosing
// scope instead of being lost.
func bodyScope(d *model.Declaration, fallback *model.Scope) *model.Scope {
	if d != nil && d.Body != nil {
		return d.Body
	}
	return fallback
}

// procedureHeading declares the routine and creates its body scope
// before anything of the body is visited, so the routine can refer to
// its own name and parameters recursively.
func (b *Builder) procedureHeading(scope *model.Scope, n *parser.Node) *model.Declaration {
	return b.heading(scope, n, model.DeclProc)
}

func (b *Builder) functionHeading(scope *model.Scope, n *parser.Node) *model.Declaration {
	return b.heading(scope, n, model.DeclFunc)
}

func (b *Builder) heading(scope *model.Scope, n *parser.Node, kind model.DeclKind) *model.Declaration {
	id, ok := findIdent(n)
	if !ok {
		return nil
	}
	d := b.addDecl(scope, id, kind)
	d.Body = model.NewScope(model.ScopeBody, scope)
	d.Body.Decl = d
	for _, c := range n.Children {
		if c.Kind == parser.NodeFormalParameterList {
			b.formalParameterList(d.Body, c)
		}
	}
	return d
}

func (b *Builder) formalParameterList(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeFormalParameterSection {
			b.formalParameterSection(scope, c)
		}
	}
}

func (b *Builder) formalParameterSection(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeParameterDeclaration:
			b.parameterDeclaration(scope, c)
		case parser.NodeProcedureHeading:
			b.procedureHeading(scope, c)
		case parser.NodeFunctionHeading:
			b.functionHeading(scope, c)
		}
	}
}

func (b *Builder) parameterDeclaration(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeIdentifierList:
			for _, id := range identifierList(c) {
				b.addDecl(scope, id, model.DeclParam)
			}
		case parser.NodeTypeIdentifier:
			b.typeIdentifier(scope, c)
		}
	}
}

func (b *Builder) body(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeBlock:
			b.block(scope, c)
		case parser.NodeStatementPart:
			b.statementPart(scope, c)
		}
	}
}

// --- statements -----------------------------------------------------

func (b *Builder) statementPart(scope *model.Scope, n *parser.Node) {
	if len(n.Children) > 0 && n.Children[0].Kind == parser.NodeCompoundStatement {
		b.compoundStatement(scope, n.Children[0])
	}
}

func (b *Builder) compoundStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeStatementSequence {
			b.statementSequence(scope, c)
		}
	}
}

func (b *Builder) statementSequence(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeStatement {
			b.statement(scope, c)
		}
	}
}

func (b *Builder) statement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeSimpleStatement:
			b.simpleStatement(scope, c)
		case parser.NodeStructuredStatement:
			b.structuredStatement(scope, c)
		}
	}
}

func (b *Builder) simpleStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeAssigOrCall {
			b.assigOrCall(scope, c)
		}
	}
}

func (b *Builder) assigOrCall(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeVariableReference:
			b.variableReference(scope, c)
		case parser.NodeExpression:
			b.expression(scope, c)
		}
	}
}

func (b *Builder) structuredStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeCompoundStatement:
			b.compoundStatement(scope, c)
		case parser.NodeRepetitiveStatement:
			b.repetitiveStatement(scope, c)
		case parser.NodeConditionalStatement:
			b.conditionalStatement(scope, c)
		case parser.NodeWithStatement:
			b.withStatement(scope, c)
		}
	}
}

func (b *Builder) repetitiveStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeWhileStatement:
			b.whileStatement(scope, c)
		case parser.NodeRepeatStatement:
			b.repeatStatement(scope, c)
		case parser.NodeForStatement:
			b.forStatement(scope, c)
		}
	}
}

func (b *Builder) whileStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeExpression:
			b.expression(scope, c)
		case parser.NodeStatement:
			b.statement(scope, c)
		}
	}
}

func (b *Builder) repeatStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeStatementSequence:
			b.statementSequence(scope, c)
		case parser.NodeExpression:
			b.expression(scope, c)
		}
	}
}

// forStatement resolves the control variable as a use: loop variables
// must be declared beforehand in the enclosing scope.
func (b *Builder) forStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeVariableIdentifier:
			if len(c.Children) > 0 {
				b.addSym(scope, c.Children[0].Tok)
			}
		case parser.NodeInitialValue, parser.NodeFinalValue:
			if len(c.Children) > 0 {
				b.expression(scope, c.Children[0])
			}
		case parser.NodeStatement:
			b.statement(scope, c)
		}
	}
}

func (b *Builder) conditionalStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeIfStatement:
			b.ifStatement(scope, c)
		case parser.NodeCaseStatement:
			b.caseStatement(scope, c)
		}
	}
}

func (b *Builder) ifStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeExpression:
			b.expression(scope, c)
		case parser.NodeStatement:
			b.statement(scope, c)
		}
	}
}

func (b *Builder) caseStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeExpression:
			b.expression(scope, c)
		case parser.NodeCaseLimb:
			b.caseLimb(scope, c)
		case parser.NodeOtherwiseClause:
			b.otherwiseClause(scope, c)
		}
	}
}

func (b *Builder) caseLimb(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeExpression:
			b.expression(scope, c)
		case parser.NodeStatement:
			b.statement(scope, c)
		}
	}
}

func (b *Builder) otherwiseClause(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeStatementSequence {
			b.statementSequence(scope, c)
		}
	}
}

func (b *Builder) withStatement(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeVariableReference:
			b.variableReference(scope, c)
		case parser.NodeStatement:
			b.statement(scope, c)
		}
	}
}

// --- expressions ----------------------------------------------------

func (b *Builder) expression(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeSimpleExpression {
			b.simpleExpression(scope, c)
		}
	}
}

func (b *Builder) simpleExpression(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeTerm {
			b.term(scope, c)
		}
	}
}

func (b *Builder) term(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeFactor {
			b.factor(scope, c)
		}
	}
}

func (b *Builder) factor(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeVariableReference:
			b.variableReference(scope, c)
		case parser.NodeExpression:
			b.expression(scope, c)
		case parser.NodeFactor:
			b.factor(scope, c)
		case parser.NodeSetLiteral:
			// set member expressions are not modeled
		case parser.NodeActualParameterList:
			b.actualParameterList(scope, c)
		}
	}
}

func (b *Builder) constant(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch {
		case c.IsToken(token.Ident):
			b.addSym(scope, c.Tok)
		case c.Kind == parser.NodeActualParameterList:
			b.actualParameterList(scope, c)
		}
	}
}

func (b *Builder) variableReference(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeVariableIdentifier:
			if len(c.Children) > 0 {
				b.addSym(scope, c.Children[0].Tok)
			}
		case parser.NodeQualifier:
			b.qualifier(scope, c)
		case parser.NodeActualParameterList:
			b.actualParameterList(scope, c)
		}
	}
}

func (b *Builder) qualifier(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		switch c.Kind {
		case parser.NodeIndex:
			b.index(scope, c)
		case parser.NodeFieldDesignator:
			// field names would need the record's scope to resolve
		}
	}
}

func (b *Builder) index(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeExpressionList {
			b.expressionList(scope, c)
		}
	}
}

func (b *Builder) expressionList(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeExpression {
			b.expression(scope, c)
		}
	}
}

func (b *Builder) actualParameterList(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeActualParameter {
			b.actualParameter(scope, c)
		}
	}
}

func (b *Builder) actualParameter(scope *model.Scope, n *parser.Node) {
	for _, c := range n.Children {
		if c.Kind == parser.NodeExpression {
			b.expression(scope, c)
		}
	}
}
