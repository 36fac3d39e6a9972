package parser

import (
	"pasnav/internal/source"
	"pasnav/internal/token"
)

// NodeKind names a grammar production. The syntax tree is uniform:
// every node is either a production node with children, or a token
// leaf (NodeTok), and walkers dispatch on the kind.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	// NodeTok is a token leaf; Tok carries the token.
	NodeTok
	NodeRoot

	NodeProgram
	NodeRegularUnit
	NodeUsesClause
	NodeInterfacePart
	NodeImplementationPart
	NodeBlock
	NodeStatementPart

	NodeLabelDeclarationPart
	NodeLabel
	NodeConstantDeclarationPart
	NodeConstantDeclaration
	NodeTypeDeclarationPart
	NodeTypeDeclaration
	NodeVariableDeclarationPart
	NodeVariableDeclaration
	NodeIdentifierList

	NodeTypeSpec
	NodeSimpleType
	NodeSubrangeType
	NodeEnumeratedType
	NodeStringType
	NodeSizeAttribute
	NodeStructuredType
	NodeArrayType
	NodeRecordType
	NodeSetType
	NodeFileType
	NodePointerType
	NodeTypeIdentifier

	NodeSubroutinePart
	NodeProcedureAndFunctionDeclarationPart
	NodeProcedureDeclaration
	NodeFunctionDeclaration
	NodeProcedureHeading
	NodeFunctionHeading
	NodeFormalParameterList
	NodeFormalParameterSection
	NodeParameterDeclaration
	NodeBody

	NodeCompoundStatement
	NodeStatementSequence
	NodeStatement
	NodeSimpleStatement
	NodeStructuredStatement
	NodeAssigOrCall
	NodeRepetitiveStatement
	NodeWhileStatement
	NodeRepeatStatement
	NodeForStatement
	NodeVariableIdentifier
	NodeInitialValue
	NodeFinalValue
	NodeConditionalStatement
	NodeIfStatement
	NodeCaseStatement
	NodeCaseLimb
	NodeOtherwiseClause
	NodeWithStatement

	NodeExpression
	NodeSimpleExpression
	NodeTerm
	NodeFactor
	NodeVariableReference
	NodeQualifier
	NodeIndex
	NodeFieldDesignator
	NodeExpressionList
	NodeActualParameterList
	NodeActualParameter
	NodeSetLiteral
	NodeConstant
)

// Node is one vertex of the uniform syntax tree.
type Node struct {
	Kind     NodeKind
	Tok      token.Token // set for NodeTok leaves
	Children []*Node
}

func newNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

func leaf(tok token.Token) *Node {
	return &Node{Kind: NodeTok, Tok: tok}
}

func (n *Node) add(child *Node) *Node {
	if child != nil {
		n.Children = append(n.Children, child)
	}
	return n
}

// IsToken reports whether the node is a leaf carrying a token of kind k.
func (n *Node) IsToken(k token.Kind) bool {
	return n.Kind == NodeTok && n.Tok.Kind == k
}

// Span covers the node's tokens; zero for empty productions.
func (n *Node) Span() source.Span {
	if n.Kind == NodeTok {
		return n.Tok.Span
	}
	var sp source.Span
	have := false
	for _, c := range n.Children {
		cs := c.Span()
		if cs == (source.Span{}) {
			continue
		}
		if !have {
			sp = cs
			have = true
		} else {
			sp = sp.Cover(cs)
		}
	}
	return sp
}
