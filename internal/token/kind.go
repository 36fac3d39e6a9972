package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// RealLit represents a real-number literal.
	RealLit
	// StringLit represents a quoted string literal.
	StringLit

	// Keywords
	KwAnd            // and
	KwArray          // array
	KwBegin          // begin
	KwCase           // case
	KwConst          // const
	KwDiv            // div
	KwDo             // do
	KwDownto         // downto
	KwElse           // else
	KwEnd            // end
	KwExternal       // external
	KwFile           // file
	KwFor            // for
	KwForward        // forward
	KwFunction       // function
	KwGoto           // goto
	KwIf             // if
	KwImplementation // implementation
	KwIn             // in
	KwInterface      // interface
	KwLabel          // label
	KwMod            // mod
	KwNil            // nil
	KwNot            // not
	KwOf             // of
	KwOr             // or
	KwOtherwise      // otherwise
	KwPacked         // packed
	KwProcedure      // procedure
	KwProgram        // program
	KwRecord         // record
	KwRepeat         // repeat
	KwSet            // set
	KwString         // string
	KwThen           // then
	KwTo             // to
	KwType           // type
	KwUnit           // unit
	KwUntil          // until
	KwUses           // uses
	KwVar            // var
	KwWhile          // while
	KwWith           // with

	// Punctuation and operators
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Eq        // =
	NotEq     // <>
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Assign    // :=
	Colon     // :
	Semi      // ;
	Comma     // ,
	Dot       // .
	DotDot    // ..
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Caret     // ^
	At        // @
)

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

var kindNames = [...]string{
	Invalid: "invalid", EOF: "eof", Ident: "identifier",
	IntLit: "integer literal", RealLit: "real literal", StringLit: "string literal",
	KwAnd: "and", KwArray: "array", KwBegin: "begin", KwCase: "case",
	KwConst: "const", KwDiv: "div", KwDo: "do", KwDownto: "downto",
	KwElse: "else", KwEnd: "end", KwExternal: "external", KwFile: "file",
	KwFor: "for", KwForward: "forward", KwFunction: "function", KwGoto: "goto",
	KwIf: "if", KwImplementation: "implementation", KwIn: "in",
	KwInterface: "interface", KwLabel: "label", KwMod: "mod", KwNil: "nil",
	KwNot: "not", KwOf: "of", KwOr: "or", KwOtherwise: "otherwise",
	KwPacked: "packed", KwProcedure: "procedure", KwProgram: "program",
	KwRecord: "record", KwRepeat: "repeat", KwSet: "set", KwString: "string",
	KwThen: "then", KwTo: "to", KwType: "type", KwUnit: "unit",
	KwUntil: "until", KwUses: "uses", KwVar: "var", KwWhile: "while",
	KwWith: "with",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Eq: "=", NotEq: "<>",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Assign: ":=", Colon: ":",
	Semi: ";", Comma: ",", Dot: ".", DotDot: "..", LParen: "(", RParen: ")",
	LBracket: "[", RBracket: "]", Caret: "^", At: "@",
}
