package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedComment      Code = 1003
	LexBadNumber                Code = 1004
	LexBadIncludeDirective      Code = 1005
	LexUnresolvedInclude        Code = 1006

	// Syntax
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpectIdent     Code = 2002
	SynExpectSemicolon Code = 2003
	SynExpectToken     Code = 2004
	SynUnexpectedEOF   Code = 2005

	// Project
	ProjInfo           Code = 4000
	ProjUnresolvedUnit Code = 4001
	ProjUnitCycle      Code = 4002
	ProjParseFailed    Code = 4003
)

func (c Code) String() string {
	return fmt.Sprintf("PN%04d", uint16(c))
}
