package token

import "strings"

var keywords = map[string]Kind{
	"and":            KwAnd,
	"array":          KwArray,
	"begin":          KwBegin,
	"case":           KwCase,
	"const":          KwConst,
	"div":            KwDiv,
	"do":             KwDo,
	"downto":         KwDownto,
	"else":           KwElse,
	"end":            KwEnd,
	"external":       KwExternal,
	"file":           KwFile,
	"for":            KwFor,
	"forward":        KwForward,
	"function":       KwFunction,
	"goto":           KwGoto,
	"if":             KwIf,
	"implementation": KwImplementation,
	"in":             KwIn,
	"interface":      KwInterface,
	"label":          KwLabel,
	"mod":            KwMod,
	"nil":            KwNil,
	"not":            KwNot,
	"of":             KwOf,
	"or":             KwOr,
	"otherwise":      KwOtherwise,
	"packed":         KwPacked,
	"procedure":      KwProcedure,
	"program":        KwProgram,
	"record":         KwRecord,
	"repeat":         KwRepeat,
	"set":            KwSet,
	"string":         KwString,
	"then":           KwThen,
	"to":             KwTo,
	"type":           KwType,
	"unit":           KwUnit,
	"until":          KwUntil,
	"uses":           KwUses,
	"var":            KwVar,
	"while":          KwWhile,
	"with":           KwWith,
}

// LookupKeyword returns the keyword kind for an identifier spelling.
// Pascal keywords are case-insensitive, so the probe is folded before
// the table lookup.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[strings.ToLower(ident)]
	return k, ok
}
