package model

// DeclKind discriminates what a declaration names.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclConst
	DeclType
	DeclTypeAlias
	DeclVar
	DeclParam
	DeclField
	DeclProc
	DeclFunc
	DeclLabel
)

var declKindNames = [...]string{
	DeclInvalid:   "invalid",
	DeclConst:     "const",
	DeclType:      "type",
	DeclTypeAlias: "type alias",
	DeclVar:       "var",
	DeclParam:     "parameter",
	DeclField:     "field",
	DeclProc:      "procedure",
	DeclFunc:      "function",
	DeclLabel:     "label",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "invalid"
}

// IsRoutine reports whether declarations of this kind own a body scope.
func (k DeclKind) IsRoutine() bool {
	return k == DeclProc || k == DeclFunc
}

// ScopeKind discriminates the three scope flavors.
type ScopeKind uint8

const (
	ScopeInterface ScopeKind = iota
	ScopeImplementation
	ScopeBody
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeInterface:
		return "interface"
	case ScopeImplementation:
		return "implementation"
	default:
		return "body"
	}
}
