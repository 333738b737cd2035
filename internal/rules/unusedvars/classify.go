package unusedvars

import (
	"fmt"

	"tsunused/internal/source"
	"tsunused/internal/syntax"
)

// ParentRole is the syntactic role of the node that owns an unused name.
type ParentRole uint8

const (
	RoleUnknown ParentRole = iota
	RoleDestructuring
	RoleClass
	RoleEnum
	RoleFunction
	RoleImport
	RoleInterface
	RoleMethod
	RoleParameter
	RoleProperty
	RoleTypeAlias
	RoleVariable
)

func (r ParentRole) String() string {
	switch r {
	case RoleDestructuring:
		return "destructuring"
	case RoleClass:
		return "class"
	case RoleEnum:
		return "enum"
	case RoleFunction:
		return "function"
	case RoleImport:
		return "import"
	case RoleInterface:
		return "interface"
	case RoleMethod:
		return "method"
	case RoleParameter:
		return "parameter"
	case RoleProperty:
		return "property"
	case RoleTypeAlias:
		return "type alias"
	case RoleVariable:
		return "variable"
	}
	return "unknown"
}

// roleOf maps the kind of an identifier's parent to its role.
func roleOf(parent syntax.Kind) ParentRole {
	switch parent {
	case syntax.KindBindingElement, syntax.KindObjectBindingPattern:
		return RoleDestructuring
	case syntax.KindClassDeclaration:
		return RoleClass
	case syntax.KindEnumDeclaration:
		return RoleEnum
	case syntax.KindFunctionDeclaration:
		return RoleFunction
	// import x = require("m") is always treated as an import binding
	case syntax.KindImportEqualsDeclaration,
		syntax.KindImportClause,
		syntax.KindImportSpecifier,
		syntax.KindNamespaceImport:
		return RoleImport
	case syntax.KindInterfaceDeclaration:
		return RoleInterface
	case syntax.KindMethodDeclaration:
		return RoleMethod
	case syntax.KindParameter:
		return RoleParameter
	case syntax.KindPropertyDeclaration:
		return RoleProperty
	case syntax.KindTypeAliasDeclaration:
		return RoleTypeAlias
	case syntax.KindVariableDeclaration:
		return RoleVariable
	default:
		return RoleUnknown
	}
}

// BindingKind returns the binding kind reported for the role.
func (r ParentRole) BindingKind() BindingKind {
	switch r {
	case RoleDestructuring:
		return BindingDestructuredVariable
	case RoleClass:
		return BindingClass
	case RoleEnum:
		return BindingEnum
	case RoleFunction:
		return BindingFunction
	case RoleImport:
		return BindingImport
	case RoleInterface:
		return BindingInterface
	case RoleMethod:
		return BindingMethod
	case RoleParameter:
		return BindingParameter
	case RoleProperty:
		return BindingProperty
	case RoleTypeAlias:
		return BindingType
	case RoleVariable:
		return BindingVariable
	}
	panic(fmt.Sprintf("unusedvars: no binding kind for role %s", r))
}

// UnknownRoleError reports an unused name whose parent kind the classifier
// has no entry for. It means the dispatch table is out of sync with the
// checker, so analysis of the file stops.
type UnknownRoleError struct {
	Path       string
	Name       string
	ParentKind syntax.Kind
	Span       source.Span
	Code       int
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("%s: unknown declaration role for %q: parent kind %s at %d (TS%d)",
		e.Path, e.Name, e.ParentKind, e.Span.Start, e.Code)
}
