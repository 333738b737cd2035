package syntax

// Kind is the syntactic kind of a node. Only kinds the unused-binding rule
// distinguishes are named; everything else is KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindSourceFile
	KindIdentifier
	KindPrivateIdentifier
	// KindToken marks keyword and punctuation tokens that have no node of
	// their own.
	KindToken
	KindBindingElement
	KindObjectBindingPattern
	KindArrayBindingPattern
	KindClassDeclaration
	KindClassExpression
	KindEnumDeclaration
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunction
	KindMethodDeclaration
	KindMethodSignature
	KindConstructor
	KindGetAccessor
	KindSetAccessor
	KindImportEqualsDeclaration
	KindImportDeclaration
	KindImportClause
	KindImportSpecifier
	KindNamespaceImport
	KindNamedImports
	KindInterfaceDeclaration
	KindParameter
	KindPropertyDeclaration
	KindTypeAliasDeclaration
	KindVariableDeclaration
	KindVariableDeclarationList
	KindVariableStatement
	KindTypeParameter
	KindModuleDeclaration

	kindCount
)

// kindNames follow TypeScript's SyntaxKind spelling.
var kindNames = [kindCount]string{
	KindOther:                   "Other",
	KindSourceFile:              "SourceFile",
	KindIdentifier:              "Identifier",
	KindPrivateIdentifier:       "PrivateIdentifier",
	KindToken:                   "Token",
	KindBindingElement:          "BindingElement",
	KindObjectBindingPattern:    "ObjectBindingPattern",
	KindArrayBindingPattern:     "ArrayBindingPattern",
	KindClassDeclaration:        "ClassDeclaration",
	KindClassExpression:         "ClassExpression",
	KindEnumDeclaration:         "EnumDeclaration",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindFunctionExpression:      "FunctionExpression",
	KindArrowFunction:           "ArrowFunction",
	KindMethodDeclaration:       "MethodDeclaration",
	KindMethodSignature:         "MethodSignature",
	KindConstructor:             "Constructor",
	KindGetAccessor:             "GetAccessor",
	KindSetAccessor:             "SetAccessor",
	KindImportEqualsDeclaration: "ImportEqualsDeclaration",
	KindImportDeclaration:       "ImportDeclaration",
	KindImportClause:            "ImportClause",
	KindImportSpecifier:         "ImportSpecifier",
	KindNamespaceImport:         "NamespaceImport",
	KindNamedImports:            "NamedImports",
	KindInterfaceDeclaration:    "InterfaceDeclaration",
	KindParameter:               "Parameter",
	KindPropertyDeclaration:     "PropertyDeclaration",
	KindTypeAliasDeclaration:    "TypeAliasDeclaration",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarationList: "VariableDeclarationList",
	KindVariableStatement:       "VariableStatement",
	KindTypeParameter:           "TypeParameter",
	KindModuleDeclaration:       "ModuleDeclaration",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	// синонимы из старых версий компилятора
	m["ConstructorDeclaration"] = KindConstructor
	m["FirstStatement"] = KindVariableStatement
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Other"
}

// ParseKind maps a TypeScript SyntaxKind name to a Kind. Unknown names map
// to KindOther; "Token" is reserved for synthetic tokens and maps to
// KindOther as well.
func ParseKind(name string) Kind {
	k, ok := kindByName[name]
	if !ok || k == KindToken {
		return KindOther
	}
	return k
}

// IsBindingPattern reports whether k is an object or array destructuring pattern.
func (k Kind) IsBindingPattern() bool {
	return k == KindObjectBindingPattern || k == KindArrayBindingPattern
}

// IsFunctionLike reports whether k owns a parameter list.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunction,
		KindMethodDeclaration, KindMethodSignature, KindConstructor,
		KindGetAccessor, KindSetAccessor:
		return true
	}
	return false
}
