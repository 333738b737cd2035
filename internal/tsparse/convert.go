package tsparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"tsunused/internal/syntax"
)

var nodeKinds = map[string]syntax.Kind{
	"identifier":                            syntax.KindIdentifier,
	"type_identifier":                       syntax.KindIdentifier,
	"property_identifier":                   syntax.KindIdentifier,
	"shorthand_property_identifier":         syntax.KindIdentifier,
	"shorthand_property_identifier_pattern": syntax.KindIdentifier,
	"statement_identifier":                  syntax.KindIdentifier,
	"private_property_identifier":           syntax.KindPrivateIdentifier,

	"class_declaration":          syntax.KindClassDeclaration,
	"abstract_class_declaration": syntax.KindClassDeclaration,
	"class":                      syntax.KindClassExpression,
	"enum_declaration":           syntax.KindEnumDeclaration,
	"interface_declaration":      syntax.KindInterfaceDeclaration,
	"type_alias_declaration":     syntax.KindTypeAliasDeclaration,
	"module":                     syntax.KindModuleDeclaration,
	"internal_module":            syntax.KindModuleDeclaration,
	"type_parameter":             syntax.KindTypeParameter,

	"function_declaration":           syntax.KindFunctionDeclaration,
	"generator_function_declaration": syntax.KindFunctionDeclaration,
	"function_signature":             syntax.KindFunctionDeclaration,
	"function_expression":            syntax.KindFunctionExpression,
	"function":                       syntax.KindFunctionExpression,
	"generator_function":             syntax.KindFunctionExpression,
	"arrow_function":                 syntax.KindArrowFunction,
	"method_signature":               syntax.KindMethodSignature,
	"abstract_method_signature":      syntax.KindMethodDeclaration,
	"required_parameter":             syntax.KindParameter,
	"optional_parameter":             syntax.KindParameter,
	"public_field_definition":        syntax.KindPropertyDeclaration,
	"variable_declarator":            syntax.KindVariableDeclaration,

	"import_statement":  syntax.KindImportDeclaration,
	"import_alias":      syntax.KindImportEqualsDeclaration,
	"import_clause":     syntax.KindImportClause,
	"named_imports":     syntax.KindNamedImports,
	"import_specifier":  syntax.KindImportSpecifier,
	"namespace_import":  syntax.KindNamespaceImport,
	"object_pattern":    syntax.KindObjectBindingPattern,
	"array_pattern":     syntax.KindArrayBindingPattern,
}

// Wrappers the TypeScript AST has no node for: their children are attached
// to the enclosing node.
var transparent = map[string]bool{
	"formal_parameters":     true,
	"type_parameters":       true,
	"export_statement":      true,
	"ambient_declaration":   true,
	"import_require_clause": true,
	"rest_pattern":          true,
}

// Field holding the declared name, for nodes where the first identifier
// child is not it.
var nameFields = map[string]string{
	"required_parameter":      "pattern",
	"optional_parameter":      "pattern",
	"variable_declarator":     "name",
	"import_specifier":        "alias",
	"public_field_definition": "name",
	"method_definition":       "name",
	"method_signature":        "name",
	"function_declaration":    "name",
	"class_declaration":       "name",
}

type converter struct {
	b    *syntax.Builder
	text []byte
}

func (c *converter) add(kind syntax.Kind, parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	return c.b.Add(kind, parent, n.StartByte(), n.EndByte())
}

func skipped(n *sitter.Node) bool {
	return n == nil || !n.IsNamed() || n.Type() == "comment"
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// children visits every named child of n under parent and returns the id of
// the first node produced.
func (c *converter) children(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	first := syntax.NoNode
	for i := 0; i < int(n.ChildCount()); i++ {
		if id := c.visit(n.Child(i), parent); first == syntax.NoNode {
			first = id
		}
	}
	return first
}

// visit converts n and its subtree and returns the id standing for n.
func (c *converter) visit(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	if skipped(n) {
		return syntax.NoNode
	}
	typ := n.Type()
	if transparent[typ] {
		return c.children(n, parent)
	}
	switch typ {
	case "lexical_declaration", "variable_declaration":
		return c.variableStatement(n, parent)
	case "object_pattern", "array_pattern":
		return c.pattern(n, parent)
	case "for_in_statement":
		return c.forIn(n, parent)
	case "catch_clause":
		return c.wrapField(n, parent, "parameter", syntax.KindOther, syntax.KindVariableDeclaration)
	case "arrow_function":
		return c.wrapField(n, parent, "parameter", syntax.KindArrowFunction, syntax.KindParameter)
	case "import_statement":
		if hasChild(n, "import_require_clause") {
			return c.generic(n, parent, syntax.KindImportEqualsDeclaration)
		}
	case "method_definition":
		return c.generic(n, parent, c.methodKind(n))
	}
	kind, ok := nodeKinds[typ]
	if !ok {
		kind = syntax.KindOther
	}
	return c.generic(n, parent, kind)
}

func (c *converter) generic(n *sitter.Node, parent syntax.NodeID, kind syntax.Kind) syntax.NodeID {
	id := c.add(kind, parent, n)
	var name *sitter.Node
	if field, ok := nameFields[n.Type()]; ok {
		name = n.ChildByFieldName(field)
		if name == nil && n.Type() == "import_specifier" {
			name = n.ChildByFieldName("name")
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		cid := c.visit(ch, id)
		if cid != syntax.NoNode && sameNode(ch, name) {
			c.b.SetName(id, cid)
		}
	}
	return id
}

// wrapField converts n as kind, wrapping the child in field (an identifier
// or pattern) into a node of kind wrap, the way TypeScript models
// `x => x` parameters and `catch (e)` bindings.
func (c *converter) wrapField(n *sitter.Node, parent syntax.NodeID, field string, kind, wrap syntax.Kind) syntax.NodeID {
	id := c.add(kind, parent, n)
	target := n.ChildByFieldName(field)
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if sameNode(ch, target) && !skipped(ch) {
			w := c.add(wrap, id, ch)
			if nid := c.visit(ch, w); nid != syntax.NoNode {
				c.b.SetName(w, nid)
			}
			continue
		}
		c.visit(ch, id)
	}
	return id
}

// variableStatement emits VariableStatement > VariableDeclarationList >
// VariableDeclaration*. The list ends with its last declarator.
func (c *converter) variableStatement(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	id := c.add(syntax.KindVariableStatement, parent, n)
	end := n.EndByte()
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		if ch := n.Child(i); ch.Type() == "variable_declarator" {
			end = ch.EndByte()
			break
		}
	}
	list := c.b.Add(syntax.KindVariableDeclarationList, id, n.StartByte(), end)
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.StartByte() < end {
			c.visit(ch, list)
		} else {
			c.visit(ch, id)
		}
	}
	return id
}

// forIn handles `for (const x of xs)`: the declared binding gets a
// declaration list like in a variable statement.
func (c *converter) forIn(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	kw := n.ChildByFieldName("kind")
	left := n.ChildByFieldName("left")
	if kw == nil || left == nil {
		return c.generic(n, parent, syntax.KindOther)
	}
	id := c.add(syntax.KindOther, parent, n)
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if !sameNode(ch, left) {
			c.visit(ch, id)
			continue
		}
		list := c.b.Add(syntax.KindVariableDeclarationList, id, kw.StartByte(), left.EndByte())
		decl := c.add(syntax.KindVariableDeclaration, list, left)
		if nid := c.visit(left, decl); nid != syntax.NoNode {
			c.b.SetName(decl, nid)
		}
	}
	return id
}

func (c *converter) pattern(n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	kind := syntax.KindObjectBindingPattern
	if n.Type() == "array_pattern" {
		kind = syntax.KindArrayBindingPattern
	}
	id := c.add(kind, parent, n)
	for i := 0; i < int(n.ChildCount()); i++ {
		c.element(n.Child(i), id)
	}
	return id
}

// element converts one entry of a binding pattern into a BindingElement
// whose name is an identifier or a nested pattern.
func (c *converter) element(n *sitter.Node, pattern syntax.NodeID) {
	if skipped(n) {
		return
	}
	switch n.Type() {
	case "pair_pattern":
		el := c.add(syntax.KindBindingElement, pattern, n)
		c.visit(n.ChildByFieldName("key"), el)
		if value := n.ChildByFieldName("value"); value != nil {
			c.name(el, c.target(value, el))
		}
	case "object_assignment_pattern", "assignment_pattern":
		el := c.add(syntax.KindBindingElement, pattern, n)
		c.name(el, c.target(n.ChildByFieldName("left"), el))
		c.visit(n.ChildByFieldName("right"), el)
	case "rest_pattern":
		el := c.add(syntax.KindBindingElement, pattern, n)
		for i := 0; i < int(n.ChildCount()); i++ {
			if ch := n.Child(i); !skipped(ch) {
				c.name(el, c.target(ch, el))
				break
			}
		}
	case "identifier", "shorthand_property_identifier_pattern", "object_pattern", "array_pattern":
		el := c.add(syntax.KindBindingElement, pattern, n)
		c.name(el, c.target(n, el))
	default:
		c.visit(n, pattern)
	}
}

// target converts the bound name of an element; defaults (`b = 1`) keep
// their initializer under the element.
func (c *converter) target(n *sitter.Node, el syntax.NodeID) syntax.NodeID {
	if skipped(n) {
		return syntax.NoNode
	}
	switch n.Type() {
	case "object_pattern", "array_pattern":
		return c.pattern(n, el)
	case "assignment_pattern", "object_assignment_pattern":
		id := c.target(n.ChildByFieldName("left"), el)
		c.visit(n.ChildByFieldName("right"), el)
		return id
	}
	return c.visit(n, el)
}

func (c *converter) name(decl, name syntax.NodeID) {
	if name != syntax.NoNode {
		c.b.SetName(decl, name)
	}
}

func (c *converter) methodKind(n *sitter.Node) syntax.Kind {
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "property_identifier" {
		if name.Content(c.text) == "constructor" {
			return syntax.KindConstructor
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch.IsNamed() {
			continue
		}
		switch ch.Type() {
		case "get":
			return syntax.KindGetAccessor
		case "set":
			return syntax.KindSetAccessor
		}
	}
	return syntax.KindMethodDeclaration
}

func hasChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}
