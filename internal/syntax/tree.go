// Package syntax is a read-only arena syntax tree with just enough structure
// for classifying unused bindings: node kinds, spans, parents, declaration
// names and an offset-to-token locator.
package syntax

import (
	"sort"

	"tsunused/internal/source"
)

// NodeID indexes a node inside its Tree. NoNode is the zero value.
type NodeID uint32

const NoNode NodeID = 0

type node struct {
	kind     Kind
	start    uint32
	end      uint32
	parent   NodeID
	name     NodeID
	children []NodeID
}

// Tree is an immutable syntax tree for one file. Build it with a Builder.
type Tree struct {
	file  source.FileID
	path  string
	text  []byte
	nodes []node // nodes[0] is a placeholder for NoNode
	root  NodeID
}

// Token is the result of locating an offset: the innermost node covering
// the offset, or a synthetic keyword/punctuation token (Node == NoNode,
// Kind == KindToken) when the offset falls between the children of a node.
type Token struct {
	Node   NodeID
	Kind   Kind
	Parent NodeID
	Span   source.Span
}

// File returns the file id spans of this tree refer to.
func (t *Tree) File() source.FileID { return t.file }

// Path returns the file path the tree was built for.
func (t *Tree) Path() string { return t.path }

// Source returns the full file text.
func (t *Tree) Source() []byte { return t.text }

// Root returns the root node, usually a SourceFile.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

func (t *Tree) valid(id NodeID) bool {
	return id != NoNode && int(id) < len(t.nodes)
}

func (t *Tree) Kind(id NodeID) Kind {
	if !t.valid(id) {
		return KindOther
	}
	return t.nodes[id].kind
}

func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

func (t *Tree) Span(id NodeID) source.Span {
	if !t.valid(id) {
		return source.Span{File: t.file}
	}
	n := &t.nodes[id]
	return source.Span{File: t.file, Start: n.start, End: n.end}
}

// Children returns the children of id in source order. Do not modify.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].children
}

// Text returns the source text covered by id.
func (t *Tree) Text(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.SpanText(t.Span(id))
}

// SpanText returns the source text covered by sp, clamped to the file.
func (t *Tree) SpanText(sp source.Span) string {
	start, end := int(sp.Start), int(sp.End)
	if end > len(t.text) {
		end = len(t.text)
	}
	if start > end {
		return ""
	}
	return string(t.text[start:end])
}

// Name returns the name node of a declaration: the node recorded with
// Builder.SetName, otherwise the first Identifier, PrivateIdentifier or
// binding pattern child.
func (t *Tree) Name(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	if n := t.nodes[id].name; n != NoNode {
		return n
	}
	for _, c := range t.nodes[id].children {
		switch k := t.nodes[c].kind; {
		case k == KindIdentifier, k == KindPrivateIdentifier, k.IsBindingPattern():
			return c
		}
	}
	return NoNode
}

// Parameters returns the Parameter children of a function-like node in
// positional order.
func (t *Tree) Parameters(fn NodeID) []NodeID {
	return t.childrenOfKind(fn, KindParameter)
}

// Elements returns the BindingElement children of a binding pattern.
func (t *Tree) Elements(pattern NodeID) []NodeID {
	return t.childrenOfKind(pattern, KindBindingElement)
}

// Declarations returns the VariableDeclaration children of a declaration list.
func (t *Tree) Declarations(list NodeID) []NodeID {
	return t.childrenOfKind(list, KindVariableDeclaration)
}

func (t *Tree) childrenOfKind(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.nodes[c].kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Ancestor returns the closest ancestor of id (excluding id) of the given kind.
func (t *Tree) Ancestor(id NodeID, kind Kind) NodeID {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		if t.nodes[p].kind == kind {
			return p
		}
	}
	return NoNode
}

// TokenAt returns the innermost token at byte offset off. ok is false when
// off lies outside the root node.
func (t *Tree) TokenAt(off uint32) (tok Token, ok bool) {
	if !t.valid(t.root) {
		return Token{}, false
	}
	cur := t.root
	if !t.contains(cur, off) {
		return Token{}, false
	}
	for {
		children := t.nodes[cur].children
		i := sort.Search(len(children), func(i int) bool {
			return t.nodes[children[i]].end > off
		})
		if i < len(children) && t.contains(children[i], off) {
			cur = children[i]
			continue
		}
		if len(children) == 0 {
			return Token{
				Node:   cur,
				Kind:   t.nodes[cur].kind,
				Parent: t.nodes[cur].parent,
				Span:   t.Span(cur),
			}, true
		}
		// между детьми: ключевое слово или пунктуация самого узла
		gap := source.Span{File: t.file, Start: t.nodes[cur].start, End: t.nodes[cur].end}
		if i > 0 {
			gap.Start = t.nodes[children[i-1]].end
		}
		if i < len(children) {
			gap.End = t.nodes[children[i]].start
		}
		return Token{Kind: KindToken, Parent: cur, Span: gap}, true
	}
}

func (t *Tree) contains(id NodeID, off uint32) bool {
	n := &t.nodes[id]
	return off >= n.start && off < n.end
}
