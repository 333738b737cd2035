package syntax

import (
	"errors"
	"fmt"
	"sort"

	"tsunused/internal/source"
)

// ErrBadTree is wrapped by every Builder.Build validation error.
var ErrBadTree = errors.New("malformed syntax tree")

// Builder assembles a Tree node by node. Parents must be added before their
// children; the first node added without a parent becomes the root.
type Builder struct {
	tree *Tree
	err  error
}

func NewBuilder(file source.FileID, path string, text []byte) *Builder {
	return &Builder{
		tree: &Tree{
			file:  file,
			path:  path,
			text:  text,
			nodes: make([]node, 1, 64),
		},
	}
}

// Add appends a node covering [start, end) under parent and returns its id.
func (b *Builder) Add(kind Kind, parent NodeID, start, end uint32) NodeID {
	if b.err != nil {
		return NoNode
	}
	t := b.tree
	id := NodeID(len(t.nodes))
	switch {
	case start > end:
		b.fail("node %d (%s): start %d after end %d", id, kind, start, end)
		return NoNode
	case int(end) > len(t.text):
		b.fail("node %d (%s): end %d beyond text length %d", id, kind, end, len(t.text))
		return NoNode
	case parent == NoNode && t.root != NoNode:
		b.fail("node %d (%s): second root", id, kind)
		return NoNode
	case parent != NoNode && !t.valid(parent):
		b.fail("node %d (%s): unknown parent %d", id, kind, parent)
		return NoNode
	}
	if parent != NoNode {
		p := &t.nodes[parent]
		if start < p.start || end > p.end {
			b.fail("node %d (%s) [%d,%d) outside parent %d (%s) [%d,%d)",
				id, kind, start, end, parent, p.kind, p.start, p.end)
			return NoNode
		}
	}
	t.nodes = append(t.nodes, node{kind: kind, start: start, end: end, parent: parent})
	if parent == NoNode {
		t.root = id
	} else {
		t.nodes[parent].children = append(t.nodes[parent].children, id)
	}
	return id
}

// SetName records name as the name node of decl.
func (b *Builder) SetName(decl, name NodeID) {
	if b.err != nil {
		return
	}
	t := b.tree
	if !t.valid(decl) || !t.valid(name) {
		b.fail("name link %d -> %d refers to unknown node", decl, name)
		return
	}
	t.nodes[decl].name = name
}

// Build validates the tree and returns it. The Builder must not be used
// afterwards.
func (b *Builder) Build() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	t := b.tree
	if t.root == NoNode {
		return nil, fmt.Errorf("%w: no root node", ErrBadTree)
	}
	for i := 1; i < len(t.nodes); i++ {
		children := t.nodes[i].children
		sort.SliceStable(children, func(a, c int) bool {
			return t.nodes[children[a]].start < t.nodes[children[c]].start
		})
		for j := 1; j < len(children); j++ {
			prev, next := &t.nodes[children[j-1]], &t.nodes[children[j]]
			if next.start < prev.end {
				return nil, fmt.Errorf("%w: children %d and %d of node %d overlap",
					ErrBadTree, children[j-1], children[j], i)
			}
		}
	}
	b.tree = nil
	return t, nil
}

func (b *Builder) fail(format string, args ...any) {
	b.err = fmt.Errorf("%w: "+format, append([]any{ErrBadTree}, args...)...)
}
