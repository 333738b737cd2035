package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tsunused/internal/source"
	"tsunused/internal/syntax"
)

// CheckTreeInvariants runs a minimal set of span invariants on a syntax tree:
// 1) the root span lies within the file content
// 2) every node span lies within its parent span
// 3) children are ordered and do not overlap
// 4) every name link points at a node inside the declaration
func CheckTreeInvariants(tree *syntax.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Root()
	if root == syntax.NoNode {
		return fmt.Errorf("tree has no root")
	}

	// 1) root span sanity
	rs := tree.Span(root)
	if rs.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", rs.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if rs.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", rs.End, lenContent)
	}

	// 2) + 3) + 4) обход в глубину
	stack := []syntax.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sp := tree.Span(id)
		var prevEnd uint32
		for i, c := range tree.Children(id) {
			cs := tree.Span(c)
			if cs.Start < sp.Start || cs.End > sp.End {
				return fmt.Errorf("child %d (%s) %v outside parent %d (%s) %v", c, tree.Kind(c), cs, id, tree.Kind(id), sp)
			}
			if i > 0 && cs.Start < prevEnd {
				return fmt.Errorf("child %d (%s) overlaps previous sibling under %d", c, tree.Kind(c), id)
			}
			if tree.Parent(c) != id {
				return fmt.Errorf("child %d has parent %d, want %d", c, tree.Parent(c), id)
			}
			prevEnd = cs.End
			stack = append(stack, c)
		}
		if name := tree.Name(id); name != syntax.NoNode {
			ns := tree.Span(name)
			if ns.Start < sp.Start || ns.End > sp.End {
				return fmt.Errorf("name %d of node %d (%s) lies outside it", name, id, tree.Kind(id))
			}
		}
	}
	return nil
}
