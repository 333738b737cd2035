// Package testkit holds helpers shared by package tests: hand-built syntax
// fixtures, an in-memory checker.Program and tree invariants.
package testkit

import (
	"strings"
	"testing"

	"tsunused/internal/checker"
	"tsunused/internal/source"
	"tsunused/internal/syntax"
)

// Fixture builds a syntax.Tree over a snippet by locating node text rather
// than spelling out offsets. Each parent keeps a cursor, so repeated names
// ("a" in "f(a, b) { a }") resolve to successive occurrences.
type Fixture struct {
	tb     testing.TB
	path   string
	text   string
	b      *syntax.Builder
	root   syntax.NodeID
	spans  map[syntax.NodeID][2]int
	cursor map[syntax.NodeID]int
	tree   *syntax.Tree
}

// NewFixture starts a fixture whose root SourceFile covers the whole text.
func NewFixture(tb testing.TB, path, text string) *Fixture {
	tb.Helper()
	f := &Fixture{
		tb:     tb,
		path:   path,
		text:   text,
		b:      syntax.NewBuilder(0, path, []byte(text)),
		spans:  make(map[syntax.NodeID][2]int),
		cursor: make(map[syntax.NodeID]int),
	}
	f.root = f.b.Add(syntax.KindSourceFile, syntax.NoNode, 0, uint32(len(text)))
	f.spans[f.root] = [2]int{0, len(text)}
	return f
}

func (f *Fixture) Root() syntax.NodeID { return f.root }

// Node adds a node of kind under parent covering the next occurrence of
// snippet inside the parent.
func (f *Fixture) Node(kind syntax.Kind, parent syntax.NodeID, snippet string) syntax.NodeID {
	f.tb.Helper()
	ps, ok := f.spans[parent]
	if !ok {
		f.tb.Fatalf("fixture: unknown parent %d", parent)
	}
	from := f.cursor[parent]
	if from < ps[0] {
		from = ps[0]
	}
	idx := indexWord(f.text[:ps[1]], snippet, from) - from
	if idx < 0 {
		f.tb.Fatalf("fixture: %q not found in %q", snippet, f.text[from:ps[1]])
	}
	start := from + idx
	end := start + len(snippet)
	id := f.b.Add(kind, parent, uint32(start), uint32(end))
	if id == syntax.NoNode {
		f.tb.Fatalf("fixture: cannot add %s %q", kind, snippet)
	}
	f.spans[id] = [2]int{start, end}
	f.cursor[parent] = end
	return id
}

// Named adds a declaration node plus an Identifier child for name and links
// them. The identifier is searched from the start of the declaration.
func (f *Fixture) Named(kind syntax.Kind, parent syntax.NodeID, snippet, name string) (decl, ident syntax.NodeID) {
	f.tb.Helper()
	decl = f.Node(kind, parent, snippet)
	ident = f.Node(syntax.KindIdentifier, decl, name)
	f.b.SetName(decl, ident)
	return decl, ident
}

// SetName links decl to an already added name node.
func (f *Fixture) SetName(decl, name syntax.NodeID) {
	f.b.SetName(decl, name)
}

// Tree builds and caches the tree.
func (f *Fixture) Tree() *syntax.Tree {
	f.tb.Helper()
	if f.tree != nil {
		return f.tree
	}
	tree, err := f.b.Build()
	if err != nil {
		f.tb.Fatalf("fixture: %v", err)
	}
	f.tree = tree
	return tree
}

// Start returns the start offset of a node added to the fixture.
func (f *Fixture) Start(id syntax.NodeID) int {
	f.tb.Helper()
	sp, ok := f.spans[id]
	if !ok {
		f.tb.Fatalf("fixture: unknown node %d", id)
	}
	return sp[0]
}

// Diag returns a checker diagnostic with code positioned at node id.
func (f *Fixture) Diag(code int, id syntax.NodeID) checker.Diagnostic {
	f.tb.Helper()
	sp := f.spans[id]
	return checker.At(code, f.Start(id), sp[1]-sp[0], "")
}

// DiagAt returns a checker diagnostic with code at the n-th (0-based)
// occurrence of snippet in the whole text.
func (f *Fixture) DiagAt(code int, snippet string, n int) checker.Diagnostic {
	f.tb.Helper()
	off := -1
	for i, from := 0, 0; i <= n; i++ {
		off = indexWord(f.text, snippet, from)
		if off < 0 {
			f.tb.Fatalf("fixture: occurrence %d of %q not found", n, snippet)
		}
		from = off + 1
	}
	return checker.At(code, off, len(snippet), "")
}

// Program wraps the fixture into a single-file checker.Program.
func (f *Fixture) Program(diags ...checker.Diagnostic) *Program {
	f.tb.Helper()
	return &Program{
		Trees: map[string]*syntax.Tree{f.path: f.Tree()},
		Diags: map[string][]checker.Diagnostic{f.path: diags},
	}
}

// File returns a source.File mirroring the fixture text with id 0.
func (f *Fixture) File() *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(f.path, []byte(f.text)))
}

// indexWord finds snippet in s at or after from. Ends of snippet that are
// identifier characters must sit on identifier boundaries, so "f" does not
// match inside "function".
func indexWord(s, snippet string, from int) int {
	if snippet == "" {
		return -1
	}
	for from <= len(s)-len(snippet) {
		idx := strings.Index(s[from:], snippet)
		if idx < 0 {
			return -1
		}
		start := from + idx
		end := start + len(snippet)
		okStart := !isIdentByte(snippet[0]) || start == 0 || !isIdentByte(s[start-1])
		okEnd := !isIdentByte(snippet[len(snippet)-1]) || end == len(s) || !isIdentByte(s[end])
		if okStart && okEnd {
			return start
		}
		from = start + 1
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Program is an in-memory checker.Program.
type Program struct {
	Trees map[string]*syntax.Tree
	Diags map[string][]checker.Diagnostic
}

func (p *Program) SemanticDiagnostics(file string) []checker.Diagnostic {
	return p.Diags[file]
}

func (p *Program) SourceFile(file string) *syntax.Tree {
	return p.Trees[file]
}
