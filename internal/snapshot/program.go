package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tsunused/internal/checker"
	"tsunused/internal/source"
	"tsunused/internal/syntax"
)

// TreeParser builds a syntax tree from source text. It is used for
// snapshots that carry no node table.
type TreeParser interface {
	Parse(ctx context.Context, file source.FileID, path string, text []byte) (*syntax.Tree, error)
}

type entry struct {
	id    source.FileID
	tree  *syntax.Tree
	diags []checker.Diagnostic
}

// Program is a checker.Program backed by loaded snapshots. Loading is safe
// for concurrent use.
type Program struct {
	mu     sync.RWMutex
	fs     *source.FileSet
	parser TreeParser
	files  map[string]*entry
	order  []string
}

var _ checker.Program = (*Program)(nil)

// NewProgram returns an empty program registering texts in fs. parser may be
// nil, in which case snapshots without nodes fail with ErrNoTree.
func NewProgram(fs *source.FileSet, parser TreeParser) *Program {
	return &Program{
		fs:     fs,
		parser: parser,
		files:  make(map[string]*entry),
	}
}

// Load reads the snapshot at path and adds it. Relative file names inside
// the snapshot resolve against the snapshot's directory.
func (p *Program) Load(ctx context.Context, path string) (string, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	file, err := p.Add(ctx, doc, filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Add registers doc and returns the file name it is served under. dir is
// the base for a relative doc.File; empty keeps the name as is.
func (p *Program) Add(ctx context.Context, doc *Document, dir string) (string, error) {
	name := doc.File
	if dir != "" && !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	name = filepath.ToSlash(filepath.Clean(name))

	var content []byte
	virtual := doc.Text != nil
	if virtual {
		content = []byte(*doc.Text)
	} else {
		// #nosec G304 -- path comes from the snapshot the user passed in
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("snapshot text: %w", err)
		}
		content = data
	}

	p.mu.Lock()
	if _, dup := p.files[name]; dup {
		p.mu.Unlock()
		return "", fmt.Errorf("%s: %w", name, ErrDuplicateFile)
	}
	var id source.FileID
	if virtual {
		id = p.fs.AddVirtual(name, content)
	} else {
		var flags source.FileFlags
		if stripped := stripBOM(content); len(stripped) != len(content) {
			content, flags = stripped, source.FileHadBOM
		}
		id = p.fs.Add(name, content, flags)
	}
	text := p.fs.Get(id).Content
	// резервируем имя, дерево достраиваем без блокировки
	e := &entry{id: id}
	p.files[name] = e
	p.mu.Unlock()

	if err := p.fill(ctx, e, doc, name, text); err != nil {
		p.mu.Lock()
		delete(p.files, name)
		p.mu.Unlock()
		return "", err
	}

	p.mu.Lock()
	p.order = append(p.order, name)
	p.mu.Unlock()
	return name, nil
}

func (p *Program) fill(ctx context.Context, e *entry, doc *Document, name string, text []byte) error {
	offsets, err := newOffsetMap(text, doc.OffsetEncoding)
	if err != nil {
		return err
	}
	diags, err := convertDiagnostics(doc.Diagnostics, offsets)
	if err != nil {
		return err
	}

	var tree *syntax.Tree
	switch {
	case len(doc.Nodes) > 0:
		tree, err = buildTree(e.id, name, text, doc.Nodes, offsets)
	case p.parser != nil:
		tree, err = p.parser.Parse(ctx, e.id, name, text)
	default:
		err = ErrNoTree
	}
	if err != nil {
		return err
	}

	p.mu.Lock()
	e.tree = tree
	e.diags = diags
	p.mu.Unlock()
	return nil
}

func convertDiagnostics(in []Diagnostic, offsets *offsetMap) ([]checker.Diagnostic, error) {
	out := make([]checker.Diagnostic, 0, len(in))
	for i, d := range in {
		cd := checker.Diagnostic{Code: d.Code, Message: d.Message}
		if d.Start != nil {
			if d.Length < 0 {
				return nil, fmt.Errorf("%w: diagnostic %d has negative length %d", ErrDecode, i, d.Length)
			}
			start, err := offsets.byteOffset(*d.Start)
			if err != nil {
				return nil, fmt.Errorf("diagnostic %d (TS%d): %w", i, d.Code, err)
			}
			end, err := offsets.byteOffset(*d.Start + d.Length)
			if err != nil {
				return nil, fmt.Errorf("diagnostic %d (TS%d): %w", i, d.Code, err)
			}
			s := int(start)
			cd.Start = &s
			cd.Length = int(end - start)
		}
		out = append(out, cd)
	}
	return out, nil
}

func buildTree(file source.FileID, path string, text []byte, nodes []Node, offsets *offsetMap) (*syntax.Tree, error) {
	b := syntax.NewBuilder(file, path, text)
	ids := make([]syntax.NodeID, len(nodes))
	for i, n := range nodes {
		parent := syntax.NoNode
		switch {
		case n.Parent == -1:
		case n.Parent < 0 || n.Parent >= i:
			return nil, fmt.Errorf("%w: node %d has parent %d (parents must precede children)", ErrDecode, i, n.Parent)
		default:
			parent = ids[n.Parent]
		}
		start, err := offsets.byteOffset(n.Pos)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.Kind, err)
		}
		end, err := offsets.byteOffset(n.End)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.Kind, err)
		}
		ids[i] = b.Add(syntax.ParseKind(n.Kind), parent, start, end)
	}
	for i, n := range nodes {
		if n.Name == nil {
			continue
		}
		if *n.Name < 0 || *n.Name >= len(nodes) || *n.Name == i {
			return nil, fmt.Errorf("%w: node %d has name index %d", ErrDecode, i, *n.Name)
		}
		b.SetName(ids[i], ids[*n.Name])
	}
	tree, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return tree, nil
}

// Files returns the loaded file names in load order.
func (p *Program) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// FileID returns the file-set id of a loaded file.
func (p *Program) FileID(file string) (source.FileID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.files[file]
	if !ok || e.tree == nil {
		return 0, false
	}
	return e.id, true
}

func (p *Program) FileSet() *source.FileSet { return p.fs }

func (p *Program) SemanticDiagnostics(file string) []checker.Diagnostic {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.files[file]; ok {
		return e.diags
	}
	return nil
}

func (p *Program) SourceFile(file string) *syntax.Tree {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if e, ok := p.files[file]; ok {
		return e.tree
	}
	return nil
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
