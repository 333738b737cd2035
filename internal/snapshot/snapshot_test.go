package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsunused/internal/rules/unusedvars"
	"tsunused/internal/source"
	"tsunused/internal/syntax"
)

// Line 1 holds a surrogate pair, so UTF-16 and byte offsets of line 2 differ
// by two.
const utf16Snapshot = `{
  "file": "src/a.ts",
  "text": "let s = \"😀\";\nlet x = 1;\n",
  "diagnostics": [
    {"code": 6133, "start": 18, "length": 1, "message": "'x' is declared but its value is never read."},
    {"code": 2304, "message": "global"}
  ],
  "nodes": [
    {"kind": "SourceFile", "pos": 0, "end": 25, "parent": -1},
    {"kind": "VariableStatement", "pos": 14, "end": 24, "parent": 0},
    {"kind": "VariableDeclarationList", "pos": 14, "end": 23, "parent": 1},
    {"kind": "VariableDeclaration", "pos": 18, "end": 23, "parent": 2, "name": 4},
    {"kind": "Identifier", "pos": 18, "end": 19, "parent": 3},
    {"kind": "NumericLiteral", "pos": 22, "end": 23, "parent": 3}
  ]
}`

func decodeJSON(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Decode([]byte(src), FormatJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func TestUTF16OffsetsAreConverted(t *testing.T) {
	doc := decodeJSON(t, utf16Snapshot)
	if doc.OffsetEncoding != EncodingUTF16 {
		t.Fatalf("default encoding = %q", doc.OffsetEncoding)
	}
	prog := NewProgram(source.NewFileSet(), nil)
	name, err := prog.Add(context.Background(), doc, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if name != "src/a.ts" {
		t.Fatalf("name = %q", name)
	}

	diags := prog.SemanticDiagnostics(name)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if got := diags[0].Offset(); got != 20 || diags[0].Length != 1 {
		t.Fatalf("diagnostic at %d+%d, want 20+1", got, diags[0].Length)
	}
	if diags[1].Start != nil {
		t.Fatalf("global diagnostic gained a position: %v", diags[1])
	}

	tree := prog.SourceFile(name)
	tok, ok := tree.TokenAt(20)
	if !ok || tok.Kind != syntax.KindIdentifier {
		t.Fatalf("token at 20 = %+v, %v", tok, ok)
	}
	if tree.Kind(tok.Parent) != syntax.KindVariableDeclaration {
		t.Fatalf("parent kind = %s", tree.Kind(tok.Parent))
	}
	if got := tree.Text(tree.Name(tok.Parent)); got != "x" {
		t.Fatalf("declaration name = %q", got)
	}
	if id, ok := prog.FileID(name); !ok || prog.FileSet().Get(id).Path != name {
		t.Fatalf("FileID(%q) = %d, %v", name, id, ok)
	}
}

func TestRuleRunsOverSnapshot(t *testing.T) {
	prog := NewProgram(source.NewFileSet(), nil)
	name, err := prog.Add(context.Background(), decodeJSON(t, utf16Snapshot), "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	rule, err := unusedvars.New(unusedvars.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	findings, err := rule.Run(context.Background(), prog, name, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", findings)
	}
	f := findings[0]
	if f.Name != "x" || f.Kind != unusedvars.BindingVariable || f.Variant != unusedvars.VariantUnusedWithIgnorePattern {
		t.Fatalf("unexpected finding %+v", f)
	}
	if f.Span.Start != 20 || f.Span.End != 21 {
		t.Fatalf("finding span = %v", f.Span)
	}
}

func TestLoadMsgpackReadsTextFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.ts"), []byte("\ufefflet x = 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	start := 4
	name := 2
	doc := &Document{
		File:           "a.ts",
		OffsetEncoding: EncodingUTF8,
		Diagnostics:    []Diagnostic{{Code: 6133, Start: &start, Length: 1, Message: "unused"}},
		Nodes: []Node{
			{Kind: "SourceFile", Pos: 0, End: 11, Parent: -1},
			{Kind: "VariableDeclaration", Pos: 4, End: 9, Parent: 0, Name: &name},
			{Kind: "Identifier", Pos: 4, End: 5, Parent: 1},
		},
	}
	data, err := Encode(doc, FormatMsgpack)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, "a"+MsgpackSuffix)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := source.NewFileSet()
	prog := NewProgram(fs, nil)
	file, err := prog.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.ToSlash(filepath.Join(dir, "a.ts")); file != want {
		t.Fatalf("file = %q, want %q", file, want)
	}
	id, _ := prog.FileID(file)
	f := fs.Get(id)
	if f.Flags&source.FileHadBOM == 0 || f.Flags&source.FileVirtual != 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if got := prog.SourceFile(file).Text(3); got != "x" {
		t.Fatalf("identifier text = %q", got)
	}
	if got := prog.Files(); len(got) != 1 || got[0] != file {
		t.Fatalf("Files() = %v", got)
	}
}

func TestSnapshotErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"missing file", `{"text": ""}`, ErrDecode},
		{"bad json", `{"file": `, ErrDecode},
		{"encoding", `{"file": "a.ts", "text": "", "offset_encoding": "utf32"}`, ErrDecode},
		{"diag range", `{"file": "a.ts", "text": "let", "diagnostics": [{"code": 6133, "start": 2, "length": 5}]}`, ErrOffsetRange},
		{"negative length", `{"file": "a.ts", "text": "let", "diagnostics": [{"code": 6133, "start": 0, "length": -1}]}`, ErrDecode},
		{"node range", `{"file": "a.ts", "text": "let", "nodes": [{"kind": "SourceFile", "pos": 0, "end": 9, "parent": -1}]}`, ErrOffsetRange},
		{"parent order", `{"file": "a.ts", "text": "let", "nodes": [{"kind": "SourceFile", "pos": 0, "end": 3, "parent": 1}]}`, ErrDecode},
		{"name index", `{"file": "a.ts", "text": "let", "nodes": [{"kind": "SourceFile", "pos": 0, "end": 3, "parent": -1, "name": 7}]}`, ErrDecode},
		{"bad tree", `{"file": "a.ts", "text": "let x", "nodes": [{"kind": "SourceFile", "pos": 0, "end": 3, "parent": -1}, {"kind": "Identifier", "pos": 4, "end": 5, "parent": 0}]}`, syntax.ErrBadTree},
		{"no tree", `{"file": "a.ts", "text": "let"}`, ErrNoTree},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Decode([]byte(tc.src), FormatJSON)
			if err == nil {
				_, err = NewProgram(source.NewFileSet(), nil).Add(context.Background(), doc, "")
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDuplicateFileIsRejected(t *testing.T) {
	prog := NewProgram(source.NewFileSet(), nil)
	src := `{"file": "a.ts", "text": "x", "nodes": [{"kind": "SourceFile", "pos": 0, "end": 1, "parent": -1}]}`
	if _, err := prog.Add(context.Background(), decodeJSON(t, src), ""); err != nil {
		t.Fatal(err)
	}
	_, err := prog.Add(context.Background(), decodeJSON(t, src), "")
	if !errors.Is(err, ErrDuplicateFile) {
		t.Fatalf("error = %v", err)
	}
	if len(prog.Files()) != 1 {
		t.Fatalf("files = %v", prog.Files())
	}
}

type stubParser struct{ calls int }

func (p *stubParser) Parse(_ context.Context, file source.FileID, path string, text []byte) (*syntax.Tree, error) {
	p.calls++
	b := syntax.NewBuilder(file, path, text)
	b.Add(syntax.KindSourceFile, syntax.NoNode, 0, uint32(len(text)))
	return b.Build()
}

func TestParserFallback(t *testing.T) {
	parser := &stubParser{}
	prog := NewProgram(source.NewFileSet(), parser)
	name, err := prog.Add(context.Background(), decodeJSON(t, `{"file": "a.ts", "text": "let x = 1;"}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if parser.calls != 1 || prog.SourceFile(name) == nil {
		t.Fatalf("parser calls = %d", parser.calls)
	}
}

func TestOffsetMap(t *testing.T) {
	m, err := newOffsetMap([]byte("a😀b"), EncodingUTF16)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 1, 1, 5, 6}
	for unit, b := range want {
		got, err := m.byteOffset(unit)
		if err != nil || got != b {
			t.Errorf("unit %d -> %d, %v; want %d", unit, got, err, b)
		}
	}
	if _, err := m.byteOffset(5); !errors.Is(err, ErrOffsetRange) {
		t.Fatalf("offset past end: %v", err)
	}

	ascii, _ := newOffsetMap([]byte("abc"), EncodingUTF16)
	if got, err := ascii.byteOffset(3); err != nil || got != 3 {
		t.Fatalf("ascii end = %d, %v", got, err)
	}
	raw, _ := newOffsetMap([]byte("é"), EncodingUTF8)
	if _, err := raw.byteOffset(3); !errors.Is(err, ErrOffsetRange) {
		t.Fatalf("utf8 past end: %v", err)
	}
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"a" + JSONSuffix:    FormatJSON,
		"a" + MsgpackSuffix: FormatMsgpack,
		"a.msgpack":         FormatMsgpack,
	} {
		if got, ok := FormatFor(path); !ok || got != want {
			t.Errorf("FormatFor(%q) = %s, %v", path, got, ok)
		}
	}
	if _, ok := FormatFor("a.ts"); ok {
		t.Fatal("a.ts has no snapshot format")
	}
	if !IsSnapshotPath("x/y"+JSONSuffix) || IsSnapshotPath("x/y.json") {
		t.Fatal("IsSnapshotPath mismatch")
	}
	if !strings.HasSuffix(FormatMsgpack.String(), "msgpack") {
		t.Fatal(FormatMsgpack.String())
	}
}
