package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.ts", []byte("const a = 1;\r\nlet bb;\nx"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{6, LineCol{Line: 1, Col: 7}},
		{13, LineCol{Line: 1, Col: 14}}, // '\n' of CRLF
		{14, LineCol{Line: 2, Col: 1}},
		{18, LineCol{Line: 2, Col: 5}},
		{22, LineCol{Line: 3, Col: 1}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestLoadStripsBOMKeepsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.ts")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFlet x;\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "let x;\r\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Fatalf("expected FileHadBOM flag")
	}
	if got := f.GetLine(1); got != "let x;" {
		t.Fatalf("GetLine(1) = %q", got)
	}
	if got := f.Text(Span{File: id, Start: 4, End: 5}); got != "x" {
		t.Fatalf("Text = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.ts")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGetLatestTracksNewestVersion(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("./src/a.ts", []byte("1"))
	second := fs.AddVirtual("src/a.ts", []byte("2"))
	if first == second {
		t.Fatalf("expected distinct ids")
	}
	got, ok := fs.GetLatest("src/./a.ts")
	if !ok || got != second {
		t.Fatalf("GetLatest = %d, %v; want %d", got, ok, second)
	}
	if fs.Len() != 2 || !fs.Has(second) || fs.Has(FileID(2)) {
		t.Fatalf("unexpected file set size/membership")
	}
}

func TestGetLineOutOfRange(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.ts", []byte("a\nb")))
	if f.GetLine(0) != "" || f.GetLine(3) != "" {
		t.Fatalf("expected empty lines out of range")
	}
	if f.GetLine(2) != "b" {
		t.Fatalf("GetLine(2) = %q", f.GetLine(2))
	}
}

func TestRelativePathFallsBackOutsideBase(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "src", "a.ts")
	rel, err := RelativePath(inside, base)
	if err != nil || rel != "src/a.ts" {
		t.Fatalf("RelativePath inside = %q, %v", rel, err)
	}

	outside := filepath.Join(filepath.Dir(base), "other.ts")
	got, err := RelativePath(outside, base)
	if err != nil {
		t.Fatalf("RelativePath outside: %v", err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Fatalf("expected absolute fallback, got %q", got)
	}
}

func TestFormatPathModes(t *testing.T) {
	fs := NewFileSetWithBase("/work")
	f := fs.Get(fs.AddVirtual("/work/src/deep/a.ts", nil))
	if got := f.FormatPath("relative", "/work"); got != "src/deep/a.ts" {
		t.Fatalf("relative = %q", got)
	}
	if got := f.FormatPath("basename", ""); got != "a.ts" {
		t.Fatalf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "/work/src/deep/a.ts" {
		t.Fatalf("auto = %q", got)
	}
}

func TestSpanHelpers(t *testing.T) {
	s := Span{File: 1, Start: 3, End: 7}
	if !s.Contains(3) || s.Contains(7) || s.Len() != 4 {
		t.Fatalf("unexpected span helpers for %v", s)
	}
	c := s.Cover(Span{File: 1, Start: 1, End: 5})
	if c.Start != 1 || c.End != 7 {
		t.Fatalf("Cover = %v", c)
	}
	if s.Cover(Span{File: 2, Start: 0, End: 100}) != s {
		t.Fatalf("Cover across files must be a no-op")
	}
}
