package diag

import (
	"testing"

	"tsunused/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/sample.ts", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     UnusedBinding,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
				{Span: source.Span{File: source.FileID(42), Start: 0, End: 0}, Msg: "unresolvable"},
			},
		},
		{
			Severity: SevError,
			Code:     UnusedImportDecl,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "warning TSU1001 src/sample.ts:1:1 first line second\n" +
		"error TSU1003 src/sample.ts:2:1 another\n" +
		"note TSU1001 src/sample.ts:2:1 note line"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	if got := FormatGoldenDiagnostics(nil, source.NewFileSet(), false); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
