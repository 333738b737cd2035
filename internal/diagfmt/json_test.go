package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tsunused/internal/diag"
	"tsunused/internal/source"
)

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[1]
	if d.Severity != "WARNING" || d.Code != "TSU1002" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	want := LocationJSON{File: "test.ts", StartByte: 37, EndByte: 43, StartLine: 2, StartCol: 13, EndLine: 2, EndCol: 19}
	if d.Location != want {
		t.Fatalf("location = %+v, want %+v", d.Location, want)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "derived from TypeScript diagnostic TS6133" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count %d dropped %d", out.Count, out.Dropped)
	}
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Fatalf("positions included without IncludePositions: %+v", loc)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatal("notes included without IncludeNotes")
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{
		ToolName:       "tsunused",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"check", "."},
		PathMode:       PathModeRelative,
	})
	if err != nil {
		t.Fatal(err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("rules = %+v", run.Tool.Driver.Rules)
	}
	if r := run.Tool.Driver.Rules[0]; r.ID != "TSU1002" || r.DefaultConfiguration.Level != "warning" {
		t.Fatalf("first rule = %+v", r)
	}
	if len(run.Results) != 2 {
		t.Fatalf("results = %d", len(run.Results))
	}

	imp := run.Results[0]
	if imp.RuleID != "TSU1003" || imp.RuleIndex != 1 || imp.Level != "error" {
		t.Fatalf("import result = %+v", imp)
	}
	param := run.Results[1]
	region := param.Locations[0].PhysicalLocation.Region
	if region.StartLine != 2 || region.StartColumn != 13 || region.ByteOffset != 37 || region.ByteLength != 6 {
		t.Fatalf("region = %+v", region)
	}
	if uri := param.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "src/test.ts" {
		t.Fatalf("uri = %q", uri)
	}
	if len(param.RelatedLocations) != 1 || param.RelatedLocations[0].Message.Text == "" {
		t.Fatalf("related = %+v", param.RelatedLocations)
	}
	if len(run.Invocations) != 1 || !run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("invocations = %+v", run.Invocations)
	}
}

func TestSarifCodePointColumns(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("const ё = 1, x = 2;\n")
	id := fs.AddVirtual("u.ts", content)
	start := uint32(bytes.IndexByte(content, 'x'))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.UnusedBinding, source.Span{File: id, Start: start, End: start + 1}, "'x' is assigned a value but never used."))

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "tsunused"}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	region := log.Runs[0].Results[0].Locations[0].PhysicalLocation.Region
	// ё занимает два байта, но одну позицию
	if region.StartColumn != 14 || region.EndColumn != 15 {
		t.Fatalf("region = %+v", region)
	}
	if log.Runs[0].Invocations != nil {
		t.Fatal("invocations without arguments")
	}
}
