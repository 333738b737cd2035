package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsunused/internal/diagfmt"
)

const unusedParamSnapshot = `{
  "file": "p.ts",
  "text": "function f(a, b) { return b; }\n",
  "diagnostics": [{"code": 6133, "start": 11, "length": 1, "message": "'a' is declared but its value is never read."}],
  "nodes": [
    {"kind": "SourceFile", "pos": 0, "end": 31, "parent": -1},
    {"kind": "FunctionDeclaration", "pos": 0, "end": 30, "parent": 0, "name": 2},
    {"kind": "Identifier", "pos": 9, "end": 10, "parent": 1},
    {"kind": "Parameter", "pos": 11, "end": 12, "parent": 1, "name": 4},
    {"kind": "Identifier", "pos": 11, "end": 12, "parent": 3},
    {"kind": "Parameter", "pos": 14, "end": 15, "parent": 1, "name": 6},
    {"kind": "Identifier", "pos": 14, "end": 15, "parent": 5}
  ]
}`

func writeSnapshot(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "p.tsdiag.json", unusedParamSnapshot)

	code, stdout, stderr := run(t, "check", "--no-config", "--ui", "off", "--format", "json", dir)
	if code != exitClean {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, stdout)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d\n%s", out.Count, stdout)
	}
	d := out.Diagnostics[0]
	if d.Code != "TSU1002" || d.Severity != "WARNING" || !strings.Contains(d.Message, "Parameter 'a'") {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestCheckSuppressionOption(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "p.tsdiag.json", unusedParamSnapshot)

	code, stdout, stderr := run(t, "check", "--no-config", "--ui", "off", "--format", "short",
		"--options", `{"arguments": {"ignoreIfArgsAfterAreUsed": true}}`, dir)
	if code != exitClean || stdout != "" {
		t.Fatalf("exit %d, stdout %q, stderr %q", code, stdout, stderr)
	}
}

func TestCheckSeverityErrorExitsOne(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "p.tsdiag.json", unusedParamSnapshot)

	code, stdout, stderr := run(t, "check", "--no-config", "--ui", "off", "--format", "pretty", "--color", "off", "--severity", "error", dir)
	if code != exitErrors {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "ERROR TSU1002") || !strings.Contains(stdout, "^") {
		t.Fatalf("stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "1 problems (1 errors, 0 warnings, 0 infos) in 1 files") {
		t.Fatalf("stderr:\n%s", stderr)
	}
	if strings.Contains(stderr, "tsunused:") {
		t.Fatalf("exit 1 should not print an error line:\n%s", stderr)
	}
}

func TestCheckSummaryCountsDropped(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "q.tsdiag.json", `{
  "file": "q.ts",
  "text": "function f(a, b) {}\n",
  "diagnostics": [{"code": 6133, "start": 11, "length": 1}, {"code": 6133, "start": 14, "length": 1}],
  "nodes": [
    {"kind": "SourceFile", "pos": 0, "end": 20, "parent": -1},
    {"kind": "FunctionDeclaration", "pos": 0, "end": 19, "parent": 0, "name": 2},
    {"kind": "Identifier", "pos": 9, "end": 10, "parent": 1},
    {"kind": "Parameter", "pos": 11, "end": 12, "parent": 1, "name": 4},
    {"kind": "Identifier", "pos": 11, "end": 12, "parent": 3},
    {"kind": "Parameter", "pos": 14, "end": 15, "parent": 1, "name": 6},
    {"kind": "Identifier", "pos": 14, "end": 15, "parent": 5}
  ]
}`)
	code, stdout, stderr := run(t, "check", "--no-config", "--ui", "off", "--color", "off",
		"--severity", "error", "--max-diagnostics", "1", dir)
	if code != exitErrors {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "... 1 more diagnostics not shown") {
		t.Fatalf("stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "2 problems (2 errors, 0 warnings, 0 infos) in 1 files") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestCheckHostErrorExitsTwo(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "bad.tsdiag.json", `{"file": `)

	code, stdout, _ := run(t, "check", "--no-config", "--ui", "off", "--format", "short", dir)
	if code != exitFatal {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "IO4002") {
		t.Fatalf("stdout:\n%s", stdout)
	}
}

func TestCheckUnknownRoleExitsTwo(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "c.tsdiag.json", `{
  "file": "c.ts",
  "text": "function f<T>() {}\n",
  "diagnostics": [{"code": 6133, "start": 11, "length": 1}],
  "nodes": [
    {"kind": "SourceFile", "pos": 0, "end": 19, "parent": -1},
    {"kind": "FunctionDeclaration", "pos": 0, "end": 18, "parent": 0},
    {"kind": "TypeParameter", "pos": 11, "end": 12, "parent": 1},
    {"kind": "Identifier", "pos": 11, "end": 12, "parent": 2}
  ]
}`)
	code, _, stderr := run(t, "check", "--no-config", "--ui", "off", dir)
	if code != exitFatal || !strings.Contains(stderr, "aborted") {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestCheckRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "p.tsdiag.json", unusedParamSnapshot)
	cases := [][]string{
		{"check", "--no-config", "--ui", "off", "--format", "xml", dir},
		{"check", "--no-config", "--ui", "maybe", dir},
		{"check", "--no-config", "--ui", "off", "--options", `{"vars": "all"}`, dir},
		{"check", "--ui", "off", "--config", filepath.Join(dir, "missing.toml"), dir},
		{"check", "--no-config", "--ui", "off", filepath.Join(dir, "nope")},
	}
	for _, args := range cases {
		if code, _, stderr := run(t, args...); code != exitFatal || !strings.Contains(stderr, "tsunused:") {
			t.Errorf("%v: exit %d, stderr %q", args, code, stderr)
		}
	}
}

func TestCheckUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "p.tsdiag.json", unusedParamSnapshot)
	cfg := filepath.Join(dir, "tsunused.toml")
	if err := os.WriteFile(cfg, []byte("[rule.arguments]\nignored_names_regex = \"^a$\"\n[output]\nformat = \"short\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	code, stdout, stderr := run(t, "check", "--config", cfg, "--ui", "off", dir)
	if code != exitClean || stdout != "" {
		t.Fatalf("exit %d, stdout %q, stderr %q", code, stdout, stderr)
	}
}

func TestExplainJSON(t *testing.T) {
	code, stdout, stderr := run(t, "explain", "--format", "json")
	if code != exitClean {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	var p explainPayload
	if err := json.Unmarshal([]byte(stdout), &p); err != nil {
		t.Fatal(err)
	}
	if p.Rule != "no-unused-vars" || len(p.Messages) != 3 || len(p.Kinds) != 11 || len(p.CheckerCodes) != 7 {
		t.Fatalf("payload = %+v", p)
	}
}

func TestExplainPretty(t *testing.T) {
	code, stdout, _ := run(t, "explain", "--color", "off")
	if code != exitClean {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"no-unused-vars", "TS6133", "Destructured Variable", "unusedWithIgnorePattern", "arguments.ignoreIfArgsAfterAreUsed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("explain output lacks %q", want)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := run(t, "version", "--format", "json")
	if code != exitClean {
		t.Fatalf("exit %d", code)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(stdout), &p); err != nil || p.Tool != "tsunused" || p.Version == "" {
		t.Fatalf("payload %+v, err %v", p, err)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if shouldUseTUI(uiModeAuto, &bytes.Buffer{}) {
		t.Error("auto mode must stay off for a non-terminal writer")
	}
}
