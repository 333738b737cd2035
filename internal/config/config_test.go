package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsunused/internal/diag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[rule.arguments]\nignore_if_args_after_are_used = true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
	if !cfg.Rule.Arguments.IgnoreIfArgsAfterAreUsed {
		t.Fatal("file value not applied")
	}
	// untouched keys keep their defaults
	if src, ok := cfg.Rule.Variables.IgnoredNamesRegex.Source(); !ok || src != "^_" {
		t.Fatalf("variables pattern = %v", cfg.Rule.Variables.IgnoredNamesRegex)
	}
	if cfg.Rule.Arguments.IgnoredNamesRegex.IsSet() {
		t.Fatal("arguments pattern should stay unset")
	}
	if cfg.Output.Format != "pretty" || cfg.Output.MaxDiagnostics != 100 {
		t.Fatalf("output = %+v", cfg.Output)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Rule.Severity != "warning" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestDefaultSeverityMatchesFileForm(t *testing.T) {
	def := Default()
	file, err := Load(writeConfig(t, t.TempDir(), "[rule]\nseverity = \"warning\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if def.Rule.Severity != "warning" || file.Rule.Severity != def.Rule.Severity {
		t.Fatalf("default %q, file %q", def.Rule.Severity, file.Rule.Severity)
	}
}

func TestLoadAllKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[rule]
severity = "error"

[rule.variables]
ignored_names_regex = false

[rule.arguments]
ignored_names_regex = "^unused"
ignore_if_args_after_are_used = true

[output]
format = "json"
jobs = 4
max_diagnostics = 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts, err := cfg.RuleOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Severity != diag.SevError {
		t.Fatalf("severity = %v", opts.Severity)
	}
	if !opts.Variables.IgnoredNamesRegex.IsDisabled() {
		t.Fatal("variables pattern should be disabled")
	}
	if src, _ := opts.Arguments.IgnoredNamesRegex.Source(); src != "^unused" {
		t.Fatalf("arguments pattern = %q", src)
	}
	if !opts.Arguments.IgnoreIfArgsAfterAreUsed {
		t.Fatal("ignore_if_args_after_are_used not applied")
	}
	if cfg.Output != (OutputConfig{Format: "json", Jobs: 4, MaxDiagnostics: 0}) {
		t.Fatalf("output = %+v", cfg.Output)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "[rule]\nignore_everything = true\n",
		"true pattern": "[rule.variables]\nignored_names_regex = true\n",
		"int pattern":  "[rule.variables]\nignored_names_regex = 3\n",
		"severity":     "[rule]\nseverity = \"fatal\"\n",
		"format":       "[output]\nformat = \"xml\"\n",
		"jobs":         "[output]\njobs = -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), body))
			if err == nil {
				t.Fatal("expected an error")
			}
			switch name {
			case "unknown key":
				if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), "rule.ignore_everything") {
					t.Fatalf("error %v does not name the key", err)
				}
			case "severity", "format", "jobs":
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("error %v does not wrap ErrInvalid", err)
				}
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeConfig(t, t.TempDir(), "[rule\n"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse TOML") {
		t.Fatalf("error = %v", err)
	}
}
