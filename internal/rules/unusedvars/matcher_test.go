package unusedvars

import "testing"

func TestMatchOutcomes(t *testing.T) {
	p, err := CompilePattern("^_")
	if err != nil {
		t.Fatalf("CompilePattern: %v", err)
	}
	cases := []struct {
		name    string
		pattern *Pattern
		want    Outcome
	}{
		{"_x", p, OutcomeSuppressed},
		{"x", p, OutcomeWithPattern},
		{"x_", p, OutcomeWithPattern},
		{"_x", nil, OutcomePlain},
		{"x", nil, OutcomePlain},
	}
	for _, tc := range cases {
		if got := Match(tc.name, tc.pattern); got != tc.want {
			t.Errorf("Match(%q, %s) = %s, want %s", tc.name, tc.pattern, got, tc.want)
		}
	}
}

func TestMatchLookaround(t *testing.T) {
	opts, err := ParseOptions([]byte(`{"variables": {"ignoredNamesRegex": "^(?!keep)"}, "arguments": {"ignoredNamesRegex": "^(_)\\1|^ig(?=nored$)"}}`))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := r.VariablesPattern().String(); got != "/^(?!keep)/" {
		t.Fatalf("pattern literal = %q", got)
	}
	cases := []struct {
		name    string
		pattern *Pattern
		want    Outcome
	}{
		{"tmp", r.VariablesPattern(), OutcomeSuppressed},
		{"keepMe", r.VariablesPattern(), OutcomeWithPattern},
		{"ignored", r.ArgumentsPattern(), OutcomeSuppressed},
		{"__", r.ArgumentsPattern(), OutcomeSuppressed},
		{"_x", r.ArgumentsPattern(), OutcomeWithPattern},
	}
	for _, tc := range cases {
		if got := Match(tc.name, tc.pattern); got != tc.want {
			t.Errorf("Match(%q, %s) = %s, want %s", tc.name, tc.pattern, got, tc.want)
		}
	}
}

func TestRegexLiteral(t *testing.T) {
	cases := map[string]string{
		"^_":                "/^_/",
		"":                  "/(?:)/",
		"a/b":               `/a\/b/`,
		`a\/b`:              `/a\/b/`,
		`^(ignored|unused)`: "/^(ignored|unused)/",
	}
	for src, want := range cases {
		if got := regexLiteral(src); got != want {
			t.Errorf("regexLiteral(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestVariantsAndKinds(t *testing.T) {
	ids := []string{"unused", "unusedWithIgnorePattern", "unusedImport"}
	for i, v := range Variants() {
		if v.ID() != ids[i] {
			t.Errorf("variant %d id = %q", i, v.ID())
		}
		if v.Template() == "" {
			t.Errorf("variant %s has no template", v.ID())
		}
	}
	if BindingType.String() != "Type" || BindingDestructuredVariable.String() != "Destructured Variable" {
		t.Fatalf("unexpected display names")
	}
	if RoleParameter.BindingKind() != BindingParameter || roleOf(0) != RoleUnknown {
		t.Fatalf("unexpected role mapping")
	}
}

func TestResolvePendingInIsolation(t *testing.T) {
	f, ids := fnFixture(t, "function f(a, b, c) {}", "a", "b", "c")
	tree := f.Tree()
	fn := tree.Parent(tree.Parent(ids[0]))
	r := mustRule(t, withTrailing())

	a := newAnalysis(r, tree, "a.ts", nil)
	for i, id := range ids {
		a.records[id] = ParameterRecord{Token: id, Owner: fn, Position: i}
	}
	a.pending = []PendingDecision{{Token: ids[1], Owner: fn, Position: 1}, {Token: ids[0], Owner: fn, Position: 0}}
	a.resolvePending()
	if got := names(a.findings); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected registration order [b a], got %v", got)
	}
	if a.pending != nil {
		t.Fatalf("pending decisions must be drained")
	}

	// c no longer flagged: every decision aborts
	delete(a.records, ids[2])
	a.findings = nil
	a.pending = []PendingDecision{{Token: ids[0], Owner: fn, Position: 0}}
	a.resolvePending()
	if len(a.findings) != 0 {
		t.Fatalf("expected suppression, got %+v", a.findings)
	}
}
