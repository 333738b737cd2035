package checker

import "testing"

func TestIsUnused(t *testing.T) {
	for _, code := range []int{6133, 6138, 6192, 6196, 6198, 6199, 6205} {
		if !IsUnused(code) {
			t.Errorf("expected %d to be an unused-binding code", code)
		}
	}
	for _, code := range []int{0, 2304, 6134, 6200, 7027} {
		if IsUnused(code) {
			t.Errorf("expected %d to be ignored", code)
		}
	}
}

func TestUnusedFiltersAndKeepsOrder(t *testing.T) {
	in := []Diagnostic{
		At(6133, 10, 1, "'b' is declared but its value is never read."),
		At(2304, 0, 3, "Cannot find name 'foo'."),
		{Code: 6133, Message: "global"},
		At(6192, 0, 20, "All imports in import declaration are unused."),
		At(6133, 2, 1, "'a' is declared but its value is never read."),
	}
	got := Unused(in)
	if len(got) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(got), got)
	}
	wantOffsets := []int{10, 0, 2}
	for i, d := range got {
		if d.Offset() != wantOffsets[i] {
			t.Errorf("diag %d offset = %d, want %d", i, d.Offset(), wantOffsets[i])
		}
	}
}

func TestUnusedEmpty(t *testing.T) {
	if got := Unused(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestDiagnosticString(t *testing.T) {
	if got := At(6133, 4, 1, "m").String(); got != "TS6133@4+1 m" {
		t.Fatalf("String = %q", got)
	}
	if got := (Diagnostic{Code: 6133, Message: "m"}).String(); got != "TS6133 m" {
		t.Fatalf("String = %q", got)
	}
}

func TestUnusedCodesMatchFilter(t *testing.T) {
	codes := UnusedCodes()
	if len(codes) != len(unusedCodes) {
		t.Fatalf("UnusedCodes() has %d codes, filter has %d", len(codes), len(unusedCodes))
	}
	for i, c := range codes {
		if !IsUnused(c) {
			t.Errorf("code %d is not accepted by the filter", c)
		}
		if i > 0 && codes[i-1] >= c {
			t.Errorf("codes out of order at %d", i)
		}
	}
}
