package checker

// Unused-binding codes of the TypeScript checker.
const (
	// 'x' is declared but its value is never read.
	CodeDeclaredUnused = 6133
	// Property 'x' is declared but its value is never read.
	CodePropertyUnused = 6138
	// All imports in import declaration are unused.
	CodeAllImportsUnused = 6192
	// 'x' is declared but never used.
	CodeDeclaredNeverUsed = 6196
	// All destructured elements are unused.
	CodeAllDestructuredUnused = 6198
	// All variables are unused.
	CodeAllVariablesUnused = 6199
	// All type parameters are unused.
	CodeAllTypeParamsUnused = 6205
)

var unusedCodes = map[int]struct{}{
	CodeDeclaredUnused:        {},
	CodePropertyUnused:        {},
	CodeAllImportsUnused:      {},
	CodeDeclaredNeverUsed:     {},
	CodeAllDestructuredUnused: {},
	CodeAllVariablesUnused:    {},
	CodeAllTypeParamsUnused:   {},
}

// IsUnused reports whether code is one of the unused-binding codes.
func IsUnused(code int) bool {
	_, ok := unusedCodes[code]
	return ok
}

// Unused keeps positioned unused-binding diagnostics in input order.
func Unused(diags []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Start == nil || !IsUnused(d.Code) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// UnusedCodes returns the unused-binding codes in ascending order.
func UnusedCodes() []int {
	return []int{
		CodeDeclaredUnused,
		CodePropertyUnused,
		CodeAllImportsUnused,
		CodeDeclaredNeverUsed,
		CodeAllDestructuredUnused,
		CodeAllVariablesUnused,
		CodeAllTypeParamsUnused,
	}
}
