// Package checker models the semantic diagnostics a TypeScript type-checker
// produces and the program surface the rule consumes.
package checker

import (
	"fmt"

	"tsunused/internal/syntax"
)

// Diagnostic is one semantic diagnostic as reported by the checker.
// Start and Length are byte offsets into the file text; Start is nil for
// global diagnostics that carry no position.
type Diagnostic struct {
	Code    int
	Start   *int
	Length  int
	Message string
}

// Offset returns the start offset, or -1 when the diagnostic has none.
func (d Diagnostic) Offset() int {
	if d.Start == nil {
		return -1
	}
	return *d.Start
}

func (d Diagnostic) String() string {
	if d.Start == nil {
		return fmt.Sprintf("TS%d %s", d.Code, d.Message)
	}
	return fmt.Sprintf("TS%d@%d+%d %s", d.Code, *d.Start, d.Length, d.Message)
}

// At builds a positioned diagnostic; handy for hosts and tests.
func At(code, start, length int, msg string) Diagnostic {
	return Diagnostic{Code: code, Start: &start, Length: length, Message: msg}
}

// Program is the read-only view of a checked program.
type Program interface {
	// SemanticDiagnostics returns the checker diagnostics of file in
	// checker order.
	SemanticDiagnostics(file string) []Diagnostic
	// SourceFile returns the syntax tree of file, or nil when unknown.
	SourceFile(file string) *syntax.Tree
}
