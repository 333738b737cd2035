// Package unusedvars implements the no-unused-vars rule: it re-classifies
// the unused-binding diagnostics of the TypeScript checker into per-kind
// findings, applies ignore patterns and optionally suppresses unused
// parameters that are followed by used ones.
package unusedvars

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tsunused/internal/checker"
	"tsunused/internal/diag"
	"tsunused/internal/trace"
)

const (
	Name        = "no-unused-vars"
	Description = "Disallow unused variables and arguments."
)

// ErrNoSourceFile is returned when the program has no syntax tree for a file.
var ErrNoSourceFile = errors.New("no syntax tree for file")

// Rule is a configured no-unused-vars rule. It is immutable and may be
// shared by concurrent Run calls.
type Rule struct {
	opts      Options
	variables *Pattern
	arguments *Pattern
}

// New validates opts and compiles the ignore patterns.
func New(opts Options) (*Rule, error) {
	r := &Rule{opts: opts}

	vp := opts.Variables.IgnoredNamesRegex
	if !vp.IsSet() {
		vp = Regex(DefaultIgnoredNamesRegex)
	}
	var err error
	if r.variables, err = compileNamePattern(vp); err != nil {
		return nil, fmt.Errorf("variables: %w", err)
	}

	ap := opts.Arguments.IgnoredNamesRegex
	if !ap.IsSet() {
		r.arguments = r.variables
	} else if r.arguments, err = compileNamePattern(ap); err != nil {
		return nil, fmt.Errorf("arguments: %w", err)
	}
	return r, nil
}

func compileNamePattern(p NamePattern) (*Pattern, error) {
	src, ok := p.Source()
	if !ok {
		return nil, nil
	}
	return CompilePattern(src)
}

// Options returns the options the rule was built from.
func (r *Rule) Options() Options { return r.opts }

// VariablesPattern returns the compiled variables pattern, nil when disabled.
func (r *Rule) VariablesPattern() *Pattern { return r.variables }

// ArgumentsPattern returns the compiled arguments pattern, nil when disabled.
func (r *Rule) ArgumentsPattern() *Pattern { return r.arguments }

func (r *Rule) patternFor(kind BindingKind) *Pattern {
	if kind.usesArgumentsPattern() {
		return r.arguments
	}
	return r.variables
}

// Run analyses one file of prog. Findings are returned in report order and
// forwarded to reporter (which may be nil) once the whole file has been
// classified. An *UnknownRoleError aborts the file before anything is
// reported.
func (r *Rule) Run(ctx context.Context, prog checker.Program, file string, reporter diag.Reporter) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree := prog.SourceFile(file)
	if tree == nil {
		return nil, fmt.Errorf("%s: %w", file, ErrNoSourceFile)
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	a := newAnalysis(r, tree, file, tracer)

	diags := checker.Unused(prog.SemanticDiagnostics(file))
	classify := trace.Begin(tracer, trace.ScopeRule, "classify", parent)
	a.span = classify.ID()
	for _, d := range diags {
		if err := a.handleDiagnostic(d); err != nil {
			classify.End(err.Error())
			return nil, err
		}
	}
	classify.WithExtra("diagnostics", strconv.Itoa(len(diags))).End("")

	sweep := trace.Begin(tracer, trace.ScopeRule, "sweep", parent)
	a.span = sweep.ID()
	a.resolvePending()
	sweep.WithExtra("findings", strconv.Itoa(len(a.findings))).End("")

	if reporter != nil {
		for _, f := range a.findings {
			r.report(reporter, f)
		}
	}
	return a.findings, nil
}
