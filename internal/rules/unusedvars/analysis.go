package unusedvars

import (
	"fmt"

	"fortio.org/safecast"

	"tsunused/internal/checker"
	"tsunused/internal/syntax"
	"tsunused/internal/trace"
)

// Analysis holds the state of one file run. It is created by Rule.Run and
// never shared.
type Analysis struct {
	rule     *Rule
	tree     *syntax.Tree
	path     string
	records  map[syntax.NodeID]ParameterRecord
	pending  []PendingDecision
	findings []Finding

	tracer trace.Tracer
	span   uint64
	code   int // code of the diagnostic being classified
}

func newAnalysis(r *Rule, tree *syntax.Tree, path string, tracer trace.Tracer) *Analysis {
	return &Analysis{
		rule:    r,
		tree:    tree,
		path:    path,
		records: make(map[syntax.NodeID]ParameterRecord),
		tracer:  tracer,
	}
}

func (a *Analysis) handleDiagnostic(d checker.Diagnostic) error {
	a.code = d.Code
	off, err := safecast.Conv[uint32](d.Offset())
	if err != nil {
		a.drop(d, "negative offset")
		return nil
	}
	tok, ok := a.tree.TokenAt(off)
	if !ok {
		a.drop(d, "offset outside the file")
		return nil
	}

	parentKind := a.tree.Kind(tok.Parent)
	switch {
	case tok.Kind == syntax.KindIdentifier:
		return a.handleIdentifier(tok.Node)
	case parentKind == syntax.KindImportDeclaration:
		// вся декларация импорта не используется
		a.addFinding(Finding{
			Kind:        BindingImport,
			Span:        a.tree.Span(tok.Parent),
			Variant:     VariantUnusedImport,
			CheckerCode: a.code,
		})
		return nil
	case parentKind.IsBindingPattern():
		return a.handleDestructure(tok.Parent)
	case parentKind == syntax.KindVariableDeclarationList:
		return a.handleDeclarationList(tok.Parent)
	default:
		a.drop(d, fmt.Sprintf("%s token under %s", tok.Kind, parentKind))
		return nil
	}
}

func (a *Analysis) handleIdentifier(id syntax.NodeID) error {
	parent := a.tree.Parent(id)
	role := roleOf(a.tree.Kind(parent))
	switch role {
	case RoleUnknown:
		return &UnknownRoleError{
			Path:       a.path,
			Name:       a.tree.Text(id),
			ParentKind: a.tree.Kind(parent),
			Span:       a.tree.Span(id),
			Code:       a.code,
		}
	case RoleParameter:
		a.handleParameter(id, parent)
		return nil
	default:
		a.match(role.BindingKind(), id)
		return nil
	}
}

// handleDestructure expands a wholly unused pattern. Only elements bound to
// a plain identifier are classified; nested patterns produce nothing.
func (a *Analysis) handleDestructure(pattern syntax.NodeID) error {
	for _, el := range a.tree.Elements(pattern) {
		name := a.tree.Name(el)
		if a.tree.Kind(name) != syntax.KindIdentifier {
			trace.Point(a.tracer, trace.ScopeNode, "skip-nested", a.tree.Span(el).String(), a.span)
			continue
		}
		if err := a.handleIdentifier(name); err != nil {
			return err
		}
	}
	return nil
}

// handleDeclarationList expands "All variables are unused".
func (a *Analysis) handleDeclarationList(list syntax.NodeID) error {
	for _, decl := range a.tree.Declarations(list) {
		name := a.tree.Name(decl)
		var err error
		switch k := a.tree.Kind(name); {
		case k == syntax.KindIdentifier:
			err = a.handleIdentifier(name)
		case k.IsBindingPattern():
			err = a.handleDestructure(name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// match runs the ignore-pattern matcher for a binding and records the
// finding unless the name is ignored.
func (a *Analysis) match(kind BindingKind, id syntax.NodeID) {
	name := a.tree.Text(id)
	pattern := a.rule.patternFor(kind)
	f := Finding{
		Kind:        kind,
		Name:        name,
		Span:        a.tree.Span(id),
		CheckerCode: a.code,
	}
	switch Match(name, pattern) {
	case OutcomeSuppressed:
		trace.Point(a.tracer, trace.ScopeNode, "ignored", name, a.span)
		return
	case OutcomePlain:
		f.Variant = VariantUnused
	case OutcomeWithPattern:
		f.Variant = VariantUnusedWithIgnorePattern
		f.Pattern = pattern.String()
	}
	a.addFinding(f)
}

func (a *Analysis) addFinding(f Finding) {
	a.findings = append(a.findings, f)
}

func (a *Analysis) drop(d checker.Diagnostic, why string) {
	trace.Point(a.tracer, trace.ScopeNode, "drop", fmt.Sprintf("%s: %s", d, why), a.span)
}
