package unusedvars

import (
	"tsunused/internal/syntax"
	"tsunused/internal/trace"
)

// ParameterRecord marks a parameter name the checker flagged as unused.
type ParameterRecord struct {
	Token    syntax.NodeID
	Owner    syntax.NodeID
	Position int
}

// PendingDecision is an unused parameter whose report waits for the sweep
// because later parameters exist.
type PendingDecision struct {
	Token    syntax.NodeID
	Owner    syntax.NodeID
	Position int
	Code     int
}

// handleParameter records the parameter and reports it now or defers it.
// Recording happens before any ignore-pattern check: siblings depend on
// whether a position was flagged, not on whether it was reported.
func (a *Analysis) handleParameter(id, param syntax.NodeID) {
	owner := a.tree.Parent(param)
	params := a.tree.Parameters(owner)
	pos := -1
	for i, p := range params {
		if p == param {
			pos = i
			break
		}
	}
	if _, seen := a.records[id]; !seen {
		a.records[id] = ParameterRecord{Token: id, Owner: owner, Position: pos}
	}

	last := pos < 0 || pos == len(params)-1
	if last || !a.rule.opts.Arguments.IgnoreIfArgsAfterAreUsed {
		a.match(BindingParameter, id)
		return
	}
	a.pending = append(a.pending, PendingDecision{Token: id, Owner: owner, Position: pos, Code: a.code})
}

// resolvePending runs every pending decision once, in registration order.
// A decision reports its parameter only when every parameter of the owner
// was flagged unused; a destructured parameter anywhere in the list
// silences it.
func (a *Analysis) resolvePending() {
	pending := a.pending
	a.pending = nil
	for _, p := range pending {
		if a.allParametersUnused(p) {
			a.code = p.Code
			a.match(BindingParameter, p.Token)
		}
	}
}

func (a *Analysis) allParametersUnused(p PendingDecision) bool {
	for _, param := range a.tree.Parameters(p.Owner) {
		name := a.tree.Name(param)
		if a.tree.Kind(name).IsBindingPattern() {
			trace.Point(a.tracer, trace.ScopeNode, "sweep-skip", "destructured parameter", a.span)
			return false
		}
		if _, flagged := a.records[name]; !flagged {
			trace.Point(a.tracer, trace.ScopeNode, "sweep-suppress", a.tree.Text(p.Token), a.span)
			return false
		}
	}
	return true
}
