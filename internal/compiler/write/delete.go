package write

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/filter"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// Delete describes a node or relationship removal over every match of
// Predicates. Detach only ever applies to a node target: spec.md §4.4 is
// explicit that a relationship delete is "never DETACH".
type Delete struct {
	Kind       TargetKind
	Target     string // label (NodeTarget) or relationship type (RelTarget)
	Predicates []predicate.Predicate
	Detach     bool
}

// NewDelete starts a node-target delete description.
func NewDelete(label string) Delete {
	return Delete{Kind: NodeTarget, Target: label}
}

// NewRelDelete starts a relationship-target delete description. Detach has
// no effect on a relationship target and is ignored if set.
func NewRelDelete(relType string) Delete {
	return Delete{Kind: RelTarget, Target: relType}
}

func (d Delete) Where(preds ...predicate.Predicate) Delete {
	d.Predicates = append(append([]predicate.Predicate(nil), d.Predicates...), preds...)
	return d
}

// WithDetach makes a node delete a DETACH DELETE, also removing incident
// relationships; without it, a node with remaining relationships fails at
// execution time (not a compile-time concern here). Ignored for a
// relationship target.
func (d Delete) WithDetach() Delete {
	d.Detach = true
	return d
}

// Compile renders the delete into a single Statement.
func (d Delete) Compile() (compiler.Statement, error) {
	target, err := ipr.Validate(d.Target, true)
	if err != nil {
		return compiler.Statement{}, err
	}

	alias := targetAlias(d.Kind)
	reg := ipr.New()
	where, err := filter.Compile(d.Predicates, singleAliasResolver(alias), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(targetPattern(d.Kind, target))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ")
	if d.Detach && d.Kind == NodeTarget {
		b.WriteString("DETACH ")
	}
	b.WriteString("DELETE ")
	b.WriteString(alias)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
