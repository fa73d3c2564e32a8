package write

import (
	"sort"
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/filter"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// Patch describes a scalar-valued SET over every node or relationship
// matching Predicates. Every bound value, predicate and assignment alike,
// is drawn from a single ipr.Registry so the resulting placeholders
// (param_0, param_1, ...) number sequentially across the whole statement.
type Patch struct {
	Kind       TargetKind
	Target     string // label (NodeTarget) or relationship type (RelTarget)
	Predicates []predicate.Predicate
	Set        map[string]any
}

// NewPatch starts a node-target patch description.
func NewPatch(label string, set map[string]any) Patch {
	return Patch{Kind: NodeTarget, Target: label, Set: set}
}

// NewRelPatch starts a relationship-target patch description.
func NewRelPatch(relType string, set map[string]any) Patch {
	return Patch{Kind: RelTarget, Target: relType, Set: set}
}

func (p Patch) Where(preds ...predicate.Predicate) Patch {
	p.Predicates = append(append([]predicate.Predicate(nil), p.Predicates...), preds...)
	return p
}

// Compile renders the patch into a single Statement.
func (p Patch) Compile() (compiler.Statement, error) {
	if len(p.Set) == 0 {
		return compiler.Statement{}, newEmptyInput("patch requires at least one assignment")
	}

	target, err := ipr.Validate(p.Target, true)
	if err != nil {
		return compiler.Statement{}, err
	}

	alias := targetAlias(p.Kind)
	reg := ipr.New()
	where, err := filter.Compile(p.Predicates, singleAliasResolver(alias), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	fields := make([]string, 0, len(p.Set))
	for f := range p.Set {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	assignments := make([]string, len(fields))
	for i, f := range fields {
		validField, err := ipr.Validate(f, true)
		if err != nil {
			return compiler.Statement{}, err
		}
		placeholder := reg.Bind(p.Set[f])
		assignments[i] = alias + "." + validField + " = $" + placeholder
	}

	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(targetPattern(p.Kind, target))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" SET ")
	b.WriteString(strings.Join(assignments, ", "))

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
