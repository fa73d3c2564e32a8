package write

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/filter"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// MutationOp names one of the five null-aware advanced mutations from
// spec.md §4.4: a relative field update a plain Patch's literal SET cannot
// express safely once a matched node may not yet carry the field at all.
type MutationOp string

const (
	// Inc renders "n.field = coalesce(n.field, 0) + $p".
	Inc MutationOp = "inc"
	// Unset renders "REMOVE n.field"; it binds no parameter.
	Unset MutationOp = "unset"
	// ListAppend renders "n.field = coalesce(n.field, []) + $p".
	ListAppend MutationOp = "list_append"
	// ListRemove renders "n.field = [x IN coalesce(n.field, []) WHERE x <> $p]".
	ListRemove MutationOp = "list_remove"
	// MapMerge renders "n.field += $p".
	MapMerge MutationOp = "map_merge"
)

// UnsupportedMutationOpError reports an AdvancedMutation with an Op value
// outside the supported set.
type UnsupportedMutationOpError struct {
	Op MutationOp
}

func (e *UnsupportedMutationOpError) Error() string {
	return "unsupported mutation op: " + string(e.Op)
}

// AdvancedMutation describes a single null-safe field mutation (increment,
// unset, list append/remove, or map merge) over every node or relationship
// matching Predicates.
type AdvancedMutation struct {
	Kind       TargetKind
	Target     string // label (NodeTarget) or relationship type (RelTarget)
	Predicates []predicate.Predicate
	Field      string
	Op         MutationOp
	Argument   any
}

// NewAdvancedMutation starts a node-target advanced-mutation description.
// Argument is ignored for Unset.
func NewAdvancedMutation(label, field string, op MutationOp, argument any) AdvancedMutation {
	return AdvancedMutation{Kind: NodeTarget, Target: label, Field: field, Op: op, Argument: argument}
}

// NewRelAdvancedMutation starts a relationship-target advanced-mutation
// description.
func NewRelAdvancedMutation(relType, field string, op MutationOp, argument any) AdvancedMutation {
	return AdvancedMutation{Kind: RelTarget, Target: relType, Field: field, Op: op, Argument: argument}
}

func (m AdvancedMutation) Where(preds ...predicate.Predicate) AdvancedMutation {
	m.Predicates = append(append([]predicate.Predicate(nil), m.Predicates...), preds...)
	return m
}

// Compile renders the mutation into a single Statement.
func (m AdvancedMutation) Compile() (compiler.Statement, error) {
	target, err := ipr.Validate(m.Target, true)
	if err != nil {
		return compiler.Statement{}, err
	}
	field, err := ipr.Validate(m.Field, true)
	if err != nil {
		return compiler.Statement{}, err
	}

	alias := targetAlias(m.Kind)
	reg := ipr.New()
	where, err := filter.Compile(m.Predicates, singleAliasResolver(alias), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	n := alias + "." + field
	var action string
	switch m.Op {
	case Inc:
		action = "SET " + n + " = coalesce(" + n + ", 0) + $" + reg.Bind(m.Argument)
	case Unset:
		action = "REMOVE " + n
	case ListAppend:
		action = "SET " + n + " = coalesce(" + n + ", []) + $" + reg.Bind(m.Argument)
	case ListRemove:
		p := reg.Bind(m.Argument)
		action = "SET " + n + " = [x IN coalesce(" + n + ", []) WHERE x <> $" + p + "]"
	case MapMerge:
		action = "SET " + n + " += $" + reg.Bind(m.Argument)
	default:
		return compiler.Statement{}, &UnsupportedMutationOpError{Op: m.Op}
	}

	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(targetPattern(m.Kind, target))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" ")
	b.WriteString(action)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
