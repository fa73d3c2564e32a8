package frame

import (
	"fmt"
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// TraversalDirection is one of out, in, or both from spec.md §4.3.
type TraversalDirection string

const (
	Out  TraversalDirection = "out"
	In   TraversalDirection = "in"
	Both TraversalDirection = "both"
)

// EmptyToLabelError reports a traversal read with no destination label; the
// destination must always be specified (spec.md §4.3: "From may be empty
// ...; To must be specified").
type EmptyToLabelError struct{}

func (e *EmptyToLabelError) Error() string { return "traversal read: to-label must not be empty" }

// TraversalRead describes a directed, undirected, or back-directed
// traversal between two node patterns through one relationship type.
type TraversalRead struct {
	FromLabel  string // "" => anonymous origin
	RelType    string
	ToLabel    string
	Direction  TraversalDirection
	Aliases    AliasSet
	Predicates []predicate.Predicate
	Options    compiler.ReadOptions
}

// NewTraversalRead starts a traversal description with the default
// (from, rel, to) alias triple.
func NewTraversalRead(fromLabel, relType, toLabel string, direction TraversalDirection) TraversalRead {
	return TraversalRead{
		FromLabel: fromLabel,
		RelType:   relType,
		ToLabel:   toLabel,
		Direction: direction,
		Aliases:   DefaultAliasSet(),
	}
}

// WithAliases returns a copy of f using a caller-supplied alias triple.
func (f TraversalRead) WithAliases(from, rel, to string) TraversalRead {
	f.Aliases = f.Aliases.WithAliases(from, rel, to)
	return f
}

func (f TraversalRead) Where(preds ...predicate.Predicate) TraversalRead {
	f.Predicates = append(append([]predicate.Predicate(nil), f.Predicates...), preds...)
	return f
}

func (f TraversalRead) Select(fields ...string) TraversalRead {
	f.Options = f.Options.WithProjection(fields)
	return f
}

func (f TraversalRead) OrderBy(terms ...compiler.OrderTerm) TraversalRead {
	f.Options = f.Options.WithOrderBy(terms)
	return f
}

func (f TraversalRead) Limit(n int) TraversalRead {
	f.Options = f.Options.WithLimit(n)
	return f
}

func (f TraversalRead) Offset(n int) TraversalRead {
	f.Options = f.Options.WithOffset(n)
	return f
}

// pattern renders the "(a:From)-[r:Rel]->(b:To)"-shaped MATCH pattern for
// f's direction, with identifiers already validated.
func (f TraversalRead) pattern(fromLabel, relType, toLabel string) string {
	from := "(" + f.Aliases.From
	if fromLabel != "" {
		from += ":" + fromLabel
	}
	from += ")"
	rel := "[" + f.Aliases.Rel + ":" + relType + "]"
	to := "(" + f.Aliases.To + ":" + toLabel + ")"

	switch f.Direction {
	case In:
		return from + "<-" + rel + "-" + to
	case Both:
		return from + "-" + rel + "-" + to
	default: // Out
		return from + "-" + rel + "->" + to
	}
}

// compileParts renders the shared (pattern, where, reg) triple used by both
// a plain traversal read and the back-to-origin read built on top of it.
func (f TraversalRead) compileParts(reg *ipr.Registry) (pattern, where string, err error) {
	var fromLabel string
	if f.FromLabel != "" {
		fromLabel, err = ipr.Validate(f.FromLabel, true)
		if err != nil {
			return "", "", err
		}
	}
	relType, err := ipr.Validate(f.RelType, true)
	if err != nil {
		return "", "", err
	}
	if f.ToLabel == "" {
		return "", "", &EmptyToLabelError{}
	}
	toLabel, err := ipr.Validate(f.ToLabel, true)
	if err != nil {
		return "", "", err
	}

	where, err = filterCompile(f.Predicates, aliasSetResolver(f.Aliases), reg)
	if err != nil {
		return "", "", err
	}

	return f.pattern(fromLabel, relType, toLabel), where, nil
}

// Compile renders the traversal-read frame into a Statement.
func (f TraversalRead) Compile() (compiler.Statement, error) {
	reg := ipr.New()
	pattern, where, err := f.compileParts(reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	tokens := f.Aliases.Tokens()
	resolveVar := func(ns string) string { return f.Aliases.Resolve(ns) }
	defaultProjection := fmt.Sprintf("%s, %s, %s", f.Aliases.From, f.Aliases.Rel, f.Aliases.To)

	projection, err := renderProjection(f.Options.Projection, defaultProjection, tokens, resolveVar)
	if err != nil {
		return compiler.Statement{}, err
	}
	orderBy, err := renderOrderBy(f.Options.OrderBy, tokens, resolveVar)
	if err != nil {
		return compiler.Statement{}, err
	}

	var b strings.Builder
	b.WriteString("MATCH ")
	b.WriteString(pattern)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" RETURN ")
	b.WriteString(projection)
	appendTail(&b, orderBy, f.Options.Offset, f.Options.Limit)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
