package frame

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// nodeAlias and relAlias are the sole pattern variables that node reads and
// relationship reads bind to.
const nodeAlias = "n"
const relAlias = "r"

// NodeRead describes a node-read frame: MATCH (n:Label) [WHERE] RETURN
// [ORDER BY] [SKIP] [LIMIT].
type NodeRead struct {
	Label      string
	Predicates []predicate.Predicate
	Options    compiler.ReadOptions
}

// NewNodeRead starts a node-read description for label.
func NewNodeRead(label string) NodeRead {
	return NodeRead{Label: label}
}

// Where returns a copy of f with preds appended, preserving insertion
// order (spec.md §5: predicate order is an observable contract).
func (f NodeRead) Where(preds ...predicate.Predicate) NodeRead {
	f.Predicates = append(append([]predicate.Predicate(nil), f.Predicates...), preds...)
	return f
}

func (f NodeRead) Select(fields ...string) NodeRead {
	f.Options = f.Options.WithProjection(fields)
	return f
}

func (f NodeRead) OrderBy(terms ...compiler.OrderTerm) NodeRead {
	f.Options = f.Options.WithOrderBy(terms)
	return f
}

func (f NodeRead) Limit(n int) NodeRead {
	f.Options = f.Options.WithLimit(n)
	return f
}

func (f NodeRead) Offset(n int) NodeRead {
	f.Options = f.Options.WithOffset(n)
	return f
}

// Compile renders the node-read frame into a Statement.
func (f NodeRead) Compile() (compiler.Statement, error) {
	reg := ipr.New()

	label, err := ipr.Validate(f.Label, true)
	if err != nil {
		return compiler.Statement{}, err
	}

	where, err := filterCompile(f.Predicates, sameAliasResolver(nodeAlias), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	sameAlias := func(string) string { return nodeAlias }
	projection, err := renderProjection(f.Options.Projection, nodeAlias, nil, sameAlias)
	if err != nil {
		return compiler.Statement{}, err
	}
	orderBy, err := renderOrderBy(f.Options.OrderBy, nil, sameAlias)
	if err != nil {
		return compiler.Statement{}, err
	}

	var b strings.Builder
	b.WriteString("MATCH (")
	b.WriteString(nodeAlias)
	b.WriteString(":")
	b.WriteString(label)
	b.WriteString(")")
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" RETURN ")
	b.WriteString(projection)
	appendTail(&b, orderBy, f.Options.Offset, f.Options.Limit)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
