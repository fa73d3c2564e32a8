package frame

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// RelRead describes a relationship-read frame: MATCH ()-[r:RelType]-()
// [WHERE] RETURN [ORDER BY] [SKIP] [LIMIT]. Endpoints are anonymous and the
// pattern is undirected by design (spec.md §4.3).
type RelRead struct {
	RelType    string
	Predicates []predicate.Predicate
	Options    compiler.ReadOptions
}

// NewRelRead starts a relationship-read description for relType.
func NewRelRead(relType string) RelRead {
	return RelRead{RelType: relType}
}

func (f RelRead) Where(preds ...predicate.Predicate) RelRead {
	f.Predicates = append(append([]predicate.Predicate(nil), f.Predicates...), preds...)
	return f
}

func (f RelRead) Select(fields ...string) RelRead {
	f.Options = f.Options.WithProjection(fields)
	return f
}

func (f RelRead) OrderBy(terms ...compiler.OrderTerm) RelRead {
	f.Options = f.Options.WithOrderBy(terms)
	return f
}

func (f RelRead) Limit(n int) RelRead {
	f.Options = f.Options.WithLimit(n)
	return f
}

func (f RelRead) Offset(n int) RelRead {
	f.Options = f.Options.WithOffset(n)
	return f
}

// Compile renders the relationship-read frame into a Statement.
func (f RelRead) Compile() (compiler.Statement, error) {
	reg := ipr.New()

	relType, err := ipr.Validate(f.RelType, true)
	if err != nil {
		return compiler.Statement{}, err
	}

	where, err := filterCompile(f.Predicates, sameAliasResolver(relAlias), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	sameAlias := func(string) string { return relAlias }
	projection, err := renderProjection(f.Options.Projection, relAlias, nil, sameAlias)
	if err != nil {
		return compiler.Statement{}, err
	}
	orderBy, err := renderOrderBy(f.Options.OrderBy, nil, sameAlias)
	if err != nil {
		return compiler.Statement{}, err
	}

	var b strings.Builder
	b.WriteString("MATCH ()-[")
	b.WriteString(relAlias)
	b.WriteString(":")
	b.WriteString(relType)
	b.WriteString("]-()")
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" RETURN ")
	b.WriteString(projection)
	appendTail(&b, orderBy, f.Options.Offset, f.Options.Limit)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
