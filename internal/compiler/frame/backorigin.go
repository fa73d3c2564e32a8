package frame

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// BackOriginRead describes a traversal whose result is projected back down
// to the origin alias only: MATCH p = (a:From)<pattern>(b:To) [WHERE] WITH a
// RETURN <projection over a> [ORDER BY] [SKIP] [LIMIT].
//
// Predicates added both before and after the PathFrame.Back() call are
// combined into the single WHERE clause that precedes WITH (spec.md §4.3);
// Options (projection/order/limit/offset) always apply to the post-WITH
// origin-only RETURN.
type BackOriginRead struct {
	Traversal        TraversalRead
	PostBackPredicates []predicate.Predicate
	Options          compiler.ReadOptions
}

// NewBackOriginRead wraps an already-built TraversalRead for a
// back-to-origin compile.
func NewBackOriginRead(t TraversalRead) BackOriginRead {
	return BackOriginRead{Traversal: t}
}

func (f BackOriginRead) Where(preds ...predicate.Predicate) BackOriginRead {
	f.PostBackPredicates = append(append([]predicate.Predicate(nil), f.PostBackPredicates...), preds...)
	return f
}

func (f BackOriginRead) Select(fields ...string) BackOriginRead {
	f.Options = f.Options.WithProjection(fields)
	return f
}

func (f BackOriginRead) OrderBy(terms ...compiler.OrderTerm) BackOriginRead {
	f.Options = f.Options.WithOrderBy(terms)
	return f
}

func (f BackOriginRead) Limit(n int) BackOriginRead {
	f.Options = f.Options.WithLimit(n)
	return f
}

func (f BackOriginRead) Offset(n int) BackOriginRead {
	f.Options = f.Options.WithOffset(n)
	return f
}

// Compile renders the back-to-origin frame into a Statement.
func (f BackOriginRead) Compile() (compiler.Statement, error) {
	reg := ipr.New()

	pattern, travWhere, err := f.Traversal.compileParts(reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	postWhere, err := filterCompile(f.PostBackPredicates, aliasSetResolver(f.Traversal.Aliases), reg)
	if err != nil {
		return compiler.Statement{}, err
	}

	where := travWhere
	switch {
	case where == "":
		where = postWhere
	case postWhere != "":
		where = where + " AND " + postWhere
	}

	origin := f.Traversal.Aliases.From
	originOnly := func(string) string { return origin }

	projection, err := renderProjection(f.Options.Projection, origin, nil, originOnly)
	if err != nil {
		return compiler.Statement{}, err
	}
	orderBy, err := renderOrderBy(f.Options.OrderBy, nil, originOnly)
	if err != nil {
		return compiler.Statement{}, err
	}

	var b strings.Builder
	b.WriteString("MATCH p = ")
	b.WriteString(pattern)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(" WITH ")
	b.WriteString(origin)
	b.WriteString(" RETURN ")
	b.WriteString(projection)
	appendTail(&b, orderBy, f.Options.Offset, f.Options.Limit)

	return compiler.Statement{Text: b.String(), Parameters: reg.Params()}, nil
}
