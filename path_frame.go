package graphframe

import (
	"context"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/frame"
)

// TraversalDirection re-exports frame.TraversalDirection at the public
// boundary so callers never import the internal compiler packages
// directly.
type TraversalDirection = frame.TraversalDirection

const (
	Outgoing TraversalDirection = frame.Out
	Incoming TraversalDirection = frame.In
	Either   TraversalDirection = frame.Both
)

func newTraversalRead(fromLabel, relType, toLabel string, direction TraversalDirection) frame.TraversalRead {
	return frame.NewTraversalRead(fromLabel, relType, toLabel, direction)
}

// PathFrame is a fluent, immutable traversal-read description bound to a
// Graph: MATCH (from)-[rel]->(to) by default, or back-to-origin once Back
// is called. Every builder method returns a new PathFrame value.
type PathFrame struct {
	graph   *Graph
	read    frame.TraversalRead
	back    frame.BackOriginRead
	hasBack bool
	err     error
}

// WithAliases renames the from/rel/to pattern variables. As soon as any one
// of the three differs from its built-in name, the custom names take
// precedence over the built-in from/rel/to namespace tokens on a collision;
// a partially customized triple does not fall back to the built-in tokens.
func (f PathFrame) WithAliases(from, rel, to string) PathFrame {
	f.read = f.read.WithAliases(from, rel, to)
	return f
}

// Where narrows the frame by a {field_key: value} dict; keys may be
// prefixed with a from__/rel__/to__ (or custom alias) namespace.
func (f PathFrame) Where(dict map[string]any) PathFrame {
	preds, err := parsePredicateDict(dict, f.read.Aliases.Tokens())
	if err != nil {
		f.err = err
		return f
	}
	if f.hasBack {
		f.back = f.back.Where(preds...)
		return f
	}
	f.read = f.read.Where(preds...)
	return f
}

// Back switches the frame to project back down to the origin alias only:
// predicates added before and after Back are combined into a single WHERE
// clause, but Select/OrderBy/Limit/Offset after Back apply to the
// origin-only RETURN.
func (f PathFrame) Back() PathFrame {
	f.back = frame.NewBackOriginRead(f.read)
	f.hasBack = true
	return f
}

func (f PathFrame) Select(fields ...string) PathFrame {
	if f.hasBack {
		f.back = f.back.Select(fields...)
		return f
	}
	f.read = f.read.Select(fields...)
	return f
}

func (f PathFrame) OrderBy(terms ...compiler.OrderTerm) PathFrame {
	if f.hasBack {
		f.back = f.back.OrderBy(terms...)
		return f
	}
	f.read = f.read.OrderBy(terms...)
	return f
}

func (f PathFrame) Limit(n int) PathFrame {
	if f.hasBack {
		f.back = f.back.Limit(n)
		return f
	}
	f.read = f.read.Limit(n)
	return f
}

func (f PathFrame) Offset(n int) PathFrame {
	if f.hasBack {
		f.back = f.back.Offset(n)
		return f
	}
	f.read = f.read.Offset(n)
	return f
}

// Compile renders the frame into a Statement without running it.
func (f PathFrame) Compile() (compiler.Statement, error) {
	if f.err != nil {
		return compiler.Statement{}, f.err
	}
	if f.hasBack {
		return f.back.Compile()
	}
	return f.read.Compile()
}

// Read compiles and runs the frame, returning one map per matched row.
func (f PathFrame) Read(ctx context.Context) ([]map[string]any, error) {
	stmt, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return f.graph.runRead(ctx, stmt)
}
