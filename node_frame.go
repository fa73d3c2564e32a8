package graphframe

import (
	"context"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/frame"
	"github.com/nolanchai/graphframe/internal/compiler/write"
)

func newNodeRead(label string) frame.NodeRead { return frame.NewNodeRead(label) }

// NodeFrame is a fluent, immutable node-read description bound to a Graph.
// Every builder method returns a new NodeFrame; the receiver is never
// mutated (invariant I5).
type NodeFrame struct {
	graph *Graph
	read  frame.NodeRead
	err   error
}

// Where narrows the frame by a {field_key: value} dict, e.g.
// {"age__gte": 21, "country": "US"}.
func (f NodeFrame) Where(dict map[string]any) NodeFrame {
	preds, err := parsePredicateDict(dict, noNamespaces)
	if err != nil {
		return NodeFrame{graph: f.graph, read: f.read, err: err}
	}
	f.read = f.read.Where(preds...)
	return f
}

// Select restricts the returned fields; with none given every property
// reachable on the node's sole pattern variable is returned.
func (f NodeFrame) Select(fields ...string) NodeFrame {
	f.read = f.read.Select(fields...)
	return f
}

// OrderBy appends ORDER BY terms.
func (f NodeFrame) OrderBy(terms ...compiler.OrderTerm) NodeFrame {
	f.read = f.read.OrderBy(terms...)
	return f
}

// Limit caps the number of returned rows.
func (f NodeFrame) Limit(n int) NodeFrame {
	f.read = f.read.Limit(n)
	return f
}

// Offset skips the first n matches before applying Limit.
func (f NodeFrame) Offset(n int) NodeFrame {
	f.read = f.read.Offset(n)
	return f
}

// Compile renders the frame into a Statement without running it.
func (f NodeFrame) Compile() (compiler.Statement, error) {
	if f.err != nil {
		return compiler.Statement{}, f.err
	}
	return f.read.Compile()
}

// Read compiles and runs the frame, returning one map per matched row.
func (f NodeFrame) Read(ctx context.Context) ([]map[string]any, error) {
	stmt, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return f.graph.runRead(ctx, stmt)
}

// Traverse starts a traversal-read frame from this frame's label through
// relType to toLabel, matching spec.md §6's "traverse(rel_type, to,
// direction)" entry point on NodeFrame. This frame's own accumulated Where
// predicates play no part in the traversal; narrow the origin by applying
// from__-namespaced predicates on the returned PathFrame instead.
func (f NodeFrame) Traverse(relType, toLabel string, direction TraversalDirection) PathFrame {
	if f.err != nil {
		return PathFrame{graph: f.graph, err: f.err}
	}
	return PathFrame{graph: f.graph, read: newTraversalRead(f.read.Label, relType, toLabel, direction)}
}

// Upsert starts a node-upsert write plan over this frame's label. The
// frame's accumulated Where predicates play no part in an upsert (each row
// supplies its own key), matching spec.md §6's "upsert" write entry point.
func (f NodeFrame) Upsert(rows []map[string]any, keyFields ...string) *WritePlan {
	return f.graph.UpsertNodes(f.read.Label, rows, keyFields...)
}

// Patch sets every field in set on each node matched by this frame's
// accumulated Where predicates.
func (f NodeFrame) Patch(set map[string]any) *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	op := write.NewPatch(f.read.Label, set).Where(f.read.Predicates...)
	return f.graph.newWritePlan(write.AsOp(op.Compile))
}

// Delete removes every node matched by this frame's accumulated Where
// predicates, taking incident relationships with it when detach is true.
func (f NodeFrame) Delete(detach bool) *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	op := write.NewDelete(f.read.Label).Where(f.read.Predicates...)
	if detach {
		op = op.WithDetach()
	}
	return f.graph.newWritePlan(write.AsOp(op.Compile))
}

// Inc adds amount to field (treating a missing field as zero) on every
// node matched by this frame's accumulated Where predicates.
func (f NodeFrame) Inc(field string, amount any) *WritePlan {
	return f.mutate(field, write.Inc, amount)
}

// Unset removes field from every node matched by this frame's accumulated
// Where predicates.
func (f NodeFrame) Unset(field string) *WritePlan {
	return f.mutate(field, write.Unset, nil)
}

// ListAppend appends value to the list at field (treating a missing field
// as an empty list) on every matched node.
func (f NodeFrame) ListAppend(field string, value any) *WritePlan {
	return f.mutate(field, write.ListAppend, value)
}

// ListRemove removes every occurrence of value from the list at field on
// every matched node.
func (f NodeFrame) ListRemove(field string, value any) *WritePlan {
	return f.mutate(field, write.ListRemove, value)
}

// MapMerge merges value into the map at field on every matched node.
func (f NodeFrame) MapMerge(field string, value any) *WritePlan {
	return f.mutate(field, write.MapMerge, value)
}

func (f NodeFrame) mutate(field string, op write.MutationOp, argument any) *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	m := write.NewAdvancedMutation(f.read.Label, field, op, argument).Where(f.read.Predicates...)
	return f.graph.newWritePlan(write.AsOp(m.Compile))
}
