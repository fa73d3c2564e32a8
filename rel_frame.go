package graphframe

import (
	"context"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/frame"
	"github.com/nolanchai/graphframe/internal/compiler/write"
)

func newRelRead(relType string) frame.RelRead { return frame.NewRelRead(relType) }

// RelFrame is a fluent, immutable relationship-read description bound to a
// Graph.
type RelFrame struct {
	graph *Graph
	read  frame.RelRead
	err   error
}

// Where narrows the frame by a {field_key: value} dict.
func (f RelFrame) Where(dict map[string]any) RelFrame {
	preds, err := parsePredicateDict(dict, noNamespaces)
	if err != nil {
		return RelFrame{graph: f.graph, read: f.read, err: err}
	}
	f.read = f.read.Where(preds...)
	return f
}

func (f RelFrame) Select(fields ...string) RelFrame {
	f.read = f.read.Select(fields...)
	return f
}

func (f RelFrame) OrderBy(terms ...compiler.OrderTerm) RelFrame {
	f.read = f.read.OrderBy(terms...)
	return f
}

func (f RelFrame) Limit(n int) RelFrame {
	f.read = f.read.Limit(n)
	return f
}

func (f RelFrame) Offset(n int) RelFrame {
	f.read = f.read.Offset(n)
	return f
}

// Compile renders the frame into a Statement without running it.
func (f RelFrame) Compile() (compiler.Statement, error) {
	if f.err != nil {
		return compiler.Statement{}, f.err
	}
	return f.read.Compile()
}

// Read compiles and runs the frame, returning one map per matched row.
func (f RelFrame) Read(ctx context.Context) ([]map[string]any, error) {
	stmt, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return f.graph.runRead(ctx, stmt)
}

// Patch sets every field in set on each relationship matched by this
// frame's accumulated Where predicates.
func (f RelFrame) Patch(set map[string]any) *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	op := write.NewRelPatch(f.read.RelType, set).Where(f.read.Predicates...)
	return f.graph.newWritePlan(write.AsOp(op.Compile))
}

// Delete removes every relationship matched by this frame's accumulated
// Where predicates. DETACH never applies to a relationship target.
func (f RelFrame) Delete() *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	op := write.NewRelDelete(f.read.RelType).Where(f.read.Predicates...)
	return f.graph.newWritePlan(write.AsOp(op.Compile))
}

// Inc adds amount to field (treating a missing field as zero) on every
// relationship matched by this frame's accumulated Where predicates.
func (f RelFrame) Inc(field string, amount any) *WritePlan {
	return f.mutate(field, write.Inc, amount)
}

// Unset removes field from every relationship matched by this frame's
// accumulated Where predicates.
func (f RelFrame) Unset(field string) *WritePlan {
	return f.mutate(field, write.Unset, nil)
}

// ListAppend appends value to the list at field (treating a missing field
// as an empty list) on every matched relationship.
func (f RelFrame) ListAppend(field string, value any) *WritePlan {
	return f.mutate(field, write.ListAppend, value)
}

// ListRemove removes every occurrence of value from the list at field on
// every matched relationship.
func (f RelFrame) ListRemove(field string, value any) *WritePlan {
	return f.mutate(field, write.ListRemove, value)
}

// MapMerge merges value into the map at field on every matched relationship.
func (f RelFrame) MapMerge(field string, value any) *WritePlan {
	return f.mutate(field, write.MapMerge, value)
}

func (f RelFrame) mutate(field string, op write.MutationOp, argument any) *WritePlan {
	if f.err != nil {
		return f.graph.failedWritePlan(f.err)
	}
	m := write.NewRelAdvancedMutation(f.read.RelType, field, op, argument).Where(f.read.Predicates...)
	return f.graph.newWritePlan(write.AsOp(m.Compile))
}
