package graphframe

import (
	"context"
	"time"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/write"
	"go.uber.org/zap"
)

// WriteState re-exports write.State at the public boundary.
type WriteState = write.State

const (
	Described = write.Described
	Compiled  = write.Compiled
	Previewed = write.Previewed
	Committed = write.Committed
	Closed    = write.Closed
	Failed    = write.Failed
)

// ExecutionResult re-exports write.ExecutionResult at the public boundary.
type ExecutionResult = write.ExecutionResult

// WritePlan wraps the internal write-plan lifecycle state machine for the
// public API: Described -> Compiled -> Previewed -> Committed -> Closed.
type WritePlan struct {
	inner *write.WritePlan
	graph *Graph
}

// ID returns the plan's stable identity.
func (p *WritePlan) ID() string { return p.inner.ID() }

// State returns the plan's current lifecycle state.
func (p *WritePlan) State() WriteState { return p.inner.State() }

// Compile renders the plan's statements, idempotently.
func (p *WritePlan) Compile() ([]compiler.Statement, error) { return p.inner.Compile() }

// Preview returns the compiled statements without running them.
func (p *WritePlan) Preview(ctx context.Context) ([]compiler.Statement, error) {
	return p.inner.Preview(ctx)
}

// Commit runs the compiled statements exactly once. When the owning Graph
// was opened with audit logging enabled, a successful commit is also
// recorded to the local audit database.
func (p *WritePlan) Commit(ctx context.Context) (ExecutionResult, error) {
	var stmts []compiler.Statement
	if p.graph != nil && p.graph.audit != nil {
		var err error
		stmts, err = p.inner.Compile()
		if err != nil {
			return ExecutionResult{}, err
		}
	}

	result, err := p.inner.Commit(ctx)
	if err != nil {
		return ExecutionResult{}, err
	}

	if p.graph != nil && p.graph.audit != nil {
		recErr := p.graph.audit.Record(ctx, p.inner.ID(), time.Now(), stmts,
			result.NodesCreated, result.NodesUpdated, result.RelsCreated, result.RelsUpdated)
		if recErr != nil {
			p.graph.log.Warnz("recording audit entry", zap.String("plan_id", p.inner.ID()), zap.Error(recErr))
		}
	}

	return result, nil
}

// Explain runs the compiled statements prefixed with EXPLAIN.
func (p *WritePlan) Explain(ctx context.Context) (ExecutionResult, error) {
	return p.inner.Explain(ctx)
}

// Profile runs the compiled statements prefixed with PROFILE.
func (p *WritePlan) Profile(ctx context.Context) (ExecutionResult, error) {
	return p.inner.Profile(ctx)
}

// Close releases the plan.
func (p *WritePlan) Close() { p.inner.Close() }

// Err returns the error that moved the plan into Failed, if any.
func (p *WritePlan) Err() error { return p.inner.Err() }

// RelUpsertBuilder accumulates relationship non-key fields and key policy
// before producing a WritePlan.
type RelUpsertBuilder struct {
	graph *Graph
	op    write.RelUpsert
}

// WithRelKeyFields marks the relationship properties that disambiguate
// parallel edges between the same endpoint pair.
func (b *RelUpsertBuilder) WithRelKeyFields(fields ...string) *RelUpsertBuilder {
	b.op = b.op.WithRelKeyFields(fields...)
	return b
}

// Plan finalizes the description into a WritePlan.
func (b *RelUpsertBuilder) Plan() *WritePlan {
	return b.graph.newWritePlan(b.op)
}

// PatchBuilder accumulates WHERE predicates before producing a WritePlan
// for a literal-valued field patch.
type PatchBuilder struct {
	graph *Graph
	op    write.Patch
	err   error
}

// Where narrows the patch to nodes or relationships matching the dict.
func (b *PatchBuilder) Where(dict map[string]any) *PatchBuilder {
	preds, err := parsePredicateDict(dict, noNamespaces)
	if err != nil {
		b.err = err
		return b
	}
	b.op = b.op.Where(preds...)
	return b
}

// Plan finalizes the description into a WritePlan.
func (b *PatchBuilder) Plan() *WritePlan {
	if b.err != nil {
		return b.graph.newWritePlan(write.AsOp(func() (compiler.Statement, error) { return compiler.Statement{}, b.err }))
	}
	return b.graph.newWritePlan(write.AsOp(b.op.Compile))
}

// DeleteBuilder accumulates WHERE predicates before producing a WritePlan
// for a node (and optionally relationship) delete.
type DeleteBuilder struct {
	graph *Graph
	op    write.Delete
	err   error
}

// Where narrows the delete to nodes or relationships matching the dict.
func (b *DeleteBuilder) Where(dict map[string]any) *DeleteBuilder {
	preds, err := parsePredicateDict(dict, noNamespaces)
	if err != nil {
		b.err = err
		return b
	}
	b.op = b.op.Where(preds...)
	return b
}

// Detach makes the delete a DETACH DELETE.
func (b *DeleteBuilder) Detach() *DeleteBuilder {
	b.op = b.op.WithDetach()
	return b
}

// Plan finalizes the description into a WritePlan.
func (b *DeleteBuilder) Plan() *WritePlan {
	if b.err != nil {
		return b.graph.newWritePlan(write.AsOp(func() (compiler.Statement, error) { return compiler.Statement{}, b.err }))
	}
	return b.graph.newWritePlan(write.AsOp(b.op.Compile))
}

// MutationBuilder accumulates WHERE predicates before producing a WritePlan
// for a null-safe advanced field mutation (inc, unset, list_append,
// list_remove, map_merge).
type MutationBuilder struct {
	graph *Graph
	op    write.AdvancedMutation
	err   error
}

// Where narrows the mutation to nodes or relationships matching the dict.
func (b *MutationBuilder) Where(dict map[string]any) *MutationBuilder {
	preds, err := parsePredicateDict(dict, noNamespaces)
	if err != nil {
		b.err = err
		return b
	}
	b.op = b.op.Where(preds...)
	return b
}

// Plan finalizes the description into a WritePlan.
func (b *MutationBuilder) Plan() *WritePlan {
	if b.err != nil {
		return b.graph.newWritePlan(write.AsOp(func() (compiler.Statement, error) { return compiler.Statement{}, b.err }))
	}
	return b.graph.newWritePlan(write.AsOp(b.op.Compile))
}

// MutationOp re-exports write.MutationOp at the public boundary so callers
// don't need to import internal/compiler/write directly.
type MutationOp = write.MutationOp

const (
	Inc        = write.Inc
	Unset      = write.Unset
	ListAppend = write.ListAppend
	ListRemove = write.ListRemove
	MapMerge   = write.MapMerge
)
