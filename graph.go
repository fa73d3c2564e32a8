// Package graphframe is a fluent, type-disciplined layer over a
// Cypher-speaking graph database. It compiles NodeFrame/RelFrame/PathFrame
// reads and WritePlan mutations into parameterized statements before any
// statement reaches the backend, and never interpolates a caller-supplied
// value directly into statement text.
package graphframe

import (
	"context"
	"fmt"

	"github.com/nolanchai/graphframe/internal/auditlog"
	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/write"
	"github.com/nolanchai/graphframe/internal/driverexec"
	"github.com/nolanchai/graphframe/internal/graphconfig"
	"github.com/nolanchai/graphframe/internal/obslog"
	"go.uber.org/zap"
)

// backend is what Graph needs from a connected executor: running write
// statements (write.Executor), running read statements, and releasing the
// connection. *driverexec.Executor satisfies it; tests substitute a fake.
type backend interface {
	write.Executor
	Query(ctx context.Context, stmt compiler.Statement) ([]map[string]any, error)
	Close(ctx context.Context) error
}

// Graph is the entry point: one Graph per backend connection, shared across
// every frame and write plan built from it.
type Graph struct {
	exec      backend
	relPolicy write.RelUpsertPolicy
	batchSize int
	log       obslog.Logger
	audit     *auditlog.Log
}

// Open connects to the backend described by cfg and returns a ready Graph.
// When cfg.AuditLog.Enabled, every successful WritePlan.Commit is also
// recorded to the local audit database at cfg.AuditLog.Path.
func Open(ctx context.Context, cfg *graphconfig.Config, log obslog.Logger) (*Graph, error) {
	if log == nil {
		log = obslog.Noop()
	}
	exec, err := driverexec.New(ctx, cfg.URI, cfg.Username, cfg.Password, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	var audit *auditlog.Log
	if cfg.AuditLog.Enabled {
		audit, err = auditlog.Open(cfg.AuditLog.Path)
		if err != nil {
			exec.Close(ctx)
			return nil, err
		}
	}

	g := newGraph(exec, cfg, log)
	g.audit = audit
	return g, nil
}

func newGraph(exec backend, cfg *graphconfig.Config, log obslog.Logger) *Graph {
	policy := write.SinglePolicy
	if cfg.RelationshipPolicy == "keyed" {
		policy = write.KeyedPolicy
	}

	return &Graph{
		exec:      exec,
		relPolicy: policy,
		batchSize: cfg.BatchSize,
		log:       log,
	}
}

// Close releases the underlying backend connection and, if enabled, the
// audit log.
func (g *Graph) Close(ctx context.Context) error {
	if g.audit != nil {
		if err := g.audit.Close(); err != nil {
			g.log.Warnz("closing audit log", zap.Error(err))
		}
	}
	return g.exec.Close(ctx)
}

// Node starts a node-read frame over label.
func (g *Graph) Node(label string) NodeFrame {
	return NodeFrame{graph: g, read: newNodeRead(label)}
}

// Rel starts a relationship-read frame over relType.
func (g *Graph) Rel(relType string) RelFrame {
	return RelFrame{graph: g, read: newRelRead(relType)}
}

// Traverse starts a traversal-read frame from fromLabel through relType to
// toLabel. fromLabel may be empty for an anonymous origin.
func (g *Graph) Traverse(fromLabel, relType, toLabel string, direction TraversalDirection) PathFrame {
	return PathFrame{graph: g, read: newTraversalRead(fromLabel, relType, toLabel, direction)}
}

// UpsertNodes starts a node-upsert write plan over label, keyed on
// keyFields.
func (g *Graph) UpsertNodes(label string, rows []map[string]any, keyFields ...string) *WritePlan {
	op := write.NewNodeUpsert(label, rows, keyFields...).WithBatchSize(g.batchSize)
	return g.newWritePlan(op)
}

// UpsertRelationships starts a relationship-upsert write plan, applying the
// Graph's configured RelUpsertPolicy.
func (g *Graph) UpsertRelationships(fromLabel, fromKeyField, relType, toLabel, toKeyField string, rows []map[string]any) *RelUpsertBuilder {
	op := write.NewRelUpsert(fromLabel, fromKeyField, relType, toLabel, toKeyField, rows).
		WithPolicy(g.relPolicy).
		WithBatchSize(g.batchSize)
	return &RelUpsertBuilder{graph: g, op: op}
}

// Patch starts a literal-valued field patch over every node of label
// matching the predicates later added via Where.
func (g *Graph) Patch(label string, set map[string]any) *PatchBuilder {
	return &PatchBuilder{graph: g, op: write.NewPatch(label, set)}
}

// Delete starts a node-delete write plan over label.
func (g *Graph) Delete(label string) *DeleteBuilder {
	return &DeleteBuilder{graph: g, op: write.NewDelete(label)}
}

// Mutate starts a null-safe advanced field mutation (inc, unset,
// list_append, list_remove, map_merge) over every node of label matching
// the predicates later added via Where.
func (g *Graph) Mutate(label, field string, op write.MutationOp, argument any) *MutationBuilder {
	return &MutationBuilder{graph: g, op: write.NewAdvancedMutation(label, field, op, argument)}
}

// PatchRelationships starts a literal-valued field patch over every
// relationship of relType matching the predicates later added via Where.
func (g *Graph) PatchRelationships(relType string, set map[string]any) *PatchBuilder {
	return &PatchBuilder{graph: g, op: write.NewRelPatch(relType, set)}
}

// DeleteRelationships starts a relationship-delete write plan over relType.
// DETACH never applies to a relationship target (spec.md §4.4).
func (g *Graph) DeleteRelationships(relType string) *DeleteBuilder {
	return &DeleteBuilder{graph: g, op: write.NewRelDelete(relType)}
}

// MutateRelationships starts a null-safe advanced field mutation over
// every relationship of relType matching the predicates later added via
// Where.
func (g *Graph) MutateRelationships(relType, field string, op write.MutationOp, argument any) *MutationBuilder {
	return &MutationBuilder{graph: g, op: write.NewRelAdvancedMutation(relType, field, op, argument)}
}

// Schema starts a schema-operation batch.
func (g *Graph) Schema(ops ...SchemaOp) *WritePlan {
	wrapped := make([]write.SchemaOp, len(ops))
	for i, o := range ops {
		wrapped[i] = o.inner
	}
	return g.newWritePlan(write.NewSchemaOps(wrapped...))
}

// Cypher escapes the fluent builders entirely: text and parameters are run
// as-is. Callers are responsible for their own parameterization; graphframe
// performs no validation on raw Cypher.
func (g *Graph) Cypher(text string, parameters map[string]any) *WritePlan {
	stmt := compiler.Statement{Text: text, Parameters: parameters}
	return g.newWritePlan(write.AsOp(func() (compiler.Statement, error) { return stmt, nil }))
}

func (g *Graph) newWritePlan(op write.Op) *WritePlan {
	return &WritePlan{inner: write.NewWritePlan(op, g.exec), graph: g}
}

// failedWritePlan wraps a builder-time error (e.g. an unparseable Where
// dict) as a WritePlan whose Compile/Commit immediately return err, so
// frame-bound write entry points can report errors through the same
// WritePlan surface as a successful build.
func (g *Graph) failedWritePlan(err error) *WritePlan {
	return g.newWritePlan(write.AsOp(func() (compiler.Statement, error) { return compiler.Statement{}, err }))
}

func (g *Graph) runRead(ctx context.Context, stmt compiler.Statement) ([]map[string]any, error) {
	rows, err := g.exec.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("running read: %w", err)
	}
	return rows, nil
}
