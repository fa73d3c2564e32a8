package graphframe

import (
	"context"
	"testing"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/write"
	"github.com/nolanchai/graphframe/internal/graphconfig"
	"github.com/nolanchai/graphframe/internal/obslog"
)

// fakeBackend is an in-memory stand-in for *driverexec.Executor: it records
// every statement it's asked to run and returns canned query rows, so root
// package tests never need a live Neo4j instance.
type fakeBackend struct {
	writeRuns  []compiler.Statement
	queryRuns  []compiler.Statement
	queryRows  []map[string]any
	commitFail bool
}

func (f *fakeBackend) Run(ctx context.Context, stmts []compiler.Statement) (write.ExecutionResult, error) {
	if f.commitFail {
		return write.ExecutionResult{}, &write.EmptyInputError{Reason: "forced failure"}
	}
	f.writeRuns = append(f.writeRuns, stmts...)
	return write.ExecutionResult{StatementsRun: len(stmts)}, nil
}

func (f *fakeBackend) Query(ctx context.Context, stmt compiler.Statement) ([]map[string]any, error) {
	f.queryRuns = append(f.queryRuns, stmt)
	return f.queryRows, nil
}

func (f *fakeBackend) Close(ctx context.Context) error { return nil }

func newTestGraph(exec *fakeBackend) *Graph {
	cfg := &graphconfig.Config{URI: "neo4j://test", BatchSize: 1000, RelationshipPolicy: "single"}
	return newGraph(exec, cfg, obslog.Noop())
}

func TestGraphNodeReadRunsCompiledStatement(t *testing.T) {
	exec := &fakeBackend{queryRows: []map[string]any{{"n.name": "Ada"}}}
	g := newTestGraph(exec)

	rows, err := g.Node("Person").Where(map[string]any{"age__gte": 21}).Select("name").Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0]["n.name"] != "Ada" {
		t.Errorf("unexpected rows: %#v", rows)
	}
	if len(exec.queryRuns) != 1 {
		t.Fatalf("expected 1 query run, got %d", len(exec.queryRuns))
	}
	want := "MATCH (n:Person) WHERE n.age >= $param_0 RETURN n.name"
	if exec.queryRuns[0].Text != want {
		t.Errorf("text = %q, want %q", exec.queryRuns[0].Text, want)
	}
}

func TestGraphRelReadAppliesWhereDict(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	_, err := g.Rel("WORKS_AT").Where(map[string]any{"since__gte": 2020}).Limit(50).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "MATCH ()-[r:WORKS_AT]-() WHERE r.since >= $param_0 RETURN r LIMIT 50"
	if exec.queryRuns[0].Text != want {
		t.Errorf("text = %q, want %q", exec.queryRuns[0].Text, want)
	}
}

func TestGraphTraverseWithNamespacedPredicates(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	_, err := g.Traverse("Person", "WORKS_AT", "Company", Outgoing).
		Where(map[string]any{"rel__since__gte": 2020, "to__city": "SF"}).
		Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "MATCH (from:Person)-[rel:WORKS_AT]->(to:Company) WHERE rel.since >= $param_0 AND to.city = $param_1 RETURN from, rel, to"
	if exec.queryRuns[0].Text != want {
		t.Errorf("text = %q, want %q", exec.queryRuns[0].Text, want)
	}
}

func TestGraphTraverseBackToOrigin(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	_, err := g.Traverse("Person", "WORKS_AT", "Company", Outgoing).
		Where(map[string]any{"rel__since__gte": 2020}).
		Back().
		Where(map[string]any{"to__city": "SF"}).
		Select("name").
		Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "MATCH p = (from:Person)-[rel:WORKS_AT]->(to:Company) WHERE rel.since >= $param_0 AND to.city = $param_1 WITH from RETURN from.name"
	if exec.queryRuns[0].Text != want {
		t.Errorf("text = %q, want %q", exec.queryRuns[0].Text, want)
	}
}

func TestGraphUpsertNodesCommits(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	rows := []map[string]any{{"email": "a@x.com", "name": "A"}}
	plan := g.UpsertNodes("Person", rows, "email")
	result, err := plan.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if result.StatementsRun != 1 {
		t.Errorf("StatementsRun = %d, want 1", result.StatementsRun)
	}
	if plan.State() != Committed {
		t.Errorf("State = %v, want Committed", plan.State())
	}
	if len(exec.writeRuns) != 1 {
		t.Fatalf("expected 1 write statement run, got %d", len(exec.writeRuns))
	}
}

func TestGraphUpsertRelationshipsAppliesRelKeyFields(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	rows := []map[string]any{{"a": "1", "b": "2", "role": "lead"}}
	plan := g.UpsertRelationships("Person", "a", "WORKS_AT", "Company", "b", rows).
		WithRelKeyFields("role").
		Plan()

	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "UNWIND $batch AS item MERGE (a:Person {a: item.a}) MERGE (b:Company {b: item.b}) MERGE (a)-[r:WORKS_AT {role: item.role}]->(b)"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestGraphPatchAndCommit(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Patch("Product", map[string]any{"stock": 1}).
		Where(map[string]any{"category": "Electronics"}).
		Plan()

	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "MATCH (n:Product) WHERE n.category = $param_0 SET n.stock = $param_1"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}

	if _, err := plan.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestGraphDeleteDetach(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Delete("Session").Where(map[string]any{"expired": true}).Detach().Plan()
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "MATCH (n:Session) WHERE n.expired = $param_0 DETACH DELETE n"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestGraphMutateIncScenario5(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Mutate("Product", "views", Inc, 1).
		Where(map[string]any{"category": "Electronics"}).
		Plan()
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "MATCH (n:Product) WHERE n.category = $param_0 SET n.views = coalesce(n.views, 0) + $param_1"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestNodeFrameInc(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Node("Product").Where(map[string]any{"category": "Electronics"}).Inc("views", 1)
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "MATCH (n:Product) WHERE n.category = $param_0 SET n.views = coalesce(n.views, 0) + $param_1"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestRelFrameDelete(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Rel("WORKS_AT").Where(map[string]any{"since__lt": 2000}).Delete()
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "MATCH ()-[r:WORKS_AT]-() WHERE r.since < $param_0 DELETE r"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestNodeFrameTraverse(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	_, err := g.Node("Person").Traverse("WORKS_AT", "Company", Outgoing).
		Where(map[string]any{"to__city": "SF"}).
		Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "MATCH (from:Person)-[rel:WORKS_AT]->(to:Company) WHERE to.city = $param_0 RETURN from, rel, to"
	if exec.queryRuns[0].Text != want {
		t.Errorf("text = %q, want %q", exec.queryRuns[0].Text, want)
	}
}

func TestGraphSchemaBatch(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Schema(
		NewSchemaOp(EnsureIndex, "Person", "email"),
		NewSchemaOp(EnsureUnique, "Company", "name"),
	)
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
}

func TestGraphCypherEscapeHatch(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	plan := g.Cypher("MATCH (n) RETURN count(n) AS total", nil)
	stmts, err := plan.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if stmts[0].Text != "MATCH (n) RETURN count(n) AS total" {
		t.Errorf("unexpected text: %q", stmts[0].Text)
	}
}

func TestGraphCommitFailureMovesPlanToFailed(t *testing.T) {
	exec := &fakeBackend{commitFail: true}
	g := newTestGraph(exec)

	plan := g.UpsertNodes("Person", []map[string]any{{"email": "a@x.com"}}, "email")
	if _, err := plan.Commit(context.Background()); err == nil {
		t.Fatal("expected commit error")
	}
	if plan.State() != Failed {
		t.Errorf("State = %v, want Failed", plan.State())
	}
}

func TestGraphWhereInvalidFieldKeyPropagatesAtCompile(t *testing.T) {
	exec := &fakeBackend{}
	g := newTestGraph(exec)

	_, err := g.Node("Person").Where(map[string]any{"age__bogus_op": 1}).Compile()
	if err == nil {
		t.Fatal("expected an unknown-operator error")
	}
}
