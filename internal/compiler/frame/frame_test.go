package frame

import (
	"testing"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

func TestNodeReadScenario1(t *testing.T) {
	f := NewNodeRead("Person").
		Where(
			predicate.Predicate{Field: "age", Operator: predicate.Gte, Value: 21},
			predicate.Predicate{Field: "country", Operator: predicate.Eq, Value: "US"},
		).
		Select("name", "email").
		Limit(10)

	stmt, err := f.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (n:Person) WHERE n.age >= $param_0 AND n.country = $param_1 RETURN n.name, n.email LIMIT 10"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
	if stmt.Parameters["param_0"] != 21 || stmt.Parameters["param_1"] != "US" {
		t.Errorf("unexpected parameters: %v", stmt.Parameters)
	}
}

func TestNodeReadNoPredicatesOrProjection(t *testing.T) {
	stmt, err := NewNodeRead("Person").Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (n:Person) RETURN n"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestNodeReadLimitZero(t *testing.T) {
	stmt, err := NewNodeRead("Person").Limit(0).Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (n:Person) RETURN n LIMIT 0"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestNodeReadOrderByAndOffset(t *testing.T) {
	stmt, err := NewNodeRead("Person").
		OrderBy(compiler.OrderTerm{Field: "name", Direction: compiler.Asc}, compiler.OrderTerm{Field: "age", Direction: compiler.Desc}).
		Offset(5).
		Limit(10).
		Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (n:Person) RETURN n ORDER BY n.name ASC, n.age DESC SKIP 5 LIMIT 10"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestRelReadScenario2(t *testing.T) {
	f := NewRelRead("WORKS_AT").
		Where(predicate.Predicate{Field: "since", Operator: predicate.Gte, Value: 2020}).
		Limit(50)

	stmt, err := f.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH ()-[r:WORKS_AT]-() WHERE r.since >= $param_0 RETURN r LIMIT 50"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
	if stmt.Parameters["param_0"] != 2020 {
		t.Errorf("unexpected parameters: %v", stmt.Parameters)
	}
}

func TestTraversalReadScenario3(t *testing.T) {
	f := NewTraversalRead("Person", "WORKS_AT", "Company", Out).
		Where(
			predicate.Predicate{Field: "since", Operator: predicate.Gte, Value: 2020, Namespace: "rel"},
			predicate.Predicate{Field: "city", Operator: predicate.Eq, Value: "SF", Namespace: "to"},
		)

	stmt, err := f.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (from:Person)-[rel:WORKS_AT]->(to:Company) WHERE rel.since >= $param_0 AND to.city = $param_1 RETURN from, rel, to"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestTraversalReadDirections(t *testing.T) {
	tests := []struct {
		dir  TraversalDirection
		want string
	}{
		{Out, "(from:Person)-[rel:WORKS_AT]->(to:Company)"},
		{In, "(from:Person)<-[rel:WORKS_AT]-(to:Company)"},
		{Both, "(from:Person)-[rel:WORKS_AT]-(to:Company)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			stmt, err := NewTraversalRead("Person", "WORKS_AT", "Company", tt.dir).Compile()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := "MATCH " + tt.want + " RETURN from, rel, to"
			if stmt.Text != want {
				t.Errorf("text = %q, want %q", stmt.Text, want)
			}
		})
	}
}

func TestTraversalReadAnonymousOrigin(t *testing.T) {
	stmt, err := NewTraversalRead("", "WORKS_AT", "Company", Out).Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (from)-[rel:WORKS_AT]->(to:Company) RETURN from, rel, to"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestTraversalReadRequiresToLabel(t *testing.T) {
	_, err := NewTraversalRead("Person", "WORKS_AT", "", Out).Compile()
	if err == nil {
		t.Fatal("expected EmptyToLabelError, got nil")
	}
}

func TestTraversalReadCustomAliases(t *testing.T) {
	f := NewTraversalRead("Person", "WORKS_AT", "Company", Out).
		WithAliases("p", "w", "c").
		Where(predicate.Predicate{Field: "since", Operator: predicate.Gte, Value: 2020, Namespace: "w"})

	stmt, err := f.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (p:Person)-[w:WORKS_AT]->(c:Company) WHERE w.since >= $param_0 RETURN p, w, c"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestTraversalReadBuiltinWinsWhenNotFullyCustomized(t *testing.T) {
	// The rel alias is named "to" and the destination alias "c", set
	// directly so Customized stays false; "to" must then resolve to the
	// built-in destination alias (c), not the coincidentally named rel alias.
	f := NewTraversalRead("Person", "WORKS_AT", "Company", Out)
	f.Aliases.Rel = "to"
	f.Aliases.To = "c"
	f = f.Where(predicate.Predicate{Field: "city", Operator: predicate.Eq, Value: "SF", Namespace: "to"})

	stmt, err := f.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH (from:Person)-[to:WORKS_AT]->(c:Company) WHERE c.city = $param_0 RETURN from, to, c"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestBackOriginReadCombinesPredicates(t *testing.T) {
	traversal := NewTraversalRead("Person", "WORKS_AT", "Company", Out).
		Where(predicate.Predicate{Field: "since", Operator: predicate.Gte, Value: 2020, Namespace: "rel"})

	back := NewBackOriginRead(traversal).
		Where(predicate.Predicate{Field: "city", Operator: predicate.Eq, Value: "SF", Namespace: "to"}).
		Select("name").
		Limit(5)

	stmt, err := back.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH p = (from:Person)-[rel:WORKS_AT]->(to:Company) WHERE rel.since >= $param_0 AND to.city = $param_1 WITH from RETURN from.name LIMIT 5"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}

func TestBackOriginReadNoProjectionDefaultsToOriginVariable(t *testing.T) {
	traversal := NewTraversalRead("Person", "WORKS_AT", "Company", Out)
	stmt, err := NewBackOriginRead(traversal).Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "MATCH p = (from:Person)-[rel:WORKS_AT]->(to:Company) WITH from RETURN from"
	if stmt.Text != want {
		t.Errorf("text = %q, want %q", stmt.Text, want)
	}
}
