package write

import "testing"

func TestRelUpsertScenario6(t *testing.T) {
	rows := []map[string]any{
		{"person_email": "j@x.com", "company_name": "Acme", "since": 2021},
	}
	stmts, err := NewRelUpsert("Person", "person_email", "WORKS_AT", "Company", "company_name", rows).Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UNWIND $batch AS item MERGE (a:Person {person_email: item.person_email}) MERGE (b:Company {company_name: item.company_name}) MERGE (a)-[r:WORKS_AT]->(b) ON CREATE SET r.since = item.since ON MATCH SET r.since = item.since"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
	batch := stmts[0].Parameters["batch"].([]map[string]any)
	if batch[0]["since"] != 2021 {
		t.Errorf("unexpected item: %#v", batch[0])
	}
}

func TestRelUpsertWithKeyFields(t *testing.T) {
	rows := []map[string]any{
		{"a": "1", "b": "2", "role": "lead", "since": 2021},
	}
	stmts, err := NewRelUpsert("Person", "a", "WORKS_AT", "Company", "b", rows).
		WithRelKeyFields("role").
		Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UNWIND $batch AS item MERGE (a:Person {a: item.a}) MERGE (b:Company {b: item.b}) MERGE (a)-[r:WORKS_AT {role: item.role}]->(b) ON CREATE SET r.since = item.since ON MATCH SET r.since = item.since"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestRelUpsertKeyedPolicyRequiresRelKeyFields(t *testing.T) {
	rows := []map[string]any{{"a": "1", "b": "2"}}
	_, err := NewRelUpsert("Person", "a", "WORKS_AT", "Company", "b", rows).
		WithPolicy(KeyedPolicy).
		Compile()
	if err == nil {
		t.Fatal("expected AmbiguousRelationshipKeyError, got nil")
	}
	if _, ok := err.(*AmbiguousRelationshipKeyError); !ok {
		t.Errorf("expected *AmbiguousRelationshipKeyError, got %T", err)
	}
}

func TestRelUpsertSinglePolicyAllowsNoKeyFields(t *testing.T) {
	rows := []map[string]any{{"a": "1", "b": "2"}}
	_, err := NewRelUpsert("Person", "a", "WORKS_AT", "Company", "b", rows).Compile()
	if err != nil {
		t.Fatalf("unexpected error under default single policy: %v", err)
	}
}

func TestRelUpsertNoNonKeyFieldsOmitsSetClauses(t *testing.T) {
	rows := []map[string]any{{"a": "1", "b": "2"}}
	stmts, err := NewRelUpsert("Person", "a", "WORKS_AT", "Company", "b", rows).Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UNWIND $batch AS item MERGE (a:Person {a: item.a}) MERGE (b:Company {b: item.b}) MERGE (a)-[r:WORKS_AT]->(b)"
	if stmts[0].Text != want {
		t.Errorf("text = %q, want %q", stmts[0].Text, want)
	}
}

func TestRelUpsertEmptyRowsIsError(t *testing.T) {
	_, err := NewRelUpsert("Person", "a", "WORKS_AT", "Company", "b", nil).Compile()
	if err == nil {
		t.Fatal("expected EmptyInputError, got nil")
	}
}
