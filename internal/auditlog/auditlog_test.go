package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nolanchai/graphframe/internal/compiler"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRecordAndGet(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	stmts := []compiler.Statement{{Text: "MATCH (n) RETURN n", Parameters: map[string]any{}}}
	committedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := log.Record(ctx, "plan-1", committedAt, stmts, 2, 0, 1, 0); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entry, ok, err := log.Get(ctx, "plan-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if entry.NodesCreated != 2 || entry.RelsCreated != 1 {
		t.Errorf("unexpected counters: %+v", entry)
	}
	if len(entry.Statements) != 1 || entry.Statements[0].Text != stmts[0].Text {
		t.Errorf("unexpected statements: %+v", entry.Statements)
	}
	if !entry.CommittedAt.Equal(committedAt) {
		t.Errorf("CommittedAt = %v, want %v", entry.CommittedAt, committedAt)
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	log := openTestLog(t)
	_, ok, err := log.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing plan id")
	}
}

func TestRecentCommitsOrdersMostRecentFirst(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	if err := log.Record(ctx, "plan-old", older, nil, 0, 0, 0, 0); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	if err := log.Record(ctx, "plan-new", newer, nil, 0, 0, 0, 0); err != nil {
		t.Fatalf("Record new: %v", err)
	}

	entries, err := log.RecentCommits(ctx, 10)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PlanID != "plan-new" {
		t.Errorf("expected plan-new first, got %s", entries[0].PlanID)
	}
}
