// Package auditlog records every committed write plan to a local SQLite
// database via modernc.org/sqlite, independent of whatever graph backend
// the plan targeted. It exists so a caller can answer "what did we write
// and when" without round-tripping the graph itself.
package auditlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nolanchai/graphframe/internal/compiler"
)

// Log is a handle to the audit database.
type Log struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS write_plan_commits (
	plan_id         TEXT PRIMARY KEY,
	committed_at    TEXT NOT NULL,
	statement_count INTEGER NOT NULL,
	nodes_created   INTEGER NOT NULL,
	nodes_updated   INTEGER NOT NULL,
	rels_created    INTEGER NOT NULL,
	rels_updated    INTEGER NOT NULL,
	statements      TEXT NOT NULL
);
`

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit log %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing audit log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}

// Entry is one recorded commit.
type Entry struct {
	PlanID         string
	CommittedAt    time.Time
	StatementCount int
	NodesCreated   int
	NodesUpdated   int
	RelsCreated    int
	RelsUpdated    int
	Statements     []compiler.Statement
}

// Record inserts one commit entry. Called once per WritePlan.Commit, so
// plan_id (a UUID) is the primary key rather than an auto-increment counter.
func (l *Log) Record(ctx context.Context, planID string, committedAt time.Time, stmts []compiler.Statement, nodesCreated, nodesUpdated, relsCreated, relsUpdated int) error {
	encoded, err := json.Marshal(stmts)
	if err != nil {
		return fmt.Errorf("encoding statements for audit log: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO write_plan_commits
			(plan_id, committed_at, statement_count, nodes_created, nodes_updated, rels_created, rels_updated, statements)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		planID, committedAt.UTC().Format("2006-01-02T15:04:05.000000000Z07:00"), len(stmts),
		nodesCreated, nodesUpdated, relsCreated, relsUpdated, string(encoded))
	if err != nil {
		return fmt.Errorf("recording commit for plan %s: %w", planID, err)
	}
	return nil
}

// Get retrieves one entry by plan ID, or (Entry{}, false, nil) if absent.
func (l *Log) Get(ctx context.Context, planID string) (Entry, bool, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT plan_id, committed_at, statement_count, nodes_created, nodes_updated, rels_created, rels_updated, statements
		 FROM write_plan_commits WHERE plan_id = ?`, planID)

	var e Entry
	var committedAt, statements string
	if err := row.Scan(&e.PlanID, &committedAt, &e.StatementCount, &e.NodesCreated, &e.NodesUpdated, &e.RelsCreated, &e.RelsUpdated, &statements); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("loading audit entry %s: %w", planID, err)
	}

	t, err := time.Parse(time.RFC3339Nano, committedAt)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parsing committed_at for %s: %w", planID, err)
	}
	e.CommittedAt = t

	if err := json.Unmarshal([]byte(statements), &e.Statements); err != nil {
		return Entry{}, false, fmt.Errorf("decoding statements for %s: %w", planID, err)
	}
	return e, true, nil
}

// RecentCommits returns up to limit entries, most recent first.
func (l *Log) RecentCommits(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT plan_id, committed_at, statement_count, nodes_created, nodes_updated, rels_created, rels_updated, statements
		 FROM write_plan_commits ORDER BY committed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var committedAt, statements string
		if err := rows.Scan(&e.PlanID, &committedAt, &e.StatementCount, &e.NodesCreated, &e.NodesUpdated, &e.RelsCreated, &e.RelsUpdated, &statements); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, committedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing committed_at: %w", err)
		}
		e.CommittedAt = t
		if err := json.Unmarshal([]byte(statements), &e.Statements); err != nil {
			return nil, fmt.Errorf("decoding statements: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
