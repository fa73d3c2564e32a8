// Package driverexec runs compiled statements against a real Neo4j-speaking
// backend over github.com/neo4j/neo4j-go-driver/v5.
package driverexec

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/write"
	"github.com/nolanchai/graphframe/internal/obslog"
)

// Executor runs compiled statements over a single driver connection,
// implementing write.Executor.
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
	log      obslog.Logger
}

// New creates an Executor and verifies connectivity before returning. uri
// follows Neo4j's bolt/neo4j URI scheme; database selects a named database
// on multi-database deployments, or "" for the default.
func New(ctx context.Context, uri, username, password, database string, log obslog.Logger) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", uri, err)
	}
	if log == nil {
		log = obslog.Noop()
	}
	return &Executor{driver: driver, database: database, log: log}, nil
}

// Close releases the underlying driver's connection pool.
func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Run executes every statement in order within a single managed write
// transaction per statement, aggregating per-statement counters into one
// ExecutionResult. A failure mid-sequence stops at that statement; earlier
// statements in the same Run call have already committed (graphframe plans
// are expected to batch idempotent MERGE statements, so a partial Run is
// safe to retry from the top).
func (e *Executor) Run(ctx context.Context, stmts []compiler.Statement) (write.ExecutionResult, error) {
	var total write.ExecutionResult
	for i, stmt := range stmts {
		result, err := neo4j.ExecuteQuery(ctx, e.driver, stmt.Text, stmt.Parameters,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(e.database))
		if err != nil {
			e.log.Errorz("statement failed", zap.Error(err), zap.Int("index", i))
			return total, fmt.Errorf("executing statement %d: %w", i, err)
		}

		counters := result.Summary.Counters()
		total.StatementsRun++
		total.NodesCreated += counters.NodesCreated()
		total.NodesUpdated += counters.PropertiesSet()
		total.RelsCreated += counters.RelationshipsCreated()
	}
	return total, nil
}

// Query runs a single read statement and returns each record as a
// field-name-to-value map, in result order.
func (e *Executor) Query(ctx context.Context, stmt compiler.Statement) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, e.driver, stmt.Text, stmt.Parameters,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database))
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, rec := range result.Records {
		row := make(map[string]any, len(rec.Keys))
		for _, key := range rec.Keys {
			v, _ := rec.Get(key)
			row[key] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
