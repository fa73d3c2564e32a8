package write

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
)

// RelUpsertPolicy governs how a relationship is matched when RelKeyFields is
// empty. See SPEC_FULL.md §8, Open Question 1.
type RelUpsertPolicy string

const (
	// SinglePolicy allows an unkeyed relationship: each row creates or
	// reuses a single MERGEd edge with no distinguishing properties.
	SinglePolicy RelUpsertPolicy = "single"
	// KeyedPolicy requires RelKeyFields; an empty key set is a compile
	// error rather than a silently ambiguous MERGE.
	KeyedPolicy RelUpsertPolicy = "keyed"
)

// RelUpsert describes an idempotent relationship create-or-update between
// two node labels, keyed on endpoint fields and, optionally, relationship
// properties.
type RelUpsert struct {
	FromLabel    string
	FromKeyField string
	ToLabel      string
	ToKeyField   string
	RelType      string
	Rows         []map[string]any
	RelKeyFields []string
	Policy       RelUpsertPolicy
	BatchSize    int
}

// NewRelUpsert starts a relationship-upsert description. fromKeyField and
// toKeyField name the row fields holding each endpoint's key value; the rows
// must carry them under those same names.
func NewRelUpsert(fromLabel, fromKeyField, relType, toLabel, toKeyField string, rows []map[string]any) RelUpsert {
	return RelUpsert{
		FromLabel:    fromLabel,
		FromKeyField: fromKeyField,
		ToLabel:      toLabel,
		ToKeyField:   toKeyField,
		RelType:      relType,
		Rows:         rows,
		Policy:       SinglePolicy,
	}
}

func (u RelUpsert) WithRelKeyFields(fields ...string) RelUpsert {
	u.RelKeyFields = fields
	return u
}

func (u RelUpsert) WithPolicy(p RelUpsertPolicy) RelUpsert {
	u.Policy = p
	return u
}

func (u RelUpsert) WithBatchSize(n int) RelUpsert {
	u.BatchSize = n
	return u
}

// Compile renders one Statement per batch of rows.
func (u RelUpsert) Compile() ([]compiler.Statement, error) {
	if len(u.Rows) == 0 {
		return nil, newEmptyInput("relationship upsert requires at least one row")
	}
	if len(u.RelKeyFields) == 0 && u.Policy == KeyedPolicy {
		return nil, &AmbiguousRelationshipKeyError{RelType: u.RelType}
	}

	fromLabel, fromKey, err := validateIdentifiers(u.FromLabel, u.FromKeyField)
	if err != nil {
		return nil, err
	}
	toLabel, toKey, err := validateIdentifiers(u.ToLabel, u.ToKeyField)
	if err != nil {
		return nil, err
	}
	relType, relKeyFields, err := validateIdentifiers(u.RelType, u.RelKeyFields...)
	if err != nil {
		return nil, err
	}

	exclude := map[string]bool{u.FromKeyField: true, u.ToKeyField: true}
	for _, k := range u.RelKeyFields {
		exclude[k] = true
	}
	nonKeyFields := unionFields(u.Rows, exclude)
	validNonKey, err := validateFieldList(nonKeyFields)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("UNWIND $batch AS item MERGE (a:")
	b.WriteString(fromLabel)
	b.WriteString(" {")
	b.WriteString(fromKey[0])
	b.WriteString(": item.")
	b.WriteString(u.FromKeyField)
	b.WriteString("}) MERGE (b:")
	b.WriteString(toLabel)
	b.WriteString(" {")
	b.WriteString(toKey[0])
	b.WriteString(": item.")
	b.WriteString(u.ToKeyField)
	b.WriteString("}) MERGE (a)-[r:")
	b.WriteString(relType)
	if len(relKeyFields) > 0 {
		b.WriteString(" {")
		b.WriteString(mergeKeyClause(relKeyFields, u.RelKeyFields))
		b.WriteString("}")
	}
	b.WriteString("]->(b)")
	if len(validNonKey) > 0 {
		b.WriteString(" ON CREATE SET ")
		b.WriteString(assignClause("r", validNonKey, nonKeyFields))
		b.WriteString(" ON MATCH SET ")
		b.WriteString(assignClause("r", validNonKey, nonKeyFields))
	}
	text := b.String()

	allKeyFields := append([]string{u.FromKeyField, u.ToKeyField}, u.RelKeyFields...)
	batches := batchRanges(len(u.Rows), batchSizeOrDefault(u.BatchSize))
	stmts := make([]compiler.Statement, 0, len(batches))
	for _, r := range batches {
		items := make([]map[string]any, 0, r[1]-r[0])
		for _, row := range u.Rows[r[0]:r[1]] {
			items = append(items, buildItem(row, allKeyFields, nonKeyFields))
		}
		stmts = append(stmts, compiler.Statement{
			Text:       text,
			Parameters: map[string]any{"batch": items},
		})
	}
	return stmts, nil
}
