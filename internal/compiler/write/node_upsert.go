package write

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/stage"
)

// NodeUpsert describes an idempotent node create-or-update keyed on one or
// more fields.
type NodeUpsert struct {
	Label      string
	Rows       []map[string]any
	KeyFields  []string
	PatchMode  bool
	NullPolicy NullPolicy
	BatchSize  int
}

// NewNodeUpsert starts a node-upsert description.
func NewNodeUpsert(label string, rows []map[string]any, keyFields ...string) NodeUpsert {
	return NodeUpsert{Label: label, Rows: rows, KeyFields: keyFields}
}

func (u NodeUpsert) WithPatchMode(nullPolicy NullPolicy) NodeUpsert {
	u.PatchMode = true
	u.NullPolicy = nullPolicy
	return u
}

func (u NodeUpsert) WithBatchSize(n int) NodeUpsert {
	u.BatchSize = n
	return u
}

// nodeUpsertCtx threads the intermediate results of compiling a NodeUpsert
// through its validate -> derive-fields -> render stages.
type nodeUpsertCtx struct {
	u NodeUpsert

	label      string
	keyFields  []string
	fields     []string
	validField []string
	text       string
	stmts      []compiler.Statement
}

func nodeUpsertValidate(c *nodeUpsertCtx) error {
	if len(c.u.Rows) == 0 {
		return newEmptyInput("node upsert requires at least one row")
	}
	if len(c.u.KeyFields) == 0 {
		return newEmptyInput("node upsert requires at least one key field")
	}
	label, keyFields, err := validateIdentifiers(c.u.Label, c.u.KeyFields...)
	if err != nil {
		return err
	}
	c.label, c.keyFields = label, keyFields
	return nil
}

func nodeUpsertDeriveFields(c *nodeUpsertCtx) error {
	keySet := make(map[string]bool, len(c.keyFields))
	for _, k := range c.u.KeyFields {
		keySet[k] = true
	}
	c.fields = unionFields(c.u.Rows, keySet)
	validField, err := validateFieldList(c.fields)
	if err != nil {
		return err
	}
	c.validField = validField
	return nil
}

func nodeUpsertRenderText(c *nodeUpsertCtx) error {
	mergeClause := mergeKeyClause(c.keyFields, c.u.KeyFields)
	createSet := assignClause("n", c.validField, c.fields)
	var matchSet string
	if !c.u.PatchMode {
		matchSet = createSet
	} else if c.u.NullPolicy == Keep {
		matchSet = coalesceClause("n", c.validField, c.fields)
	} else {
		matchSet = createSet
	}

	var b strings.Builder
	b.WriteString("UNWIND $batch AS item MERGE (n:")
	b.WriteString(c.label)
	b.WriteString(" {")
	b.WriteString(mergeClause)
	b.WriteString("}) ON CREATE SET ")
	b.WriteString(createSet)
	b.WriteString(" ON MATCH SET ")
	b.WriteString(matchSet)
	c.text = b.String()
	return nil
}

func nodeUpsertBatch(c *nodeUpsertCtx) error {
	batches := batchRanges(len(c.u.Rows), batchSizeOrDefault(c.u.BatchSize))
	stmts := make([]compiler.Statement, 0, len(batches))
	for _, r := range batches {
		items := make([]map[string]any, 0, r[1]-r[0])
		for _, row := range c.u.Rows[r[0]:r[1]] {
			items = append(items, buildItem(row, c.u.KeyFields, c.fields))
		}
		stmts = append(stmts, compiler.Statement{
			Text:       c.text,
			Parameters: map[string]any{"batch": items},
		})
	}
	c.stmts = stmts
	return nil
}

// Compile renders one Statement per batch of at most BatchSize rows (or
// DefaultBatchSize). Per spec.md property P6, the number of statements is
// ceil(len(Rows)/BatchSize) and the concatenation of their "batch"
// parameters reproduces Rows in order.
func (u NodeUpsert) Compile() ([]compiler.Statement, error) {
	c := &nodeUpsertCtx{u: u}
	if err := stage.Run(c,
		nodeUpsertValidate,
		nodeUpsertDeriveFields,
		nodeUpsertRenderText,
		nodeUpsertBatch,
	); err != nil {
		return nil, err
	}
	return c.stmts, nil
}

// validateFieldList validates every field name as an identifier.
func validateFieldList(fields []string) ([]string, error) {
	out := make([]string, len(fields))
	for i, f := range fields {
		v, err := ipr.Validate(f, true)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// mergeKeyClause renders "k1: item.k1, k2: item.k2" for a MERGE pattern's
// key properties. validated and raw must be parallel slices (validated
// identifiers for emission, raw names for the item.<field> accessor).
func mergeKeyClause(validated, raw []string) string {
	parts := make([]string, len(validated))
	for i := range validated {
		parts[i] = validated[i] + ": item." + raw[i]
	}
	return strings.Join(parts, ", ")
}

// assignClause renders "n.f1 = item.f1, n.f2 = item.f2, ...".
func assignClause(alias string, validated, raw []string) string {
	if len(validated) == 0 {
		return alias + ".__graphframe_noop__ = " + alias + ".__graphframe_noop__"
	}
	parts := make([]string, len(validated))
	for i := range validated {
		parts[i] = alias + "." + validated[i] + " = item." + raw[i]
	}
	return strings.Join(parts, ", ")
}

// coalesceClause renders "n.f1 = coalesce(item.f1, n.f1), ...", used for
// patch-mode upserts with NullPolicy Keep.
func coalesceClause(alias string, validated, raw []string) string {
	if len(validated) == 0 {
		return alias + ".__graphframe_noop__ = " + alias + ".__graphframe_noop__"
	}
	parts := make([]string, len(validated))
	for i := range validated {
		parts[i] = alias + "." + validated[i] + " = coalesce(item." + raw[i] + ", " + alias + "." + validated[i] + ")"
	}
	return strings.Join(parts, ", ")
}

// buildItem assembles one UNWIND row: the key fields plus every field in
// fields, filling any field absent from row with nil so every row in a
// batch has the same shape (UNWIND requires homogeneous maps).
func buildItem(row map[string]any, keyFields, fields []string) map[string]any {
	item := make(map[string]any, len(keyFields)+len(fields))
	for _, k := range keyFields {
		item[k] = row[k]
	}
	for _, f := range fields {
		if v, ok := row[f]; ok {
			item[f] = v
		} else {
			item[f] = nil
		}
	}
	return item
}
