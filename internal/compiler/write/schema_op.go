package write

import (
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
)

// SchemaOpKind names one of the five supported constraint/index mutations.
type SchemaOpKind string

const (
	EnsureIndex   SchemaOpKind = "ensure_index"
	EnsureUnique  SchemaOpKind = "ensure_unique"
	EnsureNodeKey SchemaOpKind = "ensure_node_key"
	DropIndex     SchemaOpKind = "drop_index"
	DropUnique    SchemaOpKind = "drop_unique"
)

// UnsupportedSchemaOpError reports a SchemaOp with a Kind outside the
// supported set.
type UnsupportedSchemaOpError struct {
	Kind SchemaOpKind
}

func (e *UnsupportedSchemaOpError) Error() string {
	return "unsupported schema operation: " + string(e.Kind)
}

// SchemaOp describes one constraint or index mutation against a node label.
// Schema operations carry no bound parameters: every token in the rendered
// statement is a validated identifier.
type SchemaOp struct {
	Kind       SchemaOpKind
	Label      string
	Properties []string
	Name       string // optional explicit constraint/index name
}

// NewSchemaOp starts a schema-operation description.
func NewSchemaOp(kind SchemaOpKind, label string, properties ...string) SchemaOp {
	return SchemaOp{Kind: kind, Label: label, Properties: properties}
}

func (s SchemaOp) WithName(name string) SchemaOp {
	s.Name = name
	return s
}

// name derives a deterministic constraint/index name from label and
// properties when the caller left Name unset.
func (s SchemaOp) name(label string, properties []string) string {
	if s.Name != "" {
		return s.Name
	}
	return strings.ToLower(label) + "_" + strings.Join(properties, "_") + "_" + string(s.Kind)
}

// Compile renders the schema operation into a single Statement.
func (s SchemaOp) Compile() (compiler.Statement, error) {
	if len(s.Properties) == 0 {
		return compiler.Statement{}, newEmptyInput("schema operation requires at least one property")
	}

	label, properties, err := validateIdentifiers(s.Label, s.Properties...)
	if err != nil {
		return compiler.Statement{}, err
	}
	name := s.name(label, properties)
	if s.Name != "" {
		if name, err = ipr.Validate(s.Name, true); err != nil {
			return compiler.Statement{}, err
		}
	}

	propList := make([]string, len(properties))
	for i, p := range properties {
		propList[i] = "n." + p
	}
	propClause := strings.Join(propList, ", ")

	var text string
	switch s.Kind {
	case EnsureIndex:
		text = "CREATE INDEX " + name + " IF NOT EXISTS FOR (n:" + label + ") ON (" + propClause + ")"
	case EnsureUnique:
		text = "CREATE CONSTRAINT " + name + " IF NOT EXISTS FOR (n:" + label + ") REQUIRE (" + propClause + ") IS UNIQUE"
	case EnsureNodeKey:
		text = "CREATE CONSTRAINT " + name + " IF NOT EXISTS FOR (n:" + label + ") REQUIRE (" + propClause + ") IS NODE KEY"
	case DropIndex:
		text = "DROP INDEX " + name + " IF EXISTS"
	case DropUnique:
		text = "DROP CONSTRAINT " + name + " IF EXISTS"
	default:
		return compiler.Statement{}, &UnsupportedSchemaOpError{Kind: s.Kind}
	}

	return compiler.Statement{Text: text, Parameters: map[string]any{}}, nil
}

// SchemaOps batches several schema operations into one compiled sequence.
// Each operation compiles independently; a failure at index i reports that
// index's error without compiling the remainder.
type SchemaOps struct {
	Ops []SchemaOp
}

// NewSchemaOps wraps a sequence of schema operations.
func NewSchemaOps(ops ...SchemaOp) SchemaOps {
	return SchemaOps{Ops: ops}
}

// Compile renders every operation into its own Statement, in order.
func (s SchemaOps) Compile() ([]compiler.Statement, error) {
	stmts := make([]compiler.Statement, 0, len(s.Ops))
	for _, op := range s.Ops {
		stmt, err := op.Compile()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
