package graphframe

import "github.com/nolanchai/graphframe/internal/compiler/write"

// SchemaOpKind re-exports write.SchemaOpKind at the public boundary.
type SchemaOpKind = write.SchemaOpKind

const (
	EnsureIndex   = write.EnsureIndex
	EnsureUnique  = write.EnsureUnique
	EnsureNodeKey = write.EnsureNodeKey
	DropIndex     = write.DropIndex
	DropUnique    = write.DropUnique
)

// SchemaOp describes one constraint or index mutation, to be passed to
// Graph.Schema.
type SchemaOp struct {
	inner write.SchemaOp
}

// NewSchemaOp starts a schema-operation description.
func NewSchemaOp(kind SchemaOpKind, label string, properties ...string) SchemaOp {
	return SchemaOp{inner: write.NewSchemaOp(kind, label, properties...)}
}

// WithName overrides the derived constraint/index name.
func (s SchemaOp) WithName(name string) SchemaOp {
	s.inner = s.inner.WithName(name)
	return s
}
