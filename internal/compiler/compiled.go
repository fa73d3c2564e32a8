// Package compiler holds the types shared across the Frame Compiler and
// Write Planner: the compiled-statement pair and common read-shaping
// options (projection, ordering, limit, offset).
package compiler

// Statement is the (text, parameters) pair spec.md §3 calls the "Compiled
// statement": a backend statement and its bound-value map. text never
// contains a user-supplied scalar (invariant I1); every such value lives in
// Parameters, keyed by placeholder name.
type Statement struct {
	Text       string
	Parameters map[string]any
}

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderTerm is one (field, direction) entry in an ORDER BY list.
type OrderTerm struct {
	Field     string
	Direction Direction
}

// ReadOptions bundles the read-shaping capabilities common to NodeFrame,
// RelFrame, and PathFrame: projection, ordering, limit, and offset. It is
// embedded by each frame's description rather than duplicated three times.
type ReadOptions struct {
	Projection []string
	OrderBy    []OrderTerm
	Limit      *int
	Offset     *int
}

// WithProjection returns a copy of o with Projection replaced, preserving
// invariant I5 (descriptions are immutable; builder operations return new
// values).
func (o ReadOptions) WithProjection(fields []string) ReadOptions {
	o.Projection = append([]string(nil), fields...)
	return o
}

// WithOrderBy returns a copy of o with OrderBy replaced.
func (o ReadOptions) WithOrderBy(terms []OrderTerm) ReadOptions {
	o.OrderBy = append([]OrderTerm(nil), terms...)
	return o
}

// WithLimit returns a copy of o with Limit set to n.
func (o ReadOptions) WithLimit(n int) ReadOptions {
	o.Limit = &n
	return o
}

// WithOffset returns a copy of o with Offset set to n.
func (o ReadOptions) WithOffset(n int) ReadOptions {
	o.Offset = &n
	return o
}
