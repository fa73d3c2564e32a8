// Package ipr implements the Identifier & Parameter Registry: identifier
// validation/escaping and parameter placeholder allocation shared by every
// compiler in internal/compiler.
package ipr

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedWords is the set of Cypher-dialect keywords that must be
// backtick-quoted when they appear as a label, relationship type, or
// property name.
var reservedWords = map[string]struct{}{
	"MATCH": {}, "WHERE": {}, "RETURN": {}, "CREATE": {}, "MERGE": {},
	"SET": {}, "DELETE": {}, "DETACH": {}, "REMOVE": {}, "WITH": {},
	"ORDER": {}, "BY": {}, "SKIP": {}, "LIMIT": {}, "AND": {}, "OR": {},
	"NOT": {}, "NULL": {}, "IN": {}, "AS": {}, "ON": {}, "UNWIND": {},
	"CASE": {}, "WHEN": {}, "THEN": {}, "ELSE": {}, "END": {}, "UNION": {},
	"ALL": {}, "DISTINCT": {}, "OPTIONAL": {}, "CALL": {}, "YIELD": {},
	"CONSTRAINT": {}, "INDEX": {}, "UNIQUE": {}, "REQUIRE": {}, "NODE": {},
	"KEY": {}, "IF": {}, "EXISTS": {}, "IS": {}, "STARTS": {}, "ENDS": {},
	"CONTAINS": {}, "ASC": {}, "DESC": {}, "TRUE": {}, "FALSE": {},
}

// InvalidIdentifierError reports an identifier that failed strict
// validation: it does not match the backend's bare-identifier grammar.
type InvalidIdentifierError struct {
	Identifier string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier: %q", e.Identifier)
}

// NewInvalidIdentifierError constructs an InvalidIdentifierError.
func NewInvalidIdentifierError(id string) *InvalidIdentifierError {
	return &InvalidIdentifierError{Identifier: id}
}

func isReserved(id string) bool {
	_, ok := reservedWords[upper(id)]
	return ok
}

// upper is a tiny ASCII-only uppercase helper so we never pull in
// unicode-aware casing for what is always a plain keyword comparison.
func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Validate checks id against the identifier grammar. When strict is true,
// an id that does not match the grammar fails with InvalidIdentifierError.
// Otherwise, an id that is a reserved word or contains non-identifier
// characters is returned backtick-quoted; a plain, non-reserved id is
// returned unchanged.
func Validate(id string, strict bool) (string, error) {
	matches := identifierPattern.MatchString(id)
	if strict && !matches {
		return "", NewInvalidIdentifierError(id)
	}
	if !matches || isReserved(id) {
		return "`" + id + "`", nil
	}
	return id, nil
}

// Registry allocates unique parameter placeholder names and accumulates
// the values bound to them. A Registry is created fresh per compilation
// and discarded afterward; it holds no state beyond a single compile.
type Registry struct {
	counter int
	values  map[string]any
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Bind appends value under a fresh placeholder name ("param_<k>") and
// returns that name, without a leading "$". Nullary operators never call
// Bind.
func (r *Registry) Bind(value any) string {
	name := fmt.Sprintf("param_%d", r.counter)
	r.counter++
	r.values[name] = value
	return name
}

// Params returns the accumulated placeholder name to value mapping. The
// returned map is owned by the caller; Registry keeps no further reference
// to it.
func (r *Registry) Params() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Len reports how many placeholders have been allocated so far.
func (r *Registry) Len() int {
	return r.counter
}
