// Package predicate defines the shared (field, operator, value, namespace)
// predicate record that the Filter Compiler, Frame Compiler, and Write
// Planner all consume, plus the field-key parsing rules from spec.md §4.2.
package predicate

import (
	"fmt"
	"strings"
)

// Operator is one of the enumerated predicate operators from spec.md §4.2.
type Operator string

const (
	Eq          Operator = "eq"
	Ne          Operator = "ne"
	Gt          Operator = "gt"
	Gte         Operator = "gte"
	Lt          Operator = "lt"
	Lte         Operator = "lte"
	In          Operator = "in"
	NotIn       Operator = "not_in"
	Contains    Operator = "contains"
	StartsWith  Operator = "startswith"
	EndsWith    Operator = "endswith"
	Regex       Operator = "regex"
	Exists      Operator = "exists"
	NotNull     Operator = "not_null"
	IsNull      Operator = "is_null"
)

// nullary is the set of operators that bind no value.
var nullary = map[Operator]bool{
	Exists:  true,
	NotNull: true,
	IsNull:  true,
}

// IsNullary reports whether op binds no parameter.
func IsNullary(op Operator) bool { return nullary[op] }

// listValued is the set of operators whose value must be a list.
var listValued = map[Operator]bool{
	In:    true,
	NotIn: true,
}

// IsListValued reports whether op requires a list-kind value.
func IsListValued(op Operator) bool { return listValued[op] }

var knownOperators = map[string]Operator{
	"eq": Eq, "ne": Ne, "gt": Gt, "gte": Gte, "lt": Lt, "lte": Lte,
	"in": In, "not_in": NotIn, "contains": Contains,
	"startswith": StartsWith, "endswith": EndsWith, "regex": Regex,
	"exists": Exists, "not_null": NotNull, "is_null": IsNull,
}

// Predicate is one (field, operator, value?, namespace?) triple
// contributing one WHERE conjunct.
type Predicate struct {
	Field     string
	Operator  Operator
	Value     any
	Namespace string // "" means the default/sole alias
}

// UnknownOperatorError reports an operator suffix that does not match the
// enumerated operator set.
type UnknownOperatorError struct {
	Key    string
	Suffix string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q in field key %q", e.Suffix, e.Key)
}

// NewUnknownOperatorError constructs an UnknownOperatorError.
func NewUnknownOperatorError(key, suffix string) *UnknownOperatorError {
	return &UnknownOperatorError{Key: key, Suffix: suffix}
}

// EmptyFieldError reports a field key that parsed to an empty field name
// (e.g. a bare namespace with nothing after it).
type EmptyFieldError struct {
	Key string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("field key %q has no field name", e.Key)
}

// ParseFieldKey splits a predicate dictionary key into an optional
// namespace, a field name, and an operator (defaulting to Eq when absent).
//
// A leading token is only treated as a namespace when it matches one of
// namespaces; this avoids ambiguity with property names that happen to
// contain "__". Everything but the final "__"-delimited token becomes the
// field name; the final token is checked against the known operator table
// only when there is more than one token left after namespace removal —
// a bare field name (no separator at all) is always Eq.
func ParseFieldKey(key string, namespaces map[string]bool) (namespace, field string, op Operator, err error) {
	parts := strings.Split(key, "__")

	if len(parts) > 1 && namespaces[parts[0]] {
		namespace = parts[0]
		parts = parts[1:]
	}

	if len(parts) == 0 || (len(parts) == 1 && parts[0] == "") {
		return "", "", "", &EmptyFieldError{Key: key}
	}

	if len(parts) == 1 {
		return namespace, parts[0], Eq, nil
	}

	suffix := parts[len(parts)-1]
	opr, ok := knownOperators[suffix]
	if !ok {
		return "", "", "", NewUnknownOperatorError(key, suffix)
	}
	field = strings.Join(parts[:len(parts)-1], "__")
	if field == "" {
		return "", "", "", &EmptyFieldError{Key: key}
	}
	return namespace, field, opr, nil
}

// ParseProjectionKey applies the same namespace-prefix rule as
// ParseFieldKey to a projection field, without any operator suffix
// concept: per spec.md §9's Open Question resolution, "select" treats
// namespaced fields symmetrically to predicate fields.
func ParseProjectionKey(key string, namespaces map[string]bool) (namespace, field string) {
	parts := strings.SplitN(key, "__", 2)
	if len(parts) == 2 && namespaces[parts[0]] {
		return parts[0], parts[1]
	}
	return "", key
}
