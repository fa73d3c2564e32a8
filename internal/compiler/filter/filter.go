// Package filter implements the Filter Compiler: rendering a list of
// predicates into a conjunctive WHERE fragment, threading the Identifier &
// Parameter Registry for value binding.
package filter

import (
	"fmt"
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// TypeMismatchError reports an operator invoked with a value of the wrong
// kind (a nullary operator given a non-truthy argument such as false, or a
// list operator given a non-list value).
type TypeMismatchError struct {
	Field    string
	Operator predicate.Operator
	Reason   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for %s.%s: %s", e.Field, e.Operator, e.Reason)
}

func newTypeMismatch(field string, op predicate.Operator, reason string) *TypeMismatchError {
	return &TypeMismatchError{Field: field, Operator: op, Reason: reason}
}

var binaryForm = map[predicate.Operator]string{
	predicate.Eq:         "= $%s",
	predicate.Ne:         "<> $%s",
	predicate.Gt:         "> $%s",
	predicate.Gte:        ">= $%s",
	predicate.Lt:         "< $%s",
	predicate.Lte:        "<= $%s",
	predicate.Contains:   "CONTAINS $%s",
	predicate.StartsWith: "STARTS WITH $%s",
	predicate.EndsWith:   "ENDS WITH $%s",
	predicate.Regex:      "=~ $%s",
}

// AliasResolver maps a predicate's namespace to the Cypher pattern variable
// it should be rendered against. Non-traversal frames pass a resolver that
// always returns the same sole alias.
type AliasResolver func(namespace string) (alias string, err error)

// Compile renders predicates into a WHERE fragment (without the leading
// "WHERE " keyword) and binds every value through reg. An empty predicate
// list yields an empty fragment and no error; the caller omits the WHERE
// clause entirely in that case.
func Compile(predicates []predicate.Predicate, resolve AliasResolver, reg *ipr.Registry) (string, error) {
	if len(predicates) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(predicates))
	for _, p := range predicates {
		alias, err := resolve(p.Namespace)
		if err != nil {
			return "", err
		}
		field, err := ipr.Validate(p.Field, true)
		if err != nil {
			return "", err
		}

		clause, err := compileOne(alias, field, p, reg)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	return strings.Join(clauses, " AND "), nil
}

func compileOne(alias, field string, p predicate.Predicate, reg *ipr.Registry) (string, error) {
	switch p.Operator {
	case predicate.Exists, predicate.NotNull:
		if p.Value != nil && !isTruthy(p.Value) {
			return "", newTypeMismatch(p.Field, p.Operator, "nullary operator argument must be truthy or omitted")
		}
		return fmt.Sprintf("%s.%s IS NOT NULL", alias, field), nil

	case predicate.IsNull:
		if p.Value != nil && !isTruthy(p.Value) {
			return "", newTypeMismatch(p.Field, p.Operator, "nullary operator argument must be truthy or omitted")
		}
		return fmt.Sprintf("%s.%s IS NULL", alias, field), nil

	case predicate.In:
		list, ok := asList(p.Value)
		if !ok {
			return "", newTypeMismatch(p.Field, p.Operator, "in requires a list value")
		}
		if len(list) == 0 {
			return "false", nil
		}
		name := reg.Bind(list)
		return fmt.Sprintf("%s.%s IN $%s", alias, field, name), nil

	case predicate.NotIn:
		list, ok := asList(p.Value)
		if !ok {
			return "", newTypeMismatch(p.Field, p.Operator, "not_in requires a list value")
		}
		if len(list) == 0 {
			return "true", nil
		}
		name := reg.Bind(list)
		return fmt.Sprintf("NOT %s.%s IN $%s", alias, field, name), nil

	default:
		form, ok := binaryForm[p.Operator]
		if !ok {
			return "", predicate.NewUnknownOperatorError(p.Field, string(p.Operator))
		}
		name := reg.Bind(p.Value)
		return fmt.Sprintf("%s.%s %s", alias, field, fmt.Sprintf(form, name)), nil
	}
}

func isTruthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	default:
		return v != nil
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case nil:
		return nil, false
	default:
		return reflectList(v)
	}
}
