package graphframe

import (
	"sort"

	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// parsePredicateDict turns a {field_key: value} map into an ordered
// []predicate.Predicate, using predicate.ParseFieldKey to split each key
// into an optional namespace, a field name, and an operator. Map iteration
// order is randomized, so keys are sorted before parsing to keep the
// resulting conjunction's left-to-right order deterministic across calls
// with identical input (invariant I4).
func parsePredicateDict(dict map[string]any, namespaces map[string]bool) ([]predicate.Predicate, error) {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preds := make([]predicate.Predicate, 0, len(keys))
	for _, k := range keys {
		ns, field, op, err := predicate.ParseFieldKey(k, namespaces)
		if err != nil {
			return nil, err
		}
		preds = append(preds, predicate.Predicate{
			Field:     field,
			Operator:  op,
			Value:     dict[k],
			Namespace: ns,
		})
	}
	return preds, nil
}

// noNamespaces is used by frames with a single, unnamed pattern variable
// (NodeFrame, RelFrame), where no field key prefix is ever a namespace.
var noNamespaces = map[string]bool{}
