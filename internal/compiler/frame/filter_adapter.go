package frame

import (
	"github.com/nolanchai/graphframe/internal/compiler/filter"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// filterCompile is a thin rename of filter.Compile kept local to this
// package so call sites read as part of the Frame Compiler rather than
// reaching across packages inline.
func filterCompile(preds []predicate.Predicate, resolve filter.AliasResolver, reg *ipr.Registry) (string, error) {
	return filter.Compile(preds, resolve, reg)
}

// sameAliasResolver builds an AliasResolver that always resolves to alias,
// for frames with a single pattern variable (node and relationship reads).
func sameAliasResolver(alias string) filter.AliasResolver {
	return func(string) (string, error) { return alias, nil }
}

// aliasSetResolver adapts an AliasSet into a filter.AliasResolver for
// traversal and back-to-origin reads.
func aliasSetResolver(aliases AliasSet) filter.AliasResolver {
	return func(ns string) (string, error) { return aliases.Resolve(ns), nil }
}
