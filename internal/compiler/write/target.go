package write

import "github.com/nolanchai/graphframe/internal/compiler/filter"

// TargetKind distinguishes a node-labeled target from a relationship-typed
// one for Patch, Delete, and AdvancedMutation: spec.md §3 describes their
// "target" as "label or rel_type" generically, so both must be
// representable by the same description shape.
type TargetKind string

const (
	// NodeTarget matches a single labeled node pattern variable: (n:Label).
	NodeTarget TargetKind = "node"
	// RelTarget matches a single typed, anonymous-endpoint relationship
	// pattern variable: ()-[r:RelType]-().
	RelTarget TargetKind = "rel"
)

const (
	patchAlias     = "n"
	relTargetAlias = "r"
)

// targetAlias returns the pattern variable a TargetKind binds to.
func targetAlias(kind TargetKind) string {
	if kind == RelTarget {
		return relTargetAlias
	}
	return patchAlias
}

// targetPattern renders the MATCH pattern fragment for kind over the
// already-validated label/relType.
func targetPattern(kind TargetKind, label string) string {
	alias := targetAlias(kind)
	if kind == RelTarget {
		return "()-[" + alias + ":" + label + "]-()"
	}
	return "(" + alias + ":" + label + ")"
}

func singleAliasResolver(alias string) filter.AliasResolver {
	return func(string) (string, error) { return alias, nil }
}
