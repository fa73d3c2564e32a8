package frame

import (
	"fmt"
	"strings"

	"github.com/nolanchai/graphframe/internal/compiler"
	"github.com/nolanchai/graphframe/internal/compiler/ipr"
	"github.com/nolanchai/graphframe/internal/compiler/predicate"
)

// resolveFieldRef renders one projection or order-by field reference
// ("field" or "namespace__field") against an alias resolver, validating the
// field name as an identifier.
func resolveFieldRef(key string, tokens map[string]bool, resolve func(string) string) (string, error) {
	ns, field := predicate.ParseProjectionKey(key, tokens)
	validated, err := ipr.Validate(field, true)
	if err != nil {
		return "", err
	}
	return resolve(ns) + "." + validated, nil
}

// renderProjection renders a RETURN projection list. When fields is empty,
// fallback (e.g. "n" or "from, rel, to") is used verbatim.
func renderProjection(fields []string, fallback string, tokens map[string]bool, resolve func(string) string) (string, error) {
	if len(fields) == 0 {
		return fallback, nil
	}
	refs := make([]string, 0, len(fields))
	for _, f := range fields {
		ref, err := resolveFieldRef(f, tokens, resolve)
		if err != nil {
			return "", err
		}
		refs = append(refs, ref)
	}
	return strings.Join(refs, ", "), nil
}

// renderOrderBy renders an ORDER BY list, omitting the clause entirely
// when terms is empty.
func renderOrderBy(terms []compiler.OrderTerm, tokens map[string]bool, resolve func(string) string) (string, error) {
	if len(terms) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		ref, err := resolveFieldRef(t.Field, tokens, resolve)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if t.Direction == compiler.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", ref, dir))
	}
	return strings.Join(parts, ", "), nil
}

// appendTail appends ORDER BY / SKIP / LIMIT to b following the read
// options, in that fixed order, matching the backend's clause ordering.
func appendTail(b *strings.Builder, orderBy string, offset, limit *int) {
	if orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(orderBy)
	}
	if offset != nil {
		fmt.Fprintf(b, " SKIP %d", *offset)
	}
	if limit != nil {
		fmt.Fprintf(b, " LIMIT %d", *limit)
	}
}
