// Package write implements the Write Planner: compiling upsert/patch/
// delete/advanced-mutation/schema descriptions into MERGE/SET/REMOVE
// statements, batching large payloads.
package write

import (
	"fmt"
	"sort"

	"github.com/nolanchai/graphframe/internal/compiler/ipr"
)

// NullPolicy governs how a patch-mode upsert fills a row's missing fields.
type NullPolicy string

const (
	// SetNulls makes a missing field an explicit null for that row (default).
	SetNulls NullPolicy = "set_nulls"
	// Keep leaves an existing value untouched via coalesce(item.f, n.f).
	Keep NullPolicy = "keep"
)

// DefaultBatchSize is used when a write description leaves BatchSize unset
// or non-positive.
const DefaultBatchSize = 1000

// EmptyInputError reports an upsert with an empty row list or empty key
// field list, a patch with no assignments, or a schema operation with no
// properties — all are compile-time failures per spec.md §7.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string { return "empty input: " + e.Reason }

func newEmptyInput(reason string) *EmptyInputError { return &EmptyInputError{Reason: reason} }

// AmbiguousRelationshipKeyError reports a RelUpsert with no rel_key_fields
// under a "keyed" relationship-uniqueness policy — see SPEC_FULL.md §8,
// Open Question 1.
type AmbiguousRelationshipKeyError struct {
	RelType string
}

func (e *AmbiguousRelationshipKeyError) Error() string {
	return fmt.Sprintf("relationship %q: rel_key_fields required under the keyed uniqueness policy", e.RelType)
}

// batchSizeOrDefault normalizes a non-positive batch size to DefaultBatchSize.
func batchSizeOrDefault(n int) int {
	if n <= 0 {
		return DefaultBatchSize
	}
	return n
}

// validateIdentifiers validates a label/type plus a list of field names,
// stopping at the first failure.
func validateIdentifiers(label string, fields ...string) (string, []string, error) {
	validLabel, err := ipr.Validate(label, true)
	if err != nil {
		return "", nil, err
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		v, err := ipr.Validate(f, true)
		if err != nil {
			return "", nil, err
		}
		out[i] = v
	}
	return validLabel, out, nil
}

// unionFields computes the sorted union of every field present across rows,
// excluding the names in exclude. Field order is sorted lexicographically
// rather than "first seen": Go's map type has randomized iteration order,
// so a first-seen rule over map[string]any rows could not satisfy spec.md's
// invariant I4 (deterministic recompilation) without first imposing some
// other deterministic order — lexicographic is that order.
func unionFields(rows []map[string]any, exclude map[string]bool) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			if exclude[k] || seen[k] {
				continue
			}
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// batchRanges partitions n rows into batches of at most size, returning
// [start, end) pairs in order.
func batchRanges(n, size int) [][2]int {
	if n == 0 {
		return nil
	}
	var ranges [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}
