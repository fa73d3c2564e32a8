package filter

import "reflect"

// reflectList normalizes any concrete slice type (e.g. []string, []int) into
// a []any so callers aren't forced to box every list-valued predicate
// argument by hand before calling Compile.
func reflectList(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
