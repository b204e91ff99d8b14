package opt

import (
	"fmt"
	"strings"
)

// Key is a single component of an index tuple. Concrete keys are ints,
// floats, or strings; abstract keys are *SetIterator values standing in for
// an unresolved element of a Set.
type Key = any

// KeyString renders an index tuple into its canonical form, the one used
// both for member lookup and for generated member names: numbers bare,
// strings single-quoted, iterators by binder name. The same tuple always
// renders to the same string.
func KeyString(keys ...Key) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, keyPart(k))
	}
	return strings.Join(parts, ",")
}

func keyPart(k Key) string {
	switch v := k.(type) {
	case nil:
		return ""
	case string:
		return "'" + v + "'"
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return formatNum(v)
	case *SetIterator:
		return v.Name()
	case *Expression:
		return v.Expr()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// memberName builds the generated name of an indexed group member, for
// example x[2,'east'].
func memberName(group string, keys []Key) string {
	return group + "[" + KeyString(keys...) + "]"
}

// keysAbstract reports whether any component of the tuple is unresolved.
func keysAbstract(keys []Key) bool {
	for _, k := range keys {
		if _, ok := k.(*SetIterator); ok {
			return true
		}
	}
	return false
}

// expandIndexSource normalizes one index source into its ordered key list.
// Supported sources: int n (keys 0..n-1), []int, []string, []float64,
// []Key, and *Set for abstract domains (which yields no concrete keys).
func expandIndexSource(src any) ([]Key, *Set, error) {
	switch v := src.(type) {
	case int:
		if v < 0 {
			return nil, nil, modelingErrorf("index source size %d is negative", v)
		}
		keys := make([]Key, v)
		for i := 0; i < v; i++ {
			keys[i] = i
		}
		return keys, nil, nil
	case []int:
		keys := make([]Key, len(v))
		for i, k := range v {
			keys[i] = k
		}
		return keys, nil, nil
	case []string:
		keys := make([]Key, len(v))
		for i, k := range v {
			keys[i] = k
		}
		return keys, nil, nil
	case []float64:
		keys := make([]Key, len(v))
		for i, k := range v {
			keys[i] = k
		}
		return keys, nil, nil
	case []Key:
		return v, nil, nil
	case *Set:
		return nil, v, nil
	default:
		return nil, nil, modelingErrorf("unsupported index source type %T", src)
	}
}

// indexSourceLabel renders a concrete key list as a declaration domain:
// consecutive integers collapse into lo..hi, everything else becomes a
// brace-enclosed literal list.
func indexSourceLabel(keys []Key) string {
	if len(keys) > 0 {
		if lo, ok := keys[0].(int); ok {
			hi := lo
			run := true
			for i := 1; i < len(keys); i++ {
				n, isInt := keys[i].(int)
				if !isInt || n != hi+1 {
					run = false
					break
				}
				hi = n
			}
			if run {
				return fmt.Sprintf("%d..%d", lo, hi)
			}
		}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keyPart(k)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func joinSources(sources []string) string {
	return strings.Join(sources, ", ")
}

// cartesian walks the cross product of the given key lists in order,
// invoking fn with every combination. Order is the natural nested-loop
// order, which keeps member enumeration deterministic.
func cartesian(sources [][]Key, fn func(keys []Key)) {
	if len(sources) == 0 {
		return
	}
	current := make([]Key, len(sources))
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(sources) {
			tuple := make([]Key, len(current))
			copy(tuple, current)
			fn(tuple)
			return
		}
		for _, k := range sources[depth] {
			current[depth] = k
			walk(depth + 1)
		}
	}
	walk(0)
}
