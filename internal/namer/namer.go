// Package namer tracks name uniqueness for the components of a single model
// or workspace. Every registry is scoped to its owner; there is no
// process-wide state, so two models can safely use the same component names.
package namer

import (
	"fmt"
	"strings"
)

// Registry hands out collision-free component names and creation sequence
// numbers. The zero value is not usable; call New.
type Registry struct {
	taken map[string]int
	auto  map[string]int
	seq   int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		taken: make(map[string]int),
		auto:  make(map[string]int),
	}
}

// Claim reserves the given name. If the name is already taken, a numbered
// suffix is appended until a free name is found, and the second return value
// is false so the caller can report the rename. The same inputs always
// resolve to the same outcome.
func (r *Registry) Claim(name string) (string, bool) {
	if _, ok := r.taken[name]; !ok {
		r.taken[name] = 1
		return name, true
	}
	base := name
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, ok := r.taken[candidate]; !ok {
			r.taken[candidate] = 1
			return candidate, false
		}
	}
}

// Next generates an automatic name with the given prefix, for components the
// caller did not name explicitly. Generated names participate in collision
// tracking like claimed ones.
func (r *Registry) Next(prefix string) string {
	if prefix == "" {
		prefix = "o"
	}
	for {
		r.auto[prefix]++
		candidate := fmt.Sprintf("%s_%d", prefix, r.auto[prefix])
		if _, ok := r.taken[candidate]; !ok {
			r.taken[candidate] = 1
			return candidate
		}
	}
}

// Sequence returns the next creation order number. Components are rendered
// in ascending sequence order, which makes generated code deterministic.
func (r *Registry) Sequence() int {
	r.seq++
	return r.seq
}

// Known reports whether a name has been claimed or generated.
func (r *Registry) Known(name string) bool {
	_, ok := r.taken[name]
	return ok
}

// SafeName strips characters that cannot appear in generated identifiers,
// replacing them with underscores.
func SafeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
