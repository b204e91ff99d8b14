package opt

import (
	"math"
	"strings"
)

// Star is the wildcard index used with VariableGroup.Sum to leave a
// dimension unfiltered.
var Star = wildcard{}

type wildcard struct{}

// GroupSpec describes an indexed variable family. Bounds and init are the
// group defaults; individual members can be overridden after creation.
type GroupSpec struct {
	Name string
	Type VarType
	LB   *float64
	UB   *float64
	Init *float64
}

// VariableGroup is an indexed family of variables over the Cartesian
// product of its index sources. Concrete sources enumerate members eagerly
// in nested-loop order, which fixes the column order of every rendering.
// A *Set source makes the group abstract: members become shadows created
// on demand and the family is declared over the set symbolically.
type VariableGroup struct {
	name    string
	vtype   VarType
	lb, ub  float64
	init    *float64
	sources []string
	sets    []*Set

	members  map[string]*Variable
	order    []string
	abstract bool
}

// NewVariableGroup creates an indexed variable family. Index sources follow
// expandIndexSource: int n (0..n-1), slices of keys, or *Set.
func NewVariableGroup(spec GroupSpec, sources ...any) (*VariableGroup, error) {
	if len(sources) == 0 {
		return nil, modelingErrorf("variable group %s needs at least one index source", spec.Name)
	}
	lb, ub := spec.Type.DefaultBounds()
	if spec.LB != nil {
		lb = *spec.LB
	}
	if spec.UB != nil {
		ub = *spec.UB
	}
	if spec.Type == Binary {
		lb = math.Max(lb, 0)
		ub = math.Min(ub, 1)
	}
	g := &VariableGroup{
		name:    spec.Name,
		vtype:   spec.Type,
		lb:      lb,
		ub:      ub,
		init:    spec.Init,
		members: make(map[string]*Variable),
	}
	lists := make([][]Key, 0, len(sources))
	for _, src := range sources {
		keys, set, err := expandIndexSource(src)
		if err != nil {
			return nil, err
		}
		if set != nil {
			g.abstract = true
			g.sets = append(g.sets, set)
			g.sources = append(g.sources, set.Name())
			continue
		}
		lists = append(lists, keys)
		g.sources = append(g.sources, indexSourceLabel(keys))
	}
	if !g.abstract {
		cartesian(lists, func(keys []Key) {
			g.addMember(keys)
		})
	}
	return g, nil
}

func (g *VariableGroup) addMember(keys []Key) *Variable {
	m := &Variable{
		name:   memberName(g.name, keys),
		vtype:  g.vtype,
		lb:     g.lb,
		ub:     g.ub,
		init:   g.init,
		parent: g,
		key:    keys,
	}
	if g.init != nil {
		m.value = *g.init
		m.hasValue = true
	}
	ks := KeyString(keys...)
	g.members[ks] = m
	g.order = append(g.order, ks)
	return m
}

// Name returns the family name.
func (g *VariableGroup) Name() string { return g.name }

// Type returns the member domain type.
func (g *VariableGroup) Type() VarType { return g.vtype }

// IsAbstract reports whether the group is declared over an abstract set.
func (g *VariableGroup) IsAbstract() bool { return g.abstract }

// Len returns the number of concrete members.
func (g *VariableGroup) Len() int { return len(g.order) }

// At returns the member variable for an index tuple. On abstract groups
// (or with iterator keys) the member is a shadow that renders symbolically
// and cannot be evaluated on the client.
func (g *VariableGroup) At(keys ...Key) (*Variable, error) {
	ks := KeyString(keys...)
	if m, ok := g.members[ks]; ok {
		return m, nil
	}
	if g.abstract || keysAbstract(keys) {
		m := &Variable{
			name:     memberName(g.name, keys),
			vtype:    g.vtype,
			lb:       g.lb,
			ub:       g.ub,
			init:     g.init,
			parent:   g,
			key:      keys,
			abstract: true,
			shadow:   true,
		}
		g.members[ks] = m
		g.order = append(g.order, ks)
		return m, nil
	}
	return nil, modelingErrorf("no member %s in variable group %s", ks, g.name)
}

// MustAt is At for known-good tuples, such as iterating the group's own
// declared keys.
func (g *VariableGroup) MustAt(keys ...Key) *Variable {
	m, err := g.At(keys...)
	if err != nil {
		panic(err)
	}
	return m
}

// Members returns the concrete members in creation order.
func (g *VariableGroup) Members() []*Variable {
	out := make([]*Variable, 0, len(g.order))
	for _, ks := range g.order {
		out = append(out, g.members[ks])
	}
	return out
}

// SetMemberBounds overrides one member's bounds; the override renders as a
// separate assignment after the family declaration.
func (g *VariableGroup) SetMemberBounds(lb, ub float64, keys ...Key) error {
	m, err := g.At(keys...)
	if err != nil {
		return err
	}
	m.SetBounds(lb, ub)
	return nil
}

// SetMemberInit overrides one member's initial value.
func (g *VariableGroup) SetMemberInit(init float64, keys ...Key) error {
	m, err := g.At(keys...)
	if err != nil {
		return err
	}
	m.SetInit(init)
	return nil
}

// Sum reduces members into a single expression. Each filter position either
// names a concrete key or is Star to leave that dimension unfiltered; the
// result sums matching members in creation order. Summing an abstract group
// requires iterator keys and yields a symbolic sum instead.
func (g *VariableGroup) Sum(filters ...Key) (*Expression, error) {
	iters := iteratorKeys(filters)
	if len(iters) > 0 {
		m, err := g.At(filters...)
		if err != nil {
			return nil, err
		}
		return SumOver(m.E(), iters...), nil
	}
	if g.abstract {
		return nil, modelingErrorf("summing abstract group %s requires iterator keys", g.name)
	}
	r := TempExpression()
	for _, ks := range g.order {
		m := g.members[ks]
		if !matchFilters(m.key, filters) {
			continue
		}
		r.addTerm([]Factor{{Ref: m, Exp: 1}}, 1)
	}
	return r.Freeze(), nil
}

// SumAll sums every concrete member.
func (g *VariableGroup) SumAll() (*Expression, error) {
	filters := make([]Key, 0)
	if len(g.order) > 0 {
		filters = make([]Key, len(g.members[g.order[0]].key))
		for i := range filters {
			filters[i] = Star
		}
	}
	return g.Sum(filters...)
}

// Mult builds the inner product of the coefficient slice with the members
// in creation order. The lengths must match exactly.
func (g *VariableGroup) Mult(coeffs []float64) (*Expression, error) {
	if len(coeffs) != len(g.order) {
		return nil, &ShapeMismatchError{What: "coefficients for group " + g.name, Want: len(g.order), Got: len(coeffs)}
	}
	r := TempExpression()
	for i, ks := range g.order {
		if coeffs[i] == 0 {
			continue
		}
		r.addTerm([]Factor{{Ref: g.members[ks], Exp: 1}}, coeffs[i])
	}
	return r.Freeze(), nil
}

// Defn renders the family declaration plus one override line per member
// whose bounds or init differ from the group defaults.
func (g *VariableGroup) Defn() string {
	var b strings.Builder
	b.WriteString("var " + g.name + " {" + joinSources(g.sources) + "}")
	switch g.vtype {
	case Binary:
		b.WriteString(" binary")
	case Integer:
		b.WriteString(" integer")
	}
	if !math.IsInf(g.lb, -1) && !(g.vtype == Binary && g.lb == 0) {
		b.WriteString(" >= " + formatNum(g.lb))
	}
	if !math.IsInf(g.ub, 1) && !(g.vtype == Binary && g.ub == 1) {
		b.WriteString(" <= " + formatNum(g.ub))
	}
	if g.init != nil {
		b.WriteString(" init " + formatNum(*g.init))
	}
	b.WriteString(";")
	for _, ks := range g.order {
		m := g.members[ks]
		if m.shadow {
			continue
		}
		if m.lb != g.lb {
			b.WriteString("\n" + m.Expr() + ".lb = " + formatNum(m.lb) + ";")
		}
		if m.ub != g.ub {
			b.WriteString("\n" + m.Expr() + ".ub = " + formatNum(m.ub) + ";")
		}
		if m.init != nil && (g.init == nil || *m.init != *g.init) {
			b.WriteString("\n" + m.Expr() + " = " + formatNum(*m.init) + ";")
		}
	}
	return b.String()
}

func (g *VariableGroup) String() string { return g.name }

func iteratorKeys(keys []Key) []*SetIterator {
	var iters []*SetIterator
	for _, k := range keys {
		if it, ok := k.(*SetIterator); ok {
			iters = append(iters, it)
		}
	}
	return iters
}

func matchFilters(key []Key, filters []Key) bool {
	if len(filters) == 0 {
		return true
	}
	if len(filters) != len(key) {
		return false
	}
	for i, f := range filters {
		if _, ok := f.(wildcard); ok {
			continue
		}
		if keyPart(f) != keyPart(key[i]) {
			return false
		}
	}
	return true
}
