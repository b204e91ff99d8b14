package opt

import (
	"strings"
)

// ConstraintGroup is an indexed family of constraints. Concrete groups hold
// one constraint per key tuple, enumerated in the order the builder emitted
// them; abstract groups hold a single template constraint over iterators
// and render as one indexed declaration.
type ConstraintGroup struct {
	name    string
	members map[string]*Constraint
	order   []string

	// template and iters are set for abstract groups.
	template *Constraint
	iters    []*SetIterator
}

// NewConstraintGroup builds a concrete family by invoking the builder for
// every tuple of the index sources. The builder's constraints adopt member
// names name[k1,k2].
func NewConstraintGroup(name string, builder func(keys []Key) (*Constraint, error), sources ...any) (*ConstraintGroup, error) {
	if len(sources) == 0 {
		return nil, modelingErrorf("constraint group %s needs at least one index source", name)
	}
	lists := make([][]Key, 0, len(sources))
	for _, src := range sources {
		keys, set, err := expandIndexSource(src)
		if err != nil {
			return nil, err
		}
		if set != nil {
			return nil, modelingErrorf("constraint group %s over abstract set %s needs NewAbstractConstraintGroup", name, set.Name())
		}
		lists = append(lists, keys)
	}
	g := &ConstraintGroup{name: name, members: make(map[string]*Constraint)}
	var buildErr error
	cartesian(lists, func(keys []Key) {
		if buildErr != nil {
			return
		}
		c, err := builder(keys)
		if err != nil {
			buildErr = err
			return
		}
		c.name = memberName(name, keys)
		c.parent = g
		c.key = keys
		ks := KeyString(keys...)
		g.members[ks] = c
		g.order = append(g.order, ks)
	})
	if buildErr != nil {
		return nil, buildErr
	}
	return g, nil
}

// NewAbstractConstraintGroup builds an indexed family from a single
// template constraint over the given iterators, rendered as
// `con name {i in S} : ...;`.
func NewAbstractConstraintGroup(name string, template *Constraint, iters ...*SetIterator) (*ConstraintGroup, error) {
	if len(iters) == 0 {
		return nil, modelingErrorf("abstract constraint group %s needs at least one iterator", name)
	}
	template.name = name
	return &ConstraintGroup{name: name, template: template, iters: iters}, nil
}

// Name returns the family name.
func (g *ConstraintGroup) Name() string { return g.name }

// IsAbstract reports whether the group is a template over iterators.
func (g *ConstraintGroup) IsAbstract() bool { return g.template != nil }

// Len returns the number of concrete members.
func (g *ConstraintGroup) Len() int { return len(g.order) }

// At returns the member constraint for an index tuple.
func (g *ConstraintGroup) At(keys ...Key) (*Constraint, error) {
	if c, ok := g.members[KeyString(keys...)]; ok {
		return c, nil
	}
	return nil, modelingErrorf("no member %s in constraint group %s", KeyString(keys...), g.name)
}

// Members returns the concrete members in creation order.
func (g *ConstraintGroup) Members() []*Constraint {
	out := make([]*Constraint, 0, len(g.order))
	for _, ks := range g.order {
		out = append(out, g.members[ks])
	}
	return out
}

// Defn renders the family declaration: one indexed declaration for
// abstract groups, one declaration line per member otherwise.
func (g *ConstraintGroup) Defn() string {
	if g.template != nil {
		return "con " + g.name + " {" + loopList(g.iters) + "} : " + g.template.relation() + ";"
	}
	lines := make([]string, 0, len(g.order))
	for _, ks := range g.order {
		lines = append(lines, g.members[ks].Defn())
	}
	return strings.Join(lines, "\n")
}

func (g *ConstraintGroup) String() string { return g.name }
