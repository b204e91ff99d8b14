package opt

// Parameter is a named engine-side scalar. It renders by name in generated
// code and carries a client-side value only when one was given, so data can
// stay on the engine while the model references it symbolically.
type Parameter struct {
	name     string
	kind     SetKind
	value    float64
	hasValue bool
	initStr  string

	parent *ParameterGroup
	key    []Key
}

// NewParameter declares a numeric parameter with no client-side value.
func NewParameter(name string) *Parameter {
	return &Parameter{name: name, kind: NumSet}
}

// NewParameterValue declares a numeric parameter initialized to v.
func NewParameterValue(name string, v float64) *Parameter {
	return &Parameter{name: name, kind: NumSet, value: v, hasValue: true}
}

// Name returns the parameter's engine-side identity.
func (p *Parameter) Name() string { return p.name }

// Expr renders the parameter reference. Group members render as
// parent[key,...].
func (p *Parameter) Expr() string {
	if p.parent != nil && len(p.key) > 0 {
		return memberName(p.parent.name, p.key)
	}
	return p.name
}

// Abstract reports whether the parameter has no client-side value or is
// indexed by an unresolved key.
func (p *Parameter) Abstract() bool {
	return !p.hasValue || keysAbstract(p.key)
}

// RefValue returns the client-side value when one is known.
func (p *Parameter) RefValue() (float64, error) {
	if p.Abstract() {
		return 0, modelingErrorf("parameter %s has no client-side value", p.Expr())
	}
	return p.value, nil
}

// Value returns the client-side value, if any.
func (p *Parameter) Value() (float64, bool) { return p.value, p.hasValue }

// SetValue assigns the client-side value.
func (p *Parameter) SetValue(v float64) {
	p.value = v
	p.hasValue = true
}

// SetInit assigns a literal initialization override rendered after init,
// for data that lives on the engine only.
func (p *Parameter) SetInit(literal string) { p.initStr = literal }

// E returns the parameter as a single-factor expression.
func (p *Parameter) E() *Expression {
	e := NewExpression()
	e.abstract = p.Abstract()
	e.addTerm([]Factor{{Ref: p, Exp: 1}}, 1)
	return e
}

// Times returns coefficient*parameter as an expression.
func (p *Parameter) Times(coef float64) *Expression { return p.E().Scale(coef) }

// Defn renders the parameter declaration statement.
func (p *Parameter) Defn() string {
	s := p.kind.String() + " " + p.name
	switch {
	case p.initStr != "":
		s += " init " + p.initStr
	case p.hasValue:
		s += " init " + formatNum(p.value)
	}
	return s + ";"
}

func (p *Parameter) String() string { return p.Expr() }

// ParameterGroup is an indexed family of parameters over index sources,
// declared once as `num p {S};` and referenced per key.
type ParameterGroup struct {
	name    string
	kind    SetKind
	keys    []Key
	sets    []*Set
	sources []string
	members map[string]*Parameter
	order   []string
}

// NewParameterGroup declares an indexed parameter family. Index sources
// follow the same forms as variable groups: int n, slices of keys, or *Set
// for abstract domains.
func NewParameterGroup(name string, sources ...any) (*ParameterGroup, error) {
	g := &ParameterGroup{name: name, kind: NumSet, members: make(map[string]*Parameter)}
	lists := make([][]Key, 0, len(sources))
	abstract := false
	for _, src := range sources {
		keys, set, err := expandIndexSource(src)
		if err != nil {
			return nil, err
		}
		if set != nil {
			abstract = true
			g.sets = append(g.sets, set)
			g.sources = append(g.sources, set.Name())
			continue
		}
		lists = append(lists, keys)
		g.sources = append(g.sources, indexSourceLabel(keys))
	}
	if !abstract {
		cartesian(lists, func(keys []Key) {
			ks := KeyString(keys...)
			m := &Parameter{name: memberName(name, keys), kind: NumSet, parent: g, key: keys}
			g.members[ks] = m
			g.order = append(g.order, ks)
		})
	}
	return g, nil
}

// Name returns the group's engine-side identity.
func (g *ParameterGroup) Name() string { return g.name }

// At returns the member parameter for a key tuple. Abstract keys yield a
// shadow member that renders symbolically.
func (g *ParameterGroup) At(keys ...Key) *Parameter {
	ks := KeyString(keys...)
	if m, ok := g.members[ks]; ok {
		return m
	}
	m := &Parameter{name: memberName(g.name, keys), kind: g.kind, parent: g, key: keys}
	if !keysAbstract(keys) {
		g.members[ks] = m
		g.order = append(g.order, ks)
	}
	return m
}

// Members returns the concrete members in creation order.
func (g *ParameterGroup) Members() []*Parameter {
	out := make([]*Parameter, 0, len(g.order))
	for _, ks := range g.order {
		out = append(out, g.members[ks])
	}
	return out
}

// SetValues assigns client-side values keyed by canonical key string.
func (g *ParameterGroup) SetValues(values map[string]float64) {
	for ks, v := range values {
		if m, ok := g.members[ks]; ok {
			m.SetValue(v)
		}
	}
}

// Defn renders the group declaration statement.
func (g *ParameterGroup) Defn() string {
	return g.kind.String() + " " + g.name + " {" + joinSources(g.sources) + "};"
}

func (g *ParameterGroup) String() string { return g.name }
