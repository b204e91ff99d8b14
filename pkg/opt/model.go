package opt

import (
	"context"

	"github.com/vk/optmodeler/internal/ctxlog"
	"github.com/vk/optmodeler/internal/namer"
	"github.com/vk/optmodeler/pkg/session"
)

// Component is anything a model renders as a declaration: variables and
// their groups, constraints and their groups, objectives, sets, parameters,
// implicit variables, and sequenced statements.
type Component interface {
	Defn() string
}

// Model is an ordered collection of components. Insertion order is
// identity: it fixes both the layout of generated text and the row and
// column order of the matrix form. Components are shared by reference, so
// including one variable in two models leaves a single object.
type Model struct {
	name  string
	names *namer.Registry
	log   ctxlogger

	components []Component

	vars      []*Variable
	varGroups []*VariableGroup
	cons      []*Constraint
	conGroups []*ConstraintGroup

	objectives []*Objective
	active     *Objective

	sets     []*Set
	params   []*Parameter
	pgroups  []*ParameterGroup
	impvars  []*ImplicitVar
	stmts    []Statement
	sess     session.Submitter
	solveOps SolveOptions
}

type ctxlogger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// NewModel creates an empty model. The context carries the logger used for
// rename warnings.
func NewModel(ctx context.Context, name string) *Model {
	return &Model{
		name:  name,
		names: namer.New(),
		log:   ctxlog.FromContext(ctx),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// SetSession attaches the remote engine submitter used by solve mediation.
func (m *Model) SetSession(s session.Submitter) { m.sess = s }

// Session returns the attached submitter, or nil.
func (m *Model) Session() session.Submitter { return m.sess }

// SetSolveOptions stores the options used when the model is solved.
func (m *Model) SetSolveOptions(opts SolveOptions) { m.solveOps = opts }

// SolveOptions returns the stored solve options.
func (m *Model) SolveOptions() SolveOptions { return m.solveOps }

// claim reserves a component name, disambiguating duplicates with a
// deterministic numeric suffix and a logged warning. An empty name gets an
// automatic one with the given prefix.
func (m *Model) claim(name, prefix string) string {
	if name == "" {
		return m.names.Next(prefix)
	}
	claimed, fresh := m.names.Claim(name)
	if !fresh {
		m.log.Warn("duplicate component name renamed", "model", m.name, "requested", name, "assigned", claimed)
	}
	return claimed
}

// NewVar creates a variable from the spec and adds it to the model.
func (m *Model) NewVar(spec VarSpec) *Variable {
	spec.Name = m.claim(spec.Name, "var")
	v := NewVariable(spec)
	m.vars = append(m.vars, v)
	m.components = append(m.components, v)
	return v
}

// AddVariable includes an existing variable by reference. The variable
// keeps its name, so a collision with a name already claimed in this model
// is refused: renaming here would silently change the object's identity in
// every other model that shares it.
func (m *Model) AddVariable(v *Variable) (*Variable, error) {
	if v.name == "" {
		v.name = m.names.Next("var")
	} else if m.names.Known(v.name) {
		return nil, modelingErrorf("model %s already has a component named %s", m.name, v.name)
	} else {
		m.names.Claim(v.name)
	}
	m.vars = append(m.vars, v)
	m.components = append(m.components, v)
	return v, nil
}

// NewVarGroup creates an indexed variable family and adds it to the model.
func (m *Model) NewVarGroup(spec GroupSpec, sources ...any) (*VariableGroup, error) {
	spec.Name = m.claim(spec.Name, "var")
	g, err := NewVariableGroup(spec, sources...)
	if err != nil {
		return nil, err
	}
	m.varGroups = append(m.varGroups, g)
	m.components = append(m.components, g)
	return g, nil
}

// AddVariableGroup includes an existing family by reference. Collisions are
// refused for the same reason as AddVariable.
func (m *Model) AddVariableGroup(g *VariableGroup) (*VariableGroup, error) {
	if g.name == "" {
		g.name = m.names.Next("var")
	} else if m.names.Known(g.name) {
		return nil, modelingErrorf("model %s already has a component named %s", m.name, g.name)
	} else {
		m.names.Claim(g.name)
	}
	m.varGroups = append(m.varGroups, g)
	m.components = append(m.components, g)
	return g, nil
}

// AddConstraint names and registers a constraint. An empty name gets an
// automatic one.
func (m *Model) AddConstraint(name string, c *Constraint) *Constraint {
	c.name = m.claim(name, "con")
	m.cons = append(m.cons, c)
	m.components = append(m.components, c)
	return c
}

// AddConstraintGroup registers an indexed constraint family.
func (m *Model) AddConstraintGroup(g *ConstraintGroup) *ConstraintGroup {
	g.name = m.claim(g.name, "con")
	m.conGroups = append(m.conGroups, g)
	m.components = append(m.components, g)
	return g
}

// SetObjective registers an objective and makes it the active one for
// single-objective solves.
func (m *Model) SetObjective(name string, sense Sense, expr *Expression) *Objective {
	o := NewObjective(m.claim(name, "obj"), sense, expr)
	m.objectives = append(m.objectives, o)
	m.components = append(m.components, o)
	m.active = o
	return o
}

// AppendObjective registers an additional objective without activating it.
// Registration order is the order multi-objective directives list them.
func (m *Model) AppendObjective(name string, sense Sense, expr *Expression) *Objective {
	o := NewObjective(m.claim(name, "obj"), sense, expr)
	m.objectives = append(m.objectives, o)
	m.components = append(m.components, o)
	return o
}

// Objective returns the active objective, or nil when none was set.
func (m *Model) Objective() *Objective { return m.active }

// Objectives returns every registered objective in registration order.
func (m *Model) Objectives() []*Objective { return m.objectives }

// AddSet registers an abstract set declaration.
func (m *Model) AddSet(s *Set) *Set {
	s.name = m.claim(s.name, "set")
	m.sets = append(m.sets, s)
	m.components = append(m.components, s)
	return s
}

// AddParameter registers an engine-side parameter declaration.
func (m *Model) AddParameter(p *Parameter) *Parameter {
	p.name = m.claim(p.name, "param")
	m.params = append(m.params, p)
	m.components = append(m.components, p)
	return p
}

// AddParameterGroup registers an indexed parameter family.
func (m *Model) AddParameterGroup(g *ParameterGroup) *ParameterGroup {
	g.name = m.claim(g.name, "param")
	m.pgroups = append(m.pgroups, g)
	m.components = append(m.components, g)
	return g
}

// AddImplicitVar registers a named formula.
func (m *Model) AddImplicitVar(iv *ImplicitVar) *ImplicitVar {
	iv.name = m.claim(iv.name, "impvar")
	m.impvars = append(m.impvars, iv)
	m.components = append(m.components, iv)
	return iv
}

// AddStatement appends a sequenced directive rendered after the
// declarations it follows.
func (m *Model) AddStatement(stmt Statement) {
	m.stmts = append(m.stmts, stmt)
	m.components = append(m.components, stmt)
}

// Components returns every component in insertion order.
func (m *Model) Components() []Component { return m.components }

// Defn renders the model's declarations in insertion order, one per line,
// so a model can appear as a unit inside a workspace sequence.
func (m *Model) Defn() string {
	lines := make([]string, 0, len(m.components))
	for _, c := range m.components {
		lines = append(lines, c.Defn())
	}
	return joinLines(lines)
}

// Statements returns the sequenced directives in insertion order.
func (m *Model) Statements() []Statement { return m.stmts }

// Sets returns the registered abstract sets.
func (m *Model) Sets() []*Set { return m.sets }

// Columns flattens scalar variables and concrete group members into the
// model's column order: insertion order, members in their group's creation
// order.
func (m *Model) Columns() []*Variable {
	var out []*Variable
	for _, c := range m.components {
		switch v := c.(type) {
		case *Variable:
			out = append(out, v)
		case *VariableGroup:
			out = append(out, v.Members()...)
		}
	}
	return out
}

// Rows flattens scalar constraints and concrete group members into the
// model's row order.
func (m *Model) Rows() []*Constraint {
	var out []*Constraint
	for _, c := range m.components {
		switch v := c.(type) {
		case *Constraint:
			out = append(out, v)
		case *ConstraintGroup:
			out = append(out, v.Members()...)
		}
	}
	return out
}

// IsAbstract reports whether the model declares abstract sets, parameters,
// abstract groups, or abstract constraint bodies.
func (m *Model) IsAbstract() bool {
	if len(m.sets) > 0 || len(m.pgroups) > 0 {
		return true
	}
	for _, p := range m.params {
		if p.Abstract() {
			return true
		}
	}
	for _, g := range m.varGroups {
		if g.IsAbstract() {
			return true
		}
	}
	for _, g := range m.conGroups {
		if g.IsAbstract() {
			return true
		}
	}
	for _, c := range m.Rows() {
		if c.body.IsAbstract() {
			return true
		}
	}
	for _, o := range m.objectives {
		if o.expr.IsAbstract() {
			return true
		}
	}
	return false
}

// IsLinear reports whether every constraint body and the active objective
// are linear.
func (m *Model) IsLinear() bool {
	for _, c := range m.Rows() {
		if !c.body.IsLinear() {
			return false
		}
	}
	if m.active != nil && !m.active.expr.IsLinear() {
		return false
	}
	return true
}
