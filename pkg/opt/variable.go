package opt

import (
	"math"
)

// VarType is the domain type of a decision variable.
type VarType int

const (
	// Continuous variables range over the reals.
	Continuous VarType = iota
	// Integer variables are restricted to whole numbers.
	Integer
	// Binary variables are restricted to {0, 1}.
	Binary
)

// String returns the short code used in generated tables.
func (t VarType) String() string {
	switch t {
	case Integer:
		return "INT"
	case Binary:
		return "BIN"
	default:
		return "CONT"
	}
}

// DefaultBounds returns the default lower and upper bound for the type.
func (t VarType) DefaultBounds() (float64, float64) {
	if t == Binary {
		return 0, 1
	}
	return math.Inf(-1), math.Inf(1)
}

// VarSpec describes a variable to be created. Nil bound and init fields
// fall back to the type defaults.
type VarSpec struct {
	Name string
	Type VarType
	LB   *float64
	UB   *float64
	Init *float64
}

// F is a convenience for building optional numeric fields in specs.
func F(v float64) *float64 { return &v }

// Variable is a decision variable: identity, domain type, bounds, optional
// initial value, and slots for the solution value and dual (reduced cost)
// filled in after a solve. A variable is shared by reference: including it
// in two models leaves a single object, and mutations are visible through
// both.
type Variable struct {
	name     string
	vtype    VarType
	lb, ub   float64
	init     *float64
	value    float64
	hasValue bool
	dual     float64
	hasDual  bool

	parent   *VariableGroup
	key      []Key
	abstract bool
	shadow   bool
}

// NewVariable creates a standalone variable from a spec. Name uniqueness is
// enforced when the variable is added to a model, not at construction.
func NewVariable(spec VarSpec) *Variable {
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
	v := &Variable{
		name:  spec.Name,
		vtype: spec.Type,
		lb:    lb,
		ub:    ub,
		init:  spec.Init,
	}
	if spec.Init != nil {
		v.value = *spec.Init
		v.hasValue = true
	}
	return v
}

// Name returns the unique identity of the variable.
func (v *Variable) Name() string { return v.name }

// Expr renders the variable reference for generated code. Group members
// render as parent[key,...].
func (v *Variable) Expr() string {
	if v.parent != nil && len(v.key) > 0 {
		return memberName(v.parent.name, v.key)
	}
	return v.name
}

// Abstract reports whether the variable is indexed by an unresolved set
// element.
func (v *Variable) Abstract() bool { return v.abstract }

// RefValue returns the current client-side value, which is the initial
// value until a solve resolves one.
func (v *Variable) RefValue() (float64, error) {
	if v.abstract {
		return 0, modelingErrorf("cannot evaluate abstract variable %s on the client", v.Expr())
	}
	return v.value, nil
}

// Type returns the variable's domain type.
func (v *Variable) Type() VarType { return v.vtype }

// Bounds returns the current lower and upper bound.
func (v *Variable) Bounds() (float64, float64) { return v.lb, v.ub }

// SetBounds updates the stored bounds. Expressions hold the variable by
// reference, so previously built expressions see the new bounds at render
// time; nothing is copied at expression-construction time.
func (v *Variable) SetBounds(lb, ub float64) {
	v.lb = lb
	v.ub = ub
}

// SetLB updates the lower bound only.
func (v *Variable) SetLB(lb float64) { v.lb = lb }

// SetUB updates the upper bound only.
func (v *Variable) SetUB(ub float64) { v.ub = ub }

// Init returns the initial value, if one was given.
func (v *Variable) Init() (float64, bool) {
	if v.init == nil {
		return 0, false
	}
	return *v.init, true
}

// SetInit replaces the initial value.
func (v *Variable) SetInit(init float64) {
	v.init = &init
	if !v.hasValue {
		v.value = init
	}
}

// Value returns the current value of the variable.
func (v *Variable) Value() (float64, bool) { return v.value, v.hasValue }

// SetValue records a value, typically from a parsed solve response.
func (v *Variable) SetValue(val float64) {
	v.value = val
	v.hasValue = true
}

// Dual returns the reduced cost recorded by the last solve.
func (v *Variable) Dual() (float64, bool) { return v.dual, v.hasDual }

// SetDual records the reduced cost from a solve response.
func (v *Variable) SetDual(val float64) {
	v.dual = val
	v.hasDual = true
}

// Group returns the owning variable group for indexed members, or nil.
func (v *Variable) Group() *VariableGroup { return v.parent }

// IndexKey returns the member's index tuple, or nil for scalars.
func (v *Variable) IndexKey() []Key { return v.key }

// E returns the variable as a single-monomial expression with
// coefficient 1.
func (v *Variable) E() *Expression {
	e := NewExpression()
	e.abstract = v.abstract
	e.addTerm([]Factor{{Ref: v, Exp: 1}}, 1)
	return e
}

// Times returns coefficient*variable as an expression.
func (v *Variable) Times(coef float64) *Expression {
	return v.E().Scale(coef)
}

// Plus is shorthand for v + other.
func (v *Variable) Plus(other *Expression) *Expression { return v.E().Add(other) }

// Minus is shorthand for v - other.
func (v *Variable) Minus(other *Expression) *Expression { return v.E().Sub(other) }

// Pow raises the variable to a numeric exponent.
func (v *Variable) Pow(p float64) (*Expression, error) { return v.E().Pow(p) }

// Le builds the constraint v <= bound.
func (v *Variable) Le(bound float64) *Constraint { return v.E().LeNum(bound) }

// Ge builds the constraint v >= bound.
func (v *Variable) Ge(bound float64) *Constraint { return v.E().GeNum(bound) }

// Eq builds the constraint v = bound.
func (v *Variable) Eq(bound float64) *Constraint { return v.E().EqNum(bound) }

// Defn renders the variable declaration statement.
func (v *Variable) Defn() string {
	s := "var " + v.name
	switch v.vtype {
	case Binary:
		s += " binary"
	case Integer:
		s += " integer"
	}
	if !math.IsInf(v.lb, -1) && !(v.vtype == Binary && v.lb == 0) {
		s += " >= " + formatNum(v.lb)
	}
	if !math.IsInf(v.ub, 1) && !(v.vtype == Binary && v.ub == 1) {
		s += " <= " + formatNum(v.ub)
	}
	if v.init != nil {
		s += " init " + formatNum(*v.init)
	}
	return s + ";"
}

func (v *Variable) String() string { return v.Expr() }
