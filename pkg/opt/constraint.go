package opt

import (
	"math"
)

// Direction is the relational direction of a constraint.
type Direction int

const (
	// DirLE is body <= rhs.
	DirLE Direction = iota
	// DirGE is body >= rhs.
	DirGE
	// DirEQ is body = rhs.
	DirEQ
	// DirRange is lo <= body <= hi.
	DirRange
)

// Symbol returns the operator text used in generated code.
func (d Direction) Symbol() string {
	switch d {
	case DirLE:
		return "<="
	case DirGE:
		return ">="
	default:
		return "="
	}
}

// MPSCode returns the single-letter row type used in matrix interchange.
func (d Direction) MPSCode() string {
	switch d {
	case DirLE:
		return "L"
	case DirGE:
		return "G"
	default:
		return "E"
	}
}

// Constraint is a relational statement over an expression: a body holding
// the variable terms, a direction, and a constant right-hand side. Range
// constraints additionally carry a width so lo <= body <= hi round-trips.
type Constraint struct {
	name string
	body *Expression
	dir  Direction

	// rng is the range width hi-lo for DirRange constraints.
	rng float64

	parent *ConstraintGroup
	key    []Key

	dual    float64
	hasDual bool
}

// newRelational normalizes left dir right into body dir constant: the
// right side's variable terms are subtracted into the body, its constant
// stays on the right as -body.constant. Neither operand is mutated.
func newRelational(left *Expression, dir Direction, right *Expression) *Constraint {
	body := left.wrapped().Copy().Sub(right)
	return &Constraint{body: body, dir: dir}
}

// newRangeConstraint builds lo <= body <= hi. The lower bound is folded
// into the body's constant and the width hi-lo is kept so both original
// bounds are recoverable.
func newRangeConstraint(e *Expression, lo, hi float64) *Constraint {
	if hi < lo {
		lo, hi = hi, lo
	}
	body := e.wrapped().Copy().SubConst(lo)
	return &Constraint{body: body, dir: DirRange, rng: hi - lo}
}

// Name returns the unique identity of the constraint.
func (c *Constraint) Name() string { return c.name }

// SetName assigns the constraint's identity. Models claim the name on add.
func (c *Constraint) SetName(name string) { c.name = name }

// Body returns the normalized expression holding the variable terms.
func (c *Constraint) Body() *Expression { return c.body }

// Direction returns the relational direction.
func (c *Constraint) Direction() Direction { return c.dir }

// SetDirection replaces the relational direction in place. A range
// constraint cannot be turned into a plain relation because the width
// would be lost.
func (c *Constraint) SetDirection(dir Direction) error {
	if c.dir == DirRange || dir == DirRange {
		return modelingErrorf("cannot change direction of a range constraint %s", c.name)
	}
	c.dir = dir
	return nil
}

// RHS returns the constant right-hand side of a plain relational
// constraint.
func (c *Constraint) RHS() float64 {
	return -c.body.constant
}

// SetRHS replaces the right-hand side in place, keeping the body terms.
func (c *Constraint) SetRHS(v float64) {
	c.body.constant = -v
}

// Bounds returns the effective lower and upper row bounds, with infinities
// for the open side of inequalities.
func (c *Constraint) Bounds() (float64, float64) {
	rhs := -c.body.constant
	switch c.dir {
	case DirLE:
		return math.Inf(-1), rhs
	case DirGE:
		return rhs, math.Inf(1)
	case DirRange:
		return rhs, rhs + c.rng
	default:
		return rhs, rhs
	}
}

// Range returns the width hi-lo of a range constraint, zero otherwise.
func (c *Constraint) Range() float64 { return c.rng }

// UpdateVarCoef sets the coefficient of a variable in the body to the
// given value, replacing any accumulated coefficient rather than adding to
// it. A variable not yet present is inserted.
func (c *Constraint) UpdateVarCoef(v *Variable, coef float64) {
	key := termKey([]Factor{{Ref: v, Exp: 1}})
	if t, ok := c.body.terms[key]; ok {
		t.coef = coef
		return
	}
	c.body.addTerm([]Factor{{Ref: v, Exp: 1}}, coef)
}

// Group returns the owning constraint group for indexed members, or nil.
func (c *Constraint) Group() *ConstraintGroup { return c.parent }

// IndexKey returns the member's index tuple, or nil for scalars.
func (c *Constraint) IndexKey() []Key { return c.key }

// Dual returns the dual value recorded by the last solve.
func (c *Constraint) Dual() (float64, bool) { return c.dual, c.hasDual }

// SetDual records the dual value from a solve response.
func (c *Constraint) SetDual(v float64) {
	c.dual = v
	c.hasDual = true
}

// Satisfied evaluates the body with current variable values and checks it
// against the bounds within the given tolerance. Abstract constraints
// cannot be checked on the client.
func (c *Constraint) Satisfied(tol float64) (bool, error) {
	v, err := c.body.Value()
	if err != nil {
		return false, err
	}
	lo, hi := c.Bounds()
	// Bounds compare against body without the folded constant.
	v -= c.body.constant
	return v >= lo-tol && v <= hi+tol, nil
}

// relation renders the relational part after the body.
func (c *Constraint) relation() string {
	lo, hi := c.Bounds()
	if c.dir == DirRange {
		return formatNum(lo) + " <= " + c.body.exprBody(false) + " <= " + formatNum(hi)
	}
	return c.body.exprBody(false) + " " + c.dir.Symbol() + " " + formatNum(-c.body.constant)
}

// Expr renders the constraint relation without the declaration wrapper.
func (c *Constraint) Expr() string { return c.relation() }

// Defn renders the constraint declaration statement.
func (c *Constraint) Defn() string {
	label := c.name
	if c.parent != nil && len(c.key) > 0 {
		label = memberName(c.parent.name, c.key)
	}
	return "con " + label + " : " + c.relation() + ";"
}

func (c *Constraint) String() string { return c.Expr() }
