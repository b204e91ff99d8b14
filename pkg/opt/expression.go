package opt

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Ref is a symbolic entity that can appear as a factor inside a monomial:
// a decision variable, a parameter, a set iterator, or an opaque nonlinear
// term such as a math-function call.
type Ref interface {
	// Name is the stable identity used when collecting coefficients. Two
	// refs with the same Name are the same factor.
	Name() string
	// Expr is the rendered form used in generated code.
	Expr() string
	// Abstract reports whether the ref depends on an unresolved set element
	// and therefore cannot be evaluated on the client.
	Abstract() bool
	// RefValue returns the current client-side numeric value of the ref.
	RefValue() (float64, error)
}

// Factor is one (ref, exponent) pair of a monomial.
type Factor struct {
	Ref Ref
	Exp float64
}

// Term is a monomial with an accumulated coefficient. Structurally identical
// monomials always collapse into a single Term; the key encodes the factor
// multiset.
type Term struct {
	key     string
	coef    float64
	factors []Factor
}

// Coef returns the accumulated coefficient of the term.
func (t *Term) Coef() float64 { return t.coef }

// Factors returns the monomial's factors in canonical order.
func (t *Term) Factors() []Factor { return t.factors }

// Key returns the canonical identity of the monomial.
func (t *Term) Key() string { return t.key }

func (t *Term) abstract() bool {
	for _, f := range t.factors {
		if f.Ref.Abstract() {
			return true
		}
	}
	return false
}

func (t *Term) clone() *Term {
	factors := make([]Factor, len(t.factors))
	copy(factors, t.factors)
	return &Term{key: t.key, coef: t.coef, factors: factors}
}

// termKey derives the canonical key of a factor list. Factors are sorted by
// ref name so that x*y and y*x collapse into the same monomial.
func termKey(factors []Factor) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		if f.Exp == 1 {
			parts = append(parts, f.Ref.Name())
		} else {
			parts = append(parts, fmt.Sprintf("%s^%s", f.Ref.Name(), formatNum(f.Exp)))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "*")
}

// mergeFactors multiplies two factor lists, adding exponents of factors that
// share a ref identity. The result preserves the left operand's order, with
// new refs appended in the right operand's order.
func mergeFactors(a, b []Factor) []Factor {
	out := make([]Factor, len(a))
	copy(out, a)
	for _, f := range b {
		merged := false
		for i := range out {
			if out[i].Ref.Name() == f.Ref.Name() {
				out[i].Exp += f.Exp
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, f)
		}
	}
	// Zero exponents cancel out entirely.
	kept := out[:0]
	for _, f := range out {
		if f.Exp != 0 {
			kept = append(kept, f)
		}
	}
	return kept
}

// Expression is the coefficient-map representation of a (possibly nonlinear)
// algebraic expression over decision variables: an insertion-ordered mapping
// from monomials to coefficients plus a separately tracked constant term.
//
// An expression is either permanent (the default), in which case every
// arithmetic operation returns a new object and leaves the operands
// untouched, or temporary, in which case operations mutate it in place and
// return the same object. Temporary expressions exist for assembly-time
// performance; Freeze converts one back to permanent.
type Expression struct {
	name     string
	terms    map[string]*Term
	order    []string
	constant float64
	temp     bool
	abstract bool

	// reduce wraps the whole expression in a reduction over iterators, as
	// in sum {i in DAYS} (x[i]).
	reduceOp    string
	reduceIters []*SetIterator

	value    float64
	hasValue bool
	dual     float64
	hasDual  bool
}

// NewExpression creates an empty permanent expression.
func NewExpression() *Expression {
	return &Expression{terms: make(map[string]*Term)}
}

// TempExpression creates an empty temporary expression, which arithmetic
// operations mutate in place.
func TempExpression() *Expression {
	e := NewExpression()
	e.temp = true
	return e
}

// Number creates a constant expression.
func Number(v float64) *Expression {
	e := NewExpression()
	e.constant = v
	return e
}

// Name returns the local name of the expression, if any.
func (e *Expression) Name() string { return e.name }

// SetName assigns a local name to the expression.
func (e *Expression) SetName(name string) { e.name = name }

// IsTemporary reports whether arithmetic mutates the expression in place.
func (e *Expression) IsTemporary() bool { return e.temp }

// Freeze converts a temporary expression into a permanent one. Subsequent
// operations copy instead of mutating.
func (e *Expression) Freeze() *Expression {
	e.temp = false
	return e
}

// IsAbstract reports whether the expression involves unresolved sets,
// iterators, or parameters and therefore can only be serialized, never
// evaluated on the client.
func (e *Expression) IsAbstract() bool { return e.abstract }

// Constant returns the constant term.
func (e *Expression) Constant() float64 { return e.constant }

// Terms returns the monomial terms in insertion order.
func (e *Expression) Terms() []*Term {
	out := make([]*Term, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.terms[k])
	}
	return out
}

// TermCount returns the number of distinct monomials.
func (e *Expression) TermCount() int { return len(e.order) }

// CoefOf returns the accumulated coefficient of the monomial consisting
// solely of the given ref to the first power, or 0 when absent.
func (e *Expression) CoefOf(r Ref) float64 {
	if t, ok := e.terms[r.Name()]; ok {
		return t.coef
	}
	return 0
}

// Copy returns a permanent deep copy of the expression's coefficient map.
func (e *Expression) Copy() *Expression {
	r := NewExpression()
	r.name = e.name
	r.constant = e.constant
	r.abstract = e.abstract
	r.reduceOp = e.reduceOp
	r.reduceIters = append([]*SetIterator(nil), e.reduceIters...)
	for _, k := range e.order {
		r.terms[k] = e.terms[k].clone()
		r.order = append(r.order, k)
	}
	return r
}

// target returns the expression that an arithmetic operation should write
// into: the receiver itself when temporary, a copy when permanent.
func (e *Expression) target() *Expression {
	if e.temp {
		return e
	}
	c := e.Copy()
	c.name = ""
	return c
}

// setTerm inserts or replaces a term, keeping insertion order.
func (e *Expression) setTerm(t *Term) {
	if _, ok := e.terms[t.key]; !ok {
		e.order = append(e.order, t.key)
	}
	e.terms[t.key] = t
}

// addTerm merges a monomial into the map, accumulating the coefficient when
// the monomial already exists.
func (e *Expression) addTerm(factors []Factor, coef float64) {
	key := termKey(factors)
	if t, ok := e.terms[key]; ok {
		t.coef += coef
		return
	}
	fs := make([]Factor, len(factors))
	copy(fs, factors)
	e.setTerm(&Term{key: key, coef: coef, factors: fs})
}

// wrapped returns the expression as a single opaque factor, used when a
// reduction-wrapped expression (such as a sum over a set) participates in
// further arithmetic.
func (e *Expression) wrapped() *Expression {
	if e.reduceOp == "" {
		return e
	}
	inner := e.Copy()
	r := NewExpression()
	r.abstract = e.abstract
	ref := &opTerm{op: inner.reduceOp, iters: inner.reduceIters, args: []*Expression{inner.unwrapped()}}
	r.addTerm([]Factor{{Ref: ref, Exp: 1}}, 1)
	return r
}

// unwrapped strips the reduction wrapper, leaving the body.
func (e *Expression) unwrapped() *Expression {
	c := e.Copy()
	c.reduceOp = ""
	c.reduceIters = nil
	return c
}

// Add returns the sum of the two expressions. The receiver is mutated in
// place when temporary; otherwise both operands are left unchanged.
func (e *Expression) Add(other *Expression) *Expression {
	return e.AddScaled(other, 1)
}

// Sub returns the difference of the two expressions.
func (e *Expression) Sub(other *Expression) *Expression {
	return e.AddScaled(other, -1)
}

// AddScaled merges sign*other into the expression: each of other's
// monomials adds sign*coefficient into the matching accumulated entry
// (creating it when absent), and sign*other's constant adds into the
// constant term.
func (e *Expression) AddScaled(other *Expression, sign float64) *Expression {
	if e.reduceOp != "" {
		return e.wrapped().AddScaled(other, sign)
	}
	other = other.wrapped()
	r := e.target()
	r.abstract = r.abstract || other.abstract
	for _, k := range other.order {
		t := other.terms[k]
		if existing, ok := r.terms[k]; ok {
			existing.coef += sign * t.coef
		} else {
			c := t.clone()
			c.coef *= sign
			r.setTerm(c)
		}
	}
	r.constant += sign * other.constant
	return r
}

// AddConst returns the expression with v added to the constant term. A
// reduction-wrapped expression is wrapped first so the constant lands
// outside the sum body.
func (e *Expression) AddConst(v float64) *Expression {
	if e.reduceOp != "" {
		return e.wrapped().AddConst(v)
	}
	r := e.target()
	r.constant += v
	return r
}

// SubConst returns the expression with v subtracted from the constant term.
func (e *Expression) SubConst(v float64) *Expression {
	return e.AddConst(-v)
}

// Scale multiplies every coefficient and the constant by k. Scaling by zero
// yields the zero expression.
func (e *Expression) Scale(k float64) *Expression {
	if k == 0 {
		z := NewExpression()
		z.temp = e.temp
		return z
	}
	r := e.target()
	for _, t := range r.terms {
		t.coef *= k
	}
	r.constant *= k
	return r
}

// Neg returns the expression negated.
func (e *Expression) Neg() *Expression {
	return e.Scale(-1)
}

// Mul distributes the product of two expressions monomial by monomial,
// adding exponents of shared factors and producing every cross term. Both
// operands are left unchanged.
func (e *Expression) Mul(other *Expression) (*Expression, error) {
	left := e.wrapped()
	right := other.wrapped()
	r := NewExpression()
	r.abstract = left.abstract || right.abstract

	// constant * constant
	r.constant = left.constant * right.constant

	// constant * right terms
	if left.constant != 0 {
		for _, k := range right.order {
			t := right.terms[k]
			if left.constant*t.coef != 0 {
				r.addTerm(t.factors, left.constant*t.coef)
			}
		}
	}
	// left terms * constant
	if right.constant != 0 {
		for _, k := range left.order {
			t := left.terms[k]
			if right.constant*t.coef != 0 {
				r.addTerm(t.factors, right.constant*t.coef)
			}
		}
	}
	// cross terms
	for _, lk := range left.order {
		lt := left.terms[lk]
		for _, rk := range right.order {
			rt := right.terms[rk]
			coef := lt.coef * rt.coef
			if coef == 0 {
				continue
			}
			r.addTerm(mergeFactors(lt.factors, rt.factors), coef)
		}
	}
	return r, nil
}

// MulScalar is shorthand for Scale on a permanent result.
func (e *Expression) MulScalar(k float64) *Expression {
	return e.Scale(k)
}

// Pow raises the expression to a numeric exponent. A single-monomial
// expression with no constant and a non-negative integer exponent folds
// algebraically by multiplying factor exponents; every other combination is
// preserved as an opaque nonlinear term rather than expanded.
func (e *Expression) Pow(p float64) (*Expression, error) {
	if math.IsNaN(p) {
		return nil, modelingErrorf("exponent is not a number")
	}
	if p == 0 {
		return Number(1), nil
	}
	if p == 1 {
		return e.Copy(), nil
	}
	base := e.wrapped()
	if len(base.order) == 1 && base.constant == 0 && p > 0 && p == math.Trunc(p) {
		t := base.terms[base.order[0]]
		factors := make([]Factor, len(t.factors))
		copy(factors, t.factors)
		for i := range factors {
			factors[i].Exp *= p
		}
		r := NewExpression()
		r.abstract = base.abstract
		r.addTerm(factors, math.Pow(t.coef, p))
		return r, nil
	}
	return opaqueBinary("^", base, Number(p)), nil
}

// PowExpr raises the expression to a symbolic exponent, preserved as an
// opaque nonlinear term.
func (e *Expression) PowExpr(p *Expression) (*Expression, error) {
	return opaqueBinary("^", e.wrapped(), p.wrapped()), nil
}

// Div divides the expression by a scalar. Division by zero fails at build
// time.
func (e *Expression) Div(k float64) (*Expression, error) {
	if k == 0 {
		return nil, modelingErrorf("expression divided by zero")
	}
	return e.Copy().Scale(1 / k), nil
}

// DivExpr divides by another expression. A constant divisor folds into a
// scale; a divisor containing variables is preserved as an opaque nonlinear
// term.
func (e *Expression) DivExpr(other *Expression) (*Expression, error) {
	o := other.wrapped()
	if len(o.order) == 0 && o.reduceOp == "" {
		return e.Div(o.constant)
	}
	return opaqueBinary("/", e.wrapped(), o), nil
}

// opaqueBinary builds an expression holding a single opaque two-operand
// term, such as (x - 1) ^ (2).
func opaqueBinary(op string, a, b *Expression) *Expression {
	r := NewExpression()
	r.abstract = a.abstract || b.abstract
	ref := &opTerm{op: op, args: []*Expression{a, b}}
	r.addTerm([]Factor{{Ref: ref, Exp: 1}}, 1)
	return r
}

// IsLinear reports whether every monomial is a single variable or parameter
// to the first power.
func (e *Expression) IsLinear() bool {
	if e.reduceOp != "" {
		return false
	}
	for _, k := range e.order {
		t := e.terms[k]
		if t.coef == 0 {
			continue
		}
		if len(t.factors) != 1 || t.factors[0].Exp != 1 {
			return false
		}
		if _, ok := t.factors[0].Ref.(*opTerm); ok {
			return false
		}
	}
	return true
}

// IsZero reports whether the expression has no monomials and a zero
// constant.
func (e *Expression) IsZero() bool {
	for _, t := range e.terms {
		if t.coef != 0 {
			return false
		}
	}
	return e.constant == 0
}

// Prune removes entries whose accumulated coefficient is exactly zero.
// Near-zero coefficients are never removed automatically; dropping a tiny
// coefficient changes the model, so cleanup only happens on this explicit
// call.
func (e *Expression) Prune() {
	kept := e.order[:0]
	for _, k := range e.order {
		if e.terms[k].coef == 0 {
			delete(e.terms, k)
			continue
		}
		kept = append(kept, k)
	}
	e.order = kept
}

// Value evaluates the expression with the current variable values. Abstract
// expressions cannot be evaluated on the client and fail with a
// ModelingError.
func (e *Expression) Value() (float64, error) {
	if e.abstract || e.reduceOp != "" {
		return 0, modelingErrorf("cannot evaluate an abstract expression on the client")
	}
	v := e.constant
	for _, k := range e.order {
		t := e.terms[k]
		tv := t.coef
		for _, f := range t.factors {
			fv, err := f.Ref.RefValue()
			if err != nil {
				return 0, err
			}
			tv *= math.Pow(fv, f.Exp)
		}
		v += tv
	}
	return v, nil
}

// SetSolutionValue records the value resolved for the expression by a
// solve. The expression is frozen afterwards.
func (e *Expression) SetSolutionValue(v float64) {
	e.value = v
	e.hasValue = true
	e.temp = false
}

// SolutionValue returns the value recorded by the last solve.
func (e *Expression) SolutionValue() (float64, bool) {
	return e.value, e.hasValue
}

// SetDual records the dual value resolved for the expression by a solve.
func (e *Expression) SetDual(v float64) {
	e.dual = v
	e.hasDual = true
}

// Dual returns the dual value recorded by the last solve.
func (e *Expression) Dual() (float64, bool) {
	return e.dual, e.hasDual
}

// Le builds the constraint e <= other. Neither operand is mutated.
func (e *Expression) Le(other *Expression) *Constraint {
	return newRelational(e, DirLE, other)
}

// Ge builds the constraint e >= other.
func (e *Expression) Ge(other *Expression) *Constraint {
	return newRelational(e, DirGE, other)
}

// Eq builds the constraint e = other.
func (e *Expression) Eq(other *Expression) *Constraint {
	return newRelational(e, DirEQ, other)
}

// LeNum builds the constraint e <= v.
func (e *Expression) LeNum(v float64) *Constraint { return e.Le(Number(v)) }

// GeNum builds the constraint e >= v.
func (e *Expression) GeNum(v float64) *Constraint { return e.Ge(Number(v)) }

// EqNum builds the constraint e = v.
func (e *Expression) EqNum(v float64) *Constraint { return e.Eq(Number(v)) }

// EqRange builds the range constraint lo <= e <= hi on the original,
// unsubtracted expression.
func (e *Expression) EqRange(lo, hi float64) *Constraint {
	return newRangeConstraint(e, lo, hi)
}

// String renders the expression in its generated-code form.
func (e *Expression) String() string {
	return e.Expr()
}
