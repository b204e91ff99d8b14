package opt

// ImplicitVar is a named formula: an `impvar` the engine keeps in sync with
// its defining expression. An indexed family binds iterators, so one
// declaration covers the whole domain.
type ImplicitVar struct {
	name  string
	expr  *Expression
	iters []*SetIterator
}

// NewImplicitVar names a defining expression.
func NewImplicitVar(name string, expr *Expression) *ImplicitVar {
	return &ImplicitVar{name: name, expr: expr.wrapped().Copy()}
}

// NewImplicitVarFamily names an expression template over iterators,
// declared as `impvar name {i in S} = ...;`.
func NewImplicitVarFamily(name string, expr *Expression, iters ...*SetIterator) *ImplicitVar {
	return &ImplicitVar{name: name, expr: expr.wrapped().Copy(), iters: iters}
}

// Name returns the implicit variable's identity.
func (iv *ImplicitVar) Name() string { return iv.name }

// Expr renders the implicit variable reference. Families render by bare
// name; callers index with At.
func (iv *ImplicitVar) Expr() string { return iv.name }

// Abstract reports whether the defining expression is abstract.
func (iv *ImplicitVar) Abstract() bool {
	return len(iv.iters) > 0 || iv.expr.IsAbstract()
}

// RefValue evaluates the defining expression with current values.
func (iv *ImplicitVar) RefValue() (float64, error) {
	if iv.Abstract() {
		return 0, modelingErrorf("cannot evaluate implicit variable %s on the client", iv.name)
	}
	return iv.expr.Value()
}

// Defining returns the defining expression.
func (iv *ImplicitVar) Defining() *Expression { return iv.expr }

// E returns the implicit variable as a single-factor expression, so it can
// be referenced by name inside later expressions.
func (iv *ImplicitVar) E() *Expression {
	e := NewExpression()
	e.abstract = iv.Abstract()
	e.addTerm([]Factor{{Ref: iv, Exp: 1}}, 1)
	return e
}

// At returns the indexed reference name[k1,k2] of a family member as an
// expression factor.
func (iv *ImplicitVar) At(keys ...Key) *Expression {
	ref := &namedRef{name: memberName(iv.name, keys), abstract: true}
	e := NewExpression()
	e.abstract = true
	e.addTerm([]Factor{{Ref: ref, Exp: 1}}, 1)
	return e
}

// Defn renders the impvar declaration statement.
func (iv *ImplicitVar) Defn() string {
	s := "impvar " + iv.name
	if len(iv.iters) > 0 {
		s += " {" + loopList(iv.iters) + "}"
	}
	return s + " = " + iv.expr.Expr() + ";"
}

func (iv *ImplicitVar) String() string { return iv.Expr() }

// namedRef is a bare symbolic reference with no client-side value, used for
// engine-side names the client only knows textually.
type namedRef struct {
	name     string
	abstract bool
}

func (r *namedRef) Name() string   { return r.name }
func (r *namedRef) Expr() string   { return r.name }
func (r *namedRef) Abstract() bool { return r.abstract }
func (r *namedRef) RefValue() (float64, error) {
	return 0, modelingErrorf("%s has no client-side value", r.name)
}
