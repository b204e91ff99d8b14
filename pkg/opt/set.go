package opt

import (
	"strings"
)

// SetKind is the element type of an abstract set dimension.
type SetKind int

const (
	// NumSet holds numeric elements.
	NumSet SetKind = iota
	// StrSet holds string elements.
	StrSet
)

func (k SetKind) String() string {
	if k == StrSet {
		return "str"
	}
	return "num"
}

// Set is an abstract index set living on the engine. The client knows its
// name and element kinds but usually not its members; expressions over a
// set can only be serialized, never evaluated locally.
type Set struct {
	name  string
	kinds []SetKind
	init  string
}

// NewSet declares an abstract set. With no kinds the set defaults to a
// single numeric dimension; multiple kinds declare a tuple set.
func NewSet(name string, kinds ...SetKind) *Set {
	if len(kinds) == 0 {
		kinds = []SetKind{NumSet}
	}
	return &Set{name: name, kinds: kinds}
}

// Name returns the set's engine-side identity.
func (s *Set) Name() string { return s.name }

// Expr renders the set reference.
func (s *Set) Expr() string { return s.name }

// Abstract always reports true; sets are never client-resolvable.
func (s *Set) Abstract() bool { return true }

// RefValue fails; sets have no numeric value.
func (s *Set) RefValue() (float64, error) {
	return 0, modelingErrorf("set %s has no client-side value", s.name)
}

// Dims returns the number of tuple dimensions.
func (s *Set) Dims() int { return len(s.kinds) }

// Kinds returns the element kind of each dimension.
func (s *Set) Kinds() []SetKind { return s.kinds }

// SetInit assigns the literal initialization rendered after init, such as
// "1..10" or "{'a','b'}".
func (s *Set) SetInit(literal string) { s.init = literal }

// Iter binds a fresh iterator over the set, as in `i in S`.
func (s *Set) Iter(name string) *SetIterator {
	return &SetIterator{name: name, over: s}
}

// Defn renders the set declaration statement.
func (s *Set) Defn() string {
	var b strings.Builder
	b.WriteString("set ")
	if len(s.kinds) != 1 || s.kinds[0] != NumSet {
		parts := make([]string, len(s.kinds))
		for i, k := range s.kinds {
			parts[i] = k.String()
		}
		b.WriteString("<" + strings.Join(parts, ", ") + "> ")
	}
	b.WriteString(s.name)
	if s.init != "" {
		b.WriteString(" init " + s.init)
	}
	b.WriteString(";")
	return b.String()
}

func (s *Set) String() string { return s.Expr() }

// SetIterator is a binder standing for one unresolved element of a set, as
// in `{i in DAYS}`. It is a valid expression factor, so iterator-dependent
// coefficients like `i * x[i]` render naturally. Conditions attach `:`
// filters to the loop.
type SetIterator struct {
	name       string
	over       *Set
	group      *SetIteratorGroup
	conditions []string
}

// NewSetIterator binds a named iterator over a set.
func NewSetIterator(name string, over *Set) *SetIterator {
	return &SetIterator{name: name, over: over}
}

// Name returns the binder name.
func (it *SetIterator) Name() string { return it.name }

// Expr renders the iterator as a bare binder reference.
func (it *SetIterator) Expr() string { return it.name }

// Abstract always reports true.
func (it *SetIterator) Abstract() bool { return true }

// RefValue fails; iterators resolve only on the engine.
func (it *SetIterator) RefValue() (float64, error) {
	return 0, modelingErrorf("cannot evaluate iterator %s on the client", it.name)
}

// Over returns the set the iterator ranges over.
func (it *SetIterator) Over() *Set { return it.over }

// Where attaches a filter condition rendered after `:` in the loop
// definition. Multiple conditions join with "and".
func (it *SetIterator) Where(cond string) *SetIterator {
	it.conditions = append(it.conditions, cond)
	return it
}

// WhereExpr attaches a rendered expression comparison as a filter.
func (it *SetIterator) WhereExpr(left *Expression, op string, right *Expression) *SetIterator {
	return it.Where(left.Expr() + " " + op + " " + right.Expr())
}

// LoopDefn renders the `i in S` (or `<i, j> in S`, with conditions after
// `:`) fragment used inside loop braces.
func (it *SetIterator) LoopDefn() string {
	binder := it.name
	if it.group != nil {
		binder = it.group.binder()
	}
	s := binder + " in " + it.over.name
	if len(it.conditions) > 0 {
		s += ": " + strings.Join(it.conditions, " and ")
	}
	return s
}

// E returns the iterator as a single-factor expression, usable as a
// coefficient inside abstract sums.
func (it *SetIterator) E() *Expression {
	e := NewExpression()
	e.abstract = true
	e.addTerm([]Factor{{Ref: it, Exp: 1}}, 1)
	return e
}

func (it *SetIterator) String() string { return it.Expr() }

// SetIteratorGroup destructures a tuple set into named binders, as in
// `<i, j> in ARCS`. Each member iterator renders by its own name while the
// loop definition renders the angle-bracket tuple once.
type SetIteratorGroup struct {
	over  *Set
	iters []*SetIterator
}

// NewSetIteratorGroup binds one iterator per dimension of a tuple set.
// The number of names must match the set's dimensions.
func NewSetIteratorGroup(over *Set, names ...string) (*SetIteratorGroup, error) {
	if len(names) != over.Dims() {
		return nil, &ShapeMismatchError{What: "iterator group over " + over.name, Want: over.Dims(), Got: len(names)}
	}
	g := &SetIteratorGroup{over: over}
	for _, n := range names {
		g.iters = append(g.iters, &SetIterator{name: n, over: over, group: g})
	}
	return g, nil
}

// Iters returns the member iterators in dimension order.
func (g *SetIteratorGroup) Iters() []*SetIterator { return g.iters }

// At returns the iterator for dimension i.
func (g *SetIteratorGroup) At(i int) *SetIterator { return g.iters[i] }

func (g *SetIteratorGroup) binder() string {
	names := make([]string, len(g.iters))
	for i, it := range g.iters {
		names[i] = it.name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// LoopDefn renders `<i, j> in S` once for the whole tuple.
func (g *SetIteratorGroup) LoopDefn() string {
	return g.iters[0].LoopDefn()
}
