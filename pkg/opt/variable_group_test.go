package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableGroupEnumeration(t *testing.T) {
	g, err := NewVariableGroup(GroupSpec{Name: "x"}, 2, []string{"a", "b"})
	require.NoError(t, err)

	require.Equal(t, 4, g.Len())
	names := make([]string, 0, 4)
	for _, m := range g.Members() {
		names = append(names, m.Expr())
	}
	assert.Equal(t, []string{"x[0,'a']", "x[0,'b']", "x[1,'a']", "x[1,'b']"}, names)

	t.Run("lookup by tuple", func(t *testing.T) {
		m, err := g.At(1, "b")
		require.NoError(t, err)
		assert.Equal(t, "x[1,'b']", m.Expr())
	})

	t.Run("missing tuple fails", func(t *testing.T) {
		_, err := g.At(5, "a")
		var merr *ModelingError
		require.ErrorAs(t, err, &merr)
	})
}

func TestVariableGroupSum(t *testing.T) {
	g, err := NewVariableGroup(GroupSpec{Name: "x"}, 2, []string{"a", "b"})
	require.NoError(t, err)

	t.Run("wildcard keeps a dimension open", func(t *testing.T) {
		e, err := g.Sum(Star, "a")
		require.NoError(t, err)
		assert.Equal(t, 2, e.TermCount())
		assert.Equal(t, "x[0,'a'] + x[1,'a']", e.Expr())
	})

	t.Run("full wildcard covers everything", func(t *testing.T) {
		e, err := g.SumAll()
		require.NoError(t, err)
		assert.Equal(t, 4, e.TermCount())
	})

	t.Run("sum shape matches filter", func(t *testing.T) {
		e, err := g.Sum(1, Star)
		require.NoError(t, err)
		assert.Equal(t, "x[1,'a'] + x[1,'b']", e.Expr())
	})
}

func TestVariableGroupMult(t *testing.T) {
	g, err := NewVariableGroup(GroupSpec{Name: "x"}, 3)
	require.NoError(t, err)

	t.Run("inner product in creation order", func(t *testing.T) {
		e, err := g.Mult([]float64{1, 0, 3})
		require.NoError(t, err)
		assert.Equal(t, "x[0] + 3 * x[2]", e.Expr())
	})

	t.Run("length mismatch fails", func(t *testing.T) {
		_, err := g.Mult([]float64{1, 2})
		var serr *ShapeMismatchError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 3, serr.Want)
		assert.Equal(t, 2, serr.Got)
	})
}

func TestVariableGroupDefn(t *testing.T) {
	lb := 0.0
	g, err := NewVariableGroup(GroupSpec{Name: "x", Type: Integer, LB: &lb}, 3)
	require.NoError(t, err)
	require.NoError(t, g.SetMemberBounds(1, 5, 2))

	defn := g.Defn()
	assert.Contains(t, defn, "var x {0..2} integer >= 0;")
	assert.Contains(t, defn, "x[2].lb = 1;")
	assert.Contains(t, defn, "x[2].ub = 5;")
}

func TestAbstractVariableGroup(t *testing.T) {
	s := NewSet("NODES", StrSet)
	g, err := NewVariableGroup(GroupSpec{Name: "flow"}, s)
	require.NoError(t, err)

	assert.True(t, g.IsAbstract())
	assert.Equal(t, "var flow {NODES};", g.Defn())

	i := s.Iter("i")
	m, err := g.At(i)
	require.NoError(t, err)
	assert.True(t, m.Abstract())
	assert.Equal(t, "flow[i]", m.Expr())

	t.Run("client evaluation refuses", func(t *testing.T) {
		_, err := m.E().Value()
		var merr *ModelingError
		require.ErrorAs(t, err, &merr)
	})

	t.Run("concrete sum refuses", func(t *testing.T) {
		_, err := g.Sum(Star)
		var merr *ModelingError
		require.ErrorAs(t, err, &merr)
	})
}

func TestBinaryVariableClamping(t *testing.T) {
	lb := -3.0
	ub := 9.0
	v := NewVariable(VarSpec{Name: "b", Type: Binary, LB: &lb, UB: &ub})
	gotLB, gotUB := v.Bounds()
	assert.Equal(t, 0.0, gotLB)
	assert.Equal(t, 1.0, gotUB)
	assert.Equal(t, "var b binary;", v.Defn())
}

func TestVariableDefn(t *testing.T) {
	v := NewVariable(VarSpec{Name: "x", Type: Integer, LB: F(0), UB: F(5), Init: F(2)})
	assert.Equal(t, "var x integer >= 0 <= 5 init 2;", v.Defn())

	t.Run("free continuous has no bound clauses", func(t *testing.T) {
		assert.Equal(t, "var y;", NewVariable(VarSpec{Name: "y"}).Defn())
	})
}
