package opt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelNameCollisions(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicates get deterministic suffixes", func(t *testing.T) {
		m := NewModel(ctx, "test")
		a := m.NewVar(VarSpec{Name: "x"})
		b := m.NewVar(VarSpec{Name: "x"})
		c := m.NewVar(VarSpec{Name: "x"})
		assert.Equal(t, "x", a.Name())
		assert.Equal(t, "x_2", b.Name())
		assert.Equal(t, "x_3", c.Name())
	})

	t.Run("same construction sequence resolves the same way", func(t *testing.T) {
		build := func() []string {
			m := NewModel(ctx, "test")
			names := make([]string, 0, 3)
			for i := 0; i < 3; i++ {
				names = append(names, m.NewVar(VarSpec{Name: "x"}).Name())
			}
			return names
		}
		assert.Equal(t, build(), build())
	})

	t.Run("unnamed components get generated names", func(t *testing.T) {
		m := NewModel(ctx, "test")
		c := m.AddConstraint("", testVar("x").Le(1))
		assert.Equal(t, "con_1", c.Name())
	})
}

func TestModelComponentOrder(t *testing.T) {
	ctx := context.Background()
	m := NewModel(ctx, "test")

	x := m.NewVar(VarSpec{Name: "x"})
	g, err := m.NewVarGroup(GroupSpec{Name: "y"}, 2)
	require.NoError(t, err)
	m.AddConstraint("c1", x.Le(5))
	m.SetObjective("obj", Minimize, x.E())

	cols := m.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "x", cols[0].Expr())
	assert.Equal(t, "y[0]", cols[1].Expr())
	assert.Equal(t, "y[1]", cols[2].Expr())
	_ = g

	rows := m.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "c1", rows[0].Name())
}

func TestModelObjectives(t *testing.T) {
	ctx := context.Background()
	m := NewModel(ctx, "test")
	x := m.NewVar(VarSpec{Name: "x"})

	first := m.SetObjective("f1", Minimize, x.E())
	second := m.AppendObjective("f2", Maximize, x.Times(2))
	third := m.AppendObjective("f3", Minimize, x.Times(3))

	assert.Same(t, first, m.Objective())
	objs := m.Objectives()
	require.Len(t, objs, 3)
	assert.Equal(t, []string{"f1", "f2", "f3"}, []string{objs[0].Name(), objs[1].Name(), objs[2].Name()})
	_ = second
	_ = third

	t.Run("later SetObjective replaces the active one", func(t *testing.T) {
		replacement := m.SetObjective("f4", Maximize, x.E())
		assert.Same(t, replacement, m.Objective())
		assert.Len(t, m.Objectives(), 4)
	})
}

func TestModelSharingByReference(t *testing.T) {
	ctx := context.Background()
	x := testVar("x")

	m1 := NewModel(ctx, "m1")
	m2 := NewModel(ctx, "m2")
	_, err := m1.AddVariable(x)
	require.NoError(t, err)
	_, err = m2.AddVariable(x)
	require.NoError(t, err)

	x.SetBounds(0, 7)
	_, ub1 := m1.Columns()[0].Bounds()
	_, ub2 := m2.Columns()[0].Bounds()
	assert.Equal(t, 7.0, ub1)
	assert.Equal(t, 7.0, ub2)
	assert.Same(t, m1.Columns()[0], m2.Columns()[0])

	t.Run("collision refuses instead of renaming", func(t *testing.T) {
		m1 := NewModel(ctx, "m1")
		m2 := NewModel(ctx, "m2")
		x := testVar("x")
		_, err := m1.AddVariable(x)
		require.NoError(t, err)
		m2.NewVar(VarSpec{Name: "x"})

		_, err = m2.AddVariable(x)
		var merr *ModelingError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "x", x.Name())
		assert.Equal(t, "x", m1.Columns()[0].Name())
	})

	t.Run("group collision refuses instead of renaming", func(t *testing.T) {
		m1 := NewModel(ctx, "m1")
		m2 := NewModel(ctx, "m2")
		g, err := NewVariableGroup(GroupSpec{Name: "y"}, 2)
		require.NoError(t, err)
		_, err = m1.AddVariableGroup(g)
		require.NoError(t, err)
		_, err = m2.NewVarGroup(GroupSpec{Name: "y"}, 2)
		require.NoError(t, err)

		_, err = m2.AddVariableGroup(g)
		var merr *ModelingError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "y[0]", m1.Columns()[0].Expr())
	})
}

func TestModelClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("concrete linear model", func(t *testing.T) {
		m := NewModel(ctx, "lp")
		x := m.NewVar(VarSpec{Name: "x"})
		m.AddConstraint("c", x.Times(2).LeNum(4))
		m.SetObjective("obj", Minimize, x.E())
		assert.False(t, m.IsAbstract())
		assert.True(t, m.IsLinear())
	})

	t.Run("nonlinear objective detected", func(t *testing.T) {
		m := NewModel(ctx, "nlp")
		x := m.NewVar(VarSpec{Name: "x"})
		sq, err := x.E().AddConst(-1).Pow(2)
		require.NoError(t, err)
		m.SetObjective("obj", Minimize, sq)
		assert.False(t, m.IsLinear())
	})

	t.Run("abstract set detected", func(t *testing.T) {
		m := NewModel(ctx, "abs")
		m.AddSet(NewSet("DAYS"))
		assert.True(t, m.IsAbstract())
	})

	t.Run("abstract appended objective detected", func(t *testing.T) {
		m := NewModel(ctx, "multi")
		x := m.NewVar(VarSpec{Name: "x"})
		m.SetObjective("f1", Minimize, x.E())

		days := NewSet("DAYS")
		y, err := NewVariableGroup(GroupSpec{Name: "y"}, days)
		require.NoError(t, err)
		total, err := y.Sum(days.Iter("d"))
		require.NoError(t, err)
		m.AppendObjective("f2", Minimize, total)

		assert.True(t, m.IsAbstract())
	})
}
