package optmodel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/optmodeler/pkg/opt"
)

func buildDietModel(t *testing.T) *opt.Model {
	t.Helper()
	ctx := context.Background()
	m := opt.NewModel(ctx, "diet")
	x := m.NewVar(opt.VarSpec{Name: "x", LB: opt.F(0)})
	y := m.NewVar(opt.VarSpec{Name: "y", Type: opt.Integer, LB: opt.F(0), UB: opt.F(10)})
	m.AddConstraint("protein", x.Times(2).Add(y.Times(3)).GeNum(12))
	m.AddConstraint("budget", x.E().Add(y.E()).LeNum(8))
	m.SetObjective("cost", opt.Minimize, x.Times(1.5).Add(y.Times(2)))
	m.SetSolveOptions(opt.SolveOptions{With: "milp"})
	return m
}

func TestWriteLayout(t *testing.T) {
	m := buildDietModel(t)
	text, err := Write(m, Options{SolutionTable: "solution"})
	require.NoError(t, err)

	want := strings.Join([]string{
		"proc optmodel;",
		"   var x >= 0;",
		"   var y integer >= 0 <= 10;",
		"   con protein : 2 * x + 3 * y >= 12;",
		"   con budget : x + y <= 8;",
		"   min cost = 1.5 * x + 2 * y;",
		"   solve with milp;",
		"   create data solution from [i] = {1.._NVAR_} name=_VAR_[i].name value=_VAR_[i] lb=_VAR_[i].lb ub=_VAR_[i].ub rc=_VAR_[i].rc;",
		"quit;",
	}, "\n")
	assert.Equal(t, want, text)
}

func TestWriteDeterminism(t *testing.T) {
	m := buildDietModel(t)
	first, err := Write(m, Options{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Write(m, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWriteSkipSolve(t *testing.T) {
	m := buildDietModel(t)
	text, err := Write(m, Options{SkipSolve: true})
	require.NoError(t, err)
	assert.NotContains(t, text, "solve")
}

func TestWriteWorkspace(t *testing.T) {
	ctx := context.Background()
	w := opt.NewWorkspace(ctx, "ws")

	x := opt.NewVariable(opt.VarSpec{Name: "x", LB: opt.F(0)})
	require.NoError(t, w.Append(x))
	require.NoError(t, w.Append(x.Le(5)))
	_, err := w.Solve(opt.SolveOptions{With: "lp"})
	require.NoError(t, err)
	require.NoError(t, w.Append(&opt.PrintStatement{Items: []string{"x"}}))

	text, err := WriteWorkspace(w, Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "proc optmodel;\n"))
	assert.True(t, strings.HasSuffix(text, "quit;"))
	assert.Contains(t, text, "   var x >= 0;")
	assert.Contains(t, text, "   solve with lp;")
	assert.Contains(t, text, "   print x;")

	t.Run("rendering freezes the workspace", func(t *testing.T) {
		assert.Equal(t, opt.Serialized, w.State())
		assert.Error(t, w.Append(&opt.PrintStatement{Items: []string{"y"}}))
	})

	t.Run("second render is identical", func(t *testing.T) {
		again, err := WriteWorkspace(w, Options{})
		require.NoError(t, err)
		assert.Equal(t, text, again)
	})
}

func TestWriteAbstractModel(t *testing.T) {
	ctx := context.Background()
	m := opt.NewModel(ctx, "abs")
	days := m.AddSet(opt.NewSet("DAYS"))
	g, err := m.NewVarGroup(opt.GroupSpec{Name: "x", LB: opt.F(0)}, days)
	require.NoError(t, err)

	i := days.Iter("i")
	xi, err := g.At(i)
	require.NoError(t, err)
	m.AddConstraint("cap", opt.SumOver(xi.E(), i).LeNum(100))
	m.SetObjective("total", opt.Maximize, opt.SumOver(xi.E(), i))

	text, err := Write(m, Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "   set DAYS;")
	assert.Contains(t, text, "   var x {DAYS} >= 0;")
	assert.Contains(t, text, "   con cap : sum {i in DAYS} (x[i]) <= 100;")
	assert.Contains(t, text, "   max total = sum {i in DAYS} (x[i]);")
}
