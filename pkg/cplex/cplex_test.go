package cplex

import (
	"math"
	"testing"

	"github.com/go-opt/gpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/optmodeler/pkg/mps"
	"github.com/vk/optmodeler/pkg/opt"
)

func sampleMatrix() *mps.Matrix {
	return &mps.Matrix{
		Name:     "prod",
		ObjName:  "profit",
		ObjSense: opt.Maximize,
		ObjCoefs: []float64{3, 0, 2},
		ColNames: []string{"x", "y", "z"},
		ColTypes: []opt.VarType{opt.Continuous, opt.Integer, opt.Binary},
		LB:       []float64{0, 0, 0},
		UB:       []float64{math.Inf(1), 10, 1},
		RowNames: []string{"cap", "floor", "band"},
		RowTypes: []string{"L", "G", "R"},
		RHS:      []float64{10, 2, 2},
		Ranges:   []float64{0, 0, 7},
		Entries: []mps.Nonzero{
			{Row: 0, Col: 0, Val: 1},
			{Row: 0, Col: 2, Val: 1},
			{Row: 1, Col: 1, Val: 1},
			{Row: 2, Col: 0, Val: 2},
		},
	}
}

func TestTranslate(t *testing.T) {
	in, err := Translate(sampleMatrix())
	require.NoError(t, err)

	t.Run("columns map types and bounds", func(t *testing.T) {
		require.Len(t, in.Cols, 3)
		assert.Equal(t, gpx.InputCol{Name: "x", Type: "C", BndLo: 0, BndUp: math.Inf(1)}, in.Cols[0])
		assert.Equal(t, "I", in.Cols[1].Type)
		assert.Equal(t, "B", in.Cols[2].Type)
	})

	t.Run("objective keeps only nonzeros", func(t *testing.T) {
		require.Len(t, in.Obj, 2)
		assert.Equal(t, gpx.InputObjCoef{ColIndex: 0, Value: 3}, in.Obj[0])
		assert.Equal(t, gpx.InputObjCoef{ColIndex: 2, Value: 2}, in.Obj[1])
		assert.True(t, in.Maximize)
	})

	t.Run("rows map senses and range widths", func(t *testing.T) {
		require.Len(t, in.Rows, 3)
		assert.Equal(t, gpx.InputRow{Name: "cap", Sense: "L", Rhs: 10}, in.Rows[0])
		assert.Equal(t, gpx.InputRow{Name: "floor", Sense: "G", Rhs: 2}, in.Rows[1])
		assert.Equal(t, gpx.InputRow{Name: "band", Sense: "R", Rhs: 2, RngVal: 7}, in.Rows[2])
	})

	t.Run("elements carry coordinates", func(t *testing.T) {
		require.Len(t, in.Elem, 4)
		assert.Equal(t, gpx.InputElem{RowIndex: 2, ColIndex: 0, Value: 2}, in.Elem[3])
	})
}

func TestTranslateRejections(t *testing.T) {
	t.Run("no columns", func(t *testing.T) {
		_, err := Translate(&mps.Matrix{Name: "empty", RowNames: []string{"r"}})
		require.Error(t, err)
	})

	t.Run("no rows", func(t *testing.T) {
		_, err := Translate(&mps.Matrix{Name: "empty", ColNames: []string{"x"}, ColTypes: []opt.VarType{opt.Continuous}, LB: []float64{0}, UB: []float64{1}, ObjCoefs: []float64{1}})
		require.Error(t, err)
	})

	t.Run("NaN coefficient", func(t *testing.T) {
		mat := sampleMatrix()
		mat.Entries[0].Val = math.NaN()
		_, err := Translate(mat)
		require.Error(t, err)
	})
}

func TestToResponse(t *testing.T) {
	in, err := Translate(sampleMatrix())
	require.NoError(t, err)
	in.ObjConstant = 5

	sCols := []gpx.SolnCol{
		{Name: "x", Value: 4, RedCost: 0},
		{Name: "y", Value: 2, RedCost: -1},
	}
	sRows := []gpx.SolnRow{
		{Name: "cap", Slack: 6, Pi: 3},
	}

	resp := ToResponse(in, 12, "OPTIMAL", sCols, sRows)
	require.Len(t, resp.Results, 1)
	result := resp.Results[0]

	assert.Equal(t, "OPTIMAL", result.SolutionStatus)
	assert.Equal(t, 17.0, result.Objective)

	require.Len(t, result.Primal, 2)
	assert.Equal(t, "x", result.Primal[0].Name)
	assert.Equal(t, 4.0, result.Primal[0].Value)
	assert.True(t, math.IsInf(result.Primal[0].UB, 1))
	assert.Equal(t, -1.0, result.Primal[1].ReducedCost)

	require.Len(t, result.Dual, 1)
	assert.Equal(t, "cap", result.Dual[0].Name)
	assert.Equal(t, 4.0, result.Dual[0].Activity)
	assert.Equal(t, 3.0, result.Dual[0].Dual)
}
