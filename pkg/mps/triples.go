// Package mps flattens concrete linear models into sparse matrix form: an
// MPS-style six-field table for interchange and a triples form for direct
// handoff to solver front ends. Abstract or nonlinear models are rejected;
// those only exist as procedural text.
package mps

import (
	"math"

	"github.com/vk/optmodeler/pkg/opt"
)

// Nonzero is one coefficient entry of the constraint matrix.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// Matrix is the flattened sparse form of a model. Row and column order is
// the model's insertion order, so two renderings of an unmodified model
// are identical.
type Matrix struct {
	Name string

	ObjName     string
	ObjSense    opt.Sense
	ObjCoefs    []float64
	ObjConstant float64

	ColNames []string
	ColTypes []opt.VarType
	LB       []float64
	UB       []float64

	RowNames []string
	// RowTypes holds the MPS row code per constraint: L, G, E, or R for
	// range rows.
	RowTypes []string
	RHS      []float64
	// Ranges holds the range width for R rows, zero elsewhere.
	Ranges []float64

	Entries []Nonzero
}

// Options controls matrix generation.
type Options struct {
	// ObjConstantColumn adds an auxiliary fixed column carrying the
	// objective's constant term, for consumers that cannot represent a
	// constant offset.
	ObjConstantColumn bool
}

// ToTriples flattens a model into sparse matrix form.
func ToTriples(m *opt.Model, opts Options) (*Matrix, error) {
	if m.IsAbstract() {
		return nil, &opt.UnsupportedModelError{Reason: "abstract components cannot be flattened to a matrix"}
	}
	if !m.IsLinear() {
		return nil, &opt.UnsupportedModelError{Reason: "nonlinear expressions cannot be flattened to a matrix"}
	}

	out := &Matrix{Name: m.Name(), ObjName: "obj", ObjSense: opt.Minimize}

	cols := m.Columns()
	colIndex := make(map[string]int, len(cols))
	for i, v := range cols {
		lb, ub := v.Bounds()
		out.ColNames = append(out.ColNames, v.Expr())
		out.ColTypes = append(out.ColTypes, v.Type())
		out.LB = append(out.LB, lb)
		out.UB = append(out.UB, ub)
		colIndex[v.Name()] = i
	}
	out.ObjCoefs = make([]float64, len(cols))

	if o := m.Objective(); o != nil {
		out.ObjName = o.Name()
		out.ObjSense = o.Sense()
		out.ObjConstant = o.Expr().Constant()
		for _, t := range o.Expr().Terms() {
			if t.Coef() == 0 {
				continue
			}
			j, err := columnOf(t, colIndex)
			if err != nil {
				return nil, err
			}
			out.ObjCoefs[j] += t.Coef()
		}
	}

	if opts.ObjConstantColumn && out.ObjConstant != 0 {
		out.ColNames = append(out.ColNames, out.ObjName+"_constant")
		out.ColTypes = append(out.ColTypes, opt.Continuous)
		out.LB = append(out.LB, out.ObjConstant)
		out.UB = append(out.UB, out.ObjConstant)
		out.ObjCoefs = append(out.ObjCoefs, 1)
		out.ObjConstant = 0
	}

	for i, c := range m.Rows() {
		out.RowNames = append(out.RowNames, c.Name())
		code := c.Direction().MPSCode()
		rng := 0.0
		if c.Direction() == opt.DirRange {
			code = "R"
			rng = c.Range()
		}
		out.RowTypes = append(out.RowTypes, code)
		lo, _ := c.Bounds()
		if c.Direction() == opt.DirLE {
			_, hi := c.Bounds()
			out.RHS = append(out.RHS, hi)
		} else {
			out.RHS = append(out.RHS, lo)
		}
		out.Ranges = append(out.Ranges, rng)

		for _, t := range c.Body().Terms() {
			if t.Coef() == 0 {
				continue
			}
			j, err := columnOf(t, colIndex)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, Nonzero{Row: i, Col: j, Val: t.Coef()})
		}
	}
	return out, nil
}

// columnOf resolves a linear monomial to its column index.
func columnOf(t *opt.Term, colIndex map[string]int) (int, error) {
	factors := t.Factors()
	if len(factors) != 1 || factors[0].Exp != 1 {
		return 0, &opt.UnsupportedModelError{Reason: "nonlinear term " + t.Key() + " cannot be flattened to a matrix"}
	}
	j, ok := colIndex[factors[0].Ref.Name()]
	if !ok {
		return 0, &opt.UnsupportedModelError{Reason: "term references " + factors[0].Ref.Name() + ", which is not a model column"}
	}
	return j, nil
}

// FreeColumn reports whether a column is unbounded on both sides.
func (m *Matrix) FreeColumn(j int) bool {
	return math.IsInf(m.LB[j], -1) && math.IsInf(m.UB[j], 1)
}
