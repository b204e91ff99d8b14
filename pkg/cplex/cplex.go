// Package cplex translates the flattened matrix form into the gpx input
// structures consumed by the CPLEX callable-library bindings, and maps gpx
// solutions back into session response tables. Every gpx reference lives in
// this package, so builds without CPLEX can exclude it wholesale.
package cplex

import (
	"math"

	"github.com/go-opt/gpx"
	"github.com/pkg/errors"

	"github.com/vk/optmodeler/pkg/mps"
	"github.com/vk/optmodeler/pkg/opt"
	"github.com/vk/optmodeler/pkg/session"
)

// Input is the full gpx-side rendering of one problem.
type Input struct {
	Name string
	Rows []gpx.InputRow
	Cols []gpx.InputCol
	Elem []gpx.InputElem
	Obj  []gpx.InputObjCoef
	// Maximize records the objective sense, which gpx sets on the problem
	// object rather than in the row list.
	Maximize bool
	// ObjConstant is the constant offset the caller must add back to the
	// reported objective value.
	ObjConstant float64
}

// Translate converts a matrix into gpx input structures.
func Translate(mat *mps.Matrix) (*Input, error) {
	if len(mat.ColNames) == 0 {
		return nil, errors.Errorf("problem %s has no columns", mat.Name)
	}
	if len(mat.RowNames) == 0 {
		return nil, errors.Errorf("problem %s has no rows", mat.Name)
	}

	in := &Input{
		Name:        mat.Name,
		Maximize:    mat.ObjSense == opt.Maximize,
		ObjConstant: mat.ObjConstant,
	}

	for j, name := range mat.ColNames {
		colItem := gpx.InputCol{
			Name:  name,
			BndLo: mat.LB[j],
			BndUp: mat.UB[j],
		}
		switch mat.ColTypes[j] {
		case opt.Continuous:
			colItem.Type = "C"
		case opt.Integer:
			colItem.Type = "I"
		case opt.Binary:
			colItem.Type = "B"
		default:
			return nil, errors.Errorf("unexpected type %v in col %s", mat.ColTypes[j], name)
		}
		in.Cols = append(in.Cols, colItem)
	}

	for j, coef := range mat.ObjCoefs {
		if coef == 0 {
			continue
		}
		in.Obj = append(in.Obj, gpx.InputObjCoef{ColIndex: j, Value: coef})
	}

	for i, name := range mat.RowNames {
		rowItem := gpx.InputRow{Name: name, Sense: mat.RowTypes[i], Rhs: mat.RHS[i]}
		if mat.RowTypes[i] == "R" {
			rowItem.RngVal = mat.Ranges[i]
		}
		in.Rows = append(in.Rows, rowItem)
	}

	for _, e := range mat.Entries {
		if e.Val == 0 || math.IsNaN(e.Val) {
			return nil, errors.Errorf("invalid coefficient %v at row %d col %d", e.Val, e.Row, e.Col)
		}
		in.Elem = append(in.Elem, gpx.InputElem{RowIndex: e.Row, ColIndex: e.Col, Value: e.Val})
	}

	return in, nil
}

// ToResponse maps a gpx solution into the session response tables, so
// results from a local CPLEX run flow through the same write-back path as
// remote engine results.
func ToResponse(in *Input, objVal float64, solnStatus string, sCols []gpx.SolnCol, sRows []gpx.SolnRow) *session.Response {
	bounds := make(map[string][2]float64, len(in.Cols))
	for _, c := range in.Cols {
		bounds[c.Name] = [2]float64{c.BndLo, c.BndUp}
	}

	result := session.SolveResult{
		Status:         "OK",
		SolutionStatus: solnStatus,
		Objective:      objVal + in.ObjConstant,
	}
	for _, c := range sCols {
		b := bounds[c.Name]
		result.Primal = append(result.Primal, session.PrimalRow{
			Name:        c.Name,
			Value:       c.Value,
			LB:          b[0],
			UB:          b[1],
			ReducedCost: c.RedCost,
		})
	}
	for i, r := range sRows {
		activity := -r.Slack
		if i < len(in.Rows) && in.Rows[i].Name == r.Name {
			activity = in.Rows[i].Rhs - r.Slack
		}
		result.Dual = append(result.Dual, session.DualRow{
			Name:     r.Name,
			Activity: activity,
			Dual:     r.Pi,
		})
	}
	return &session.Response{Results: []session.SolveResult{result}}
}
