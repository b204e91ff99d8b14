package mps

import (
	"math"

	"github.com/vk/optmodeler/pkg/opt"
)

// tableDigits caps significant digits in table cells.
const tableDigits = 12

// Row is one six-field record of the interchange table.
type Row [6]string

// Table is the MPS-style interchange form: NAME, ROWS, COLUMNS with
// integer markers, RHS, RANGES, BOUNDS, ENDATA.
type Table struct {
	Rows []Row
}

// ToTable renders a model as an interchange table. The model is flattened
// first, so the same restrictions as ToTriples apply.
func ToTable(m *opt.Model, opts Options) (*Table, error) {
	mat, err := ToTriples(m, opts)
	if err != nil {
		return nil, err
	}
	return tableFromMatrix(mat), nil
}

func tableFromMatrix(mat *Matrix) *Table {
	t := &Table{}
	add := func(f1, f2, f3, f4, f5, f6 string) {
		t.Rows = append(t.Rows, Row{f1, f2, f3, f4, f5, f6})
	}
	num := func(v float64) string { return opt.FormatNumber(v, tableDigits) }

	add("NAME", "", mat.Name, "", "", "")

	add("ROWS", "", "", "", "", "")
	sense := "MIN"
	if mat.ObjSense == opt.Maximize {
		sense = "MAX"
	}
	add(sense, mat.ObjName, "", "", "", "")
	for i, name := range mat.RowNames {
		code := mat.RowTypes[i]
		if code == "R" {
			// Range rows enter as E with RHS at the low bound; a positive
			// RANGES width then spans [rhs, rhs+width].
			code = "E"
		}
		add(code, name, "", "", "", "")
	}

	// Per-column entry lists, in row order, built from the row-major
	// triples.
	colEntries := make([][]Nonzero, len(mat.ColNames))
	for _, e := range mat.Entries {
		colEntries[e.Col] = append(colEntries[e.Col], e)
	}

	add("COLUMNS", "", "", "", "", "")
	inInt := false
	for j, name := range mat.ColNames {
		isInt := mat.ColTypes[j] != opt.Continuous
		if isInt && !inInt {
			add("", "MARKER", "", "'MARKER'", "", "'INTORG'")
			inInt = true
		}
		if !isInt && inInt {
			add("", "MARKER", "", "'MARKER'", "", "'INTEND'")
			inInt = false
		}
		if mat.ObjCoefs[j] != 0 {
			add("", name, mat.ObjName, num(mat.ObjCoefs[j]), "", "")
		}
		for _, e := range colEntries[j] {
			add("", name, mat.RowNames[e.Row], num(e.Val), "", "")
		}
	}
	if inInt {
		add("", "MARKER", "", "'MARKER'", "", "'INTEND'")
	}

	add("RHS", "", "", "", "", "")
	for i, name := range mat.RowNames {
		if mat.RHS[i] != 0 {
			add("", "RHS", name, num(mat.RHS[i]), "", "")
		}
	}

	hasRanges := false
	for i := range mat.RowNames {
		if mat.RowTypes[i] == "R" {
			if !hasRanges {
				add("RANGES", "", "", "", "", "")
				hasRanges = true
			}
			add("", "RNG", mat.RowNames[i], num(mat.Ranges[i]), "", "")
		}
	}

	add("BOUNDS", "", "", "", "", "")
	for j, name := range mat.ColNames {
		lb, ub := mat.LB[j], mat.UB[j]
		switch {
		case lb == ub:
			add("FX", "BND", name, num(lb), "", "")
		case mat.ColTypes[j] == opt.Binary:
			// The type column is not part of the table, so binariness
			// must survive as an explicit BV record.
			add("BV", "BND", name, "", "", "")
		case mat.FreeColumn(j):
			add("FR", "BND", name, "", "", "")
		default:
			// Readers assume a zero lower bound when none is given.
			if lb != 0 {
				if math.IsInf(lb, -1) {
					add("MI", "BND", name, "", "", "")
				} else {
					add("LO", "BND", name, num(lb), "", "")
				}
			}
			if !math.IsInf(ub, 1) {
				add("UP", "BND", name, num(ub), "", "")
			}
		}
	}

	add("ENDATA", "", "", "", "", "")
	return t
}
