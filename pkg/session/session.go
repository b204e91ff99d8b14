// Package session carries rendered programs to a remote solving engine and
// returns its response tables. The package knows nothing about models; it
// moves text one way and tables the other.
package session

import (
	"context"
)

// Format identifies the rendering of a submitted program.
type Format string

const (
	// FormatOptmodel is procedural modeling-language text.
	FormatOptmodel Format = "optmodel"
	// FormatMPS is the sparse matrix interchange table.
	FormatMPS Format = "mps"
)

// Program is one rendered submission unit. A workspace with several solves
// still travels as a single program; the engine executes it in order.
type Program struct {
	Name   string `json:"name"`
	Format Format `json:"format"`
	Text   string `json:"text"`
}

// Submitter delivers a program to an engine and blocks until the response
// arrives or the context is done. Implementations do not retry and do not
// interpret engine-side errors; they surface what the engine said.
type Submitter interface {
	Submit(ctx context.Context, p Program) (*Response, error)
}

// PrimalRow is one variable row of a solution table.
type PrimalRow struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	LB          float64 `json:"lb"`
	UB          float64 `json:"ub"`
	ReducedCost float64 `json:"rc"`
}

// DualRow is one constraint row of a solution table.
type DualRow struct {
	Name     string  `json:"name"`
	Activity float64 `json:"activity"`
	Dual     float64 `json:"dual"`
}

// SolveResult is the outcome of one solve statement. Programs holding
// several solves produce one result per solve, in statement order.
type SolveResult struct {
	// Status is the engine's run status, such as "OK".
	Status string `json:"status"`
	// SolutionStatus is the solve outcome, such as "OPTIMAL".
	SolutionStatus string `json:"solution_status"`
	// Objective is the objective value at the returned solution.
	Objective float64 `json:"objective"`

	Primal []PrimalRow `json:"primal"`
	Dual   []DualRow   `json:"dual"`
}

// Response is everything the engine sent back for one program.
type Response struct {
	// Results holds one entry per solve statement, positionally.
	Results []SolveResult `json:"results"`
	// Log is the raw engine log text.
	Log string `json:"log"`
}

// Result returns the positional result for solve statement i.
func (r *Response) Result(i int) (*SolveResult, bool) {
	if i < 0 || i >= len(r.Results) {
		return nil, false
	}
	return &r.Results[i], true
}
