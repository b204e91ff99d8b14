// Package solver mediates between the modeling core and the remote engine:
// it renders a model or workspace, submits it through the attached session,
// checks the outcome, and writes solution values back onto the entities by
// name.
package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/optmodeler/internal/ctxlog"
	"github.com/vk/optmodeler/pkg/mps"
	"github.com/vk/optmodeler/pkg/opt"
	"github.com/vk/optmodeler/pkg/optmodel"
	"github.com/vk/optmodeler/pkg/session"
)

// DefaultValidOutcomes lists the solution statuses accepted as usable
// results. Anything else fails the solve even when the engine ran cleanly.
var DefaultValidOutcomes = []string{"OPTIMAL", "ABSFCONV", "BEST_FEASIBLE"}

// Options configures one mediated solve.
type Options struct {
	// Format selects the rendering submitted to the engine.
	Format session.Format
	// ValidOutcomes overrides DefaultValidOutcomes when non-empty.
	ValidOutcomes []string
	// Render controls the text generator's wrapping.
	Render optmodel.Options
}

// Summary reports what a solve changed on the client.
type Summary struct {
	SolutionStatus string
	Objective      float64
	VarsUpdated    int
	ConsUpdated    int
}

// Solve renders the model, submits it through the model's session, verifies
// the outcome, and writes values and duals back onto the model's variables
// and constraints by exact name match.
func Solve(ctx context.Context, m *opt.Model) (*Summary, error) {
	return SolveWith(ctx, m, Options{Format: session.FormatOptmodel})
}

// SolveWith is Solve with explicit options.
func SolveWith(ctx context.Context, m *opt.Model, opts Options) (*Summary, error) {
	logger := ctxlog.FromContext(ctx).With("model", m.Name())

	sub := m.Session()
	if sub == nil {
		return nil, &opt.SubmissionError{Stage: "prepare", Err: fmt.Errorf("model %s has no session attached", m.Name())}
	}

	text, err := render(m, opts)
	if err != nil {
		return nil, &opt.SubmissionError{Stage: "render", Err: err}
	}
	logger.Debug("Rendered program", "format", opts.Format, "bytes", len(text))

	resp, err := sub.Submit(ctx, session.Program{Name: m.Name(), Format: opts.Format, Text: text})
	if err != nil {
		return nil, &opt.SubmissionError{Stage: "submit", Err: err}
	}

	result, ok := resp.Result(0)
	if !ok {
		return nil, &opt.SubmissionError{Stage: "readback", Err: fmt.Errorf("response carried no solve results")}
	}
	if err := checkOutcome(result, opts.ValidOutcomes); err != nil {
		return nil, err
	}

	summary := writeBack(m, result)
	logger.Info("Solve completed",
		"status", result.SolutionStatus,
		"objective", summary.Objective,
		"varsUpdated", summary.VarsUpdated,
		"consUpdated", summary.ConsUpdated)
	return summary, nil
}

// SolveWorkspace submits a workspace as one atomic program, walks it
// through its lifecycle states, and writes the final solve's values back
// onto the workspace entities. The full response is returned so callers can
// resolve intermediate solves positionally.
func SolveWorkspace(ctx context.Context, w *opt.Workspace, opts Options) (*session.Response, error) {
	logger := ctxlog.FromContext(ctx).With("workspace", w.Name())

	sub := w.Session()
	if sub == nil {
		return nil, &opt.SubmissionError{Stage: "prepare", Err: fmt.Errorf("workspace %s has no session attached", w.Name())}
	}

	text, err := optmodel.WriteWorkspace(w, opts.Render)
	if err != nil {
		return nil, &opt.SubmissionError{Stage: "render", Err: err}
	}
	if err := w.Transition(opt.Submitted); err != nil {
		return nil, &opt.SubmissionError{Stage: "submit", Err: err}
	}

	resp, err := sub.Submit(ctx, session.Program{Name: w.Name(), Format: session.FormatOptmodel, Text: text})
	if err != nil {
		if terr := w.Transition(opt.Failed); terr != nil {
			logger.Warn("State transition failed after submit error", "error", terr)
		}
		return nil, &opt.SubmissionError{Stage: "submit", Err: err}
	}

	if len(resp.Results) != len(w.Solves()) {
		if terr := w.Transition(opt.Failed); terr != nil {
			logger.Warn("State transition failed after result mismatch", "error", terr)
		}
		return nil, &opt.SubmissionError{Stage: "readback",
			Err: fmt.Errorf("expected %d solve results, engine returned %d", len(w.Solves()), len(resp.Results))}
	}

	if err := w.Transition(opt.Completed); err != nil {
		return nil, &opt.SubmissionError{Stage: "readback", Err: err}
	}

	if last, ok := resp.Result(len(resp.Results) - 1); ok {
		summary := writeBackEntities(w.Columns(), w.Rows(), last)
		logger.Info("Workspace completed",
			"solves", len(resp.Results),
			"varsUpdated", summary.VarsUpdated,
			"consUpdated", summary.ConsUpdated)
	}
	return resp, nil
}

func render(m *opt.Model, opts Options) (string, error) {
	switch opts.Format {
	case session.FormatMPS:
		table, err := mps.ToTable(m, mps.Options{})
		if err != nil {
			return "", err
		}
		return tableText(table), nil
	default:
		return optmodel.Write(m, opts.Render)
	}
}

// tableText flattens the interchange table into tab-separated text for
// transports that carry programs as plain strings.
func tableText(t *mps.Table) string {
	lines := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		lines[i] = strings.TrimRight(strings.Join(r[:], "\t"), "\t")
	}
	return strings.Join(lines, "\n")
}

func checkOutcome(result *session.SolveResult, valid []string) error {
	if len(valid) == 0 {
		valid = DefaultValidOutcomes
	}
	for _, v := range valid {
		if result.SolutionStatus == v {
			return nil
		}
	}
	return &opt.SubmissionError{Stage: "readback",
		Err: fmt.Errorf("solution status %q is not usable (accepted: %s)", result.SolutionStatus, strings.Join(valid, ", "))}
}

// writeBack applies one solve result to a model, including the objective.
func writeBack(m *opt.Model, result *session.SolveResult) *Summary {
	summary := writeBackEntities(m.Columns(), m.Rows(), result)
	if o := m.Objective(); o != nil {
		o.SetValue(result.Objective)
		summary.Objective = result.Objective
	}
	return summary
}

// writeBackEntities matches response rows to entities by exact
// case-sensitive name and records values, reduced costs, and duals. Rows
// with no matching entity are skipped.
func writeBackEntities(cols []*opt.Variable, rows []*opt.Constraint, result *session.SolveResult) *Summary {
	summary := &Summary{SolutionStatus: result.SolutionStatus, Objective: result.Objective}

	varsByName := make(map[string]*opt.Variable, len(cols))
	for _, v := range cols {
		varsByName[v.Expr()] = v
	}
	for _, row := range result.Primal {
		v, ok := varsByName[row.Name]
		if !ok {
			continue
		}
		v.SetValue(row.Value)
		v.SetDual(row.ReducedCost)
		summary.VarsUpdated++
	}

	consByName := make(map[string]*opt.Constraint, len(rows))
	for _, c := range rows {
		consByName[c.Name()] = c
	}
	for _, row := range result.Dual {
		c, ok := consByName[row.Name]
		if !ok {
			continue
		}
		c.SetDual(row.Dual)
		summary.ConsUpdated++
	}
	return summary
}
