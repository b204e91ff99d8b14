package opt

import (
	"context"

	"github.com/vk/optmodeler/internal/ctxlog"
	"github.com/vk/optmodeler/internal/namer"
	"github.com/vk/optmodeler/pkg/session"
)

// WorkspaceState tracks a workspace through its submission lifecycle.
type WorkspaceState int

const (
	// Building accepts appends.
	Building WorkspaceState = iota
	// Serialized has been rendered; the statement list is frozen.
	Serialized
	// Submitted is in flight to the engine.
	Submitted
	// Completed received a response.
	Completed
	// Failed did not receive a usable response.
	Failed
)

func (s WorkspaceState) String() string {
	switch s {
	case Building:
		return "building"
	case Serialized:
		return "serialized"
	case Submitted:
		return "submitted"
	case Completed:
		return "completed"
	default:
		return "failed"
	}
}

// Workspace sequences declarations and statements into one program
// submitted atomically: several solves, data reads, loops, and problem
// switches travel together and the engine executes them in order. Each
// solve statement gets a positional handle that the mediation layer
// resolves against the per-statement results in the response.
type Workspace struct {
	name  string
	names *namer.Registry
	log   ctxlogger
	state WorkspaceState

	components []Component
	solves     []*SolveStatement
	sess       session.Submitter
}

// NewWorkspace creates an empty workspace in the Building state.
func NewWorkspace(ctx context.Context, name string) *Workspace {
	return &Workspace{
		name:  name,
		names: namer.New(),
		log:   ctxlog.FromContext(ctx),
	}
}

// Name returns the workspace name.
func (w *Workspace) Name() string { return w.name }

// State returns the current lifecycle state.
func (w *Workspace) State() WorkspaceState { return w.state }

// SetSession attaches the remote engine submitter.
func (w *Workspace) SetSession(s session.Submitter) { w.sess = s }

// Session returns the attached submitter, or nil.
func (w *Workspace) Session() session.Submitter { return w.sess }

// Transition moves the workspace along its lifecycle. Only forward moves
// are legal; Serialized may move to Submitted, Submitted to Completed or
// Failed.
func (w *Workspace) Transition(next WorkspaceState) error {
	ok := false
	switch w.state {
	case Building:
		ok = next == Serialized
	case Serialized:
		ok = next == Submitted
	case Submitted:
		ok = next == Completed || next == Failed
	}
	if !ok {
		return modelingErrorf("workspace %s cannot move from %s to %s", w.name, w.state, next)
	}
	w.log.Debug("workspace state change", "workspace", w.name, "from", w.state.String(), "to", next.String())
	w.state = next
	return nil
}

// Append adds a component or statement to the sequence. Appending after
// serialization fails: the submitted program must match what was rendered.
func (w *Workspace) Append(c Component) error {
	if w.state != Building {
		return modelingErrorf("workspace %s is %s; no further statements accepted", w.name, w.state)
	}
	w.components = append(w.components, c)
	if s, ok := c.(*SolveStatement); ok {
		w.solves = append(w.solves, s)
	}
	return nil
}

// Solve appends a solve statement and returns its handle. The handle's
// position among the workspace's solves matches the positional result
// index in the engine response.
func (w *Workspace) Solve(opts SolveOptions) (*SolveStatement, error) {
	s := NewSolveStatement(opts)
	if err := w.Append(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SolveIndex returns the positional index of a solve handle, or -1.
func (w *Workspace) SolveIndex(s *SolveStatement) int {
	for i, candidate := range w.solves {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Solves returns the solve handles in append order.
func (w *Workspace) Solves() []*SolveStatement { return w.solves }

// Components returns the sequence in append order.
func (w *Workspace) Components() []Component { return w.components }

// Claim reserves an entity name inside the workspace's namespace.
func (w *Workspace) Claim(name, prefix string) string {
	if name == "" {
		return w.names.Next(prefix)
	}
	claimed, fresh := w.names.Claim(name)
	if !fresh {
		w.log.Warn("duplicate component name renamed", "workspace", w.name, "requested", name, "assigned", claimed)
	}
	return claimed
}

// Columns flattens the variables declared in the workspace, in append
// order, for matrix rendering and solution write-back.
func (w *Workspace) Columns() []*Variable {
	var out []*Variable
	for _, c := range w.components {
		switch v := c.(type) {
		case *Variable:
			out = append(out, v)
		case *VariableGroup:
			out = append(out, v.Members()...)
		case *Model:
			out = append(out, v.Columns()...)
		}
	}
	return out
}

// Rows flattens the constraints declared in the workspace, in append order.
func (w *Workspace) Rows() []*Constraint {
	var out []*Constraint
	for _, c := range w.components {
		switch v := c.(type) {
		case *Constraint:
			out = append(out, v)
		case *ConstraintGroup:
			out = append(out, v.Members()...)
		case *Model:
			out = append(out, v.Rows()...)
		}
	}
	return out
}
