// Package optmodel renders models and workspaces into procedural
// OPTMODEL-style program text. Rendering is pure: the same input produces
// byte-identical output, and nothing here talks to an engine.
package optmodel

import (
	"strings"

	"github.com/vk/optmodeler/pkg/opt"
)

const indent = 3

// Options controls the wrapping around the rendered declarations.
type Options struct {
	// SkipSolve suppresses the trailing solve directive for models whose
	// statements already include their own.
	SkipSolve bool
	// SolutionTable names the readback table appended after the solve.
	// Empty skips the readback block.
	SolutionTable string
	// DualTable names the constraint readback table. Empty skips it.
	DualTable string
}

// Write renders a model into a complete program: proc header, components
// in insertion order, solve directive, optional readback blocks, quit.
func Write(m *opt.Model, opts Options) (string, error) {
	var b strings.Builder
	b.WriteString("proc optmodel;\n")
	for _, c := range m.Components() {
		b.WriteString(indentLines(c.Defn()))
	}
	if !opts.SkipSolve {
		b.WriteString(indentLines(opt.NewSolveStatement(m.SolveOptions()).Defn()))
	}
	writeReadback(&b, opts)
	b.WriteString("quit;")
	return b.String(), nil
}

// WriteWorkspace renders a workspace as one atomic program. A workspace in
// the Building state moves to Serialized, freezing its statement list so
// the submitted text cannot drift from what was rendered.
func WriteWorkspace(w *opt.Workspace, opts Options) (string, error) {
	if w.State() == opt.Building {
		if err := w.Transition(opt.Serialized); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	b.WriteString("proc optmodel;\n")
	for _, c := range w.Components() {
		b.WriteString(indentLines(c.Defn()))
	}
	writeReadback(&b, opts)
	b.WriteString("quit;")
	return b.String(), nil
}

func writeReadback(b *strings.Builder, opts Options) {
	if opts.SolutionTable != "" {
		stmt := opt.CreateDataStatement{
			Table:  opts.SolutionTable,
			Index:  "[i] = {1.._NVAR_}",
			Fields: []string{"name=_VAR_[i].name", "value=_VAR_[i]", "lb=_VAR_[i].lb", "ub=_VAR_[i].ub", "rc=_VAR_[i].rc"},
		}
		b.WriteString(indentLines(stmt.Defn()))
	}
	if opts.DualTable != "" {
		stmt := opt.CreateDataStatement{
			Table:  opts.DualTable,
			Index:  "[j] = {1.._NCON_}",
			Fields: []string{"name=_CON_[j].name", "activity=_CON_[j].body", "dual=_CON_[j].dual"},
		}
		b.WriteString(indentLines(stmt.Defn()))
	}
}

// indentLines indents a possibly multi-line definition one proc level and
// terminates it with a newline.
func indentLines(defn string) string {
	pad := strings.Repeat(" ", indent)
	lines := strings.Split(defn, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
