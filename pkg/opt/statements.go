package opt

import (
	"strings"
)

// Statement is one sequenced directive inside a workspace or model. The
// client never interprets statements; it only renders them in order.
type Statement interface {
	Defn() string
}

// SolveOptions configures one solve directive.
type SolveOptions struct {
	// With selects the engine-side algorithm, such as "lp" or "milp".
	With string
	// Objectives lists objectives for a multi-objective directive. Order
	// is preserved in the rendered obj (...) clause.
	Objectives []*Objective
	// Pre holds directives rendered before the slash, such as "relaxint".
	Pre []string
	// Post holds key=value options rendered after the slash. Slice order
	// is preserved so output stays deterministic.
	Post []string
}

// SolveStatement is a solve directive. Each solve in a workspace gets its
// own positional result in the engine response.
type SolveStatement struct {
	Options SolveOptions
}

// NewSolveStatement builds a solve directive.
func NewSolveStatement(opts SolveOptions) *SolveStatement {
	return &SolveStatement{Options: opts}
}

// Defn renders the solve directive.
func (s *SolveStatement) Defn() string {
	var b strings.Builder
	b.WriteString("solve")
	if s.Options.With != "" {
		b.WriteString(" with " + s.Options.With)
	}
	if len(s.Options.Objectives) > 0 {
		names := make([]string, len(s.Options.Objectives))
		for i, o := range s.Options.Objectives {
			names[i] = o.Name()
		}
		b.WriteString(" obj (" + strings.Join(names, " ") + ")")
	}
	if len(s.Options.Pre) > 0 {
		b.WriteString(" " + strings.Join(s.Options.Pre, " "))
	}
	if len(s.Options.Post) > 0 {
		b.WriteString(" / " + strings.Join(s.Options.Post, " "))
	}
	b.WriteString(";")
	return b.String()
}

// ReadField maps one engine-side target to a source column in a read data
// statement. An empty Column reads the column named after the target.
type ReadField struct {
	Target string
	Column string
}

func (f ReadField) render() string {
	if f.Column == "" || f.Column == f.Target {
		return f.Target
	}
	return f.Target + "=" + f.Column
}

// ReadDataStatement loads an engine-side table into sets and parameters.
type ReadDataStatement struct {
	Table string
	// Into names the set receiving the key column(s), as in
	// DAYS=[day].
	Into    string
	KeyCols []string
	Fields  []ReadField
}

// Defn renders the read data statement.
func (s *ReadDataStatement) Defn() string {
	var b strings.Builder
	b.WriteString("read data " + s.Table + " into")
	if s.Into != "" {
		b.WriteString(" " + s.Into + "=[" + strings.Join(s.KeyCols, " ") + "]")
	} else if len(s.KeyCols) > 0 {
		b.WriteString(" [" + strings.Join(s.KeyCols, " ") + "]")
	}
	for _, f := range s.Fields {
		b.WriteString(" " + f.render())
	}
	b.WriteString(";")
	return b.String()
}

// CreateDataStatement writes engine-side values out to a table.
type CreateDataStatement struct {
	Table string
	// Index renders inside the leading bracket, as in [i] or
	// [i]= {1.._NVAR_}.
	Index  string
	Fields []string
}

// Defn renders the create data statement.
func (s *CreateDataStatement) Defn() string {
	var b strings.Builder
	b.WriteString("create data " + s.Table + " from")
	if s.Index != "" {
		b.WriteString(" " + s.Index)
	}
	for _, f := range s.Fields {
		b.WriteString(" " + f)
	}
	b.WriteString(";")
	return b.String()
}

// AssignStatement assigns a value to an engine-side target, as in `p = 5;`.
type AssignStatement struct {
	Target string
	Value  *Expression
}

// Defn renders the assignment.
func (s *AssignStatement) Defn() string {
	return s.Target + " = " + s.Value.Expr() + ";"
}

// FixStatement pins a variable to an expression for subsequent solves.
type FixStatement struct {
	Target *Variable
	Value  *Expression
}

// Defn renders the fix directive.
func (s *FixStatement) Defn() string {
	return "fix " + s.Target.Expr() + "=" + s.Value.Expr() + ";"
}

// UnfixStatement releases a previously fixed variable.
type UnfixStatement struct {
	Target *Variable
}

// Defn renders the unfix directive.
func (s *UnfixStatement) Defn() string {
	return "unfix " + s.Target.Expr() + ";"
}

// DropStatement removes a constraint from subsequent solves.
type DropStatement struct {
	Target *Constraint
}

// Defn renders the drop directive.
func (s *DropStatement) Defn() string {
	return "drop " + s.Target.Name() + ";"
}

// RestoreStatement reinstates a dropped constraint.
type RestoreStatement struct {
	Target *Constraint
}

// Defn renders the restore directive.
func (s *RestoreStatement) Defn() string {
	return "restore " + s.Target.Name() + ";"
}

// ForStatement is a sequential engine-side loop over iterators. Concurrent
// loops render with cofor; the client handles both identically since
// execution happens on the engine either way.
type ForStatement struct {
	Iters      []*SetIterator
	Body       []Statement
	Concurrent bool
}

// Append adds a statement to the loop body.
func (s *ForStatement) Append(stmt Statement) {
	s.Body = append(s.Body, stmt)
}

// Defn renders the loop with its body indented one level.
func (s *ForStatement) Defn() string {
	kw := "for"
	if s.Concurrent {
		kw = "cofor"
	}
	var b strings.Builder
	b.WriteString(kw + " {" + loopList(s.Iters) + "} do;\n")
	for _, stmt := range s.Body {
		b.WriteString(indentBlock(stmt.Defn(), 3) + "\n")
	}
	b.WriteString("end;")
	return b.String()
}

// IfStatement branches engine-side on a rendered condition.
type IfStatement struct {
	Condition string
	Then      []Statement
	Else      []Statement
}

// Defn renders the branch with both arms indented.
func (s *IfStatement) Defn() string {
	var b strings.Builder
	b.WriteString("if " + s.Condition + " then do;\n")
	for _, stmt := range s.Then {
		b.WriteString(indentBlock(stmt.Defn(), 3) + "\n")
	}
	b.WriteString("end;")
	if len(s.Else) > 0 {
		b.WriteString("\nelse do;\n")
		for _, stmt := range s.Else {
			b.WriteString(indentBlock(stmt.Defn(), 3) + "\n")
		}
		b.WriteString("end;")
	}
	return b.String()
}

// PrintStatement asks the engine to print named entities into the log.
type PrintStatement struct {
	Items []string
}

// Defn renders the print directive.
func (s *PrintStatement) Defn() string {
	return "print " + strings.Join(s.Items, " ") + ";"
}

// LiteralStatement passes raw text through untouched, for directives the
// typed statements do not cover.
type LiteralStatement struct {
	Text string
}

// Defn returns the literal text.
func (s *LiteralStatement) Defn() string { return s.Text }

// UseProblemStatement switches the engine's active problem.
type UseProblemStatement struct {
	Problem string
}

// Defn renders the use problem directive.
func (s *UseProblemStatement) Defn() string {
	return "use problem " + s.Problem + ";"
}
