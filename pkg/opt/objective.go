package opt

// Sense is the optimization direction of an objective.
type Sense int

const (
	// Minimize seeks the smallest objective value.
	Minimize Sense = iota
	// Maximize seeks the largest objective value.
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "max"
	}
	return "min"
}

// Objective names an expression to optimize. A model keeps one active
// objective for single-objective solves plus the ordered list of every
// registered objective for multi-objective directives.
type Objective struct {
	name  string
	sense Sense
	expr  *Expression

	value    float64
	hasValue bool
}

// NewObjective wraps an expression as a named objective. The expression is
// copied, so later arithmetic on the original does not change the model.
func NewObjective(name string, sense Sense, expr *Expression) *Objective {
	return &Objective{name: name, sense: sense, expr: expr.wrapped().Copy()}
}

// Name returns the objective's identity.
func (o *Objective) Name() string { return o.name }

// Sense returns the optimization direction.
func (o *Objective) Sense() Sense { return o.sense }

// Expr returns the objective expression.
func (o *Objective) Expr() *Expression { return o.expr }

// Value returns the objective value recorded by the last solve.
func (o *Objective) Value() (float64, bool) { return o.value, o.hasValue }

// SetValue records the objective value from a solve response.
func (o *Objective) SetValue(v float64) {
	o.value = v
	o.hasValue = true
}

// Defn renders the objective declaration statement.
func (o *Objective) Defn() string {
	return o.sense.String() + " " + o.name + " = " + o.expr.Expr() + ";"
}

func (o *Objective) String() string { return o.Defn() }
