package opt

import (
	"math"
	"strings"
)

// opTerm is an opaque nonlinear factor: a math-function call, a preserved
// power or quotient, or a reduction such as a sum over an abstract set. It
// participates in coefficient collection as a single atomic ref while
// carrying its own sub-expression arguments.
type opTerm struct {
	op    string
	args  []*Expression
	iters []*SetIterator
}

func (o *opTerm) Name() string {
	return o.Expr()
}

func (o *opTerm) Expr() string {
	switch o.op {
	case "^", "/":
		return "(" + o.args[0].Expr() + ") " + o.op + " (" + o.args[1].Expr() + ")"
	case "sum":
		return "sum {" + loopList(o.iters) + "} (" + o.args[0].Expr() + ")"
	default:
		rendered := make([]string, len(o.args))
		for i, a := range o.args {
			rendered[i] = a.Expr()
		}
		return o.op + "(" + strings.Join(rendered, ", ") + ")"
	}
}

func (o *opTerm) Abstract() bool {
	if len(o.iters) > 0 {
		return true
	}
	for _, a := range o.args {
		if a.IsAbstract() {
			return true
		}
	}
	return false
}

func (o *opTerm) RefValue() (float64, error) {
	if len(o.iters) > 0 {
		return 0, modelingErrorf("cannot evaluate %s over an unresolved set on the client", o.op)
	}
	vals := make([]float64, len(o.args))
	for i, a := range o.args {
		v, err := a.Value()
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	switch o.op {
	case "^":
		return math.Pow(vals[0], vals[1]), nil
	case "/":
		if vals[1] == 0 {
			return 0, modelingErrorf("division by zero while evaluating %s", o.Expr())
		}
		return vals[0] / vals[1], nil
	case "sin":
		return math.Sin(vals[0]), nil
	case "cos":
		return math.Cos(vals[0]), nil
	case "tan":
		return math.Tan(vals[0]), nil
	case "exp":
		return math.Exp(vals[0]), nil
	case "log":
		return math.Log(vals[0]), nil
	case "log2":
		return math.Log2(vals[0]), nil
	case "log10":
		return math.Log10(vals[0]), nil
	case "sqrt":
		return math.Sqrt(vals[0]), nil
	case "abs":
		return math.Abs(vals[0]), nil
	case "floor":
		return math.Floor(vals[0]), nil
	case "ceil":
		return math.Ceil(vals[0]), nil
	case "sign":
		switch {
		case vals[0] > 0:
			return 1, nil
		case vals[0] < 0:
			return -1, nil
		}
		return 0, nil
	case "mod":
		if vals[1] == 0 {
			return 0, modelingErrorf("mod by zero while evaluating %s", o.Expr())
		}
		return math.Mod(vals[0], vals[1]), nil
	case "min":
		v := vals[0]
		for _, x := range vals[1:] {
			v = math.Min(v, x)
		}
		return v, nil
	case "max":
		v := vals[0]
		for _, x := range vals[1:] {
			v = math.Max(v, x)
		}
		return v, nil
	}
	return 0, modelingErrorf("cannot evaluate operator %q on the client", o.op)
}

func loopList(iters []*SetIterator) string {
	parts := make([]string, len(iters))
	for i, it := range iters {
		parts[i] = it.LoopDefn()
	}
	return strings.Join(parts, ", ")
}
