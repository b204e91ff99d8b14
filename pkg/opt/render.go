package opt

import (
	"strings"
)

// Expr renders the expression into the engine's algebraic syntax. Terms
// appear in insertion order and the constant last, so rendering is
// byte-identical across calls on an unmodified expression.
func (e *Expression) Expr() string {
	body := e.exprBody(true)
	if e.reduceOp != "" {
		return e.reduceOp + " {" + loopList(e.reduceIters) + "} (" + body + ")"
	}
	return body
}

// exprBody renders the monomial sum. The constant term is skipped when
// withConst is false; constraints render their right-hand side themselves.
func (e *Expression) exprBody(withConst bool) string {
	var b strings.Builder
	wrote := false

	appendSigned := func(neg bool, s string) {
		switch {
		case !wrote && !neg:
			b.WriteString(s)
		case !wrote && neg:
			b.WriteString("- " + s)
		case neg:
			b.WriteString(" - " + s)
		default:
			b.WriteString(" + " + s)
		}
		wrote = true
	}

	for _, k := range e.order {
		t := e.terms[k]
		if t.coef == 0 {
			continue
		}
		mag := t.coef
		neg := mag < 0
		if neg {
			mag = -mag
		}
		body := renderFactors(t.factors)
		if mag != 1 {
			body = formatNum(mag) + " * " + body
		}
		appendSigned(neg, body)
	}

	if withConst && (e.constant != 0 || !wrote) {
		c := e.constant
		neg := c < 0
		if neg {
			c = -c
		}
		appendSigned(neg, formatNum(c))
	}
	return b.String()
}

func renderFactors(factors []Factor) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		if f.Exp == 1 {
			parts = append(parts, f.Ref.Expr())
		} else {
			parts = append(parts, "("+f.Ref.Expr()+") ^ ("+formatNum(f.Exp)+")")
		}
	}
	return strings.Join(parts, " * ")
}
