package opt

// Math-function calls are opaque atomic terms: they collect coefficients as
// a single factor while carrying their sub-expression arguments, and they
// render as the engine's function syntax.

func funcCall(op string, args ...*Expression) *Expression {
	wrapped := make([]*Expression, len(args))
	abstract := false
	for i, a := range args {
		wrapped[i] = a.wrapped()
		abstract = abstract || wrapped[i].IsAbstract()
	}
	r := NewExpression()
	r.abstract = abstract
	r.addTerm([]Factor{{Ref: &opTerm{op: op, args: wrapped}, Exp: 1}}, 1)
	return r
}

// Sin returns sin(e) as an opaque nonlinear expression.
func Sin(e *Expression) *Expression { return funcCall("sin", e) }

// Cos returns cos(e).
func Cos(e *Expression) *Expression { return funcCall("cos", e) }

// Tan returns tan(e).
func Tan(e *Expression) *Expression { return funcCall("tan", e) }

// Exp returns exp(e).
func Exp(e *Expression) *Expression { return funcCall("exp", e) }

// Log returns the natural logarithm of e.
func Log(e *Expression) *Expression { return funcCall("log", e) }

// Log2 returns the base-2 logarithm of e.
func Log2(e *Expression) *Expression { return funcCall("log2", e) }

// Log10 returns the base-10 logarithm of e.
func Log10(e *Expression) *Expression { return funcCall("log10", e) }

// Sqrt returns sqrt(e).
func Sqrt(e *Expression) *Expression { return funcCall("sqrt", e) }

// Abs returns abs(e).
func Abs(e *Expression) *Expression { return funcCall("abs", e) }

// Floor returns floor(e).
func Floor(e *Expression) *Expression { return funcCall("floor", e) }

// Ceil returns ceil(e).
func Ceil(e *Expression) *Expression { return funcCall("ceil", e) }

// Sign returns sign(e).
func Sign(e *Expression) *Expression { return funcCall("sign", e) }

// Mod returns mod(a, b).
func Mod(a, b *Expression) *Expression { return funcCall("mod", a, b) }

// Min returns min over the given expressions.
func Min(args ...*Expression) *Expression { return funcCall("min", args...) }

// Max returns max over the given expressions.
func Max(args ...*Expression) *Expression { return funcCall("max", args...) }

// SumOver builds the abstract reduction sum {i in S, ...} (body). The
// resulting expression can only be serialized, never evaluated on the
// client.
func SumOver(body *Expression, iters ...*SetIterator) *Expression {
	r := body.wrapped().Copy()
	r.reduceOp = "sum"
	r.reduceIters = iters
	r.abstract = true
	return r
}
