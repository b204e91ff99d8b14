package opt

import (
	"math"
	"strconv"
	"strings"
)

// exprDigits is the significant digit cap used when rendering coefficients
// into generated code. It controls display only; stored coefficients keep
// full float64 precision.
const exprDigits = 12

// FormatNumber renders a float for generated code: integral values have no
// decimal point, other values are limited to the given number of significant
// digits with trailing zeros trimmed. Rendering is deterministic for a given
// input.
func FormatNumber(v float64, digits int) string {
	if math.IsInf(v, 1) {
		return "infinity"
	}
	if math.IsInf(v, -1) {
		return "-infinity"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', digits, 64)
}

func formatNum(v float64) string {
	return FormatNumber(v, exprDigits)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// indentBlock prefixes every non-empty line of a block with the given number
// of spaces. Used when nesting member definitions inside loop and proc
// bodies.
func indentBlock(s string, spaces int) string {
	if s == "" {
		return s
	}
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
