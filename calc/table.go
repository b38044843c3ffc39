package calc

import (
	"math"
	"math/rand/v2"
	"regexp"
	"slices"

	"github.com/aclements/go-moremath/mathx"
	"github.com/expr-lang/expr/builtin"
)

// The evaluator already provides abs, ceil, floor, round, min and max as
// builtins, so they are not repeated here.
var table = map[string]any{
	"pi":      math.Pi,
	"e":       math.E,
	"tau":     2 * math.Pi,
	"phi":     math.Phi,
	"ln2":     math.Ln2,
	"ln10":    math.Ln10,
	"log2e":   math.Log2E,
	"log10e":  math.Log10E,
	"sqrt2":   math.Sqrt2,
	"sqrt1_2": 1 / math.Sqrt2,
	"inf":     math.Inf(1),

	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"cot":   func(x float64) float64 { return 1 / math.Tan(x) },
	"sec":   func(x float64) float64 { return 1 / math.Cos(x) },
	"csc":   func(x float64) float64 { return 1 / math.Sin(x) },
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"atan2": math.Atan2,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,

	"exp":   math.Exp,
	"exp2":  math.Exp2,
	"expm1": math.Expm1,
	"log":   math.Log,
	"ln":    math.Log,
	"log2":  math.Log2,
	"log10": math.Log10,
	"log1p": math.Log1p,
	"pow":   math.Pow,
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"hypot": math.Hypot,

	"trunc": math.Trunc,
	"mod":   math.Mod,
	"sign":  sign,
	"fract": func(x float64) float64 { return x - math.Floor(x) },
	"clamp": func(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) },

	"erf":    math.Erf,
	"erfc":   math.Erfc,
	"gamma":  math.Gamma,
	"lgamma": func(x float64) float64 { v, _ := math.Lgamma(x); return v },
	"choose": func(n, k float64) float64 { return mathx.Choose(int(n), int(k)) },

	"random": rand.Float64,
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x // keeps 0, -0 and NaN
}

// mathBuiltins are the evaluator builtins listed with the math table.
var mathBuiltins = []string{"abs", "ceil", "floor", "round", "min", "max"}

// keywords are the evaluator's literal and operator words.
var keywords = []string{
	"true", "false", "nil", "in", "not", "and", "or",
	"matches", "contains", "startsWith", "endsWith", "let", "if", "else",
}

var recording = regexp.MustCompile(`^rec[0-9]+$`)

// Names returns the sorted names of the math functions and constants
// available to every expression.
func Names() []string {
	names := make([]string, 0, len(table)+len(mathBuiltins))
	for name := range table {
		names = append(names, name)
	}
	names = append(names, mathBuiltins...)
	slices.Sort(names)
	return names
}

// IsReserved reports whether name is taken by the math table, an
// evaluator builtin or keyword, a recording function or an independent
// variable.
func IsReserved(name string) bool {
	if _, ok := table[name]; ok {
		return true
	}
	switch name {
	case "x", "y", "o", "t", "r", "s":
		return true
	}
	return slices.Contains(builtin.Names, name) ||
		slices.Contains(keywords, name) ||
		recording.MatchString(name)
}

// scopeFor returns a fresh environment holding the math table, extra and
// zeroed params. Later entries override earlier ones.
func scopeFor(params []string, extra map[string]any) map[string]any {
	env := make(map[string]any, len(table)+len(extra)+len(params))
	for k, v := range table {
		env[k] = v
	}
	for k, v := range extra {
		env[k] = v
	}
	for _, p := range params {
		env[p] = 0.0
	}
	return env
}
