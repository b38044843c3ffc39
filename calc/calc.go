// Package calc compiles user expression text into numeric functions.
//
// Expressions run inside the expr-lang virtual machine with nothing but a
// fixed math table (see Names) and caller-supplied bindings in scope, so
// user text can never reach Go code beyond those functions. Arithmetic is
// float64 throughout: 2^70 and 7 % 2.5 behave as they would on x.
package calc

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/gogpu/fnplot/internal/lru"
)

// ProgramCacheSize is the number of compiled programs kept for reuse.
// Redrawing the same clauses over a new viewport then skips compilation.
const ProgramCacheSize = 256

var programs = lru.New[string, *vm.Program](ProgramCacheSize)

// CacheStats reports the hit and miss counts of the program cache.
func CacheStats() lru.Stats { return programs.Stats() }

// compile returns the program for src under env, compiling it on a cache
// miss. A program depends on the names and types in env, not on their
// values, so the key records names and parameters only.
func compile(src string, env map[string]any, params []string, scalar bool) (*vm.Program, error) {
	var key strings.Builder
	if scalar {
		key.WriteString("f\x00")
	} else {
		key.WriteString("v\x00")
	}
	key.WriteString(src)
	key.WriteString("\x00")
	key.WriteString(strings.Join(params, ","))
	for _, name := range slices.Sorted(maps.Keys(env)) {
		if _, ok := table[name]; ok {
			continue
		}
		fmt.Fprintf(&key, "\x00%s:%T", name, env[name])
	}
	k := key.String()

	if prog, ok := programs.Get(k); ok {
		return prog, nil
	}
	opts := []expr.Option{expr.Env(env), expr.Patch(floatArith{})}
	if scalar {
		opts = append(opts, expr.AsFloat64())
	}
	prog, err := expr.Compile(src, opts...)
	if err != nil {
		return nil, err
	}
	programs.Set(k, prog)
	return prog, nil
}

// ErrNotFinite is returned by Const when an expression does not evaluate
// to a finite number.
var ErrNotFinite = errors.New("calc: value is not finite")

// Func is a compiled expression over an ordered list of parameters.
//
// A Func reuses one environment between calls and is therefore not safe
// for concurrent use; each worker compiles its own.
type Func struct {
	src    string
	params []string
	prog   *vm.Program
	env    map[string]any
}

// Compile compiles src into a Func of params. Names in scope are bound in
// addition to the math table; unknown names are compile errors.
func Compile(src string, params []string, scope map[string]any) (*Func, error) {
	env := scopeFor(params, scope)
	prog, err := compile(src, env, params, true)
	if err != nil {
		return nil, fmt.Errorf("calc: compile %q: %w", src, err)
	}
	return &Func{src: src, params: params, prog: prog, env: env}, nil
}

// Source returns the expression text f was compiled from.
func (f *Func) Source() string { return f.src }

// Eval evaluates f with args bound to its parameters in order.
func (f *Func) Eval(args ...float64) (float64, error) {
	if len(args) != len(f.params) {
		return math.NaN(), fmt.Errorf("calc: %q takes %d arguments, got %d", f.src, len(f.params), len(args))
	}
	for i, p := range f.params {
		f.env[p] = args[i]
	}
	out, err := expr.Run(f.prog, f.env)
	if err != nil {
		return math.NaN(), fmt.Errorf("calc: eval %q: %w", f.src, err)
	}
	v, ok := out.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("calc: %q evaluated to %T, want number", f.src, out)
	}
	return v, nil
}

// Const evaluates src with no parameters and requires a finite result.
func Const(src string) (float64, error) {
	f, err := Compile(src, nil, nil)
	if err != nil {
		return math.NaN(), err
	}
	v, err := f.Eval()
	if err != nil {
		return math.NaN(), err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, fmt.Errorf("%w: %q = %v", ErrNotFinite, src, v)
	}
	return v, nil
}

// Value evaluates src once and returns the raw result, which may be a
// list. It is used for list clauses whose expression yields points.
func Value(src string, scope map[string]any) (any, error) {
	env := scopeFor(nil, scope)
	prog, err := compile(src, env, nil, false)
	if err != nil {
		return nil, fmt.Errorf("calc: compile %q: %w", src, err)
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return nil, fmt.Errorf("calc: eval %q: %w", src, err)
	}
	return out, nil
}

// Number converts a scalar produced by the evaluator to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
