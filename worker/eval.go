package worker

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/fnplot/calc"
	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/interp"
)

// Evaluate runs req to completion in the calling goroutine. Every failure,
// including a panic, is reported in the Response; Evaluate itself never
// panics.
func Evaluate(req *Request) (resp *Response) {
	resp = &Response{ID: req.ID, Index: req.Index, Kind: req.Kind}
	defer func() {
		if r := recover(); r != nil {
			resp.Output, resp.Skips = nil, nil
			resp.Err = &Error{Code: ErrInternal, Msg: fmt.Sprint(r)}
		}
	}()

	if req.Kind == clause.Unknown || len(req.Exprs) != req.Kind.ExprCount() {
		resp.Err = &Error{
			Code: ErrBadRequest,
			Msg:  fmt.Sprintf("%s clause with %d sub-expressions", req.Kind, len(req.Exprs)),
		}
		return resp
	}

	e := &evaluator{req: req, scope: scope(req)}
	var err *Error
	switch req.Kind {
	case clause.Linear:
		err = e.curve(func(v, f float64) (float64, float64) { return v, f })
	case clause.LinearHorizontal:
		err = e.curve(func(v, f float64) (float64, float64) { return f, v })
	case clause.Polar:
		err = e.curve(func(o, r float64) (float64, float64) { return r * math.Cos(o), r * math.Sin(o) })
	case clause.Parametric:
		err = e.parametric()
	case clause.Sound:
		err = e.sound()
	case clause.List:
		err = e.list()
	case clause.Affect:
		err = e.affect()
	}
	if err != nil {
		resp.Err = err
		return resp
	}
	resp.Output, resp.Skips = e.out, e.skips
	return resp
}

// scope builds the names visible to user expressions besides the math
// table: preceding affect bindings and recN functions.
func scope(req *Request) map[string]any {
	s := make(map[string]any, len(req.Bindings)+len(req.Recs))
	for name, v := range req.Bindings {
		s[name] = v
	}
	for n, rec := range req.Recs {
		s["rec"+strconv.Itoa(n)] = rec.At
	}
	return s
}

type evaluator struct {
	req   *Request
	scope map[string]any
	out   []float64
	skips []int
}

func (e *evaluator) compile(src string, params ...string) (*calc.Func, *Error) {
	f, err := calc.Compile(src, params, e.scope)
	if err != nil {
		return nil, &Error{Code: ErrCompile, Expr: src, Msg: err.Error()}
	}
	return f, nil
}

func runtimeError(f *calc.Func, err error) *Error {
	return &Error{Code: ErrRuntime, Expr: f.Source(), Msg: err.Error()}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// curve evaluates single-expression kinds, mapping (v, f(v)) to a point.
func (e *evaluator) curve(point func(v, f float64) (float64, float64)) *Error {
	f, cerr := e.compile(e.req.Exprs[0], e.req.Kind.Var())
	if cerr != nil {
		return cerr
	}
	e.out = make([]float64, 2*len(e.req.Input))
	for i, v := range e.req.Input {
		y, err := f.Eval(v)
		if err != nil {
			return runtimeError(f, err)
		}
		e.out[2*i], e.out[2*i+1] = point(v, y)
		if !finite(y) {
			e.skips = append(e.skips, i)
		}
	}
	return nil
}

func (e *evaluator) parametric() *Error {
	fx, cerr := e.compile(e.req.Exprs[0], "t")
	if cerr != nil {
		return cerr
	}
	fy, cerr := e.compile(e.req.Exprs[1], "t")
	if cerr != nil {
		return cerr
	}
	e.out = make([]float64, 2*len(e.req.Input))
	for i, t := range e.req.Input {
		x, err := fx.Eval(t)
		if err != nil {
			return runtimeError(fx, err)
		}
		y, err := fy.Eval(t)
		if err != nil {
			return runtimeError(fy, err)
		}
		e.out[2*i], e.out[2*i+1] = x, y
		if !finite(x) || !finite(y) {
			e.skips = append(e.skips, i)
		}
	}
	return nil
}

// sound produces one amplitude per sample. Non-finite samples are
// silenced and listed in the skip set.
func (e *evaluator) sound() *Error {
	f, cerr := e.compile(e.req.Exprs[0], "t")
	if cerr != nil {
		return cerr
	}
	e.out = make([]float64, len(e.req.Input))
	for i, t := range e.req.Input {
		a, err := f.Eval(t)
		if err != nil {
			return runtimeError(f, err)
		}
		if !finite(a) {
			a = 0
			e.skips = append(e.skips, i)
		}
		e.out[i] = a
	}
	return nil
}

func (e *evaluator) affect() *Error {
	f, cerr := e.compile(e.req.Exprs[1])
	if cerr != nil {
		return cerr
	}
	v, err := f.Eval()
	if err != nil {
		return runtimeError(f, err)
	}
	e.out = []float64{v}
	if !finite(v) {
		e.skips = []int{0}
	}
	return nil
}

// list evaluates a list literal to control points and joins them with the
// requested interpolation. A list of numbers is spread evenly over the
// input domain; a list of [x, y] pairs is used as is.
func (e *evaluator) list() *Error {
	src := e.req.Exprs[0]
	v, err := calc.Value(src, e.scope)
	if err != nil {
		return &Error{Code: ErrCompile, Expr: src, Msg: err.Error()}
	}
	pts, perr := listPoints(v, e.req.Input)
	if perr != nil {
		return &Error{Code: ErrRuntime, Expr: src, Msg: perr.Error()}
	}

	n := 1
	if segs := len(pts) - 1; segs > 0 && len(e.req.Input) > len(pts) {
		n = (len(e.req.Input) - 1 + segs - 1) / segs
	}
	dense := interp.Apply(e.req.Interp, pts, n)

	e.out = make([]float64, 0, 2*len(dense))
	for i, p := range dense {
		e.out = append(e.out, p.X, p.Y)
		if !finite(p.X) || !finite(p.Y) {
			e.skips = append(e.skips, i)
		}
	}
	return nil
}

func listPoints(v any, input []float64) ([]interp.Point, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("list evaluated to %T, want a list", v)
	}
	lo, hi := 0.0, float64(len(items)-1)
	if len(input) > 0 {
		lo, hi = input[0], input[len(input)-1]
	}
	pts := make([]interp.Point, len(items))
	for i, item := range items {
		if y, ok := calc.Number(item); ok {
			x := lo
			if len(items) > 1 {
				x = lo + (hi-lo)*float64(i)/float64(len(items)-1)
			}
			pts[i] = interp.Pt(x, y)
			continue
		}
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("list item %d is %v, want a number or [x, y]", i, item)
		}
		x, okx := calc.Number(pair[0])
		y, oky := calc.Number(pair[1])
		if !okx || !oky {
			return nil, fmt.Errorf("list item %d has non-numeric coordinates %v", i, pair)
		}
		pts[i] = interp.Pt(x, y)
	}
	return pts, nil
}
