package worker

import (
	"fmt"

	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/interp"
)

// Request asks the worker of slot Index to evaluate one clause.
//
// Input is handed over to the worker: the requester must not read or
// write it after calling Evaluate.
type Request struct {
	// ID is the correlation id; Registry.Evaluate assigns it.
	ID    string
	Index int
	Kind  clause.Kind
	Exprs []string
	Input []float64

	// Recs are the recordings addressable as recN(t), keyed by their
	// 1-based index.
	Recs map[int]Recording

	// Bindings are the values of affect clauses that precede this one.
	Bindings map[string]float64

	// Interp selects how list points are joined.
	Interp interp.Kind
}

// Response is the reply to exactly one Request, carrying the same ID.
type Response struct {
	ID    string
	Index int
	Kind  clause.Kind

	// Output holds one coordinate pair per input sample (x0, y0, x1, y1,
	// ...) for plotted kinds, and one scalar per sample for Sound and
	// Affect. It is nil when Err is set.
	Output []float64

	// Skips lists, in increasing order, the sample indices whose value is
	// not finite. The drawer starts a new subpath after each of them.
	Skips []int

	Err *Error
}

// Recording is a previously captured audio buffer.
type Recording struct {
	Samples []float64
	Rate    float64
}

// At returns the recording's value t seconds in, linearly interpolated,
// and 0 outside the recording.
func (r Recording) At(t float64) float64 {
	if r.Rate <= 0 || len(r.Samples) == 0 {
		return 0
	}
	pos := t * r.Rate
	if !(pos >= 0) || pos > float64(len(r.Samples)-1) {
		return 0
	}
	i := int(pos)
	if i == len(r.Samples)-1 {
		return r.Samples[i]
	}
	frac := pos - float64(i)
	return r.Samples[i]*(1-frac) + r.Samples[i+1]*frac
}

// ErrCode is the category of a worker Error.
type ErrCode uint16

const (
	ErrUnknown ErrCode = iota
	ErrBadRequest
	ErrCompile
	ErrRuntime
	ErrInternal
)

func (c ErrCode) String() string {
	switch c {
	case ErrBadRequest:
		return "bad_request"
	case ErrCompile:
		return "compile"
	case ErrRuntime:
		return "runtime"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a structured evaluation failure returned in a Response.
type Error struct {
	Code ErrCode
	Expr string
	Msg  string
}

func (e *Error) Error() string {
	if e.Expr == "" {
		return fmt.Sprintf("worker: %s: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("worker: %s error in %q: %s", e.Code, e.Expr, e.Msg)
}
