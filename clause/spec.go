package clause

import (
	"errors"
	"fmt"

	"github.com/gogpu/fnplot/interp"
)

var (
	// ErrAmbiguous marks a clause that matches no grammar rule.
	ErrAmbiguous = errors.New("clause: no grammar rule matches")

	// ErrReserved marks a binding whose name shadows a math table entry
	// or an independent variable.
	ErrReserved = errors.New("clause: name is reserved")
)

// Kind is the plot type of a clause.
type Kind uint8

const (
	Unknown Kind = iota
	Linear
	LinearHorizontal
	Polar
	Parametric
	Sound
	List
	Affect
)

var kindInfo = [...]struct {
	name, symbol, variable string
	exprs                  int
}{
	Unknown:          {"unknown", "?", "", 1},
	Linear:           {"linear", "y", "x", 1},
	LinearHorizontal: {"linear-horizontal", "x", "y", 1},
	Polar:            {"polar", "r", "o", 1},
	Parametric:       {"parametric", "{}", "t", 2},
	Sound:            {"sound", "s", "t", 1},
	List:             {"list", "[]", "", 1},
	Affect:           {"affect", "=", "", 2},
}

func (k Kind) String() string {
	if int(k) < len(kindInfo) {
		return kindInfo[k].name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Symbol returns the short plot-kind symbol shown next to a clause.
func (k Kind) Symbol() string {
	if int(k) < len(kindInfo) {
		return kindInfo[k].symbol
	}
	return "?"
}

// Var returns the independent variable sub-expressions of kind k are
// written in, or "" when they take none.
func (k Kind) Var() string {
	if int(k) < len(kindInfo) {
		return kindInfo[k].variable
	}
	return ""
}

// ExprCount returns the number of sub-expressions a clause of kind k has.
func (k Kind) ExprCount() int {
	if int(k) < len(kindInfo) {
		return kindInfo[k].exprs
	}
	return 1
}

// RenderMode selects how densely a clause is sampled.
type RenderMode uint8

const (
	Auto RenderMode = iota
	Size
	Adaptive
	FFT
	IFFT
)

var renderNames = [...]string{Auto: "auto", Size: "size", Adaptive: "adaptive", FFT: "fft", IFFT: "ifft"}

func (m RenderMode) String() string {
	if int(m) < len(renderNames) {
		return renderNames[m]
	}
	return fmt.Sprintf("RenderMode(%d)", m)
}

// Audio reports whether m samples in the audio domain.
func (m RenderMode) Audio() bool {
	return m == FFT || m == IFFT
}

// DrawMode is how the drawer renders the evaluated points.
type DrawMode uint8

const (
	Line DrawMode = iota
	Dot
	PointMark
	Cross
)

var drawNames = [...]string{Line: "line", Dot: "dot", PointMark: "point", Cross: "cross"}

func (m DrawMode) String() string {
	if int(m) < len(drawNames) {
		return drawNames[m]
	}
	return fmt.Sprintf("DrawMode(%d)", m)
}

func lookup(names []string, word string) (int, bool) {
	for i, n := range names {
		if n == word {
			return i, true
		}
	}
	return 0, false
}

// Domain is an explicit [Min, Max] range of the independent variable.
type Domain struct {
	Min, Max float64
}

// Spec is the parsed form of one clause.
type Spec struct {
	Kind Kind

	// Exprs holds the sub-expressions, trimmed but otherwise verbatim:
	// one for most kinds, {x, y} for Parametric and {name, value} for
	// Affect.
	Exprs []string

	// Domain and Samples are nil/0 when not set by an annotation; the
	// sample generator then falls back to viewport defaults.
	Domain  *Domain
	Samples int

	Render RenderMode
	Draw   DrawMode
	Interp interp.Kind

	// Recordings lists the 1-based recording indices referenced with
	// $recN(...), in order of first use.
	Recordings []int

	// Duration (seconds) and Rate (Hz) are set for Sound clauses.
	Duration, Rate float64

	Raw     string
	Comment string
	Err     error
}

// Name returns the bound identifier of an Affect clause.
func (s *Spec) Name() string {
	if s.Kind == Affect && len(s.Exprs) == 2 {
		return s.Exprs[0]
	}
	return ""
}

// Validate checks the structural invariants of s.
func (s *Spec) Validate() error {
	if len(s.Exprs) != s.Kind.ExprCount() {
		return fmt.Errorf("clause: %s takes %d sub-expressions, got %d", s.Kind, s.Kind.ExprCount(), len(s.Exprs))
	}
	if s.Domain != nil && !(s.Domain.Min < s.Domain.Max) {
		return fmt.Errorf("clause: empty domain [%v,%v]", s.Domain.Min, s.Domain.Max)
	}
	if s.Samples < 0 {
		return fmt.Errorf("clause: negative sample count %d", s.Samples)
	}
	return nil
}
