// Package interp reconstructs dense curves from sparse point sequences.
//
// Every function takes points ordered by X and a per-segment subdivision
// count n, and returns a new slice holding every original point, unmodified
// and in order, with n-1 generated points inserted into each segment of
// non-zero width. Two consecutive points with equal X form a zero-width
// segment that is passed through as is; the global methods (Cubic,
// Lagrange, Trigonometric) treat such a segment as a break and fit the runs
// on either side independently.
package interp

import "fmt"

// Point is a sample of a curve.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Kind selects an interpolation method.
type Kind uint8

const (
	KindNone Kind = iota
	KindCubic
	KindQuadratic
	KindLagrange
	KindTrigonometric
	KindLinear
)

var kindNames = [...]string{
	KindNone:          "none",
	KindCubic:         "cubic",
	KindQuadratic:     "quadratic",
	KindLagrange:      "lagrange",
	KindTrigonometric: "trigonometric",
	KindLinear:        "linear",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a method name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNone, false
}

// Apply runs the method selected by k. KindNone returns a copy of pts.
func Apply(k Kind, pts []Point, n int) []Point {
	switch k {
	case KindCubic:
		return Cubic(pts, n)
	case KindQuadratic:
		return Quadratic(pts, n)
	case KindLagrange:
		return Lagrange(pts, n)
	case KindTrigonometric:
		return Trigonometric(pts, n)
	case KindLinear:
		return Linear(pts, n)
	}
	return append([]Point(nil), pts...)
}

// Linear joins consecutive points with straight lines.
func Linear(pts []Point, n int) []Point {
	return perSegment(pts, n, func(i int, s float64) Point {
		return pts[i].Lerp(pts[i+1], s)
	})
}

// perSegment walks the segments of pts and inserts n-1 points into every
// segment of non-zero width, computed by at(i, s) for s in (0, 1).
func perSegment(pts []Point, n int, at func(i int, s float64) Point) []Point {
	if len(pts) < 2 || n <= 1 {
		return append([]Point(nil), pts...)
	}
	out := make([]Point, 0, len(pts)+(len(pts)-1)*(n-1))
	for i := 0; i < len(pts)-1; i++ {
		out = append(out, pts[i])
		if pts[i].X == pts[i+1].X {
			continue
		}
		for k := 1; k < n; k++ {
			out = append(out, at(i, float64(k)/float64(n)))
		}
	}
	return append(out, pts[len(pts)-1])
}

// runs splits pts at zero-width segments. Each run has strictly distinct
// consecutive X values; adjacent runs do not share points.
func runs(pts []Point) [][]Point {
	var rs [][]Point
	start := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].X == pts[i-1].X {
			rs = append(rs, pts[start:i])
			start = i
		}
	}
	return append(rs, pts[start:])
}

// byRuns applies fit to every run of pts and concatenates the results.
func byRuns(pts []Point, n int, fit func(run []Point, n int) []Point) []Point {
	if len(pts) < 2 || n <= 1 {
		return append([]Point(nil), pts...)
	}
	out := make([]Point, 0, len(pts)+(len(pts)-1)*(n-1))
	for _, run := range runs(pts) {
		out = append(out, fit(run, n)...)
	}
	return out
}
