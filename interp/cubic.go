package interp

// Cubic interpolates with a natural cubic spline (zero second derivative
// at both ends of every run).
func Cubic(pts []Point, n int) []Point {
	return byRuns(pts, n, cubicRun)
}

func cubicRun(pts []Point, n int) []Point {
	if len(pts) < 3 {
		return Linear(pts, n)
	}
	m := secondDerivatives(pts)
	return perSegment(pts, n, func(i int, s float64) Point {
		x0, x1 := pts[i].X, pts[i+1].X
		h := x1 - x0
		x := x0 + s*h
		a, b := x1-x, x-x0
		y := m[i]*a*a*a/(6*h) + m[i+1]*b*b*b/(6*h) +
			(pts[i].Y/h-m[i]*h/6)*a + (pts[i+1].Y/h-m[i+1]*h/6)*b
		return Point{X: x, Y: y}
	})
}

// secondDerivatives solves the natural spline's tridiagonal system with a
// single forward elimination and back substitution pass.
func secondDerivatives(pts []Point) []float64 {
	n := len(pts)
	m := make([]float64, n)
	// c holds the eliminated super-diagonal, d the right-hand side.
	c := make([]float64, n)
	d := make([]float64, n)
	for i := 1; i < n-1; i++ {
		h0 := pts[i].X - pts[i-1].X
		h1 := pts[i+1].X - pts[i].X
		rhs := 6 * ((pts[i+1].Y-pts[i].Y)/h1 - (pts[i].Y-pts[i-1].Y)/h0)
		diag := 2 * (h0 + h1)
		if i > 1 {
			diag -= h0 * c[i-1]
			rhs -= h0 * d[i-1]
		}
		c[i] = h1 / diag
		d[i] = rhs / diag
	}
	for i := n - 2; i >= 1; i-- {
		m[i] = d[i] - c[i]*m[i+1]
	}
	return m
}
