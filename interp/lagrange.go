package interp

import "math"

// Lagrange evaluates the global Lagrange polynomial through every point of
// a run, in direct product form. Each generated sample costs O(len(run)^2),
// so it suits small point sets only.
func Lagrange(pts []Point, n int) []Point {
	return byRuns(pts, n, func(run []Point, n int) []Point {
		return global(run, n, func(a, b float64) float64 { return a - b })
	})
}

// Trigonometric is Lagrange with sine differences sin((a-b)/2) in place of
// a-b, which fits periodic data with period 2π.
func Trigonometric(pts []Point, n int) []Point {
	return byRuns(pts, n, func(run []Point, n int) []Point {
		return global(run, n, func(a, b float64) float64 { return math.Sin((a - b) / 2) })
	})
}

func global(pts []Point, n int, diff func(a, b float64) float64) []Point {
	return perSegment(pts, n, func(i int, s float64) Point {
		x := pts[i].X + s*(pts[i+1].X-pts[i].X)
		var y float64
		for j, pj := range pts {
			w := 1.0
			for k, pk := range pts {
				if k != j {
					w *= diff(x, pk.X) / diff(pj.X, pk.X)
				}
			}
			y += pj.Y * w
		}
		return Point{X: x, Y: y}
	})
}
