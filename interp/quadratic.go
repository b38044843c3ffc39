package interp

// Quadratic interpolates with one quadratic per segment. The slope at each
// knot follows the forward-difference recurrence z[i+1] = 2*d[i] - z[i],
// starting from the first segment's secant, so the curve is C1.
func Quadratic(pts []Point, n int) []Point {
	if len(pts) < 2 {
		return append([]Point(nil), pts...)
	}
	z := make([]float64, len(pts))
	first := true
	for i := 0; i < len(pts)-1; i++ {
		h := pts[i+1].X - pts[i].X
		if h == 0 {
			// Restart the recurrence after a zero-width segment.
			z[i+1] = 0
			first = true
			continue
		}
		slope := (pts[i+1].Y - pts[i].Y) / h
		if first {
			z[i] = slope
			first = false
		}
		z[i+1] = 2*slope - z[i]
	}
	return perSegment(pts, n, func(i int, s float64) Point {
		h := pts[i+1].X - pts[i].X
		dx := s * h
		y := pts[i].Y + z[i]*dx + (z[i+1]-z[i])/(2*h)*dx*dx
		return Point{X: pts[i].X + dx, Y: y}
	})
}
