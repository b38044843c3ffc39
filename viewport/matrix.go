package viewport

// Point is a position in either pixel or data space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Matrix is an axis-aligned affine map: each axis is scaled and then
// shifted independently, x' = SX*x + TX and y' = SY*y + TY. Mappings
// between data and pixel space never rotate or shear.
type Matrix struct {
	SX, SY float64
	TX, TY float64
}

// Apply maps a point.
func (m Matrix) Apply(p Point) Point {
	return Point{X: m.SX*p.X + m.TX, Y: m.SY*p.Y + m.TY}
}

// ApplyDelta maps a displacement, ignoring the translation.
func (m Matrix) ApplyDelta(d Point) Point {
	return Point{X: m.SX * d.X, Y: m.SY * d.Y}
}

// Invert returns the inverse map. Both scales must be non-zero.
func (m Matrix) Invert() Matrix {
	return Matrix{
		SX: 1 / m.SX, SY: 1 / m.SY,
		TX: -m.TX / m.SX, TY: -m.TY / m.SY,
	}
}
