// Package fnplot is a function-plotting engine.
//
// # Overview
//
// fnplot turns text such as
//
//	y = sin(x); r = 1 + cos(o) @/dot; {x = cos(3*t), y = sin(2*t)} @0->tau
//
// into sampled coordinate buffers ready to be drawn. Each semicolon
// separated clause is a slot: it is parsed on its own, sampled over a
// domain derived from the viewport, and evaluated on a dedicated worker.
// A clause that fails never stops its siblings.
//
// # Quick Start
//
//	e := fnplot.New()
//	defer e.Close()
//
//	vp := viewport.New(-10, 10, -10, 10, 800, 600)
//	results, err := e.Plot(ctx, "y = x^2; a = 3; y = a * sin(x)", vp)
//	if err != nil {
//	    return err
//	}
//	for _, r := range results {
//	    if r.Err != nil {
//	        // flag slot r.Index, keep drawing the others
//	        continue
//	    }
//	    for _, seg := range r.Segments() {
//	        // draw seg as one polyline, mapped with vp.DataToPixel
//	    }
//	}
//
// # Clause grammar
//
//	y = f(x)                     linear
//	x = f(y)                     linear, horizontal
//	r = f(o)                     polar
//	{x = f(t), y = g(t)}         parametric
//	s = f(t)                     sound, or s(dur, rate) = f(t)
//	[] = [y0, y1, ...]           list, or [[x0, y0], ...]
//	name = expr                  binding visible to later clauses
//
// Annotations start with '@': @!N sets the sample count, @a->b the domain,
// @auto @size @adaptive @fft @ifft the rendering mode, @/line @/dot
// @/point @/cross the draw mode, @$cubic (and quadratic, lagrange,
// trigonometric, linear) the list interpolation, and @@ starts a comment.
//
// # Architecture
//
// The library is organized into:
//   - clause: classification of clause text
//   - sample: domain and sample count resolution
//   - worker: per-slot evaluation workers with correlation ids
//   - calc: sandboxed expression compilation and the math table
//   - interp: list interpolation
//   - viewport: data/pixel transforms and tick selection
//
// # Coordinate System
//
// Data space has y increasing upward. Pixel space has its origin at the
// top-left with y increasing down.
package fnplot

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
