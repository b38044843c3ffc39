package viewport

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"
)

// DefaultMaxSpacing is the default upper bound, in pixels, on the
// distance between adjacent ticks.
const DefaultMaxSpacing = 100

// Ticks is a set of evenly spaced axis ticks.
type Ticks struct {
	Step      float64
	Values    []float64
	Precision int // decimal places that tell adjacent labels apart
}

// Label formats v with the tick set's precision.
func (t Ticks) Label(v float64) string {
	return strconv.FormatFloat(v, 'f', t.Precision, 64)
}

// XTicks returns the ticks for the horizontal axis.
func (v Viewport) XTicks(maxSpacing float64) Ticks {
	return AxisTicks(v.X, v.Width, maxSpacing)
}

// YTicks returns the ticks for the vertical axis.
func (v Viewport) YTicks(maxSpacing float64) Ticks {
	return AxisTicks(v.Y, v.Height, maxSpacing)
}

// AxisTicks picks a tick step for axis a drawn across pixels pixels.
//
// Starting from a power of ten, the step is halved and then quartered
// (10, 5, 2.5, 1, 0.5, ...) until adjacent ticks are less than maxSpacing
// pixels apart. Axes are handled independently. A non-positive maxSpacing
// selects DefaultMaxSpacing.
func AxisTicks(a Axis, pixels, maxSpacing float64) Ticks {
	span := a.Span()
	if !(span > 0) || !(pixels > 0) || math.IsInf(span, 0) {
		return Ticks{}
	}
	if !(maxSpacing > 0) {
		maxSpacing = DefaultMaxSpacing
	}
	perUnit := pixels / span
	guess := 3 * int(math.Floor(math.Log10(span)))
	opts := scale.TickOptions{
		// Below one tick per pixel nothing is readable.
		Max:      int(pixels) + 2,
		MinLevel: guess - 60,
		MaxLevel: guess + 60,
	}
	level, ok := opts.FindLevel(axisTicker{a}, guess)
	if !ok {
		level = guess
	}
	// level is the finest legible step; coarsen while the next step up
	// still stays under maxSpacing.
	for tickStep(level+1)*perUnit < maxSpacing {
		level++
	}

	step := tickStep(level)
	return Ticks{
		Step:      step,
		Values:    tickValues(a, step),
		Precision: precision(step),
	}
}

// axisTicker implements scale.Ticker over the steps of tickStep.
type axisTicker struct {
	a Axis
}

func (t axisTicker) CountTicks(level int) int {
	step := tickStep(level)
	n := math.Floor(t.a.Max/step) - math.Ceil(t.a.Min/step) + 1
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Max(n, 0))
}

func (t axisTicker) TicksAtLevel(level int) interface{} {
	return tickValues(t.a, tickStep(level))
}

// tickStep returns the step at level: levels advance through the
// mantissas 1, 2.5 and 5 of each decade.
func tickStep(level int) float64 {
	decade := level / 3
	r := level % 3
	if r < 0 {
		r += 3
		decade--
	}
	return [...]float64{1, 2.5, 5}[r] * math.Pow(10, float64(decade))
}

func tickValues(a Axis, step float64) []float64 {
	lo := math.Ceil(a.Min / step)
	hi := math.Floor(a.Max / step)
	if hi < lo {
		return nil
	}
	vals := make([]float64, 0, int(hi-lo)+1)
	for k := lo; k <= hi; k++ {
		v := k * step
		if v == 0 {
			v = 0 // normalize -0
		}
		vals = append(vals, v)
	}
	return vals
}

// precision returns the number of decimals needed to print multiples of
// step exactly.
func precision(step float64) int {
	for p := 0; p < 17; p++ {
		s := step * math.Pow(10, float64(p))
		if math.Abs(s-math.Round(s)) <= 1e-9*math.Max(1, math.Abs(s)) {
			return p
		}
	}
	return 17
}
