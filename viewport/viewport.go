// Package viewport maps between canvas pixels and plot data coordinates.
//
// Pixel space has its origin at the top-left corner of the canvas with y
// growing downward; data space has y growing upward. Each axis maps
// independently and linearly, so every transform is an affine Matrix with
// only scale and translation terms.
package viewport

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned for a viewport with an empty axis or canvas.
var ErrInvalid = errors.New("viewport: invalid region")

// Axis is the visible data range along one axis plus an optional sample
// count hint (0 when absent).
type Axis struct {
	Min, Max float64
	Samples  int
}

// Span returns Max - Min.
func (a Axis) Span() float64 {
	return a.Max - a.Min
}

// Viewport is the visible data rectangle together with the canvas size in
// pixels. It is a value: pan and zoom return new viewports.
type Viewport struct {
	X, Y          Axis
	Width, Height float64
}

// New creates a viewport showing [xmin,xmax]×[ymin,ymax] on a w×h canvas.
func New(xmin, xmax, ymin, ymax, w, h float64) Viewport {
	return Viewport{
		X:      Axis{Min: xmin, Max: xmax},
		Y:      Axis{Min: ymin, Max: ymax},
		Width:  w,
		Height: h,
	}
}

// Validate reports whether both axes have positive span and the canvas
// has positive size.
func (v Viewport) Validate() error {
	if !(v.X.Span() > 0) || !(v.Y.Span() > 0) {
		return fmt.Errorf("%w: x=[%v,%v] y=[%v,%v]", ErrInvalid, v.X.Min, v.X.Max, v.Y.Min, v.Y.Max)
	}
	if !(v.Width > 0) || !(v.Height > 0) {
		return fmt.Errorf("%w: canvas %vx%v", ErrInvalid, v.Width, v.Height)
	}
	return nil
}

// DataToPixelMatrix returns the map from data to pixel space. Pixel y
// grows downward, so Y.Max lands on row 0.
func (v Viewport) DataToPixelMatrix() Matrix {
	sx := v.Width / v.X.Span()
	sy := -v.Height / v.Y.Span()
	return Matrix{SX: sx, SY: sy, TX: -sx * v.X.Min, TY: -sy * v.Y.Max}
}

// PixelToDataMatrix returns the affine map from pixel to data space.
func (v Viewport) PixelToDataMatrix() Matrix {
	return v.DataToPixelMatrix().Invert()
}

// DataToPixel maps a data coordinate to canvas pixels.
func (v Viewport) DataToPixel(p Point) Point {
	return v.DataToPixelMatrix().Apply(p)
}

// PixelToData maps a canvas pixel to data coordinates.
func (v Viewport) PixelToData(p Point) Point {
	return v.PixelToDataMatrix().Apply(p)
}

// DataToPixelDelta maps a data-space displacement to pixels.
func (v Viewport) DataToPixelDelta(d Point) Point {
	return v.DataToPixelMatrix().ApplyDelta(d)
}

// PixelToDataDelta maps a pixel displacement to data space.
func (v Viewport) PixelToDataDelta(d Point) Point {
	return v.PixelToDataMatrix().ApplyDelta(d)
}

// Pan returns the viewport after dragging the canvas content by a pixel
// displacement d.
func (v Viewport) Pan(d Point) Viewport {
	dd := v.PixelToDataDelta(d)
	v.X.Min -= dd.X
	v.X.Max -= dd.X
	v.Y.Min -= dd.Y
	v.Y.Max -= dd.Y
	return v
}

// Zoom returns the viewport scaled by factor around the pixel center;
// factors above 1 zoom in. The data point under center stays in place.
func (v Viewport) Zoom(factor float64, center Point) Viewport {
	if !(factor > 0) {
		return v
	}
	c := v.PixelToData(center)
	v.X.Min = c.X + (v.X.Min-c.X)/factor
	v.X.Max = c.X + (v.X.Max-c.X)/factor
	v.Y.Min = c.Y + (v.Y.Min-c.Y)/factor
	v.Y.Max = c.Y + (v.Y.Max-c.Y)/factor
	return v
}
