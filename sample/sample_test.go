package sample

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/viewport"
)

func testViewport() viewport.Viewport {
	return viewport.New(-4, 4, -2, 2, 800, 400)
}

func TestGenerateLinearExplicit(t *testing.T) {
	s := clause.Parse("y = x @-1->1 @!3")
	d, err := Generate(s, testViewport(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{-1, 0, 1}; !reflect.DeepEqual(d.Input, want) {
		t.Errorf("Input = %v, want %v", d.Input, want)
	}
	if d.Min != -1 || d.Max != 1 || d.Count != 3 || d.Kind != clause.Linear {
		t.Errorf("Descriptor = %+v", d)
	}
}

func TestGenerateDomains(t *testing.T) {
	vp := testViewport()
	tests := []struct {
		in     string
		lo, hi float64
	}{
		{"y = x", -4, 4},
		{"[] = [1, 2]", -4, 4},
		{"x = y", -2, 2},
		{"r = 1", 0, 2 * math.Pi},
		{"{x = t, y = t}", 0, 1},
		{"s(3) = t", 0, 3},
		{"a = 1", 0, 1},
		{"r = 1 @-1->1", -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := Generate(clause.Parse(tt.in), vp, DefaultConfig())
			if err != nil {
				t.Fatal(err)
			}
			if d.Min != tt.lo || d.Max != tt.hi {
				t.Errorf("domain = [%v,%v], want [%v,%v]", d.Min, d.Max, tt.lo, tt.hi)
			}
			if d.Input[0] != tt.lo || d.Input[len(d.Input)-1] != tt.hi && d.Count > 1 {
				t.Errorf("buffer ends = %v, %v", d.Input[0], d.Input[len(d.Input)-1])
			}
		})
	}
}

func TestGenerateCounts(t *testing.T) {
	vp := testViewport()
	hinted := vp
	hinted.X.Samples, hinted.Y.Samples = 300, 200
	cfg := Config{Budget: 512, MaxSamples: 1 << 20}

	tests := []struct {
		name string
		in   string
		vp   viewport.Viewport
		want int
	}{
		{"auto budget", "y = x", vp, 512},
		{"adaptive budget", "y = x @adaptive", vp, 512},
		{"auto hint", "y = x", hinted, 300},
		{"size width", "y = x @size", vp, 800},
		{"size height", "x = y @size", vp, 400},
		{"size polar", "r = 1 @size", vp, 400},
		{"horizontal hint", "x = y", hinted, 200},
		{"polar min hint", "r = 1", hinted, 200},
		{"parametric one hint", "{x = t, y = t}", func() viewport.Viewport { v := vp; v.X.Samples = 50; return v }(), 50},
		{"sound fft", "s(2, 8000) = t @fft", vp, 16000},
		{"sound ifft", "s(0.5, 4000) = t @ifft", vp, 2000},
		{"sound visual", "s(2, 8000) = t", vp, 512},
		{"affect", "k = 2", hinted, 1},
		{"override", "y = x @!7 @size", vp, 7},
		{"clamped", "s(10, 768000) = t @fft", vp, 1 << 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Generate(clause.Parse(tt.in), tt.vp, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if d.Count != tt.want || len(d.Input) != tt.want {
				t.Errorf("Count = %d (len %d), want %d", d.Count, len(d.Input), tt.want)
			}
		})
	}
}

func TestGenerateEvenlySpaced(t *testing.T) {
	d, err := Generate(clause.Parse("y = x @0->10 @!11"), testViewport(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range d.Input {
		if math.Abs(v-float64(i)) > 1e-12 {
			t.Errorf("Input[%d] = %v, want %d", i, v, i)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(clause.Parse("what"), testViewport(), DefaultConfig()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("unknown clause error = %v, want ErrUnsupported", err)
	}
	var empty viewport.Viewport
	if _, err := Generate(clause.Parse("y = x"), empty, DefaultConfig()); !errors.Is(err, ErrEmptyDomain) {
		t.Errorf("empty viewport error = %v, want ErrEmptyDomain", err)
	}
}

func TestLinspace(t *testing.T) {
	if got := Linspace(2, 5, 1); !reflect.DeepEqual(got, []float64{2}) {
		t.Errorf("Linspace(2,5,1) = %v", got)
	}
	if got := Linspace(0, 1, 0); got != nil {
		t.Errorf("Linspace(0,1,0) = %v, want nil", got)
	}
	got := Linspace(0.1, 0.7, 7)
	if got[0] != 0.1 || got[6] != 0.7 {
		t.Errorf("ends = %v, %v", got[0], got[6])
	}
}
