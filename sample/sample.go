// Package sample resolves where and how densely a clause is evaluated.
package sample

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"

	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/internal/plotlog"
	"github.com/gogpu/fnplot/viewport"
)

const (
	// DefaultBudget is the sample count used by auto and adaptive
	// rendering when the viewport gives no hint. It is independent of
	// the canvas size so redraws stay cheap on large screens.
	DefaultBudget = 1024

	// DefaultMaxSamples caps every resolved sample count.
	DefaultMaxSamples = 1 << 23
)

// ErrUnsupported is returned for clauses that cannot be sampled.
var ErrUnsupported = errors.New("sample: clause kind cannot be sampled")

// ErrEmptyDomain is returned when the resolved domain is empty or not
// finite.
var ErrEmptyDomain = errors.New("sample: empty domain")

// Config holds the design constants of the generator.
type Config struct {
	Budget     int
	MaxSamples int
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{Budget: DefaultBudget, MaxSamples: DefaultMaxSamples}
}

// Descriptor is a resolved sampling job: Count evenly spaced values of the
// independent variable over [Min, Max], both ends included.
type Descriptor struct {
	Kind     clause.Kind
	Min, Max float64
	Count    int
	Input    []float64
}

// Generate resolves the domain and sample count of s, preferring the
// clause's own overrides over viewport-derived defaults, and builds the
// input buffer.
func Generate(s *clause.Spec, vp viewport.Viewport, cfg Config) (*Descriptor, error) {
	if s.Kind == clause.Unknown {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, s.Kind)
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultBudget
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = DefaultMaxSamples
	}

	lo, hi := domain(s, vp)
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("%w: %s [%v,%v]", ErrEmptyDomain, s.Kind, lo, hi)
	}

	n := s.Samples
	if n <= 0 {
		n = count(s, vp, cfg)
	}
	if n > cfg.MaxSamples {
		plotlog.L().Warn("sample: clamping sample count", "count", n, "max", cfg.MaxSamples)
		n = cfg.MaxSamples
	}
	if n < 1 {
		n = 1
	}

	return &Descriptor{
		Kind:  s.Kind,
		Min:   lo,
		Max:   hi,
		Count: n,
		Input: Linspace(lo, hi, n),
	}, nil
}

func domain(s *clause.Spec, vp viewport.Viewport) (lo, hi float64) {
	if s.Domain != nil {
		return s.Domain.Min, s.Domain.Max
	}
	switch s.Kind {
	case clause.Linear, clause.List:
		return vp.X.Min, vp.X.Max
	case clause.LinearHorizontal:
		return vp.Y.Min, vp.Y.Max
	case clause.Polar:
		return 0, 2 * math.Pi
	case clause.Sound:
		if s.Duration > 0 {
			return 0, s.Duration
		}
		return 0, 1
	}
	return 0, 1
}

func count(s *clause.Spec, vp viewport.Viewport, cfg Config) int {
	if s.Kind == clause.Affect {
		return 1
	}
	if s.Kind == clause.Sound && s.Render.Audio() {
		return int(math.Round(s.Duration * s.Rate))
	}

	var pixels float64
	var hint int
	switch s.Kind {
	case clause.LinearHorizontal:
		pixels, hint = vp.Height, vp.Y.Samples
	case clause.Polar, clause.Parametric:
		pixels, hint = math.Min(vp.Width, vp.Height), minHint(vp.X.Samples, vp.Y.Samples)
	default:
		pixels, hint = vp.Width, vp.X.Samples
	}

	if s.Render == clause.Size && pixels >= 1 {
		return int(math.Round(pixels))
	}
	if hint > 0 {
		return hint
	}
	return cfg.Budget
}

// minHint returns the smaller positive hint, or 0 if neither is set.
func minHint(a, b int) int {
	switch {
	case a <= 0:
		return max(b, 0)
	case b <= 0:
		return a
	}
	return min(a, b)
}

// Linspace returns n evenly spaced values over [lo, hi] whose first and
// last elements are exactly lo and hi.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	buf := vec.Linspace(lo, hi, n)
	buf[0], buf[n-1] = lo, hi
	return buf
}
