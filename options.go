package fnplot

import (
	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/sample"
	"github.com/gogpu/fnplot/worker"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Defaults: 1024-sample budget, 48 kHz sound
//	e := fnplot.New()
//
//	// Denser curves and CD-rate audio
//	e := fnplot.New(fnplot.WithBudget(4096), fnplot.WithSampleRate(44100))
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	sample     sample.Config
	sampleRate float64
	registry   *worker.Registry
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		sample:     sample.DefaultConfig(),
		sampleRate: clause.DefaultSampleRate,
	}
}

// WithBudget sets the number of samples used by auto and adaptive
// rendering when the viewport gives no per-axis hint. Non-positive values
// keep the default.
func WithBudget(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sample.Budget = n
		}
	}
}

// WithMaxSamples caps every resolved sample count. Non-positive values
// keep the default.
func WithMaxSamples(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sample.MaxSamples = n
		}
	}
}

// WithSampleRate sets the rate, in Hz, of sound clauses that do not name
// one. Rates outside [clause.MinSampleRate, clause.MaxSampleRate] are
// ignored.
func WithSampleRate(hz float64) Option {
	return func(o *options) {
		if hz >= clause.MinSampleRate && hz <= clause.MaxSampleRate {
			o.sampleRate = hz
		}
	}
}

// WithRegistry makes the Engine evaluate through an existing worker
// registry, so several engines can share warm workers. The caller keeps
// ownership: Engine.Close does not close r.
func WithRegistry(r *worker.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}
