package fnplot

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/sample"
	"github.com/gogpu/fnplot/viewport"
	"github.com/gogpu/fnplot/worker"
)

// ErrNoRecording is reported on a Result whose clause references a
// recording that was never stored.
var ErrNoRecording = errors.New("fnplot: no such recording")

// Result is the evaluation of one clause.
type Result struct {
	// Index is the clause's slot: its position in the input.
	Index int

	// Generation identifies the Plot call that produced the result.
	// Later calls have larger generations.
	Generation uint64

	// Spec is the parsed clause, nil for a blank clause.
	Spec *clause.Spec

	// Min, Max and Count describe the sampled domain.
	Min, Max float64
	Count    int

	// Output and Skips are the worker's buffers: coordinate pairs for
	// plotted kinds, one amplitude per sample for sound.
	Output []float64
	Skips  []int

	// Value is the bound value of an affect clause.
	Value float64

	// Err is the first failure of the slot: a parse ambiguity, a sampling
	// error, a *worker.Error or a transport error.
	Err error
}

// Points returns the output as points, or nil for kinds that do not
// produce coordinate pairs.
func (r *Result) Points() []viewport.Point {
	if r.Spec == nil || r.Err != nil {
		return nil
	}
	switch r.Spec.Kind {
	case clause.Sound, clause.Affect:
		return nil
	}
	pts := make([]viewport.Point, len(r.Output)/2)
	for i := range pts {
		pts[i] = viewport.Pt(r.Output[2*i], r.Output[2*i+1])
	}
	return pts
}

// Segments splits the points at skipped samples into runs that can each
// be drawn as one polyline.
func (r *Result) Segments() [][]viewport.Point {
	pts := r.Points()
	if pts == nil {
		return nil
	}
	var segs [][]viewport.Point
	start := 0
	for _, k := range r.Skips {
		if k > start {
			segs = append(segs, pts[start:k])
		}
		start = k + 1
	}
	if start < len(pts) {
		segs = append(segs, pts[start:])
	}
	return segs
}

// Engine plots multi-clause function input. It parses clauses, resolves
// their sample domains and evaluates them on per-slot workers.
//
// Thread safety: Engine is safe for concurrent use. Concurrent Plot calls
// are ordered by generation and Latest keeps the newest result per slot.
type Engine struct {
	parser clause.Parser
	cfg    sample.Config
	reg    *worker.Registry
	owned  bool

	gen atomic.Uint64

	mu     sync.Mutex
	recs   []worker.Recording
	latest map[int]*Result
	slots  int
	slotAt uint64 // generation that set slots
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		parser: clause.Parser{SampleRate: o.sampleRate},
		cfg:    o.sample,
		reg:    o.registry,
		latest: make(map[int]*Result),
	}
	if e.reg == nil {
		e.reg = worker.NewRegistry()
		e.owned = true
	}
	return e
}

// Parse classifies one clause with the engine's parser settings.
func (e *Engine) Parse(text string) *clause.Spec {
	return e.parser.Parse(text)
}

// Plot evaluates every semicolon-separated clause of input over vp and
// returns one Result per clause, in input order.
//
// Affect clauses are evaluated first, in order; each finite value is
// visible to the clauses after it. The remaining clauses are evaluated
// concurrently. A failing clause never stops its siblings: its Result
// carries the error. Plot itself fails only for an invalid viewport or
// when ctx ends, in which case unfinished Results carry ctx's error.
func (e *Engine) Plot(ctx context.Context, input string, vp viewport.Viewport) ([]*Result, error) {
	if err := vp.Validate(); err != nil {
		return nil, fmt.Errorf("fnplot: %w", err)
	}
	gen := e.gen.Add(1)
	log := Logger().With("generation", gen)

	texts := clause.Split(input)
	results := make([]*Result, len(texts))
	scopes := make([]map[string]float64, len(texts))

	bindings := make(map[string]float64)
	for i, text := range texts {
		r := &Result{Index: i, Generation: gen}
		results[i] = r
		if strings.TrimSpace(text) == "" {
			continue
		}
		r.Spec = e.parser.Parse(text)
		if r.Spec.Err != nil {
			r.Err = r.Spec.Err
			continue
		}
		scopes[i] = maps.Clone(bindings)
		if r.Spec.Kind != clause.Affect {
			continue
		}
		if err := e.evaluate(ctx, r, vp, scopes[i]); err != nil {
			return e.finish(gen, results, err)
		}
		if r.Err == nil && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
			bindings[r.Spec.Name()] = r.Value
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range results {
		if r.Spec == nil || r.Err != nil || r.Spec.Kind == clause.Affect {
			continue
		}
		g.Go(func() error {
			return e.evaluate(gctx, r, vp, scopes[i])
		})
	}
	err := g.Wait()
	if err != nil {
		log.Debug("fnplot: plot interrupted", "err", err)
	}
	return e.finish(gen, results, err)
}

// evaluate fills r by sampling its clause and running it on the slot's
// worker. Slot-local failures are stored in r.Err; only transport errors
// are returned.
func (e *Engine) evaluate(ctx context.Context, r *Result, vp viewport.Viewport, bindings map[string]float64) error {
	if err := r.Spec.Validate(); err != nil {
		r.Err = err
		return nil
	}
	d, err := sample.Generate(r.Spec, vp, e.cfg)
	if err != nil {
		r.Err = err
		return nil
	}
	r.Min, r.Max, r.Count = d.Min, d.Max, d.Count

	recs, err := e.recordings(r.Spec.Recordings)
	if err != nil {
		r.Err = err
		return nil
	}

	resp, err := e.reg.Evaluate(ctx, &worker.Request{
		Index:    r.Index,
		Kind:     r.Spec.Kind,
		Exprs:    r.Spec.Exprs,
		Input:    d.Input,
		Recs:     recs,
		Bindings: bindings,
		Interp:   r.Spec.Interp,
	})
	if err != nil {
		r.Err = err
		return err
	}
	if resp.Err != nil {
		r.Err = resp.Err
		return nil
	}
	r.Output, r.Skips = resp.Output, resp.Skips
	if r.Spec.Kind == clause.Affect && len(resp.Output) == 1 {
		r.Value = resp.Output[0]
	}
	return nil
}

// finish publishes results as the latest of their slots unless a newer
// generation got there first.
func (e *Engine) finish(gen uint64, results []*Result, err error) ([]*Result, error) {
	if err != nil {
		for _, r := range results {
			if r.Err == nil && r.Output == nil && r.Spec != nil {
				r.Err = err
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen >= e.slotAt {
		e.slots, e.slotAt = len(results), gen
	}
	for _, r := range results {
		if cur, ok := e.latest[r.Index]; ok && cur.Generation > gen {
			continue
		}
		e.latest[r.Index] = r
	}
	return results, err
}

// Latest returns the newest Result of every slot of the most recent
// input, so a slow evaluation of an older input never replaces a newer
// one.
func (e *Engine) Latest() []*Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Result, 0, e.slots)
	for i := 0; i < e.slots; i++ {
		if r, ok := e.latest[i]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Record stores an audio buffer sampled at rate Hz and returns its
// 1-based index, addressable in clauses as $recN(t).
func (e *Engine) Record(samples []float64, rate float64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recs = append(e.recs, worker.Recording{Samples: slices.Clone(samples), Rate: rate})
	return len(e.recs)
}

// RecordResult stores the output of a sound Result as a recording. The
// recording's rate is the rate the clause was actually sampled at.
func (e *Engine) RecordResult(r *Result) (int, error) {
	if r.Spec == nil || r.Spec.Kind != clause.Sound || r.Err != nil || r.Count < 2 {
		return 0, fmt.Errorf("fnplot: slot %d has no sound output", r.Index)
	}
	return e.Record(r.Output, float64(r.Count-1)/(r.Max-r.Min)), nil
}

func (e *Engine) recordings(refs []int) (map[int]worker.Recording, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	recs := make(map[int]worker.Recording, len(refs))
	for _, n := range refs {
		if n < 1 || n > len(e.recs) {
			return nil, fmt.Errorf("%w: $rec%d", ErrNoRecording, n)
		}
		recs[n] = e.recs[n-1]
	}
	return recs, nil
}

// Close stops the engine's workers. It does not close a registry passed
// with WithRegistry.
func (e *Engine) Close() {
	if e.owned {
		e.reg.Close()
	}
}
