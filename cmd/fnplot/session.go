package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/kballard/go-shellquote"

	"github.com/gogpu/fnplot"
	"github.com/gogpu/fnplot/calc"
	"github.com/gogpu/fnplot/clause"
	"github.com/gogpu/fnplot/viewport"
)

const helpText = `commands:
  :view XMIN XMAX YMIN YMAX   set the visible data range
  :size WIDTH HEIGHT          set the canvas size in pixels
  :pan DX DY                  drag the content by a pixel offset
  :zoom FACTOR                zoom around the canvas center
  :ticks [SPACING]            print the axis ticks
  :table on|off               print samples or summaries
  :rec SLOT                   store a sound slot's output as a recording
  :funcs                      list the functions and constants
  :help                       show this help
  :quit                       leave
`

// session is the state of one interactive or one-shot run.
type session struct {
	engine *fnplot.Engine
	vp     viewport.Viewport
	table  bool
	out    io.Writer
}

// plot evaluates input and prints one block per clause.
func (s *session) plot(ctx context.Context, input string) error {
	results, err := s.engine.Plot(ctx, input, s.vp)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := s.print(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) print(r *fnplot.Result) error {
	switch {
	case r.Spec == nil:
		return nil
	case r.Err != nil:
		_, err := fmt.Fprintf(s.out, "[%d] %s: error: %v\n", r.Index, r.Spec.Kind.Symbol(), r.Err)
		return err
	case r.Spec.Kind == clause.Affect:
		_, err := fmt.Fprintf(s.out, "[%d] %s = %g\n", r.Index, r.Spec.Name(), r.Value)
		return err
	}

	_, err := fmt.Fprintf(s.out, "[%d] %s %s over [%g, %g]: %d samples, %d skipped\n",
		r.Index, r.Spec.Kind, r.Spec.Kind.Symbol(), r.Min, r.Max, r.Count, len(r.Skips))
	if err != nil || !s.table {
		return err
	}
	return table.Fprint(s.out, resultTable(r))
}

// resultTable lays a result out as columns for printing.
func resultTable(r *fnplot.Result) *table.Table {
	if r.Spec.Kind == clause.Sound {
		t := make([]float64, len(r.Output))
		for i := range t {
			t[i] = r.Min + (r.Max-r.Min)*float64(i)/float64(max(len(t)-1, 1))
		}
		return new(table.Builder).Add("t", t).Add("s", r.Output).Done()
	}
	pts := r.Points()
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return new(table.Builder).Add("x", xs).Add("y", ys).Done()
}

// command runs one ':' command line and reports whether the session
// should end.
func (s *session) command(line string) (quit bool, err error) {
	args, err := shellquote.Split(strings.TrimPrefix(line, ":"))
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, fmt.Errorf("empty command")
	}
	name, args := strings.ToLower(args[0]), args[1:]

	switch name {
	case "quit", "q", "exit":
		return true, nil

	case "help":
		_, err = io.WriteString(s.out, helpText)

	case "funcs":
		_, err = fmt.Fprintln(s.out, strings.Join(calc.Names(), " "))

	case "view":
		var v []float64
		if v, err = floats(args, 4); err == nil {
			err = s.setViewport(viewport.New(v[0], v[1], v[2], v[3], s.vp.Width, s.vp.Height))
		}

	case "size":
		var v []float64
		if v, err = floats(args, 2); err == nil {
			vp := s.vp
			vp.Width, vp.Height = v[0], v[1]
			err = s.setViewport(vp)
		}

	case "pan":
		var v []float64
		if v, err = floats(args, 2); err == nil {
			err = s.setViewport(s.vp.Pan(viewport.Pt(v[0], v[1])))
		}

	case "zoom":
		var v []float64
		if v, err = floats(args, 1); err == nil {
			if !(v[0] > 0) {
				return false, fmt.Errorf("zoom factor must be positive, got %v", v[0])
			}
			err = s.setViewport(s.vp.Zoom(v[0], viewport.Pt(s.vp.Width/2, s.vp.Height/2)))
		}

	case "ticks":
		spacing := float64(viewport.DefaultMaxSpacing)
		if len(args) > 0 {
			var v []float64
			if v, err = floats(args, 1); err != nil {
				return false, err
			}
			spacing = v[0]
		}
		s.printTicks("x", s.vp.XTicks(spacing))
		s.printTicks("y", s.vp.YTicks(spacing))

	case "table":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return false, fmt.Errorf("usage: :table on|off")
		}
		s.table = args[0] == "on"

	case "rec":
		var v []float64
		if v, err = floats(args, 1); err != nil {
			return false, err
		}
		err = s.record(int(v[0]))

	default:
		err = fmt.Errorf("unknown command %q, type :help", name)
	}
	return false, err
}

func (s *session) setViewport(vp viewport.Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	s.vp = vp
	fmt.Fprintf(s.out, "view [%g, %g]×[%g, %g] on %gx%g\n",
		vp.X.Min, vp.X.Max, vp.Y.Min, vp.Y.Max, vp.Width, vp.Height)
	return nil
}

func (s *session) printTicks(axis string, t viewport.Ticks) {
	labels := make([]string, len(t.Values))
	for i, v := range t.Values {
		labels[i] = t.Label(v)
	}
	fmt.Fprintf(s.out, "%s: step %g: %s\n", axis, t.Step, strings.Join(labels, " "))
}

func (s *session) record(slot int) error {
	for _, r := range s.engine.Latest() {
		if r.Index != slot {
			continue
		}
		n, err := s.engine.RecordResult(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "stored slot %d as $rec%d\n", slot, n)
		return nil
	}
	return fmt.Errorf("no result for slot %d", slot)
}

// floats parses exactly n numeric arguments.
func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
