package main

import (
	"bytes"
	"context"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/fnplot"
	"github.com/gogpu/fnplot/viewport"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	e := fnplot.New()
	t.Cleanup(e.Close)
	var buf bytes.Buffer
	return &session{
		engine: e,
		vp:     viewport.New(-10, 10, -10, 10, 800, 600),
		out:    &buf,
	}, &buf
}

// =============================================================================
// Plotting
// =============================================================================

func TestSessionPlotSummary(t *testing.T) {
	s, buf := newSession(t)
	if err := s.plot(context.Background(), "y = x @!5; k = 2; nonsense"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"[0] linear y over [-10, 10]: 5 samples, 0 skipped",
		"[1] k = 2",
		"[2] ?: error:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionPlotTable(t *testing.T) {
	s, buf := newSession(t)
	s.table = true
	if err := s.plot(context.Background(), "y = 2*x @!3"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "x") || !strings.Contains(out, "-20") || !strings.Contains(out, "20") {
		t.Errorf("table output missing samples:\n%s", out)
	}
}

// =============================================================================
// Commands
// =============================================================================

func TestSessionCommands(t *testing.T) {
	tests := []struct {
		line    string
		wantErr bool
		check   func(*session) bool
	}{
		{":view 0 1 0 2", false, func(s *session) bool { return s.vp.X.Max == 1 && s.vp.Y.Max == 2 }},
		{":view 1 0 0 1", true, nil},
		{":view 0 1", true, nil},
		{":size 400 300", false, func(s *session) bool { return s.vp.Width == 400 && s.vp.Height == 300 }},
		{":zoom 2", false, func(s *session) bool { return near(s.vp.X.Min, -5) && near(s.vp.X.Max, 5) }},
		{":zoom 0", true, nil},
		{":pan 40 0", false, func(s *session) bool { return near(s.vp.X.Min, -11) }},
		{":table on", false, func(s *session) bool { return s.table }},
		{":table maybe", true, nil},
		{":ticks", false, nil},
		{":help", false, nil},
		{":funcs", false, nil},
		{":frobnicate", true, nil},
		{`:view "0" '1' 0 1`, false, func(s *session) bool { return s.vp.X.Max == 1 }},
		{`:view "0 1 0 1`, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, _ := newSession(t)
			quit, err := s.command(tt.line)
			if quit {
				t.Error("command should not quit")
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("command(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("command(%q) left session %+v", tt.line, s.vp)
			}
		})
	}
}

func TestSessionQuit(t *testing.T) {
	s, _ := newSession(t)
	for _, line := range []string{":quit", ":q", ":exit"} {
		if quit, err := s.command(line); !quit || err != nil {
			t.Errorf("command(%q) = %v, %v", line, quit, err)
		}
	}
}

func TestSessionTicks(t *testing.T) {
	s, buf := newSession(t)
	if _, err := s.command(":ticks"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "x: step ") || !strings.Contains(out, "y: step ") {
		t.Errorf("ticks output = %q", out)
	}
}

func TestSessionFuncs(t *testing.T) {
	s, buf := newSession(t)
	if _, err := s.command(":funcs"); err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(buf.String())
	for _, want := range []string{"sin", "choose", "pi", "abs"} {
		if !slices.Contains(fields, want) {
			t.Errorf(":funcs output missing %q: %v", want, fields)
		}
	}
}

func TestSessionRecord(t *testing.T) {
	s, buf := newSession(t)
	if err := s.plot(context.Background(), "y = x; s(1, 3000) = t @fft"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.command(":rec 1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "$rec1") {
		t.Errorf("output = %q", buf.String())
	}
	if _, err := s.command(":rec 0"); err == nil {
		t.Error("recording a linear slot should fail")
	}
	if _, err := s.command(":rec 9"); err == nil {
		t.Error("recording a missing slot should fail")
	}
}
