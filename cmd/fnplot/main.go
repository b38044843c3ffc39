// Command fnplot evaluates function input and prints the plotted samples.
//
// Usage:
//
//	fnplot [flags] [input]
//
// With input, fnplot plots it once and exits. Without, it starts an
// interactive session; type :help there for its commands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/gogpu/fnplot"
	"github.com/gogpu/fnplot/viewport"
)

const historyFile = ".fnplot_history"

func main() {
	var (
		xmin    = flag.Float64("xmin", -10, "left edge of the viewport")
		xmax    = flag.Float64("xmax", 10, "right edge of the viewport")
		ymin    = flag.Float64("ymin", -10, "bottom edge of the viewport")
		ymax    = flag.Float64("ymax", 10, "top edge of the viewport")
		width   = flag.Float64("width", 800, "canvas width in pixels")
		height  = flag.Float64("height", 600, "canvas height in pixels")
		budget  = flag.Int("samples", 0, "sample budget for auto and adaptive rendering")
		rate    = flag.Float64("rate", 0, "default sound sample rate in Hz")
		asTable = flag.Bool("table", false, "print every sample instead of a summary")
		verbose = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Parse()

	if *verbose {
		fnplot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	e := fnplot.New(fnplot.WithBudget(*budget), fnplot.WithSampleRate(*rate))
	defer e.Close()

	s := &session{
		engine: e,
		vp:     viewport.New(*xmin, *xmax, *ymin, *ymax, *width, *height),
		table:  *asTable,
		out:    os.Stdout,
	}
	if err := s.vp.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "fnplot:", err)
		os.Exit(2)
	}

	if flag.NArg() > 0 {
		if err := s.plot(context.Background(), strings.Join(flag.Args(), " ")); err != nil {
			fmt.Fprintln(os.Stderr, "fnplot:", err)
			os.Exit(1)
		}
		return
	}
	repl(s)
}

func repl(s *session) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(s.out, "fnplot: enter clauses separated by ';', or :help")
	for {
		line, err := ln.Prompt("fnplot> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.out)
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "fnplot:", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			quit, err := s.command(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, "fnplot:", err)
			}
			if quit {
				return
			}
			continue
		}
		if err := s.plot(context.Background(), line); err != nil {
			fmt.Fprintln(os.Stderr, "fnplot:", err)
		}
	}
}
