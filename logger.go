package fnplot

import (
	"log/slog"

	"github.com/gogpu/fnplot/internal/plotlog"
)

// SetLogger configures the logger for fnplot and all its sub-packages.
// By default, fnplot produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent behavior.
//
// Log levels used by fnplot:
//   - [slog.LevelDebug]: worker lifecycle, failed evaluations, dropped responses
//   - [slog.LevelWarn]: invalid clause parameters replaced by defaults
//
// Example:
//
//	fnplot.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	plotlog.Set(l)
}

// Logger returns the current logger used by fnplot.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return plotlog.L()
}
