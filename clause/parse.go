// Package clause classifies user-typed plot clauses.
//
// A clause is one semicolon-separated piece of the function input, such as
// "y = sin(x) @-pi->pi @!200". Parse strips the @-annotations and matches
// the remainder against a fixed grammar, first match wins:
//
//	y = f(x)                 Linear
//	x = f(y)                 LinearHorizontal
//	s(duration, rate) = f(t) Sound (also "s = f(t)")
//	r = f(o)                 Polar
//	{x = fx(t), y = fy(t)}   Parametric
//	[] = list                List
//	name = value             Affect
//
// Anything else is Unknown and carries ErrAmbiguous.
package clause

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/fnplot/calc"
	"github.com/gogpu/fnplot/interp"
	"github.com/gogpu/fnplot/internal/plotlog"
)

// Sample rate limits and default, in Hz.
const (
	MinSampleRate     = 3000
	MaxSampleRate     = 768000
	DefaultSampleRate = 48000
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parser parses clauses. The zero value uses DefaultSampleRate.
type Parser struct {
	// SampleRate is the rate used by sound clauses that do not give a
	// valid one.
	SampleRate float64
}

var defaultParser Parser

// Parse parses text with the default Parser.
func Parse(text string) *Spec {
	return defaultParser.Parse(text)
}

// Split cuts the full function input into clauses at semicolons outside
// brackets. Empty clauses are kept so that slot indices stay stable.
func Split(input string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				out = append(out, input[start:i])
				start = i + 1
			}
		}
	}
	return append(out, input[start:])
}

// Parse classifies one clause. It never fails: problems are reported in
// Spec.Err, and invalid parameters are replaced by defaults with a logged
// warning.
func (p *Parser) Parse(text string) *Spec {
	s := &Spec{Raw: text}
	body := stripAnnotations(norm.NFKC.String(text), s)
	body, s.Recordings = rewriteRecordings(body)
	body = strings.TrimSpace(body)

	switch {
	case p.parseParametric(body, s):
	case p.parseAssign(body, s):
	default:
		s.Kind = Unknown
		s.Exprs = []string{body}
		s.Err = fmt.Errorf("%w: %q", ErrAmbiguous, body)
	}

	switch s.Kind {
	case Affect:
		s.Domain = &Domain{Min: 0, Max: 1}
		s.Samples = 1
	case List:
		if s.Interp == interp.KindNone {
			s.Interp = interp.KindCubic
		}
	}
	return s
}

func (p *Parser) parseAssign(body string, s *Spec) bool {
	lhs, rhs, ok := splitAssign(body)
	if !ok || rhs == "" {
		return false
	}
	lhs = strings.Join(strings.Fields(lhs), "")
	switch {
	case lhs == "y":
		s.Kind = Linear
	case lhs == "x":
		s.Kind = LinearHorizontal
	case lhs == "s" || strings.HasPrefix(lhs, "s(") && strings.HasSuffix(lhs, ")"):
		s.Kind = Sound
		p.soundParams(lhs, s)
	case lhs == "r":
		s.Kind = Polar
	case lhs == "[]":
		s.Kind = List
	case identifier.MatchString(lhs):
		s.Kind = Affect
		s.Exprs = []string{lhs, rhs}
		if calc.IsReserved(lhs) {
			s.Err = fmt.Errorf("%w: %q", ErrReserved, lhs)
		}
		return true
	default:
		return false
	}
	s.Exprs = []string{rhs}
	return true
}

func (p *Parser) parseParametric(body string, s *Spec) bool {
	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return false
	}
	parts := splitTop(body[1:len(body)-1], ',')
	if len(parts) != 2 {
		return false
	}
	exprs := make(map[string]string, 2)
	for _, part := range parts {
		lhs, rhs, ok := splitAssign(part)
		lhs = strings.TrimSpace(lhs)
		if !ok || rhs == "" || (lhs != "x" && lhs != "y") {
			return false
		}
		exprs[lhs] = rhs
	}
	if len(exprs) != 2 {
		return false
	}
	s.Kind = Parametric
	s.Exprs = []string{exprs["x"], exprs["y"]}
	return true
}

// soundParams resolves duration and rate from "s" or "s(duration, rate)".
func (p *Parser) soundParams(lhs string, s *Spec) {
	rate := p.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	s.Duration, s.Rate = 1, rate
	if lhs == "s" {
		return
	}
	args := splitTop(lhs[2:len(lhs)-1], ',')
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		d, err := calc.Const(args[0])
		if err != nil || d <= 0 {
			plotlog.L().Warn("clause: invalid sound duration, using 1s", "duration", args[0], "err", err)
		} else {
			s.Duration = d
		}
	}
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		r, err := calc.Const(args[1])
		if err != nil || r < MinSampleRate || r > MaxSampleRate {
			plotlog.L().Warn("clause: invalid sample rate, using default",
				"rate", args[1], "default", rate, "err", err)
		} else {
			s.Rate = math.Round(r)
		}
	}
}

// splitAssign splits "lhs = rhs" at the first top-level '=' that is not
// part of a comparison operator.
func splitAssign(body string) (lhs, rhs string, ok bool) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i+1 < len(body) && body[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("<>!=", body[i-1]) >= 0 {
				continue
			}
			return body[:i], strings.TrimSpace(body[i+1:]), true
		}
	}
	return "", "", false
}

// splitTop splits s at sep characters outside brackets.
func splitTop(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
