package clause

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/fnplot/calc"
	"github.com/gogpu/fnplot/interp"
	"github.com/gogpu/fnplot/internal/plotlog"
)

var recMarker = regexp.MustCompile(`\$rec([1-9])\(`)

// clauseHead matches the start of a clause body: an assignment target or
// a parametric brace.
var clauseHead = regexp.MustCompile(`^\s+(?:\{|\[\s*\]\s*=|[A-Za-z_][A-Za-z0-9_]*\s*(?:\([^()]*\))?\s*=(?:[^=]|$))`)

// stripAnnotations removes every @-annotation from text, recording its
// effect on s, and returns the remaining body.
//
// Keyword annotations (@auto, @/dot, @$cubic, ...) end at the keyword and
// may appear anywhere. Argument annotations (@!expr, @min->max) run to the
// next '@' or to whitespace followed by a clause head such as "y =", so
// they may lead the clause. "@@" discards the rest of the clause.
func stripAnnotations(text string, s *Spec) string {
	var body strings.Builder
	for {
		i := strings.IndexByte(text, '@')
		if i < 0 {
			body.WriteString(text)
			break
		}
		body.WriteString(text[:i])
		rest := text[i+1:]

		switch {
		case strings.HasPrefix(rest, "@"):
			s.Comment = strings.TrimSpace(rest[1:])
			return body.String()

		case strings.HasPrefix(rest, "!"):
			var arg string
			arg, text = splitArg(rest[1:])
			s.Samples = sampleOverride(arg)

		case strings.HasPrefix(rest, "/"):
			var word string
			word, text = leadingWord(rest[1:])
			if m, ok := lookup(drawNames[:], word); ok {
				s.Draw = DrawMode(m)
			} else {
				plotlog.L().Warn("clause: unknown draw mode", "mode", word)
			}

		case strings.HasPrefix(rest, "$"):
			var word string
			word, text = leadingWord(rest[1:])
			if k, ok := interp.ParseKind(word); ok && k != interp.KindNone {
				s.Interp = k
			} else {
				plotlog.L().Warn("clause: unknown interpolation", "interp", word)
			}

		default:
			word, after := leadingWord(rest)
			if m, ok := lookup(renderNames[:], word); ok {
				s.Render = RenderMode(m)
				text = after
				continue
			}
			var arg string
			arg, text = splitArg(rest)
			if lo, hi, ok := strings.Cut(arg, "->"); ok {
				s.Domain = domainOverride(lo, hi)
			} else {
				plotlog.L().Warn("clause: unknown annotation", "annotation", "@"+strings.TrimSpace(arg))
			}
		}
	}
	return body.String()
}

// leadingWord splits off the run of letters at the start of s.
func leadingWord(s string) (word, rest string) {
	i := 0
	for i < len(s) && ('a' <= s[i] && s[i] <= 'z' || 'A' <= s[i] && s[i] <= 'Z') {
		i++
	}
	return strings.ToLower(s[:i]), s[i:]
}

// untilAt splits s before its next '@'.
func splitArg(s string) (arg, rest string) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// sampleOverride resolves an @! argument. It returns 0 (unresolved) when
// the expression is not a finite positive number.
func sampleOverride(arg string) int {
	v, err := calc.Const(strings.TrimSpace(arg))
	if err != nil || math.Round(v) < 1 || v > math.MaxInt32 {
		plotlog.L().Warn("clause: ignoring sample count override", "expr", strings.TrimSpace(arg), "err", err)
		return 0
	}
	return int(math.Round(v))
}

// domainOverride resolves an @min->max argument, or returns nil when either
// end is not finite or the range is empty.
func domainOverride(lo, hi string) *Domain {
	from, err1 := calc.Const(strings.TrimSpace(lo))
	to, err2 := calc.Const(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil || !(from < to) {
		plotlog.L().Warn("clause: ignoring domain override",
			"min", strings.TrimSpace(lo), "max", strings.TrimSpace(hi))
		return nil
	}
	return &Domain{Min: from, Max: to}
}

// rewriteRecordings turns $recN( markers into calls of the recN function
// bound by the worker and returns the referenced indices in order of first
// use.
func rewriteRecordings(body string) (string, []int) {
	var refs []int
	seen := make(map[int]bool)
	for _, m := range recMarker.FindAllStringSubmatch(body, -1) {
		n, _ := strconv.Atoi(m[1])
		if !seen[n] {
			seen[n] = true
			refs = append(refs, n)
		}
	}
	return recMarker.ReplaceAllString(body, "rec$1("), refs
}
