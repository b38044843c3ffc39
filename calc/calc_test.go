package calc

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestCompileEval(t *testing.T) {
	tests := []struct {
		src    string
		params []string
		args   []float64
		want   float64
	}{
		{"x", []string{"x"}, []float64{3}, 3},
		{"x^2 + 1", []string{"x"}, []float64{3}, 10},
		{"sin(o) * 0 + cos(0)", []string{"o"}, []float64{1}, 1},
		{"2 * pi * t", []string{"t"}, []float64{0.5}, math.Pi},
		{"hypot(3, 4)", nil, nil, 5},
		{"mod(7, 3)", nil, nil, 1},
		{"sign(-2) + sign(0)", nil, nil, -1},
		{"choose(5, 2)", nil, nil, 10},
		{"abs(-y)", []string{"y"}, []float64{2}, 2},
		{"x > 0 ? 1 : -1", []string{"x"}, []float64{-4}, -1},
		{"x % 2", []string{"x"}, []float64{5}, 1},
		{"x % 2.5", []string{"x"}, []float64{-6}, -1},
		{"7 % 3 + 1", nil, nil, 2},
		{"7 / 2", nil, nil, 3.5},
		{"[10, 20, 30][1] + x", []string{"x"}, []float64{1}, 21},
		{"len(1..3)", nil, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := Compile(tt.src, tt.params, nil)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}
			got, err := f.Eval(tt.args...)
			if err != nil {
				t.Fatalf("Eval error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%s = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestCompileReusesEnvironment(t *testing.T) {
	f, err := Compile("x * 2", []string{"x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []float64{-1, 0, 1, 2.5} {
		got, err := f.Eval(x)
		if err != nil {
			t.Fatal(err)
		}
		if got != 2*x {
			t.Errorf("Eval(%v) = %v, want %v", x, got, 2*x)
		}
	}
}

func TestCompileScope(t *testing.T) {
	scope := map[string]any{
		"a":    2.0,
		"rec1": func(t float64) float64 { return t + 100 },
	}
	f, err := Compile("a * x + rec1(0)", []string{"x"}, scope)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Eval(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 106 {
		t.Errorf("Eval(3) = %v, want 106", got)
	}
}

func TestCompileUndefinedName(t *testing.T) {
	if _, err := Compile("foo(x) + 1", []string{"x"}, nil); err == nil {
		t.Error("Compile with an undefined function should fail")
	}
	if _, err := Compile("q * 2", []string{"x"}, nil); err == nil {
		t.Error("Compile with an undefined variable should fail")
	}
}

func TestEvalArity(t *testing.T) {
	f, err := Compile("x + y", []string{"x", "y"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Eval(1); err == nil {
		t.Error("Eval with too few arguments should fail")
	}
}

func TestEvalNonFiniteIsNotAnError(t *testing.T) {
	f, err := Compile("1/x", []string{"x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Eval(0)
	if err != nil {
		t.Fatalf("Eval(0) error: %v", err)
	}
	if !math.IsInf(got, 1) {
		t.Errorf("1/0 = %v, want +Inf", got)
	}
}

func TestConst(t *testing.T) {
	got, err := Const("2*pi")
	if err != nil {
		t.Fatal(err)
	}
	if got != 2*math.Pi {
		t.Errorf("Const(2*pi) = %v, want %v", got, 2*math.Pi)
	}

	if _, err := Const("1/0"); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Const(1/0) error = %v, want ErrNotFinite", err)
	}
	if _, err := Const("sqrt(-1)"); !errors.Is(err, ErrNotFinite) {
		t.Errorf("Const(sqrt(-1)) error = %v, want ErrNotFinite", err)
	}
	if _, err := Const("nope"); err == nil {
		t.Error("Const(nope) should fail")
	}
}

func TestConstLargeIntegers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"100000 * 100000 * 100000 * 100000", 1e20},
		{"4294967296 * 4294967296", 18446744073709551616},
	}
	for _, tt := range tests {
		got, err := Const(tt.src)
		if err != nil {
			t.Errorf("Const(%q) error: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Const(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestValueList(t *testing.T) {
	v, err := Value("[[0, 1], [2, 3.5]]", nil)
	if err != nil {
		t.Fatal(err)
	}
	outer, ok := v.([]any)
	if !ok || len(outer) != 2 {
		t.Fatalf("Value = %#v, want two-element list", v)
	}
	inner, ok := outer[1].([]any)
	if !ok || len(inner) != 2 {
		t.Fatalf("second element = %#v, want pair", outer[1])
	}
	if y, ok := Number(inner[1]); !ok || y != 3.5 {
		t.Errorf("second y = %v, want 3.5", inner[1])
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"sin", "pi", "x", "t", "o", "abs", "max", "len", "true", "rec1", "rec12"} {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a", "freq", "k2", "record", "rec"} {
		if IsReserved(name) {
			t.Errorf("IsReserved(%q) = true, want false", name)
		}
	}
}

func TestNamesListsBuiltins(t *testing.T) {
	names := Names()
	if !slices.IsSorted(names) {
		t.Error("Names() is not sorted")
	}
	for _, want := range []string{"abs", "max", "sin", "pi", "choose"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() is missing %q", want)
		}
	}
}

func TestProgramCache(t *testing.T) {
	const src = "a * x + 0.125"
	before := CacheStats()
	for _, a := range []float64{1, 2} {
		f, err := Compile(src, []string{"x"}, map[string]any{"a": a})
		if err != nil {
			t.Fatal(err)
		}
		// The cached program must see the new binding.
		if v, _ := f.Eval(4); v != a*4+0.125 {
			t.Errorf("a=%v: Eval(4) = %v, want %v", a, v, a*4+0.125)
		}
	}
	after := CacheStats()
	if after.Hits-before.Hits < 1 {
		t.Errorf("second compile missed the cache: %+v -> %+v", before, after)
	}

	// A different scope shape compiles afresh.
	if _, err := Compile(src, []string{"x"}, nil); err == nil {
		t.Error("compile without a binding for a should fail")
	}
}
