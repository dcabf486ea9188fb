package expression

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"calcengine/internal/errors"
	"calcengine/internal/logging"
)

// Program is a compiled formula. Programs are immutable and may be shared
// between goroutines; each evaluation supplies its own Context.
type Program struct {
	source string
	root   Node
}

// Compile parses a formula into a Program
func Compile(source string) (*Program, error) {
	root, err := Parse(source)
	if err != nil {
		return nil, errors.Parsing("invalid expression", err).WithContext("expression", source)
	}
	return &Program{source: source, root: root}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// formulas fixed at build time.
func MustCompile(source string) *Program {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the formula text
func (p *Program) Source() string {
	return p.source
}

// String renders the parsed tree with explicit grouping
func (p *Program) String() string {
	return p.root.String()
}

// Eval evaluates the program and returns the raw value. A helper function
// that panics is reported as an internal error.
func (p *Program) Eval(ctx *Context) (v Value, err error) {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	defer func() {
		if r := recover(); r != nil {
			v = Null()
			err = errors.Newf(errors.TypeInternal, "panic evaluating %q: %v", p.source, r)
		}
	}()
	return p.root.eval(ctx)
}

// Number evaluates the program and converts the result to a finite number.
// Booleans become 1 or 0 and numeric strings their value; anything else,
// and any non-finite result, is an evaluation error.
func (p *Program) Number(ctx *Context) (float64, error) {
	v, err := p.Eval(ctx)
	if err != nil {
		return 0, err
	}
	return toResult(v)
}

func toResult(v Value) (float64, error) {
	var f float64
	switch v.Kind() {
	case KindNumber, KindBool:
		f = v.ToNumber()
	case KindString:
		f = v.ToNumber()
		if math.IsNaN(f) {
			return 0, errors.Evaluationf("result %s is not a number", v)
		}
	default:
		return 0, errors.Evaluationf("result is %s", v.Kind())
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Evaluationf("result is not finite (%v)", f)
	}
	return f, nil
}

// References lists the identifiers and the function names a program uses,
// each sorted and without duplicates
func (p *Program) References() (identifiers, functions []string) {
	ids := make(map[string]bool)
	fns := make(map[string]bool)
	walk(p.root, func(n Node) {
		switch e := n.(type) {
		case *Ident:
			ids[e.Name] = true
		case *Call:
			fns[e.Name] = true
		}
	})
	return sortedKeys(ids), sortedKeys(fns)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EvaluateStrict compiles and evaluates a formula, returning any failure
func EvaluateStrict(source string, ctx *Context) (float64, error) {
	p, err := Compile(source)
	if err != nil {
		return 0, err
	}
	return p.Number(ctx)
}

// Evaluate compiles and evaluates a formula. Failures are logged and
// yield 0; Evaluate never returns an error and never panics on bad input.
func Evaluate(source string, ctx *Context) float64 {
	f, err := EvaluateStrict(source, ctx)
	if err != nil {
		logging.Warn("expression evaluation failed",
			logging.Expression(source),
			zap.Error(err),
		)
		return 0
	}
	return f
}
