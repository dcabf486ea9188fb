package expression

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Variadic marks a function that accepts any number of arguments above MinArgs
const Variadic = -1

// Function is a whitelisted numeric function callable from formulas
type Function struct {
	Name    string
	MinArgs int
	MaxArgs int // Variadic for no upper bound
	Fn      func(args []float64) float64
}

// acceptsArity reports whether n arguments satisfy the declared arity
func (f Function) acceptsArity(n int) bool {
	if n < f.MinArgs {
		return false
	}
	return f.MaxArgs == Variadic || n <= f.MaxArgs
}

// FunctionSet is the closed set of functions and named constants a formula
// may reference. A set is not modified after it is handed to an engine.
type FunctionSet struct {
	functions map[string]Function
	constants map[string]float64
}

// NewFunctionSet creates an empty function set
func NewFunctionSet() *FunctionSet {
	return &FunctionSet{
		functions: make(map[string]Function),
		constants: make(map[string]float64),
	}
}

// Register adds or replaces a function
func (fs *FunctionSet) Register(fn Function) *FunctionSet {
	fs.functions[fn.Name] = fn
	return fs
}

// Unary registers a single-argument function, the shape of every domain helper
func (fs *FunctionSet) Unary(name string, fn func(float64) float64) *FunctionSet {
	return fs.Register(Function{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []float64) float64 { return fn(args[0]) },
	})
}

// Constant adds or replaces a named constant
func (fs *FunctionSet) Constant(name string, value float64) *FunctionSet {
	fs.constants[name] = value
	return fs
}

// Lookup returns the function registered under name
func (fs *FunctionSet) Lookup(name string) (Function, bool) {
	if fs == nil {
		return Function{}, false
	}
	fn, ok := fs.functions[name]
	return fn, ok
}

// LookupConstant returns the constant registered under name
func (fs *FunctionSet) LookupConstant(name string) (float64, bool) {
	if fs == nil {
		return 0, false
	}
	v, ok := fs.constants[name]
	return v, ok
}

// Merge returns a new set holding the functions of fs overlaid by other
func (fs *FunctionSet) Merge(other *FunctionSet) *FunctionSet {
	merged := NewFunctionSet()
	for _, src := range []*FunctionSet{fs, other} {
		if src == nil {
			continue
		}
		for k, v := range src.functions {
			merged.functions[k] = v
		}
		for k, v := range src.constants {
			merged.constants[k] = v
		}
	}
	return merged
}

// Names returns the sorted function names
func (fs *FunctionSet) Names() []string {
	if fs == nil {
		return nil
	}
	names := make([]string, 0, len(fs.functions))
	for name := range fs.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConstantNames returns the sorted constant names
func (fs *FunctionSet) ConstantNames() []string {
	if fs == nil {
		return nil
	}
	names := make([]string, 0, len(fs.constants))
	for name := range fs.constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MathLibrary returns the standard numeric functions and constants. Each
// function is also reachable under a "Math." prefix.
func MathLibrary() *FunctionSet {
	fs := NewFunctionSet()

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"ceil":  math.Ceil,
		"floor": math.Floor,
		"round": roundHalfUp, // ties toward +Inf, unlike roundTo
		"trunc": math.Trunc,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"exp":   math.Exp,
		"log":   math.Log,
		"log10": math.Log10,
		"log2":  math.Log2,
		"sign":  sign,
	}
	for name, fn := range unary {
		fs.Unary(name, fn)
	}

	fs.Register(Function{Name: "pow", MinArgs: 2, MaxArgs: 2, Fn: func(a []float64) float64 {
		return math.Pow(a[0], a[1])
	}})
	fs.Register(Function{Name: "min", MinArgs: 1, MaxArgs: Variadic, Fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}})
	fs.Register(Function{Name: "max", MinArgs: 1, MaxArgs: Variadic, Fn: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}})
	fs.Register(Function{Name: "clamp", MinArgs: 3, MaxArgs: 3, Fn: func(a []float64) float64 {
		return math.Min(math.Max(a[0], a[1]), a[2])
	}})
	// roundTo breaks ties away from zero like the report formatter, so
	// roundTo(-2.5, 0) is -3 while round(-2.5) is -2
	fs.Register(Function{Name: "roundTo", MinArgs: 2, MaxArgs: 2, Fn: func(a []float64) float64 {
		places := a[1]
		if math.IsNaN(places) || places != math.Trunc(places) || math.Abs(places) > MaxRoundPlaces {
			return math.NaN()
		}
		return RoundTo(a[0], int32(places))
	}})

	for _, name := range fs.Names() {
		fn := fs.functions[name]
		fn.Name = "Math." + name
		fs.Register(fn)
	}

	fs.Constant("PI", math.Pi).Constant("E", math.E)
	fs.Constant("Math.PI", math.Pi).Constant("Math.E", math.E)
	return fs
}

// MaxRoundPlaces bounds the place count roundTo accepts in either direction
const MaxRoundPlaces = 15

// RoundTo rounds x half away from zero to the given number of decimal
// places. Place counts outside ±MaxRoundPlaces yield NaN.
func RoundTo(x float64, places int32) float64 {
	if places > MaxRoundPlaces || places < -MaxRoundPlaces {
		return math.NaN()
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// roundHalfUp rounds ties towards positive infinity, so round(-2.5) is -2.
// roundTo differs on negative ties; see MathLibrary.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
