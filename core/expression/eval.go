package expression

import (
	"math"

	"calcengine/internal/errors"
)

func (n *NumberLit) eval(_ *Context) (Value, error) { return Number(n.Value), nil }
func (n *StringLit) eval(_ *Context) (Value, error) { return String(n.Value), nil }
func (n *BoolLit) eval(_ *Context) (Value, error)   { return Bool(n.Value), nil }

func (n *Ident) eval(ctx *Context) (Value, error) {
	if v, ok := ctx.resolve(n.Name); ok {
		return v, nil
	}
	return Value{}, errors.Evaluationf("unbound identifier %q at position %d", n.Name, n.Offset).
		WithContext("identifier", n.Name)
}

func (n *Unary) eval(ctx *Context) (Value, error) {
	v, err := n.Operand.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case TokenMinus:
		return Number(-v.ToNumber()), nil
	case TokenPlus:
		return Number(v.ToNumber()), nil
	case TokenNot:
		return Bool(!v.Truthy()), nil
	}
	return Value{}, errors.Evaluationf("unsupported unary operator %s", n.Op)
}

func (n *Logical) eval(ctx *Context) (Value, error) {
	left, err := n.Left.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case TokenAnd:
		if !left.Truthy() {
			return left, nil
		}
	case TokenOr:
		if left.Truthy() {
			return left, nil
		}
	default:
		return Value{}, errors.Evaluationf("unsupported logical operator %s", n.Op)
	}
	return n.Right.eval(ctx)
}

func (n *Conditional) eval(ctx *Context) (Value, error) {
	cond, err := n.Cond.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	if cond.Truthy() {
		return n.Then.eval(ctx)
	}
	return n.Otherwise.eval(ctx)
}

func (n *Binary) eval(ctx *Context) (Value, error) {
	left, err := n.Left.eval(ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := n.Right.eval(ctx)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case TokenPlus:
		if left.Kind() == KindString || right.Kind() == KindString {
			return String(left.text() + right.text()), nil
		}
		return Number(left.ToNumber() + right.ToNumber()), nil
	case TokenMinus:
		return Number(left.ToNumber() - right.ToNumber()), nil
	case TokenStar:
		return Number(left.ToNumber() * right.ToNumber()), nil
	case TokenSlash:
		return Number(left.ToNumber() / right.ToNumber()), nil
	case TokenPercent:
		return Number(math.Mod(left.ToNumber(), right.ToNumber())), nil
	case TokenPower:
		return Number(math.Pow(left.ToNumber(), right.ToNumber())), nil

	case TokenEq:
		return Bool(left.LooseEquals(right)), nil
	case TokenNotEq:
		return Bool(!left.LooseEquals(right)), nil
	case TokenStrictEq:
		return Bool(left.Equals(right)), nil
	case TokenStrictNeq:
		return Bool(!left.Equals(right)), nil

	case TokenLess, TokenLessEq, TokenGreater, TokenGreaterEq:
		return compare(n.Op, left, right), nil
	}

	return Value{}, errors.Evaluationf("unsupported operator %s", n.Op)
}

// compare orders two strings lexically and anything else numerically.
// Comparisons involving NaN are false.
func compare(op TokenType, left, right Value) Value {
	if left.Kind() == KindString && right.Kind() == KindString {
		l, r := left.stringVal, right.stringVal
		switch op {
		case TokenLess:
			return Bool(l < r)
		case TokenLessEq:
			return Bool(l <= r)
		case TokenGreater:
			return Bool(l > r)
		default:
			return Bool(l >= r)
		}
	}

	l, r := left.ToNumber(), right.ToNumber()
	switch op {
	case TokenLess:
		return Bool(l < r)
	case TokenLessEq:
		return Bool(l <= r)
	case TokenGreater:
		return Bool(l > r)
	default:
		return Bool(l >= r)
	}
}

func (n *Call) eval(ctx *Context) (Value, error) {
	fn, ok := ctx.functions.Lookup(n.Name)
	if !ok {
		return Value{}, errors.Evaluationf("unknown function %q at position %d", n.Name, n.Offset).
			WithContext("function", n.Name)
	}
	if !fn.acceptsArity(len(n.Args)) {
		return Value{}, errors.Evaluationf("function %s does not accept %d argument(s)", n.Name, len(n.Args)).
			WithContext("function", n.Name)
	}

	args := make([]float64, len(n.Args))
	for i, arg := range n.Args {
		v, err := arg.eval(ctx)
		if err != nil {
			return Value{}, err
		}
		args[i] = v.ToNumber()
	}
	return Number(fn.Fn(args)), nil
}
