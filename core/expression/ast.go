package expression

import (
	"strconv"
	"strings"
)

// Node is a parsed formula element
type Node interface {
	// Pos returns the byte offset of the node in the source expression
	Pos() int

	// String renders the node back to formula syntax
	String() string

	eval(ctx *Context) (Value, error)
}

// NumberLit is a numeric literal
type NumberLit struct {
	Value  float64
	Offset int
}

// StringLit is a quoted string literal
type StringLit struct {
	Value  string
	Offset int
}

// BoolLit is true or false
type BoolLit struct {
	Value  bool
	Offset int
}

// Ident is a reference to a bound variable or a library constant
type Ident struct {
	Name   string
	Offset int
}

// Unary is a prefix operation: -x, +x, !x
type Unary struct {
	Op      TokenType
	Operand Node
	Offset  int
}

// Binary is an arithmetic or comparison operation
type Binary struct {
	Op     TokenType
	Left   Node
	Right  Node
	Offset int
}

// Logical is a short-circuiting && or ||
type Logical struct {
	Op     TokenType
	Left   Node
	Right  Node
	Offset int
}

// Conditional is cond ? then : otherwise
type Conditional struct {
	Cond      Node
	Then      Node
	Otherwise Node
	Offset    int
}

// Call invokes a whitelisted function
type Call struct {
	Name   string
	Args   []Node
	Offset int
}

func (n *NumberLit) Pos() int   { return n.Offset }
func (n *StringLit) Pos() int   { return n.Offset }
func (n *BoolLit) Pos() int     { return n.Offset }
func (n *Ident) Pos() int       { return n.Offset }
func (n *Unary) Pos() int       { return n.Offset }
func (n *Binary) Pos() int      { return n.Offset }
func (n *Logical) Pos() int     { return n.Offset }
func (n *Conditional) Pos() int { return n.Offset }
func (n *Call) Pos() int        { return n.Offset }

func (n *NumberLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *Ident) String() string     { return n.Name }

func (n *Unary) String() string {
	return n.Op.String() + n.Operand.String()
}

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (n *Logical) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (n *Conditional) String() string {
	return "(" + n.Cond.String() + " ? " + n.Then.String() + " : " + n.Otherwise.String() + ")"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// walk visits every node depth-first, parents before children
func walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch e := n.(type) {
	case *Unary:
		walk(e.Operand, visit)
	case *Binary:
		walk(e.Left, visit)
		walk(e.Right, visit)
	case *Logical:
		walk(e.Left, visit)
		walk(e.Right, visit)
	case *Conditional:
		walk(e.Cond, visit)
		walk(e.Then, visit)
		walk(e.Otherwise, visit)
	case *Call:
		for _, arg := range e.Args {
			walk(arg, visit)
		}
	}
}
