package sheep

import (
	"fmt"
	"strconv"
	"strings"
)

// Bindings maps a reference name to the expression currently bound to it.
// Eval only reads from it.
type Bindings map[string]Expression

// Expression is a node of a parsed formula: Empty, Constant, Reference or
// *Operator. Trees are never modified once built; Eval returns new nodes.
type Expression interface {
	// Eval reduces the expression against b. Operators always reduce to a
	// Constant or fail with an error wrapping ErrType.
	Eval(b Bindings) (Expression, error)
	// Render returns the formula text for the expression.
	Render() string
	String() string

	isExpression()
}

// Empty is a blank cell.
type Empty struct{}

func (Empty) Eval(Bindings) (Expression, error) { return Empty{}, nil }
func (Empty) Render() string                      { return "" }
func (Empty) String() string                      { return "" }
func (Empty) isExpression()                       {}

// Constant is a fully evaluated integer.
type Constant int64

func (c Constant) Eval(Bindings) (Expression, error) { return c, nil }
func (c Constant) Render() string                      { return strconv.FormatInt(int64(c), 10) }
func (c Constant) String() string                      { return c.Render() }
func (Constant) isExpression()                         {}

// Reference names a binding resolved at evaluation time.
type Reference string

// Eval evaluates whatever expression is bound to r. Evaluation follows
// chains of references, so a binding cycle recurses without bound; callers
// holding cyclic bindings must break them first.
func (r Reference) Eval(b Bindings) (Expression, error) {
	bound, ok := b[string(r)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, string(r))
	}
	return bound.Eval(b)
}

func (r Reference) Render() string { return string(r) }
func (r Reference) String() string { return string(r) }
func (Reference) isExpression()    {}

// Operator applies Op to its operands, which are evaluated left to right.
type Operator struct {
	Op       Op
	Operands []Expression
}

// NewOperator builds an Operator node.
func NewOperator(op Op, operands ...Expression) *Operator {
	return &Operator{Op: op, Operands: operands}
}

func (o *Operator) Render() string {
	args := make([]string, len(o.Operands))
	switch {
	case o.Op == Group:
		for i, operand := range o.Operands {
			args[i] = operand.Render()
		}
		return "(" + strings.Join(args, ", ") + ")"
	case o.Op.IsFunction():
		for i, operand := range o.Operands {
			args[i] = operand.Render()
		}
		return o.Op.Symbol() + "(" + strings.Join(args, ", ") + ")"
	}
	for i, operand := range o.Operands {
		if o.needsParens(operand) {
			args[i] = "(" + operand.Render() + ")"
		} else {
			args[i] = operand.Render()
		}
	}
	// Empty operands render as nothing, without padding around the symbol.
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(o.Op.Symbol())
			if arg != "" {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(arg)
	}
	return sb.String()
}

// needsParens reports whether operand would be split differently when its
// rendering is parsed back as part of o.
func (o *Operator) needsParens(operand Expression) bool {
	switch e := operand.(type) {
	case Constant:
		return e < 0
	case *Operator:
		return e.Op.infix() && e.Op.splitRank() >= o.Op.splitRank()
	}
	return false
}

func (o *Operator) String() string { return o.Render() }
func (*Operator) isExpression()    {}

// References returns the distinct reference names used in e, in the order
// they first appear.
func References(e Expression) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	var walk func(Expression)
	walk = func(e Expression) {
		switch n := e.(type) {
		case Reference:
			if !seen[string(n)] {
				seen[string(n)] = true
				names = append(names, string(n))
			}
		case *Operator:
			for _, operand := range n.Operands {
				walk(operand)
			}
		}
	}
	walk(e)
	return names
}
