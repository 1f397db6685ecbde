package sheep

import (
	"fmt"
	"slices"
)

// Eval evaluates every operand and applies o.Op to the results. An operand
// that does not reduce to a Constant fails with ErrNotEvaluated.
func (o *Operator) Eval(b Bindings) (Expression, error) {
	vals := make([]int64, len(o.Operands))
	for i, operand := range o.Operands {
		v, err := operand.Eval(b)
		if err != nil {
			return nil, err
		}
		c, ok := v.(Constant)
		if !ok {
			return nil, fmt.Errorf("%w: operand %d of %s is %s", ErrNotEvaluated, i+1, o.Op, describe(operand))
		}
		vals[i] = int64(c)
	}
	n, err := o.Op.apply(vals)
	if err != nil {
		return nil, err
	}
	return Constant(n), nil
}

func describe(e Expression) string {
	if _, ok := e.(Empty); ok {
		return "empty"
	}
	return fmt.Sprintf("%q", e.Render())
}

func (op Op) apply(vals []int64) (int64, error) {
	if len(vals) == 0 {
		return 0, fmt.Errorf("%w: %s needs at least one operand", ErrType, op)
	}
	switch op {
	case Group:
		return vals[0], nil
	case Plus:
		return sum(vals), nil
	case Minus:
		return vals[0] - sum(vals[1:]), nil
	case Times:
		n := vals[0]
		for _, v := range vals[1:] {
			n *= v
		}
		return n, nil
	case Divide:
		n := vals[0]
		for _, v := range vals[1:] {
			if v == 0 {
				return 0, fmt.Errorf("%w: %d / 0", ErrDivideByZero, n)
			}
			n /= v
		}
		return n, nil
	case Equals:
		for i := 1; i < len(vals); i++ {
			if vals[i-1] != vals[i] {
				return 0, nil
			}
		}
		return 1, nil
	case LessThan:
		for i := 1; i < len(vals); i++ {
			if vals[i-1] >= vals[i] {
				return 0, nil
			}
		}
		return 1, nil
	case Mean:
		return mean(vals), nil
	case Median:
		return median(vals), nil
	}
	return 0, fmt.Errorf("%w: unknown operator %s", ErrType, op)
}

func sum(vals []int64) int64 {
	var n int64
	for _, v := range vals {
		n += v
	}
	return n
}

// mean averages in floating point and truncates toward zero.
func mean(vals []int64) int64 {
	return int64(float64(sum(vals)) / float64(len(vals)))
}

// median averages the middle pair with integer division, which can differ
// from mean on the same two values.
func median(vals []int64) int64 {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
