package sheep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consts(vals ...int64) []Expression {
	es := make([]Expression, len(vals))
	for i, v := range vals {
		es[i] = Constant(v)
	}
	return es
}

func TestOperatorEval(t *testing.T) {
	for name, tt := range map[string]struct {
		op     Op
		args   []int64
		expect Constant
	}{
		"mean/identity":     {op: Mean, args: []int64{20}, expect: 20},
		"mean/two":          {op: Mean, args: []int64{20, 10}, expect: 15},
		"mean/n":            {op: Mean, args: []int64{20, 2, 5, 2}, expect: 7},
		"mean/negative":     {op: Mean, args: []int64{-5, -2}, expect: -3},
		"median/identity":   {op: Median, args: []int64{20}, expect: 20},
		"median/two":        {op: Median, args: []int64{20, 10}, expect: 15},
		"median/n":          {op: Median, args: []int64{20, 2, 5, 2}, expect: 3},
		"median/repeated":   {op: Median, args: []int64{20, 2, 2, 2}, expect: 2},
		"median/odd":        {op: Median, args: []int64{9, 1, 5}, expect: 5},
		"plus":              {op: Plus, args: []int64{1, 2, 3}, expect: 6},
		"minus":             {op: Minus, args: []int64{10, 1, 2}, expect: 7},
		"minus/identity":    {op: Minus, args: []int64{5}, expect: 5},
		"times":             {op: Times, args: []int64{2, 3, 4}, expect: 24},
		"divide":            {op: Divide, args: []int64{100, 5, 3}, expect: 6},
		"divide/truncate":   {op: Divide, args: []int64{-7, 2}, expect: -3},
		"equals/true":       {op: Equals, args: []int64{2, 2, 2}, expect: 1},
		"equals/false":      {op: Equals, args: []int64{2, 2, 3}, expect: 0},
		"lessthan/true":     {op: LessThan, args: []int64{1, 2, 3}, expect: 1},
		"lessthan/false":    {op: LessThan, args: []int64{1, 3, 2}, expect: 0},
		"lessthan/equal":    {op: LessThan, args: []int64{1, 1}, expect: 0},
		"lessthan/identity": {op: LessThan, args: []int64{4}, expect: 1},
		"group":             {op: Group, args: []int64{5}, expect: 5},
	} {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			v, err := NewOperator(tt.op, consts(tt.args...)...).Eval(Bindings{})
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tt.expect, v)
		})
	}
}

func TestMeanMedianDiverge(t *testing.T) {
	args := consts(20, 2, 5, 2)
	mean, err := NewOperator(Mean, args...).Eval(nil)
	require.NoError(t, err)
	median, err := NewOperator(Median, args...).Eval(nil)
	require.NoError(t, err)
	assert.NotEqual(t, mean, median)
}

func TestEvalErrors(t *testing.T) {
	for name, tt := range map[string]struct {
		exp      Expression
		bindings Bindings
		expect   error
	}{
		"divide/zero": {
			exp:    NewOperator(Divide, Constant(1), Constant(0)),
			expect: ErrDivideByZero,
		},
		"divide/zero/later": {
			exp:    NewOperator(Divide, Constant(8), Constant(2), Constant(0)),
			expect: ErrDivideByZero,
		},
		"unresolved": {
			exp:      Reference("Z9"),
			bindings: Bindings{"A1": Constant(1)},
			expect:   ErrUnresolved,
		},
		"unresolved/operand": {
			exp:    NewOperator(Plus, Constant(1), Reference("Z9")),
			expect: ErrUnresolved,
		},
		"empty/operand": {
			exp:    NewOperator(Plus, Constant(3), Empty{}),
			expect: ErrNotEvaluated,
		},
		"empty/binding": {
			exp:      NewOperator(Times, Reference("A1"), Constant(2)),
			bindings: Bindings{"A1": Empty{}},
			expect:   ErrNotEvaluated,
		},
		"empty/mean": {
			exp:    NewOperator(Mean, Empty{}),
			expect: ErrNotEvaluated,
		},
		"nooperands": {
			exp:    NewOperator(Median),
			expect: ErrType,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			v, err := tt.exp.Eval(tt.bindings)
			assert.Nil(v)
			assert.True(errors.Is(err, tt.expect), "got %v", err)
			assert.True(errors.Is(err, ErrType))
		})
	}
}

func TestEvalReferences(t *testing.T) {
	assert := assert.New(t)
	b1, err := Parse("A1 * 2")
	require.NoError(t, err)
	bindings := Bindings{
		"A1": Constant(3),
		"B1": b1,
		"C1": Reference("B1"),
		"D1": Empty{},
	}

	exp, err := Parse("C1 + 1")
	require.NoError(t, err)
	v, err := exp.Eval(bindings)
	assert.NoError(err)
	assert.Equal(Constant(7), v)

	v, err = Reference("D1").Eval(bindings)
	assert.NoError(err)
	assert.Equal(Empty{}, v)

	v, err = Empty{}.Eval(bindings)
	assert.NoError(err)
	assert.Equal(Empty{}, v)
}

func TestEvalLeavesTreeUntouched(t *testing.T) {
	assert := assert.New(t)
	exp, err := Parse("MEAN(A1, 4) + A1 * 2")
	require.NoError(t, err)
	before := exp.Render()

	v, err := exp.Eval(Bindings{"A1": Constant(2)})
	assert.NoError(err)
	assert.Equal(Constant(7), v)
	assert.Equal(before, exp.Render())
	assert.Equal([]string{"A1"}, References(exp))
}

func TestParseEval(t *testing.T) {
	for text, expect := range map[string]Constant{
		"4 + 5 + 7 * 12 + 3":  96,
		"-42":                 -42,
		"-5 - 3":              -8,
		"2 * (3 + 4)":         14,
		"10 / 3":              3,
		"MEAN(20,2,5,2)":      7,
		"MEDIAN(20, 2, 5, 2)": 3,
		"MEAN(1) + MEDIAN(9)": 10,
		"1 < 2":               1,
		"3 = 3":               1,
		"2 < 1":               0,
		"(((7)))":             7,
	} {
		t.Run(text, func(t *testing.T) {
			assert := assert.New(t)
			exp, err := Parse(text)
			if !assert.NoError(err) {
				return
			}
			v, err := exp.Eval(Bindings{})
			assert.NoError(err)
			assert.Equal(expect, v)
		})
	}
}
