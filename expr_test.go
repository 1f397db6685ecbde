package sheep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	for name, tt := range map[string]struct {
		exp    Expression
		expect string
	}{
		"empty":     {exp: Empty{}, expect: ""},
		"const":     {exp: Constant(42), expect: "42"},
		"negative":  {exp: Constant(-42), expect: "-42"},
		"reference": {exp: Reference("A1"), expect: "A1"},
		"nary": {
			exp: NewOperator(Plus,
				Constant(4), Constant(5), NewOperator(Times, Constant(7), Constant(12)), Constant(3)),
			expect: "4 + 5 + 7 * 12 + 3",
		},
		"parens/looser": {
			exp:    NewOperator(Times, NewOperator(Plus, Constant(1), Constant(2)), Constant(3)),
			expect: "(1 + 2) * 3",
		},
		"parens/same": {
			exp:    NewOperator(Minus, Constant(5), NewOperator(Minus, Constant(3), Constant(1))),
			expect: "5 - (3 - 1)",
		},
		"parens/negative": {
			exp:    NewOperator(Times, Constant(3), Constant(-2)),
			expect: "3 * (-2)",
		},
		"compare": {
			exp:    NewOperator(LessThan, Constant(1), NewOperator(Equals, Constant(2), Constant(2))),
			expect: "1 < 2 = 2",
		},
		"empty/trailing": {
			exp:    NewOperator(Plus, Constant(3), Empty{}),
			expect: "3 +",
		},
		"empty/leading": {
			exp:    NewOperator(Plus, Empty{}, Constant(3)),
			expect: "+ 3",
		},
		"empty/nested": {
			exp:    NewOperator(Minus, NewOperator(Times, Constant(2), Empty{}), Constant(3)),
			expect: "2 * - 3",
		},
		"group": {
			exp:    NewOperator(Group, NewOperator(Plus, Reference("A1"), Constant(2))),
			expect: "(A1 + 2)",
		},
		"function": {
			exp:    NewOperator(Mean, Constant(1), NewOperator(Plus, Constant(2), Constant(3))),
			expect: "MEAN(1, 2 + 3)",
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tt.expect, tt.exp.Render())
			assert.Equal(tt.expect, tt.exp.String())
		})
	}
}

func TestRenderRoundTripLeaves(t *testing.T) {
	for _, exp := range []Expression{
		Constant(0),
		Constant(42),
		Constant(-42),
		Constant(-9223372036854775808),
		Constant(9223372036854775807),
		Reference("A1"),
		Reference("sd45678fghjk"),
		Empty{},
	} {
		t.Run(exp.Render(), func(t *testing.T) {
			assert := assert.New(t)
			parsed, err := Parse(exp.Render())
			if !assert.NoError(err) {
				return
			}
			assert.Equal(exp, parsed)
			assert.Equal(exp.Render(), parsed.Render())
		})
	}
}

func TestRenderRoundTripEmpty(t *testing.T) {
	assert := assert.New(t)
	exp, err := Parse("2 * -3")
	require.NoError(t, err)
	assert.Equal(NewOperator(Minus, NewOperator(Times, Constant(2), Empty{}), Constant(3)), exp)
	assert.Equal("2 * - 3", exp.Render())

	parsed, err := Parse(exp.Render())
	require.NoError(t, err)
	assert.Equal(exp, parsed)
}

func TestRenderRoundTripValue(t *testing.T) {
	bindings := Bindings{"A1": Constant(6), "B2": Constant(-4)}
	for _, exp := range []Expression{
		NewOperator(Times, NewOperator(Plus, Constant(1), Constant(2)), Constant(3)),
		NewOperator(Minus, Constant(5), NewOperator(Minus, Constant(3), Constant(1))),
		NewOperator(Divide, Constant(100), NewOperator(Divide, Constant(10), Constant(2))),
		NewOperator(Times, Constant(3), Constant(-2)),
		NewOperator(Minus, Reference("A1"), Reference("B2")),
		NewOperator(LessThan, NewOperator(Plus, Reference("A1"), Constant(1)), Constant(8)),
		NewOperator(Median, Reference("A1"), NewOperator(Mean, Reference("B2"), Constant(2)), Constant(1)),
	} {
		t.Run(exp.Render(), func(t *testing.T) {
			want, err := exp.Eval(bindings)
			require.NoError(t, err)

			parsed, err := Parse(exp.Render())
			require.NoError(t, err)
			got, err := parsed.Eval(bindings)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReferences(t *testing.T) {
	assert := assert.New(t)
	exp, err := Parse("A1 + MEAN(B2, A1) * C3")
	require.NoError(t, err)
	assert.Equal([]string{"A1", "B2", "C3"}, References(exp))
	assert.Equal([]string{}, References(Constant(1)))
}
