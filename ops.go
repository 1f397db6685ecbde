package sheep

import (
	"fmt"
	"slices"
)

// Op identifies the rule an Operator applies to its evaluated operands.
type Op int

const (
	Group Op = iota // parentheses; yields its single operand
	Plus
	Minus
	Times
	Divide
	Equals
	LessThan
	Mean
	Median
)

var opNames = [...]string{
	Group:    "Group",
	Plus:     "Plus",
	Minus:    "Minus",
	Times:    "Times",
	Divide:   "Divide",
	Equals:   "Equals",
	LessThan: "LessThan",
	Mean:     "Mean",
	Median:   "Median",
}

var opSymbols = [...]string{
	Group:    "",
	Plus:     "+",
	Minus:    "-",
	Times:    "*",
	Divide:   "/",
	Equals:   "=",
	LessThan: "<",
	Mean:     "MEAN",
	Median:   "MEDIAN",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return opNames[op]
}

// Symbol is the text op is written with in a formula.
func (op Op) Symbol() string {
	if op < 0 || int(op) >= len(opSymbols) {
		return ""
	}
	return opSymbols[op]
}

// IsFunction reports whether op is written as NAME(args).
func (op Op) IsFunction() bool {
	return op == Mean || op == Median
}

func (op Op) infix() bool {
	return op != Group && !op.IsFunction()
}

// splitRank is the position of op's symbol in the parser's split order.
// Higher ranks are split first and therefore bind more loosely.
func (op Op) splitRank() int {
	return slices.Index(splitOrder, op.Symbol())
}
