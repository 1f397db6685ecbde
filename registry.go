package sheep

import "fmt"

// Registry maps operator and function names, as they appear in formula
// text, to the Op they build. The empty name is plain parentheses.
type Registry struct {
	names map[string]Op
}

// NewRegistry returns a Registry over a copy of names.
func NewRegistry(names map[string]Op) *Registry {
	r := &Registry{names: make(map[string]Op, len(names))}
	for k, v := range names {
		r.names[k] = v
	}
	return r
}

var coreRegistry = NewRegistry(map[string]Op{
	"":       Group,
	"+":      Plus,
	"-":      Minus,
	"*":      Times,
	"/":      Divide,
	"=":      Equals,
	"<":      LessThan,
	"MEAN":   Mean,
	"MEDIAN": Median,
})

// CoreRegistry returns the registry of every built-in operator and function.
func CoreRegistry() *Registry {
	return coreRegistry
}

// Lookup returns the Op registered under name.
func (r *Registry) Lookup(name string) (Op, bool) {
	op, ok := r.names[name]
	return op, ok
}

// IsFunction reports whether name is registered as a NAME(args) function.
func (r *Registry) IsFunction(name string) bool {
	op, ok := r.names[name]
	return ok && op.IsFunction()
}

// CreateOperator builds the operator registered under name.
func (r *Registry) CreateOperator(name string, operands []Expression) (*Operator, error) {
	op, ok := r.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: no operator %q", ErrNoRule, name)
	}
	return &Operator{Op: op, Operands: operands}, nil
}
