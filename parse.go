package sheep

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// splitOrder lists the operators a token span may be split on. When a span
// contains several of them the one listed last wins, so ',' is split first
// and '=' last: '=' binds tightest.
var splitOrder = []string{"=", "<", "/", "*", "-", "+", ","}

// Parser turns formula text into an Expression. Operators and functions are
// built through its Registry.
type Parser struct {
	registry *Registry
}

// NewParser returns a Parser that builds operators from r.
func NewParser(r *Registry) *Parser {
	return &Parser{registry: r}
}

// Parse parses text with the core registry.
func Parse(text string) (Expression, error) {
	return NewParser(CoreRegistry()).Parse(text)
}

// Parse parses text into an expression tree. Blank text is Empty. On failure
// the error is a *ParseError wrapping ErrParse and no tree is returned.
func (p *Parser) Parse(text string) (Expression, error) {
	e, err := p.parseText(text)
	if err != nil {
		return nil, &ParseError{Input: text, Err: err}
	}
	return e, nil
}

func (p *Parser) parseText(text string) (Expression, error) {
	toks, err := tokenize(strings.TrimSpace(text), p.registry.IsFunction)
	if err != nil {
		return nil, err
	}
	return p.parseTokens(toks)
}

func (p *Parser) parseTokens(toks []Token) (Expression, error) {
	if sym := dominantOp(toks); sym != "" {
		return p.parseSplit(sym, toks)
	}

	for _, t := range toks {
		if t.Kind == FUNC && t.Name == "" {
			inner, err := p.parseText(t.Contents)
			if err != nil {
				return nil, err
			}
			return p.build("", []Expression{inner})
		}
	}

	for _, t := range toks {
		if t.Kind == FUNC && p.registry.IsFunction(t.Name) {
			args := splitArgs(t.Contents)
			operands := make([]Expression, len(args))
			for i, arg := range args {
				e, err := p.parseText(arg)
				if err != nil {
					return nil, err
				}
				operands[i] = e
			}
			return p.build(t.Name, operands)
		}
	}

	if len(toks) == 0 {
		return Empty{}, nil
	}
	if len(toks) == 1 {
		t := toks[0]
		if t.Kind == CONST {
			if n, err := strconv.ParseInt(t.Name, 10, 64); err == nil {
				return Constant(n), nil
			}
		}
		if t.Kind == REFERENCE {
			for _, c := range t.Name {
				if !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
					return nil, fmt.Errorf("%w: %s", ErrUnknownInput, t.Name)
				}
			}
			return Reference(t.Name), nil
		}
	}
	return nil, fmt.Errorf("%w for %q", ErrNoRule, spanText(toks))
}

// parseSplit splits toks at every occurrence of sym and parses each piece
// as one operand, so 4+5+6 is a single Plus of three operands.
func (p *Parser) parseSplit(sym string, toks []Token) (Expression, error) {
	if sym == "-" && len(toks) == 2 && toks[0].Kind == OP && toks[1].Kind == CONST {
		if n, err := strconv.ParseInt("-"+toks[1].Name, 10, 64); err == nil {
			return Constant(n), nil
		}
	}

	operands := make([]Expression, 0, 2)
	start := 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) && !(toks[i].Kind == OP && toks[i].Name == sym) {
			continue
		}
		e, err := p.parseTokens(toks[start:i])
		if err != nil {
			return nil, err
		}
		operands = append(operands, e)
		start = i + 1
	}

	// Leading minus: -x is 0 - x.
	if _, ok := operands[0].(Empty); ok && sym == "-" {
		operands[0] = Constant(0)
	}
	return p.build(sym, operands)
}

func (p *Parser) build(name string, operands []Expression) (Expression, error) {
	op, err := p.registry.CreateOperator(name, operands)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func dominantOp(toks []Token) string {
	dominant := ""
	for _, sym := range splitOrder {
		for _, t := range toks {
			if t.Kind == OP && t.Name == sym {
				dominant = sym
				break
			}
		}
	}
	return dominant
}

// splitArgs splits function contents on the commas that are not nested
// inside parentheses or quotes.
func splitArgs(contents string) []string {
	args := make([]string, 0, 2)
	depth := 0
	quoted := false
	start := 0
	for i, c := range contents {
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			args = append(args, contents[start:i])
			start = i + 1
		}
	}
	return append(args, contents[start:])
}

func spanText(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		if t.Kind == FUNC {
			parts[i] = t.Name + "(" + t.Contents + ")"
		} else {
			parts[i] = t.Name
		}
	}
	return strings.Join(parts, " ")
}
