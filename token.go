package sheep

import (
	"fmt"
	"unicode"
)

// TokenKind says what a Token holds.
type TokenKind int

const (
	CONST     TokenKind = iota // a run of decimal digits
	OP                         // a single operator or comma
	REFERENCE                  // any other run, validated later by the parser
	FUNC                       // a parenthesised span, optionally named
)

func (k TokenKind) String() string {
	switch k {
	case CONST:
		return "CONST"
	case OP:
		return "OP"
	case REFERENCE:
		return "REFERENCE"
	case FUNC:
		return "FUNC"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of a formula. For FUNC tokens Name is the
// function name (empty for plain grouping parentheses) and Contents is the
// raw text between the delimiters, left for the parser to tokenize.
type Token struct {
	Kind     TokenKind
	Name     string
	Contents string
}

func (t Token) String() string {
	if t.Kind == FUNC {
		return fmt.Sprintf("Token[type=%s, name=%s, contents=%s]", t.Kind, t.Name, t.Contents)
	}
	return fmt.Sprintf("Token[type=%s, name=%s]", t.Kind, t.Name)
}

const opRunes = "=</*-+,"

func isOpRune(r rune) bool {
	for _, o := range opRunes {
		if r == o {
			return true
		}
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize splits text into tokens, recognising MEAN and MEDIAN as function
// names. It fails with ErrUnbalanced when parentheses do not match.
func Tokenize(text string) ([]Token, error) {
	return tokenize(text, CoreRegistry().IsFunction)
}

func tokenize(text string, isFunc func(string) bool) ([]Token, error) {
	rs := []rune(text)
	toks := make([]Token, 0)
	// refEnd is the offset just past the last REFERENCE run, used to attach
	// function names that sit directly against their '('.
	refEnd := -1
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isOpRune(r):
			toks = append(toks, Token{Kind: OP, Name: string(r)})
			i++
		case r == ')':
			return nil, fmt.Errorf("%w: unmatched ')' at offset %d of %q", ErrUnbalanced, i, text)
		case r == '(':
			end, err := matchParen(rs, i)
			if err != nil {
				return nil, fmt.Errorf("%w: in %q", err, text)
			}
			tok := Token{Kind: FUNC, Contents: string(rs[i+1 : end])}
			if n := len(toks); n > 0 && refEnd == i && toks[n-1].Kind == REFERENCE && isFunc(toks[n-1].Name) {
				tok.Name = toks[n-1].Name
				toks = toks[:n-1]
			}
			toks = append(toks, tok)
			i = end + 1
		default:
			run, next := scanRun(rs, i)
			kind := CONST
			for _, c := range run {
				if !isDigit(c) {
					kind = REFERENCE
					break
				}
			}
			toks = append(toks, Token{Kind: kind, Name: run})
			if kind == REFERENCE {
				refEnd = next
			}
			i = next
		}
	}
	return toks, nil
}

// scanRun reads a maximal run of characters that are not whitespace,
// operators or delimiters, starting at rs[start]. Inside double quotes
// whitespace neither ends the run nor is kept.
func scanRun(rs []rune, start int) (string, int) {
	run := make([]rune, 0, 8)
	quoted := false
	i := start
	for ; i < len(rs); i++ {
		c := rs[i]
		if quoted {
			if c == '"' {
				quoted = false
				run = append(run, c)
			} else if !unicode.IsSpace(c) {
				run = append(run, c)
			}
			continue
		}
		if unicode.IsSpace(c) || isOpRune(c) || c == '(' || c == ')' {
			break
		}
		if c == '"' {
			quoted = true
		}
		run = append(run, c)
	}
	return string(run), i
}

// matchParen returns the offset of the ')' closing the '(' at rs[open].
// Parentheses inside double quotes are not counted.
func matchParen(rs []rune, open int) (int, error) {
	depth := 0
	quoted := false
	for i := open; i < len(rs); i++ {
		switch c := rs[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unmatched '(' at offset %d", ErrUnbalanced, open)
}
