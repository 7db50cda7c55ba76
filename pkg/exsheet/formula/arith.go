package formula

import (
	"fmt"
	"math"
	"strconv"
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenEOF
)

type token struct {
	kind  tokenKind
	value string
	num   float64
	pos   int
}

// tokenize splits an arithmetic expression into numbers, the operators
// + - * / and parentheses. Anything else is a syntax error.
func tokenize(expr string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(expr); {
		ch := expr[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '+' || ch == '-' || ch == '*' || ch == '/':
			tokens = append(tokens, token{kind: tokenOperator, value: string(ch), pos: i})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, value: "(", pos: i})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRightParen, value: ")", pos: i})
			i++
		case isDigit(ch) || ch == '.':
			end := scanNumber(expr, i)
			text := expr[i:end]
			num, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, newError(expr, i, fmt.Errorf("%w: invalid number %q", ErrSyntax, text))
			}
			tokens = append(tokens, token{kind: tokenNumber, value: text, num: num, pos: i})
			i = end
		default:
			return nil, newError(expr, i, fmt.Errorf("%w: unexpected character %q", ErrSyntax, ch))
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(expr)})
	return tokens, nil
}

// scanNumber returns the end offset of the numeric literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// arithParser is a recursive-descent parser that evaluates while parsing.
//
//	expr    := term { ("+" | "-") term }
//	term    := unary { ("*" | "/") unary }
//	unary   := ("+" | "-") unary | primary
//	primary := number | "(" expr ")"
type arithParser struct {
	expr   string
	tokens []token
	pos    int
}

// EvalArithmetic evaluates an expression made of numeric literals,
// + - * / and parentheses. Division by zero and non-finite results are
// errors.
func EvalArithmetic(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &arithParser{expr: expr, tokens: tokens}

	if p.peek().kind == tokenEOF {
		return 0, newError(expr, 0, fmt.Errorf("%w: empty expression", ErrSyntax))
	}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return 0, newError(expr, tok.pos, fmt.Errorf("%w: unexpected token %q", ErrSyntax, tok.value))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, newError(expr, 0, ErrNotFinite)
	}
	return v, nil
}

func (p *arithParser) peek() token {
	return p.tokens[p.pos]
}

func (p *arithParser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *arithParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOperator || (tok.value != "+" && tok.value != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if tok.value == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *arithParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOperator || (tok.value != "*" && tok.value != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if tok.value == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, newError(p.expr, tok.pos, ErrDivisionByZero)
		}
		left /= right
	}
}

func (p *arithParser) parseUnary() (float64, error) {
	tok := p.peek()
	if tok.kind == tokenOperator && (tok.value == "+" || tok.value == "-") {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if tok.value == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePrimary()
}

func (p *arithParser) parsePrimary() (float64, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return tok.num, nil
	case tokenLeftParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokenRightParen {
			return 0, newError(p.expr, closing.pos, fmt.Errorf("%w: expected closing parenthesis", ErrSyntax))
		}
		return v, nil
	case tokenEOF:
		return 0, newError(p.expr, tok.pos, fmt.Errorf("%w: unexpected end of expression", ErrSyntax))
	default:
		return 0, newError(p.expr, tok.pos, fmt.Errorf("%w: unexpected token %q", ErrSyntax, tok.value))
	}
}
