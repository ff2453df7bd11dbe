package expr

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse compiles an expression source into an AST. An empty or blank
// source is a parse error; callers decide what "no expression" means.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &ParseError{Pos: 0, Msg: "empty expression"}
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, &ParseError{Pos: p.peek().pos, Msg: "unexpected token " + p.peek().text}
	}
	return node, nil
}

// EvaluateFormula parses and evaluates a quantity formula. The result must
// be numeric and is clamped to be non-negative.
func EvaluateFormula(src string, vars Vars) (decimal.Decimal, error) {
	node, err := Parse(src)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := node.Eval(vars)
	if err != nil {
		return decimal.Zero, err
	}
	if value.Kind != KindNumber {
		return decimal.Zero, evalErrorf("formula result is %s, want number", value.Kind)
	}
	if value.Num.IsNegative() {
		return decimal.Zero, nil
	}
	return value.Num, nil
}

// EvaluateCondition parses and evaluates an include condition. The result
// must be boolean.
func EvaluateCondition(src string, vars Vars) (bool, error) {
	node, err := Parse(src)
	if err != nil {
		return false, err
	}
	value, err := node.Eval(vars)
	if err != nil {
		return false, err
	}
	if value.Kind != KindBool {
		return false, evalErrorf("condition result is %s, want bool", value.Kind)
	}
	return value.Bool, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// Precedence, loosest first: or, and, not, comparison, additive,
// multiplicative, unary minus, primary.

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tokOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tokAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().kind == tokNot {
		p.next()
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tokNot, child: child}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch op := p.peek().kind; op {
	case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokMinus {
		p.next()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tokMinus, child: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		num, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, &ParseError{Pos: t.pos, Msg: "invalid number " + t.text}
		}
		return &literalNode{value: Number(num)}, nil
	case tokString:
		return &literalNode{value: String(t.text)}, nil
	case tokTrue:
		return &literalNode{value: Bool(true)}, nil
	case tokFalse:
		return &literalNode{value: Bool(false)}, nil
	case tokIdent:
		return &varNode{name: t.text}, nil
	case tokLParen:
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, &ParseError{Pos: p.peek().pos, Msg: "expected closing parenthesis"}
		}
		p.next()
		return node, nil
	case tokEOF:
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected end of expression"}
	default:
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected token " + t.text}
	}
}
