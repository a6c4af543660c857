// Package arith parses and evaluates arithmetic expressions over decimal
// numbers with + - * / ^ and parentheses. It never executes input as code.
package arith

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmpty     = errors.New("arith: empty expression")
	ErrNonFinite = errors.New("arith: non-finite result")
)

type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("arith: syntax error at %d: %s", e.Pos, e.Msg)
}

type Node interface {
	Eval() (float64, error)
}

type numberNode float64

func (n numberNode) Eval() (float64, error) {
	return float64(n), nil
}

type unaryNode struct {
	op      tokenKind
	operand Node
}

func (n *unaryNode) Eval() (float64, error) {
	v, err := n.operand.Eval()
	if err != nil {
		return 0, err
	}
	if n.op == tokenMinus {
		return -v, nil
	}
	return v, nil
}

type binaryNode struct {
	op          tokenKind
	left, right Node
}

func (n *binaryNode) Eval() (float64, error) {
	x, err := n.left.Eval()
	if err != nil {
		return 0, err
	}
	y, err := n.right.Eval()
	if err != nil {
		return 0, err
	}
	var out float64
	switch n.op {
	case tokenPlus:
		out = x + y
	case tokenMinus:
		out = x - y
	case tokenStar:
		out = x * y
	case tokenSlash:
		out = x / y
	case tokenCaret:
		out = math.Pow(x, y)
	default:
		return 0, fmt.Errorf("arith: unknown operator %s", n.op)
	}
	if math.IsInf(out, 0) || math.IsNaN(out) {
		return 0, fmt.Errorf("%w: %s %s %s", ErrNonFinite, FormatNumber(x), n.op, FormatNumber(y))
	}
	return out, nil
}

type parser struct {
	tokens []token
	pos    int
}

// Parse builds an expression tree. Precedence from loosest to tightest:
// + -, * /, unary sign, ^ (right-associative).
func Parse(input string) (Node, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 {
		return nil, ErrEmpty
	}
	p := &parser{tokens: tokens}
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
	return node, nil
}

// Evaluate parses and evaluates input in one step.
func Evaluate(input string) (float64, error) {
	node, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return node.Eval()
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenPlus && tok.kind != tokenMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.kind, left: left, right: right}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenStar && tok.kind != tokenSlash {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.kind, left: left, right: right}
	}
}

func (p *parser) unary() (Node, error) {
	tok := p.peek()
	if tok.kind == tokenPlus || tok.kind == tokenMinus {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.kind, operand: operand}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenCaret {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tokenCaret, left: base, right: exp}, nil
}

func (p *parser) primary() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return numberNode(tok.value), nil
	case tokenLParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected ')', got %s", closing.kind)}
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok.kind)}
	}
}
