package arith

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	tokenLParen
	tokenRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenNumber:
		return "number"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenCaret:
		return "'^'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

// tokenize splits input into arithmetic tokens. "**" is accepted as an
// alias for '^'.
func tokenize(input string) ([]token, error) {
	out := make([]token, 0, len(input)/2+1)
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+':
			out = append(out, token{kind: tokenPlus, text: "+", pos: i})
			i++
		case c == '-':
			out = append(out, token{kind: tokenMinus, text: "-", pos: i})
			i++
		case c == '*':
			if i+1 < len(input) && input[i+1] == '*' {
				out = append(out, token{kind: tokenCaret, text: "**", pos: i})
				i += 2
				continue
			}
			out = append(out, token{kind: tokenStar, text: "*", pos: i})
			i++
		case c == '/':
			out = append(out, token{kind: tokenSlash, text: "/", pos: i})
			i++
		case c == '^':
			out = append(out, token{kind: tokenCaret, text: "^", pos: i})
			i++
		case c == '(':
			out = append(out, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case c == ')':
			out = append(out, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case isDigit(c) || c == '.':
			tok, next, err := scanNumber(input, i)
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
			i = next
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
		}
	}
	out = append(out, token{kind: tokenEOF, pos: len(input)})
	return out, nil
}

func scanNumber(input string, start int) (token, int, error) {
	i := start
	digits := 0
	for i < len(input) && isDigit(input[i]) {
		i++
		digits++
	}
	if i < len(input) && input[i] == '.' {
		i++
		for i < len(input) && isDigit(input[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return token{}, start, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(input) && isDigit(input[j]) {
			j++
			expDigits++
		}
		if expDigits == 0 {
			return token{}, start, &SyntaxError{Pos: i, Msg: "malformed exponent"}
		}
		i = j
	}
	text := input[start:i]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, start, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
	}
	return token{kind: tokenNumber, text: text, value: v, pos: start}, i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
