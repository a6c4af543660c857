package calc

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/primecalc/internal/arith"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		expression string
		display    string
		want       string
	}{
		{"2 + ", "3", "5"},
		{"7 * ", "3", "21"},
		{"7 × ", "3", "21"},
		{"9 ÷ ", "3", "3"},
		{"2 ^ ", "10", "1024"},
		{"0.1 + ", "0.2", "0.30000000000000004"},
		{"-2 - ", "3", "-5"},
		{"1e+21 + ", "0", "1e+21"},
	}
	for _, tc := range cases {
		got, err := Evaluate(tc.expression, tc.display)
		if err != nil {
			t.Fatalf("evaluate %q%q failed: %v", tc.expression, tc.display, err)
		}
		if got != tc.want {
			t.Fatalf("evaluate %q%q = %q, want %q", tc.expression, tc.display, got, tc.want)
		}
	}
}

func TestEvaluateEmptyExpression(t *testing.T) {
	cases := [][2]string{
		{"", ""},
		{"", "5"},
		{"", ErrorMarker},
	}
	for _, tc := range cases {
		if _, err := Evaluate(tc[0], tc[1]); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("expected ErrEmptyExpression for %q%q, got %v", tc[0], tc[1], err)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate("10 / ", "0")
	if !errors.Is(err, ErrEvaluation) || !errors.Is(err, arith.ErrNonFinite) {
		t.Fatalf("expected non-finite evaluation error, got %v", err)
	}

	_, err = Evaluate("2 + ", ErrorMarker)
	if !errors.Is(err, ErrEvaluation) {
		t.Fatalf("expected evaluation error, got %v", err)
	}
	var se *arith.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped syntax error, got %v", err)
	}
}

func TestTranslate(t *testing.T) {
	if got := Translate("2 × 3 ÷ 4 ^ 5 + 1"); got != "2 * 3 / 4 ** 5 + 1" {
		t.Fatalf("unexpected translation %q", got)
	}
}
