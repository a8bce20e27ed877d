package frontend_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/32bitkid/pigeon/ast"
	"github.com/32bitkid/pigeon/frontend"
)

func TestParseInitializerAndLiteralRule(t *testing.T) {
	src := `{
		package main
	}

	Greet = "hi"
	`
	g, err := frontend.Parse("test.peg", []byte(src))
	require.NoError(t, err)
	require.Contains(t, g.Initializer, "package main")
	require.Len(t, g.Rules, 1)

	r := g.Rules[0]
	require.Equal(t, "Greet", r.Name)
	require.True(t, r.Exported)
	require.Equal(t, ast.Literal{Value: "hi"}, r.Expr)
}

func TestParseChoiceAndSequence(t *testing.T) {
	g, err := frontend.Parse("test.peg", []byte(`ab = "a" / "b"`))
	require.NoError(t, err)
	require.Len(t, g.Rules, 1)

	choice, ok := g.Rules[0].Expr.(ast.Choice)
	require.True(t, ok)
	require.Len(t, choice.Exprs, 2)
	require.Equal(t, ast.Literal{Value: "a"}, choice.Exprs[0])
	require.Equal(t, ast.Literal{Value: "b"}, choice.Exprs[1])
}

func TestParseLabeledExprAndAction(t *testing.T) {
	src := `num = value:[0-9]+ {
		return value, nil
	}`
	g, err := frontend.Parse("test.peg", []byte(src))
	require.NoError(t, err)

	action, ok := g.Rules[0].Expr.(ast.Action)
	require.True(t, ok)
	require.Len(t, action.Exprs, 1)
	require.Equal(t, "value", action.Exprs[0].Name)

	oneOrMore, ok := action.Exprs[0].Expr.(ast.OneOrMore)
	require.True(t, ok)
	cs, ok := oneOrMore.Expr.(ast.CharSet)
	require.True(t, ok)
	require.Equal(t, []ast.Range{{Lo: '0', Hi: '9'}}, cs.Ranges)
}

func TestParsePredicatesAndRepetition(t *testing.T) {
	g, err := frontend.Parse("test.peg", []byte(`notx = !"x" .`))
	require.NoError(t, err)

	seq, ok := g.Rules[0].Expr.(ast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Exprs, 2)

	neg, ok := seq.Exprs[0].(ast.NegAssert)
	require.True(t, ok)
	require.Equal(t, ast.Literal{Value: "x"}, neg.Expr)

	_, ok = seq.Exprs[1].(ast.AnyChar)
	require.True(t, ok)
}

func TestParseCharSetIgnoreCaseAndInvert(t *testing.T) {
	g, err := frontend.Parse("test.peg", []byte(`notAZ = [^a-z]i`))
	require.NoError(t, err)

	cs, ok := g.Rules[0].Expr.(ast.CharSet)
	require.True(t, ok)
	require.True(t, cs.Invert)
	require.True(t, cs.IgnoreCase)
	require.Equal(t, []ast.Range{{Lo: 'a', Hi: 'z'}}, cs.Ranges)
}

func TestParseDisplayNameAndRuleOperators(t *testing.T) {
	g, err := frontend.Parse("test.peg", []byte(`RuleA "friendly name" <- 'a'+`))
	require.NoError(t, err)
	require.Equal(t, "friendly name", g.Rules[0].DisplayName)

	_, ok := g.Rules[0].Expr.(ast.OneOrMore)
	require.True(t, ok)
}

func TestParseUnterminatedLiteralIsError(t *testing.T) {
	_, err := frontend.Parse("test.peg", []byte(`bad = "unterminated`))
	require.Error(t, err)
}

// TestParseFullRuleShape pins the whole parsed shape of a rule combining
// several constructs at once, via a deep structural diff rather than a
// field-by-field assertion.
func TestParseFullRuleShape(t *testing.T) {
	src := `Pair "key-value pair" = key:[a-z]+ "=" value:[0-9]+ {
		return map[string]interface{}{"key": key, "value": value}, nil
	}`
	g, err := frontend.Parse("test.peg", []byte(src))
	require.NoError(t, err)
	require.Len(t, g.Rules, 1)

	want := ast.Action{
		Exprs: []ast.TaggedExpr{
			{Name: "key", Expr: ast.OneOrMore{Expr: ast.CharSet{Ranges: []ast.Range{{Lo: 'a', Hi: 'z'}}}}},
			{Expr: ast.Literal{Value: "="}},
			{Name: "value", Expr: ast.OneOrMore{Expr: ast.CharSet{Ranges: []ast.Range{{Lo: '0', Hi: '9'}}}}},
		},
		Code: "\n\t\treturn map[string]interface{}{\"key\": key, \"value\": value}, nil\n\t",
	}
	if diff := cmp.Diff(want, g.Rules[0].Expr); diff != "" {
		t.Errorf("parsed rule expr mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "key-value pair", g.Rules[0].DisplayName)
}
