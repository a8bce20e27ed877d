package builder_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/32bitkid/pigeon/ast"
	"github.com/32bitkid/pigeon/builder"
)

func build(t *testing.T, g *ast.Grammar, opts ...builder.Option) string {
	t.Helper()
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g, opts...)
	require.NoError(t, err)
	return buf.String()
}

// TestDeterminism covers spec §8.1 property 1: translating the same IR
// twice yields byte-identical output.
func TestDeterminism(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "greet", RetType: ast.Unit, Exported: true, Expr: ast.Literal{Value: "hi"}},
		},
	}
	out1 := build(t, g)
	out2 := build(t, g)
	require.Equal(t, out1, out2)
}

// TestS1Literal covers spec §8.2 S1: an exported unit-typed rule matching
// a fixed literal.
func TestS1Literal(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "greet", RetType: ast.Unit, Exported: true, Expr: ast.Literal{Value: "hi"}},
		},
	}
	out := build(t, g)

	require.Contains(t, out, "func Greet(input string) (struct{}, error)")
	require.Contains(t, out, `ϡliteralMatch(input, pos, "hi")`)
	require.Contains(t, out, `"Error at line %d"`)
	require.Contains(t, out, `"Expected end of input at line %d"`)
}

// TestConcreteRetType covers spec §4.3/§6.3 and testable property 5: a
// rule's literal RetType (not just "interface{}" or the unit sentinel)
// must surface verbatim in its exported wrapper's signature, with the
// internal ϡresult.val asserted to that type on success.
func TestConcreteRetType(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "sum", RetType: "int64", Exported: true, Expr: ast.Action{Code: "return int64(42)"}},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "func Sum(input string) (int64, error)")
	require.Contains(t, out, "var zero int64")
	require.Contains(t, out, "return res.val.(int64), nil")
}

// TestS2Choice covers spec §8.2 S2: ordered choice between two literals.
func TestS2Choice(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "ab", RetType: ast.Unit, Exported: true,
				Expr: ast.Choice{Exprs: []ast.Expr{
					ast.Literal{Value: "a"},
					ast.Literal{Value: "b"},
				}},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "choiceRes.ok")
	require.Contains(t, out, `ϡliteralMatch(input, pos, "a")`)
	require.Contains(t, out, `ϡliteralMatch(input, pos, "b")`)
}

// TestS3OptionalSequence covers spec §8.2 S3: optional literal followed
// by one-or-more digit matches.
func TestS3OptionalSequence(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "num", RetType: ast.Unit, Exported: true,
				Expr: ast.Sequence{Exprs: []ast.Expr{
					ast.Optional{Expr: ast.Literal{Value: "-"}},
					ast.OneOrMore{Expr: ast.CharSet{Ranges: []ast.Range{{Lo: '0', Hi: '9'}}}},
				}},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "optRes.ok")
	require.Contains(t, out, "ϡcharClassMatcher")
	require.Contains(t, out, "repeatPos")
}

// TestS4Lookahead covers spec §8.2 S4: negative lookahead composed with
// an any-char match, neither consuming nor producing a value from the
// lookahead itself.
func TestS4Lookahead(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "notx", RetType: ast.Unit, Exported: true,
				Expr: ast.Sequence{Exprs: []ast.Expr{
					ast.NegAssert{Expr: ast.Literal{Value: "x"}},
					ast.AnyChar{},
				}},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "!assertRes.ok")
	require.Contains(t, out, "ϡanyChar(input, pos)")
}

// TestPredicateCodeBlock covers the predicate code block form (doc.go:
// "their return value is interpreted as a boolean match/no-match instead
// of a semantic value") — distinct from an ordinary Action, whose return
// value is always a semantic value and whose .ok is unconditionally true.
func TestPredicateCodeBlock(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "guarded", RetType: ast.Unit, Exported: true,
				Expr: ast.Sequence{Exprs: []ast.Expr{
					ast.PosAssert{Expr: ast.Action{Code: "return len(c.text) >= 0"}},
					ast.Literal{Value: "x"},
				}},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "predOk")
	require.Contains(t, out, "func (c *current) guardedAction1() bool")
	require.Contains(t, out, "return len(c.text) >= 0")
}

// TestS5Repetition covers spec §8.2 S5: zero-or-more over a char set,
// with the accumulator threaded when the rule's value is used.
func TestS5Repetition(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "bits", RetType: "interface{}", Exported: true,
				Expr: ast.ZeroOrMore{Expr: ast.CharSet{Ranges: []ast.Range{{Lo: '0', Hi: '1'}}}},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "repeatValue = append(repeatValue, stepRes.val)")
	require.Contains(t, out, "[]interface{}{}")
}

// TestS6Action covers spec §8.2 S6: an action binding two labeled
// sub-expressions and evaluating user code against them.
func TestS6Action(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "digits", RetType: "interface{}", Expr: ast.OneOrMore{Expr: ast.CharSet{Ranges: []ast.Range{{Lo: '0', Hi: '9'}}}}},
			{
				Name: "sum", RetType: "interface{}", Exported: true,
				Expr: ast.Action{
					Exprs: []ast.TaggedExpr{
						{Name: "a", Expr: ast.RuleRef{Name: "digits"}},
						{Expr: ast.Literal{Value: "+"}},
						{Name: "b", Expr: ast.RuleRef{Name: "digits"}},
					},
					Code: "return a, nil",
				},
			},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "parsedigits(input, pos)")
	require.Contains(t, out, "recv.sumAction1(a, b)")
	require.Contains(t, out, "func (c *current) sumAction1(a interface{}, b interface{}) interface{}")
	require.Contains(t, out, "return a, nil")
}

// TestDisplayName covers SPEC_FULL §3's "friendly name" supplement: the
// wrapper's error messages embed the display name instead of staying
// generic.
func TestDisplayName(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "greet", DisplayName: "greeting", RetType: ast.Unit, Exported: true, Expr: ast.Literal{Value: "hi"}},
		},
	}
	out := build(t, g)
	require.Contains(t, out, `"Error at greeting: line %d"`)
	require.Contains(t, out, `"Expected end of input at greeting: line %d"`)
}

// TestIgnoreCaseLiteral covers the teacher's case-insensitive literal
// suffix supplement.
func TestIgnoreCaseLiteral(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "hello", RetType: ast.Unit, Exported: true, Expr: ast.Literal{Value: "Hi", IgnoreCase: true}},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "ignoreCase: true")
	require.Contains(t, out, `"hi"`) // folded at generation time
}

// TestReceiverNameOption covers the configurable Action/predicate method
// receiver name (teacher's -receiver-name flag).
func TestReceiverNameOption(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{
				Name: "one", RetType: "interface{}", Exported: true,
				Expr: ast.Action{Code: "return 1, nil"},
			},
		},
	}
	out := build(t, g, builder.ReceiverName("self"))
	require.Contains(t, out, "func (self *current) oneAction1()")
}

// TestDelimitedUnsupported and TestStringifyUnsupported cover spec §4.4.9
// / §8.3: reaching either is a fatal translation error, reported per
// rule, that does not prevent other rules from being translated.
func TestDelimitedUnsupported(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "bad", RetType: ast.Unit, Exported: true, Expr: ast.Delimited{Open: ast.AnyChar{}, Close: ast.AnyChar{}}},
			{Name: "good", RetType: ast.Unit, Exported: true, Expr: ast.Literal{Value: "ok"}},
		},
	}
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad")
	require.Contains(t, buf.String(), "func Good(")
	require.NotContains(t, buf.String(), "func Bad(")
}

func TestStringifyUnsupported(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "bad", RetType: ast.Unit, Exported: true, Expr: ast.Stringify{Expr: ast.AnyChar{}}},
		},
	}
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad")
}

// TestEmptySequenceIsMalformed and TestEmptyChoiceIsMalformed cover
// DESIGN.md's Decision D3: empty Sequence/Choice is legal IR per spec
// §3.5 but is treated as a translation error rather than silently
// emitting no code, since the latter would produce a function body with
// no return statement.
func TestEmptySequenceIsMalformed(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{{Name: "empty", RetType: ast.Unit, Exported: true, Expr: ast.Sequence{}}},
	}
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g)
	require.Error(t, err)
}

func TestEmptyChoiceIsMalformed(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{{Name: "empty", RetType: ast.Unit, Exported: true, Expr: ast.Choice{}}},
	}
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g)
	require.Error(t, err)
}

// TestCurrentCarriesPositionAndBytes covers the teacher's documented
// current/position shape: pos is a line/col/offset struct, not a bare
// int, and text is a []byte slice of the input, not a string.
func TestCurrentCarriesPositionAndBytes(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "one", RetType: "interface{}", Exported: true, Expr: ast.Action{Code: "return c.pos.line"}},
		},
	}
	out := build(t, g)
	require.Contains(t, out, "type position struct {")
	require.Contains(t, out, "type current struct {")
	require.Contains(t, out, "text []byte")
	require.Contains(t, out, "recv := &current{pos: ϡtoPosition(input, startPos), text: []byte(matchStr)}")
}

// TestNoRulesStillEmitsPrelude covers spec §8.3: a grammar with zero
// rules still emits the banner, imports and runtime helpers.
func TestNoRulesStillEmitsPrelude(t *testing.T) {
	out := build(t, &ast.Grammar{})
	require.Contains(t, out, "Code generated by pigeon")
	require.Contains(t, out, "func ϡliteralMatch(")
	require.Contains(t, out, "func ϡanyChar(")
	require.Contains(t, out, "func ϡposToLine(")
}

// TestMultiRuleFailureAggregation covers Decision D1: every rule is
// attempted, and failures from more than one rule are combined into a
// single returned error mentioning each.
func TestMultiRuleFailureAggregation(t *testing.T) {
	g := &ast.Grammar{
		Rules: []*ast.Rule{
			{Name: "bad1", RetType: ast.Unit, Expr: ast.Sequence{}},
			{Name: "bad2", RetType: ast.Unit, Expr: ast.Choice{}},
		},
	}
	var buf bytes.Buffer
	err := builder.BuildParser(&buf, g)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "bad1") && strings.Contains(err.Error(), "bad2"))
}
