package builder

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/32bitkid/pigeon/ast"
	"github.com/32bitkid/pigeon/writer"
)

// compileRule translates one rule into its internal parse function (spec
// §4.3) plus, if Exported, a public wrapper (§4.3, grounded on
// original_source's compile_rule_export), plus any Action methods
// discovered while walking its Expr tree. It writes to a scratch buffer
// and recovers any *buildError panic raised during translation, so a
// failing rule never leaves a partial function in buf and the caller
// (BuildParser) can keep translating the remaining rules (Decision D1,
// SPEC_FULL §7).
func compileRule(receiver string, rule *ast.Rule) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*buildError)
			if !ok {
				panic(r)
			}
			buf = nil
			err = be
		}
	}()

	var b bytes.Buffer
	ind := writer.New(&b)
	c := &ctx{rule: rule.Name, receiver: receiver}

	// The internal function keeps ϡresult's opaque val interface{} on
	// purpose — rule.RetType only needs to surface at the exported
	// wrapper's boundary (compileRuleExport), the single place spec
	// §4.3/§6.3 requires the literal type in a generated signature. A
	// rule with no wrapper (unexported, or called only from other rules)
	// never needs its RetType to appear as Go source at all.
	ind.Line("// parse%s is the internal, unexported parse function for rule %s.", rule.Name, strconv.Quote(rule.Name))
	ind.DefFn(false, "parse"+rule.Name, "input string, pos int", "ϡresult", func() {
		compileExpr(ind, c, rule.Expr, ast.HasValue(rule.RetType))
	})
	ind.Line("")

	for _, am := range c.actions {
		emitActionMethod(ind, am)
		ind.Line("")
	}

	if rule.Exported {
		compileRuleExport(ind, rule)
		ind.Line("")
	}

	if ferr := ind.Flush(); ferr != nil {
		return nil, ferr
	}
	return b.Bytes(), nil
}

// emitActionMethod emits one Action's code as a method on *current (spec
// §4.4.8, SPEC_FULL §3/§6), taking each labeled sub-expression's bound
// value as an interface{} parameter, in declaration order.
func emitActionMethod(w writer.Writer, am actionMethod) {
	params := ""
	for i, a := range am.args {
		if i > 0 {
			params += ", "
		}
		params += fmt.Sprintf("%s interface{}", a)
	}
	name := fmt.Sprintf("(%s *current) %s", am.recv, am.name)
	w.DefFn(false, name, params, am.retType, func() {
		w.Write("%s\n", am.code)
	})
}

// compileRuleExport emits the public wrapper for an exported rule,
// grounded on original_source's compile_rule_export: call the internal
// function at position 0, require the whole input be consumed, and
// format failures as "Error at line N" / "Expected end of input at line
// N" (spec §7's furthest-failure message shapes); the rule's name does
// not appear in these. When the rule carries a DisplayName (SPEC_FULL
// §3's "friendly name" supplement), it is inserted into both messages as
// "Error at <name>: line N" — scoped to just this rule's own
// wrapper, since nothing below parse<Name> carries display-name context
// to collapse a whole call stack's worth of them.
//
// The wrapper's signature substitutes rule.RetType literally (spec
// §4.3/§6.3; original_source/src/peg/peg.rs's compile_rule_export:
// `combine_str!("Result<", rule.ret_type.as_slice(), ", String>")`), with
// a single type assertion out of the internal function's opaque
// ϡresult.val converting it to that concrete type on success.
func compileRuleExport(w writer.Writer, rule *ast.Rule) {
	retType := rule.RetType
	if !ast.HasValue(rule.RetType) {
		retType = "struct{}"
	}

	errAtFmt := strconv.Quote("Error at line %d")
	expectedEOFFmt := strconv.Quote("Expected end of input at line %d")
	if rule.DisplayName != "" {
		errAtFmt = strconv.Quote(fmt.Sprintf("Error at %s: line %%d", rule.DisplayName))
		expectedEOFFmt = strconv.Quote(fmt.Sprintf("Expected end of input at %s: line %%d", rule.DisplayName))
	}

	w.DefFn(true, rule.Name, "input string", fmt.Sprintf("(%s, error)", retType), func() {
		w.LetBlock("res", "ϡresult", func() {
			w.Line("return parse%s(input, 0)", rule.Name)
		})
		w.IfElse("!res.ok", func() {
			w.Line("var zero %s", retType)
			w.Line("return zero, fmt.Errorf(%s, ϡposToLine(input, res.pos))", errAtFmt)
		}, func() {
			w.IfElse("res.pos != len(input)", func() {
				w.Line("var zero %s", retType)
				w.Line("return zero, fmt.Errorf(%s, ϡposToLine(input, res.pos))", expectedEOFFmt)
			}, func() {
				if ast.HasValue(rule.RetType) {
					w.Line("return res.val.(%s), nil", rule.RetType)
				} else {
					w.Line("return struct{}{}, nil")
				}
			})
		})
	})
}
