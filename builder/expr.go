package builder

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/32bitkid/pigeon/ast"
	"github.com/32bitkid/pigeon/writer"
)

// compileExpr translates e into a fragment obeying the uniform
// parser-combinator protocol (spec §4.4): at entry, input and pos are in
// scope; the fragment's last statement returns a ϡresult. resultUsed
// governs whether repetitions allocate an accumulator, whether choice and
// optional propagate the child value, and whether a sequence binds its
// last child's value (spec §4.5). One case per Expr variant, matching the
// IR's tagged-sum shape (spec §9 design note: "pattern-matching dispatch
// is mandatory").
func compileExpr(w writer.Writer, c *ctx, e ast.Expr, resultUsed bool) {
	switch ex := e.(type) {
	case ast.AnyChar:
		w.Line("return ϡanyChar(input, pos)")

	case ast.Literal:
		compileLiteral(w, ex)

	case ast.CharSet:
		if !ast.ValidRanges(ex.Ranges) {
			c.abort(errMalformedIR, "character class has a range with lo > hi")
		}
		compileCharSet(w, ex)

	case ast.RuleRef:
		if !ast.ValidIdent(ex.Name) {
			c.abort(errMalformedIR, "rule reference %q is not a valid identifier", ex.Name)
		}
		w.Line("return parse%s(input, pos)", ex.Name)

	case ast.Sequence:
		compileSequence(w, c, ex.Exprs, resultUsed)

	case ast.Choice:
		compileChoice(w, c, ex.Exprs, resultUsed)

	case ast.Optional:
		compileOptional(w, c, ex.Expr, resultUsed)

	case ast.ZeroOrMore:
		compileRepetition(w, c, ex.Expr, resultUsed, false)

	case ast.OneOrMore:
		compileRepetition(w, c, ex.Expr, resultUsed, true)

	case ast.PosAssert:
		compileLookahead(w, c, ex.Expr, true)

	case ast.NegAssert:
		compileLookahead(w, c, ex.Expr, false)

	case ast.Action:
		compileAction(w, c, ex)

	case ast.Delimited:
		c.abort(errUnsupported, "Delimited expressions are reserved and not implemented")

	case ast.Stringify:
		c.abort(errUnsupported, "Stringify expressions are reserved and not implemented")

	default:
		c.abort(errMalformedIR, "unknown expression type %T", e)
	}
}

// compileLiteral emits spec §4.4.1's literal-match call, generalized with
// the teacher's case-insensitive suffix (SPEC_FULL §6). The folded value
// is computed once at generation time, mirroring the teacher's own
// generator-time fold in vm/vm_test.go (`if m.IgnoreCase { m.Val =
// strings.ToLower(m.Val) }`), here using Unicode case folding instead of
// ASCII-biased ToLower.
func compileLiteral(w writer.Writer, lit ast.Literal) {
	value := lit.Value
	if lit.IgnoreCase {
		value = cases.Fold().String(value)
		cond := fmt.Sprintf(
			"next, ok := (ϡliteralMatcher{value: %s, ignoreCase: true}).match(input, pos); ok",
			strconv.Quote(value),
		)
		w.IfElse(cond, func() {
			w.Line("return ϡok(next, nil)")
		}, func() {
			w.Line("return ϡfail(pos)")
		})
		return
	}
	w.Line("return ϡliteralMatch(input, pos, %s)", strconv.Quote(value))
}

// compileCharSet emits spec §4.4.2's char-class match via the shared
// ϡcharClassMatcher runtime type (SPEC_FULL §2), since Go's switch has no
// range-pattern case the way the original's match_block-per-call-site
// design relied on.
func compileCharSet(w writer.Writer, cs ast.CharSet) {
	var chars, ranges []rune
	for _, r := range cs.Ranges {
		lo, hi := r.Lo, r.Hi
		if cs.IgnoreCase {
			lo, hi = foldRuneForGen(lo), foldRuneForGen(hi)
		}
		if lo == hi {
			chars = append(chars, lo)
		} else {
			ranges = append(ranges, lo, hi)
		}
	}

	var b strings.Builder
	b.WriteString("ϡcharClassMatcher{")
	if len(chars) > 0 {
		b.WriteString("chars: []rune{")
		for i, ch := range chars {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.QuoteRune(ch))
		}
		b.WriteString("}, ")
	}
	if len(ranges) > 0 {
		b.WriteString("ranges: []rune{")
		for i, ch := range ranges {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.QuoteRune(ch))
		}
		b.WriteString("}, ")
	}
	if len(cs.Classes) > 0 {
		b.WriteString("classes: []*unicode.RangeTable{")
		for i, cl := range cs.Classes {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "ϡrangeTable(%s)", strconv.Quote(cl))
		}
		b.WriteString("}, ")
	}
	fmt.Fprintf(&b, "ignoreCase: %t, inverted: %t}", cs.IgnoreCase, cs.Invert)

	cond := fmt.Sprintf("next, ok := (%s).match(input, pos); ok", b.String())
	w.IfElse(cond, func() {
		w.Line("return ϡok(next, nil)")
	}, func() {
		w.Line("return ϡfail(pos)")
	})
}

// foldRuneForGen folds a single rune at generation time, mirroring
// ϡfoldRune in runtime.go (duplicated deliberately: one runs in the
// generator process over IR data, the other is bundled into the
// generated file to fold input bytes at parse time).
func foldRuneForGen(r rune) rune {
	folded := []rune(cases.Fold().String(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}

// compileMatchAndThen is the general "run e, bind its value (if named),
// propagate failure, otherwise continue" building block behind Sequence
// and Action (spec §4.4.3, §4.4.8), grounded on
// original_source/src/peg/peg.rs's compile_match_and_then.
func compileMatchAndThen(w writer.Writer, c *ctx, e ast.Expr, bindName string, then func()) {
	w.LetBlock("seqRes", "ϡresult", func() {
		compileExpr(w, c, e, bindName != "")
	})
	w.IfElse("!seqRes.ok", func() {
		w.Line("return seqRes")
	}, func() {
		w.Line("pos = seqRes.pos")
		if bindName != "" {
			w.Line("%s := seqRes.val", bindName)
			w.Line("_ = %s", bindName)
		}
		then()
	})
}

// compileSequence implements spec §4.4.3. The last child's value becomes
// the sequence's value when resultUsed — original_source's write_seq
// always passed false for the final child (it never read the outer
// result_used parameter inside the recursive closure), which spec.md
// §4.4.3 corrects ("The final child's result is the sequence's result");
// this implementation follows spec.md, not the bug in original_source.
func compileSequence(w writer.Writer, c *ctx, exprs []ast.Expr, resultUsed bool) {
	if len(exprs) == 0 {
		c.abort(errMalformedIR, "empty sequence (spec §9: reject at IR-construction time)")
	}

	var rec func(rest []ast.Expr)
	rec = func(rest []ast.Expr) {
		if len(rest) == 1 {
			compileExpr(w, c, rest[0], resultUsed)
			return
		}
		compileMatchAndThen(w, c, rest[0], "", func() {
			rec(rest[1:])
		})
	}
	rec(exprs)
}

// compileChoice implements spec §4.4.4: ordered choice, re-trying from
// the original pos on failure, with no leakage of an earlier
// alternative's error once a later one succeeds.
func compileChoice(w writer.Writer, c *ctx, exprs []ast.Expr, resultUsed bool) {
	if len(exprs) == 0 {
		c.abort(errMalformedIR, "empty choice (spec §9: reject at IR-construction time)")
	}

	var rec func(rest []ast.Expr)
	rec = func(rest []ast.Expr) {
		if len(rest) == 1 {
			compileExpr(w, c, rest[0], resultUsed)
			return
		}
		w.LetStmt("choiceStart", "pos")
		w.LetBlock("choiceRes", "ϡresult", func() {
			compileExpr(w, c, rest[0], resultUsed)
		})
		w.IfElse("choiceRes.ok", func() {
			w.Line("return choiceRes")
		}, func() {
			w.Line("pos = choiceStart")
			rec(rest[1:])
		})
	}
	rec(exprs)
}

// compileOptional implements spec §4.4.5. ϡoption is the present/absent
// tag: {some: true, val: v} or {some: false}.
func compileOptional(w writer.Writer, c *ctx, e ast.Expr, resultUsed bool) {
	w.LetStmt("optStart", "pos")
	w.LetBlock("optRes", "ϡresult", func() {
		compileExpr(w, c, e, resultUsed)
	})
	w.IfElse("optRes.ok", func() {
		if resultUsed {
			w.Line("return ϡok(optRes.pos, ϡoption{some: true, val: optRes.val})")
		} else {
			w.Line("return ϡok(optRes.pos, nil)")
		}
	}, func() {
		if resultUsed {
			w.Line("return ϡok(optStart, ϡoption{})")
		} else {
			w.Line("return ϡok(optStart, nil)")
		}
	})
}

// compileRepetition implements spec §4.4.6 for both ZeroOrMore (plus=
// false) and OneOrMore (plus=true): a greedy loop that, once committed to
// an iteration, never gives it back (spec's "greedy commitment").
func compileRepetition(w writer.Writer, c *ctx, e ast.Expr, resultUsed, plus bool) {
	emitLoop := func(initVal string) {
		w.LetMutStmt("repeatPos", "pos")
		if resultUsed {
			w.LetMutStmt("repeatValue", initVal)
		}
		w.LoopBlock(func() {
			w.LetBlock("stepRes", "ϡresult", func() {
				w.Line("pos = repeatPos")
				compileExpr(w, c, e, resultUsed)
			})
			w.IfElse("!stepRes.ok", func() {
				w.Line("break")
			}, func() {
				w.Line("repeatPos = stepRes.pos")
				if resultUsed {
					w.Line("repeatValue = append(repeatValue, stepRes.val)")
				}
			})
		})
		if resultUsed {
			w.Line("return ϡok(repeatPos, repeatValue)")
		} else {
			w.Line("return ϡok(repeatPos, nil)")
		}
	}

	if !plus {
		emitLoop("[]interface{}{}")
		return
	}

	// OneOrMore: one mandatory match, whose failure propagates directly,
	// then the same greedy loop seeded with the first value.
	bind := ""
	if resultUsed {
		bind = "firstValue"
	}
	compileMatchAndThen(w, c, e, bind, func() {
		if resultUsed {
			emitLoop("[]interface{}{firstValue}")
		} else {
			emitLoop("")
		}
	})
}

// compileLookahead implements spec §4.4.7 for PosAssert (positive=true)
// and NegAssert (positive=false): neither consumes input nor produces a
// value. A predicate code block (an Action with no bound sub-expressions,
// per the frontend's predicandExpr) is a distinct case: doc.go documents
// its return value as "interpreted as a boolean match/no-match instead of
// a semantic value," unlike an ordinary Action whose .ok always reports
// success and whose return value is a semantic value, not a verdict.
func compileLookahead(w writer.Writer, c *ctx, e ast.Expr, positive bool) {
	if act, ok := e.(ast.Action); ok {
		compilePredicateAction(w, c, act, positive)
		return
	}

	w.LetStmt("assertStart", "pos")
	w.LetBlock("assertRes", "ϡresult", func() {
		compileExpr(w, c, e, false)
	})
	succeedCond := "assertRes.ok"
	if !positive {
		succeedCond = "!assertRes.ok"
	}
	w.IfElse(succeedCond, func() {
		w.Line("return ϡok(assertStart, nil)")
	}, func() {
		w.Line("return ϡfail(assertStart)")
	})
}

// compilePredicateAction evaluates a predicate code block and interprets
// its bool return as the lookahead's match/no-match verdict. Lookaheads
// never consume input, so the returned position is always the position
// the predicate started at, win or lose.
func compilePredicateAction(w writer.Writer, c *ctx, a ast.Action, positive bool) {
	w.LetStmt("startPos", "pos")

	var argNames []string
	for _, te := range a.Exprs {
		if te.Name != "" {
			if !ast.ValidIdent(te.Name) {
				c.abort(errMalformedIR, "action binding %q is not a valid identifier", te.Name)
			}
			argNames = append(argNames, te.Name)
		}
	}
	methodName := c.newPredicateAction(argNames, a.Code)

	var rec func(items []ast.TaggedExpr)
	rec = func(items []ast.TaggedExpr) {
		if len(items) == 0 {
			w.LetStmt("matchStr", "input[startPos:pos]")
			w.Line("recv := &current{pos: ϡtoPosition(input, startPos), text: []byte(matchStr)}")
			w.LetStmt("predOk", fmt.Sprintf("recv.%s(%s)", methodName, strings.Join(argNames, ", ")))
			succeedCond := "predOk"
			if !positive {
				succeedCond = "!predOk"
			}
			w.IfElse(succeedCond, func() {
				w.Line("return ϡok(startPos, nil)")
			}, func() {
				w.Line("return ϡfail(startPos)")
			})
			return
		}
		te := items[0]
		compileMatchAndThen(w, c, te.Expr, te.Name, func() {
			rec(items[1:])
		})
	}
	rec(a.Exprs)
}

// compileAction implements spec §4.4.8. Each tagged sub-expression runs
// in turn; a failure propagates as the action's failure at that
// sub-expression's position. Once all succeed, the code string becomes
// the body of a generated method on *current (SPEC_FULL §0, §3 —
// supplementing the opaque-block model with the teacher's documented
// "action code blocks... turned into a method on the *current type"),
// taking each named binding as an interface{} parameter; unnamed
// sub-expressions are matched but never passed.
func compileAction(w writer.Writer, c *ctx, a ast.Action) {
	w.LetStmt("startPos", "pos")

	var argNames []string
	for _, te := range a.Exprs {
		if te.Name != "" {
			if !ast.ValidIdent(te.Name) {
				c.abort(errMalformedIR, "action binding %q is not a valid identifier", te.Name)
			}
			argNames = append(argNames, te.Name)
		}
	}
	methodName := c.newAction(argNames, a.Code)

	var rec func(items []ast.TaggedExpr)
	rec = func(items []ast.TaggedExpr) {
		if len(items) == 0 {
			w.LetStmt("matchStr", "input[startPos:pos]")
			w.Line("recv := &current{pos: ϡtoPosition(input, startPos), text: []byte(matchStr)}")
			w.Line("actionVal := recv.%s(%s)", methodName, strings.Join(argNames, ", "))
			w.Line("return ϡok(pos, actionVal)")
			return
		}
		te := items[0]
		compileMatchAndThen(w, c, te.Expr, te.Name, func() {
			rec(items[1:])
		})
	}
	rec(a.Exprs)
}
