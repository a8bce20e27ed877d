package builder

// runtimeTemplate is the fixed runtime prelude emitted into every
// generated parser, after the user initializer. It defines:
//
//   - ϡresult / ϡok / ϡfail: the uniform per-expression fragment contract
//     (spec §4.4): a single struct standing in for Result<(pos, value),
//     pos_err>, with ok discriminating success from failure.
//   - ϡoption: the present/absent tag for Optional expressions.
//   - ϡliteralMatcher / ϡanyMatcher / ϡcharClassMatcher: shared matcher
//     types, adapted from the teacher's vm/matchers.go (there, operands of
//     a bytecode VM; here, values emitted once per literal/char-class call
//     site instead of inlined per call site).
//   - literal-match, any-char and position-to-line, the three runtime
//     helpers spec §4.2 requires, built on top of the matcher types.
//   - ϡrangeTable, resolving the teacher's \pL / \p{Class} Unicode class
//     syntax (a supplement over the distilled spec's plain ranges).
//   - position and current, the structs backing Action code blocks (spec
//     §4.4.8), adapted from the teacher's vm/static_code.go: pos is a
//     line/col/offset triple rather than a bare byte offset, and text is
//     a []byte slice of the input rather than a string, matching what the
//     teacher's generated code (and SPEC_FULL) documents as the supported
//     API code blocks see.
const runtimeTemplate = `
// ϡresult is the outcome of matching a parsing expression at a position:
// either success, carrying the position after the match and a semantic
// value, or failure, carrying the position the failing combinator was
// tried at. This stands in for the translation engine's Result<(pos,
// value), pos_err> contract using a single struct instead of a tagged
// union, since Go has no sum types.
type ϡresult struct {
	pos int
	val interface{}
	ok  bool
}

func ϡok(pos int, val interface{}) ϡresult { return ϡresult{pos: pos, val: val, ok: true} }
func ϡfail(pos int) ϡresult                { return ϡresult{pos: pos, ok: false} }

// ϡoption is the present/absent tag an Optional expression's value takes
// on when its result is used (spec §4.4.5): some is false when the child
// failed to match, true (with val set) when it matched.
type ϡoption struct {
	some bool
	val  interface{}
}

// position records a line/col/offset triple. It is part of the supported
// API: action and predicate code can read c.pos.line, c.pos.col,
// c.pos.offset. Adapted from the teacher's vm/static_code.go position.
type position struct {
	line   int
	col    int
	offset int
}

func (p position) String() string {
	return fmt.Sprintf("%d:%d (%d)", p.line, p.col, p.offset)
}

// current backs Action code blocks (spec §4.4.8): text is the raw
// matched bytes, exposed to user code as c.text, and pos the position
// the match started at, as c.pos.
type current struct {
	pos  position
	text []byte
}

// ϡtoPosition resolves a byte offset into a line/col/offset triple by
// scanning input from the start. Only called once per Action/predicate
// evaluation (at the point a current is built), not on every step of
// matching, since intermediate match steps only need the bare byte
// offset ϡresult.pos carries.
func ϡtoPosition(input string, offset int) position {
	if offset > len(input) {
		offset = len(input)
	}
	line, col := 1, 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return position{line: line, col: col, offset: offset}
}

// ϡliteralMatcher matches a fixed string at a position.
type ϡliteralMatcher struct {
	value      string // folded to lowercase already when ignoreCase
	ignoreCase bool
}

func (m ϡliteralMatcher) match(input string, pos int) (int, bool) {
	p := pos
	for _, want := range m.value {
		if p >= len(input) {
			return pos, false
		}
		got, width := utf8.DecodeRuneInString(input[p:])
		if m.ignoreCase {
			got = ϡfoldRune(got)
		}
		if got != want {
			return pos, false
		}
		p += width
	}
	return p, true
}

// ϡanyMatcher matches any one character, failing only at EOF.
type ϡanyMatcher struct{}

func (ϡanyMatcher) match(input string, pos int) (int, bool) {
	if pos >= len(input) {
		return pos, false
	}
	_, width := utf8.DecodeRuneInString(input[pos:])
	return pos + width, true
}

// ϡcharClassMatcher matches one character against a union of individual
// characters, ranges and named Unicode classes, optionally inverted.
// Adapted from the teacher's vm/matchers.go ϡcharClassMatcher, which
// played the same role as a bytecode-VM operand; here it is a value the
// generated code constructs once per char-class call site.
type ϡcharClassMatcher struct {
	chars      []rune // folded to lowercase already when ignoreCase
	ranges     []rune // pairs of (lo, hi), same folding caveat
	classes    []*unicode.RangeTable
	ignoreCase bool
	inverted   bool
}

func (m ϡcharClassMatcher) match(input string, pos int) (int, bool) {
	if pos >= len(input) {
		return pos, false
	}
	rn, width := utf8.DecodeRuneInString(input[pos:])
	if m.ignoreCase {
		rn = ϡfoldRune(rn)
	}

	matched := false
	for _, c := range m.chars {
		if rn == c {
			matched = true
			break
		}
	}
	if !matched {
		for i := 0; i+1 < len(m.ranges); i += 2 {
			if rn >= m.ranges[i] && rn <= m.ranges[i+1] {
				matched = true
				break
			}
		}
	}
	if !matched {
		for _, cl := range m.classes {
			if unicode.Is(cl, rn) {
				matched = true
				break
			}
		}
	}
	if m.inverted {
		matched = !matched
	}
	return pos + width, matched
}

// ϡfoldRune applies Unicode case folding to a single rune, using
// golang.org/x/text/cases rather than unicode.ToLower so multi-script
// text folds correctly. When folding expands to more than one rune (rare,
// e.g. German ß), the first folded rune is used; this is a known
// limitation of per-rune (rather than per-string) folding.
func ϡfoldRune(r rune) rune {
	folded := []rune(cases.Fold().String(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}

// ϡrangeTable resolves a named Unicode class (category, property or
// script) to its range table. Adapted from vm/matchers.go.
func ϡrangeTable(class string) *unicode.RangeTable {
	if rt, ok := unicode.Categories[class]; ok {
		return rt
	}
	if rt, ok := unicode.Properties[class]; ok {
		return rt
	}
	if rt, ok := unicode.Scripts[class]; ok {
		return rt
	}
	panic(fmt.Sprintf("invalid Unicode class: %s", class))
}

// ϡliteralMatch matches lit at pos, the literal-match runtime helper spec
// §4.2 requires.
func ϡliteralMatch(input string, pos int, lit string) ϡresult {
	m := ϡliteralMatcher{value: lit}
	if next, ok := m.match(input, pos); ok {
		return ϡok(next, nil)
	}
	return ϡfail(pos)
}

// ϡanyChar is the any-char runtime helper spec §4.2 requires.
func ϡanyChar(input string, pos int) ϡresult {
	m := ϡanyMatcher{}
	if next, ok := m.match(input, pos); ok {
		return ϡok(next, nil)
	}
	return ϡfail(pos)
}

// ϡposToLine is the position-to-line runtime helper spec §4.2 requires:
// a 1-based line number for the byte offset pos.
func ϡposToLine(input string, pos int) int {
	if pos > len(input) {
		pos = len(input)
	}
	return 1 + strings.Count(input[:pos], "\n")
}
`
