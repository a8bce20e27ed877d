// Package frontend implements a minimal parser for the PEG grammar DSL
// documented in the root package's doc.go: rule definitions, choice,
// sequence, labeled expressions, predicates, repetition, literal/
// char-class/any matchers and code blocks. It produces ast.Grammar
// values for package builder to translate. It is deliberately the
// smallest hand-written recursive-descent parser that can do this job —
// grammar-surface parsing is not the concern this repository focuses on.
package frontend

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/32bitkid/pigeon/ast"
)

// Parse parses src (grammar DSL source) into a Grammar. filename is used
// only to attribute parse errors.
func Parse(filename string, src []byte) (*ast.Grammar, error) {
	p := &parser{filename: filename, src: []rune(string(src))}
	p.skipSpace()

	g := &ast.Grammar{}

	if p.peek() == '{' {
		g.Initializer = p.codeBlock()
		p.skipSpace()
	}

	for !p.eof() {
		rule, err := p.rule()
		if err != nil {
			return nil, err
		}
		g.Rules = append(g.Rules, rule)
		p.skipSpace()
	}

	return g, nil
}

type parser struct {
	filename string
	src      []rune
	pos      int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) rune {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) errorf(format string, args ...interface{}) error {
	line := 1 + strings.Count(string(p.src[:p.pos]), "\n")
	return errors.Errorf("%s:%d: %s", p.filename, line, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r := p.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			p.advance()
		case r == '/' && p.peekAt(1) == '/':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case r == '/' && p.peekAt(1) == '*':
			p.advance()
			p.advance()
			for !p.eof() && !(p.peek() == '*' && p.peekAt(1) == '/') {
				p.advance()
			}
			if !p.eof() {
				p.advance()
				p.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func (p *parser) ident() (string, bool) {
	if !isIdentStart(p.peek()) {
		return "", false
	}
	start := p.pos
	for !p.eof() && isIdentCont(p.peek()) {
		p.advance()
	}
	return string(p.src[start:p.pos]), true
}

// codeBlock scans a brace-delimited Go code block and returns its
// contents (without the outer braces). Nested braces balance; braces
// inside single/double-quoted literals or line comments are ignored so a
// stray `}` in, say, a string literal inside the action code doesn't
// terminate the block early. Multi-line /* */ comments inside code
// blocks are not specially handled, a known limitation of this minimal
// front end.
func (p *parser) codeBlock() string {
	p.advance() // '{'
	start := p.pos
	depth := 1
	for !p.eof() && depth > 0 {
		r := p.advance()
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case '\'', '"':
			p.skipQuoted(r)
		case '/':
			if p.peek() == '/' {
				for !p.eof() && p.peek() != '\n' {
					p.advance()
				}
			}
		}
	}
	end := p.pos - 1
	if end < start {
		end = start
	}
	return string(p.src[start:end])
}

func (p *parser) skipQuoted(quote rune) {
	for !p.eof() {
		r := p.advance()
		if r == '\\' && !p.eof() {
			p.advance()
			continue
		}
		if r == quote {
			return
		}
	}
}

// rule parses one top-level rule: Ident ["display name"] op Expr.
func (p *parser) rule() (*ast.Rule, error) {
	name, ok := p.ident()
	if !ok {
		return nil, p.errorf("expected rule name, got %q", string(p.peek()))
	}
	p.skipSpace()

	r := &ast.Rule{
		Name:     name,
		RetType:  "interface{}",
		Exported: len(name) > 0 && unicode.IsUpper([]rune(name)[0]),
	}

	if p.peek() == '"' {
		s, err := p.stringLiteral()
		if err != nil {
			return nil, err
		}
		r.DisplayName = s
		p.skipSpace()
	}

	if !p.consumeRuleOp() {
		return nil, p.errorf("expected rule definition operator (= / <- / ← / ⟵)")
	}
	p.skipSpace()

	expr, err := p.choiceExpr()
	if err != nil {
		return nil, err
	}
	r.Expr = expr
	return r, nil
}

func (p *parser) consumeRuleOp() bool {
	switch {
	case p.peek() == '=':
		p.advance()
		return true
	case p.peek() == '<' && p.peekAt(1) == '-':
		p.advance()
		p.advance()
		return true
	case p.peek() == '←' || p.peek() == '⟵':
		p.advance()
		return true
	}
	return false
}

// choiceExpr = seqExpr ("/" seqExpr)*
func (p *parser) choiceExpr() (ast.Expr, error) {
	first, err := p.sequenceExpr()
	if err != nil {
		return nil, err
	}
	exprs := []ast.Expr{first}
	p.skipSpace()
	for p.peek() == '/' {
		p.advance()
		p.skipSpace()
		next, err := p.sequenceExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
		p.skipSpace()
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return ast.Choice{Exprs: exprs}, nil
}

// sequenceExpr = labeledExpr+ [actionBlock]
func (p *parser) sequenceExpr() (ast.Expr, error) {
	var tagged []ast.TaggedExpr
	for {
		p.skipSpace()
		if p.eof() || p.peek() == '/' || p.peek() == ')' || p.peek() == '{' {
			break
		}
		save := p.pos
		if _, ok := p.ident(); ok {
			p.skipSpace()
			if p.peek() == '"' {
				p.stringLiteral()
				p.skipSpace()
			}
			startsRule := p.consumeRuleOp()
			p.pos = save
			if startsRule {
				break // "Name [display name] =" begins the next rule
			}
		}
		te, err := p.labeledExpr()
		if err != nil {
			return nil, err
		}
		tagged = append(tagged, te)
	}
	if len(tagged) == 0 {
		return nil, p.errorf("expected an expression")
	}

	p.skipSpace()
	if p.peek() == '{' {
		code := p.codeBlock()
		return ast.Action{Exprs: tagged, Code: code}, nil
	}

	if len(tagged) == 1 && tagged[0].Name == "" {
		return tagged[0].Expr, nil
	}
	exprs := make([]ast.Expr, len(tagged))
	for i, te := range tagged {
		exprs[i] = te.Expr
	}
	return ast.Sequence{Exprs: exprs}, nil
}

// labeledExpr = [ident ":"] prefixExpr
func (p *parser) labeledExpr() (ast.TaggedExpr, error) {
	save := p.pos
	if name, ok := p.ident(); ok {
		p.skipSpace()
		if p.peek() == ':' {
			p.advance()
			p.skipSpace()
			e, err := p.prefixExpr()
			if err != nil {
				return ast.TaggedExpr{}, err
			}
			return ast.TaggedExpr{Name: name, Expr: e}, nil
		}
		p.pos = save
	}
	e, err := p.prefixExpr()
	if err != nil {
		return ast.TaggedExpr{}, err
	}
	return ast.TaggedExpr{Expr: e}, nil
}

// prefixExpr = ["&" | "!"] suffixExpr
func (p *parser) prefixExpr() (ast.Expr, error) {
	switch p.peek() {
	case '&':
		p.advance()
		p.skipSpace()
		e, err := p.predicandExpr()
		if err != nil {
			return nil, err
		}
		return ast.PosAssert{Expr: e}, nil
	case '!':
		p.advance()
		p.skipSpace()
		e, err := p.predicandExpr()
		if err != nil {
			return nil, err
		}
		return ast.NegAssert{Expr: e}, nil
	default:
		return p.suffixExpr()
	}
}

// predicandExpr handles the operand of & and !: either a code-block
// predicate or an ordinary suffix expression.
func (p *parser) predicandExpr() (ast.Expr, error) {
	if p.peek() == '{' {
		code := p.codeBlock()
		return ast.Action{Code: code}, nil
	}
	return p.suffixExpr()
}

// suffixExpr = primaryExpr ["*" | "+" | "?"]
func (p *parser) suffixExpr() (ast.Expr, error) {
	e, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case '*':
		p.advance()
		return ast.ZeroOrMore{Expr: e}, nil
	case '+':
		p.advance()
		return ast.OneOrMore{Expr: e}, nil
	case '?':
		p.advance()
		return ast.Optional{Expr: e}, nil
	}
	return e, nil
}

// primaryExpr = literal | charClass | "." | ruleRef | "(" choiceExpr ")"
func (p *parser) primaryExpr() (ast.Expr, error) {
	switch r := p.peek(); {
	case r == '\'' || r == '"' || r == '`':
		return p.literalExpr()
	case r == '[':
		return p.charSetExpr()
	case r == '.':
		p.advance()
		return ast.AnyChar{}, nil
	case r == '(':
		p.advance()
		p.skipSpace()
		e, err := p.choiceExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.advance()
		return e, nil
	case isIdentStart(r):
		name, _ := p.ident()
		return ast.RuleRef{Name: name}, nil
	default:
		return nil, p.errorf("unexpected character %q", string(r))
	}
}

// literalExpr parses a quoted literal followed by an optional "i" suffix.
func (p *parser) literalExpr() (ast.Expr, error) {
	s, err := p.stringLiteral()
	if err != nil {
		return nil, err
	}
	ignoreCase := false
	if p.peek() == 'i' && !isIdentCont(p.peekAt(1)) {
		p.advance()
		ignoreCase = true
	}
	return ast.Literal{Value: s, IgnoreCase: ignoreCase}, nil
}

// stringLiteral parses a single-quoted, double-quoted or backtick-quoted
// literal, applying Go's escaping rules via strconv.Unquote.
func (p *parser) stringLiteral() (string, error) {
	quote := p.advance()
	start := p.pos
	for !p.eof() {
		r := p.advance()
		if quote != '`' && r == '\\' && !p.eof() {
			p.advance()
			continue
		}
		if r == quote {
			raw := string(quote) + string(p.src[start:p.pos-1]) + string(quote)
			unq, err := strconv.Unquote(raw)
			if err != nil {
				// A single-character literal like 'x' unquotes fine via
				// strconv; any other failure is a malformed literal.
				return "", p.errorf("invalid literal %s: %v", raw, err)
			}
			return unq, nil
		}
	}
	return "", p.errorf("unterminated literal")
}

// charSetExpr parses "[" ["^"] (range | class | char)* "]" ["i"].
func (p *parser) charSetExpr() (ast.Expr, error) {
	p.advance() // '['
	cs := ast.CharSet{}
	if p.peek() == '^' {
		p.advance()
		cs.Invert = true
	}
	for !p.eof() && p.peek() != ']' {
		if p.peek() == '\\' && p.peekAt(1) == 'p' {
			p.advance()
			p.advance()
			var class string
			if p.peek() == '{' {
				p.advance()
				start := p.pos
				for !p.eof() && p.peek() != '}' {
					p.advance()
				}
				class = string(p.src[start:p.pos])
				if !p.eof() {
					p.advance()
				}
			} else {
				class = string(p.advance())
			}
			cs.Classes = append(cs.Classes, class)
			continue
		}

		lo, err := p.charSetRune()
		if err != nil {
			return nil, err
		}
		if p.peek() == '-' && p.peekAt(1) != ']' {
			p.advance()
			hi, err := p.charSetRune()
			if err != nil {
				return nil, err
			}
			cs.Ranges = append(cs.Ranges, ast.Range{Lo: lo, Hi: hi})
		} else {
			cs.Ranges = append(cs.Ranges, ast.Range{Lo: lo, Hi: lo})
		}
	}
	if p.eof() {
		return nil, p.errorf("unterminated character class")
	}
	p.advance() // ']'

	if p.peek() == 'i' && !isIdentCont(p.peekAt(1)) {
		p.advance()
		cs.IgnoreCase = true
	}
	if !ast.ValidRanges(cs.Ranges) {
		return nil, p.errorf("character class has an out-of-order range")
	}
	return cs, nil
}

// charSetRune reads one character-class member, honoring the "\]" escape
// needed because "]" closes the class, plus the ordinary Go escapes.
func (p *parser) charSetRune() (rune, error) {
	r := p.advance()
	if r != '\\' {
		return r, nil
	}
	if p.eof() {
		return 0, p.errorf("unterminated escape in character class")
	}
	esc := p.advance()
	switch esc {
	case ']', '\\', '-', '^':
		return esc, nil
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	default:
		return esc, nil
	}
}
