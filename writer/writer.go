// Package writer implements an indented text sink with the small set of
// structured-emission capabilities a recursive-descent code generator
// needs: lines, raw fragments, function headers, bindings, pattern-match
// dispatch, conditionals and loops. It has no knowledge of PEG or of any
// particular target grammar — it is exercised by package builder but could
// back any line-oriented Go code generator.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const indentStep = "\t"

// Writer is the capability interface package builder drives. Scoped
// acquisition: every method that takes a body callback increases the
// indent for the duration of that callback and restores it afterwards on
// every exit path, including a panic unwind (see Indenter.scoped) — this
// guarantees brace/indent balance even when a translation error aborts a
// rule mid-emission.
type Writer interface {
	Line(format string, args ...interface{})
	Write(format string, args ...interface{})
	WriteIndent()

	// DefFn emits a function header and runs body with the indent
	// increased. public capitalizes the identifier for export.
	DefFn(public bool, name, params, retType string, body func())

	// LetStmt/LetMutStmt emit a binding whose right-hand side is a
	// literal text fragment. Go has no separate mutable-binding syntax,
	// so both currently emit ":=" — kept distinct to mirror the source
	// capability set and to leave room for a future const-ness check.
	LetStmt(name, expr string)
	LetMutStmt(name, expr string)

	// LetBlock emits `name := func() typ { <body> }()`. typ is the Go
	// type of the block's value; body must end with a return statement
	// of that type on every path.
	LetBlock(name, typ string, body func())

	// MatchBlock emits a multi-arm switch over scrutinee. MatchCase and
	// MatchInlineCase add arms; both must be called only from inside a
	// MatchBlock body.
	MatchBlock(scrutinee string, body func())
	MatchCase(pattern string, body func())
	MatchInlineCase(pattern, expr string)

	IfElse(cond string, then, els func())
	LoopBlock(body func())
}

// Indenter is the concrete Writer over an io.Writer.
type Indenter struct {
	w      *bufio.Writer
	indent int
}

// New returns an Indenter writing to w.
func New(w io.Writer) *Indenter {
	return &Indenter{w: bufio.NewWriter(w)}
}

// Flush flushes any buffered output to the underlying io.Writer.
func (ind *Indenter) Flush() error { return ind.w.Flush() }

func (ind *Indenter) WriteIndent() {
	ind.w.WriteString(strings.Repeat(indentStep, ind.indent))
}

func (ind *Indenter) Write(format string, args ...interface{}) {
	fmt.Fprintf(ind.w, format, args...)
}

func (ind *Indenter) Line(format string, args ...interface{}) {
	ind.WriteIndent()
	fmt.Fprintf(ind.w, format, args...)
	ind.w.WriteByte('\n')
}

// scoped runs body with the indent increased by one level, and restores it
// unconditionally afterwards, including when body panics.
func (ind *Indenter) scoped(body func()) {
	ind.indent++
	defer func() { ind.indent-- }()
	body()
}

func (ind *Indenter) DefFn(public bool, name, params, retType string, body func()) {
	fnName := name
	if public && name != "" {
		fnName = strings.ToUpper(name[:1]) + name[1:]
	}
	ind.WriteIndent()
	if retType == "" {
		ind.Write("func %s(%s) {\n", fnName, params)
	} else {
		ind.Write("func %s(%s) %s {\n", fnName, params, retType)
	}
	ind.scoped(body)
	ind.Line("}")
}

func (ind *Indenter) LetStmt(name, expr string) {
	ind.Line("%s := %s", name, expr)
}

func (ind *Indenter) LetMutStmt(name, expr string) {
	ind.Line("%s := %s", name, expr)
}

func (ind *Indenter) LetBlock(name, typ string, body func()) {
	ind.WriteIndent()
	ind.Write("%s := func() %s {\n", name, typ)
	ind.scoped(body)
	ind.Line("}()")
}

func (ind *Indenter) MatchBlock(scrutinee string, body func()) {
	ind.Line("switch %s {", scrutinee)
	ind.scoped(body)
	ind.Line("}")
}

func (ind *Indenter) MatchCase(pattern string, body func()) {
	ind.Line("case %s:", pattern)
	ind.scoped(body)
}

func (ind *Indenter) MatchInlineCase(pattern, expr string) {
	ind.Line("case %s:", pattern)
	ind.scoped(func() {
		ind.Line("%s", expr)
	})
}

func (ind *Indenter) IfElse(cond string, then, els func()) {
	ind.Line("if %s {", cond)
	ind.scoped(then)
	if els != nil {
		ind.Line("} else {")
		ind.scoped(els)
	}
	ind.Line("}")
}

func (ind *Indenter) LoopBlock(body func()) {
	ind.Line("for {")
	ind.scoped(body)
	ind.Line("}")
}
