// Package ast defines the intermediate grammar representation consumed by
// package builder. A Grammar is produced once by a front end (package
// frontend in this repo, or any other PEG surface-syntax parser) and is
// never mutated afterwards: translation walks it read-only.
package ast

// Grammar is a parsed PEG grammar: an optional prelude plus an ordered list
// of rules. Rule order is preserved through to the generated output.
type Grammar struct {
	// Initializer is free-form code inserted verbatim into the generated
	// file after the banner and the runtime's import block, before the
	// runtime helpers. Usually a package clause and imports.
	Initializer string

	// ReceiverName names the receiver of the generated action/predicate
	// methods on *current. Defaults to "c" if empty.
	ReceiverName string

	Rules []*Rule
}

// Rule is a single named production.
type Rule struct {
	Name string

	// DisplayName is the teacher's "friendly name" syntax
	// (RuleA "friendly name" = ...). When set and this rule is Exported,
	// its public wrapper's failure messages include this name ("Error at
	// <name>: line N"); without it they name no rule at all. Scoped to
	// this rule's own wrapper only — it does
	// not propagate to rules called beneath it.
	DisplayName string

	Expr Expr

	// RetType is the opaque host-language type of the rule's value. The
	// sentinel "()" means the rule produces no value.
	RetType string

	Exported bool
}

// Unit is the sentinel RetType denoting "no value produced."
const Unit = "()"

// HasValue reports whether a rule with this RetType threads a value.
func HasValue(retType string) bool { return retType != Unit }

// TaggedExpr is a (optional binding name, Expr) pair used only inside
// Action. An entry with an empty Name is matched but its value discarded.
type TaggedExpr struct {
	Name string // empty means "discard"
	Expr Expr
}

// Range is one inclusive code point range of a CharSet ([lo, hi]).
// Lo == Hi encodes a single character.
type Range struct {
	Lo rune
	Hi rune
}

// Expr is the sum type of parsing expressions. Exactly one of the Expr*
// constructors below produces a given value; builder dispatches on the
// concrete type with a type switch, one case per variant, per spec.
type Expr interface {
	isExpr()
}

// AnyChar matches any one character, consuming it. It fails only at EOF.
type AnyChar struct{}

// Literal matches a fixed string at the current position.
type Literal struct {
	Value string

	// IgnoreCase requests Unicode-aware case folding (teacher supplement;
	// the "i" suffix in the grammar DSL).
	IgnoreCase bool
}

// CharSet matches one character against a union of ranges and named
// Unicode classes, optionally inverted.
type CharSet struct {
	Invert bool
	Ranges []Range

	// Classes holds Unicode class names (e.g. "L", "Latin") — the
	// teacher's \pL / \p{Latin} supplement, absent from the distilled
	// spec's plain-range CharSet.
	Classes []string

	IgnoreCase bool
}

// RuleRef invokes another rule by name at the current position.
type RuleRef struct {
	Name string
}

// Sequence is concatenation: all children must match in order.
type Sequence struct {
	Exprs []Expr
}

// Choice is prioritized alternation: the first child that matches wins.
type Choice struct {
	Exprs []Expr
}

// Optional always succeeds, yielding present/absent.
type Optional struct {
	Expr Expr
}

// ZeroOrMore is greedy repetition that always succeeds.
type ZeroOrMore struct {
	Expr Expr
}

// OneOrMore is greedy repetition that fails iff the first iteration fails.
type OneOrMore struct {
	Expr Expr
}

// PosAssert succeeds, without consuming input, iff Expr succeeds.
type PosAssert struct {
	Expr Expr
}

// NegAssert succeeds, without consuming input, iff Expr fails.
type NegAssert struct {
	Expr Expr
}

// Action matches a sequence of tagged sub-expressions, binds their values,
// and evaluates Code (opaque, emitted verbatim) to produce the rule's
// semantic value.
type Action struct {
	Exprs []TaggedExpr
	Code  string
}

// Delimited is reserved and not implemented; translating it is a fatal
// error (spec §3.3, §4.4.9).
type Delimited struct {
	Open  Expr
	Close Expr
}

// Stringify is reserved and not implemented; translating it is a fatal
// error (spec §3.3, §4.4.9).
type Stringify struct {
	Expr Expr
}

func (AnyChar) isExpr()    {}
func (Literal) isExpr()    {}
func (CharSet) isExpr()    {}
func (RuleRef) isExpr()    {}
func (Sequence) isExpr()   {}
func (Choice) isExpr()     {}
func (Optional) isExpr()   {}
func (ZeroOrMore) isExpr() {}
func (OneOrMore) isExpr()  {}
func (PosAssert) isExpr()  {}
func (NegAssert) isExpr()  {}
func (Action) isExpr()     {}
func (Delimited) isExpr()  {}
func (Stringify) isExpr()  {}
