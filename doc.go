/*
Package pigeon is a Go parser generator for Parsing Expression Grammars
(PEGs).

From Wikipedia:

	A parsing expression grammar is a type of analytic formal grammar, i.e.
	it describes a formal language in terms of a set of rules for recognizing
	strings in the language.

The module is split into four packages plus the cmd/pigeon driver:

	ast      the grammar intermediate representation (Grammar, Rule, Expr)
	writer   an indented Go source sink, with no knowledge of PEG
	builder  the translation engine: walks an ast.Grammar, emits a parser
	frontend a minimal parser for the grammar DSL described below, producing
	         ast.Grammar values for builder to consume

Command-line usage

	pigeon [options] [GRAMMAR_FILE]

The grammar may be provided by a file or read from stdin. The generated
parser is written to stdout by default. The following options can be
specified:

	--debug : boolean, log translation progress to stderr (default: false).

	-o, --output=FILE : string, output file where the generated parser will
	be written (default: stdout).

	-x, --no-build : boolean, if set, do not build the parser, just parse
	the input grammar (default: false).

	--receiver-name=NAME : string, name of the receiver variable for the
	generated Action/predicate methods. Action code blocks in the grammar
	end up as methods on the *current type, and this option sets the name
	of the receiver (default: c).

The tool makes no attempt to format the code, nor to detect the required
imports. It is recommended to pipe the output through goimports:

	pigeon GRAMMAR_FILE | goimports > output_file.go

PEG syntax

Identifiers, whitespace, comments and literals follow the same notation
as the Go language: "//" line comments and "/*" block comments, 'x' single-quoted rune
literals, "double-quoted" and `backtick-quoted` string literals.

Rules

A grammar is a set of rules: an identifier, an optional display name (a
string literal woven into the exported wrapper's error messages; the raw
identifier never appears in them), a rule definition operator, and an
expression:

	RuleA "friendly name" = 'a'+ // RuleA is one or more lowercase 'a's

The rule definition operator can be any of: =, <-, ← (U+2190), ⟵ (U+27F5).
A rule whose name starts with an uppercase letter is exported: it gets a
public wrapper function with the same name, usable as an entry point.

Choice expression

A list of expressions tried in the order they are written; the first
match wins:

	ChoiceExpr = A / B / C

Because the first match wins, rule order matters:

	BadChoiceExpr = "<" / "<=" // "<=" is never reached

Sequence expression

A list of expressions, separated by whitespace, that must all match in
order:

	SeqExpr = "A" "b" "c" // matches "Abc", not "Acb"

Labeled expression

An identifier, a colon, and an expression. Introduces a variable with
the label's name, bound to the expression's value, visible to the
action code that follows it in the same sequence:

	LabeledExpr = value:[a-z]+ {
		return len(value.([]interface{})) // one element per matched letter
	}

And/not expressions

"&" is the positive lookahead predicate: a match if the following
expression matches, without consuming input. "!" is the negative
lookahead predicate: a match if the following expression does not
match, again without consuming input.

	AndExpr = "A" &"B" // matches "A" only if followed by "B"
	NotExpr = "A" !"B" // matches "A" only if not followed by "B"

Repetition

An expression followed by "*", "?" or "+" matches zero-or-more,
zero-or-one, or one-or-more occurrences, greedily:

	ZeroOrMoreAs = "A"*

Literal matcher

A single-quoted, double-quoted or backtick-quoted literal, with Go's
escaping rules. A trailing lowercase "i" (outside the quotes) requests
Unicode-aware case-insensitive matching:

	LiteralMatch = "Awesome\n"i

Character class matcher

A class of characters in square brackets. Ranges use "a-z"; named
Unicode classes use "\pL" (single-letter class) or "\p{Latin}"
(named class). A leading "^" inverts the class; a trailing "i" requests
case-insensitive matching:

	NotAZ = [^a-z]i

Any matcher

"." matches any one character, failing only at end of input. "!." is
the idiomatic way to require end of input:

	AnyChar = .
	EOF = !.

Code blocks

Three kinds of code blocks, all written inside curly braces:

The initializer, which must appear first in the grammar if present, is
copied verbatim (minus the braces) into the generated file, after the
banner and the runtime's import block and before the runtime helpers. It
usually holds the package clause and imports:

	{
		package main
	}

Action code blocks follow an expression inside a rule and are turned
into a method on the *current type. The method receives each labeled
sub-expression's value as an interface{} argument, in the order the
labels appear, and its return value becomes the rule's value:

	RuleA = "A"+ {
		// "c" is the default receiver name; c.text is the raw match.
		return string(c.text)
	}

Predicate code blocks follow "&" or "!" and are likewise turned into a
*current method, called the same way, but their return value is
interpreted as a boolean match/no-match instead of a semantic value.

The current type carries two fields usable from code blocks: pos, the
line/col/offset position the match started at (a position value, with
line and col 1-based and offset a 0-based byte offset), and text, the
raw matched bytes as a []byte.

Using the generated parser

The generated parser exports, per exported rule:

	func RuleName(input string) (interface{}, error)

Error reporting

A failed parse returns an error of the form "Error at line N" (or, if
the whole input wasn't consumed, "Expected end of input at line N"),
where N is the 1-based line of the furthest position reached. When the
rule carries a display name, it is woven in as "Error at <name>: line N".

Translation errors (a malformed grammar, or a Delimited/Stringify
expression, which are reserved and unimplemented) are reported per rule:
translation of every rule is attempted, and all per-rule failures are
returned together once every rule has been tried, so a single bad rule
doesn't hide errors in the rest of the grammar.
*/
package pigeon
