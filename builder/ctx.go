package builder

import (
	"strconv"

	"github.com/pkg/errors"
)

// actionMethod is one Action's code, captured as a method on *current so
// it can be emitted after the rule's main parse function, with the
// teacher's configurable receiver name (doc.go: "-receiver-name=NAME").
type actionMethod struct {
	name    string
	recv    string
	args    []string
	code    string
	retType string
}

// ctx carries the per-rule state threaded through compileExpr's
// recursion: which rule translation errors should be blamed on, the
// configured receiver name for Action methods, and the list of Action
// methods discovered so far in this rule (emitted after the rule's main
// function by compileRule).
type ctx struct {
	rule     string
	receiver string

	actionSeq int
	actions   []actionMethod
}

// abort raises a fatal translation error blamed on this rule (spec §7).
// compileRule (builder/rule.go) recovers the panic, drops the rule's
// partial output and returns the error.
func (c *ctx) abort(cause error, format string, args ...interface{}) {
	panic(&buildError{rule: c.rule, err: errors.Wrapf(cause, format, args...)})
}

// newAction registers an Action's code as a method and returns its
// generated name, unique within the rule. The method returns interface{};
// its value becomes the Action expression's semantic value.
func (c *ctx) newAction(args []string, code string) string {
	return c.registerAction(args, code, "interface{}")
}

// newPredicateAction registers a predicate code block's code (doc.go:
// "their return value is interpreted as a boolean match/no-match instead
// of a semantic value") as a method returning bool rather than
// interface{}.
func (c *ctx) newPredicateAction(args []string, code string) string {
	return c.registerAction(args, code, "bool")
}

func (c *ctx) registerAction(args []string, code, retType string) string {
	c.actionSeq++
	name := c.rule + "Action" + strconv.Itoa(c.actionSeq)
	c.actions = append(c.actions, actionMethod{
		name:    name,
		recv:    c.receiver,
		args:    args,
		code:    code,
		retType: retType,
	})
	return name
}
