package builder

import (
	"fmt"

	"github.com/pkg/errors"
)

// errUnsupported is returned (wrapped in a buildError) when translation
// reaches Delimited or Stringify (spec §3.3, §4.4.9, §9).
var errUnsupported = errors.New("unsupported construct")

// errMalformedIR is returned (wrapped in a buildError) for an IR that
// violates spec §3.5's invariants: an out-of-order char-set range, an
// invalid identifier, or similar.
var errMalformedIR = errors.New("malformed IR")

// buildError names the rule a translation-time error occurred in,
// grounded on the teacher's parserError (vm/static_code.go: "Inner" field
// plus a prefix). Here the prefix is always the rule name, since
// translation errors are a compile-time concern, not a parse-time one.
type buildError struct {
	rule string
	err  error
}

func (e *buildError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.rule, e.err)
}

func (e *buildError) Unwrap() error { return e.err }
