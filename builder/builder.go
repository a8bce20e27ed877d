// Package builder implements the translation engine: it walks a Grammar
// IR (package ast) and emits Go source for a recursive-descent,
// backtracking parser, one rule's worth at a time, via package writer.
package builder

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/32bitkid/pigeon/ast"
	"github.com/32bitkid/pigeon/writer"
)

// BuildParser translates g into Go source for a parser and writes it to
// out. It never partially emits a rule (spec §7): each rule is compiled
// to a scratch buffer first, and only a rule that compiles cleanly is
// appended to out. A rule that fails to compile is recorded and
// translation continues with the next rule (Decision D1, SPEC_FULL §7);
// if any rule failed, the accumulated errors are returned together after
// every rule has been attempted, but the rules that did succeed are
// still present in out.
func BuildParser(out io.Writer, g *ast.Grammar, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// The generation id is derived from the grammar's content, so the same
	// grammar always translates to byte-identical output.
	var key bytes.Buffer
	fmt.Fprintf(&key, "%q %q %q\n", g.Initializer, g.ReceiverName, o.receiverName)
	for _, rule := range g.Rules {
		fmt.Fprintf(&key, "%#v\n", *rule)
	}
	genID := uuid.NewSHA1(uuid.NameSpaceOID, key.Bytes())
	log := o.logger.With().Str("generation_id", genID.String()).Logger()
	log.Debug().Int("rule_count", len(g.Rules)).Msg("starting translation")

	var final bytes.Buffer
	w := writer.New(&final)
	emitPrelude(w, g.Initializer, genID)
	if err := w.Flush(); err != nil {
		return err
	}

	receiver := g.ReceiverName
	if receiver == "" {
		receiver = o.receiverName
	}

	var errs *multierror.Error
	for _, rule := range g.Rules {
		log.Debug().Str("rule", rule.Name).Msg("translating rule")

		buf, err := compileRule(receiver, rule)
		if err != nil {
			log.Debug().Str("rule", rule.Name).Err(err).Msg("rule translation failed")
			errs = multierror.Append(errs, err)
			continue
		}
		final.Write(buf)
	}

	if _, err := out.Write(final.Bytes()); err != nil {
		return err
	}

	if errs != nil {
		log.Debug().Int("failed_rules", len(errs.Errors)).Msg("translation finished with errors")
		return errs.ErrorOrNil()
	}
	log.Debug().Msg("translation finished")
	return nil
}
