package builder

import (
	"github.com/google/uuid"

	"github.com/32bitkid/pigeon/writer"
)

// runtimeImports lists the imports the runtime helpers in runtime.go
// require. Any additional imports the user's own initializer or action
// code needs are the front end's and the grammar author's responsibility
// (spec §6.1) — this list is fixed regardless of grammar content.
var runtimeImports = []string{
	`"fmt"`,
	`"strings"`,
	`"unicode"`,
	`"unicode/utf8"`,
	`"golang.org/x/text/cases"`,
}

// emitPrelude writes the banner, imports, user initializer and runtime
// helpers, in that fixed order (spec §4.2, §6.2). genID tags the banner
// with an id derived from the grammar (see BuildParser) so a generated
// file can be correlated back to the zerolog trace that produced it.
func emitPrelude(w writer.Writer, initializer string, genID uuid.UUID) {
	w.Line("// Code generated by pigeon. DO NOT EDIT.")
	w.Line("// generation-id: %s", genID)
	w.Line("")
	w.Line("import (")
	for _, imp := range runtimeImports {
		w.Line("\t%s", imp)
	}
	w.Line(")")
	w.Line("")

	if initializer != "" {
		w.Write("%s\n", initializer)
	}

	w.Write("%s", runtimeTemplate)
}
