// Command pigeon generates a parser based on a PEG grammar. It doesn't
// try to format the generated code nor to detect required imports — it
// is recommended to pipe the output through a tool such as goimports:
//
//	pigeon GRAMMAR_FILE | goimports > output.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/32bitkid/pigeon/builder"
	"github.com/32bitkid/pigeon/frontend"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug    bool
		output   string
		receiver string
		noBuild  bool
	)

	cmd := &cobra.Command{
		Use:   "pigeon [GRAMMAR_FILE]",
		Short: "Generate a PEG parser from a grammar file",
		Long: `Pigeon generates a parser based on a PEG grammar.

By default, pigeon reads the grammar from stdin and writes the generated
parser to stdout. If GRAMMAR_FILE is given, the grammar is read from this
file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infile := ""
			if len(args) == 1 {
				infile = args[0]
			}
			return run(cmd.OutOrStdout(), infile, output, receiver, debug, noBuild)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "log translation progress to stderr")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the generated parser to this file, defaults to stdout")
	cmd.Flags().StringVar(&receiver, "receiver-name", "c", "receiver name for the generated Action/predicate methods")
	cmd.Flags().BoolVarP(&noBuild, "no-build", "x", false, "do not build, only parse the grammar")

	return cmd
}

func run(stdout io.Writer, infile, outfile, receiver string, debug, noBuild bool) error {
	name, src, err := readGrammar(infile)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	log := zerolog.Nop()
	if debug {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	g, err := frontend.Parse(name, src)
	if err != nil {
		return fmt.Errorf("grammar parse error(s): %w", err)
	}
	if noBuild {
		return nil
	}

	out, closeOut, err := openOutput(outfile, stdout)
	if err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	defer closeOut()

	if err := builder.BuildParser(out, g, builder.ReceiverName(receiver), builder.Logger(log)); err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	return nil
}

func readGrammar(filename string) (name string, src []byte, err error) {
	if filename == "" {
		src, err = io.ReadAll(os.Stdin)
		return "stdin", src, err
	}
	src, err = os.ReadFile(filename)
	return filename, src, err
}

func openOutput(filename string, stdout io.Writer) (io.Writer, func(), error) {
	if filename == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
