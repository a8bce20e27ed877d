package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefFnIndentBalance(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.DefFn(true, "parseFoo", "input string, pos int", "ϡresult", func() {
		w.Line("return ϡok(pos, nil)")
	})
	require.NoError(t, w.Flush())

	got := buf.String()
	require.Equal(t, 0, w.indent, "indent must return to zero after DefFn")
	require.True(t, strings.HasPrefix(got, "func ParseFoo(input string, pos int) ϡresult {\n"))
	require.Contains(t, got, "\treturn ϡok(pos, nil)\n")
	require.True(t, strings.HasSuffix(got, "}\n"))
}

func TestIndentBalanceSurvivesPanic(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	func() {
		defer func() { recover() }()
		w.DefFn(false, "parseFoo", "input string, pos int", "ϡresult", func() {
			w.LoopBlock(func() {
				panic("boom")
			})
		})
	}()

	require.Equal(t, 0, w.indent, "indent must be restored even when body panics")
}

func TestMatchBlockArms(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.MatchBlock("ch", func() {
		w.MatchInlineCase("'a', 'b'", "return ϡok(next, nil)")
		w.MatchCase("default", func() {
			w.Line("return ϡfail(pos)")
		})
	})
	require.NoError(t, w.Flush())

	got := buf.String()
	require.Contains(t, got, "switch ch {\n")
	require.Contains(t, got, "case 'a', 'b':\n")
	require.Contains(t, got, "case default:\n")
}

func TestLetBlockAndIfElse(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)
	w.LetBlock("seqRes", "ϡresult", func() {
		w.IfElse("pos < len(input)", func() {
			w.Line("return ϡok(pos+1, nil)")
		}, func() {
			w.Line("return ϡfail(pos)")
		})
	})
	require.NoError(t, w.Flush())

	got := buf.String()
	require.Contains(t, got, "seqRes := func() ϡresult {\n")
	require.Contains(t, got, "if pos < len(input) {\n")
	require.Contains(t, got, "} else {\n")
	require.True(t, strings.HasSuffix(strings.TrimRight(got, "\n"), "}()"))
}
