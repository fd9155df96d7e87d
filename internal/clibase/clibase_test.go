package clibase

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DefaultsAndAliases(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	require.NoError(t, fs.Parse([]string{"-w", "/tmp/run", "-t", "4", "-q"}))
	assert.Equal(t, Common{Work: "/tmp/run", Threads: 4, LogLevel: "info", Quiet: true}, c)
	require.NoError(t, Validate(&c))
}

func TestValidate(t *testing.T) {
	cases := []Common{
		{Work: "", LogLevel: "info"},
		{Work: ".", Threads: -1, LogLevel: "info"},
		{Work: ".", LogLevel: "loud"},
	}
	for _, c := range cases {
		assert.Error(t, Validate(&c), "%+v", c)
	}
}

func TestSliceVar(t *testing.T) {
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	var got []string
	SliceVar(fs, &got, "index", "")
	require.NoError(t, fs.Parse([]string{"--index", "a.fa", "--index", "b.fa"}))
	assert.Equal(t, []string{"a.fa", "b.fa"}, got)
}

func TestUsageCommon(t *testing.T) {
	fs := flag.NewFlagSet("tool", flag.ContinueOnError)
	var c Common
	Register(fs, &c)
	UsageCommon(fs, "tool", "does things", func(out io.Writer, def func(string) string) {
		_, _ = io.WriteString(out, "Usage:\n  tool [options]\n")
	})
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	fs.Usage()
	assert.Contains(t, buf.String(), "tool – does things")
	assert.Contains(t, buf.String(), "Usage:\n  tool [options]")
	assert.Contains(t, buf.String(), "--work dir              Work directory [.]")
}

func TestPrintExamples(t *testing.T) {
	var buf bytes.Buffer
	PrintExamples(&buf, "tool", func(w io.Writer) { _, _ = io.WriteString(w, "tool -w run\n") })
	assert.Equal(t, "tool: quickstart\n\ntool -w run\n\nRun tool --help for all flags.\n", buf.String())
}
