package kmercli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clrgen/internal/clibase"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func TestParse(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{"-w", "run", "-k", "31", "a.fq", "--min-count", "3", "b.fq"})
	require.NoError(t, err)
	assert.Equal(t, "run", o.Work)
	assert.Equal(t, 31, o.K)
	assert.Equal(t, 3, o.MinCount)
	assert.Equal(t, []string{"a.fq", "b.fq"}, o.Inputs)
	assert.False(t, o.NoSolid)
}

func TestPositionalGlob(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.fa", "b.fa"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(">r\nACGT\n"), 0o644))
	}
	o, err := ParseArgs(newFS(), []string{filepath.Join(dir, "*.fa")})
	require.NoError(t, err)
	assert.Len(t, o.Inputs, 2)
}

func TestErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-k", "1", "a.fa"},
		{"--min-count", "0", "a.fa"},
		{"--solid", "s.fa", "--no-solid", "a.fa"},
		{"--log-level", "chatty", "a.fa"},
		{filepath.Join(t.TempDir(), "*.none")},
	} {
		_, err := ParseArgs(newFS(), args)
		assert.Error(t, err, "%v", args)
	}
}

func TestExamplesAndHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"--examples"})
	assert.ErrorIs(t, err, clibase.ErrPrintedAndExitOK)
	_, err = ParseArgs(newFS(), []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}
