// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clrgen/internal/clibase"
	"clrgen/internal/engine"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	o, err := ParseArgs(newFS(), args)
	require.NoError(t, err)
	return o
}

func TestDefaults(t *testing.T) {
	o := mustParse(t)
	assert.Equal(t, ".", o.Work)
	assert.Equal(t, engine.DefaultParams(), o.Params)
	assert.Equal(t, "fasta", o.Output)
	assert.Empty(t, o.ReadIDs)
}

func TestFlagsAndPositionals(t *testing.T) {
	o := mustParse(t,
		"-w", "run", "--index", "a.fa", "read_1", "--index", "b.fa",
		"--max-order", "60", "--min-order", "20", "-m", "1", "-o", "jsonl", "read_2",
	)
	assert.Equal(t, "run", o.Work)
	assert.Equal(t, []string{"a.fa", "b.fa"}, o.Index)
	assert.Equal(t, []string{"read_1", "read_2"}, o.ReadIDs)
	assert.Equal(t, 60, o.Params.MaxOrder)
	assert.Equal(t, 59, o.Params.SeedsOverlap, "follows max-order when unset")
	assert.Equal(t, 1, o.Params.Mismatches)
	assert.Equal(t, "jsonl", o.Output)
}

func TestExplicitSeedsOverlap(t *testing.T) {
	o := mustParse(t, "--max-order", "60", "--min-order", "20", "--seeds-overlap", "30")
	assert.Equal(t, 30, o.Params.SeedsOverlap)
}

func TestErrors(t *testing.T) {
	cases := [][]string{
		{"--max-order", "40"},
		{"--raw", "r", "--long-reads", "l.fa"},
		{"-o", "xml"},
		{"--threads", "-2"},
		{"--mismatches", "-1"},
		{"--config", filepath.Join(os.TempDir(), "clrgen-does-not-exist.yaml")},
	}
	for _, args := range cases {
		_, err := ParseArgs(newFS(), args)
		assert.Error(t, err, "%v", args)
	}
}

func TestHelpExamplesVersion(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))

	_, err = ParseArgs(newFS(), []string{"--examples"})
	assert.ErrorIs(t, err, clibase.ErrPrintedAndExitOK)

	o, err := ParseArgs(newFS(), []string{"--version", "--max-order", "1"})
	require.NoError(t, err, "version skips validation")
	assert.True(t, o.Version)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("work: fromfile\nmax-order: 80\nmin-order: 30\nthreads: 2\n"), 0o644))

	o := mustParse(t, "--config", path, "--threads", "6")
	assert.Equal(t, "fromfile", o.Work)
	assert.Equal(t, 80, o.Params.MaxOrder)
	assert.Equal(t, 30, o.Params.MinOrder)
	assert.Equal(t, 79, o.Params.SeedsOverlap)
	assert.Equal(t, 6, o.Threads)
}
