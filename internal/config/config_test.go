package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
work: /data/run1
index: [a.fa, b.fa]
max-order: 64
mismatches: 2
progress: true
output: jsonl
`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.NotNil(t, f.Work)
	assert.Equal(t, "/data/run1", *f.Work)
	assert.Equal(t, []string{"a.fa", "b.fa"}, f.Index)
	assert.Equal(t, 64, *f.MaxOrder)
	assert.Nil(t, f.MinOrder)

	assert.Equal(t, []Setting{
		{"work", "/data/run1"},
		{"index", "a.fa"},
		{"index", "b.fa"},
		{"max-order", "64"},
		{"mismatches", "2"},
		{"output", "jsonl"},
		{"progress", "true"},
	}, f.Settings())
}

func TestDecode_EmptyAndUnknown(t *testing.T) {
	f, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Settings())

	_, err = Decode(strings.NewReader("max-ordr: 3\n"))
	require.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply_FlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	f, err := Load(path)
	require.NoError(t, err)

	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	work := fs.String("work", ".", "")
	maxOrder := fs.Int("max-order", 100, "")
	minOrder := fs.Int("min-order", 40, "")
	mm := fs.Int("mismatches", 3, "")
	progress := fs.Bool("progress", false, "")
	output := fs.String("output", "fasta", "")
	var idx []string
	fs.Func("index", "", func(s string) error { idx = append(idx, s); return nil })

	require.NoError(t, fs.Parse([]string{"--max-order", "80"}))
	require.NoError(t, Apply(fs, f))

	assert.Equal(t, "/data/run1", *work)
	assert.Equal(t, 80, *maxOrder, "explicit flag beats file")
	assert.Equal(t, 40, *minOrder, "absent from both keeps default")
	assert.Equal(t, 2, *mm)
	assert.True(t, *progress)
	assert.Equal(t, "jsonl", *output)
	assert.Equal(t, []string{"a.fa", "b.fa"}, idx)
}

func TestApply_UnknownFlag(t *testing.T) {
	f, err := Decode(strings.NewReader("quiet: true\n"))
	require.NoError(t, err)
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	require.NoError(t, fs.Parse(nil))
	require.Error(t, Apply(fs, f))
}
