package fasta

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

const plain = `>seq1 some description
ACGT
acgt
>seq2
NNnn

>empty
`

func collect(t *testing.T, path string) []Record {
	t.Helper()
	var recs []Record
	require.NoError(t, EachFile(context.Background(), path, func(r Record) error {
		recs = append(recs, r)
		return nil
	}))
	return recs
}

func checkPlain(t *testing.T, recs []Record) {
	t.Helper()
	require.Len(t, recs, 3)
	assert.Equal(t, Record{ID: "seq1", Seq: "ACGTACGT"}, recs[0])
	assert.Equal(t, Record{ID: "seq2", Seq: "NNNN"}, recs[1])
	assert.Equal(t, Record{ID: "empty", Seq: ""}, recs[2])
}

func TestEachPlain(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fa")
	require.NoError(t, os.WriteFile(fn, []byte(plain), 0o644))
	checkPlain(t, collect(t, fn))
}

func TestEachGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	// no .gz suffix: detection must use the magic bytes
	fn := filepath.Join(t.TempDir(), "x.fa")
	require.NoError(t, os.WriteFile(fn, buf.Bytes(), 0o644))
	checkPlain(t, collect(t, fn))
}

func TestEachZstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	fn := filepath.Join(t.TempDir(), "x.fa.zst")
	require.NoError(t, os.WriteFile(fn, buf.Bytes(), 0o644))
	checkPlain(t, collect(t, fn))
}

func TestEachXz(t *testing.T) {
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = xw.Write([]byte(plain))
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	fn := filepath.Join(t.TempDir(), "x.fa.xz")
	require.NoError(t, os.WriteFile(fn, buf.Bytes(), 0o644))
	checkPlain(t, collect(t, fn))
}

func TestEachRejectsHeaderlessData(t *testing.T) {
	err := Each(context.Background(), strings.NewReader("ACGT\n>x\nAC\n"), func(Record) error { return nil })
	require.Error(t, err)
}

func TestEachCancelled(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		sb.WriteString(">r\nACGT\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Each(ctx, strings.NewReader(sb.String()), func(Record) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fa")
	require.NoError(t, os.WriteFile(fn, []byte(plain), 0o644))
	ch, errc := Stream(context.Background(), fn)
	var recs []Record
	for r := range ch {
		recs = append(recs, r)
	}
	require.NoError(t, <-errc)
	checkPlain(t, recs)
}
