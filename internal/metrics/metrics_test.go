package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clrgen/internal/clr"
)

func TestObserveRead(t *testing.T) {
	m := New()
	cr := clr.CorrectedRead{
		SeedBases: 16, GraphBases: 4, RawBases: 2,
		Stats: clr.Stats{ForwardLinks: 2, FailedLinks: 1, SkippedSeeds: 1, RawFallbacks: 1},
	}
	m.ObserveRead(cr, true, nil, 10*time.Millisecond)
	m.ObserveRead(clr.CorrectedRead{}, false, nil, time.Millisecond)
	m.ObserveRead(clr.CorrectedRead{}, false, errors.New("x"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reads.WithLabelValues("corrected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reads.WithLabelValues("no_seeds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reads.WithLabelValues("failed")))
	assert.Equal(t, 16.0, testutil.ToFloat64(m.bases.WithLabelValues("seed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.bases.WithLabelValues("graph")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bases.WithLabelValues("raw")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.links.WithLabelValues("forward")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.links.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRead(clr.CorrectedRead{SeedBases: 8}, true, nil, time.Millisecond)

	fn := filepath.Join(t.TempDir(), "clrgen.prom")
	require.NoError(t, m.WriteTextfile(fn))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	txt := string(data)
	assert.True(t, strings.Contains(txt, `clrgen_reads_total{outcome="corrected"} 1`))
	assert.True(t, strings.Contains(txt, `clrgen_bases_total{source="seed"} 8`))
	assert.True(t, strings.Contains(txt, "clrgen_read_duration_seconds_count 1"))
}
