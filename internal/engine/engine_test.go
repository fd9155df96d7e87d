package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clrgen/internal/index"
)

// kmers returns every k-length substring of s in order.
func kmers(s string, k int) []string {
	var out []string
	for i := 0; i+k <= len(s); i++ {
		out = append(out, s[i:i+k])
	}
	return out
}

type mapCounter map[string]int

func (m mapCounter) OccurrenceCount(kmer string) (int, error) { return m[kmer], nil }

func newLinker(reads []string, p Params, c Counter) *Linker {
	return &Linker{
		Query:   &Query{Index: index.New(reads), MaxOrder: p.MaxOrder},
		Counter: c,
		Params:  p,
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := []func(*Params){
		func(p *Params) { p.MinOrder = 0 },
		func(p *Params) { p.MaxOrder = p.MinOrder },
		func(p *Params) { p.SeedsOverlap = 0 },
		func(p *Params) { p.MaxBranches = -1 },
		func(p *Params) { p.MaxSeedsSkips = -1 },
		func(p *Params) { p.Mismatches = -1 },
	}
	for i, mut := range bad {
		p := DefaultParams()
		mut(&p)
		assert.Error(t, p.Validate(), "case %d", i)
	}
}

func TestNeighboursRight(t *testing.T) {
	q := &Query{Index: index.New([]string{"ACGTTG", "CGTTGA", "GTTGAC"}), MaxOrder: 8}
	// CGTTG (from read 0) is a prefix of CGTTGA and collapses into it.
	assert.Equal(t, []string{"CGTTGA"}, q.Neighbours("ACGT", Right))
	assert.Empty(t, q.Neighbours("TTTT", Right))
	assert.Empty(t, q.Neighbours("A", Right))
}

func TestNeighboursRightHonoursMaxOrder(t *testing.T) {
	q := &Query{Index: index.New([]string{"AAAACGTTG"}), MaxOrder: 6}
	// CGT sits at 4 and 4+3 is not below 6
	assert.Empty(t, q.Neighbours("ACGT", Right))
	q.MaxOrder = 8
	assert.Equal(t, []string{"CGTTG"}, q.Neighbours("ACGT", Right))
}

func TestNeighboursRightNeedsTrailingBase(t *testing.T) {
	q := &Query{Index: index.New([]string{"CGT"}), MaxOrder: 8}
	assert.Empty(t, q.Neighbours("ACGT", Right))
}

func TestNeighboursLeftHeuristicBoundary(t *testing.T) {
	q := &Query{Index: index.New([]string{"ACGTTG", "CGTTGA", "GTTGAC"}), MaxOrder: 8}
	// CGTTG and GTTG are suffixes of ACGTTG but not its lexicographic
	// successors, so the adjacent-pair collapse keeps all three.
	got := q.Neighbours("TTGA", Left)
	assert.Equal(t, []string{"ACGTTG", "CGTTG", "GTTG"}, got)
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, []string{"ACGT"}, collapse([]string{"AC", "ACG", "ACGT"}))
	assert.Equal(t, []string{"AG", "AT"}, collapse([]string{"A", "AG", "AT"}))
	// AC is contained in TAC, which is not adjacent to it.
	assert.Equal(t, []string{"AC", "AG", "TAC"}, collapse([]string{"AC", "AG", "TAC"}))
}

func TestNeighboursNoAdjacentContainment(t *testing.T) {
	reads := kmers("ACGTACGTAAGGTTGGCCAAGTACGTTT", 8)
	q := &Query{Index: index.New(reads), MaxOrder: 8}
	for _, r := range reads {
		got := q.Neighbours(r, Right)
		for i := 0; i+1 < len(got); i++ {
			assert.False(t, strings.Contains(got[i+1], got[i]), "%q inside %q", got[i], got[i+1])
		}
	}
}

func tipParams() Params {
	return Params{MaxOrder: 5, MinOrder: 3, SeedsOverlap: 4, MaxBranches: 10, Mismatches: 0}
}

func TestTipExtendRight(t *testing.T) {
	p := tipParams()
	reads := kmers("ACGTTGCAAT", 5)
	te := &TipExtender{Query: &Query{Index: index.New(reads), MaxOrder: p.MaxOrder}, Params: p}

	got, n := te.Extend(Right, 100, "ACGTT")
	assert.Equal(t, "ACGTTGCAAT", got)
	assert.Equal(t, 5, n)

	got, n = te.Extend(Right, 2, "ACGTT")
	assert.Equal(t, "ACGTTGC", got)
	assert.Equal(t, 2, n)

	got, n = te.Extend(Right, 0, "ACGTT")
	assert.Equal(t, "ACGTT", got)
	assert.Zero(t, n)
}

func TestTipExtendLeft(t *testing.T) {
	p := tipParams()
	reads := kmers("ACGTTGCAAT", 5)
	te := &TipExtender{Query: &Query{Index: index.New(reads), MaxOrder: p.MaxOrder}, Params: p}

	got, n := te.Extend(Left, 100, "GCAAT")
	assert.Equal(t, "ACGTTGCAAT", got)
	assert.Equal(t, 5, n)
}

func TestTipExtendStopsAtBranch(t *testing.T) {
	p := tipParams()
	reads := append(kmers("ACGTTGCAAT", 5), "CGTTA")
	te := &TipExtender{Query: &Query{Index: index.New(reads), MaxOrder: p.MaxOrder}, Params: p}

	got, n := te.Extend(Right, 100, "ACGTT")
	assert.Equal(t, "ACGTT", got)
	assert.Zero(t, n)
}

func linkParams() Params {
	return Params{MaxOrder: 8, MinOrder: 5, SeedsOverlap: 7, MaxBranches: 100, MaxSeedsSkips: 1, Mismatches: 0}
}

const bridge = "ACGTACGTAAGGTTGGCCAA"

func TestLinkUnbranchedPath(t *testing.T) {
	p := linkParams()
	l := newLinker(kmers(bridge, 8), p, nil)
	st := NewLinkState()

	got, ok, err := l.Link("ACGTACGT", "TTGGCCAA", st, 113)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bridge, got)
	assert.Zero(t, st.Branches())
}

func TestLinkLongerTarget(t *testing.T) {
	p := linkParams()
	l := newLinker(kmers(bridge, 8), p, nil)

	got, ok, err := l.Link("ACGTACGT", "TTGGCCAAGGG", NewLinkState(), 113)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, bridge+"GGG", got)
}

func TestLinkSeedsAlreadyOverlap(t *testing.T) {
	p := linkParams()
	l := newLinker([]string{"TTTTTTTT"}, p, nil)

	got, ok, err := l.Link("GGACGTACGT", "ACGTACGTCC", NewLinkState(), 50)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "GGACGTACGTCC", got)
}

func TestLinkMismatchTolerance(t *testing.T) {
	p := linkParams()
	l := newLinker(kmers(bridge, 8), p, nil)
	// one substitution in the target's first bases
	_, ok, err := l.Link("ACGTACGT", "TAGGCCAA", NewLinkState(), 113)
	require.NoError(t, err)
	assert.False(t, ok)

	p.Mismatches = 1
	l = newLinker(kmers(bridge, 8), p, nil)
	got, ok, err := l.Link("ACGTACGT", "TAGGCCAA", NewLinkState(), 113)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, "ACGTACGTAAGG"))
}

func TestLinkBudgetExhausted(t *testing.T) {
	p := linkParams()
	l := newLinker(kmers(bridge, 8), p, nil)
	got, ok, err := l.Link("ACGTACGT", "TTGGCCAA", NewLinkState(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestLinkTerminatesOnCycle(t *testing.T) {
	p := Params{MaxOrder: 4, MinOrder: 2, MaxBranches: 5}
	l := newLinker(kmers("ACGTACGTACGT", 4), p, nil)
	st := NewLinkState()
	_, ok, err := l.Link("ACGT", "GGGG", st, 1000)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, st.Visited("CGTA"))
}

func TestLinkBranchOrderingBySupport(t *testing.T) {
	p := Params{MaxOrder: 4, MinOrder: 2, MaxBranches: 10}
	reads := []string{"AACGG", "AACTT"}

	// AACT* is better supported: tried first and reaches the target directly.
	l := newLinker(reads, p, mapCounter{"AACT": 5, "AACG": 2})
	st := NewLinkState()
	got, ok, err := l.Link("AAAC", "ACTTGG", st, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAACTTGG", got)
	assert.Equal(t, 1, st.Branches())
	assert.False(t, st.Visited("AACGG"))

	// Swap the support: the dead-end AACGG is explored before AACTT.
	l = newLinker(reads, p, mapCounter{"AACT": 2, "AACG": 5})
	st = NewLinkState()
	got, ok, err = l.Link("AAAC", "ACTTGG", st, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAACTTGG", got)
	assert.Equal(t, 2, st.Branches())
	assert.True(t, st.Visited("AACGG"))
}

func TestLinkMaxBranches(t *testing.T) {
	p := Params{MaxOrder: 4, MinOrder: 2, MaxBranches: 0}
	l := newLinker([]string{"AACGG", "AACTT"}, p, mapCounter{"AACT": 2, "AACG": 5})
	st := NewLinkState()
	_, ok, err := l.Link("AAAC", "ACTTGG", st, 100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLinkStateResetBeforeUse(t *testing.T) {
	p := linkParams()
	l := newLinker(kmers(bridge, 8), p, nil)
	st := NewLinkState()

	first, ok, err := l.Link("ACGTACGT", "TTGGCCAA", st, 113)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, st.Visited("CGTACGTA"))

	st.Reset()
	assert.False(t, st.Visited("CGTACGTA"))
	assert.Zero(t, st.Branches())

	second, ok, err := l.Link("ACGTACGT", "TTGGCCAA", st, 113)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestLinkEmptyInputs(t *testing.T) {
	l := newLinker(nil, linkParams(), nil)
	_, ok, err := l.Link("", "ACGT", NewLinkState(), 10)
	require.NoError(t, err)
	assert.False(t, ok)
}
