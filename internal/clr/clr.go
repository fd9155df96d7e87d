// Package clr turns the seeds of one long read into a corrected long read by
// linking consecutive seeds through the short-read graph.
package clr

import (
	"errors"
	"fmt"
	"strings"

	"clrgen/internal/dna"
	"clrgen/internal/engine"
	"clrgen/internal/index"
	"clrgen/internal/rawreads"
	"clrgen/internal/seeds"
)

// SeedSource yields the merged, position-ordered seeds of a long read.
type SeedSource interface {
	ProcessSeeds(id string) ([]seeds.Seed, error)
}

// Stats counts what happened while correcting one read.
type Stats struct {
	ForwardLinks int // seed pairs linked on the read's strand
	RevCompLinks int // seed pairs linked only on the opposite strand
	FailedLinks  int // seed pairs linked on neither strand
	SkippedSeeds int
	RawFallbacks int // gaps filled from the raw read
}

// CorrectedRead is the result for one long read. SeedBases, GraphBases and
// RawBases always add up to len(Seq).
type CorrectedRead struct {
	ID         string
	Seq        string
	SeedBases  int
	GraphBases int
	RawBases   int
	Stats      Stats
}

// Generator corrects long reads one at a time. It keeps per-search state and
// must not be shared between goroutines.
type Generator struct {
	Params engine.Params
	Seeds  SeedSource
	Raw    rawreads.Store
	Linker *engine.Linker
	Tips   *engine.TipExtender

	state *engine.LinkState
}

// New wires a Generator over the given collaborators.
func New(p engine.Params, src SeedSource, raw rawreads.Store, idx index.Index, counter engine.Counter) *Generator {
	q := &engine.Query{Index: idx, MaxOrder: p.MaxOrder}
	return &Generator{
		Params: p,
		Seeds:  src,
		Raw:    raw,
		Linker: &engine.Linker{Query: q, Counter: counter, Params: p},
		Tips:   &engine.TipExtender{Query: q, Params: p},
		state:  engine.NewLinkState(),
	}
}

// Correct corrects read id. A read without seeds yields ok == false and no
// error.
func (g *Generator) Correct(id string) (CorrectedRead, bool, error) {
	sd, err := g.Seeds.ProcessSeeds(id)
	if err != nil {
		return CorrectedRead{}, false, err
	}
	if len(sd) == 0 {
		return CorrectedRead{}, false, nil
	}
	raw, err := g.Raw.RawRead(id)
	if err != nil {
		return CorrectedRead{}, false, err
	}
	cr, err := g.CorrectSeeds(id, sd, raw)
	if err != nil {
		return CorrectedRead{}, false, fmt.Errorf("read %s: %w", id, err)
	}
	return cr, true, nil
}

// linkBudget bounds the length of a path between two seeds separated by gap
// bases.
func linkBudget(gap, maxOrder int) int {
	if gap < 0 {
		gap = 0
	}
	return int(1.3*6*float64(gap)) + gap + maxOrder
}

type strand int

const (
	forward strand = iota
	revcomp
)

// linkSeeds links src to tgt on the read's strand, then on the opposite one.
// The returned bridge always reads on the read's strand.
func (g *Generator) linkSeeds(src, tgt seeds.Seed) (string, strand, bool, error) {
	budget := linkBudget(tgt.Pos-src.End(), g.Params.MaxOrder)

	g.state.Reset()
	b, ok, err := g.Linker.Link(src.Seq, tgt.Seq, g.state, budget)
	if err != nil || ok {
		return b, forward, ok, err
	}
	g.state.Reset()
	b, ok, err = g.Linker.Link(dna.RevComp(tgt.Seq), dna.RevComp(src.Seq), g.state, budget)
	if err != nil || !ok {
		return "", revcomp, false, err
	}
	return dna.RevComp(b), revcomp, true, nil
}

// skipBudget is how many targets may be skipped after the seed at src.
func (g *Generator) skipBudget(n, src int) int {
	return max(0, min(g.Params.MaxSeedsSkips, n-2-src))
}

// validated is a bridge already found by a lookahead.
type validated struct {
	from, to int
	bridge   string
	strand   strand
}

// walk is the state of one read's seed walk.
type walk struct {
	raw string
	out strings.Builder
	cr  CorrectedRead
}

func (w *walk) appendSeed(s string) {
	w.out.WriteString(s)
	w.cr.SeedBases += len(s)
}

// commit appends the part of bridge past src, crediting tgt's bases to the
// seeds and the rest to the graph.
func (w *walk) commit(bridge string, src, tgt seeds.Seed) {
	var added string
	if len(bridge) > len(src.Seq) {
		added = bridge[len(src.Seq):]
	}
	w.out.WriteString(added)
	if len(added) >= len(tgt.Seq) {
		w.cr.SeedBases += len(tgt.Seq)
		w.cr.GraphBases += len(added) - len(tgt.Seq)
	} else {
		w.cr.SeedBases += len(added)
	}
}

// fallback copies raw bases from the end of src up to next, then next itself.
func (w *walk) fallback(src, next seeds.Seed) {
	end := src.End()
	if next.Pos > end {
		part := rawSlice(w.raw, end, next.Pos)
		w.out.WriteString(part)
		w.cr.RawBases += len(part)
		w.appendSeed(next.Seq)
		return
	}
	if ov := end - next.Pos; ov < len(next.Seq) {
		w.appendSeed(next.Seq[ov:])
	}
}

func rawSlice(raw string, from, to int) string {
	from = max(0, min(from, len(raw)))
	to = max(from, min(to, len(raw)))
	return raw[from:to]
}

// CorrectSeeds corrects one read from its merged seeds (at least one) and raw
// sequence.
func (g *Generator) CorrectSeeds(id string, sd []seeds.Seed, raw string) (CorrectedRead, error) {
	n := len(sd)
	if n == 0 {
		return CorrectedRead{}, errors.New("no seeds")
	}
	w := &walk{raw: raw}
	w.cr.ID = id
	w.appendSeed(sd[0].Seq)

	srcIdx := 0
	skips := g.skipBudget(n, srcIdx)
	skipped, firstSkipped := 0, -1
	var ahead *validated

	for idx := 1; idx < n; {
		src, tgt := sd[srcIdx], sd[idx]
		next := -1

		var (
			bridge string
			st     strand
			ok     bool
			err    error
		)
		if ahead != nil && ahead.from == srcIdx && ahead.to == idx {
			bridge, st, ok = ahead.bridge, ahead.strand, true
		} else if bridge, st, ok, err = g.linkSeeds(src, tgt); err != nil {
			return CorrectedRead{}, err
		}
		ahead = nil
		switch {
		case !ok:
			w.cr.Stats.FailedLinks++
		case st == forward:
			w.cr.Stats.ForwardLinks++
		default:
			w.cr.Stats.RevCompLinks++
		}

		// Only commit to a target that can itself reach a later seed.
		linkable := idx == n-1
		for j, tries := idx+1, 0; ok && !linkable && j < n && tries <= skips; j, tries = j+1, tries+1 {
			b, bst, found, err := g.linkSeeds(tgt, sd[j])
			if err != nil {
				return CorrectedRead{}, err
			}
			if found {
				linkable, next = true, j
				ahead = &validated{from: idx, to: j, bridge: b, strand: bst}
			}
		}

		switch {
		case ok && linkable:
			w.commit(bridge, src, tgt)
			srcIdx = idx
			skips = g.skipBudget(n, srcIdx)
			skipped, firstSkipped = 0, -1
			if next > idx+1 {
				skipped, firstSkipped = next-idx-1, idx+1
				w.cr.Stats.SkippedSeeds += skipped
			}
		case skipped < skips && idx < n-1:
			skipped++
			w.cr.Stats.SkippedSeeds++
			if firstSkipped < 0 {
				firstSkipped = idx
			}
		default:
			acc := idx
			if firstSkipped >= 0 {
				acc = firstSkipped
			}
			w.fallback(src, sd[acc])
			w.cr.Stats.RawFallbacks++
			srcIdx, idx = acc, acc
			skips = g.skipBudget(n, srcIdx)
			skipped, firstSkipped = 0, -1
		}

		if next >= 0 {
			idx = next
		} else {
			idx++
		}
	}

	seq := w.out.String()
	g.extendTips(&w.cr, &seq, sd[0].Pos, sd[srcIdx].End(), sd[0].TotalLen, raw)
	w.cr.Seq = seq
	return w.cr, nil
}

// extendTips grows seq towards both read borders through the graph and fills
// what the graph cannot reach with raw bases.
func (g *Generator) extendTips(cr *CorrectedRead, seq *string, posBeg, posEnd, readLen int, raw string) {
	if posBeg > 0 {
		var d int
		*seq, d = g.Tips.Extend(engine.Left, posBeg, *seq)
		cr.GraphBases += d
		posBeg = max(0, posBeg-d)
	}
	if readLen > posEnd {
		var d int
		*seq, d = g.Tips.Extend(engine.Right, readLen-posEnd, *seq)
		cr.GraphBases += d
		posEnd += d
	}
	if posBeg > 0 {
		part := rawSlice(raw, 0, posBeg)
		*seq = part + *seq
		cr.RawBases += len(part)
	}
	if readLen > posEnd {
		part := rawSlice(raw, posEnd, readLen)
		*seq += part
		cr.RawBases += len(part)
	}
}
