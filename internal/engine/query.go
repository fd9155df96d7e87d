package engine

import (
	"sort"
	"strings"

	"clrgen/internal/index"
)

// Direction selects which end of a sequence is being extended.
type Direction int

const (
	Right Direction = iota
	Left
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// Query looks up one-step extensions of an anchor in the short-read index.
type Query struct {
	Index    index.Index
	MaxOrder int
}

// Neighbours returns the distinct maximal extension strings of anchor.
//
// The anchor is trimmed to its (k-1)-overlap with the frontier: the first base
// is dropped when extending right, the last when extending left. Each index hit
// of the overlap then yields the rest of its read past the overlap's start
// (right) or the read's prefix through the overlap (left). Right hits must
// start close enough to their read's beginning that a full maxOrder context
// exists past them, and must be followed by at least one base; left hits must
// be preceded by at least one base.
func (q *Query) Neighbours(anchor string, dir Direction) []string {
	if len(anchor) < 2 {
		return nil
	}
	var f string
	if dir == Right {
		f = anchor[1:]
	} else {
		f = anchor[:len(anchor)-1]
	}

	seen := make(map[string]struct{})
	for _, occ := range q.Index.ReportOccurrences(f) {
		switch dir {
		case Right:
			if occ.Pos+len(f) >= q.MaxOrder {
				continue
			}
			r := q.Index.Read(occ.ReadID)
			if occ.Pos+len(f) >= len(r) {
				continue
			}
			seen[r[occ.Pos:]] = struct{}{}
		case Left:
			if occ.Pos-1 < 0 {
				continue
			}
			r := q.Index.Read(occ.ReadID)
			seen[r[:occ.Pos+len(f)]] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	cands := make([]string, 0, len(seen))
	for s := range seen {
		cands = append(cands, s)
	}
	sort.Strings(cands)
	return collapse(cands)
}

// collapse drops every string of the sorted slice s that is contained in its
// lexicographic successor, walking runs of such pairs forward. It only
// compares neighbours, so a string contained in a non-adjacent element
// survives.
func collapse(s []string) []string {
	out := make([]string, 0, len(s))
	for n := 0; n < len(s); n++ {
		for n+1 < len(s) && strings.Contains(s[n+1], s[n]) {
			n++
		}
		out = append(out, s[n])
	}
	return out
}

// dropdown queries the dir border of seq at order k, lowering the order until
// a neighbour shows up or minOrder is reached. k is first clamped to len(seq).
// It returns the candidates and the order they were found at.
func (q *Query) dropdown(seq string, k, minOrder int, dir Direction) ([]string, int) {
	if k > len(seq) {
		k = len(seq)
	}
	nb := q.Neighbours(border(seq, k, dir), dir)
	for len(nb) == 0 && k > minOrder {
		k--
		nb = q.Neighbours(border(seq, k, dir), dir)
	}
	return nb, k
}
