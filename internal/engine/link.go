package engine

import (
	"fmt"
	"sort"

	"clrgen/internal/dna"
)

// Counter reports how often a k-mer occurs in the short reads.
type Counter interface {
	OccurrenceCount(kmer string) (int, error)
}

// LinkState is the mutable search state shared by every recursive step of one
// link attempt. Reset it before each attempt.
type LinkState struct {
	visited  map[string]struct{}
	branches int
}

func NewLinkState() *LinkState {
	return &LinkState{visited: make(map[string]struct{})}
}

// Reset clears the visited set and the branch counter.
func (s *LinkState) Reset() {
	clear(s.visited)
	s.branches = 0
}

// Branches reports how many branch points the current attempt explored.
func (s *LinkState) Branches() int { return s.branches }

// Visited reports whether candidate was already explored in this attempt.
func (s *LinkState) Visited(candidate string) bool {
	_, ok := s.visited[candidate]
	return ok
}

func (s *LinkState) visit(candidate string) { s.visited[candidate] = struct{}{} }

// Linker searches the short-read graph for a path joining two seeds.
type Linker struct {
	Query   *Query
	Counter Counter // consulted for candidates of at least MaxOrder bases; nil falls back to the index
	Params  Params
}

// Link looks for a path from the end of src to the start of tgt whose length
// stays within budget. On success it returns the bridge: src, the bases found
// in the graph, then the rest of tgt. Failing to find a path is not an error.
func (l *Linker) Link(src, tgt string, st *LinkState, budget int) (string, bool, error) {
	if src == "" || tgt == "" {
		return "", false, nil
	}
	return l.link(tgt, l.Params.MaxOrder, st, 0, src, budget)
}

func (l *Linker) matches(s, tgt string) bool {
	return dna.Differences(s, dna.Prefix(tgt, len(s))) <= l.Params.Mismatches
}

func (l *Linker) link(tgt string, k int, st *LinkState, dist int, ext string, budget int) (string, bool, error) {
	p := l.Params
	for {
		if k > len(ext) {
			k = len(ext)
		}
		if k <= p.MinOrder || st.branches > p.MaxBranches || dist > budget {
			return "", false, nil
		}

		cur := ext
		anchor := dna.Suffix(cur, k)
		found := l.matches(anchor, tgt)
		ov := k // bases of tgt already at the end of cur once found
		var nb []string
		if !found {
			nb, k = l.Query.dropdown(cur, k, p.MinOrder, Right)
		}

		/* --------------------------- unbranched path ---------------------------- */
		for !found && len(nb) == 1 && dist <= budget {
			c := nb[0]
			if l.matches(c, tgt) {
				cur += c[k-1:]
				found, ov = true, len(c)
				break
			}
			if st.Visited(c) {
				break
			}
			st.visit(c)
			cur += c[k-1:]
			dist += len(c) - (k - 1)
			nb, k = l.Query.dropdown(cur, p.MaxOrder, p.MinOrder, Right)
		}

		/* ------------------------------ branch point ----------------------------- */
		if !found && len(nb) > 1 && dist <= budget {
			ordered, err := l.bySupport(nb)
			if err != nil {
				return "", false, err
			}
			for _, c := range ordered {
				if l.matches(c, tgt) {
					cur += c[k-1:]
					found, ov = true, len(c)
					break
				}
				if st.Visited(c) {
					continue
				}
				st.visit(c)
				st.branches++
				bridge, ok, err := l.link(tgt, p.MaxOrder, st, dist+len(c)-(k-1), cur+c[k-1:], budget)
				if err != nil || ok {
					return bridge, ok, err
				}
			}
		}

		if found {
			if ov > len(tgt) {
				ov = len(tgt)
			}
			return cur + tgt[ov:], true, nil
		}

		// Nothing reached the target at this order: retry from the same
		// extension one order lower, keeping visited, branches and distance.
		if k-1 > p.MinOrder && dist < budget {
			k--
			continue
		}
		return "", false, nil
	}
}

// bySupport orders candidates by decreasing occurrence count. Equal counts
// keep their input order.
func (l *Linker) bySupport(cands []string) ([]string, error) {
	counts := make(map[string]int, len(cands))
	for _, c := range cands {
		n, err := l.support(c)
		if err != nil {
			return nil, fmt.Errorf("count %q: %w", dna.Prefix(c, 16), err)
		}
		counts[c] = n
	}
	out := append([]string(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool { return counts[out[i]] > counts[out[j]] })
	return out, nil
}

func (l *Linker) support(c string) (int, error) {
	if len(c) < l.Params.MaxOrder || l.Counter == nil {
		return l.Query.Index.CountOccurrences(dna.Prefix(c, l.Params.MaxOrder)), nil
	}
	return l.Counter.OccurrenceCount(dna.Prefix(c, l.Params.MaxOrder))
}
