// Package seeds loads and merges the verified seed regions of long reads.
package seeds

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Seed is a verified sub-sequence of a long read.
type Seed struct {
	Pos      int    // offset into the long read
	TotalLen int    // length of the long read
	Seq      string // verified bases
}

// End is the offset one past the seed's last base.
func (s Seed) End() int { return s.Pos + len(s.Seq) }

// Parse reads one seed per line in the form "pos readLength sequence".
// Blank lines and lines starting with '#' are ignored.
func Parse(r io.Reader) ([]Seed, error) {
	var out []Seed
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" || txt[0] == '#' {
			continue
		}
		f := strings.Fields(txt)
		if len(f) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields, got %d", line, len(f))
		}
		pos, err := strconv.Atoi(f[0])
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("line %d: bad position %q", line, f[0])
		}
		tl, err := strconv.Atoi(f[1])
		if err != nil || tl <= 0 {
			return nil, fmt.Errorf("line %d: bad read length %q", line, f[1])
		}
		seq := strings.ToUpper(f[2])
		if pos+len(seq) > tl {
			return nil, fmt.Errorf("line %d: seed [%d,%d) exceeds read length %d", line, pos, pos+len(seq), tl)
		}
		out = append(out, Seed{Pos: pos, TotalLen: tl, Seq: seq})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge sorts seeds by position and merges overlapping neighbours.
//
// A seed fully covered by the previous one is dropped. Seeds overlapping by at
// least minOverlap bases are fused into one. Seeds overlapping by fewer bases
// disagree on too short a stretch to be trusted together, so only the longer
// of the two is kept.
func Merge(in []Seed, minOverlap int) []Seed {
	if len(in) == 0 {
		return nil
	}
	s := append([]Seed(nil), in...)
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Pos != s[j].Pos {
			return s[i].Pos < s[j].Pos
		}
		return len(s[i].Seq) > len(s[j].Seq)
	})

	out := []Seed{s[0]}
	for _, nx := range s[1:] {
		cur := &out[len(out)-1]
		if nx.End() <= cur.End() {
			continue
		}
		ov := cur.End() - nx.Pos
		switch {
		case ov <= 0:
			out = append(out, nx)
		case ov >= minOverlap:
			cur.Seq += nx.Seq[ov:]
		case len(nx.Seq) > len(cur.Seq):
			*cur = nx
		}
	}
	return out
}
