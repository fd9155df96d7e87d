// Package index answers substring queries over a read collection. It stands
// in for the suffix-array index the graph search walks: every read is a
// path fragment, and an occurrence of a (k-1)-mer inside a read is an edge
// candidate.
package index

import (
	"context"
	"fmt"
	"index/suffixarray"
	"sort"
	"strings"
	"sync"

	"clrgen/internal/fasta"
)

// Occurrence is one hit of a query string: the read it was found in and the
// 0-based offset within that read.
type Occurrence struct {
	ReadID int
	Pos    int
}

// Index is the query surface the engine needs.
type Index interface {
	ReportOccurrences(kmer string) []Occurrence
	CountOccurrences(kmer string) int
	Read(id int) string
}

// separator never appears in nucleotide queries, so no hit spans two reads.
const separator = '\x00'

// SuffixIndex is an immutable suffix array over a set of reads.
type SuffixIndex struct {
	sa     *suffixarray.Index
	reads  []string
	starts []int // offset of each read inside the concatenated text
}

// New indexes reads; read IDs are their positions in the slice.
func New(reads []string) *SuffixIndex {
	var sb strings.Builder
	starts := make([]int, len(reads))
	for i, r := range reads {
		starts[i] = sb.Len()
		sb.WriteString(r)
		sb.WriteByte(separator)
	}
	return &SuffixIndex{
		sa:     suffixarray.New([]byte(sb.String())),
		reads:  reads,
		starts: starts,
	}
}

// FromFASTA indexes every record of the given FASTA files.
func FromFASTA(ctx context.Context, paths ...string) (*SuffixIndex, error) {
	var reads []string
	for _, p := range paths {
		err := fasta.EachFile(ctx, p, func(r fasta.Record) error {
			if r.Seq != "" {
				reads = append(reads, r.Seq)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("index reads: %w", err)
		}
	}
	return New(reads), nil
}

// Len reports the number of indexed reads.
func (x *SuffixIndex) Len() int { return len(x.reads) }

func (x *SuffixIndex) ReportOccurrences(kmer string) []Occurrence {
	if kmer == "" {
		return nil
	}
	offs := x.sa.Lookup([]byte(kmer), -1)
	if len(offs) == 0 {
		return nil
	}
	sort.Ints(offs)
	out := make([]Occurrence, 0, len(offs))
	for _, off := range offs {
		// last read starting at or before off
		id := sort.SearchInts(x.starts, off+1) - 1
		out = append(out, Occurrence{ReadID: id, Pos: off - x.starts[id]})
	}
	return out
}

func (x *SuffixIndex) CountOccurrences(kmer string) int {
	if kmer == "" {
		return 0
	}
	return len(x.sa.Lookup([]byte(kmer), -1))
}

func (x *SuffixIndex) Read(id int) string {
	if id < 0 || id >= len(x.reads) {
		return ""
	}
	return x.reads[id]
}

// Locked serializes every call on the wrapped Index, so callers cannot
// forget to hold the lock.
type Locked struct {
	mu  sync.Mutex
	idx Index
}

// NewLocked wraps idx.
func NewLocked(idx Index) *Locked { return &Locked{idx: idx} }

func (l *Locked) ReportOccurrences(kmer string) []Occurrence {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idx.ReportOccurrences(kmer)
}

func (l *Locked) CountOccurrences(kmer string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idx.CountOccurrences(kmer)
}

func (l *Locked) Read(id int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idx.Read(id)
}
