package kmerdb

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/errgroup"

	"clrgen/internal/dna"
	"clrgen/internal/fasta"
)

// BuildStats summarizes a Build run.
type BuildStats struct {
	Reads    int
	Kmers    int // k-mer positions scanned
	Distinct int // distinct canonical k-mers
	Solid    int // distinct k-mers stored (count >= MinCount)
}

// BuildOptions controls Build.
type BuildOptions struct {
	K        int
	MinCount int // k-mers seen fewer times are not stored; <=1 keeps all
	Workers  int // counting goroutines; <1 means one
}

func isACGT(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

// Build counts canonical k-mers of every record in paths and stores the solid
// ones. K-mers containing non-ACGT bases are skipped. Rebuilding a database
// replaces the counts of k-mers seen again.
func (d *DB) Build(ctx context.Context, opt BuildOptions, paths ...string) (BuildStats, error) {
	var st BuildStats
	if opt.K < 2 {
		return st, fmt.Errorf("kmerdb: k must be >= 2, got %d", opt.K)
	}
	if d.k != 0 && d.k != opt.K {
		return st, fmt.Errorf("kmerdb: database already holds %d-mers, cannot add %d-mers", d.k, opt.K)
	}

	counts, err := countKmers(ctx, opt, paths, &st)
	if err != nil {
		return st, err
	}
	st.Distinct = len(counts)

	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	for km, n := range counts {
		if opt.MinCount > 1 && int(n) < opt.MinCount {
			continue
		}
		if err := wb.Set(countKey(km), encodeCount(n)); err != nil {
			return st, fmt.Errorf("kmerdb: write: %w", err)
		}
		st.Solid++
	}
	if err := wb.Set(metaK, encodeCount(uint32(opt.K))); err != nil {
		return st, fmt.Errorf("kmerdb: write: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return st, fmt.Errorf("kmerdb: flush: %w", err)
	}
	d.k = opt.K
	return st, nil
}

func addCount(m map[string]uint32, km string, n uint32) {
	if c := m[km]; c > math.MaxUint32-n {
		m[km] = math.MaxUint32
	} else {
		m[km] = c + n
	}
}

// countKmers reads records on one goroutine and counts them on opt.Workers,
// each into its own table; the tables are summed at the end.
func countKmers(ctx context.Context, opt BuildOptions, paths []string, st *BuildStats) (map[string]uint32, error) {
	workers := max(opt.Workers, 1)
	recs := make(chan string, workers*4)
	tables := make([]map[string]uint32, workers)
	scanned := make([]int, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(recs)
		for _, p := range paths {
			err := fasta.EachFile(gctx, p, func(r fasta.Record) error {
				if err := gctx.Err(); err != nil {
					return err
				}
				st.Reads++
				select {
				case recs <- r.Seq:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	for w := range workers {
		tables[w] = make(map[string]uint32, 1<<12)
		g.Go(func() error {
			t := tables[w]
			for seq := range recs {
				for i := 0; i+opt.K <= len(seq); i++ {
					km := seq[i : i+opt.K]
					if !isACGT(km) {
						continue
					}
					scanned[w]++
					addCount(t, dna.Canonical(km), 1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := tables[0]
	for w := 1; w < workers; w++ {
		for km, n := range tables[w] {
			addCount(counts, km, n)
		}
		tables[w] = nil
	}
	for _, n := range scanned {
		st.Kmers += n
	}
	return counts, nil
}

// Each calls fn for every stored k-mer and its count, in key order.
func (d *DB) Each(ctx context.Context, fn func(kmer string, count int) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(countPrefix); it.ValidForPrefix(countPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			km := string(item.Key()[len(countPrefix):])
			var n int
			if err := item.Value(func(v []byte) error {
				n = int(binary.BigEndian.Uint32(v))
				return nil
			}); err != nil {
				return err
			}
			if err := fn(km, n); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteSolidFASTA writes every stored k-mer as a FASTA record, giving the
// read collection the graph index is built over. With bothStrands the
// reverse complement follows as a "_rc" record unless the k-mer is its own.
// It returns the number of stored k-mers written.
func (d *DB) WriteSolidFASTA(ctx context.Context, w io.Writer, bothStrands bool) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	err := d.Each(ctx, func(km string, count int) error {
		n++
		if _, err := fmt.Fprintf(bw, ">k%d_%d\n%s\n", n, count, km); err != nil {
			return err
		}
		if rc := dna.RevComp(km); bothStrands && rc != km {
			_, err := fmt.Fprintf(bw, ">k%d_%d_rc\n%s\n", n, count, rc)
			return err
		}
		return nil
	})
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}
