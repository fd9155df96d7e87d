// Package rawreads retrieves the uncorrected sequence of a long read.
package rawreads

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clrgen/internal/fasta"
)

// ErrNotFound is returned when a store has no read with the requested ID.
var ErrNotFound = errors.New("raw read not found")

// Store returns raw long reads by ID.
type Store interface {
	RawRead(id string) (string, error)
}

// DirStore reads "<dir>/<id>" files holding a header line followed by the
// sequence on the second line.
type DirStore struct {
	Dir string
}

// RawRead implements Store.
func (s DirStore) RawRead(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("raw read: invalid id %q", id)
	}
	f, err := os.Open(filepath.Join(s.Dir, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("raw read %s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("raw read %s: %w", id, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 256*1024*1024)
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("raw read %s: %w", id, err)
			}
			return "", fmt.Errorf("raw read %s: missing sequence line", id)
		}
	}
	return strings.ToUpper(strings.TrimSpace(sc.Text())), nil
}

// FASTAStore holds every record of a long-read FASTA file in memory.
type FASTAStore struct {
	reads map[string]string
}

// LoadFASTA reads all records of path into a FASTAStore. Records are keyed by
// the first word of their header.
func LoadFASTA(ctx context.Context, path string) (*FASTAStore, error) {
	s := &FASTAStore{reads: make(map[string]string)}
	err := fasta.EachFile(ctx, path, func(r fasta.Record) error {
		if _, dup := s.reads[r.ID]; dup {
			return fmt.Errorf("duplicate read id %q", r.ID)
		}
		s.reads[r.ID] = r.Seq
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("raw reads: %w", err)
	}
	return s, nil
}

// Len reports the number of reads held.
func (s *FASTAStore) Len() int { return len(s.reads) }

// RawRead implements Store.
func (s *FASTAStore) RawRead(id string) (string, error) {
	seq, ok := s.reads[id]
	if !ok {
		return "", fmt.Errorf("raw read %s: %w", id, ErrNotFound)
	}
	return seq, nil
}
