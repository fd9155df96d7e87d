package seeds

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Merger loads the seed alignment file of a long read and merges it.
type Merger struct {
	Dir     string // directory holding one alignment file per read ID
	Overlap int    // minimum overlap for two seeds to be fused
}

// NewMerger returns a Merger over dir.
func NewMerger(dir string, overlap int) *Merger {
	return &Merger{Dir: dir, Overlap: overlap}
}

// ProcessSeeds returns the merged seeds of read id, ordered by position. A read
// without an alignment file has no seeds.
func (m *Merger) ProcessSeeds(id string) ([]Seed, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("seeds: invalid read id %q", id)
	}
	f, err := os.Open(filepath.Join(m.Dir, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seeds: %w", err)
	}
	defer f.Close()
	raw, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("seeds: %s: %w", id, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	for _, s := range raw[1:] {
		if s.TotalLen != raw[0].TotalLen {
			return nil, fmt.Errorf("seeds: %s: inconsistent read lengths %d and %d", id, raw[0].TotalLen, s.TotalLen)
		}
	}
	return Merge(raw, m.Overlap), nil
}

// LoadIDs reads a list of read IDs, one per line, skipping blank lines.
func LoadIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	defer f.Close()
	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ids: %w", err)
	}
	return ids, nil
}
