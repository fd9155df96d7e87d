// internal/runutil/runutil.go
package runutil

import (
	"path/filepath"
	"runtime"
)

// Layout names every input of a correction run.
type Layout struct {
	Index      []string
	KmerDB     string
	Seeds      string
	Alignments string
	Raw        string // per-read record directory; empty when LongReads is set
	LongReads  string
}

// ResolveLayout fills every empty path from the work directory layout:
// <work>/solid.fa, mers.db, seeds, Alignments and RawLongReads.
func ResolveLayout(work string, l Layout) Layout {
	or := func(v, name string) string {
		if v != "" {
			return v
		}
		return filepath.Join(work, name)
	}
	if len(l.Index) == 0 {
		l.Index = []string{filepath.Join(work, "solid.fa")}
	}
	l.KmerDB = or(l.KmerDB, "mers.db")
	l.Seeds = or(l.Seeds, "seeds")
	l.Alignments = or(l.Alignments, "Alignments")
	if l.LongReads == "" {
		l.Raw = or(l.Raw, "RawLongReads")
	}
	return l
}

// EffectiveThreads maps 0 (or less) to the CPU count.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
