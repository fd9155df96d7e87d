// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"clrgen/internal/clr"
)

// Corrector is the minimal capability the pipeline needs. Implementations need
// not be safe for concurrent use; every worker gets its own.
type Corrector interface {
	Correct(id string) (clr.CorrectedRead, bool, error)
}

// Config controls the correction pipeline.
type Config struct {
	Threads int // number of shards and worker goroutines (>=1)
}

// Hooks observe progress. They are called from worker goroutines and must be
// safe for concurrent use. Nil hooks are skipped.
type Hooks struct {
	// OnRead runs after every read, whatever its outcome.
	OnRead func(id string, cr clr.CorrectedRead, ok bool, err error, d time.Duration)
}

// Summary totals a run.
type Summary struct {
	Reads      int
	Corrected  int
	NoSeeds    int
	Failed     int
	SeedBases  int64
	GraphBases int64
	RawBases   int64
}

func (s *Summary) add(o Summary) {
	s.Reads += o.Reads
	s.Corrected += o.Corrected
	s.NoSeeds += o.NoSeeds
	s.Failed += o.Failed
	s.SeedBases += o.SeedBases
	s.GraphBases += o.GraphBases
	s.RawBases += o.RawBases
}

// Shard deals ids round-robin into n shards.
func Shard(ids []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	shards := make([][]string, n)
	for i, id := range ids {
		shards[i%n] = append(shards[i%n], id)
	}
	return shards
}

// Run corrects every read in ids and passes each corrected read to emit.
//
// A read whose correction fails is logged, counted in Summary.Failed and
// skipped; the other reads carry on. An emit error or context cancellation
// stops all workers and is returned together with the partial summary.
func Run(
	ctx context.Context,
	cfg Config,
	ids []string,
	newCorrector func() Corrector,
	emit func(clr.CorrectedRead) error,
	log logrus.FieldLogger,
	hooks Hooks,
) (Summary, error) {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	shards := Shard(ids, cfg.Threads)
	sums := make([]Summary, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for w := range shards {
		g.Go(func() error {
			c := newCorrector()
			sum := &sums[w]
			for _, id := range shards[w] {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				cr, ok, err := c.Correct(id)
				d := time.Since(start)
				if hooks.OnRead != nil {
					hooks.OnRead(id, cr, ok, err, d)
				}
				sum.Reads++
				switch {
				case err != nil:
					sum.Failed++
					log.WithError(err).WithField("read", id).Error("correction failed")
					continue
				case !ok:
					sum.NoSeeds++
					log.WithField("read", id).Debug("no seeds")
					continue
				}
				sum.Corrected++
				sum.SeedBases += int64(cr.SeedBases)
				sum.GraphBases += int64(cr.GraphBases)
				sum.RawBases += int64(cr.RawBases)
				if err := emit(cr); err != nil {
					return fmt.Errorf("write %s: %w", id, err)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	var total Summary
	for _, s := range sums {
		total.add(s)
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return total, err
}
