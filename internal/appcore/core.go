// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"clrgen/internal/clr"
	"clrgen/internal/engine"
	"clrgen/internal/index"
	"clrgen/internal/jsonutil"
	"clrgen/internal/kmerdb"
	"clrgen/internal/metrics"
	"clrgen/internal/output"
	"clrgen/internal/pipeline"
	"clrgen/internal/rawreads"
	"clrgen/internal/runutil"
	"clrgen/internal/seeds"
	"clrgen/internal/writers"
	"clrgen/pkg/api"
)

type Options struct {
	Layout  runutil.Layout
	ReadIDs []string // empty: read Layout.Seeds
	Params  engine.Params
	Threads int

	// RequireKmerDB fails the run when Layout.KmerDB does not exist.
	// Otherwise branch support falls back to index counts.
	RequireKmerDB bool

	Output   string
	Out      string
	Stats    string
	Summary  string
	Metrics  string
	Progress bool
}

// resources are the shared read-only inputs of a run.
type resources struct {
	ids     []string
	idx     index.Index
	db      *kmerdb.DB
	raw     rawreads.Store
	merger  *seeds.Merger
	counter engine.Counter
}

func (r *resources) close() error { return r.db.Close() }

func openResources(ctx context.Context, log logrus.FieldLogger, o Options) (*resources, error) {
	r := &resources{}
	var err error

	r.ids = o.ReadIDs
	if len(r.ids) == 0 {
		if r.ids, err = seeds.LoadIDs(o.Layout.Seeds); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	sx, err := index.FromFASTA(ctx, o.Layout.Index...)
	if err != nil {
		return nil, err
	}
	r.idx = index.NewLocked(sx)
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).
		Infof("indexed %s short reads", humanize.Comma(int64(sx.Len())))

	if o.Layout.LongReads != "" {
		store, err := rawreads.LoadFASTA(ctx, o.Layout.LongReads)
		if err != nil {
			return nil, err
		}
		log.Infof("loaded %s long reads", humanize.Comma(int64(store.Len())))
		r.raw = store
	} else {
		r.raw = rawreads.DirStore{Dir: o.Layout.Raw}
	}
	r.merger = seeds.NewMerger(o.Layout.Alignments, o.Params.SeedsOverlap)

	if _, statErr := os.Stat(o.Layout.KmerDB); statErr != nil && !o.RequireKmerDB {
		log.Warnf("no k-mer database at %s; branch support uses index counts", o.Layout.KmerDB)
		return r, nil
	}
	r.db, err = kmerdb.Open(kmerdb.Config{Path: o.Layout.KmerDB, ReadOnly: true, Logger: log})
	if err != nil {
		return nil, err
	}
	switch k := r.db.K(); {
	case k == 0:
		_ = r.db.Close()
		return nil, fmt.Errorf("k-mer database %s is empty: %w", o.Layout.KmerDB, kmerdb.ErrNoK)
	case k != o.Params.MaxOrder:
		log.Warnf("k-mer database order %d differs from --max-order %d", k, o.Params.MaxOrder)
	}
	r.counter = r.db
	return r, nil
}

// Run corrects every read and returns the process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, log logrus.FieldLogger, o Options) int {
	started := time.Now()
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	res, err := openResources(ctx, log, o)
	if err != nil {
		log.Error(err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 2
	}
	defer func() {
		if err := res.close(); err != nil {
			log.WithError(err).Warn("close k-mer database")
		}
	}()

	out, closeOut, err := openOutput(o.Out, stdout)
	if err != nil {
		log.Error(err)
		return 3
	}
	sink, err := writers.NewSink(out, o.Output)
	if err != nil {
		_ = closeOut()
		log.Error(err)
		return 2
	}

	thr := runutil.EffectiveThreads(o.Threads)
	m := metrics.New()

	var (
		statsCh   chan<- api.ReadStatsV1
		statsErr  <-chan error
		closeStat = nopClose
	)
	if o.Stats != "" {
		w, c, err := openOutput(o.Stats, io.Discard)
		if err != nil {
			_ = closeOut()
			log.Error(err)
			return 3
		}
		closeStat = c
		statsCh, statsErr = writers.StartStatsWriter(w, thr*4)
	}

	var bar *pb.ProgressBar
	if o.Progress {
		bar = pb.Full.New(len(res.ids)).SetWriter(stderr).Start()
	}

	hooks := pipeline.Hooks{
		OnRead: func(id string, cr clr.CorrectedRead, ok bool, err error, d time.Duration) {
			m.ObserveRead(cr, ok, err, d)
			if bar != nil {
				bar.Increment()
			}
			if statsCh != nil {
				select {
				case statsCh <- output.ToAPIStats(id, cr, ok, err, d):
				case <-ctx.Done():
				}
			}
		},
	}
	log.WithField("threads", thr).Infof("correcting %s reads", humanize.Comma(int64(len(res.ids))))

	sum, perr := pipeline.Run(ctx, pipeline.Config{Threads: thr}, res.ids,
		func() pipeline.Corrector {
			return clr.New(o.Params, res.merger, res.raw, res.idx, res.counter)
		},
		sink.Write, log, hooks)

	if bar != nil {
		bar.Finish()
	}
	code := 0
	if statsCh != nil {
		close(statsCh)
		if err := <-statsErr; err != nil {
			log.WithError(err).Error("write stats")
			code = 3
		}
		if err := closeStat(); err != nil {
			log.WithError(err).Error("close stats")
			code = 3
		}
	}

	ferr := sink.Flush()
	if cerr := closeOut(); ferr == nil {
		ferr = cerr
	}
	switch {
	case writers.IsBrokenPipe(ferr), writers.IsBrokenPipe(perr):
		return 0
	case ferr != nil:
		log.WithError(ferr).Error("write output")
		return 3
	}

	elapsed := time.Since(started)
	log.WithFields(logrus.Fields{
		"corrected": humanize.Comma(int64(sum.Corrected)),
		"no_seeds":  humanize.Comma(int64(sum.NoSeeds)),
		"failed":    humanize.Comma(int64(sum.Failed)),
		"bases":     humanize.Comma(sum.SeedBases + sum.GraphBases + sum.RawBases),
		"elapsed":   elapsed.Round(time.Millisecond),
	}).Infof("processed %s reads", humanize.Comma(int64(sum.Reads)))

	if o.Metrics != "" {
		if err := m.WriteTextfile(o.Metrics); err != nil {
			log.WithError(err).Error("write metrics")
			code = 3
		}
	}
	if o.Summary != "" {
		if err := jsonutil.WriteFile(o.Summary, toAPISummary(sum, elapsed)); err != nil {
			log.WithError(err).Error("write summary")
			code = 3
		}
	}

	switch {
	case perr != nil && errors.Is(perr, context.Canceled):
		return 130
	case perr != nil:
		log.Error(perr)
		return 3
	case sum.Failed > 0:
		return 3
	}
	return code
}

func toAPISummary(s pipeline.Summary, d time.Duration) api.RunSummaryV1 {
	return api.RunSummaryV1{
		Reads:      s.Reads,
		Corrected:  s.Corrected,
		NoSeeds:    s.NoSeeds,
		Failed:     s.Failed,
		SeedBases:  s.SeedBases,
		GraphBases: s.GraphBases,
		RawBases:   s.RawBases,
		Seconds:    d.Seconds(),
	}
}
