// Package kmerapp runs clrgen-kmers: count the k-mers of short reads into the
// work directory's database and export the solid ones as the graph index.
package kmerapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"clrgen/internal/clibase"
	"clrgen/internal/cmdutil"
	"clrgen/internal/kmercli"
	"clrgen/internal/kmerdb"
	"clrgen/internal/runutil"
	"clrgen/internal/version"
)

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := kmercli.NewFlagSet("clrgen-kmers")
	fs.SetOutput(io.Discard)

	opts, err := kmercli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			kmercli.PrintExamples(outw)
			return cmdutil.Finish(outw, stderr, 0)
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return cmdutil.Finish(outw, stderr, 0)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return cmdutil.Finish(outw, stderr, 2)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "clrgen-kmers version %s\n", version.Version)
		return cmdutil.Finish(outw, stderr, 0)
	}

	log := cmdutil.NewLogger(stderr, opts.LogLevel, opts.Quiet)
	layout := runutil.ResolveLayout(opts.Work, runutil.Layout{KmerDB: opts.DB})
	solid := opts.Solid
	if solid == "" && !opts.NoSolid {
		solid = layout.Index[0]
	}

	db, err := kmerdb.Open(kmerdb.Config{Path: layout.KmerDB, Logger: log})
	if err != nil {
		log.Error(err)
		return 3
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("close k-mer database")
		}
	}()

	start := time.Now()
	st, err := db.Build(parent, kmerdb.BuildOptions{
		K:        opts.K,
		MinCount: opts.MinCount,
		Workers:  runutil.EffectiveThreads(opts.Threads),
	}, opts.Inputs...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		log.Error(err)
		return 3
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Infof(
		"%s reads, %s %d-mers, %s distinct, %s solid (count ≥ %d)",
		humanize.Comma(int64(st.Reads)), humanize.Comma(int64(st.Kmers)), opts.K,
		humanize.Comma(int64(st.Distinct)), humanize.Comma(int64(st.Solid)), opts.MinCount)

	if solid == "" {
		return 0
	}
	n, err := writeSolid(parent, db, solid, !opts.OneStrand)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		log.Error(err)
		return 3
	}
	log.Infof("wrote %s solid k-mers to %s", humanize.Comma(int64(n)), solid)
	return 0
}

func writeSolid(ctx context.Context, db *kmerdb.DB, path string, bothStrands bool) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := db.WriteSolidFASTA(ctx, f, bothStrands)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
