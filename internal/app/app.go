// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"clrgen/internal/appcore"
	"clrgen/internal/cli"
	"clrgen/internal/clibase"
	"clrgen/internal/cmdutil"
	"clrgen/internal/runutil"
	"clrgen/internal/version"
)

// RunContext is the clrgen entry point; it returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet("clrgen")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(outw)
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
		_, _ = fmt.Fprintf(outw, "clrgen version %s\n", version.Version)
		return cmdutil.Finish(outw, stderr, 0)
	}

	log := cmdutil.NewLogger(stderr, opts.LogLevel, opts.Quiet)
	layout := runutil.ResolveLayout(opts.Work, runutil.Layout{
		Index:      opts.Index,
		KmerDB:     opts.KmerDB,
		Seeds:      opts.Seeds,
		Alignments: opts.Alignments,
		Raw:        opts.Raw,
		LongReads:  opts.LongReads,
	})
	return appcore.Run(parent, stdout, stderr, log, appcore.Options{
		Layout:        layout,
		ReadIDs:       opts.ReadIDs,
		Params:        opts.Params,
		Threads:       opts.Threads,
		RequireKmerDB: opts.KmerDB != "",
		Output:        opts.Output,
		Out:           opts.Out,
		Stats:         opts.Stats,
		Summary:       opts.Summary,
		Metrics:       opts.Metrics,
		Progress:      opts.Progress,
	})
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
