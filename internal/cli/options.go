// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"

	"clrgen/internal/clibase"
	"clrgen/internal/cliutil"
	"clrgen/internal/config"
	"clrgen/internal/engine"
	"clrgen/internal/output"
)

// Options holds all clrgen flags and arguments.
type Options struct {
	clibase.Common

	// Inputs; empty paths default to the work directory layout.
	Index      []string
	KmerDB     string
	Seeds      string
	Alignments string
	Raw        string
	LongReads  string
	ReadIDs    []string // positional; overrides the seeds list

	Params engine.Params

	// Output
	Output   string
	Out      string
	Stats    string
	Summary  string
	Metrics  string
	Progress bool

	Config string
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "seed-stitching long-read correction", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] [read-id ...]\n", name)

		_, _ = fmt.Fprintln(out, "\nInput (defaults follow the work directory):")
		_, _ = fmt.Fprintln(out, "      --index file            Short-read / solid k-mer FASTA (repeatable) [<work>/solid.fa]")
		_, _ = fmt.Fprintln(out, "      --kmer-db dir           K-mer occurrence database [<work>/mers.db]")
		_, _ = fmt.Fprintln(out, "      --seeds file            Read ID list, one per line [<work>/seeds]")
		_, _ = fmt.Fprintln(out, "      --alignments dir        Per-read seed files [<work>/Alignments]")
		_, _ = fmt.Fprintln(out, "      --raw dir               Per-read raw long-read records [<work>/RawLongReads]")
		_, _ = fmt.Fprintln(out, "      --long-reads file       Long-read FASTA (instead of --raw)")
		_, _ = fmt.Fprintln(out, "      --config file           YAML run file; explicit flags win")

		_, _ = fmt.Fprintln(out, "\nCorrection:")
		_, _ = fmt.Fprintf(out, "      --max-order int         Starting k-mer order [%s]\n", def("max-order"))
		_, _ = fmt.Fprintf(out, "      --min-order int         Order at which searches give up [%s]\n", def("min-order"))
		_, _ = fmt.Fprintln(out, "      --seeds-overlap int     Overlap needed to fuse seeds [max-order - 1]")
		_, _ = fmt.Fprintf(out, "      --max-branches int      Branch points per link attempt [%s]\n", def("max-branches"))
		_, _ = fmt.Fprintf(out, "      --max-seeds-skips int   Seeds skipped before raw fallback [%s]\n", def("max-seeds-skips"))
		_, _ = fmt.Fprintf(out, "  -m, --mismatches int        Differences tolerated at the target [%s]\n", def("mismatches"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintf(out, "  -o, --output string         fasta | jsonl | tsv [%s]\n", def("output"))
		_, _ = fmt.Fprintln(out, "      --out file              Write records to file instead of stdout")
		_, _ = fmt.Fprintln(out, "      --stats file            Per-read JSONL statistics")
		_, _ = fmt.Fprintln(out, "      --summary file          Run summary JSON")
		_, _ = fmt.Fprintln(out, "      --metrics file          Prometheus textfile")
		_, _ = fmt.Fprintf(out, "      --progress              Progress bar on stderr [%s]\n", def("progress"))
	})
	return fs
}

// PrintExamples prints a short quickstart for clrgen.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "clrgen", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Build the k-mer database and solid k-mers, then correct:")
		_, _ = fmt.Fprintln(w, "  clrgen-kmers -w run -k 100 --min-count 2 short_1.fq.gz short_2.fq.gz")
		_, _ = fmt.Fprintln(w, "  clrgen -w run -t 8 --out run/corrected.fa")
		_, _ = fmt.Fprintln(w, "\nCorrect two reads only, as JSONL:")
		_, _ = fmt.Fprintln(w, "  clrgen -w run -o jsonl read_17 read_42")
	})
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool
	o.Params = engine.DefaultParams()

	clibase.Register(fs, &o.Common)

	clibase.SliceVar(fs, &o.Index, "index", "short-read / solid k-mer FASTA (repeatable)")
	fs.StringVar(&o.KmerDB, "kmer-db", "", "k-mer occurrence database")
	fs.StringVar(&o.Seeds, "seeds", "", "read ID list")
	fs.StringVar(&o.Alignments, "alignments", "", "per-read seed file directory")
	fs.StringVar(&o.Raw, "raw", "", "per-read raw long-read directory")
	fs.StringVar(&o.LongReads, "long-reads", "", "long-read FASTA")
	fs.StringVar(&o.Config, "config", "", "YAML run file")

	fs.IntVar(&o.Params.MaxOrder, "max-order", o.Params.MaxOrder, "starting k-mer order")
	fs.IntVar(&o.Params.MinOrder, "min-order", o.Params.MinOrder, "minimum k-mer order")
	fs.IntVar(&o.Params.SeedsOverlap, "seeds-overlap", o.Params.SeedsOverlap, "seed fusion overlap")
	fs.IntVar(&o.Params.MaxBranches, "max-branches", o.Params.MaxBranches, "branch points per link attempt")
	fs.IntVar(&o.Params.MaxSeedsSkips, "max-seeds-skips", o.Params.MaxSeedsSkips, "seed skips before raw fallback")
	fs.IntVar(&o.Params.Mismatches, "mismatches", o.Params.Mismatches, "tolerated target differences")
	fs.IntVar(&o.Params.Mismatches, "m", o.Params.Mismatches, "alias of --mismatches")

	fs.StringVar(&o.Output, "output", output.FormatFASTA, "output format")
	fs.StringVar(&o.Output, "o", output.FormatFASTA, "alias of --output")
	fs.StringVar(&o.Out, "out", "", "record output file")
	fs.StringVar(&o.Stats, "stats", "", "per-read JSONL statistics file")
	fs.StringVar(&o.Summary, "summary", "", "run summary JSON file")
	fs.StringVar(&o.Metrics, "metrics", "", "Prometheus textfile")
	fs.BoolVar(&o.Progress, "progress", false, "progress bar on stderr")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}

	if o.Config != "" {
		f, err := config.Load(o.Config)
		if err != nil {
			return o, err
		}
		if err := config.Apply(fs, f); err != nil {
			return o, err
		}
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["seeds-overlap"] {
		o.Params.SeedsOverlap = o.Params.MaxOrder - 1
	}
	o.ReadIDs = posArgs

	return o, validate(&o)
}

func validate(o *Options) error {
	if err := clibase.Validate(&o.Common); err != nil {
		return err
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Raw != "" && o.LongReads != "" {
		return errors.New("--raw conflicts with --long-reads")
	}
	if !slices.Contains(output.Formats, o.Output) {
		return fmt.Errorf("invalid --output %q", o.Output)
	}
	return nil
}
