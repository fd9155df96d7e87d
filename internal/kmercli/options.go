// Package kmercli parses the clrgen-kmers command line.
package kmercli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"clrgen/internal/clibase"
	"clrgen/internal/cliutil"
)

type Options struct {
	clibase.Common

	DB        string // default <work>/mers.db
	K         int
	MinCount  int
	Solid     string // default <work>/solid.fa
	NoSolid   bool
	OneStrand bool // solid FASTA without reverse complements
	Inputs    []string
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "k-mer database and solid k-mer builder", func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] reads.fa[.gz|.zst|.xz] ...\n", name)

		_, _ = fmt.Fprintln(out, "\nK-mers:")
		_, _ = fmt.Fprintf(out, "  -k int                      K-mer length (match clrgen --max-order) [%s]\n", def("k"))
		_, _ = fmt.Fprintf(out, "      --min-count int         Drop k-mers seen fewer times [%s]\n", def("min-count"))
		_, _ = fmt.Fprintln(out, "      --db dir                Database directory [<work>/mers.db]")
		_, _ = fmt.Fprintln(out, "      --solid file            Solid k-mer FASTA [<work>/solid.fa]")
		_, _ = fmt.Fprintf(out, "      --no-solid              Skip the solid k-mer FASTA [%s]\n", def("no-solid"))
		_, _ = fmt.Fprintf(out, "      --one-strand            Omit reverse complements from the solid FASTA [%s]\n", def("one-strand"))
	})
	return fs
}

// PrintExamples prints a short quickstart for clrgen-kmers.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "clrgen-kmers", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Count 100-mers of paired short reads into run/mers.db and run/solid.fa:")
		_, _ = fmt.Fprintln(w, "  clrgen-kmers -w run -k 100 --min-count 2 'short_*.fq.gz'")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool

	clibase.Register(fs, &o.Common)
	fs.StringVar(&o.DB, "db", "", "database directory")
	fs.IntVar(&o.K, "k", 100, "k-mer length")
	fs.IntVar(&o.MinCount, "min-count", 2, "minimum k-mer count")
	fs.StringVar(&o.Solid, "solid", "", "solid k-mer FASTA")
	fs.BoolVar(&o.NoSolid, "no-solid", false, "skip the solid k-mer FASTA")
	fs.BoolVar(&o.OneStrand, "one-strand", false, "omit reverse complements from the solid FASTA")

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

	if err := clibase.Validate(&o.Common); err != nil {
		return o, err
	}
	if len(posArgs) == 0 {
		return o, errors.New("at least one short-read file is required")
	}
	inputs, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return o, err
	}
	o.Inputs = inputs
	if o.K < 2 {
		return o, errors.New("-k must be ≥ 2")
	}
	if o.MinCount < 1 {
		return o, errors.New("--min-count must be ≥ 1")
	}
	if o.NoSolid && o.Solid != "" {
		return o, errors.New("--solid conflicts with --no-solid")
	}
	return o, nil
}
