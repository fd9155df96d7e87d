// Package config loads the optional YAML run file. Keys are the long flag
// names, so a file and a command line describe a run the same way.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File mirrors the clrgen flags. Nil fields were absent from the file.
type File struct {
	Work       *string  `yaml:"work"`
	Index      []string `yaml:"index"`
	KmerDB     *string  `yaml:"kmer-db"`
	Seeds      *string  `yaml:"seeds"`
	Alignments *string  `yaml:"alignments"`
	Raw        *string  `yaml:"raw"`
	LongReads  *string  `yaml:"long-reads"`

	MaxOrder      *int `yaml:"max-order"`
	MinOrder      *int `yaml:"min-order"`
	SeedsOverlap  *int `yaml:"seeds-overlap"`
	MaxBranches   *int `yaml:"max-branches"`
	MaxSeedsSkips *int `yaml:"max-seeds-skips"`
	Mismatches    *int `yaml:"mismatches"`
	Threads       *int `yaml:"threads"`

	Output   *string `yaml:"output"`
	Out      *string `yaml:"out"`
	Stats    *string `yaml:"stats"`
	Summary  *string `yaml:"summary"`
	Metrics  *string `yaml:"metrics"`
	Progress *bool   `yaml:"progress"`
	LogLevel *string `yaml:"log-level"`
	Quiet    *bool   `yaml:"quiet"`
}

// Load reads and strictly decodes a YAML run file. Unknown keys are errors.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Decode is Load over an open reader. An empty document yields an empty File.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &f, nil
}

// Setting is one flag assignment taken from a file.
type Setting struct {
	Name  string
	Value string
}

// Settings lists the assignments present in f, in flag order.
func (f *File) Settings() []Setting {
	var out []Setting
	str := func(name string, v *string) {
		if v != nil {
			out = append(out, Setting{name, *v})
		}
	}
	num := func(name string, v *int) {
		if v != nil {
			out = append(out, Setting{name, strconv.Itoa(*v)})
		}
	}
	boolean := func(name string, v *bool) {
		if v != nil {
			out = append(out, Setting{name, strconv.FormatBool(*v)})
		}
	}

	str("work", f.Work)
	for _, p := range f.Index {
		out = append(out, Setting{"index", p})
	}
	str("kmer-db", f.KmerDB)
	str("seeds", f.Seeds)
	str("alignments", f.Alignments)
	str("raw", f.Raw)
	str("long-reads", f.LongReads)

	num("max-order", f.MaxOrder)
	num("min-order", f.MinOrder)
	num("seeds-overlap", f.SeedsOverlap)
	num("max-branches", f.MaxBranches)
	num("max-seeds-skips", f.MaxSeedsSkips)
	num("mismatches", f.Mismatches)
	num("threads", f.Threads)

	str("output", f.Output)
	str("out", f.Out)
	str("stats", f.Stats)
	str("summary", f.Summary)
	str("metrics", f.Metrics)
	boolean("progress", f.Progress)
	str("log-level", f.LogLevel)
	boolean("quiet", f.Quiet)
	return out
}

// Apply assigns the file's settings to fs, skipping every flag that was set
// explicitly on the command line. Call it after fs.Parse.
func Apply(fs *flag.FlagSet, f *File) error {
	explicit := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })

	for _, s := range f.Settings() {
		if explicit[s.Name] {
			continue
		}
		if fs.Lookup(s.Name) == nil {
			return fmt.Errorf("config: no flag %q", s.Name)
		}
		if err := fs.Set(s.Name, s.Value); err != nil {
			return fmt.Errorf("config: %s: %w", s.Name, err)
		}
	}
	return nil
}
