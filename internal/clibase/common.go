// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Common holds CLI fields shared by clrgen and clrgen-kmers.
type Common struct {
	Work     string
	Threads  int
	LogLevel string
	Quiet    bool
	Version  bool
}

// sliceValue appends each value to a *[]string (for --index)
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}
func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// SliceVar registers a repeatable string flag appending to dst.
func SliceVar(fs *flag.FlagSet, dst *[]string, name, usage string) {
	fs.Var(&sliceValue{dst: dst}, name, usage)
}

// Register wires shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.StringVar(&c.Work, "work", ".", "work directory [.]")
	fs.StringVar(&c.Work, "w", ".", "alias of --work")

	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0=all CPUs) [0]")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")

	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: debug | info | warn | error [info]")
	fs.BoolVar(&c.Quiet, "quiet", false, "only log errors [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")
}

// Validate applies shared CLI invariants used by all tools.
func Validate(c *Common) error {
	if c.Work == "" {
		return errors.New("--work must not be empty")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q", c.LogLevel)
	}
	return nil
}
