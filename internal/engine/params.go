package engine

import (
	"errors"
	"fmt"
)

// Params is the search configuration. It is built once before any worker
// starts and copied by value afterwards.
type Params struct {
	MaxOrder      int // k-mer order searches start from
	MinOrder      int // order below which a search gives up
	SeedsOverlap  int // minimum overlap to fuse two seeds
	MaxBranches   int // branch points explored per link attempt
	MaxSeedsSkips int // consecutive seeds that may be skipped before raw fallback
	Mismatches    int // tolerated differences when matching the target anchor
}

// DefaultParams returns the settings used when nothing is configured.
func DefaultParams() Params {
	return Params{
		MaxOrder:      100,
		MinOrder:      40,
		SeedsOverlap:  99,
		MaxBranches:   1500,
		MaxSeedsSkips: 5,
		Mismatches:    3,
	}
}

// Validate reports the first inconsistent setting.
func (p Params) Validate() error {
	switch {
	case p.MinOrder < 1:
		return errors.New("minimum order must be >= 1")
	case p.MaxOrder <= p.MinOrder:
		return fmt.Errorf("maximum order (%d) must be greater than minimum order (%d)", p.MaxOrder, p.MinOrder)
	case p.SeedsOverlap < 1:
		return errors.New("seeds overlap must be >= 1")
	case p.MaxBranches < 0:
		return errors.New("maximum branches must be >= 0")
	case p.MaxSeedsSkips < 0:
		return errors.New("maximum seed skips must be >= 0")
	case p.Mismatches < 0:
		return errors.New("mismatches must be >= 0")
	}
	return nil
}
