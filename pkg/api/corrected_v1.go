// pkg/api/corrected_v1.go
package api

// CorrectedReadV1 is the stable JSON/JSONL schema for one corrected long read.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type CorrectedReadV1 struct {
	ID         string `json:"id"`
	Seq        string `json:"seq"`
	SeedBases  int    `json:"seed_bases"`
	GraphBases int    `json:"graph_bases"`
	RawBases   int    `json:"raw_bases"`
	Length     int    `json:"length"`
}

// ReadStatsV1 is the stable schema for the per-read statistics stream.
type ReadStatsV1 struct {
	ID           string  `json:"id"`
	Corrected    bool    `json:"corrected"`
	Error        string  `json:"error,omitempty"`
	Length       int     `json:"length,omitempty"`
	SeedBases    int     `json:"seed_bases,omitempty"`
	GraphBases   int     `json:"graph_bases,omitempty"`
	RawBases     int     `json:"raw_bases,omitempty"`
	ForwardLinks int     `json:"forward_links,omitempty"`
	RevCompLinks int     `json:"revcomp_links,omitempty"`
	FailedLinks  int     `json:"failed_links,omitempty"`
	SkippedSeeds int     `json:"skipped_seeds,omitempty"`
	RawFallbacks int     `json:"raw_fallbacks,omitempty"`
	Seconds      float64 `json:"seconds"`
}

// RunSummaryV1 is the stable schema of the end-of-run summary file.
type RunSummaryV1 struct {
	Reads      int     `json:"reads"`
	Corrected  int     `json:"corrected"`
	NoSeeds    int     `json:"no_seeds"`
	Failed     int     `json:"failed"`
	SeedBases  int64   `json:"seed_bases"`
	GraphBases int64   `json:"graph_bases"`
	RawBases   int64   `json:"raw_bases"`
	Seconds    float64 `json:"seconds"`
}
