// internal/output/json.go
package output

import (
	"bytes"
	"encoding/json"
	"time"

	"clrgen/internal/clr"
	"clrgen/pkg/api"
)

// ToAPI converts a corrected read to the stable wire schema (v1).
func ToAPI(cr clr.CorrectedRead) api.CorrectedReadV1 {
	return api.CorrectedReadV1{
		ID:         cr.ID,
		Seq:        cr.Seq,
		SeedBases:  cr.SeedBases,
		GraphBases: cr.GraphBases,
		RawBases:   cr.RawBases,
		Length:     len(cr.Seq),
	}
}

// AppendJSONL appends cr as one JSON line.
func AppendJSONL(buf *bytes.Buffer, cr clr.CorrectedRead) error {
	return json.NewEncoder(buf).Encode(ToAPI(cr))
}

// ToAPIStats converts the outcome of one read to the statistics schema (v1).
func ToAPIStats(id string, cr clr.CorrectedRead, ok bool, err error, d time.Duration) api.ReadStatsV1 {
	v := api.ReadStatsV1{ID: id, Corrected: ok && err == nil, Seconds: d.Seconds()}
	if err != nil {
		v.Error = err.Error()
		return v
	}
	if !ok {
		return v
	}
	v.Length = len(cr.Seq)
	v.SeedBases = cr.SeedBases
	v.GraphBases = cr.GraphBases
	v.RawBases = cr.RawBases
	v.ForwardLinks = cr.Stats.ForwardLinks
	v.RevCompLinks = cr.Stats.RevCompLinks
	v.FailedLinks = cr.Stats.FailedLinks
	v.SkippedSeeds = cr.Stats.SkippedSeeds
	v.RawFallbacks = cr.Stats.RawFallbacks
	return v
}
