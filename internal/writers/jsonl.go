// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"clrgen/internal/jsonlutil"
	"clrgen/pkg/api"
)

// StartStatsWriter streams per-read statistics as JSON lines (v1).
func StartStatsWriter(out io.Writer, bufSize int) (chan<- api.ReadStatsV1, <-chan error) {
	return jsonlutil.Start[api.ReadStatsV1](out, jsonlutil.Options{BufSize: bufSize, FlushEvery: 256},
		func(enc *json.Encoder, s api.ReadStatsV1) error {
			return enc.Encode(s)
		},
		IsBrokenPipe,
	)
}
