// internal/writers/registry.go
package writers

import (
	"bytes"
	"fmt"
	"sort"

	"clrgen/internal/clr"
	"clrgen/internal/output"
)

// Encoder appends one serialized record to buf.
type Encoder func(buf *bytes.Buffer, cr clr.CorrectedRead) error

// Encoders maps format → record encoder.
var Encoders = map[string]Encoder{}

// headers holds the optional first line per format.
var headers = map[string]string{}

// Register adds (or replaces) a format. header may be empty.
func Register(format string, enc Encoder, header string) {
	Encoders[format] = enc
	if header != "" {
		headers[format] = header
	} else {
		delete(headers, format)
	}
}

// Lookup returns the encoder and header line registered for format.
func Lookup(format string) (Encoder, string, error) {
	enc, ok := Encoders[format]
	if !ok {
		return nil, "", fmt.Errorf("unknown output format %q (have %v)", format, Known())
	}
	return enc, headers[format], nil
}

// Known lists registered formats, sorted.
func Known() []string {
	out := make([]string, 0, len(Encoders))
	for f := range Encoders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(output.FormatFASTA, func(b *bytes.Buffer, cr clr.CorrectedRead) error {
		output.AppendFASTA(b, cr)
		return nil
	}, "")
	Register(output.FormatJSONL, output.AppendJSONL, "")
	Register(output.FormatTSV, func(b *bytes.Buffer, cr clr.CorrectedRead) error {
		output.AppendTSV(b, cr)
		return nil
	}, output.TSVHeader)
}
