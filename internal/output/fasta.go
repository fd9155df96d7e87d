package output

import (
	"bytes"
	"strconv"

	"clrgen/internal/clr"
)

// AppendFASTA appends the two-line record ">id_seed_graph_raw\nseq\n".
func AppendFASTA(buf *bytes.Buffer, cr clr.CorrectedRead) {
	buf.WriteByte('>')
	buf.WriteString(cr.ID)
	for _, n := range [...]int{cr.SeedBases, cr.GraphBases, cr.RawBases} {
		buf.WriteByte('_')
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte('\n')
	buf.WriteString(cr.Seq)
	buf.WriteByte('\n')
}
