package output

import (
	"bytes"
	"fmt"

	"clrgen/internal/clr"
)

// AppendTSV appends one TSV row matching TSVHeader.
func AppendTSV(buf *bytes.Buffer, cr clr.CorrectedRead) {
	fmt.Fprintf(buf, "%s\t%d\t%d\t%d\t%d\t%s\n",
		cr.ID, len(cr.Seq), cr.SeedBases, cr.GraphBases, cr.RawBases, cr.Seq)
}
