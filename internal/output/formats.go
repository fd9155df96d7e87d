package output

// Output formats for corrected reads.
const (
	FormatFASTA = "fasta"
	FormatJSONL = "jsonl"
	FormatTSV   = "tsv"
)

// Formats lists every supported format in help order.
var Formats = []string{FormatFASTA, FormatJSONL, FormatTSV}

// TSVHeader is the canonical header row for TSV output.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "id\tlength\tseed_bases\tgraph_bases\traw_bases\tseq"
