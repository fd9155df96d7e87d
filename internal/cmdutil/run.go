// internal/cmdutil/run.go
package cmdutil

import (
	"bufio"
	"fmt"
	"io"

	"clrgen/internal/writers"
)

// Finish flushes w and returns code. A broken pipe is a clean exit;
// any other flush error is reported on stderr and turns into exit 3.
func Finish(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}
