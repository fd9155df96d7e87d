// internal/appcore/outputs.go
package appcore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// nopClose is the closer for stdout.
func nopClose() error { return nil }

// openOutput returns stdout when path is empty or "-", otherwise a created
// file (parent directories included).
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, nopClose, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
