package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA entry. Seq is upper-cased with line breaks removed.
type Record struct {
	ID  string
	Seq string
}

// Each parses FASTA from r and calls emit once per record. It returns
// promptly with ctx.Err() when ctx is done.
func Each(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id    string
		have  bool
		seq   = make([]byte, 0, 1<<16)
		lines int
	)
	flush := func() error {
		if !have {
			return nil
		}
		return emit(Record{ID: id, Seq: string(seq)})
	}

	for sc.Scan() {
		lines++
		if lines&1023 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = parseHeaderID(line[1:])
			have = true
			seq = seq[:0]
			continue
		}
		if !have {
			return fmt.Errorf("fasta: sequence data before first header at line %d", lines)
		}
		seq = append(seq, bytes.ToUpper(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// EachFile opens path (see Open) and parses it with Each.
func EachFile(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := Each(ctx, rc, emit); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Stream is the channel form of EachFile. The error channel yields exactly
// one value once the record channel is closed.
func Stream(ctx context.Context, path string) (<-chan Record, <-chan error) {
	out := make(chan Record, 4)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		errc <- EachFile(ctx, path, func(r Record) error {
			select {
			case out <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, errc
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
