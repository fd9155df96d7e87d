// Package jsonlutil runs a single goroutine that encodes values as JSON
// lines, so producers on many goroutines only pay for a channel send.
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// 64 KiB buffered writers are shared across streams.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Options tunes a stream.
type Options struct {
	BufSize    int // channel capacity; <=0 means 64
	FlushEvery int // flush after this many records; <=0 flushes only at the end
}

// Start spins up a JSONL encoder goroutine for values of type T.
//   - encode: fn to encode one value (convert to wire type & enc.Encode)
//   - isBroken: recognizer for broken/closed pipe errors to suppress them
//
// Close the returned channel when done, then receive from the error channel.
// After an encode error the goroutine keeps draining the input so senders
// never block.
func Start[T any](out io.Writer, opt Options, encode func(*json.Encoder, T) error, isBroken func(error) bool) (chan<- T, <-chan error) {
	if opt.BufSize <= 0 {
		opt.BufSize = 64
	}
	in := make(chan T, opt.BufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		n := 0
		for v := range in {
			if err != nil {
				continue
			}
			if err = encode(enc, v); err != nil {
				continue
			}
			n++
			if opt.FlushEvery > 0 && n%opt.FlushEvery == 0 {
				err = bw.Flush()
			}
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && isBroken(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
