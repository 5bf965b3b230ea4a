package stream

import (
	"errors"
	"fmt"
	"io"
)

const readBufferSize = 32 * 1024

// Consume reads r until EOF, handing every frame to handle in wire order.
// handle returns false to stop reading early. The final partial line is
// flushed only when the stream ends normally.
func Consume(r io.Reader, handle func(Frame) bool) error {
	dec := NewDecoder()
	buf := make([]byte, readBufferSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, frame := range dec.Feed(buf[:n]) {
				if !handle(frame) {
					return nil
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
	}

	for _, frame := range dec.Flush() {
		if !handle(frame) {
			return nil
		}
	}
	return nil
}
