package kicado

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// eventChanCapacity bounds how far the shim can run ahead of the consumer
// before the reader blocks on the channel. Events are never dropped.
const eventChanCapacity = 4096

// startReader launches the background reader for the shim's output stream.
// It returns the receive side of a single-producer/single-consumer channel;
// the session's wait loop is the only consumer.
//
// The reader strips line terminators, stamps each line with the elapsed time
// since it started, and replaces invalid UTF-8 sequences instead of aborting
// (KiCad 5 emits broken encodings). It terminates only when the stream
// closes, at which point the channel is closed without any sentinel event;
// callers observe application exit through the process handle instead.
func startReader(out io.Reader) <-chan Event {
	events := make(chan Event, eventChanCapacity)
	start := time.Now()

	go func() {
		defer close(events)
		scanner := bufio.NewScanner(out)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.ToValidUTF8(scanner.Text(), "�")
			events <- Event{Elapsed: time.Since(start), Line: line}
		}
		// Read errors are indistinguishable from EOF here: the stream is
		// gone either way and liveness is checked elsewhere.
	}()

	return events
}
