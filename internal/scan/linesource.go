package scan

import (
	"bufio"
	"io"
	"time"
)

// Stream reads newline-delimited payloads from a line device (a serial
// or TCP barcode scanner that emits one payload per line) and hands
// each one to emit as an Event tagged with the given symbology. Blank
// lines are skipped. Stream returns when the reader is exhausted or
// fails; closing the underlying reader is the caller's way to stop it.
func Stream(r io.Reader, symbology string, emit func(Event)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}
		emit(Event{Symbology: symbology, Text: text, At: time.Now()})
	}
	return scanner.Err()
}
