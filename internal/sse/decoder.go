package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// DoneMarker ends a stream.
const DoneMarker = "[DONE]"

// Chunk is the JSON payload of one data line.
type Chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error string `json:"error,omitempty"`
}

// Event is one decoded data line. Exactly one of Delta or Err is meaningful.
type Event struct {
	Delta string
	Err   string
}

// Decoder turns arbitrarily split byte chunks into events.
//
// A complete data line whose JSON does not parse is held back and joined with the next
// line, so a payload broken by a stray newline still decodes. If the joined text fails too
// the held line is dropped and counted, and the next line is decoded on its own.
type Decoder struct {
	buf     []byte
	pending string
	done    bool
	dropped int
}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) Done() bool   { return d.done }
func (d *Decoder) Dropped() int { return d.dropped }

// Feed consumes chunk and returns the events completed by it.
func (d *Decoder) Feed(chunk []byte) []Event {
	if d.done {
		return nil
	}
	var out []Event

	d.buf = append(d.buf, chunk...)
	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		if ev, ok := d.joinPending(line); ok {
			out = append(out, ev)
			continue
		}
		ev, ok, retry := d.line(line)
		if retry {
			d.pending = line
			continue
		}
		if ok {
			out = append(out, ev)
		}
	}
	if d.done {
		d.buf = nil
	}
	return out
}

// Flush handles a final line left without a trailing newline when the body ends.
func (d *Decoder) Flush() []Event {
	if d.done {
		return nil
	}
	rest := strings.TrimSpace(string(d.buf))
	d.buf = nil
	if rest == "" {
		if d.pending != "" {
			d.pending = ""
			d.dropped++
		}
		return nil
	}
	if ev, ok := d.joinPending(rest); ok {
		return []Event{ev}
	}
	ev, ok, retry := d.line(rest)
	if retry {
		d.dropped++
	} else if ok {
		return []Event{ev}
	}
	return nil
}

// joinPending parses the held line followed by next. It reports whether the pair decoded;
// otherwise the held line is dropped and next is left for normal decoding.
func (d *Decoder) joinPending(next string) (Event, bool) {
	if d.pending == "" {
		return Event{}, false
	}
	held := d.pending
	d.pending = ""

	joined := held + next
	if data, isData := strings.CutPrefix(next, "data:"); isData {
		// consecutive data lines of one event join with a newline
		joined = held + "\n" + strings.TrimSpace(data)
	}
	if ev, ok := parse(joined); ok {
		return ev, true
	}
	d.dropped++
	return Event{}, false
}

func (d *Decoder) line(line string) (ev Event, ok bool, retry bool) {
	data, isData := strings.CutPrefix(line, "data:")
	if !isData {
		// comments, event names and blank separators
		return Event{}, false, false
	}
	data = strings.TrimSpace(data)
	if data == DoneMarker {
		d.done = true
		return Event{}, false, false
	}
	if data == "" {
		return Event{}, false, false
	}
	ev, ok = parse(data)
	if !ok {
		return Event{}, false, true
	}
	return ev, true, false
}

func parse(data string) (Event, bool) {
	data = strings.TrimSpace(strings.TrimPrefix(data, "data:"))
	var c Chunk
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return Event{}, false
	}
	if c.Error != "" {
		return Event{Err: c.Error}, true
	}
	if len(c.Choices) == 0 {
		return Event{}, true
	}
	return Event{Delta: c.Choices[0].Delta.Content}, true
}

// StreamError is an error reported inside the stream by the server.
type StreamError struct{ Message string }

func (e *StreamError) Error() string { return "stream: " + e.Message }

var ErrTruncated = errors.New("stream ended without done marker")

// Read decodes r until the done marker, calling onDelta for every non-empty delta.
// It returns ErrTruncated if the body ends first and a *StreamError if the server reports one.
func Read(ctx context.Context, r io.Reader, onDelta func(string)) error {
	dec := NewDecoder()
	buf := make([]byte, 4096)
	emit := func(evs []Event) error {
		for _, ev := range evs {
			if ev.Err != "" {
				return &StreamError{Message: ev.Err}
			}
			if ev.Delta != "" && onDelta != nil {
				onDelta(ev.Delta)
			}
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if e := emit(dec.Feed(buf[:n])); e != nil {
				return e
			}
			if dec.Done() {
				return nil
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			if e := emit(dec.Flush()); e != nil {
				return e
			}
			if dec.Done() {
				return nil
			}
			return ErrTruncated
		}
	}
}
