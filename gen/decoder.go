package gen

import (
	"bytes"
	"encoding/json"
)

// State identifies where a StreamDecoder is in its lifecycle.
type State int

// Decoder states. A decoder starts in StateAwaiting, moves to
// StateStreaming on the first bytes, passes through StateDraining when the
// byte stream ends with buffered residue, and finishes in StateTerminated.
const (
	StateAwaiting State = iota
	StateStreaming
	StateDraining
	StateTerminated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// streamLine is one decoded NDJSON line from the wire.
type streamLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// StreamDecoder reassembles an arbitrary byte stream into text fragments.
//
// Each complete newline-terminated line is parsed as JSON; a non-empty
// response field yields a fragment, a true done field terminates the
// stream. Lines that fail to parse are dropped, not fatal: the server
// emits one full JSON object per line, so a malformed line is chunk
// boundary noise rather than genuine corruption. Drops are counted and
// optionally reported through a handler so callers can tell noise from
// corruption.
//
// A decoder is owned by exactly one in-flight streaming call and is not
// safe for concurrent use.
type StreamDecoder struct {
	buf     []byte
	state   State
	dropped int
	onDrop  func(line string)
}

// DecoderOption configures a StreamDecoder.
type DecoderOption func(*StreamDecoder)

// WithDecoderDropHandler installs a callback invoked with each dropped line.
func WithDecoderDropHandler(fn func(line string)) DecoderOption {
	return func(d *StreamDecoder) { d.onDrop = fn }
}

// NewStreamDecoder creates a decoder in StateAwaiting.
func NewStreamDecoder(opts ...DecoderOption) *StreamDecoder {
	d := &StreamDecoder{state: StateAwaiting}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the decoder's current state.
func (d *StreamDecoder) State() State {
	return d.state
}

// Terminated reports whether the stream has ended.
func (d *StreamDecoder) Terminated() bool {
	return d.state == StateTerminated
}

// Dropped returns the number of lines discarded as unparseable.
func (d *StreamDecoder) Dropped() int {
	return d.dropped
}

// Feed appends a chunk of bytes and returns the fragments completed by it,
// in arrival order. After the done sentinel the decoder is terminated and
// further chunks are ignored.
func (d *StreamDecoder) Feed(p []byte) []string {
	if d.state == StateTerminated {
		return nil
	}
	if d.state == StateAwaiting {
		d.state = StateStreaming
	}

	d.buf = append(d.buf, p...)

	var fragments []string
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return fragments
		}
		line := bytes.TrimSpace(d.buf[:i])
		d.buf = d.buf[i+1:]
		if len(line) == 0 {
			continue
		}

		fragment, done := d.decodeLine(line)
		if fragment != "" {
			fragments = append(fragments, fragment)
		}
		if done {
			d.state = StateTerminated
			d.buf = nil
			return fragments
		}
	}
}

// Finish handles the end of the byte stream: one lenient parse attempt of
// any trimmed residue, then termination. Safe to call after the done
// sentinel, in which case it returns nil.
func (d *StreamDecoder) Finish() []string {
	if d.state == StateTerminated {
		return nil
	}

	var fragments []string
	if residue := bytes.TrimSpace(d.buf); len(residue) > 0 {
		d.state = StateDraining
		if fragment, _ := d.decodeLine(residue); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	d.state = StateTerminated
	d.buf = nil
	return fragments
}

// decodeLine parses one trimmed, non-empty line. Parse failures are
// dropped per the leniency policy.
func (d *StreamDecoder) decodeLine(line []byte) (fragment string, done bool) {
	var sl streamLine
	if err := json.Unmarshal(line, &sl); err != nil {
		d.dropped++
		if d.onDrop != nil {
			d.onDrop(string(line))
		}
		return "", false
	}
	return sl.Response, sl.Done
}
