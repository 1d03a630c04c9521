package gen

import (
	"reflect"
	"testing"
)

func TestStreamDecoder_HappyPath(t *testing.T) {
	dec := NewStreamDecoder()

	got := dec.Feed([]byte("{\"response\":\"Hel\"}\n{\"response\":\"lo\"}\n{\"done\":true}\n"))

	want := []string{"Hel", "lo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Feed() = %v, want %v", got, want)
	}
	if !dec.Terminated() {
		t.Error("decoder should be terminated after done sentinel")
	}
	if dec.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", dec.Dropped())
	}
}

func TestStreamDecoder_ChunkBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{
			name:   "split mid line",
			chunks: []string{"{\"respon", "se\":\"Hel\"}\n{\"response\":\"lo\"}\n", "{\"done\":true}\n"},
			want:   []string{"Hel", "lo"},
		},
		{
			name:   "split at newline",
			chunks: []string{"{\"response\":\"Hel\"}", "\n", "{\"response\":\"lo\"}\n{\"done\":true}\n"},
			want:   []string{"Hel", "lo"},
		},
		{
			name:   "done and response on one line",
			chunks: []string{"{\"response\":\"Hel\"}\n", "{\"response\":\"lo\",\"done\":true}\n"},
			want:   []string{"Hel", "lo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewStreamDecoder()
			var got []string
			for _, chunk := range tt.chunks {
				got = append(got, dec.Feed([]byte(chunk))...)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fragments = %v, want %v", got, tt.want)
			}
			if !dec.Terminated() {
				t.Error("decoder should be terminated")
			}
		})
	}
}

func TestStreamDecoder_ByteByByte(t *testing.T) {
	input := "{\"response\":\"Hel\"}\n{\"response\":\"lo\"}\n{\"done\":true}\n"

	dec := NewStreamDecoder()
	var got []string
	for i := 0; i < len(input); i++ {
		got = append(got, dec.Feed([]byte{input[i]})...)
	}

	want := []string{"Hel", "lo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fragments = %v, want %v", got, want)
	}
	if !dec.Terminated() {
		t.Error("decoder should be terminated")
	}
	if dec.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0: single-byte chunks must not produce drops", dec.Dropped())
	}
}

func TestStreamDecoder_MalformedLineDropped(t *testing.T) {
	var droppedLines []string
	dec := NewStreamDecoder(WithDecoderDropHandler(func(line string) {
		droppedLines = append(droppedLines, line)
	}))

	got := dec.Feed([]byte("{not json}\n{\"response\":\"ok\"}\n{\"done\":true}\n"))

	want := []string{"ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fragments = %v, want %v", got, want)
	}
	if dec.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", dec.Dropped())
	}
	if len(droppedLines) != 1 || droppedLines[0] != "{not json}" {
		t.Errorf("drop handler got %v, want [{not json}]", droppedLines)
	}
}

func TestStreamDecoder_TrailingResidue(t *testing.T) {
	dec := NewStreamDecoder()

	if got := dec.Feed([]byte("{\"response\":\"tail\"}")); got != nil {
		t.Errorf("Feed() = %v, want nil before newline", got)
	}

	got := dec.Finish()
	want := []string{"tail"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Finish() = %v, want %v", got, want)
	}
	if !dec.Terminated() {
		t.Error("decoder should be terminated after Finish")
	}
}

func TestStreamDecoder_MalformedResidueDropped(t *testing.T) {
	dec := NewStreamDecoder()
	dec.Feed([]byte("{\"response\":\"ok\"}\n{trunca"))

	if got := dec.Finish(); got != nil {
		t.Errorf("Finish() = %v, want nil for malformed residue", got)
	}
	if dec.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", dec.Dropped())
	}
	if !dec.Terminated() {
		t.Error("decoder should be terminated")
	}
}

func TestStreamDecoder_SkipsEmptyLines(t *testing.T) {
	dec := NewStreamDecoder()

	got := dec.Feed([]byte("\n\n  \n{\"response\":\"ok\"}\n\n"))

	want := []string{"ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fragments = %v, want %v", got, want)
	}
	if dec.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0: empty lines are skipped, not dropped", dec.Dropped())
	}
}

func TestStreamDecoder_EmptyResponseField(t *testing.T) {
	dec := NewStreamDecoder()

	if got := dec.Feed([]byte("{\"response\":\"\"}\n{\"done\":true}\n")); got != nil {
		t.Errorf("fragments = %v, want nil for empty response fields", got)
	}
	if !dec.Terminated() {
		t.Error("decoder should be terminated")
	}
}

func TestStreamDecoder_States(t *testing.T) {
	dec := NewStreamDecoder()
	if dec.State() != StateAwaiting {
		t.Errorf("State() = %v, want %v before first bytes", dec.State(), StateAwaiting)
	}

	dec.Feed([]byte("{\"response\":\"a\"}\n"))
	if dec.State() != StateStreaming {
		t.Errorf("State() = %v, want %v after first bytes", dec.State(), StateStreaming)
	}

	dec.Finish()
	if dec.State() != StateTerminated {
		t.Errorf("State() = %v, want %v after Finish", dec.State(), StateTerminated)
	}
}

func TestStreamDecoder_FeedAfterTerminated(t *testing.T) {
	dec := NewStreamDecoder()
	dec.Feed([]byte("{\"done\":true}\n"))

	if got := dec.Feed([]byte("{\"response\":\"late\"}\n")); got != nil {
		t.Errorf("Feed() after termination = %v, want nil", got)
	}
	if got := dec.Finish(); got != nil {
		t.Errorf("Finish() after termination = %v, want nil", got)
	}
}

func TestStreamDecoder_IgnoresBytesAfterDone(t *testing.T) {
	dec := NewStreamDecoder()

	got := dec.Feed([]byte("{\"done\":true}\n{\"response\":\"late\"}\n"))
	if got != nil {
		t.Errorf("fragments = %v, want nil: lines after the done sentinel are ignored", got)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateAwaiting, "awaiting"},
		{StateStreaming, "streaming"},
		{StateDraining, "draining"},
		{StateTerminated, "terminated"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
