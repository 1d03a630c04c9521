package gen

import (
	"context"
	"fmt"
	"io"
)

// streamReadSize is the chunk size for reads off the response body.
const streamReadSize = 32 * 1024

// StreamChunk is a piece of a streaming response.
type StreamChunk struct {
	// Content is the text fragment in this chunk.
	Content string `json:"content,omitempty"`

	// Done indicates this is the final chunk.
	Done bool `json:"done"`

	// Err is non-nil if streaming failed.
	Err error `json:"-"`
}

// Stream issues a streaming generate call. Fragments are delivered over
// the returned channel in arrival order; the channel is closed when the
// stream terminates (check chunk.Done), and errors during streaming are
// returned via chunk.Err.
//
// Cancel the context to stop consuming early: the underlying response body
// is released on every exit path, including consumer cancellation.
func (c *Client) Stream(ctx context.Context, req GenerateRequest) (<-chan StreamChunk, error) {
	if err := req.Validate(); err != nil {
		return nil, NewError("stream", err, false)
	}

	// No per-call deadline here: a stream lives as long as generation
	// does. The transport bounds connection and first byte with the
	// configured timeout; after that, context cancellation governs.
	resp, err := c.post(ctx, req.wire(true, nil))
	if err != nil {
		return nil, NewError("stream", err, false)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody+1))
		resp.Body.Close()
		return nil, NewError("stream", checkStatus(resp.StatusCode, body), retryableStatus(resp.StatusCode))
	}

	ch := make(chan StreamChunk)
	go c.readStream(ctx, resp.Body, ch)
	return ch, nil
}

// readStream drives the decoder off the response body and forwards
// fragments to the channel. Owns the body: it is closed on every return.
func (c *Client) readStream(ctx context.Context, body io.ReadCloser, ch chan<- StreamChunk) {
	defer close(ch)
	defer body.Close()

	dec := NewStreamDecoder(WithDecoderDropHandler(func(line string) {
		c.log.Debug("dropped unparseable stream line", "line", line)
		if c.onDrop != nil {
			c.onDrop(line)
		}
	}))

	buf := make([]byte, streamReadSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if !c.send(ctx, ch, dec.Feed(buf[:n])) {
				return
			}
			if dec.Terminated() {
				c.sendDone(ctx, ch, dec)
				return
			}
		}
		if err == io.EOF {
			if !c.send(ctx, ch, dec.Finish()) {
				return
			}
			c.sendDone(ctx, ch, dec)
			return
		}
		if err != nil {
			// Context cancellation closes the body under us; report the
			// cancellation rather than the transport's read error.
			if ctx.Err() != nil {
				err = ctx.Err()
			} else {
				err = fmt.Errorf("read stream: %w", err)
			}
			select {
			case ch <- StreamChunk{Err: NewError("stream", err, false)}:
			case <-ctx.Done():
			}
			return
		}
	}
}

// send forwards fragments, honoring cancellation on each. Returns false
// when the consumer is gone.
func (c *Client) send(ctx context.Context, ch chan<- StreamChunk, fragments []string) bool {
	for _, fragment := range fragments {
		select {
		case ch <- StreamChunk{Content: fragment}:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// sendDone emits the terminal chunk and logs drop accounting.
func (c *Client) sendDone(ctx context.Context, ch chan<- StreamChunk, dec *StreamDecoder) {
	if n := dec.Dropped(); n > 0 {
		c.log.Debug("stream completed with dropped lines", "dropped", n)
	}
	select {
	case ch <- StreamChunk{Done: true}:
	case <-ctx.Done():
	}
}
