package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Sink receives the events one chat turn produces. The orchestration loop is
// written against this interface so the buffered and streaming endpoints
// share a single state machine.
type Sink interface {
	Send(ev Event) error
}

// SSESink writes each event as a Server-Sent-Events data line and flushes
// immediately so proxies and the browser see tokens as they arrive.
type SSESink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSESink prepares the response for event streaming. It errors when the
// writer cannot flush incrementally.
func NewSSESink(w http.ResponseWriter) (*SSESink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSESink{w: w, flusher: flusher}, nil
}

func (s *SSESink) Send(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Collector buffers events in memory. The buffered chat endpoint runs the
// loop against a Collector and answers with the final result only.
type Collector struct {
	events []Event
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Send(ev Event) error {
	c.events = append(c.events, ev)
	return nil
}

// Events returns everything collected so far, in emission order.
func (c *Collector) Events() []Event { return c.events }
