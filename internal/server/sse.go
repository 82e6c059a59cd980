package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// streamHistory is how many recent events are retained for
	// Last-Event-ID replay after a reconnect.
	streamHistory = 1000

	// streamKeepalive is the interval between comment lines sent to keep
	// idle connections open through proxies.
	streamKeepalive = 15 * time.Second
)

// streamEvent is one event as seen by SSE consumers: a hub sequence
// number (the SSE id), the item topic it was published on, and the
// JSON-encoded payload.
type streamEvent struct {
	Seq   uint64
	Topic string
	Data  []byte
}

// streamClient is one connected consumer. Filters are NATS-style topic
// patterns; an empty filter list receives everything.
type streamClient struct {
	filters []string
	ch      chan streamEvent
}

// wants reports whether the client's filters match topic.
func (c *streamClient) wants(topic string) bool {
	if len(c.filters) == 0 {
		return true
	}
	for _, f := range c.filters {
		if matchTopicPattern(f, topic) {
			return true
		}
	}
	return false
}

// streamHub fans item events out to connected SSE clients and keeps a
// bounded history for replay. One mutex guards clients, history, and
// the sequence counter. publish runs on the mutating request's
// goroutine and must never block on a slow consumer.
type streamHub struct {
	mu      sync.Mutex
	seq     uint64
	clients map[*streamClient]struct{}
	history []streamEvent // ordered by Seq, len <= streamHistory
}

func newStreamHub() *streamHub {
	return &streamHub{clients: make(map[*streamClient]struct{})}
}

// attach registers a consumer with the given topic filters.
func (h *streamHub) attach(filters []string) *streamClient {
	c := &streamClient{filters: filters, ch: make(chan streamEvent, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// detach removes a consumer. Events already buffered on its channel
// stay there for the consumer to drain.
func (h *streamHub) detach(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// publish assigns the event the next sequence number, appends it to the
// history, and offers it to every matching client. A client whose
// buffer is full misses the event; it can recover via Last-Event-ID
// replay on reconnect.
func (h *streamHub) publish(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	evt := streamEvent{Seq: h.seq, Topic: topic, Data: payload}
	h.history = append(h.history, evt)
	if len(h.history) > streamHistory {
		h.history = h.history[len(h.history)-streamHistory:]
	}

	for c := range h.clients {
		if !c.wants(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
			// Slow consumer; drop rather than block the request.
		}
	}
}

// replayAfter returns retained events with sequence numbers after seq,
// oldest first.
func (h *streamHub) replayAfter(seq uint64) []streamEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := len(h.history)
	for i > 0 && h.history[i-1].Seq > seq {
		i--
	}
	out := make([]streamEvent, len(h.history)-i)
	copy(out, h.history[i:])
	return out
}

// matchTopicPattern matches a dot-separated topic against a NATS-style
// pattern: "*" matches exactly one segment, ">" matches one or more
// remaining segments.
func matchTopicPattern(pattern, topic string) bool {
	pat := strings.Split(pattern, ".")
	top := strings.Split(topic, ".")
	for i, seg := range pat {
		switch {
		case seg == ">":
			return len(top) > i
		case i >= len(top):
			return false
		case seg == "*" || seg == top[i]:
			// segment matches
		default:
			return false
		}
	}
	return len(pat) == len(top)
}

// handleEventStream handles GET /v1/events/stream. Events are delivered
// as SSE frames whose event field is the item topic; the id field is
// the hub sequence number, honored on reconnect via Last-Event-ID.
func (s *TickServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	client := s.stream.attach(topicFilters(r))
	defer s.stream.detach(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx would buffer otherwise
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Replay events missed since the last connection.
	if last := r.Header.Get("Last-Event-ID"); last != "" {
		if seq, err := strconv.ParseUint(last, 10, 64); err == nil {
			for _, evt := range s.stream.replayAfter(seq) {
				if client.wants(evt.Topic) {
					writeStreamEvent(w, evt)
				}
			}
			flusher.Flush()
		}
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			writeStreamEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// topicFilters parses the comma-separated topics query parameter.
func topicFilters(r *http.Request) []string {
	q := r.URL.Query().Get("topics")
	if q == "" {
		return nil
	}
	var filters []string
	for _, t := range strings.Split(q, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filters = append(filters, t)
		}
	}
	return filters
}

func writeStreamEvent(w http.ResponseWriter, evt streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.Seq, evt.Topic, evt.Data)
}

// streamToClients mirrors a published event onto the SSE stream.
func (s *TickServer) streamToClients(topic string, event any) {
	if s.stream == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to encode event for stream", "topic", topic, "error", err)
		return
	}
	s.stream.publish(topic, payload)
}
