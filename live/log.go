// ABOUTME: In-memory per-message event log fed by the pipeline-progress WebSocket.
// ABOUTME: History is bounded drop-oldest; the authoritative record is always re-fetchable over REST.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventTypePipelineProgress is the only message type this log recognizes.
// Everything else on the socket is ignored.
const EventTypePipelineProgress = "pipeline_progress"

// DefaultMaxHistory bounds the retained entries per inbox message. The socket
// is a display aid, not a delivery channel, so dropping old entries is fine.
const DefaultMaxHistory = 100

// ProgressEvent is the wire shape of a server-pushed pipeline event.
type ProgressEvent struct {
	Type           string         `json:"type"`
	InboxMessageID string         `json:"inbox_message_id"`
	Stage          string         `json:"stage"`
	Status         string         `json:"status"`
	Data           map[string]any `json:"data,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Entry is one recorded progress step for an inbox message.
type Entry struct {
	ID        string // locally assigned, ULID
	Stage     string
	Status    string
	Data      map[string]any
	Timestamp time.Time
}

// Log accumulates progress entries per inbox message id. Safe for concurrent
// use: the socket read loop appends while the UI reads.
type Log struct {
	mu        sync.RWMutex
	histories map[string][]Entry
	max       int
}

// NewLog creates a Log keeping at most max entries per message id.
// A max of <= 0 uses DefaultMaxHistory.
func NewLog(max int) *Log {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	return &Log{
		histories: make(map[string][]Entry),
		max:       max,
	}
}

// Apply parses a raw socket message and records it if it is a recognized
// progress event. It returns the appended entry, the message id it was filed
// under, and whether anything was recorded. Malformed payloads and unrelated
// event types are dropped without signal.
func (l *Log) Apply(raw []byte) (Entry, string, bool) {
	var evt ProgressEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return Entry{}, "", false
	}
	if evt.Type != EventTypePipelineProgress || evt.InboxMessageID == "" {
		return Entry{}, "", false
	}

	entry := Entry{
		ID:        ulid.Make().String(),
		Stage:     evt.Stage,
		Status:    evt.Status,
		Data:      evt.Data,
		Timestamp: evt.Timestamp,
	}

	l.mu.Lock()
	history := l.histories[evt.InboxMessageID]
	if len(history) >= l.max {
		history = history[1:]
	}
	l.histories[evt.InboxMessageID] = append(history, entry)
	l.mu.Unlock()

	return entry, evt.InboxMessageID, true
}

// History returns a copy of the recorded entries for a message id, oldest first.
func (l *Log) History(inboxMessageID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := l.histories[inboxMessageID]
	out := make([]Entry, len(history))
	copy(out, history)
	return out
}

// Len returns the number of message ids with recorded history.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.histories)
}
