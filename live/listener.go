// ABOUTME: WebSocket listener for server-pushed pipeline_progress events.
// ABOUTME: Fire-and-forget: no reconnect, no backoff; socket and parse errors are swallowed.
package live

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// EventFunc is called for each recorded progress entry. It runs on the read
// loop goroutine; implementations should hand off quickly (the TUI bridge
// sends into the Bubble Tea message loop).
type EventFunc func(inboxMessageID string, entry Entry)

// Listener holds one WebSocket connection for the session and appends
// recognized events to a Log. Message loss or duplication is tolerated;
// records are always re-fetchable through the query layer.
type Listener struct {
	conn    *websocket.Conn
	log     *Log
	onEvent EventFunc
	done    chan struct{}
}

// Dial opens the WebSocket connection and starts the read loop.
// The url comes from client.Client.WebSocketURL (token embedded in the path).
func Dial(ctx context.Context, url string, eventLog *Log, onEvent EventFunc) (*Listener, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	l := &Listener{
		conn:    conn,
		log:     eventLog,
		onEvent: onEvent,
		done:    make(chan struct{}),
	}
	go l.readLoop()
	return l, nil
}

// Log returns the listener's event log.
func (l *Listener) Log() *Log {
	return l.log
}

// Done is closed when the read loop exits (connection closed or failed).
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Close shuts the connection; the read loop exits on the next read.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// readLoop reads messages until the connection dies. Errors terminate the
// loop silently; there is no user-visible signal and no reconnect.
func (l *Listener) readLoop() {
	defer close(l.done)
	for {
		_, raw, err := l.conn.ReadMessage()
		if err != nil {
			return
		}
		entry, id, ok := l.log.Apply(raw)
		if !ok {
			continue
		}
		if l.onEvent != nil {
			l.onEvent(id, entry)
		}
	}
}
