// ABOUTME: Integration test for the WebSocket listener against an httptest gorilla server.
// ABOUTME: Verifies event delivery into the log and the callback, plus clean shutdown on Close.
package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestListenerRecordsPushedEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	send := make(chan string, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ws/") {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	defer close(send)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/test-token"

	var mu sync.Mutex
	var delivered []string
	onEvent := func(id string, entry Entry) {
		mu.Lock()
		delivered = append(delivered, id+"/"+entry.Stage)
		mu.Unlock()
	}

	log := NewLog(0)
	listener, err := Dial(context.Background(), wsURL, log, onEvent)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer listener.Close()

	send <- `{"type":"pipeline_progress","inbox_message_id":"msg-1","stage":"classify","status":"completed"}`
	send <- `{"type":"noise","inbox_message_id":"msg-1"}`
	send <- `{"type":"pipeline_progress","inbox_message_id":"msg-1","stage":"parse","status":"running"}`

	deadline := time.After(2 * time.Second)
	for {
		if len(log.History("msg-1")) == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out; history has %d entries", len(log.History("msg-1")))
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 2 {
		t.Fatalf("expected 2 callback deliveries, got %d: %v", len(delivered), delivered)
	}
	if delivered[0] != "msg-1/classify" || delivered[1] != "msg-1/parse" {
		t.Errorf("unexpected delivery order: %v", delivered)
	}
}

func TestListenerDoneClosesAfterClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Hold the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tok"
	listener, err := Dial(context.Background(), wsURL, NewLog(0), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	listener.Close()

	select {
	case <-listener.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit after Close")
	}
}
