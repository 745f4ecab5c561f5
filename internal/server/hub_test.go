package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"thawlab/internal/grid"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	s := New("", log)

	srv := httptest.NewServer(http.HandlerFunc(s.serveWs))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) Msg {
	t.Helper()
	var msg Msg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHubPing(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(Msg{Type: "ping"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "pong" {
		t.Errorf("got %q, want pong", msg.Type)
	}
}

func TestHubUnknownType(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(Msg{Type: "reticulate"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "error" {
		t.Errorf("got %q, want error", msg.Type)
	}
}

func TestHubStartStreamsGrid(t *testing.T) {
	conn := dialTestServer(t)

	content := json.RawMessage(`{"samples": 3, "steps": 100}`)
	if err := conn.WriteJSON(Msg{Type: "start", Preset: "quick", Content: content}); err != nil {
		t.Fatal(err)
	}

	if msg := readMsg(t, conn); msg.Type != "started" {
		t.Fatalf("got %q, want started", msg.Type)
	}

	var progress []Progress
	for {
		msg := readMsg(t, conn)
		if msg.Type == "progress" {
			var p Progress
			if err := json.Unmarshal(msg.Content, &p); err != nil {
				t.Fatalf("bad progress payload: %v", err)
			}
			progress = append(progress, p)
			continue
		}
		if msg.Type != "result" {
			t.Fatalf("got %q, want progress or result", msg.Type)
		}

		var result grid.Result
		if err := json.Unmarshal(msg.Content, &result); err != nil {
			t.Fatalf("bad result payload: %v", err)
		}
		if len(result.Times) != 3 || len(result.Times[0]) != 3 {
			t.Errorf("result grid is %dx%d, want 3x3", len(result.Times), len(result.Times[0]))
		}
		break
	}

	if len(progress) != 3 {
		t.Fatalf("got %d progress messages, want 3", len(progress))
	}
	for i, p := range progress {
		if p.Row != i+1 || p.Rows != 3 {
			t.Errorf("progress[%d] = %+v", i, p)
		}
	}
}

func TestHubStartErrors(t *testing.T) {
	tests := []struct {
		name string
		msg  Msg
	}{
		{"unknown preset", Msg{Type: "start", Preset: "plutonium"}},
		{"bad config json", Msg{Type: "start", Content: json.RawMessage(`{"samples": "many"}`)}},
		{"bad integrator", Msg{Type: "start", Content: json.RawMessage(`{"integrator": "rk45"}`)}},
		{"invalid grid", Msg{Type: "start", Content: json.RawMessage(`{"steps": 1}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialTestServer(t)
			if err := conn.WriteJSON(tt.msg); err != nil {
				t.Fatal(err)
			}
			msg := readMsg(t, conn)
			if msg.Type != "error" {
				t.Fatalf("got %q, want error", msg.Type)
			}
			var payload struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(msg.Content, &payload); err != nil || payload.Error == "" {
				t.Errorf("error payload %s", msg.Content)
			}
		})
	}
}
