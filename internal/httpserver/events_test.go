package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/robalobadob/wordsearch/internal/game"
)

func TestHubBroadcastByGame(t *testing.T) {
	h := newHub()
	a := h.register("a")
	b := h.register("b")

	h.broadcast("a", []byte("hello"))
	select {
	case msg := <-a.ch:
		if string(msg) != "hello" {
			t.Fatalf("got %q", msg)
		}
	default:
		t.Fatal("client a got nothing")
	}
	select {
	case msg := <-b.ch:
		t.Fatalf("client b got %q", msg)
	default:
	}

	if h.clientCount("a") != 1 {
		t.Fatalf("clientCount = %d", h.clientCount("a"))
	}
	h.unregister(a)
	h.unregister(a) // second call is a no-op
	if h.clientCount("a") != 0 {
		t.Fatal("client a still registered")
	}
	if _, ok := <-a.ch; ok {
		t.Fatal("channel should be closed")
	}
}

func TestHubSkipsSlowClient(t *testing.T) {
	h := newHub()
	c := h.register("g")
	for i := 0; i < wsSendBuffer+5; i++ {
		h.broadcast("g", []byte("x")) // must never block
	}
	if len(c.ch) != wsSendBuffer {
		t.Fatalf("buffered %d, want %d", len(c.ch), wsSendBuffer)
	}
}

type frame struct {
	Type      string         `json:"type"`
	Found     int            `json:"found"`
	Total     int            `json:"total"`
	Clock     string         `json:"clock"`
	Game      *game.Snapshot `json:"game"`
	ElapsedMs int64          `json:"elapsedMs"`
}

// readUntil reads frames until one of type kind arrives.
func readUntil(t *testing.T, conn *websocket.Conn, kind string) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", kind, err)
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("bad frame %s: %v", data, err)
		}
		if f.Type == kind {
			return f
		}
	}
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	_, sess, _ := newGame(t, s)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/"+sess.ID+"/events"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := readUntil(t, conn, "snapshot")
	if hello.Game == nil || hello.Game.ID != sess.ID {
		t.Fatalf("unexpected snapshot frame %+v", hello)
	}

	tick := readUntil(t, conn, "tick")
	if len(tick.Clock) != 5 {
		t.Fatalf("tick clock = %q", tick.Clock)
	}

	placements := sess.Placements()
	sess.Select(placements[0].Cells)
	if f := readUntil(t, conn, "found"); f.Found != 1 || f.Total != 2 {
		t.Fatalf("found frame = %+v", f)
	}

	sess.Select(placements[1].Cells)
	if f := readUntil(t, conn, "completed"); f.Found != 2 {
		t.Fatalf("completed frame = %+v", f)
	}

	sess.Reset()
	if f := readUntil(t, conn, "reset"); f.Found != 0 {
		t.Fatalf("reset frame = %+v", f)
	}
}

func TestEventsUnknownGame(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/game/missing/events"), nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %+v", resp)
	}
}
