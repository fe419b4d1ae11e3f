// internal/httpserver/events.go
//
// Live game events over websocket: GET /game/{id}/events.
//   - On connect the client receives {"type":"snapshot","game":{...}}.
//   - Session events (found / completed / reset) are relayed as they happen.
//   - While the game is playing a {"type":"tick"} frame carries the timer once a second.
//
// Slow clients are skipped rather than blocking the game.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
)

const (
	wsSendBuffer = 16
	tickInterval = time.Second
	writeWait    = 5 * time.Second
)

// wsClient is one websocket subscriber.
type wsClient struct {
	ch     chan []byte
	gameID string
}

// hub fans messages out to websocket clients grouped by game.
type hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*wsClient]struct{})}
}

func (h *hub) register(gameID string) *wsClient {
	c := &wsClient{ch: make(chan []byte, wsSendBuffer), gameID: gameID}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// unregister removes c and closes its channel.
func (h *hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.ch)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(gameID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.ch <- msg:
		default:
			// full, skip slow client
		}
	}
}

func (h *hub) clientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.gameID == gameID {
			n++
		}
	}
	return n
}

type snapshotFrame struct {
	Type string        `json:"type"`
	Game game.Snapshot `json:"game"`
}

type tickFrame struct {
	Type      string `json:"type"`
	GameID    string `json:"gameId"`
	ElapsedMs int64  `json:"elapsedMs"`
	Clock     string `json:"clock"`
}

// handleEvents upgrades to websocket and streams the game's events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Debug().Err(err).Str("gameId", id).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	c := s.hub.register(id)
	defer s.hub.unregister(c)
	log.Debug().Str("gameId", id).Int("clients", s.hub.clientCount(id)).Msg("events client connected")

	if err := writeFrame(conn, snapshotFrame{Type: "snapshot", Game: sess.Snapshot()}); err != nil {
		return
	}

	// The read pump only detects the peer going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if sess.State() != game.StatePlaying {
				continue
			}
			elapsed := sess.Elapsed()
			err := writeFrame(conn, tickFrame{
				Type:      "tick",
				GameID:    id,
				ElapsedMs: elapsed.Milliseconds(),
				Clock:     game.FormatElapsed(elapsed),
			})
			if err != nil {
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
