// internal/httpserver/sessions.go
//
// Registry of the live sessions this server handed out.
// Responsibilities:
//   - Remember who owns each game so only the owner can play or reset it.
//   - Track last activity per game.
//   - Evict finished, idle and past-date daily sessions from the session store.
//
// Eviction runs once a minute after Start; sweep can also be called directly.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
)

const (
	sweepInterval = time.Minute
	idleTTL       = 2 * time.Hour    // untouched sessions
	completedTTL  = 10 * time.Minute // finished sessions stay readable this long
)

// entry is the server-side bookkeeping for one session.
type entry struct {
	sess      *game.Session
	owner     owner
	dailyKey  string // userID|date, daily games only
	dailyDate string
	touched   time.Time
}

type registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

func (g *registry) add(e *entry) {
	g.mu.Lock()
	g.entries[e.sess.ID] = e
	g.mu.Unlock()
}

// get returns a copy of the entry for id.
func (g *registry) get(id string) (entry, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[id]
	if !ok {
		return entry{}, false
	}
	return *e, true
}

func (g *registry) touch(id string, now time.Time) {
	g.mu.Lock()
	if e, ok := g.entries[id]; ok {
		e.touched = now
	}
	g.mu.Unlock()
}

// expired removes and returns the entries that should no longer be served.
func (g *registry) expired(now time.Time) []*entry {
	today := daily.DateKey(now)
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []*entry
	for id, e := range g.entries {
		idle := now.Sub(e.touched)
		stale := idle > idleTTL ||
			(idle > completedTTL && e.sess.State() == game.StateCompleted) ||
			(e.dailyDate != "" && e.dailyDate != today)
		if stale {
			delete(g.entries, id)
			out = append(out, e)
		}
	}
	return out
}

// sweep evicts expired sessions and returns how many were dropped.
func (s *Server) sweep(now time.Time) int {
	gone := s.games.expired(now)
	for _, e := range gone {
		_ = s.store.Delete(context.Background(), e.sess.ID)
		if e.dailyKey != "" {
			s.daily.forget(e.dailyKey, e.sess.ID)
		}
	}
	if len(gone) > 0 {
		log.Debug().Int("evicted", len(gone)).Int("live", s.store.Len()).Msg("sessions swept")
	}
	return len(gone)
}

func (s *Server) sweepEvery(d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()
	for now := range t.C {
		s.sweep(now)
	}
}

// owns reports whether the caller is o: same account, or same anonymous cookie.
func (s *Server) owns(r *http.Request, o owner) bool {
	if o.userID != "" {
		me := auth.FromContext(r.Context())
		return me != nil && me.ID == o.userID
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && o.anonID != "" && c.Value == o.anonID
}
