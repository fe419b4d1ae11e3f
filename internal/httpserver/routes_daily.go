// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - GET  /daily/leaderboard → fastest completions for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same layout on the same day: the generator is seeded from
// HMAC(salt, date). Each player can finish once per day (DB unique key).
// Play itself goes through the regular /game/{id} routes; daily sessions refuse reset.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/words"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	mu       sync.Mutex        // guards sessions
	sessions map[string]string // userID|date → game ID
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// forget drops key if it still points at gameID.
func (d *dailyServer) forget(key, gameID string) {
	d.mu.Lock()
	if d.sessions[key] == gameID {
		delete(d.sessions, key)
	}
	d.mu.Unlock()
}

// newRes is returned by /daily/new.
type newRes struct {
	GameID string         `json:"gameId"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses today's session for the caller.
//   - Already finished today (DB row) → Played=true, no game.
//   - Otherwise reuse the in-memory session or generate the seeded puzzle.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	o := d.srv.ownerOf(w, r)
	uid := o.key()
	now := d.now().UTC()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, newRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()

	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			d.srv.games.touch(id, d.srv.now())
			snap := sess.Snapshot()
			writeJSON(w, http.StatusOK, newRes{GameID: id, Date: date, Game: &snap})
			return
		}
		delete(d.sessions, key)
	}

	sess, err := game.New(words.Default(), game.Options{
		Size:        d.srv.cfg.GridSize,
		MaxAttempts: d.srv.cfg.MaxAttempts,
		Seed:        daily.Seed(now, d.salt),
	})
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily puzzle")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	size, total := sess.Size(), sess.TotalCount()
	e := &entry{sess: sess, owner: o, dailyKey: key, dailyDate: date}
	err = d.srv.track(r.Context(), e, func(ev game.Event) {
		if err := d.store.InsertResult(context.Background(), daily.Result{
			UserID: uid, Date: date, Size: size, Words: total, ElapsedMs: ev.ElapsedMs,
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("daily result")
		}
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	d.sessions[key] = sess.ID

	snap := sess.Snapshot()
	writeJSON(w, http.StatusCreated, newRes{GameID: sess.ID, Date: date, Game: &snap})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
