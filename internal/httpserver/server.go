// internal/httpserver/server.go
//
// HTTP server wiring for the word-search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/new, /game/{id}, selection, reset.
//   - Live events over websocket: /game/{id}/events.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//   - Game history persistence driven by session events.
//   - Session ownership and eviction (see sessions.go).
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Optional auth decorates requests with the caller's identity when a valid token
//     is present; routes still run for guests, who get an anonymous cookie id.
//   - The websocket route sits outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

const anonCookieName = "wordsearch_anon"

// Server bundles router, in-memory session store and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	db       *sql.DB
	users    *auth.Users
	authn    auth.Middleware
	hub      *hub
	upgrader websocket.Upgrader
	daily    *dailyServer
	games    *registry
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	users := auth.NewUsers(db)
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		db:    db,
		users: users,
		authn: auth.Middleware{
			Signer:  auth.Signer{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL},
			Cookies: auth.Cookies{Name: cfg.CookieName, Secure: cfg.Production},
			Users:   users,
		},
		hub:   newHub(),
		games: newRegistry(),
		now:   time.Now,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	// Live events: long-lived, no JSON content type, no timeout.
	s.r.With(s.authn.Optional).Get("/game/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"wordsearch-go","endpoints":["/health","POST /game/new","POST /game/{id}/select","GET /game/{id}/events","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"default": words.Default(), "sessions": s.store.Len()})
		})

		// Game endpoints: OPTIONAL AUTH (guests can play)
		r.With(s.authn.Optional).Route("/game", s.mountGame)

		// Daily puzzle: OPTIONAL AUTH (guests can play; result persisted on completion)
		s.mountDaily(r.With(s.authn.Optional))

		// Auth + profile/stats
		s.mountAuthRoutes(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	return s
}

// Start begins serving HTTP on addr and evicting stale sessions.
func (s *Server) Start(addr string) error {
	go s.sweepEvery(sweepInterval)
	return http.ListenAndServe(addr, s.r)
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin accepts same-origin, non-browser and configured-client upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.ClientOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
}

// ------------------------------- helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// owner identifies who a game belongs to: a user or an anonymous cookie.
type owner struct {
	userID string
	anonID string
}

// ownerOf resolves the caller, issuing an anonymous cookie for guests.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := auth.FromContext(r.Context()); me != nil {
		return owner{userID: me.ID}
	}
	return owner{anonID: s.ensureAnonID(w, r)}
}

// key is the stable identifier used for daily results.
func (o owner) key() string {
	if o.userID != "" {
		return o.userID
	}
	return o.anonID
}

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest games with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := auth.GenID()
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ------------------------------ tracking ------------------------------------

// track registers a session: owner, history row, live fan-out and stats on completion.
// onCompleted, if set, runs after the built-in completion bookkeeping.
func (s *Server) track(ctx context.Context, e *entry, onCompleted func(game.Event)) error {
	sess, o := e.sess, e.owner
	if err := s.store.Save(ctx, sess); err != nil {
		return err
	}
	e.touched = s.now()
	s.games.add(e)
	s.recordStart(sess, o, false)

	sess.Subscribe(func(ev game.Event) {
		if msg, err := json.Marshal(ev); err == nil {
			s.hub.broadcast(sess.ID, msg)
		}
		switch ev.Kind {
		case game.EventWordFound:
			s.exec(`UPDATE games SET found=? WHERE id=?`, ev.Found, sess.ID)
		case game.EventCompleted:
			s.recordCompleted(sess.ID, o, ev)
			if onCompleted != nil {
				onCompleted(ev)
			}
		case game.EventReset:
			s.recordStart(sess, o, true)
		}
	})
	return nil
}

// recordStart writes (or rewrites on reset) the history row and bumps puzzles_played.
func (s *Server) recordStart(sess *game.Session, o owner, reset bool) {
	now := time.Now().UTC().Format(time.RFC3339)
	if reset {
		s.exec(`UPDATE games SET found=0, status=?, started_at=?, finished_at=NULL, elapsed_ms=NULL WHERE id=?`,
			string(game.StatePlaying), now, sess.ID)
	} else {
		var uid, anon any
		if o.userID != "" {
			uid = o.userID
		} else {
			anon = o.anonID
		}
		s.exec(`INSERT INTO games (id, user_id, anonymous_id, size, total, status, started_at) VALUES (?,?,?,?,?,?,?)`,
			sess.ID, uid, anon, sess.Size(), sess.TotalCount(), string(game.StatePlaying), now)
	}
	if o.userID != "" {
		if err := s.users.RecordStarted(context.Background(), o.userID); err != nil {
			log.Warn().Err(err).Str("user", o.userID).Msg("record start")
		}
	}
}

// recordCompleted closes the history row and updates the owner's stats.
func (s *Server) recordCompleted(gameID string, o owner, ev game.Event) {
	s.exec(`UPDATE games SET found=?, status=?, finished_at=?, elapsed_ms=? WHERE id=?`,
		ev.Found, string(game.StateCompleted), s.now().UTC().Format(time.RFC3339), ev.ElapsedMs, gameID)
	if o.userID == "" {
		return
	}
	if err := s.users.RecordCompleted(context.Background(), o.userID, ev.ElapsedMs); err != nil {
		log.Warn().Err(err).Str("user", o.userID).Msg("record completion")
	}
}

// exec runs a best-effort history write; failures are logged, not surfaced.
func (s *Server) exec(query string, args ...any) {
	if _, err := s.db.Exec(query, args...); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("history write failed")
	}
}
