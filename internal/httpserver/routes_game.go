// internal/httpserver/routes_game.go
//
// HTTP routes for free-play word-search games.
//   - POST /game/new                    → generate a puzzle (custom words/size/seed optional)
//   - GET  /game/{id}                   → current snapshot
//   - POST /game/{id}/selection/begin   → start a drag at {row,col}
//   - POST /game/{id}/selection/extend  → add {row,col} to the drag
//   - POST /game/{id}/selection/end     → check the drag against the puzzle
//   - POST /game/{id}/select            → whole drag in one call: {cells:[...]}
//   - POST /game/{id}/reset             → fresh puzzle, same word list
//
// Only the caller who created a game may change it; anyone else gets 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

const (
	minGridSize = 4
	maxGridSize = 30
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/new", s.handleNewGame)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/selection/begin", s.handleSelectionBegin)
		r.Post("/selection/extend", s.handleSelectionExtend)
		r.Post("/selection/end", s.handleSelectionEnd)
		r.Post("/select", s.handleSelect)
		r.Post("/reset", s.handleReset)
	})
}

// newGameReq is the optional body of /game/new.
type newGameReq struct {
	Size  int      `json:"size"`
	Words []string `json:"words"`
	Seed  int64    `json:"seed"`
}

// handleNewGame generates a puzzle and registers the session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq // empty body → defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if req.Size == 0 {
		req.Size = s.cfg.GridSize
	}
	if req.Size < minGridSize || req.Size > maxGridSize {
		writeError(w, http.StatusBadRequest, "invalid_size")
		return
	}
	list := req.Words
	if len(list) == 0 {
		list = words.Default()
	}

	sess, err := game.New(list, game.Options{
		Size:        req.Size,
		MaxAttempts: s.cfg.MaxAttempts,
		Seed:        req.Seed,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, wordListError(err))
		return
	}

	if err := s.track(r.Context(), &entry{sess: sess, owner: s.ownerOf(w, r)}, nil); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	log.Info().Str("gameId", sess.ID).Int("size", req.Size).Int("words", sess.TotalCount()).Msg("game created")
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// wordListError maps validation errors to stable client codes.
func wordListError(err error) string {
	switch {
	case errors.Is(err, words.ErrEmptyList):
		return "empty_word_list"
	case errors.Is(err, words.ErrInvalidWord):
		return "invalid_word"
	case errors.Is(err, words.ErrDuplicateWord):
		return "duplicate_word"
	case errors.Is(err, words.ErrWordTooShort):
		return "word_too_short"
	case errors.Is(err, words.ErrWordTooLong):
		return "word_too_long"
	}
	return "invalid_word_list"
}

// session resolves {id} for reading or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return nil, false
	}
	s.games.touch(id, s.now())
	return sess, true
}

// ownedSession resolves {id} for a write. Games the caller does not own
// are reported as missing.
func (s *Server) ownedSession(w http.ResponseWriter, r *http.Request) (entry, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return entry{}, false
	}
	e, ok := s.games.get(sess.ID)
	if !ok || !s.owns(r, e.owner) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return entry{}, false
	}
	return e, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// decodeCell reads a {row,col} body.
func decodeCell(w http.ResponseWriter, r *http.Request) (puzzle.Cell, bool) {
	var c puzzle.Cell
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request")
		return c, false
	}
	return c, true
}

// selectionRes echoes the in-flight drag.
type selectionRes struct {
	Selection []puzzle.Cell `json:"selection"`
}

func (s *Server) handleSelectionBegin(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	sess := e.sess
	c, ok := decodeCell(w, r)
	if !ok {
		return
	}
	sess.BeginSelection(c)
	writeJSON(w, http.StatusOK, selectionRes{Selection: sess.Selection()})
}

func (s *Server) handleSelectionExtend(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	sess := e.sess
	c, ok := decodeCell(w, r)
	if !ok {
		return
	}
	sess.ExtendSelection(c)
	writeJSON(w, http.StatusOK, selectionRes{Selection: sess.Selection()})
}

// matchRes is returned whenever a drag is checked.
type matchRes struct {
	Match *puzzle.Placement `json:"match,omitempty"`
	State game.State        `json:"state"`
	Found int               `json:"found"`
	Total int               `json:"total"`
}

func result(sess *game.Session, pl puzzle.Placement, ok bool) matchRes {
	res := matchRes{State: sess.State(), Found: sess.FoundCount(), Total: sess.TotalCount()}
	if ok {
		res.Match = &pl
	}
	return res
}

func (s *Server) handleSelectionEnd(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	sess := e.sess
	pl, matched := sess.EndSelection()
	writeJSON(w, http.StatusOK, result(sess, pl, matched))
}

// selectReq carries a complete drag.
type selectReq struct {
	Cells []puzzle.Cell `json:"cells"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	sess := e.sess
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Cells) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	pl, matched := sess.Select(req.Cells)
	writeJSON(w, http.StatusOK, result(sess, pl, matched))
}

// handleReset regenerates the puzzle. Daily puzzles cannot be reshuffled.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.ownedSession(w, r)
	if !ok {
		return
	}
	sess := e.sess
	if e.dailyKey != "" {
		writeError(w, http.StatusConflict, "daily_locked")
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
