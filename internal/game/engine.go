// internal/game/engine.go
//
// Game session engine for a single word-search puzzle.
// Responsibilities:
//   - Validate the word list against the grid size and generate a puzzle.
//   - Track the in-flight drag selection (begin → extend → end).
//   - Credit found words exactly once and detect completion.
//   - Regenerate everything on Reset, discarding any in-flight selection.
//   - Notify subscribers of found / completed / reset events.
//
// State transitions:
//   generating → playing (always, even if a word could not be placed)
//   playing    → completed (when every listed word has been found)
//   any        → generating → playing (Reset)
//
// Notes:
//   - A Session is safe for concurrent use; the HTTP layer shares it across requests.
//   - Events are dispatched after the lock is released.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/words"
)

// DefaultSize is the grid size used when Options.Size is unset.
const DefaultSize = 12

// Session owns one puzzle, its found words and the current selection.
type Session struct {
	ID string

	mu        sync.Mutex
	words     []string
	opts      Options
	rng       puzzle.Rand
	state     State
	puzzle    *puzzle.Puzzle
	found     map[string]bool
	order     []string // found words, discovery order
	selection []puzzle.Cell
	selecting bool
	started   time.Time
	completed time.Time

	listeners map[int]Listener
	nextID    int
}

// New validates wordList, generates the first puzzle and returns a playing session.
func New(wordList []string, opts Options) (*Session, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	list, err := words.Normalize(wordList)
	if err != nil {
		return nil, err
	}
	if err := words.Fit(list, opts.Size); err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = puzzle.NewRand(opts.Seed)
	}
	s := &Session{
		ID:        randomID(),
		words:     list,
		opts:      opts,
		rng:       rng,
		listeners: make(map[int]Listener),
	}
	s.generate()
	return s, nil
}

// generate rebuilds the puzzle and clears all per-puzzle state. Caller holds mu
// (or owns s exclusively during construction).
func (s *Session) generate() {
	s.state = StateGenerating
	s.found = make(map[string]bool, len(s.words))
	s.order = nil
	s.selection = nil
	s.selecting = false

	regen := s.opts.Regenerate
	if regen == 0 {
		regen = puzzle.DefaultRegenerate
	}
	s.puzzle = puzzle.Generate(s.words, puzzle.Options{
		Size:        s.opts.Size,
		MaxAttempts: s.opts.MaxAttempts,
		Regenerate:  regen,
		Rand:        s.rng,
	})
	s.started = s.opts.Now()
	s.completed = time.Time{}
	s.state = StatePlaying

	log.Debug().
		Str("gameId", s.ID).
		Int("size", s.opts.Size).
		Int("words", len(s.words)).
		Strs("unplaced", s.puzzle.Unplaced()).
		Msg("puzzle generated")
}

// Subscribe registers l for future events and returns a function that removes it.
func (s *Session) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// BeginSelection starts a new drag at c, dropping any previous selection.
func (s *Session) BeginSelection(c puzzle.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selecting = true
	s.selection = nil
	s.appendCell(c)
}

// ExtendSelection adds c to the current drag. Cells already selected,
// out-of-bounds cells and calls without an active drag are ignored.
func (s *Session) ExtendSelection(c puzzle.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selecting {
		return
	}
	s.appendCell(c)
}

func (s *Session) appendCell(c puzzle.Cell) {
	if c.Row < 0 || c.Row >= s.puzzle.Size() || c.Col < 0 || c.Col >= s.puzzle.Size() {
		return
	}
	for _, have := range s.selection {
		if have == c {
			return
		}
	}
	s.selection = append(s.selection, c)
}

// EndSelection consumes the current drag and checks it against the puzzle.
// It returns the matched placement, if any. The selection is always cleared.
func (s *Session) EndSelection() (puzzle.Placement, bool) {
	s.mu.Lock()
	if !s.selecting {
		s.mu.Unlock()
		return puzzle.Placement{}, false
	}
	sel := s.selection
	s.selection = nil
	s.selecting = false

	if s.state != StatePlaying {
		s.mu.Unlock()
		return puzzle.Placement{}, false
	}
	pl, ok := puzzle.CheckSelection(sel, s.puzzle, s.found)
	if !ok {
		s.mu.Unlock()
		return puzzle.Placement{}, false
	}

	s.found[pl.Word] = true
	s.order = append(s.order, pl.Word)
	now := s.opts.Now()
	events := []Event{s.event(EventWordFound, &pl, now)}
	if len(s.found) == len(s.words) {
		s.state = StateCompleted
		s.completed = now
		events = append(events, s.event(EventCompleted, nil, now))
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	dispatch(listeners, events)
	return pl, true
}

// Select runs a whole drag (begin, extend over the rest, end) in one call.
func (s *Session) Select(cells []puzzle.Cell) (puzzle.Placement, bool) {
	if len(cells) == 0 {
		return puzzle.Placement{}, false
	}
	s.BeginSelection(cells[0])
	for _, c := range cells[1:] {
		s.ExtendSelection(c)
	}
	return s.EndSelection()
}

// Reset discards the puzzle, found words and any in-flight selection, then
// generates a fresh puzzle.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generate()
	ev := s.event(EventReset, nil, s.started)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	dispatch(listeners, []Event{ev})
}

// event builds an Event from current state. Caller holds mu.
func (s *Session) event(kind EventKind, pl *puzzle.Placement, now time.Time) Event {
	return Event{
		Kind:      kind,
		GameID:    s.ID,
		Placement: pl,
		Found:     len(s.found),
		Total:     len(s.words),
		ElapsedMs: s.elapsedAt(now).Milliseconds(),
	}
}

func (s *Session) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}

func dispatch(ls []Listener, events []Event) {
	for _, ev := range events {
		for _, l := range ls {
			l(ev)
		}
	}
}

// State reports the lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Rows renders the current grid.
func (s *Session) Rows() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle.Rows()
}

// Grid returns a copy of the current letter grid.
func (s *Session) Grid() *puzzle.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle.Grid()
}

// Selection returns a copy of the in-flight selection.
func (s *Session) Selection() []puzzle.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]puzzle.Cell{}, s.selection...)
}

// Words returns the normalized word list.
func (s *Session) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.words...)
}

// Found returns found words in discovery order.
func (s *Session) Found() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// FoundCount is the number of words found so far.
func (s *Session) FoundCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.found)
}

// TotalCount is the size of the word list, placed or not.
func (s *Session) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

// Size returns the grid side length.
func (s *Session) Size() int { return s.opts.Size }

// Elapsed returns play time so far; it stops advancing once completed.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedAt(s.opts.Now())
}

func (s *Session) elapsedAt(now time.Time) time.Duration {
	if !s.completed.IsZero() {
		return s.completed.Sub(s.started)
	}
	return now.Sub(s.started)
}

// Snapshot returns a consistent read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make([]puzzle.Placement, 0, len(s.order))
	for _, w := range s.order {
		if pl, ok := s.puzzle.Placement(w); ok {
			found = append(found, pl)
		}
	}
	return Snapshot{
		ID:         s.ID,
		State:      s.state,
		Size:       s.puzzle.Size(),
		Rows:       s.puzzle.Rows(),
		Words:      append([]string(nil), s.words...),
		Found:      found,
		FoundCount: len(s.found),
		TotalCount: len(s.words),
		Selection:  append([]puzzle.Cell{}, s.selection...),
		Unplaced:   s.puzzle.Unplaced(),
		StartedAt:  s.started,
		ElapsedMs:  s.elapsedAt(s.opts.Now()).Milliseconds(),
	}
}

// Placements exposes the answer key (used by the CLI).
func (s *Session) Placements() []puzzle.Placement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle.Placements()
}

// FormatElapsed renders d as mm:ss for the timer display.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
