// internal/game/types.go
//
// Core type definitions for a word-search game session.
// Defines:
//   - State: lifecycle phase (generating → playing → completed).
//   - Event / Listener: notifications pushed to presentation subscribers.
//   - Options: generation settings carried across resets.
//   - Snapshot: read-only view used for rendering and JSON responses.

package game

import (
	"time"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// State is the lifecycle phase of a session.
type State string

const (
	StateGenerating State = "generating"
	StatePlaying    State = "playing"
	StateCompleted  State = "completed"
)

// EventKind identifies what happened in a session.
type EventKind string

const (
	EventWordFound EventKind = "found"
	EventCompleted EventKind = "completed"
	EventReset     EventKind = "reset"
)

// Event is delivered to every subscriber of a session.
type Event struct {
	Kind      EventKind         `json:"type"`
	GameID    string            `json:"gameId"`
	Placement *puzzle.Placement `json:"placement,omitempty"` // set for EventWordFound
	Found     int               `json:"found"`
	Total     int               `json:"total"`
	ElapsedMs int64             `json:"elapsedMs"`
}

// Listener receives session events. It is called synchronously, outside the
// session lock, so it may read the session back.
type Listener func(Event)

// Options configures puzzle generation for a session and all its resets.
type Options struct {
	Size        int         // grid side length N
	MaxAttempts int         // per-word placement attempts (0 = puzzle default)
	Regenerate  int         // extra layouts when a word is unplaced (0 = puzzle default, < 0 = none)
	Seed        int64       // reproducible generation (0 = random)
	Rand        puzzle.Rand // injected randomness; overrides Seed
	Now         func() time.Time
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID         string             `json:"gameId"`
	State      State              `json:"state"`
	Size       int                `json:"size"`
	Rows       []string           `json:"rows"`
	Words      []string           `json:"words"`
	Found      []puzzle.Placement `json:"found"`
	FoundCount int                `json:"foundCount"`
	TotalCount int                `json:"totalCount"`
	Selection  []puzzle.Cell      `json:"selection"`
	Unplaced   []string           `json:"unplaced,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	ElapsedMs  int64              `json:"elapsedMs"`
}
