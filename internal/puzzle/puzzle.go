// internal/puzzle/puzzle.go
//
// Puzzle state and generation entry point.
// Generate runs the full pipeline: empty grid → word placement → filler.
// A Puzzle is immutable once returned.

package puzzle

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRegenerate is how many fresh layouts Generate tries when a word
// could not be placed on the first one.
const DefaultRegenerate = 5

// Options configures puzzle generation.
type Options struct {
	Size        int   // grid side length N
	MaxAttempts int   // per-word attempts; <= 0 means DefaultMaxAttempts
	Regenerate  int   // extra full layouts when a word is unplaced; < 0 disables
	Seed        int64 // seed for reproducible puzzles (0 = random); ignored when Rand is set
	Rand        Rand  // injected randomness; overrides Seed
}

// NewRand builds the Rand used when Options.Rand is nil.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Puzzle owns the finished grid and the placements of one generated puzzle.
type Puzzle struct {
	grid       *Grid
	words      []string
	placements []Placement
	unplaced   []string
}

// Generate builds a puzzle for words (already normalized, uppercase) and
// fills every remaining cell. Words that still cannot be placed after all
// regenerations are reported by Unplaced and logged; the puzzle is returned
// regardless.
func Generate(words []string, opts Options) *Puzzle {
	r := opts.Rand
	if r == nil {
		r = NewRand(opts.Seed)
	}
	placer := Placer{Rand: r, MaxAttempts: opts.MaxAttempts}

	layouts := 1 + max(opts.Regenerate, 0)
	var (
		g          *Grid
		placements []Placement
		unplaced   []string
	)
	for i := 0; i < layouts; i++ {
		g = NewGrid(opts.Size)
		placements, unplaced = placer.PlaceWords(words, g)
		if len(unplaced) == 0 {
			break
		}
		log.Debug().Int("layout", i+1).Strs("unplaced", unplaced).Msg("layout rejected")
	}
	for _, w := range unplaced {
		log.Warn().Str("word", w).Int("size", opts.Size).Int("layouts", layouts).Msg("word could not be placed")
	}

	FillEmpty(g, r)

	return &Puzzle{
		grid:       g,
		words:      append([]string(nil), words...),
		placements: placements,
		unplaced:   unplaced,
	}
}

// Size returns N.
func (p *Puzzle) Size() int { return p.grid.Size() }

// LetterAt returns the letter at c, or Empty when c is out of bounds.
func (p *Puzzle) LetterAt(c Cell) byte { return p.grid.At(c) }

// Rows renders the grid one string per row.
func (p *Puzzle) Rows() []string { return p.grid.Rows() }

// Grid returns a copy of the grid.
func (p *Puzzle) Grid() *Grid { return p.grid.Clone() }

// Words returns the word list the puzzle was generated from.
func (p *Puzzle) Words() []string { return append([]string(nil), p.words...) }

// Placements returns the placements in word-list order.
func (p *Puzzle) Placements() []Placement {
	out := make([]Placement, len(p.placements))
	for i, pl := range p.placements {
		out[i] = Placement{Word: pl.Word, Cells: append([]Cell(nil), pl.Cells...)}
	}
	return out
}

// Placement looks up the placement of word.
func (p *Puzzle) Placement(word string) (Placement, bool) {
	for _, pl := range p.placements {
		if pl.Word == word {
			return Placement{Word: pl.Word, Cells: append([]Cell(nil), pl.Cells...)}, true
		}
	}
	return Placement{}, false
}

// Unplaced lists words that never found a legal spot.
func (p *Puzzle) Unplaced() []string { return append([]string(nil), p.unplaced...) }
