// internal/puzzle/placer.go
//
// Word placement and filler generation.
// Responsibilities:
//   - Try random (direction, anchor) pairs for each word, bounded by MaxAttempts.
//   - Reject attempts that run off the grid or collide with a different letter.
//   - Commit the first passing attempt as a Placement.
//   - Fill every remaining Empty cell with a random A–Z letter.
//
// Notes:
//   - Each attempt draws direction, then row, then col from the Rand source.
//     Tests rely on that order to force a layout.
//   - Identical letters may be shared, which is how crossing words reuse a cell.

package puzzle

// DefaultMaxAttempts bounds the random attempts spent on a single word.
const DefaultMaxAttempts = 100

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Rand is the randomness the generator needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Placement binds a word to its ordered cell path. Cells[0] is the anchor.
type Placement struct {
	Word  string `json:"word"`
	Cells []Cell `json:"cells"`
}

// Direction is the vector the word was written along.
func (p Placement) Direction() Direction {
	if len(p.Cells) < 2 {
		return Direction{}
	}
	return Direction{DRow: p.Cells[1].Row - p.Cells[0].Row, DCol: p.Cells[1].Col - p.Cells[0].Col}
}

// Placer places words onto a grid using its Rand source.
type Placer struct {
	Rand        Rand
	MaxAttempts int // <= 0 means DefaultMaxAttempts
}

// PlaceWords places words in list order onto g, mutating it.
// It returns the committed placements (in list order) and the words that
// exhausted every attempt without finding a legal spot.
func (p Placer) PlaceWords(words []string, g *Grid) ([]Placement, []string) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	placed := make([]Placement, 0, len(words))
	var unplaced []string
	for _, w := range words {
		if pl, ok := p.place(w, g, attempts); ok {
			placed = append(placed, pl)
			continue
		}
		unplaced = append(unplaced, w)
	}
	return placed, unplaced
}

// place runs up to attempts random tries for a single word.
func (p Placer) place(word string, g *Grid, attempts int) (Placement, bool) {
	if word == "" || g.Size() == 0 {
		return Placement{}, false
	}
	for i := 0; i < attempts; i++ {
		d := Directions[p.Rand.Intn(len(Directions))]
		anchor := Cell{Row: p.Rand.Intn(g.Size()), Col: p.Rand.Intn(g.Size())}
		if canPlace(word, anchor, d, g) {
			return commit(word, anchor, d, g), true
		}
	}
	return Placement{}, false
}

// canPlace checks bounds at the end cell and letter compatibility along the path.
func canPlace(word string, anchor Cell, d Direction, g *Grid) bool {
	if !g.InBounds(anchor) || !g.InBounds(anchor.Step(d, len(word)-1)) {
		return false
	}
	for i := 0; i < len(word); i++ {
		cur := g.At(anchor.Step(d, i))
		if cur != Empty && cur != word[i] {
			return false
		}
	}
	return true
}

// commit writes the word into g and records its path.
func commit(word string, anchor Cell, d Direction, g *Grid) Placement {
	cells := make([]Cell, len(word))
	for i := 0; i < len(word); i++ {
		c := anchor.Step(d, i)
		g.Set(c, word[i])
		cells[i] = c
	}
	return Placement{Word: word, Cells: cells}
}

// FillEmpty assigns a uniformly random uppercase letter to every Empty cell.
// It must run after all words are placed, otherwise filler letters would
// block placements.
func FillEmpty(g *Grid, r Rand) {
	for row := 0; row < g.Size(); row++ {
		for col := 0; col < g.Size(); col++ {
			c := Cell{Row: row, Col: col}
			if g.At(c) == Empty {
				g.Set(c, alphabet[r.Intn(len(alphabet))])
			}
		}
	}
}
