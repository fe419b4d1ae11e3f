// internal/puzzle/grid.go
//
// Grid primitives for the word-search engine.
// Defines:
//   - Cell: a 0-indexed (row, col) position.
//   - Direction: the four placement vectors (right, down, down-right, up-right).
//   - Grid: a square N×N letter matrix with an Empty sentinel for unset cells.

package puzzle

import "strings"

// Empty marks a cell that holds no letter yet. It never collides with 'A'..'Z'.
const Empty byte = 0

// Cell is a grid position. Identity is purely positional.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Step returns the cell n steps away from c along d.
func (c Cell) Step(d Direction, n int) Cell {
	return Cell{Row: c.Row + d.DRow*n, Col: c.Col + d.DCol*n}
}

// Direction is a unit vector along which a word is written.
type Direction struct {
	DRow int
	DCol int
}

// The only directions a word may be placed along. Reversed reading is handled
// by selection validation, so left/up variants are never needed.
var (
	Right     = Direction{DRow: 0, DCol: 1}
	Down      = Direction{DRow: 1, DCol: 0}
	DownRight = Direction{DRow: 1, DCol: 1}
	UpRight   = Direction{DRow: -1, DCol: 1}
)

// Directions lists the placement vectors in draw order.
var Directions = [4]Direction{Right, Down, DownRight, UpRight}

// String names the direction for logs and the CLI answer key.
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case DownRight:
		return "down-right"
	case UpRight:
		return "up-right"
	}
	return "unknown"
}

// Grid is a square matrix of uppercase letters.
type Grid struct {
	size  int
	cells [][]byte
}

// NewGrid allocates a size×size grid with every cell Empty.
// Negative sizes yield an empty 0×0 grid.
func NewGrid(size int) *Grid {
	if size < 0 {
		size = 0
	}
	cells := make([][]byte, size)
	for i := range cells {
		cells[i] = make([]byte, size)
	}
	return &Grid{size: size, cells: cells}
}

// Size returns N.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether c lies inside [0,N) on both axes.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

// At returns the letter at c, or Empty when c is out of bounds.
func (g *Grid) At(c Cell) byte {
	if !g.InBounds(c) {
		return Empty
	}
	return g.cells[c.Row][c.Col]
}

// Set writes b at c. Out-of-bounds writes are dropped.
func (g *Grid) Set(c Cell, b byte) {
	if g.InBounds(c) {
		g.cells[c.Row][c.Col] = b
	}
}

// Filled reports whether no Empty cell remains.
func (g *Grid) Filled() bool {
	for _, row := range g.cells {
		for _, b := range row {
			if b == Empty {
				return false
			}
		}
	}
	return true
}

// Rows renders the grid one string per row. Empty cells render as '.'.
func (g *Grid) Rows() []string {
	out := make([]string, g.size)
	var sb strings.Builder
	for i, row := range g.cells {
		sb.Reset()
		for _, b := range row {
			if b == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(b)
		}
		out[i] = sb.String()
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cp := NewGrid(g.size)
	for i, row := range g.cells {
		copy(cp.cells[i], row)
	}
	return cp
}
