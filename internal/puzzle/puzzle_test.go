package puzzle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scripted replays fixed draws, then returns 0 forever.
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

var sampleWords = []string{"JAVASCRIPT", "HTML", "CSS", "REACT", "PYTHON", "JAVA", "ANGULAR", "NODE"}

func TestNewGridIsEmpty(t *testing.T) {
	g := NewGrid(3)
	if g.Size() != 3 {
		t.Fatalf("expected size 3, got %d", g.Size())
	}
	if g.Filled() {
		t.Fatal("new grid should not be filled")
	}
	want := []string{"...", "...", "..."}
	if diff := cmp.Diff(want, g.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if NewGrid(-2).Size() != 0 {
		t.Fatal("negative size should produce an empty grid")
	}
}

func TestCanPlaceBounds(t *testing.T) {
	g := NewGrid(4)
	cases := []struct {
		name   string
		anchor Cell
		dir    Direction
		ok     bool
	}{
		{"fits right", Cell{0, 1}, Right, true},
		{"overflows right", Cell{0, 2}, Right, false},
		{"fits down", Cell{1, 3}, Down, true},
		{"overflows down", Cell{2, 0}, Down, false},
		{"fits down-right", Cell{1, 1}, DownRight, true},
		{"up-right from top row", Cell{0, 0}, UpRight, false},
		{"fits up-right", Cell{3, 0}, UpRight, true},
	}
	for _, tc := range cases {
		if got := canPlace("ABC", tc.anchor, tc.dir, g); got != tc.ok {
			t.Errorf("%s: canPlace = %v, want %v", tc.name, got, tc.ok)
		}
	}
}

func TestCanPlaceCrossing(t *testing.T) {
	g := NewGrid(4)
	g.Set(Cell{0, 1}, 'B')

	if !canPlace("AB", Cell{0, 0}, Right, g) {
		t.Fatal("identical letter should be shareable")
	}
	if canPlace("AC", Cell{0, 0}, Right, g) {
		t.Fatal("different letter should block placement")
	}
}

func TestForcedPlacementScenario(t *testing.T) {
	// direction index 0 (right), anchor (0,0); filler draws fall back to 'A'.
	p := Generate([]string{"AB"}, Options{Size: 4, Rand: &scripted{vals: []int{0, 0, 0}}})

	if !strings.HasPrefix(p.Rows()[0], "AB") {
		t.Fatalf("row 0 should start with AB, got %q", p.Rows()[0])
	}
	pl, ok := p.Placement("AB")
	if !ok {
		t.Fatal("AB should be placed")
	}
	if diff := cmp.Diff([]Cell{{0, 0}, {0, 1}}, pl.Cells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if pl.Direction() != Right || pl.Direction().String() != "right" {
		t.Fatalf("expected direction right, got %v", pl.Direction())
	}
}

func TestCrossingWordsShareLetter(t *testing.T) {
	// AB right from (0,0), then AC down from (0,0).
	p := Generate([]string{"AB", "AC"}, Options{Size: 4, Rand: &scripted{vals: []int{0, 0, 0, 1, 0, 0}}})

	if len(p.Unplaced()) != 0 {
		t.Fatalf("expected both words placed, unplaced=%v", p.Unplaced())
	}
	ac, _ := p.Placement("AC")
	if diff := cmp.Diff([]Cell{{0, 0}, {1, 0}}, ac.Cells); diff != "" {
		t.Fatalf("AC cells mismatch (-want +got):\n%s", diff)
	}
	if ac.Direction() != Down {
		t.Fatalf("AC should run down, got %v", ac.Direction())
	}
}

func TestPlacementsReadBack(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		p := Generate(sampleWords, Options{Size: 12, Seed: seed, Regenerate: DefaultRegenerate})
		for _, pl := range p.Placements() {
			var sb strings.Builder
			for _, c := range pl.Cells {
				sb.WriteByte(p.LetterAt(c))
			}
			if sb.String() != pl.Word {
				t.Fatalf("seed %d: path of %s reads %q", seed, pl.Word, sb.String())
			}
			if len(pl.Cells) > 1 && !isStraight(pl.Cells) {
				t.Fatalf("seed %d: %s is not on a placement direction: %v", seed, pl.Word, pl.Cells)
			}
		}
	}
}

func isStraight(cells []Cell) bool {
	d := Placement{Cells: cells}.Direction()
	known := false
	for _, k := range Directions {
		if k == d {
			known = true
		}
	}
	if !known {
		return false
	}
	for i, c := range cells {
		if c != cells[0].Step(d, i) {
			return false
		}
	}
	return true
}

func TestFillLeavesNoEmptyCell(t *testing.T) {
	p := Generate(sampleWords, Options{Size: 12, Seed: 7})
	g := p.Grid()
	if !g.Filled() {
		t.Fatal("grid has empty cells after fill")
	}
	for _, row := range g.Rows() {
		for _, r := range row {
			if r < 'A' || r > 'Z' {
				t.Fatalf("unexpected filler %q", r)
			}
		}
	}
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	a := Generate(sampleWords, Options{Size: 12, Seed: 42})
	b := Generate(sampleWords, Options{Size: 12, Seed: 42})
	if diff := cmp.Diff(a.Rows(), b.Rows()); diff != "" {
		t.Fatalf("same seed produced different grids:\n%s", diff)
	}
	if diff := cmp.Diff(a.Placements(), b.Placements()); diff != "" {
		t.Fatalf("same seed produced different placements:\n%s", diff)
	}
}

func TestUnplaceableWordIsReported(t *testing.T) {
	p := Generate([]string{"ABCDE", "AB"}, Options{Size: 3, Seed: 1, Regenerate: 2})

	if diff := cmp.Diff([]string{"ABCDE"}, p.Unplaced()); diff != "" {
		t.Fatalf("unplaced mismatch (-want +got):\n%s", diff)
	}
	if _, ok := p.Placement("ABCDE"); ok {
		t.Fatal("ABCDE must not have a placement")
	}
	if _, ok := p.Placement("AB"); !ok {
		t.Fatal("AB should still be placed")
	}
	if !p.Grid().Filled() {
		t.Fatal("grid should be filled even with unplaced words")
	}
}

func TestPuzzleAccessorsReturnCopies(t *testing.T) {
	p := Generate([]string{"AB"}, Options{Size: 4, Rand: &scripted{vals: []int{0, 0, 0}}})

	pls := p.Placements()
	pls[0].Cells[0] = Cell{3, 3}
	g := p.Grid()
	g.Set(Cell{0, 0}, 'Z')

	pl, _ := p.Placement("AB")
	if pl.Cells[0] != (Cell{0, 0}) {
		t.Fatal("placement mutated through accessor")
	}
	if p.LetterAt(Cell{0, 0}) != 'A' {
		t.Fatal("grid mutated through accessor")
	}
}
