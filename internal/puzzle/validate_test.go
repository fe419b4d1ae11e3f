package puzzle

import "testing"

// forcedPuzzle places "AB" right from (0,0) and "CAT" down from (1,3) on a 4×4 grid.
// Filler draws fall back to 'A'.
func forcedPuzzle() *Puzzle {
	r := &scripted{vals: []int{0, 0, 0, 1, 1, 3}}
	return Generate([]string{"AB", "CAT"}, Options{Size: 4, Rand: r, Regenerate: -1})
}

func TestCheckSelectionForwardAndReverse(t *testing.T) {
	p := forcedPuzzle()

	pl, ok := CheckSelection([]Cell{{0, 0}, {0, 1}}, p, nil)
	if !ok || pl.Word != "AB" {
		t.Fatalf("forward selection: got %q ok=%v", pl.Word, ok)
	}

	pl, ok = CheckSelection([]Cell{{0, 1}, {0, 0}}, p, nil)
	if !ok || pl.Word != "AB" {
		t.Fatalf("reverse selection: got %q ok=%v", pl.Word, ok)
	}

	pl, ok = CheckSelection([]Cell{{3, 3}, {2, 3}, {1, 3}}, p, nil)
	if !ok || pl.Word != "CAT" {
		t.Fatalf("reverse CAT: got %q ok=%v", pl.Word, ok)
	}
}

func TestCheckSelectionSkipsFoundWords(t *testing.T) {
	p := forcedPuzzle()
	found := map[string]bool{"AB": true}

	if _, ok := CheckSelection([]Cell{{0, 0}, {0, 1}}, p, found); ok {
		t.Fatal("found word must not match again")
	}
}

func TestCheckSelectionTooShort(t *testing.T) {
	p := forcedPuzzle()
	for _, sel := range [][]Cell{nil, {}, {{0, 0}}} {
		if _, ok := CheckSelection(sel, p, nil); ok {
			t.Fatalf("selection %v should never match", sel)
		}
	}
}

func TestCheckSelectionRequiresSameCells(t *testing.T) {
	p := forcedPuzzle()

	// (0,1)->(0,2) reads "BA", reversed "AB", but covers other cells.
	if _, ok := CheckSelection([]Cell{{0, 1}, {0, 2}}, p, nil); ok {
		t.Fatal("same letters on different cells must not match")
	}
	// Superset of the placement.
	if _, ok := CheckSelection([]Cell{{0, 0}, {0, 1}, {0, 2}}, p, nil); ok {
		t.Fatal("longer selection must not match")
	}
}

func TestCheckSelectionOutOfBounds(t *testing.T) {
	p := forcedPuzzle()
	if _, ok := CheckSelection([]Cell{{0, 0}, {0, -1}}, p, nil); ok {
		t.Fatal("out-of-bounds cell must not match")
	}
	if _, ok := CheckSelection([]Cell{{0, 0}, {0, 1}}, nil, nil); ok {
		t.Fatal("nil puzzle must not match")
	}
}

func TestSameCellsIgnoresOrder(t *testing.T) {
	a := []Cell{{0, 0}, {1, 1}, {2, 2}}
	b := []Cell{{2, 2}, {0, 0}, {1, 1}}
	if !sameCells(a, b) {
		t.Fatal("expected set equality")
	}
	if sameCells(a, b[:2]) {
		t.Fatal("different sizes must differ")
	}
}
