// internal/puzzle/validate.go
//
// Selection validation.
// A drawn path matches a placement when both cover the same cells and the
// path spells the word forward or backward.

package puzzle

// CheckSelection matches a user-drawn selection against the puzzle's
// placements. It returns the first unfound placement (in word-list order)
// whose word equals the selection read forward or backward and whose cell
// set equals the selection's cell set.
//
// Straightness is not re-checked: a path is accepted when it covers exactly
// a placement's cells and spells its word, whatever order it was drawn in.
func CheckSelection(sel []Cell, p *Puzzle, found map[string]bool) (Placement, bool) {
	if len(sel) < 2 || p == nil {
		return Placement{}, false
	}

	fwd := make([]byte, len(sel))
	for i, c := range sel {
		b := p.LetterAt(c)
		if b == Empty {
			return Placement{}, false
		}
		fwd[i] = b
	}
	forward := string(fwd)
	reverse := reversed(fwd)

	for _, pl := range p.placements {
		if found[pl.Word] {
			continue
		}
		if pl.Word != forward && pl.Word != reverse {
			continue
		}
		if sameCells(sel, pl.Cells) {
			return Placement{Word: pl.Word, Cells: append([]Cell(nil), pl.Cells...)}, true
		}
	}
	return Placement{}, false
}

// sameCells reports set equality of a and b, ignoring order.
func sameCells(a, b []Cell) bool {
	as := make(map[Cell]struct{}, len(a))
	for _, c := range a {
		as[c] = struct{}{}
	}
	bs := make(map[Cell]struct{}, len(b))
	for _, c := range b {
		bs[c] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for c := range as {
		if _, ok := bs[c]; !ok {
			return false
		}
	}
	return true
}

func reversed(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return string(out)
}
