// internal/words/words.go
//
// Word list management for the word-search engine.
//
// Responsibilities:
//   - Load the default word list from a file (WORDS_FILE) or the embedded asset.
//   - Normalize caller-supplied lists: trim, uppercase, A–Z only, no duplicates.
//   - Reject lists that cannot geometrically fit a grid (word longer than N).
//
// Initialization behavior (Init):
//   1. If a path is given, read one word per line from it ('#' comments allowed).
//   2. Otherwise fall back to the embedded assets/default_words.txt.
//   Either way the result goes through Normalize; an empty list is an error.
//
// Constraints:
//   • Words are at least MinLength letters; a single cell can never be selected as a match.
//   • Lists are normalized to uppercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/wordsearch/assets"
)

// MinLength is the shortest word a selection can ever match.
const MinLength = 2

var (
	ErrEmptyList     = errors.New("words: list is empty")
	ErrInvalidWord   = errors.New("words: only letters A-Z are allowed")
	ErrDuplicateWord = errors.New("words: duplicate word")
	ErrWordTooShort  = errors.New("words: word is too short")
	ErrWordTooLong   = errors.New("words: word does not fit the grid")
)

var (
	initOnce   sync.Once
	defaults   []string
	initialErr error
)

// Init loads the default word list exactly once.
// path may be empty, in which case the embedded list is used.
func Init(path string) error {
	initOnce.Do(func() {
		var raw []string
		var err error
		if path != "" {
			raw, err = readWordFile(path)
		} else {
			raw, err = assets.DefaultWords()
		}
		if err != nil {
			initialErr = err
			return
		}
		defaults, initialErr = Normalize(raw)
	})
	return initialErr
}

// Default returns a copy of the default list, loading the embedded one if
// Init was never called. It returns nil when loading failed.
func Default() []string {
	if err := Init(""); err != nil || len(defaults) == 0 {
		return nil
	}
	return append([]string(nil), defaults...)
}

// readWordFile loads one word per line, skipping blanks and '#' comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

// Normalize trims and uppercases every word and validates the result.
// Order is preserved.
func Normalize(list []string) ([]string, error) {
	if len(list) == 0 {
		return nil, ErrEmptyList
	}
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, raw := range list {
		w := strings.ToUpper(strings.TrimSpace(raw))
		if !isAlpha(w) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWord, raw)
		}
		if len(w) < MinLength {
			return nil, fmt.Errorf("%w: %q", ErrWordTooShort, w)
		}
		if _, dup := seen[w]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, w)
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out, nil
}

// Fit reports an error if any word is longer than a size×size grid allows.
func Fit(list []string, size int) error {
	for _, w := range list {
		if len(w) > size {
			return fmt.Errorf("%w: %q has %d letters, grid is %d", ErrWordTooLong, w, len(w), size)
		}
	}
	return nil
}

// isAlpha reports whether s is non-empty and all uppercase ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
