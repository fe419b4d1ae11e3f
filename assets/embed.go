// Package assets embeds static data shipped with the server binary.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed default_words.txt
var FS embed.FS

// readLines returns the non-empty, non-comment lines of an embedded file,
// trimmed and uppercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// DefaultWords returns the embedded default word list.
func DefaultWords() ([]string, error) {
	return readLines("default_words.txt")
}
