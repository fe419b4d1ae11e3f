package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	got, err := Normalize([]string{" java ", "Node", "css"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"JAVA", "NODE", "CSS"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want error
	}{
		{"empty list", nil, ErrEmptyList},
		{"blank word", []string{"  "}, ErrInvalidWord},
		{"digits", []string{"GO2"}, ErrInvalidWord},
		{"accent", []string{"CAFÉ"}, ErrInvalidWord},
		{"single letter", []string{"A"}, ErrWordTooShort},
		{"duplicate after case folding", []string{"java", "JAVA"}, ErrDuplicateWord},
	}
	for _, tc := range cases {
		if _, err := Normalize(tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestFit(t *testing.T) {
	list := []string{"JAVASCRIPT", "CSS"}
	if err := Fit(list, 10); err != nil {
		t.Fatalf("10 letters should fit a 10x10 grid: %v", err)
	}
	if err := Fit(list, 9); !errors.Is(err, ErrWordTooLong) {
		t.Fatalf("expected ErrWordTooLong, got %v", err)
	}
}

func TestDefaultList(t *testing.T) {
	got := Default()
	want := []string{"JAVASCRIPT", "HTML", "CSS", "REACT", "PYTHON", "JAVA", "ANGULAR", "NODE"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default list mismatch (-want +got):\n%s", diff)
	}
	got[0] = "CHANGED"
	if Default()[0] != "JAVASCRIPT" {
		t.Fatal("Default must return a copy")
	}
}

func TestReadWordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# comment\ngo\n\n rust \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readWordFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]string{"go", "rust"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
