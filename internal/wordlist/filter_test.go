package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterKeepsAcceptedWords(t *testing.T) {
	got := Filter([]string{"fox", "naïve", "dog"}, FilterForLang("en"))
	if len(got) != 2 || got[0] != "fox" || got[1] != "dog" {
		t.Fatalf("unexpected filtered words: %v", got)
	}
	if got := Filter([]string{"naïve"}, FilterForLang("fr")); len(got) != 1 {
		t.Fatalf("expected other languages to keep every word, got %v", got)
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta  \n"), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 || words[0] != "alpha" || words[1] != "beta" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}

func TestLoadWordsFrequencyListAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freq.txt")
	body := "# word frequency\nthe 5000\nof 3100\nthe 12\nand\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	want := []string{"the", "of", "and"}
	if strings.Join(words, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, words)
	}
}
