package generator

import (
	"strings"
	"testing"
)

func TestPassageSentences(t *testing.T) {
	g := NewWithSeed(1)
	text := g.Passage([]string{"alpha"}, 5, 2)
	if text != "Alpha alpha. Alpha alpha. Alpha." {
		t.Fatalf("unexpected passage: %q", text)
	}
}

func TestPassageWordCount(t *testing.T) {
	g := NewWithSeed(42)
	text := g.Passage([]string{"one", "two", "three"}, 24, 8)
	if got := len(strings.Fields(text)); got != 24 {
		t.Fatalf("expected 24 words, got %d", got)
	}
	if strings.Count(text, ".") != 3 {
		t.Fatalf("expected 3 sentences, got %q", text)
	}
}

func TestPassageEmptyInputs(t *testing.T) {
	g := NewWithSeed(1)
	if text := g.Passage(nil, 10, 5); text != "" {
		t.Fatalf("expected empty passage, got %q", text)
	}
	if text := g.Passage([]string{"a"}, 0, 5); text != "" {
		t.Fatalf("expected empty passage, got %q", text)
	}
}

func TestPassageSingleSentenceWhenLengthUnset(t *testing.T) {
	g := NewWithSeed(1)
	text := g.Passage([]string{"word"}, 3, 0)
	if text != "Word word word." {
		t.Fatalf("unexpected passage: %q", text)
	}
}

func TestSourceGenerate(t *testing.T) {
	src := Source{Gen: NewWithSeed(7), Words: []string{"read", "aloud"}, Count: 4, SentenceLen: 2}
	text, ok := src.Generate()
	if !ok {
		t.Fatalf("expected a passage")
	}
	if got := len(strings.Fields(text)); got != 4 {
		t.Fatalf("expected 4 words, got %d", got)
	}

	if _, ok := (Source{Gen: NewWithSeed(7)}).Generate(); ok {
		t.Fatalf("expected no passage without words")
	}
}
