// Package generator builds practice reading passages.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Generator produces randomized practice passages.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Passage picks count words uniformly and groups them into sentences of sentenceLen
// words. Each sentence starts capitalized and ends with a period.
func (g *Generator) Passage(words []string, count, sentenceLen int) string {
	if len(words) == 0 || count <= 0 {
		return ""
	}
	if sentenceLen <= 0 {
		sentenceLen = count
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		pos := i % sentenceLen
		if pos == 0 {
			word = capitalize(word)
		}
		if pos == sentenceLen-1 || i == count-1 {
			word += "."
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Source binds a generator to a loaded word list.
type Source struct {
	Gen         *Generator
	Words       []string
	Count       int
	SentenceLen int
}

// Generate returns a fresh passage, false when the word list is empty.
func (s Source) Generate() (string, bool) {
	if s.Gen == nil || len(s.Words) == 0 {
		return "", false
	}
	text := s.Gen.Passage(s.Words, s.Count, s.SentenceLen)
	return text, text != ""
}
