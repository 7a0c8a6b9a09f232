// Package evaluate aligns spoken words with the reference passage and scores the reading.
package evaluate

import (
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/stats"
)

type op int

const (
	opMatch op = iota
	opSubstitute
	opSkip
	opExtra
)

// Normalize lowercases a word and drops everything except letters, digits and marks.
func Normalize(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Align evaluates every reference word against the spoken transcript. Reference words
// after the last one the reader reached are pending; extra spoken words are dropped.
func Align(reference, spoken string) []model.EvaluatedWord {
	refWords := referenceWords(reference)
	spokenWords := strings.Fields(spoken)
	out := make([]model.EvaluatedWord, len(refWords))
	for i, w := range refWords {
		out[i] = model.EvaluatedWord{Word: w, Status: model.StatusPending}
	}
	if len(refWords) == 0 || len(spokenWords) == 0 {
		return out
	}

	ref := normalizeAll(refWords)
	hyp := normalizeAll(spokenWords)
	n, m := len(ref), len(hyp)

	// cost[i][j] aligns ref[:i] with hyp[:j].
	cost := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]int, m+1)
		cost[i][0] = i
	}
	for j := 0; j <= m; j++ {
		cost[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := cost[i-1][j-1]
			if ref[i-1] != hyp[j-1] {
				sub++
			}
			cost[i][j] = min(sub, cost[i-1][j]+1, cost[i][j-1]+1)
		}
	}

	// Unread trailing reference words are free; keep the longest reached prefix on ties.
	end := 0
	for i := 1; i <= n; i++ {
		if cost[i][m] <= cost[end][m] {
			end = i
		}
	}

	i, j := end, m
	for i > 0 || j > 0 {
		switch step(cost, ref, hyp, i, j) {
		case opMatch:
			out[i-1].Status = model.StatusCorrect
			out[i-1].Spoken = spokenWords[j-1]
			i--
			j--
		case opSubstitute:
			out[i-1].Status = model.StatusIncorrect
			out[i-1].Spoken = spokenWords[j-1]
			i--
			j--
		case opSkip:
			out[i-1].Status = model.StatusSkipped
			i--
		case opExtra:
			j--
		}
	}
	return out
}

func step(cost [][]int, ref, hyp []string, i, j int) op {
	if i > 0 && j > 0 {
		if ref[i-1] == hyp[j-1] && cost[i][j] == cost[i-1][j-1] {
			return opMatch
		}
		if ref[i-1] != hyp[j-1] && cost[i][j] == cost[i-1][j-1]+1 {
			return opSubstitute
		}
	}
	if i > 0 && cost[i][j] == cost[i-1][j]+1 {
		return opSkip
	}
	return opExtra
}

// referenceWords splits the passage on whitespace. A token that cannot be spoken, such as
// a standalone dash, is joined to the word before it, or to the next word at the start.
func referenceWords(reference string) []string {
	var out []string
	lead := ""
	for _, tok := range strings.Fields(reference) {
		if Normalize(tok) == "" {
			switch {
			case len(out) > 0:
				out[len(out)-1] += " " + tok
			case lead != "":
				lead += " " + tok
			default:
				lead = tok
			}
			continue
		}
		if lead != "" {
			tok = lead + " " + tok
			lead = ""
		}
		out = append(out, tok)
	}
	if lead != "" {
		out = append(out, lead)
	}
	return out
}

func normalizeAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Normalize(w)
	}
	return out
}

// Reached reports whether the reader got to the last reference word.
func Reached(words []model.EvaluatedWord) bool {
	if len(words) == 0 {
		return false
	}
	return words[len(words)-1].Status != model.StatusPending
}

// Score totals an evaluation.
func Score(words []model.EvaluatedWord, elapsed time.Duration, timedOut bool) model.TestScore {
	score := model.TestScore{
		TotalWords: len(words),
		Duration:   elapsed,
		TimedOut:   timedOut,
	}
	for _, w := range words {
		switch w.Status {
		case model.StatusCorrect:
			score.CorrectWords++
		case model.StatusIncorrect:
			score.IncorrectWords++
		case model.StatusSkipped:
			score.SkippedWords++
		default:
			score.PendingWords++
		}
	}
	attempted := score.TotalWords - score.PendingWords
	score.WPM, score.Accuracy = stats.WordMetrics(score.CorrectWords, attempted, elapsed)
	return score
}
