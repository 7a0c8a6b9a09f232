// Package model defines shared data structures.
package model

import "time"

// Config defines reading test settings resolved from flags and the config file.
type Config struct {
	Passage       string
	TimeLimit     time.Duration
	SpeechCommand string
	Lang          string
	WordListPath  string
	Words         int
	SentenceLen   int
}

// WordStatus classifies how a reference word was read.
type WordStatus int

const (
	// StatusPending marks a word the reader never reached.
	StatusPending WordStatus = iota
	// StatusCorrect marks a word read as written.
	StatusCorrect
	// StatusIncorrect marks a word replaced by a different spoken word.
	StatusIncorrect
	// StatusSkipped marks a word passed over without being spoken.
	StatusSkipped
)

func (s WordStatus) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	case StatusSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// EvaluatedWord is the evaluation of one reference word.
type EvaluatedWord struct {
	Word   string
	Spoken string
	Status WordStatus
}

// TestScore summarizes a completed reading test.
type TestScore struct {
	TotalWords     int
	CorrectWords   int
	IncorrectWords int
	SkippedWords   int
	PendingWords   int
	Accuracy       float64
	WPM            float64
	Duration       time.Duration
	TimedOut       bool
}

// Passage is a saved reading passage from the library.
type Passage struct {
	ID        int64
	Title     string
	Body      string
	TimeLimit time.Duration
	CreatedAt time.Time
}
