// Package speech runs the external speech recognizer and probes for its availability.
package speech

import (
	"context"
	"errors"
)

// ErrEmptyCommand indicates no recognizer command is configured.
var ErrEmptyCommand = errors.New("speech recognizer command is empty")

// Segment is one transcription update. Interim segments replace each other until a
// final segment is emitted.
type Segment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Stream delivers segments until the recognizer exits. Err is set once Segments closes
// when the recognizer stopped abnormally.
type Stream struct {
	Segments <-chan Segment
	err      *streamErr
}

type streamErr struct {
	done chan struct{}
	err  error
}

// Err blocks until the stream is finished and returns the exit error, if any.
func (s Stream) Err() error {
	if s.err == nil {
		return nil
	}
	<-s.err.done
	return s.err.err
}

// NewStream builds a stream over a caller-owned channel. finish must be called exactly
// once after the channel is closed.
func NewStream(segments <-chan Segment) (Stream, func(error)) {
	se := &streamErr{done: make(chan struct{})}
	finish := func(err error) {
		se.err = err
		close(se.done)
	}
	return Stream{Segments: segments, err: se}, finish
}

// Recognizer abstracts live capture and transcription.
type Recognizer interface {
	Start(ctx context.Context) (Stream, error)
}

// CapabilityProvider reports whether speech recognition can run in this environment.
type CapabilityProvider interface {
	DetectSpeechSupport() bool
}

// StaticProvider answers the capability probe with a fixed value.
type StaticProvider bool

func (p StaticProvider) DetectSpeechSupport() bool {
	return bool(p)
}
