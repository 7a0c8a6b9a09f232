// Package session owns the reading test state and the transitions between screens.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/recite/internal/fsm"
	"github.com/verte-zerg/recite/internal/model"
)

// DefaultPassage is shown in setup until the user picks another one.
const DefaultPassage = "The quick brown fox jumps over the lazy dog. Reading and typing accurately are important skills."

// UnsupportedSpeechMessage is raised once when no speech recognizer is available.
const UnsupportedSpeechMessage = "Speech recognition is not available. Configure a recognizer command (see `recite doctor`) and try again."

// SpeechSupport is resolved once at startup and never returns to unknown.
type SpeechSupport int

const (
	SpeechUnknown SpeechSupport = iota
	SpeechSupported
	SpeechUnsupported
)

func (s SpeechSupport) String() string {
	switch s {
	case SpeechSupported:
		return "supported"
	case SpeechUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Alert is the single modal message slot.
type Alert struct {
	Open    bool
	Message string
}

// RunKey identifies one testing run. Seq makes repeated runs with the same inputs distinct.
type RunKey struct {
	Passage   string
	TimeLimit time.Duration
	Seq       uint64
}

// IsZero reports whether no run has been started.
func (k RunKey) IsZero() bool {
	return k.Seq == 0
}

func (k RunKey) String() string {
	limit := "no-limit"
	if k.TimeLimit > 0 {
		limit = k.TimeLimit.String()
	}
	return fmt.Sprintf("%s-%s#%d", k.Passage, limit, k.Seq)
}

// Session is a value snapshot of the controller state.
type Session struct {
	View           fsm.View
	Passage        string
	TimeLimit      time.Duration
	Score          *model.TestScore
	EvaluatedWords []model.EvaluatedWord
	SpeechSupport  SpeechSupport
	Alert          Alert
	Run            RunKey
}

// Controller serializes every mutation of the session.
type Controller struct {
	logger *slog.Logger

	mu      sync.RWMutex
	state   Session
	lastSeq uint64
}

// NewController builds a controller in setup with the given default passage.
func NewController(logger *slog.Logger, passage string) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if strings.TrimSpace(passage) == "" {
		passage = DefaultPassage
	}
	return &Controller{
		logger: logger.With("component", "session"),
		state: Session{
			View:          fsm.ViewSetup,
			Passage:       passage,
			SpeechSupport: SpeechUnknown,
		},
	}
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Session {
	s := c.state
	if s.Score != nil {
		score := *s.Score
		s.Score = &score
	}
	if s.EvaluatedWords != nil {
		s.EvaluatedWords = append([]model.EvaluatedWord{}, s.EvaluatedWords...)
	}
	return s
}

// View returns the current view.
func (c *Controller) View() fsm.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.View
}

// CurrentRun returns the identity of the active testing run, zero outside testing.
func (c *Controller) CurrentRun() RunKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Run
}

// StartTest moves setup into testing with a fresh run identity.
func (c *Controller) StartTest(passage string, limit time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state.View, fsm.EventStart)
	if err != nil {
		c.logger.Warn("start rejected", "view", string(c.state.View), "error", err.Error())
		return err
	}
	if limit <= 0 {
		limit = 0
	}
	c.lastSeq++
	c.state.View = next
	c.state.Passage = passage
	c.state.TimeLimit = limit
	c.state.Score = nil
	c.state.EvaluatedWords = nil
	c.state.Run = RunKey{Passage: passage, TimeLimit: limit, Seq: c.lastSeq}
	c.logger.Info("test started", "run", c.lastSeq, "words", len(strings.Fields(passage)), "time_limit", limit.String())
	return nil
}

// TestComplete stores the result of the active run and moves to results.
func (c *Controller) TestComplete(score model.TestScore, words []model.EvaluatedWord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state.View, fsm.EventComplete)
	if err != nil {
		c.logger.Warn("completion rejected", "view", string(c.state.View), "error", err.Error())
		return err
	}
	c.state.View = next
	c.state.Score = &score
	c.state.EvaluatedWords = words
	c.state.Run = RunKey{}
	c.logger.Info("test completed", "correct", score.CorrectWords, "total", score.TotalWords, "wpm", score.WPM)
	return nil
}

// Restart returns to setup. Results stay stored until the next StartTest.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state.View, fsm.EventRestart)
	if err != nil {
		// Restart must always land in setup.
		c.logger.Warn("restart from unexpected view", "view", string(c.state.View), "error", err.Error())
		next = fsm.ViewSetup
	}
	if c.state.View != next {
		c.logger.Info("restart", "from", string(c.state.View))
	}
	c.state.View = next
	c.state.Run = RunKey{}
}

// ShowAlert opens the alert, replacing any message already shown.
func (c *Controller) ShowAlert(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Alert = Alert{Open: true, Message: message}
	c.logger.Info("alert", "message", message)
}

// CloseAlert dismisses the alert.
func (c *Controller) CloseAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Alert = Alert{}
}

// ResolveSpeechSupport records the capability probe result. Only the first call has
// any effect; it returns whether this call was applied.
func (c *Controller) ResolveSpeechSupport(supported bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.SpeechSupport != SpeechUnknown {
		return false
	}
	if supported {
		c.state.SpeechSupport = SpeechSupported
		c.logger.Info("speech recognition available")
		return true
	}
	c.state.SpeechSupport = SpeechUnsupported
	c.state.Alert = Alert{Open: true, Message: UnsupportedSpeechMessage}
	c.logger.Warn("speech recognition unavailable")
	return true
}
