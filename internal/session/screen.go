package session

import (
	"time"

	"github.com/verte-zerg/recite/internal/fsm"
	"github.com/verte-zerg/recite/internal/model"
)

// Screen is the one collaborator presented for the current session.
type Screen int

const (
	ScreenNone Screen = iota
	ScreenSetup
	ScreenTesting
	ScreenUnsupported
	ScreenResults
)

func (s Screen) String() string {
	switch s {
	case ScreenSetup:
		return "setup"
	case ScreenTesting:
		return "testing"
	case ScreenUnsupported:
		return "unsupported"
	case ScreenResults:
		return "results"
	default:
		return "none"
	}
}

// SetupProps seeds the setup screen.
type SetupProps struct {
	Passage       string
	TimeLimit     time.Duration
	SpeechSupport SpeechSupport
}

// CanStart reports whether starting a test is allowed.
func (p SetupProps) CanStart() bool {
	return p.SpeechSupport == SpeechSupported
}

// TestingProps are fixed for the lifetime of one run.
type TestingProps struct {
	Key       RunKey
	Passage   string
	TimeLimit time.Duration
	ShowAlert func(string)
}

// ResultsProps carry a completed run.
type ResultsProps struct {
	Score          model.TestScore
	EvaluatedWords []model.EvaluatedWord
}

// AlertProps drive the modal alert.
type AlertProps struct {
	Open    bool
	Message string
	Close   func()
}

// Screen selects what to present. Testing is only mounted once speech support is
// confirmed and results only when both score and words are stored.
func (c *Controller) Screen() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return screenFor(c.state)
}

func screenFor(s Session) Screen {
	switch s.View {
	case fsm.ViewSetup:
		return ScreenSetup
	case fsm.ViewTesting:
		if s.SpeechSupport == SpeechSupported {
			return ScreenTesting
		}
		return ScreenUnsupported
	case fsm.ViewResults:
		if s.Score != nil && s.EvaluatedWords != nil {
			return ScreenResults
		}
		return ScreenNone
	default:
		return ScreenNone
	}
}

// SetupProps returns the setup screen inputs.
func (c *Controller) SetupProps() SetupProps {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return SetupProps{
		Passage:       c.state.Passage,
		TimeLimit:     c.state.TimeLimit,
		SpeechSupport: c.state.SpeechSupport,
	}
}

// TestingProps returns the run inputs, false when testing must not be mounted.
func (c *Controller) TestingProps() (TestingProps, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if screenFor(c.state) != ScreenTesting {
		return TestingProps{}, false
	}
	return TestingProps{
		Key:       c.state.Run,
		Passage:   c.state.Passage,
		TimeLimit: c.state.TimeLimit,
		ShowAlert: c.ShowAlert,
	}, true
}

// ResultsProps returns the completed run, false when results must not be mounted.
func (c *Controller) ResultsProps() (ResultsProps, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if screenFor(c.state) != ScreenResults {
		return ResultsProps{}, false
	}
	return ResultsProps{
		Score:          *c.state.Score,
		EvaluatedWords: append([]model.EvaluatedWord{}, c.state.EvaluatedWords...),
	}, true
}

// AlertProps returns the alert state and its close callback.
func (c *Controller) AlertProps() AlertProps {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return AlertProps{
		Open:    c.state.Alert.Open,
		Message: c.state.Alert.Message,
		Close:   c.CloseAlert,
	}
}
