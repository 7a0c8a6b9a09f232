package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/recite/internal/fsm"
	"github.com/verte-zerg/recite/internal/model"
)

func sampleResult() (model.TestScore, []model.EvaluatedWord) {
	score := model.TestScore{TotalWords: 2, CorrectWords: 1, IncorrectWords: 1, Accuracy: 0.5}
	words := []model.EvaluatedWord{
		{Word: "abc", Status: model.StatusCorrect},
		{Word: "def", Spoken: "deaf", Status: model.StatusIncorrect},
	}
	return score, words
}

func TestNewControllerInitialState(t *testing.T) {
	ctrl := NewController(nil, "")
	s := ctrl.Snapshot()

	require.Equal(t, fsm.ViewSetup, s.View)
	require.Equal(t, DefaultPassage, s.Passage)
	require.Zero(t, s.TimeLimit)
	require.Nil(t, s.Score)
	require.Nil(t, s.EvaluatedWords)
	require.Equal(t, SpeechUnknown, s.SpeechSupport)
	require.False(t, s.Alert.Open)
	require.True(t, s.Run.IsZero())
	require.Equal(t, ScreenSetup, ctrl.Screen())
}

func TestNewControllerUsesConfiguredPassage(t *testing.T) {
	ctrl := NewController(nil, "Read this instead.")
	require.Equal(t, "Read this instead.", ctrl.Snapshot().Passage)
}

func TestResolveSpeechSupportUnsupportedIsIdempotent(t *testing.T) {
	ctrl := NewController(nil, "")

	require.True(t, ctrl.ResolveSpeechSupport(false))
	require.False(t, ctrl.ResolveSpeechSupport(false))

	s := ctrl.Snapshot()
	require.Equal(t, SpeechUnsupported, s.SpeechSupport)
	require.True(t, s.Alert.Open)
	require.Equal(t, UnsupportedSpeechMessage, s.Alert.Message)
}

func TestResolveSpeechSupportNeverReverts(t *testing.T) {
	ctrl := NewController(nil, "")

	require.True(t, ctrl.ResolveSpeechSupport(true))
	require.False(t, ctrl.ResolveSpeechSupport(false))

	s := ctrl.Snapshot()
	require.Equal(t, SpeechSupported, s.SpeechSupport)
	require.False(t, s.Alert.Open)
}

func TestStartTestNormalizesTimeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit time.Duration
		want  time.Duration
	}{
		{name: "zero is untimed", limit: 0, want: 0},
		{name: "negative is untimed", limit: -5 * time.Second, want: 0},
		{name: "positive kept", limit: 30 * time.Second, want: 30 * time.Second},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewController(nil, "")
			require.NoError(t, ctrl.StartTest("abc", tc.limit))

			s := ctrl.Snapshot()
			require.Equal(t, fsm.ViewTesting, s.View)
			require.Equal(t, "abc", s.Passage)
			require.Equal(t, tc.want, s.TimeLimit)
			require.Equal(t, tc.want, s.Run.TimeLimit)
		})
	}
}

func TestStartTestClearsPriorResults(t *testing.T) {
	ctrl := NewController(nil, "")
	score, words := sampleResult()

	require.NoError(t, ctrl.StartTest("abc def", 0))
	require.NoError(t, ctrl.TestComplete(score, words))
	ctrl.Restart()

	s := ctrl.Snapshot()
	require.NotNil(t, s.Score)
	require.NotNil(t, s.EvaluatedWords)

	require.NoError(t, ctrl.StartTest("abc def", 0))
	s = ctrl.Snapshot()
	require.Equal(t, fsm.ViewTesting, s.View)
	require.Nil(t, s.Score)
	require.Nil(t, s.EvaluatedWords)
}

func TestTestCompleteStoresExactResult(t *testing.T) {
	ctrl := NewController(nil, "")
	score, words := sampleResult()

	require.NoError(t, ctrl.StartTest("abc def", 0))
	require.NoError(t, ctrl.TestComplete(score, words))

	s := ctrl.Snapshot()
	require.Equal(t, fsm.ViewResults, s.View)
	require.Equal(t, score, *s.Score)
	require.Equal(t, words, s.EvaluatedWords)
	require.True(t, s.Run.IsZero())
	require.Equal(t, ScreenResults, ctrl.Screen())

	props, ok := ctrl.ResultsProps()
	require.True(t, ok)
	require.Equal(t, score, props.Score)
	require.Equal(t, words, props.EvaluatedWords)
}

func TestTestCompleteOutsideTestingRejected(t *testing.T) {
	ctrl := NewController(nil, "")
	score, words := sampleResult()

	err := ctrl.TestComplete(score, words)
	require.Error(t, err)
	require.True(t, errors.Is(err, fsm.ErrInvalidTransition))
	require.Equal(t, fsm.ViewSetup, ctrl.View())
	require.Nil(t, ctrl.Snapshot().Score)
}

func TestStartTestOutsideSetupRejected(t *testing.T) {
	ctrl := NewController(nil, "")
	require.NoError(t, ctrl.StartTest("first", 0))
	run := ctrl.CurrentRun()

	err := ctrl.StartTest("second", 0)
	require.ErrorIs(t, err, fsm.ErrInvalidTransition)
	require.Equal(t, "first", ctrl.Snapshot().Passage)
	require.Equal(t, run, ctrl.CurrentRun())
}

func TestRestartAlwaysReturnsToSetup(t *testing.T) {
	ctrl := NewController(nil, "")

	ctrl.Restart()
	require.Equal(t, fsm.ViewSetup, ctrl.View())

	require.NoError(t, ctrl.StartTest("abc", 0))
	ctrl.Restart()
	require.Equal(t, fsm.ViewSetup, ctrl.View())
	require.True(t, ctrl.CurrentRun().IsZero())

	score, words := sampleResult()
	require.NoError(t, ctrl.StartTest("abc", 0))
	require.NoError(t, ctrl.TestComplete(score, words))
	ctrl.Restart()

	s := ctrl.Snapshot()
	require.Equal(t, fsm.ViewSetup, s.View)
	require.Equal(t, score, *s.Score)
	require.Equal(t, words, s.EvaluatedWords)
}

func TestRunKeyDiffersForIdenticalInputs(t *testing.T) {
	ctrl := NewController(nil, "")
	score, words := sampleResult()

	require.NoError(t, ctrl.StartTest("P1", 0))
	first := ctrl.CurrentRun()
	require.NoError(t, ctrl.TestComplete(score, words))
	ctrl.Restart()
	require.NoError(t, ctrl.StartTest("P1", 0))
	second := ctrl.CurrentRun()

	require.Equal(t, first.Passage, second.Passage)
	require.Equal(t, first.TimeLimit, second.TimeLimit)
	require.NotEqual(t, first, second)
	require.NotEqual(t, first.String(), second.String())
	require.Equal(t, "P1-no-limit#1", first.String())
}

func TestAlertLastWriterWins(t *testing.T) {
	ctrl := NewController(nil, "")

	ctrl.ShowAlert("first")
	ctrl.ShowAlert("second")
	props := ctrl.AlertProps()
	require.True(t, props.Open)
	require.Equal(t, "second", props.Message)

	props.Close()
	require.False(t, ctrl.AlertProps().Open)
	require.Empty(t, ctrl.AlertProps().Message)
}

func TestSnapshotIsolatedFromController(t *testing.T) {
	ctrl := NewController(nil, "")
	score, words := sampleResult()
	require.NoError(t, ctrl.StartTest("abc def", 0))
	require.NoError(t, ctrl.TestComplete(score, words))

	s := ctrl.Snapshot()
	s.Score.CorrectWords = 99
	s.EvaluatedWords[0].Word = "mutated"

	again := ctrl.Snapshot()
	require.Equal(t, 1, again.Score.CorrectWords)
	require.Equal(t, "abc", again.EvaluatedWords[0].Word)
}

func TestResolveSpeechSupportConcurrentCallsApplyOnce(t *testing.T) {
	ctrl := NewController(nil, "")

	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ctrl.ResolveSpeechSupport(false) {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), applied.Load())
	require.Equal(t, SpeechUnsupported, ctrl.Snapshot().SpeechSupport)
	require.True(t, ctrl.AlertProps().Open)
}
