package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/evaluate"
	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/session"
	"github.com/verte-zerg/recite/internal/speech"
)

const clockInterval = 100 * time.Millisecond

// runMsg is delivered only to the testing model of the run that produced it.
type runMsg interface {
	runKey() session.RunKey
}

type recognizerStartedMsg struct {
	key    session.RunKey
	stream speech.Stream
	err    error
}

type segmentMsg struct {
	key     session.RunKey
	segment speech.Segment
	stream  speech.Stream
}

type streamEndedMsg struct {
	key session.RunKey
	err error
}

// testCompleteMsg carries a finished run to the controller.
type testCompleteMsg struct {
	key   session.RunKey
	score model.TestScore
	words []model.EvaluatedWord
}

func (m recognizerStartedMsg) runKey() session.RunKey { return m.key }
func (m segmentMsg) runKey() session.RunKey           { return m.key }
func (m streamEndedMsg) runKey() session.RunKey       { return m.key }

type testingModel struct {
	props      session.TestingProps
	recognizer speech.Recognizer
	logger     *slog.Logger
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	finals  []string
	interim string
	words   []model.EvaluatedWord

	timed     bool
	timer     timer.Model
	stopwatch stopwatch.Model
	startedAt time.Time
	listening bool
	done      bool

	help  help.Model
	width int
}

func newTestingModel(props session.TestingProps, recognizer speech.Recognizer, logger *slog.Logger, now func() time.Time) *testingModel {
	if now == nil {
		now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &testingModel{
		props:      props,
		recognizer: recognizer,
		logger:     logger,
		now:        now,
		ctx:        ctx,
		cancel:     cancel,
		timed:      props.TimeLimit > 0,
		help:       help.New(),
	}
	if m.timed {
		m.timer = timer.NewWithInterval(props.TimeLimit, clockInterval)
	} else {
		m.stopwatch = stopwatch.NewWithInterval(clockInterval)
	}
	m.words = evaluate.Align(props.Passage, "")
	return m
}

func (m *testingModel) key() session.RunKey {
	return m.props.Key
}

func (m *testingModel) Init() tea.Cmd {
	m.startedAt = m.now()
	var clock tea.Cmd
	if m.timed {
		clock = m.timer.Init()
	} else {
		clock = m.stopwatch.Init()
	}
	return tea.Batch(m.startRecognizer(), clock)
}

// stop releases the recognizer. Safe to call more than once.
func (m *testingModel) stop() {
	m.cancel()
}

func (m *testingModel) startRecognizer() tea.Cmd {
	ctx, key, rec := m.ctx, m.props.Key, m.recognizer
	return func() tea.Msg {
		if rec == nil {
			return recognizerStartedMsg{key: key, err: fmt.Errorf("no speech recognizer configured")}
		}
		stream, err := rec.Start(ctx)
		return recognizerStartedMsg{key: key, stream: stream, err: err}
	}
}

func waitForSegment(key session.RunKey, stream speech.Stream) tea.Cmd {
	return func() tea.Msg {
		seg, ok := <-stream.Segments
		if !ok {
			return streamEndedMsg{key: key, err: stream.Err()}
		}
		return segmentMsg{key: key, segment: seg, stream: stream}
	}
}

func (m *testingModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Finish) {
			return m.finish(false)
		}
		return nil
	case recognizerStartedMsg:
		if msg.err != nil {
			m.logger.Error("speech recognizer failed to start", "run", m.props.Key.String(), "error", msg.err)
			m.props.ShowAlert(fmt.Sprintf("Could not start speech recognition: %v", msg.err))
			return nil
		}
		m.listening = true
		m.logger.Info("speech recognizer started", "run", m.props.Key.String())
		return waitForSegment(m.props.Key, msg.stream)
	case segmentMsg:
		if m.done {
			return nil
		}
		m.applySegment(msg.segment)
		if evaluate.Reached(evaluate.Align(m.props.Passage, m.transcript(false))) {
			return m.finish(false)
		}
		return waitForSegment(m.props.Key, msg.stream)
	case streamEndedMsg:
		m.listening = false
		if m.done {
			return nil
		}
		if msg.err != nil {
			m.logger.Error("speech recognizer stopped", "run", m.props.Key.String(), "error", msg.err)
			m.props.ShowAlert(fmt.Sprintf("Speech recognition stopped: %v", msg.err))
			return nil
		}
		return m.finish(false)
	case timer.TimeoutMsg:
		if !m.timed || msg.ID != m.timer.ID() {
			return nil
		}
		return m.finish(true)
	case timer.TickMsg, timer.StartStopMsg:
		if !m.timed || m.done {
			return nil
		}
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return cmd
	case stopwatch.TickMsg, stopwatch.StartStopMsg, stopwatch.ResetMsg:
		if m.timed || m.done {
			return nil
		}
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Update(msg)
		return cmd
	}
	return nil
}

func (m *testingModel) applySegment(seg speech.Segment) {
	text := strings.TrimSpace(seg.Text)
	if seg.Final {
		if text != "" {
			m.finals = append(m.finals, text)
		}
		m.interim = ""
	} else {
		m.interim = text
	}
	m.words = evaluate.Align(m.props.Passage, m.transcript(true))
}

func (m *testingModel) transcript(withInterim bool) string {
	parts := append([]string{}, m.finals...)
	if withInterim && m.interim != "" {
		parts = append(parts, m.interim)
	}
	return strings.Join(parts, " ")
}

// elapsed is the reading time, capped at the limit for timed runs.
func (m *testingModel) elapsed(timedOut bool) time.Duration {
	if m.timed && timedOut {
		return m.props.TimeLimit
	}
	d := m.now().Sub(m.startedAt)
	if d < 0 {
		d = 0
	}
	if m.timed && d > m.props.TimeLimit {
		d = m.props.TimeLimit
	}
	return d
}

// finish scores the final transcript once and reports it. Interim text is discarded.
func (m *testingModel) finish(timedOut bool) tea.Cmd {
	if m.done {
		return nil
	}
	m.done = true
	m.stop()
	words := evaluate.Align(m.props.Passage, m.transcript(false))
	score := evaluate.Score(words, m.elapsed(timedOut), timedOut)
	m.words = words
	m.logger.Info("reading finished",
		"run", m.props.Key.String(),
		"timed_out", timedOut,
		"correct", score.CorrectWords,
		"total", score.TotalWords,
		"wpm", score.WPM,
	)
	key := m.props.Key
	return func() tea.Msg {
		return testCompleteMsg{key: key, score: score, words: words}
	}
}

func (m *testingModel) setWidth(width int) {
	m.width = width
}

func (m *testingModel) View() string {
	width := contentWidth(m.width)
	var b strings.Builder

	clock := m.stopwatch.View()
	if m.timed {
		clock = m.timer.View()
	}
	status := "starting recognizer…"
	if m.listening {
		status = "listening"
	}
	b.WriteString(titleStyle.Render(clock))
	b.WriteString("  ")
	b.WriteString(footerStyle.Render(status))
	b.WriteString("\n\n")

	b.WriteString(wrapSpans(buildStyledWords(m.words, nextWordIndex(m.words)), width))
	b.WriteString("\n\n")
	if m.interim != "" {
		b.WriteString(interimStyle.Render(m.interim))
		b.WriteString("\n\n")
	}
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Finish, keys.Back, keys.Quit}))
	if width <= 0 {
		return b.String()
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
