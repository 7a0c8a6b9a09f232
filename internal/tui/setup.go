package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/model"
	"github.com/verte-zerg/recite/internal/session"
)

const (
	focusPassage = iota
	focusLimit
)

// startTestMsg asks the app to start a test with the setup values.
type startTestMsg struct {
	passage string
	limit   time.Duration
}

// PassageSource produces practice passages for the setup screen.
type PassageSource interface {
	Generate() (string, bool)
}

type setupModel struct {
	passage textarea.Model
	limit   textinput.Model
	help    help.Model
	focus   int

	support session.SpeechSupport
	library []model.Passage
	libIdx  int
	source  PassageSource

	errMsg string
	width  int
}

func newSetupModel(props session.SetupProps, library []model.Passage, source PassageSource) *setupModel {
	ta := textarea.New()
	ta.Placeholder = "Type or paste the passage to read aloud"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetValue(props.Passage)

	ti := textinput.New()
	ti.Prompt = "Time limit (seconds, blank for none): "
	ti.Placeholder = "none"
	ti.CharLimit = 6
	if props.TimeLimit > 0 {
		ti.SetValue(strconv.Itoa(int(props.TimeLimit / time.Second)))
	}

	m := &setupModel{
		passage: ta,
		limit:   ti,
		help:    help.New(),
		support: props.SpeechSupport,
		library: library,
		libIdx:  -1,
		source:  source,
	}
	m.passage.Focus()
	return m
}

func (m *setupModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *setupModel) setSupport(s session.SpeechSupport) {
	m.support = s
}

func (m *setupModel) setWidth(width int) {
	m.width = width
	w := contentWidth(width)
	if w <= 0 {
		return
	}
	m.passage.SetWidth(w)
	m.limit.Width = w
}

func (m *setupModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}
	switch {
	case key.Matches(keyMsg, keys.Start):
		return m.submit()
	case key.Matches(keyMsg, keys.Focus):
		return m.toggleFocus()
	case key.Matches(keyMsg, keys.Next):
		m.cycleLibrary(1)
		return nil
	case key.Matches(keyMsg, keys.Prev):
		m.cycleLibrary(-1)
		return nil
	case key.Matches(keyMsg, keys.Generate):
		m.generate()
		return nil
	}
	m.errMsg = ""
	return m.forward(msg)
}

func (m *setupModel) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusPassage {
		m.passage, cmd = m.passage.Update(msg)
	} else {
		m.limit, cmd = m.limit.Update(msg)
	}
	return cmd
}

func (m *setupModel) toggleFocus() tea.Cmd {
	if m.focus == focusPassage {
		m.focus = focusLimit
		m.passage.Blur()
		return m.limit.Focus()
	}
	m.focus = focusPassage
	m.limit.Blur()
	return m.passage.Focus()
}

func (m *setupModel) cycleLibrary(delta int) {
	if len(m.library) == 0 {
		m.errMsg = "No saved passages. Add one with: recite passages add"
		return
	}
	m.libIdx = (m.libIdx + delta + len(m.library)) % len(m.library)
	p := m.library[m.libIdx]
	m.passage.SetValue(p.Body)
	if p.TimeLimit > 0 {
		m.limit.SetValue(strconv.Itoa(int(p.TimeLimit / time.Second)))
	} else {
		m.limit.SetValue("")
	}
	m.errMsg = ""
}

func (m *setupModel) generate() {
	if m.source == nil {
		m.errMsg = "No word list loaded; set [generator] wordlist in the config"
		return
	}
	text, ok := m.source.Generate()
	if !ok {
		m.errMsg = "Word list is empty"
		return
	}
	m.passage.SetValue(text)
	m.errMsg = ""
}

// submit validates the form. Non-positive limits pass through; the session treats them
// as untimed.
func (m *setupModel) submit() tea.Cmd {
	if m.support != session.SpeechSupported {
		m.errMsg = "Speech recognition is unavailable; starting a test is disabled"
		return nil
	}
	passage := strings.TrimSpace(m.passage.Value())
	if passage == "" {
		m.errMsg = "Passage must not be empty"
		return nil
	}
	limit, err := parseLimit(m.limit.Value())
	if err != nil {
		m.errMsg = "Time limit must be a whole number of seconds"
		return nil
	}
	m.errMsg = ""
	return func() tea.Msg {
		return startTestMsg{passage: passage, limit: limit}
	}
}

func parseLimit(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	secs, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse time limit %q: %w", value, err)
	}
	return time.Duration(secs) * time.Second, nil
}

func (m *setupModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Reading test"))
	b.WriteString("\n\n")
	b.WriteString(m.passage.View())
	b.WriteString("\n\n")
	b.WriteString(m.limit.View())
	b.WriteString("\n\n")
	switch m.support {
	case session.SpeechUnknown:
		b.WriteString(footerStyle.Render("Checking speech recognition…"))
		b.WriteString("\n")
	case session.SpeechUnsupported:
		b.WriteString(errorStyle.Render("Speech recognition is unavailable."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.libIdx >= 0 && m.libIdx < len(m.library) {
		b.WriteString(footerStyle.Render(fmt.Sprintf("Saved passage %d/%d: %s", m.libIdx+1, len(m.library), m.library[m.libIdx].Title)))
		b.WriteString("\n")
	}
	bindings := []key.Binding{keys.Start, keys.Focus}
	if len(m.library) > 0 {
		bindings = append(bindings, keys.Next, keys.Prev)
	}
	if m.source != nil {
		bindings = append(bindings, keys.Generate)
	}
	bindings = append(bindings, keys.Quit)
	b.WriteString(m.help.ShortHelpView(bindings))
	return lipgloss.NewStyle().Width(contentWidth(m.width)).Render(b.String())
}
