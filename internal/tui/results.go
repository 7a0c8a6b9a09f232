package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/recite/internal/session"
)

type resultsModel struct {
	props session.ResultsProps
	help  help.Model
	width int
}

func newResultsModel(props session.ResultsProps) *resultsModel {
	return &resultsModel{props: props, help: help.New()}
}

func (m *resultsModel) setWidth(width int) {
	m.width = width
}

func (m *resultsModel) View() string {
	score := m.props.Score
	cards := []string{
		renderCard("WPM", fmt.Sprintf("%.1f", score.WPM)),
		renderCard("Accuracy", fmt.Sprintf("%.1f%%", score.Accuracy*100)),
		renderCard("Correct", fmt.Sprintf("%d/%d", score.CorrectWords, score.TotalWords)),
		renderCard("Missed", fmt.Sprintf("%d", score.IncorrectWords+score.SkippedWords)),
		renderCard("Time", formatDuration(score.Duration)),
	}

	var b strings.Builder
	title := "Results"
	if score.TimedOut {
		title = "Results (time is up)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	b.WriteString(wrapSpans(buildStyledWords(m.props.EvaluatedWords, -1), contentWidth(m.width)))
	b.WriteString("\n\n")
	if score.PendingWords > 0 {
		b.WriteString(footerStyle.Render(fmt.Sprintf("%d words not reached", score.PendingWords)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Restart, keys.Quit}))
	return b.String()
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
