package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/recite/internal/session"
)

func renderAlert(props session.AlertProps, width int) string {
	body := errorStyle.Render(props.Message) + "\n\n" + help.New().ShortHelpView([]key.Binding{keys.Dismiss})
	style := modalStyle
	if w := contentWidth(width); w > 0 {
		style = style.Width(w / 2)
	}
	return style.Render(body)
}

func renderUnsupported(width int) string {
	body := titleStyle.Render("Speech recognition unavailable") + "\n\n" +
		session.UnsupportedSpeechMessage + "\n\n" +
		help.New().ShortHelpView([]key.Binding{keys.Restart, keys.Quit})
	if w := contentWidth(width); w > 0 {
		return modalStyle.Width(w).Render(body)
	}
	return body
}
