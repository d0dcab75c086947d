package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/cc-convo/internal/parse"
	"github.com/Zuo-Peng/cc-convo/internal/render"
	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	sessionID string
	content   string
	err       error
}

// loadPreviewCmd returns a tea.Cmd that parses and renders one session's
// conversation off the update loop.
func loadPreviewCmd(session scan.Session, width int) tea.Cmd {
	return func() tea.Msg {
		outcome, err := parse.ParseSession(session.Path, false)
		if err != nil {
			return previewRenderedMsg{sessionID: session.ID, err: err}
		}
		content, _ := render.Conversation(&session, outcome.Events, render.Options{
			Width: width,
			Color: true,
		})
		return previewRenderedMsg{sessionID: session.ID, content: content}
	}
}
