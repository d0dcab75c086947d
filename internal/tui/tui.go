package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

const debounceDelay = 200 * time.Millisecond

type debounceTickMsg struct {
	filter string
}

type model struct {
	sessions    []scan.Session
	filtered    []scan.Session
	filter      string
	filterInput textinput.Model
	preview     viewport.Model
	previewID   string // session id currently rendered, to skip duplicates
	cursor      int
	listOffset  int
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *scan.Session
}

func initialModel(sessions []scan.Session) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		sessions:    sessions,
		filtered:    sessions,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the session browser and blocks until it exits. Enter copies a
// resume command for the selected session to the clipboard.
func Run(sessions []scan.Session) error {
	p := tea.NewProgram(initialModel(sessions), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.chosen != nil {
		return copyResumeCommand(fm.chosen)
	}
	return nil
}

// copyResumeCommand puts "claude --resume <id>" on the clipboard, printing
// it instead when no clipboard is available.
func copyResumeCommand(session *scan.Session) error {
	cmd := fmt.Sprintf("claude --resume %s", session.ID)
	if err := clipboard.WriteAll(cmd); err != nil {
		fmt.Println(cmd)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", cmd)
	return nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.previewWidth(), m.panelHeight())
		m.previewID = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				s := m.filtered[m.cursor]
				m.chosen = &s
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if newFilter := m.filterInput.Value(); newFilter != m.filter {
			m.filter = newFilter
			cmds = append(cmds, scheduleDebouncedFilter(newFilter))
		}
		return m, tea.Batch(cmds...)

	case debounceTickMsg:
		if msg.filter == m.filter {
			m.filtered = filterSessions(m.sessions, msg.filter)
			m.cursor = 0
			m.listOffset = 0
			m.previewID = ""
			cmds = append(cmds, m.loadCurrentPreview())
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		// drop stale renders from a superseded selection
		if len(m.filtered) == 0 || m.cursor >= len(m.filtered) ||
			m.filtered[m.cursor].ID != msg.sessionID {
			return m, nil
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		m.previewID = msg.sessionID
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d/%d sessions", len(m.filtered), len(m.sessions)),
		"up/dn navigate",
		"C-u/C-d preview",
		"Enter copy resume cmd",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) loadCurrentPreview() tea.Cmd {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	s := m.filtered[m.cursor]
	if s.ID == m.previewID {
		return nil
	}
	return loadPreviewCmd(s, m.previewWidth())
}

func scheduleDebouncedFilter(filter string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{filter: filter}
	})
}

// filterSessions keeps sessions whose id, project, or path contains the
// filter, case-insensitively.
func filterSessions(sessions []scan.Session, filter string) []scan.Session {
	if filter == "" {
		return sessions
	}
	needle := strings.ToLower(filter)
	var out []scan.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.ID), needle) ||
			strings.Contains(strings.ToLower(s.Project), needle) ||
			strings.Contains(strings.ToLower(s.Path), needle) {
			out = append(out, s)
		}
	}
	return out
}
