package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dm-chat/internal/model"
	"dm-chat/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SessionController is what the terminal presentation needs from
// session.Controller.
type SessionController interface {
	Submit(ctx context.Context, raw string) (*session.Request, error)
	Clear(ctx context.Context) error
	Snapshot() model.Snapshot
	Subscribe() (<-chan model.Snapshot, func())
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6600"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8533"))
	dmStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F1F1F1"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5534B"))
	typingStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#889"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	paneStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4a555c"))
)

const (
	headerHeight = 1
	footerHeight = 3
)

type snapshotMsg model.Snapshot

type clearResultMsg struct {
	err error
}

type Model struct {
	ctx     context.Context
	session SessionController
	updates <-chan model.Snapshot
	title   string

	input    textinput.Model
	viewport viewport.Model
	snap     model.Snapshot
	status   string
	ready    bool
}

// New builds the model. updates is usually a channel obtained from
// SessionController.Subscribe.
func New(ctx context.Context, s SessionController, updates <-chan model.Snapshot, title string) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message and press Enter…"
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()

	return Model{
		ctx:      ctx,
		session:  s,
		updates:  updates,
		title:    title,
		input:    ti,
		viewport: viewport.New(80, 20),
		snap:     s.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForSnapshot(m.updates))
}

func waitForSnapshot(updates <-chan model.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) clearCmd() tea.Cmd {
	return func() tea.Msg {
		return clearResultMsg{err: m.session.Clear(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight-2, 3)
		m.input.Width = msg.Width - 4
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit(), nil
		case "ctrl+l":
			if m.snap.Sending() {
				m.status = "wait for the DM to answer before clearing"
				return m, nil
			}
			m.status = "clearing…"
			return m, m.clearCmd()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case snapshotMsg:
		if snap := model.Snapshot(msg); snap.Revision >= m.snap.Revision {
			m.snap = snap
			m.refresh()
		}
		return m, waitForSnapshot(m.updates)

	case clearResultMsg:
		if msg.err != nil {
			m.status = "clear failed, transcript kept"
		} else {
			m.status = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit keeps the draft untouched unless the request actually started.
func (m Model) submit() Model {
	if m.snap.Sending() || strings.TrimSpace(m.input.Value()) == "" {
		return m
	}
	_, err := m.session.Submit(m.ctx, m.input.Value())
	switch {
	case errors.Is(err, session.ErrBusy):
		m.status = "the DM is still answering"
	case err != nil:
		m.status = err.Error()
	default:
		m.input.Reset()
		m.status = ""
	}
	return m
}

func (m *Model) refresh() {
	m.viewport.SetContent(RenderTranscript(m.snap.Messages, m.viewport.Width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	help := "enter send • ctrl+l clear • esc quit"
	if m.snap.Sending() {
		help = "DM is typing… • esc quit"
	}
	if m.status != "" {
		help = m.status + " • " + help
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

// RenderTranscript formats messages the way the browser page does.
func RenderTranscript(messages []model.Message, width int) string {
	if len(messages) == 0 {
		return helpStyle.Render("The DM awaits your first words.")
	}
	wrap := lipgloss.NewStyle()
	if width > 4 {
		wrap = wrap.Width(width - 2)
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		var line string
		switch {
		case msg.IsTyping():
			line = typingStyle.Render("DM is typing…")
		case msg.Kind == model.KindError:
			line = errorStyle.Render(fmt.Sprintf("DM: %s %s", msg.ErrorLabel(), msg.Content))
		case msg.Role == model.RoleUser:
			line = userStyle.Render("You: " + msg.Content)
		default:
			line = dmStyle.Render("DM: " + msg.Content)
		}
		lines = append(lines, wrap.Render(line))
	}
	return strings.Join(lines, "\n")
}
