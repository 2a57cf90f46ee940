package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"dm-chat/internal/model"
	"dm-chat/internal/session"
)

type stubSession struct {
	submitted []string
	submitErr error
	clearErr  error
	clears    int
	snap      model.Snapshot
}

func (s *stubSession) Submit(_ context.Context, raw string) (*session.Request, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	s.submitted = append(s.submitted, raw)
	return &session.Request{Text: raw}, nil
}

func (s *stubSession) Clear(context.Context) error {
	s.clears++
	return s.clearErr
}

func (s *stubSession) Snapshot() model.Snapshot { return s.snap }

func (s *stubSession) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 1)
	return ch, func() { close(ch) }
}

func newTestModel(s *stubSession) Model {
	updates, _ := s.Subscribe()
	m := New(context.Background(), s, updates, "Test World")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func TestEnter_SubmitsAndResetsDraft(t *testing.T) {
	s := &stubSession{}
	m := newTestModel(s)
	m.input.SetValue("Hello")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"Hello"}, s.submitted)
	require.Empty(t, m.input.Value())
}

func TestEnter_EmptyDraftIsIgnored(t *testing.T) {
	s := &stubSession{}
	m := newTestModel(s)
	m.input.SetValue("   ")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, s.submitted)
	require.Equal(t, "   ", m.input.Value())
}

func TestEnter_DisabledWhileSending(t *testing.T) {
	s := &stubSession{}
	m := newTestModel(s)
	next, _ := m.Update(snapshotMsg(model.Snapshot{
		State:    model.StateSending,
		Messages: []model.Message{model.NewUserMessage("First"), model.NewTypingPlaceholder()},
	}))
	m = next.(Model)
	m.input.SetValue("Second")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, s.submitted)
	require.Equal(t, "Second", m.input.Value())
	require.Contains(t, m.View(), "DM is typing")
}

func TestEnter_BusyKeepsDraft(t *testing.T) {
	s := &stubSession{submitErr: session.ErrBusy}
	m := newTestModel(s)
	m.input.SetValue("Again")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, "Again", m.input.Value())
	require.Contains(t, m.View(), "still answering")
}

func TestCtrlL_Clears(t *testing.T) {
	s := &stubSession{}
	m := newTestModel(s)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)

	msg := cmd()
	require.Equal(t, clearResultMsg{}, msg)
	require.Equal(t, 1, s.clears)

	next, _ := m.Update(msg)
	require.NotContains(t, next.(Model).View(), "clear failed")
}

func TestCtrlL_FailureIsReported(t *testing.T) {
	s := &stubSession{clearErr: errors.New("refused")}
	m := newTestModel(s)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	next, _ := m.Update(cmd())

	require.Contains(t, next.(Model).View(), "clear failed, transcript kept")
}

func TestRenderTranscript(t *testing.T) {
	out := RenderTranscript([]model.Message{
		model.NewUserMessage("Hello"),
		model.NewAssistantMessage("Welcome, adventurer."),
		model.NewUserMessage("Attack"),
		model.NewErrorMessage(model.CauseApplication, "DM offline"),
		model.NewUserMessage("Run"),
		model.NewErrorMessage(model.CauseNetwork, "The dungeon master could not be reached."),
		model.NewTypingPlaceholder(),
	}, 0)

	require.Contains(t, out, "You: Hello")
	require.Contains(t, out, "DM: Welcome, adventurer.")
	require.Contains(t, out, "DM: [Error] DM offline")
	require.Contains(t, out, "DM: [Network error] The dungeon master could not be reached.")
	require.NotContains(t, out, "[Error] The dungeon master")
	require.Contains(t, out, "DM is typing")
}
