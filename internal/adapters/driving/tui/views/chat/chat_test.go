package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// mockSession answers "fail" with an error and everything else with an echo.
type mockSession struct {
	mu      sync.Mutex
	history []domain.Turn
}

func (m *mockSession) Answer(_ context.Context, q string) (domain.Answer, error) {
	if q == "fail" {
		return domain.Answer{}, fmt.Errorf("%w: backend down", domain.ErrQuery)
	}
	return domain.Answer{
		Question: q,
		Text:     "echo: " + q,
		Sources:  []domain.TextBlock{{Source: "data/combined.txt", Text: "context"}},
	}, nil
}

func (m *mockSession) Invoke(ctx context.Context, in map[string]string) (map[string]string, error) {
	a, err := m.Answer(ctx, in["query"])
	return map[string]string{"result": a.Text}, err
}

func (m *mockSession) Ask(ctx context.Context, q string) domain.QueryOutcome {
	a, err := m.Answer(ctx, q)
	m.mu.Lock()
	defer m.mu.Unlock()
	reply := domain.Turn{Role: domain.RoleAssistant, Content: a.Text}
	if err != nil {
		reply = domain.Turn{Role: domain.RoleAssistant, Content: err.Error(), Failed: true}
	}
	m.history = append(m.history, domain.Turn{Role: domain.RoleUser, Content: q}, reply)
	return domain.QueryOutcome{Question: q, Answer: a, Err: err}
}

func (m *mockSession) History() []domain.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Turn(nil), m.history...)
}

func newTestView() *View {
	v := NewView(nil, nil, &mockSession{})
	v.SetDimensions(100, 30)
	return v
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

// submit presses enter and runs the resulting commands until an answer arrives.
func submit(t *testing.T, v *View) (*View, tea.Msg) {
	t.Helper()
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return v, nil
	}
	msg := cmd()
	submitted, ok := msg.(messages.QuestionSubmitted)
	if !ok {
		return v, msg
	}
	require.True(t, v.Waiting())

	v, cmd = v.Update(submitted)
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if answer, ok := c().(messages.AnswerReceived); ok {
			v, _ = v.Update(answer)
			return v, answer
		}
	}
	t.Fatal("no answer produced")
	return v, nil
}

func TestView_AnswersQuestion(t *testing.T) {
	v := typeText(newTestView(), "who?")

	v, msg := submit(t, v)
	answer, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.Equal(t, "echo: who?", answer.Outcome.Answer.Text)

	assert.False(t, v.Waiting())
	assert.NoError(t, v.Err())
	assert.Equal(t, status.StateReady, v.Status())

	view := v.View()
	assert.Contains(t, view, Header)
	assert.Contains(t, view, "who?")
	assert.Contains(t, view, "echo: who?")
	assert.Contains(t, view, "1 asked")
}

func TestView_QueryErrorKeepsSession(t *testing.T) {
	v := typeText(newTestView(), "fail")

	v, _ = submit(t, v)
	require.Error(t, v.Err())
	assert.ErrorIs(t, v.Err(), domain.ErrQuery)
	assert.Equal(t, status.StateError, v.Status())
	assert.Contains(t, v.View(), "Error: query failed: backend down")

	v = typeText(v, "again")
	v, _ = submit(t, v)
	assert.NoError(t, v.Err())
}

func TestView_ExitWords(t *testing.T) {
	for _, word := range []string{"exit", "QUIT", "  Exit "} {
		t.Run(word, func(t *testing.T) {
			v := typeText(newTestView(), word)
			_, msg := submit(t, v)
			assert.Equal(t, messages.Quit{}, msg)
		})
	}
}

func TestView_EmptyLineDoesNothing(t *testing.T) {
	v := typeText(newTestView(), "   ")
	v, msg := submit(t, v)
	assert.Nil(t, msg)
	assert.False(t, v.Waiting())
}

func TestView_QuitKey(t *testing.T) {
	_, cmd := newTestView().Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Quit{}, cmd())
}

func TestView_ToggleSources(t *testing.T) {
	v := typeText(newTestView(), "who?")
	v, _ = submit(t, v)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, v.ShowingSources())
	assert.Contains(t, v.View(), "Sources (1):")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, v.ShowingSources())
}

func TestView_DocumentsChangedMarksStale(t *testing.T) {
	v, _ := newTestView().Update(messages.DocumentsChanged{Change: watcher.Change{Path: "data/new.txt", Op: "created"}})
	assert.Equal(t, status.StateStale, v.Status())
	assert.Contains(t, v.View(), "index is stale")
}

func TestView_ErrorOccurred(t *testing.T) {
	v, _ := newTestView().Update(messages.ErrorOccurred{Err: errors.New("watch failed")})
	assert.Equal(t, status.StateError, v.Status())
	assert.EqualError(t, v.Err(), "watch failed")
}
