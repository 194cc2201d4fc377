// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
)

// Header is shown above the transcript.
const Header = "Assistant ready! Type 'exit' to quit."

// chromeHeight is the rows used by header, input and status bar.
const chromeHeight = 6

// View is the chat screen: transcript, question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript viewport.Model
	spinner    spinner.Model
	sources    *list.SourceList
	statusbar  *status.Bar

	session driving.SessionService
	ctx     context.Context

	width       int
	height      int
	waiting     bool
	showSources bool
	lastErr     error
}

// NewView creates a chat view over session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: viewport.New(80, 24-chromeHeight),
		spinner:    sp,
		sources:    list.NewSourceList(s, 5),
		statusbar:  status.NewBar(s, km),
		session:    session,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
	v.refreshTranscript()
	return v
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.QuestionSubmitted:
		return v, tea.Batch(v.ask(msg.Question), v.spinner.Tick)

	case messages.AnswerReceived:
		v.handleAnswer(msg.Outcome)
		return v, v.input.Focus()

	case messages.DocumentsChanged:
		v.statusbar.SetState(status.StateStale)
		return v, nil

	case messages.ErrorOccurred:
		v.lastErr = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Quit):
		return v, quit
	case keymap.Matches(keyStr, v.keymap.Sources):
		v.showSources = !v.showSources
		v.resize()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		v.transcript.HalfPageUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		v.transcript.HalfPageDown()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Submit):
		return v, v.submit()
	}

	if v.waiting {
		return v, nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit turns the typed line into a question, or quits on exit and quit.
func (v *View) submit() tea.Cmd {
	if v.waiting {
		return nil
	}
	question := strings.TrimSpace(v.input.Value())
	v.input.Reset()

	switch strings.ToLower(question) {
	case "":
		return nil
	case "exit", "quit":
		return quit
	}

	v.waiting = true
	v.input.Blur()
	v.statusbar.SetState(status.StateThinking)
	return func() tea.Msg {
		return messages.QuestionSubmitted{Question: question}
	}
}

// ask runs the query off the update loop.
func (v *View) ask(question string) tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		return messages.AnswerReceived{Outcome: session.Ask(ctx, question)}
	}
}

func (v *View) handleAnswer(outcome domain.QueryOutcome) {
	v.waiting = false
	v.lastErr = outcome.Err
	if outcome.OK() {
		v.sources.SetSources(outcome.Answer.Sources)
		if v.statusbar.State() != status.StateStale {
			v.statusbar.SetState(status.StateReady)
		}
	} else {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(outcome.Err.Error())
	}
	v.statusbar.SetQuestions(len(v.session.History()) / 2)
	v.refreshTranscript()
}

// refreshTranscript re-renders the history and scrolls to the end.
func (v *View) refreshTranscript() {
	width := v.width - 2
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for _, turn := range v.session.History() {
		switch {
		case turn.Role == domain.RoleUser:
			b.WriteString(v.styles.UserLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(v.styles.Message.Width(width).Render(turn.Content))
		case turn.Failed:
			b.WriteString(v.styles.Error.Render("Error: " + turn.Content))
		default:
			b.WriteString(v.styles.AssistantLabel.Render("Answer"))
			b.WriteString("\n")
			b.WriteString(v.styles.Message.Width(width).Render(turn.Content))
		}
		b.WriteString("\n\n")
	}

	v.transcript.SetContent(b.String())
	v.transcript.GotoBottom()
}

// View renders the chat view.
func (v *View) View() string {
	parts := []string{
		v.styles.Title.Render(Header),
		v.transcript.View(),
	}
	if v.showSources {
		parts = append(parts, v.sources.View())
	}
	if v.waiting {
		parts = append(parts, fmt.Sprintf("%s %s", v.spinner.View(), v.styles.Muted.Render("Thinking...")))
	} else {
		parts = append(parts, v.input.View())
	}
	parts = append(parts, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions sizes every component to the terminal.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.sources.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.resize()
	v.refreshTranscript()
}

// resize gives the transcript whatever height the other parts leave.
func (v *View) resize() {
	h := v.height - chromeHeight
	if v.showSources {
		h -= lipgloss.Height(v.sources.View())
	}
	if h < 3 {
		h = 3
	}
	v.transcript.Width = v.width
	v.transcript.Height = h
}

// Waiting reports whether an answer is pending.
func (v *View) Waiting() bool {
	return v.waiting
}

// ShowingSources reports whether the sources panel is open.
func (v *View) ShowingSources() bool {
	return v.showSources
}

// Err returns the last query error.
func (v *View) Err() error {
	return v.lastErr
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

func quit() tea.Msg {
	return messages.Quit{}
}
