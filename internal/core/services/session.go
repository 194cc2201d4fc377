package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driving"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Console strings for the interactive loop.
const (
	ReadyBanner  = "Assistant ready! Type 'exit' to quit."
	QueryPrompt  = "Query: "
	AnswerPrefix = "Answer: "
	ErrorPrefix  = "Error: "
	Farewell     = "Goodbye!"
)

// Session owns an answer chain and the conversation history.
type Session struct {
	chain driving.AnswerService
	now   func() time.Time

	mu      sync.Mutex
	history []domain.Turn
}

// NewSession creates a session answering through chain.
func NewSession(chain driving.AnswerService) *Session {
	return &Session{chain: chain, now: time.Now}
}

// Answer delegates to the chain without recording history.
func (s *Session) Answer(ctx context.Context, question string) (domain.Answer, error) {
	return s.chain.Answer(ctx, question)
}

// Invoke delegates to the chain without recording history.
func (s *Session) Invoke(ctx context.Context, input map[string]string) (map[string]string, error) {
	return s.chain.Invoke(ctx, input)
}

// Ask answers question and appends the user and assistant turns.
// A failed answer is recorded with its error text.
func (s *Session) Ask(ctx context.Context, question string) domain.QueryOutcome {
	outcome := domain.QueryOutcome{Question: question}
	answer, err := s.chain.Answer(ctx, question)
	outcome.Answer = answer
	outcome.Err = err

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, domain.Turn{Role: domain.RoleUser, Content: question, At: s.now()})
	reply := domain.Turn{Role: domain.RoleAssistant, Content: answer.Text, At: s.now()}
	if err != nil {
		reply.Content = err.Error()
		reply.Failed = true
	}
	s.history = append(s.history, reply)

	return outcome
}

// History returns a copy of the recorded turns.
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// RunInteractive reads questions line by line from in and writes answers to out
// until the user types exit or quit, input ends, or ctx is cancelled.
// Query failures are printed and do not end the loop.
func (s *Session) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, in, out, true)
}

// RunQuiet is RunInteractive without the banner and prompts, for piped input.
func (s *Session) RunQuiet(ctx context.Context, in io.Reader, out io.Writer) error {
	return s.run(ctx, in, out, false)
}

func (s *Session) run(ctx context.Context, in io.Reader, out io.Writer, prompts bool) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	// The reader stops once the loop returns; a blocked Read still holds it
	// until the underlying reader yields.
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	if prompts {
		fmt.Fprintln(out, ReadyBanner)
	}

	for {
		if prompts {
			fmt.Fprint(out, QueryPrompt)
		}

		var line string
		select {
		case <-ctx.Done():
			if prompts {
				fmt.Fprintln(out)
			}
			return nil
		case l, ok := <-lines:
			if !ok {
				if prompts {
					fmt.Fprintln(out)
				}
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		if isExit(line) {
			fmt.Fprintln(out, Farewell)
			return nil
		}

		outcome := s.Ask(ctx, line)
		if !outcome.OK() {
			fmt.Fprintln(out, ErrorPrefix+outcome.Err.Error())
			continue
		}
		fmt.Fprintln(out, AnswerPrefix+outcome.Answer.Text)
	}
}

func isExit(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit":
		return true
	}
	return false
}
