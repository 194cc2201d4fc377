// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/ragbot/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ragbot/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the outcome of one question back to the model.
type AnswerReceived struct {
	Outcome domain.QueryOutcome
}

// DocumentsChanged reports that the documents directory changed after the
// index was prepared.
type DocumentsChanged struct {
	Change watcher.Change
}

// ErrorOccurred reports an error outside a query.
type ErrorOccurred struct {
	Err error
}

// Quit ends the program.
type Quit struct{}
