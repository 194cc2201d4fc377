package domain

import (
	"fmt"
	"time"
)

// DefaultPersona is the assistant owner named in the directive preamble.
const DefaultPersona = "Saud"

// directivePreamble is formatted with the persona name.
const directivePreamble = "You are %s's AI Assistant.\nAlways follow these recruiter-oriented instructions:\n\n"

// Directive is the system-level instruction given to the chat model.
// The body is the instruction file verbatim and is never interpreted.
type Directive struct {
	// Preamble is the fixed persona statement.
	Preamble string

	// Body is the instruction file content.
	Body string
}

// NewDirective builds a directive for persona with the given body.
func NewDirective(persona, body string) Directive {
	if persona == "" {
		persona = DefaultPersona
	}
	return Directive{
		Preamble: fmt.Sprintf(directivePreamble, persona),
		Body:     body,
	}
}

// Text returns the full system message.
func (d Directive) Text() string {
	return d.Preamble + d.Body
}

// Answer is the result of one retrieval-augmented query.
type Answer struct {
	// Question is the user input.
	Question string

	// Text is the generated answer.
	Text string

	// Sources are the retrieved blocks, most similar first.
	Sources []TextBlock
}

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session history.
type Turn struct {
	Role    Role
	Content string
	At      time.Time

	// Failed marks an assistant turn that carries an error message.
	Failed bool
}

// QueryOutcome is the per-query result of a session.
type QueryOutcome struct {
	Question string
	Answer   Answer

	// Err is set when the question could not be answered.
	Err error
}

// OK returns true if the query produced an answer.
func (o QueryOutcome) OK() bool {
	return o.Err == nil
}
