package tui

import "errors"

// ErrMissingSessionService is returned when the session is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")
