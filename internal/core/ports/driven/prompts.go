package driven

// InstructionStore reads the instruction document that becomes the
// system directive.
type InstructionStore interface {
	// Load returns the full instruction text verbatim.
	// Returns an error matching fs.ErrNotExist if the file is absent.
	Load() (string, error)

	// Path returns the instruction file location.
	Path() string
}
