package driven

import "context"

// CorpusStore persists the corpus snapshot.
type CorpusStore interface {
	// Write replaces the snapshot with corpus. Either the new content is
	// fully visible afterwards or the previous snapshot is left untouched.
	Write(ctx context.Context, corpus string) error

	// Read returns the current snapshot.
	Read(ctx context.Context) (string, error)

	// Path returns the snapshot file location.
	Path() string
}
