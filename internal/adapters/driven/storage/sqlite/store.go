package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragbot/internal/core/domain"
	"github.com/custodia-labs/ragbot/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// DatabaseName is the index file inside the index directory.
const DatabaseName = "index.db"

// IndexStore persists index snapshots in a SQLite database file.
type IndexStore struct {
	dir string
}

// NewIndexStore creates a store rooted at dir. The directory is created on Save.
func NewIndexStore(dir string) *IndexStore {
	return &IndexStore{dir: dir}
}

// Path returns the index directory.
func (s *IndexStore) Path() string {
	return s.dir
}

// dbPath returns the live database file.
func (s *IndexStore) dbPath() string {
	return filepath.Join(s.dir, DatabaseName)
}

// Exists reports whether a database file is present.
func (s *IndexStore) Exists() bool {
	info, err := os.Stat(s.dbPath())
	return err == nil && info.Mode().IsRegular()
}

// Load reads the persisted snapshot and validates it.
func (s *IndexStore) Load(ctx context.Context) (*domain.IndexSnapshot, error) {
	path := s.dbPath()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index database: %w", err)
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	snap := &domain.IndexSnapshot{}

	var createdAt int64
	row := db.QueryRowContext(ctx, `
		SELECT format_version, embedding_model, dimensions, entry_count, created_at
		FROM manifest WHERE id = 1
	`)
	if err := row.Scan(&snap.Manifest.FormatVersion, &snap.Manifest.EmbeddingModel,
		&snap.Manifest.Dimensions, &snap.Manifest.EntryCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: index has no manifest", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	snap.Manifest.CreatedAt = time.Unix(createdAt, 0).UTC()

	rows, err := db.QueryContext(ctx, `
		SELECT block_id, source, page, content, vector
		FROM entries ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry domain.IndexEntry
		var vectorBlob []byte
		if err := rows.Scan(&entry.Block.ID, &entry.Block.Source, &entry.Block.Page,
			&entry.Block.Text, &vectorBlob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if len(vectorBlob)%4 != 0 {
			return nil, fmt.Errorf("%w: entry %s has a truncated vector", domain.ErrInvalidInput, entry.Block.ID)
		}
		entry.Vector = bytesToFloat32Slice(vectorBlob)
		snap.Entries = append(snap.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save writes the snapshot to a temporary database and renames it over
// the live file.
func (s *IndexStore) Save(ctx context.Context, snapshot *domain.IndexSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmpPath := filepath.Join(s.dir, fmt.Sprintf(".%s.%s.tmp", DatabaseName, uuid.NewString()))
	if err := writeDatabase(ctx, tmpPath, snapshot); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.dbPath()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing index database: %w", err)
	}
	return nil
}

// writeDatabase creates a fresh database at path holding snapshot.
func writeDatabase(ctx context.Context, path string, snapshot *domain.IndexSnapshot) error {
	db, err := open(path)
	if err != nil {
		return err
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := insertSnapshot(ctx, db, snapshot); err != nil {
		db.Close()
		return err
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("closing index database: %w", err)
	}
	return nil
}

// insertSnapshot writes the manifest and all entries in one transaction.
func insertSnapshot(ctx context.Context, db *sql.DB, snapshot *domain.IndexSnapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m := snapshot.Manifest
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO manifest (id, format_version, embedding_model, dimensions, entry_count, created_at)
		VALUES (1, ?, ?, ?, ?, ?)
	`, m.FormatVersion, m.EmbeddingModel, m.Dimensions, m.EntryCount, m.CreatedAt.Unix()); err != nil {
		return fmt.Errorf("saving manifest: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (position, block_id, source, page, content, vector)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, entry := range snapshot.Entries {
		if _, err := stmt.ExecContext(ctx, i, entry.Block.ID, entry.Block.Source,
			entry.Block.Page, entry.Block.Text, float32SliceToBytes(entry.Vector)); err != nil {
			return fmt.Errorf("saving entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// open opens the database file at path.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
