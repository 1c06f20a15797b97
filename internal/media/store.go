// Package media stores uploaded binary media in an embedded SQLite database.
// Media lives outside the graph store entirely: the graph only ever holds
// media identifiers, and this store resolves them back to bytes.
package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound indicates that no media exists for the requested id.
var ErrNotFound = errors.New("media not found")

const schema = `
CREATE TABLE IF NOT EXISTS media (
	id TEXT PRIMARY KEY,
	content_type TEXT NOT NULL,
	data BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Object is one stored media item.
type Object struct {
	ID          string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Store persists media blobs in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the media database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("media: failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("media: failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Put stores a blob with its content type and returns the generated id.
func (s *Store) Put(ctx context.Context, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	id := uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO media (id, content_type, data) VALUES (?, ?, ?)",
		id, contentType, data)
	if err != nil {
		return "", fmt.Errorf("media: failed to store object: %w", err)
	}
	return id, nil
}

// Get retrieves a blob by id. Returns ErrNotFound for unknown ids.
func (s *Store) Get(ctx context.Context, id string) (*Object, error) {
	obj := &Object{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT content_type, data, created_at FROM media WHERE id = ?", id).
		Scan(&obj.ContentType, &obj.Data, &obj.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("media: failed to load object: %w", err)
	}
	return obj, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
