package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteSubmissionStore implements SubmissionStore backed by SQLite.
type SQLiteSubmissionStore struct {
	db *sql.DB
}

// NewSQLiteSubmissionStore returns a new SQLiteSubmissionStore.
func NewSQLiteSubmissionStore(db *sql.DB) *SQLiteSubmissionStore {
	return &SQLiteSubmissionStore{db: db}
}

// Add inserts a submission and reads back the timestamp SQLite assigned to it.
func (s *SQLiteSubmissionStore) Add(ctx context.Context, sub NewSubmission) (*Submission, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_requests (id, name, phone, message, status)
		VALUES (?, ?, ?, ?, ?)`,
		id, sub.Name, sub.Phone, sub.Message, StatusNew,
	); err != nil {
		return nil, fmt.Errorf("inserting contact request: %w", err)
	}

	rec := &Submission{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, phone, message, status, received_at
		FROM contact_requests WHERE id = ?`, id,
	).Scan(&rec.Name, &rec.Phone, &rec.Message, &rec.Status, &rec.ReceivedAt)
	if err != nil {
		return nil, fmt.Errorf("reading back contact request %s: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent submissions ordered by received_at descending.
func (s *SQLiteSubmissionStore) List(ctx context.Context, limit int) (_ []Submission, err error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, message, status, received_at
		FROM contact_requests
		ORDER BY received_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying contact requests: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	var subs []Submission
	for rows.Next() {
		var rec Submission
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.Message,
			&rec.Status, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning contact request row: %w", err)
		}
		subs = append(subs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact request rows: %w", err)
	}
	return subs, nil
}

// Ping checks the database connection.
func (s *SQLiteSubmissionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteSubmissionStore) Close() error {
	return s.db.Close()
}
