package storage

import (
	"context"
	"errors"
	"time"
)

// StatusNew is the status every submission is recorded with.
const StatusNew = "new"

// ErrIncompleteSubmission is returned by Add when name or phone is empty.
var ErrIncompleteSubmission = errors.New("submission requires name and phone")

// NewSubmission is the caller-supplied part of a contact request.
type NewSubmission struct {
	Name    string
	Phone   string
	Message string
}

// Validate reports whether the submission may be persisted.
func (n NewSubmission) Validate() error {
	if n.Name == "" || n.Phone == "" {
		return ErrIncompleteSubmission
	}
	return nil
}

// Submission is a persisted contact request. ReceivedAt is assigned by the store.
type Submission struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// SubmissionStore is the append-only store for contact requests.
// Implementations must be safe for concurrent use.
type SubmissionStore interface {
	// Add appends a submission with status "new" and a store-assigned timestamp.
	Add(ctx context.Context, sub NewSubmission) (*Submission, error)
	// List returns the most recent submissions, newest first, up to limit.
	List(ctx context.Context, limit int) ([]Submission, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close() error
}

const defaultListLimit = 50
