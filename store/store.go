// Package store is the document store for doctor records.
package store

import (
	"context"
	"errors"

	"github.com/meinhoongagan/careforme-admin/directory"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// DoctorStore is the doctors collection. Records go in and out untyped; the
// directory package normalizes them.
type DoctorStore interface {
	// List returns every document, oldest first, each carrying its id.
	List(ctx context.Context) ([]directory.RawRecord, error)
	Get(ctx context.Context, id string) (directory.RawRecord, error)
	// Add stores data under a fresh id and returns it.
	Add(ctx context.Context, data directory.RawRecord) (string, error)
	// Update merges patch into the document. Unknown ids fail with ErrNotFound.
	Update(ctx context.Context, id string, patch directory.RawRecord) error
	Delete(ctx context.Context, id string) error
}
