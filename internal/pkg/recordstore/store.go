// Package recordstore is the keyed-record store the services persist through.
// Each collection holds one record type; ids and timestamps are owned by the store.
package recordstore

import (
	"context"
	"time"
)

// Record is implemented by pointers to persisted types
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
	SetTimestamps(createdAt, updatedAt time.Time)
	GetCreatedAt() time.Time
}

// Predicate selects records; a nil predicate matches everything
type Predicate[T any] func(T) bool

// Patch mutates a record in place. Returning an error aborts the update.
type Patch[T any] func(*T) error

// Store is a generic CRUD collection
type Store[T any] interface {
	FindAll(ctx context.Context, pred Predicate[T]) ([]T, error)
	FindByID(ctx context.Context, id string) (T, error)
	FindOne(ctx context.Context, pred Predicate[T]) (T, error)
	Create(ctx context.Context, record T) (T, error)
	// Update applies patch to the current version of the record under the
	// record's write guard. id and createdAt survive any patch; updatedAt is refreshed.
	Update(ctx context.Context, id string, patch Patch[T]) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context, pred Predicate[T]) (int, error)
}

func match[T any](pred Predicate[T], v T) bool {
	return pred == nil || pred(v)
}
