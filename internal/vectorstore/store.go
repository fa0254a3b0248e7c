// Package vectorstore provides the vector database client used to store
// and search resume fragments.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-generator/internal/types"
)

// Store is the persistence interface for resume fragments and their
// embedding vectors.
type Store interface {
	// EnsureCollection creates the backing collection if it does not
	// exist. Safe to call on every startup.
	EnsureCollection(ctx context.Context, dimensions int) error
	// Upsert writes fragments with their vectors. Fragment IDs are
	// stable, so re-upserting an existing fragment overwrites it.
	Upsert(ctx context.Context, fragments []types.Fragment, vectors [][]float32) error
	// Delete removes the points with the given fragment IDs.
	Delete(ctx context.Context, ids []string) error
	// Search returns up to limit fragments nearest to the query vector,
	// ordered by descending similarity score.
	Search(ctx context.Context, vector []float32, limit int) ([]types.ScoredFragment, error)
	// Scroll returns every stored fragment. Used to reconstruct the
	// full resume document.
	Scroll(ctx context.Context) ([]types.Fragment, error)
	// Count returns the number of stored fragments.
	Count(ctx context.Context) (int, error)
}

// RequestError indicates the vector store was unreachable or rejected
// a request.
type RequestError struct {
	Operation string
	Status    string
	Cause     error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vector store %s failed: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("vector store %s failed: %s", e.Operation, e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
