// Package todo provides the todo service's store implementations: an
// in-memory map that keeps insertion order explicit, a Redis-backed store,
// and a failover wrapper that prefers Redis but degrades to memory.
package todo

import (
	"context"
	"errors"

	"innkeep/internal/models"
)

var ErrNotFound = errors.New("todo not found")

type Store interface {
	// Create assigns the next sequential id and stores the todo.
	Create(ctx context.Context, todo *models.Todo) error
	// List returns todos in insertion order, sliced [skip, skip+limit).
	List(ctx context.Context, skip, limit int) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (*models.Todo, error)
	// Update replaces the whole record; the stored id wins over any id in
	// the payload.
	Update(ctx context.Context, id int64, todo *models.Todo) error
	Delete(ctx context.Context, id int64) error
}

// paginate applies the [skip, skip+limit) window with Python-slice bounds
// semantics: out-of-range windows yield an empty result, never an error.
func paginate(n, skip, limit int) (start, end int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip > n {
		return n, n
	}
	end = skip + limit
	if end > n {
		end = n
	}
	return skip, end
}
