package repository

import (
	"context"

	"catalog-api/internal/domain"
)

// ProductStore defines whole-collection access to the persisted catalog.
// The collection is an ordered sequence: Load returns records in stored
// order and Persist overwrites the entire backing file with the given
// order. There is no incremental persistence.
type ProductStore interface {
	Load(ctx context.Context) ([]domain.Product, error)
	Persist(ctx context.Context, products []domain.Product) error
}
