package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUConflict     = errors.New("product with this sku already exists")
)

// ListParams are the query parameters for List, already shape-validated by
// the boundary layer (limit within 1-100, offset >= 0).
type ListParams struct {
	Name        string
	SortByPrice bool
	Order       string // "asc" or "desc"; anything else sorts ascending
	Limit       int
	Offset      int
}

// ListResult is the filtered, sorted, paginated slice of the catalog.
// Total counts the filtered set before pagination.
type ListResult struct {
	Total int
	Limit int
	Items []domain.Product
}

// DeleteResult confirms a removal and carries the removed record.
type DeleteResult struct {
	Message string
	Removed domain.Product
}

// ProductService defines the catalog's query and mutation operations.
type ProductService interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, candidate domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}

type productService struct {
	store repository.ProductStore

	// Serializes load-modify-persist cycles. Two unguarded mutations
	// racing would let the last writer silently discard the other's
	// change; reads only share the lock.
	mu sync.RWMutex
}

// NewProductService creates a new instance of ProductService over the
// given store.
func NewProductService(store repository.ProductStore) ProductService {
	return &productService{store: store}
}

// List filters by case-insensitive name substring, optionally sorts by the
// stored price (not the discounted price), and paginates. An empty result
// after filtering fails with ErrProductNotFound; that holds even when no
// name filter was given and the catalog is simply empty, matching the
// behavior catalog consumers already depend on.
func (s *productService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if needle := strings.ToLower(strings.TrimSpace(params.Name)); needle != "" {
		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no products matching the search criteria: %w", ErrProductNotFound)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if params.SortByPrice {
		desc := params.Order == "desc"
		sort.SliceStable(products, func(i, j int) bool {
			if desc {
				return products[i].Price > products[j].Price
			}
			return products[i].Price < products[j].Price
		})
	}

	total := len(products)
	items := paginate(products, params.Offset, params.Limit)

	return &ListResult{
		Total: total,
		Limit: params.Limit,
		Items: items,
	}, nil
}

// Get returns the record with the given id.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

// Create assigns the server-side fields, checks SKU uniqueness against the
// whole collection and appends the record. Persist is attempted exactly
// once; on failure the stored collection is untouched and no record is
// reported created.
func (s *productService) Create(ctx context.Context, candidate domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate.ID = uuid.New()
	candidate.CreatedAt = time.Now().UTC()
	if candidate.Currency == "" {
		candidate.Currency = domain.Currency
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for _, p := range products {
		if p.SKU == candidate.SKU {
			return nil, fmt.Errorf("sku %q: %w", candidate.SKU, ErrSKUConflict)
		}
	}

	products = append(products, candidate)
	if err := s.store.Persist(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to persist catalog: %w", err)
	}
	return &candidate, nil
}

// Update scans the whole collection for the record, merges the supplied
// fields into it and persists. It fails with ErrProductNotFound only after
// the full scan completes without a match.
func (s *productService) Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}

		merged := products[i]
		if update.Empty() {
			// Nothing to merge; skip the disk write.
			return &merged, nil
		}
		update.ApplyTo(&merged)
		if err := merged.Validate(); err != nil {
			return nil, err
		}

		products[i] = merged
		if err := s.store.Persist(ctx, products); err != nil {
			return nil, fmt.Errorf("failed to persist catalog: %w", err)
		}
		return &merged, nil
	}
	return nil, ErrProductNotFound
}

// Delete scans the whole collection for the record, removes it and
// persists. A miss fails with ErrProductNotFound and leaves the collection
// unchanged.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for i := range products {
		if products[i].ID != id {
			continue
		}

		removed := products[i]
		products = append(products[:i], products[i+1:]...)
		if err := s.store.Persist(ctx, products); err != nil {
			return nil, fmt.Errorf("failed to persist catalog: %w", err)
		}
		return &DeleteResult{
			Message: "product deleted successfully",
			Removed: removed,
		}, nil
	}
	return nil, ErrProductNotFound
}

// paginate slices [offset, offset+limit); out-of-range offsets yield an
// empty slice rather than an error.
func paginate(products []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(products) || offset < 0 {
		return []domain.Product{}
	}
	end := offset + limit
	if end > len(products) {
		end = len(products)
	}
	return products[offset:end]
}
