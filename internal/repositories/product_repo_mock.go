package repositories

import (
	"fmt"
	"strings"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It upholds the same invariants as the GORM
// implementation: unique title and slug, normalized slug on every
// write, full image replacement, insertion-ordered listing. Used when
// no database is configured and in tests.
type MockProductRepository struct {
	products map[string]models.Product
	order    []string // insertion order of product IDs
	nextImg  uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product, enforcing title/slug uniqueness.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Slug = models.NormalizeSlug(product.Slug, product.Title)
	if err := r.checkUnique(product); err != nil {
		return err
	}
	r.attachImages(product)
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// List returns products in insertion order, windowed by limit/offset.
func (r *MockProductRepository) List(limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, limit)
	for i := offset; i < len(r.order) && len(products) < limit; i++ {
		products = append(products, r.products[r.order[i]])
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, id)
	}
	return &product, nil
}

// GetByTerm resolves by ID for canonical UUID terms, otherwise by
// case-insensitive title or lowercased slug.
func (r *MockProductRepository) GetByTerm(term string) (*models.Product, error) {
	if isUUID(term) {
		return r.GetByID(term)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if strings.EqualFold(product.Title, term) || product.Slug == strings.ToLower(term) {
			return &product, nil
		}
	}
	return nil, fmt.Errorf("%w: product %q", ErrNotFound, term)
}

// Save replaces an existing product. The in-memory map swap is atomic
// by construction: uniqueness is checked before anything is mutated, so
// a conflicting save leaves both the stored product and the caller's
// struct intact.
func (r *MockProductRepository) Save(product *models.Product, replaceImages bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("%w: product %q", ErrNotFound, product.ID)
	}
	record := *product
	record.Slug = models.NormalizeSlug(record.Slug, record.Title)
	if err := r.checkUnique(&record); err != nil {
		return err
	}
	if replaceImages {
		r.attachImages(&record)
	} else {
		record.Images = current.Images
	}
	r.products[record.ID] = record
	*product = record
	return nil
}

// Delete removes a product and its images by ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%w: product %q", ErrNotFound, id)
	}
	delete(r.products, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll removes every product and reports the count.
func (r *MockProductRepository) DeleteAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := int64(len(r.products))
	r.products = make(map[string]models.Product)
	r.order = nil
	return count, nil
}

// checkUnique enforces the (title, slug) uniqueness invariant. Caller
// must hold the write lock.
func (r *MockProductRepository) checkUnique(product *models.Product) error {
	for _, other := range r.products {
		if other.ID == product.ID {
			continue
		}
		if other.Title == product.Title || other.Slug == product.Slug {
			return fmt.Errorf("%w: product %q", ErrConflict, product.Title)
		}
	}
	return nil
}

// attachImages assigns IDs and the back-reference to freshly
// materialized image records. Caller must hold the write lock.
func (r *MockProductRepository) attachImages(product *models.Product) {
	for i := range product.Images {
		r.nextImg++
		product.Images[i].ID = r.nextImg
		product.Images[i].ProductID = product.ID
	}
}
