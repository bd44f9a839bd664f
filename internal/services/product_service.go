package services

import (
	"errors"
	"fmt"
	"log"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/rabbitmq"
)

// EventPublisher publishes catalog change events. Satisfied by
// *rabbitmq.Client; nil disables publishing.
type EventPublisher interface {
	PublishCatalogEvent(event rabbitmq.CatalogEvent) error
}

// CreateProductCommand carries the fields for a new product. The
// request layer validates the shape before the service sees it.
type CreateProductCommand struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Price       float64  `json:"price" validate:"omitempty,gte=0"`
	Description string   `json:"description"`
	Slug        string   `json:"slug"`
	Stock       int      `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"required,dive,min=1"` // must be supplied, an explicit empty list is allowed
	Gender      string   `json:"gender" validate:"required,oneof=men women kid unisex"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1"`
	Images      []string `json:"images" validate:"omitempty,dive,min=1"`
}

// UpdateProductCommand is a partial change set: nil fields are left
// untouched. A non-nil Images slice (including an empty one) replaces
// the product's whole image set.
type UpdateProductCommand struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Slug        *string  `json:"slug"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes       []string `json:"sizes" validate:"omitempty,dive,min=1"`
	Gender      *string  `json:"gender" validate:"omitempty,oneof=men women kid unisex"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1"`
	Images      []string `json:"images" validate:"omitempty,dive,min=1"`
}

// ProductService implements the catalog core: create, list, dual-key
// fetch, transactional update and removal of products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil,
// in which case change events are not published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// CreateProduct builds a product from the command, materializes its
// images and persists everything in one insert. The insert derives the
// canonical slug, so the returned view always carries the normalized
// value.
func (s *ProductService) CreateProduct(cmd CreateProductCommand, owner models.User) (*models.ProductView, error) {
	product := &models.Product{
		Title:       cmd.Title,
		Price:       cmd.Price,
		Description: cmd.Description,
		Slug:        cmd.Slug,
		Stock:       cmd.Stock,
		Sizes:       cmd.Sizes,
		Gender:      cmd.Gender,
		Tags:        cmd.Tags,
		Images:      models.ImageSet(cmd.Images),
		OwnerID:     owner.ID,
		Owner:       owner,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	if err := s.repo.Create(product); err != nil {
		return nil, s.storeError(err)
	}

	s.publish("product.created", product)
	view := product.Flatten()
	return &view, nil
}

// ListProducts returns a window of flattened products in insertion
// order. Non-positive limit defaults to 10, negative offset to 0.
func (s *ProductService) ListProducts(limit, offset int) ([]models.ProductView, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.List(limit, offset)
	if err != nil {
		return nil, s.storeError(err)
	}

	views := make([]models.ProductView, 0, len(products))
	for i := range products {
		views = append(views, products[i].Flatten())
	}
	return views, nil
}

// GetProductByTerm resolves a product by its ID, slug, or title in any
// case.
func (s *ProductService) GetProductByTerm(term string) (*models.Product, error) {
	product, err := s.repo.GetByTerm(term)
	if err != nil {
		return nil, s.storeError(err)
	}
	return product, nil
}

// GetProductFlat is GetProductByTerm with the images flattened to URL
// strings, for read-facing callers.
func (s *ProductService) GetProductFlat(term string) (*models.ProductView, error) {
	product, err := s.GetProductByTerm(term)
	if err != nil {
		return nil, err
	}
	view := product.Flatten()
	return &view, nil
}

// UpdateProduct applies a partial change set to an existing product.
// When the command carries an image list the whole set is replaced
// inside the repository's transaction; either every change lands or
// none does. The fresh flattened state is re-read after the commit.
func (s *ProductService) UpdateProduct(id string, cmd UpdateProductCommand, owner models.User) (*models.ProductView, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, s.storeError(err)
	}

	applyChanges(product, cmd)

	replaceImages := cmd.Images != nil
	if replaceImages {
		product.Images = models.ImageSet(cmd.Images)
	}

	// Every update re-asserts the authenticated caller as owner,
	// overwriting provenance on each edit. Current behavior, kept
	// as is.
	product.OwnerID = owner.ID
	product.Owner = owner

	if err := s.repo.Save(product, replaceImages); err != nil {
		return nil, s.storeError(err)
	}

	s.publish("product.updated", product)
	return s.GetProductFlat(id)
}

// DeleteProduct deletes a product by its ID, cascading to its images.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return s.storeError(err)
	}
	s.publish("product.deleted", &models.Product{ID: id})
	return nil
}

// DeleteAllProducts wipes the whole catalog, images included, and
// returns how many products were removed. There is no confirmation
// guard: this is a dangerous operation meant for seed and test reset
// paths only.
func (s *ProductService) DeleteAllProducts() (int64, error) {
	count, err := s.repo.DeleteAll()
	if err != nil {
		return 0, s.storeError(err)
	}
	return count, nil
}

// applyChanges merges the non-nil command fields onto the product.
func applyChanges(product *models.Product, cmd UpdateProductCommand) {
	if cmd.Title != nil {
		product.Title = *cmd.Title
	}
	if cmd.Price != nil {
		product.Price = *cmd.Price
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Slug != nil {
		product.Slug = *cmd.Slug
	}
	if cmd.Stock != nil {
		product.Stock = *cmd.Stock
	}
	if cmd.Sizes != nil {
		product.Sizes = cmd.Sizes
	}
	if cmd.Gender != nil {
		product.Gender = *cmd.Gender
	}
	if cmd.Tags != nil {
		product.Tags = cmd.Tags
	}
}

// storeError keeps the expected error kinds (NotFound, Conflict) intact
// and hides everything else behind an opaque message, logging the full
// detail server side.
func (s *ProductService) storeError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrConflict) {
		return err
	}
	log.Printf("Unexpected catalog store error: %v", err)
	return fmt.Errorf("unexpected error, check server logs")
}

// publish sends a catalog change event, best effort. A publish failure
// never fails the operation that triggered it.
func (s *ProductService) publish(action string, product *models.Product) {
	if s.events == nil {
		return
	}
	event := rabbitmq.CatalogEvent{
		Action:    action,
		ProductID: product.ID,
		Slug:      product.Slug,
	}
	if err := s.events.PublishCatalogEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", action, product.ID, err)
	}
}
