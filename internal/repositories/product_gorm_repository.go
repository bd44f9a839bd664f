package repositories

import (
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// It requires the gorm session to be opened with TranslateError so
// unique-constraint violations surface as gorm.ErrDuplicatedKey on
// every supported driver.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a product together with its attached images. The slug
// is re-derived from the current slug (or title) on every insert so the
// normalization invariant holds no matter what the caller supplied.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Slug = models.NormalizeSlug(product.Slug, product.Title)
	if err := r.db.Omit("Owner").Create(product).Error; err != nil {
		return r.translate(err, product.Title)
	}
	return nil
}

// List returns a window of products in storage-default (insertion)
// order, with images and owner eagerly loaded.
func (r *GORMProductRepository) List(limit, offset int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Images").Preload("Owner").
		Limit(limit).Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its primary key.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images").Preload("Owner").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, r.translate(err, id)
	}
	return &product, nil
}

// GetByTerm resolves a product by primary key when term is a canonical
// UUID, and otherwise by a single query matching the title
// case-insensitively or the slug against the lowercased term. The
// uniqueness invariant on (title, slug) guarantees at most one row can
// match.
func (r *GORMProductRepository) GetByTerm(term string) (*models.Product, error) {
	if isUUID(term) {
		return r.GetByID(term)
	}

	var product models.Product
	err := r.db.Preload("Images").Preload("Owner").
		Where("UPPER(title) = ? OR slug = ?", strings.ToUpper(term), strings.ToLower(term)).
		First(&product).Error
	if err != nil {
		return nil, r.translate(err, term)
	}
	return &product, nil
}

// Save persists a modified product as one atomic unit. When
// replaceImages is set, every image row owned by the product is deleted
// and the set attached to product is inserted within the same
// transaction; a failure on any step rolls everything back, so readers
// never observe a half-replaced image set. gorm's Transaction helper
// commits on nil, rolls back on error or panic, and releases the
// connection on every exit path. The normalized slug is written back to
// product only once the transaction commits, so a failed save leaves
// the caller's struct as it was.
func (r *GORMProductRepository) Save(product *models.Product, replaceImages bool) error {
	slug := models.NormalizeSlug(product.Slug, product.Title)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if replaceImages {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
		}
		record := *product
		record.Slug = slug
		return tx.Omit("Owner").
			Session(&gorm.Session{FullSaveAssociations: true}).
			Save(&record).Error
	})
	if err != nil {
		return r.translate(err, product.ID)
	}
	product.Slug = slug
	return nil
}

// Delete removes a product by primary key, cascading to its images.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Select("Images").Delete(&models.Product{ID: id})
	if res.Error != nil {
		return r.translate(res.Error, id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %q", ErrNotFound, id)
	}
	return nil
}

// DeleteAll wipes every product and image row and reports how many
// products were removed. There is no confirmation guard; this exists
// for seed and test reset paths only.
func (r *GORMProductRepository) DeleteAll() (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		res := tx.Where("1 = 1").Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete all products: %w", err)
	}
	return affected, nil
}

// translate maps driver errors onto the repository sentinels, keeping
// the offending term in the message for the recoverable kinds.
func (r *GORMProductRepository) translate(err error, term string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: product %q", ErrNotFound, term)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: product %q", ErrConflict, term)
	}
	return fmt.Errorf("product store: %w", err)
}
