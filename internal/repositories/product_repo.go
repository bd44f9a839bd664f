package repositories

import (
	"errors"

	"github.com/google/uuid"

	"catalog/internal/models"
)

// Sentinel errors shared by every repository implementation. Services
// and handlers branch on these with errors.Is; any other error is an
// unexpected storage failure.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate value for unique column")
)

// isUUID reports whether term is a canonical hyphenated UUID.
// uuid.Parse alone also accepts the 32-hex and urn:uuid forms, which
// would shadow slugs that happen to look like bare hex strings.
func isUUID(term string) bool {
	if len(term) != 36 {
		return false
	}
	_, err := uuid.Parse(term)
	return err == nil
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(product *models.Product) error
	List(limit, offset int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByTerm(term string) (*models.Product, error)
	Save(product *models.Product, replaceImages bool) error
	Delete(id string) error
	DeleteAll() (int64, error)
}
