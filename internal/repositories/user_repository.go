package repositories

import (
	"catalog/internal/models"
)

// UserRepository defines the interface for user data access. The
// catalog only reads users (to resolve the authenticated caller) and
// creates them for seeding; everything else about users is owned by the
// upstream auth system.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}
