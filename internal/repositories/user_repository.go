package repositories

import (
	"errors"

	"kedai/internal/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// List returns users that have not been deleted, newest first.
	List() ([]models.User, error)
	Update(user *models.User) error
	SoftDelete(id string) error
}
