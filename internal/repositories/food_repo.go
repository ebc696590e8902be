package repositories

import (
	"errors"

	"kedai/internal/models"
)

// ErrFoodNotFound is returned when no food item has the requested ID.
var ErrFoodNotFound = errors.New("food item not found")

// FoodRepository defines the interface for menu data access.
type FoodRepository interface {
	GetAll() ([]models.FoodItem, error)
	GetAvailable() ([]models.FoodItem, error)
	GetByID(id string) (*models.FoodItem, error)
	Create(food *models.FoodItem) error
	Update(food *models.FoodItem) error
	Delete(id string) error
}
