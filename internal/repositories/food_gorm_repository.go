package repositories

import (
	"errors"
	"fmt"

	"kedai/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFoodRepository is a GORM implementation of FoodRepository.
type GORMFoodRepository struct {
	db *gorm.DB
}

// NewGORMFoodRepository creates a new instance of GORMFoodRepository.
func NewGORMFoodRepository(db *gorm.DB) *GORMFoodRepository {
	return &GORMFoodRepository{
		db: db,
	}
}

// GetAll retrieves every food item, available or not.
func (r *GORMFoodRepository) GetAll() ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if err := r.db.Order("name asc").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to get all food items: %w", err)
	}
	return foods, nil
}

// GetAvailable retrieves the food items currently on the menu.
func (r *GORMFoodRepository) GetAvailable() ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if err := r.db.Where("available = ?", true).Order("name asc").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("failed to get available food items: %w", err)
	}
	return foods, nil
}

// GetByID retrieves a single food item by its ID.
func (r *GORMFoodRepository) GetByID(id string) (*models.FoodItem, error) {
	var food models.FoodItem
	if err := r.db.First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("food item with ID %s: %w", id, ErrFoodNotFound)
		}
		return nil, fmt.Errorf("failed to get food item by ID %s: %w", id, err)
	}
	return &food, nil
}

// Create creates a new food item.
func (r *GORMFoodRepository) Create(food *models.FoodItem) error {
	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	if err := r.db.Create(food).Error; err != nil {
		return fmt.Errorf("failed to create food item: %w", err)
	}
	return nil
}

// Update updates an existing food item.
func (r *GORMFoodRepository) Update(food *models.FoodItem) error {
	res := r.db.Model(&models.FoodItem{}).Where("id = ?", food.ID).Select("*").Omit("id", "created_at").Updates(food)
	if res.Error != nil {
		return fmt.Errorf("failed to update food item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("food item with ID %s not found for update: %w", food.ID, ErrFoodNotFound)
	}
	return nil
}

// Delete deletes a food item by its ID.
func (r *GORMFoodRepository) Delete(id string) error {
	res := r.db.Delete(&models.FoodItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete food item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("food item with ID %s not found for deletion: %w", id, ErrFoodNotFound)
	}
	return nil
}
