package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"kedai/internal/models"

	"github.com/google/uuid"
)

// MemoryFoodRepository is an in-memory implementation of FoodRepository.
type MemoryFoodRepository struct {
	foods map[string]models.FoodItem
	mu    sync.RWMutex
}

// NewMemoryFoodRepository creates a new instance of MemoryFoodRepository.
func NewMemoryFoodRepository() *MemoryFoodRepository {
	return &MemoryFoodRepository{
		foods: make(map[string]models.FoodItem),
	}
}

// GetAll returns all food items sorted by name.
func (r *MemoryFoodRepository) GetAll() ([]models.FoodItem, error) {
	return r.filter(func(models.FoodItem) bool { return true }), nil
}

// GetAvailable returns the available food items sorted by name.
func (r *MemoryFoodRepository) GetAvailable() ([]models.FoodItem, error) {
	return r.filter(func(f models.FoodItem) bool { return f.Available }), nil
}

func (r *MemoryFoodRepository) filter(keep func(models.FoodItem) bool) []models.FoodItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	foodList := make([]models.FoodItem, 0, len(r.foods))
	for _, f := range r.foods {
		if keep(f) {
			foodList = append(foodList, f)
		}
	}
	sort.Slice(foodList, func(i, j int) bool { return foodList[i].Name < foodList[j].Name })
	return foodList
}

// GetByID returns a food item by its ID.
func (r *MemoryFoodRepository) GetByID(id string) (*models.FoodItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	food, ok := r.foods[id]
	if !ok {
		return nil, fmt.Errorf("food item with ID %s: %w", id, ErrFoodNotFound)
	}
	return &food, nil
}

// Create adds a new food item.
func (r *MemoryFoodRepository) Create(food *models.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	now := time.Now()
	food.CreatedAt = now
	food.UpdatedAt = now
	r.foods[food.ID] = *food
	return nil
}

// Update modifies an existing food item.
func (r *MemoryFoodRepository) Update(food *models.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.foods[food.ID]
	if !ok {
		return fmt.Errorf("food item with ID %s not found for update: %w", food.ID, ErrFoodNotFound)
	}
	food.CreatedAt = existing.CreatedAt
	food.UpdatedAt = time.Now()
	r.foods[food.ID] = *food
	return nil
}

// Delete removes a food item by its ID.
func (r *MemoryFoodRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.foods[id]; !ok {
		return fmt.Errorf("food item with ID %s not found for deletion: %w", id, ErrFoodNotFound)
	}
	delete(r.foods, id)
	return nil
}
