package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kedai/internal/models"
	"kedai/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FoodPatch holds the menu fields an admin may change. Nil fields are left alone.
type FoodPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *int     `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	IsVeg       *bool    `json:"isVeg"`
	PrepTime    *string  `json:"prepTime"`
	Rating      *float64 `json:"rating"`
	Available   *bool    `json:"available"`
}

// FoodService handles business logic related to the menu.
type FoodService struct {
	repo     repositories.FoodRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewFoodService creates a new FoodService.
func NewFoodService(repo repositories.FoodRepository, logger *zap.Logger) *FoodService {
	return &FoodService{
		repo:     repo,
		validate: newValidator(),
		logger:   logger,
	}
}

// GetMenu retrieves the food items currently available to order.
func (s *FoodService) GetMenu() ([]models.FoodItem, error) {
	foods, err := s.repo.GetAvailable()
	if err != nil {
		return nil, s.storageFailure("list foods", err)
	}
	return foods, nil
}

// GetAllFoods retrieves every food item, available or not.
func (s *FoodService) GetAllFoods() ([]models.FoodItem, error) {
	foods, err := s.repo.GetAll()
	if err != nil {
		return nil, s.storageFailure("list foods", err)
	}
	return foods, nil
}

// GetFoodByID retrieves a single food item by its ID.
func (s *FoodService) GetFoodByID(id string) (*models.FoodItem, error) {
	food, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return nil, fmt.Errorf("%w: food item %s", ErrNotFound, id)
		}
		return nil, s.storageFailure("get food", err)
	}
	return food, nil
}

// CreateFood validates and stores a new food item.
func (s *FoodService) CreateFood(food *models.FoodItem) error {
	food.Name = strings.TrimSpace(food.Name)
	food.Category = strings.TrimSpace(food.Category)
	if food.PrepTime == "" {
		food.PrepTime = "15-20 mins"
	}
	if err := validateStruct(s.validate, food); err != nil {
		return err
	}
	food.ID = uuid.New().String()
	food.CreatedAt = time.Time{}
	food.UpdatedAt = time.Time{}
	if err := s.repo.Create(food); err != nil {
		return s.storageFailure("create food", err)
	}
	s.logger.Info("Food item created", zap.String("foodId", food.ID), zap.String("name", food.Name))
	return nil
}

// UpdateFood applies patch to an existing food item.
func (s *FoodService) UpdateFood(id string, patch FoodPatch) (*models.FoodItem, error) {
	food, err := s.GetFoodByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		food.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		food.Description = *patch.Description
	}
	if patch.Price != nil {
		food.Price = *patch.Price
	}
	if patch.Category != nil {
		food.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Image != nil {
		food.Image = *patch.Image
	}
	if patch.IsVeg != nil {
		food.IsVeg = *patch.IsVeg
	}
	if patch.PrepTime != nil {
		food.PrepTime = *patch.PrepTime
	}
	if patch.Rating != nil {
		food.Rating = *patch.Rating
	}
	if patch.Available != nil {
		food.Available = *patch.Available
	}
	if err := validateStruct(s.validate, food); err != nil {
		return nil, err
	}

	food.UpdatedAt = time.Now()
	if err := s.repo.Update(food); err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return nil, fmt.Errorf("%w: food item %s", ErrNotFound, id)
		}
		return nil, s.storageFailure("update food", err)
	}
	return food, nil
}

// DeleteFood removes a food item from the menu.
func (s *FoodService) DeleteFood(id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrFoodNotFound) {
			return fmt.Errorf("%w: food item %s", ErrNotFound, id)
		}
		return s.storageFailure("delete food", err)
	}
	s.logger.Info("Food item deleted", zap.String("foodId", id))
	return nil
}

// SeedMenu fills an empty catalog with foods. A non-empty catalog is left untouched.
func (s *FoodService) SeedMenu(foods []models.FoodItem) (int, error) {
	existing, err := s.repo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i := range foods {
		if err := s.CreateFood(&foods[i]); err != nil {
			return i, fmt.Errorf("failed to seed %s: %w", foods[i].Name, err)
		}
	}
	return len(foods), nil
}

func (s *FoodService) storageFailure(op string, err error) error {
	s.logger.Error("Food storage operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: could not %s", ErrStorageFailure, op)
}
