package app

import (
	"fmt"

	"kedai/internal/config"
	"kedai/internal/models"

	"go.uber.org/zap"
)

// defaultMenu is loaded into an empty catalog in development.
func defaultMenu() []models.FoodItem {
	return []models.FoodItem{
		{Name: "Nasi Goreng", Description: "Fried rice with egg, chicken and prawn crackers", Price: 250, Category: "mains", IsVeg: false, PrepTime: "15-20 mins", Rating: 4.6, Available: true},
		{Name: "Gado-Gado", Description: "Vegetables, tofu and tempeh in peanut sauce", Price: 200, Category: "mains", IsVeg: true, PrepTime: "10-15 mins", Rating: 4.4, Available: true},
		{Name: "Sate Ayam", Description: "Grilled chicken skewers with peanut sauce", Price: 300, Category: "grill", IsVeg: false, PrepTime: "20-25 mins", Rating: 4.7, Available: true},
		{Name: "Mie Goreng", Description: "Fried noodles with vegetables", Price: 220, Category: "mains", IsVeg: true, PrepTime: "15-20 mins", Rating: 4.3, Available: true},
		{Name: "Es Teh Manis", Description: "Sweet iced tea", Price: 50, Category: "drinks", IsVeg: true, PrepTime: "5 mins", Rating: 4.5, Available: true},
	}
}

// Seed creates the configured admin account and, in development, a starter menu.
func (a *App) Seed(cfg *config.Config, logger *zap.Logger) error {
	if err := a.Auth.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if !cfg.IsDevelopment() {
		return nil
	}
	seeded, err := a.Foods.SeedMenu(defaultMenu())
	if err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	if seeded > 0 {
		logger.Info("Seeded menu", zap.Int("foods", seeded))
	}
	return nil
}
