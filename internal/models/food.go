package models

import "time"

// FoodItem represents a dish on the menu.
type FoodItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Description string    `json:"description" gorm:"not null" validate:"required,max=500"`
	Price       int       `json:"price" gorm:"not null" validate:"required,gt=0"`
	Category    string    `json:"category" gorm:"type:varchar(50);not null" validate:"required"`
	Image       string    `json:"image" validate:"omitempty,url"`
	IsVeg       bool      `json:"isVeg" gorm:"not null"`
	PrepTime    string    `json:"prepTime" gorm:"default:15-20 mins"`
	Rating      float64   `json:"rating" gorm:"default:4" validate:"gte=0,lte=5"`
	Available   bool      `json:"available" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
