package repositories

import (
	"testing"

	"kedai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMFoodRepository(t *testing.T) {
	repo := NewGORMFoodRepository(newTestDB(t))

	soup := &models.FoodItem{Name: "Soto Ayam", Description: "Chicken soup", Price: 200, Category: "soups", Available: true}
	tea := &models.FoodItem{Name: "Es Teh", Description: "Iced tea", Price: 50, Category: "drinks", Available: false}
	require.NoError(t, repo.Create(soup))
	require.NoError(t, repo.Create(tea))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Es Teh", all[0].Name)

	// An explicit false must survive the insert.
	available, err := repo.GetAvailable()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, soup.ID, available[0].ID)

	soup.Price = 220
	soup.Available = false
	require.NoError(t, repo.Update(soup))
	reloaded, err := repo.GetByID(soup.ID)
	require.NoError(t, err)
	assert.Equal(t, 220, reloaded.Price)
	assert.False(t, reloaded.Available)

	assert.ErrorIs(t, repo.Update(&models.FoodItem{ID: "missing", Name: "Nope"}), ErrFoodNotFound)

	require.NoError(t, repo.Delete(tea.ID))
	_, err = repo.GetByID(tea.ID)
	assert.ErrorIs(t, err, ErrFoodNotFound)
	assert.ErrorIs(t, repo.Delete(tea.ID), ErrFoodNotFound)
}
