package repositories

import (
	"context"
	"errors"

	"messbook/internal/models"
)

var (
	ErrMealNotFound = errors.New("meal not found")
	ErrHallNotFound = errors.New("hall not found")
)

// MealRepository reads catalog reference data. The booking core never
// mutates halls or meals; only the seeder writes them.
type MealRepository interface {
	FindSlot(ctx context.Context, hallID uint, day, mealType string) (*models.Meal, error)
	ListAvailable(ctx context.Context, hallID uint, day, mealType string) ([]models.Meal, error)
	GetHallByID(id uint) (*models.Hall, error)
	ListActiveHalls(ctx context.Context) ([]models.Hall, error)
}
