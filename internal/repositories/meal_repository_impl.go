package repositories

import (
	"context"
	"errors"
	"fmt"

	"messbook/internal/models"

	"gorm.io/gorm"
)

type mealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) MealRepository {
	return &mealRepository{
		db: db,
	}
}

func (r *mealRepository) FindSlot(ctx context.Context, hallID uint, day, mealType string) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.WithContext(ctx).
		Preload("Hall").
		Where("hall_id = ? AND day = ? AND meal_type = ? AND available = ?", hallID, day, mealType, true).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to find meal slot: %w", err)
	}
	return &meal, nil
}

func (r *mealRepository) ListAvailable(ctx context.Context, hallID uint, day, mealType string) ([]models.Meal, error) {
	q := r.db.WithContext(ctx).Preload("Hall").Where("available = ?", true)
	if hallID != 0 {
		q = q.Where("hall_id = ?", hallID)
	}
	if day != "" {
		q = q.Where("day = ?", day)
	}
	if mealType != "" {
		q = q.Where("meal_type = ?", mealType)
	}

	var meals []models.Meal
	if err := q.Order("hall_id, day, meal_type").Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (r *mealRepository) GetHallByID(id uint) (*models.Hall, error) {
	var hall models.Hall
	if err := r.db.First(&hall, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, fmt.Errorf("failed to get hall: %w", err)
	}
	return &hall, nil
}

func (r *mealRepository) ListActiveHalls(ctx context.Context) ([]models.Hall, error) {
	var halls []models.Hall
	err := r.db.WithContext(ctx).
		Where("status = ?", models.HallStatusActive).
		Order("name").
		Find(&halls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list halls: %w", err)
	}
	return halls, nil
}
