// Package catalog resolves meal slots: which meal a hall serves for a given
// calendar date and meal type. It owns the calendar-week semantics of the
// application; everything downstream works with the dates it normalizes.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	errs "messbook/internal/errors"
	"messbook/internal/models"
	"messbook/internal/repositories"
)

// Service resolves catalog reference data. Pure reads; safe for concurrent
// use without coordination.
type Service interface {
	ResolveSlot(ctx context.Context, hallID uint, date time.Time, mealType string) (*models.Meal, error)
	ListMeals(ctx context.Context, hallID uint, day, mealType string) ([]models.Meal, error)
	ListHalls(ctx context.Context) ([]models.Hall, error)
}

// SlotCache is the subset of the cache service the catalog needs.
type SlotCache interface {
	GetMeal(ctx context.Context, hallID uint, day, mealType string) (*models.Meal, error)
	CacheMeal(ctx context.Context, hallID uint, day, mealType string, meal *models.Meal) error
}

type service struct {
	repo  repositories.MealRepository
	cache SlotCache
}

func NewService(repo repositories.MealRepository, cache SlotCache) Service {
	if repo == nil {
		panic("meal repository is required")
	}
	return &service{
		repo:  repo,
		cache: cache,
	}
}

// NormalizeDate strips the time-of-day component so that two requests on the
// same calendar day always collide, no matter what timestamp the client
// sent. All stored booking dates go through this.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayName returns the weekday name used by meal slots (monday..sunday).
func DayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

func (s *service) ResolveSlot(ctx context.Context, hallID uint, date time.Time, mealType string) (*models.Meal, error) {
	mealType = strings.ToLower(mealType)
	if !models.ValidMealType(mealType) {
		return nil, errs.ErrMealUnavailable
	}

	day := DayName(NormalizeDate(date))

	if s.cache != nil {
		if meal, err := s.cache.GetMeal(ctx, hallID, day, mealType); err == nil {
			return meal, nil
		}
	}

	meal, err := s.repo.FindSlot(ctx, hallID, day, mealType)
	if err != nil {
		if err == repositories.ErrMealNotFound {
			return nil, errs.ErrMealUnavailable
		}
		return nil, fmt.Errorf("failed to resolve meal slot: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheMeal(ctx, hallID, day, mealType, meal)
	}
	return meal, nil
}

func (s *service) ListMeals(ctx context.Context, hallID uint, day, mealType string) ([]models.Meal, error) {
	return s.repo.ListAvailable(ctx, hallID, strings.ToLower(day), strings.ToLower(mealType))
}

func (s *service) ListHalls(ctx context.Context) ([]models.Hall, error) {
	return s.repo.ListActiveHalls(ctx)
}
