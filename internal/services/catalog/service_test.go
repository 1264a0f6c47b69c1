package catalog

import (
	"context"
	"testing"
	"time"

	errs "messbook/internal/errors"
	"messbook/internal/models"
	"messbook/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMealRepo struct {
	mock.Mock
}

func (m *MockMealRepo) FindSlot(ctx context.Context, hallID uint, day, mealType string) (*models.Meal, error) {
	args := m.Called(ctx, hallID, day, mealType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealRepo) ListAvailable(ctx context.Context, hallID uint, day, mealType string) ([]models.Meal, error) {
	args := m.Called(ctx, hallID, day, mealType)
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepo) GetHallByID(id uint) (*models.Hall, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hall), args.Error(1)
}

func (m *MockMealRepo) ListActiveHalls(ctx context.Context) ([]models.Hall, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Hall), args.Error(1)
}

func TestNormalizeDate(t *testing.T) {
	morning := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, NormalizeDate(morning), NormalizeDate(evening))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), NormalizeDate(morning))
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "monday", DayName(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sunday", DayName(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestResolveSlot(t *testing.T) {
	t.Run("maps date to weekday slot", func(t *testing.T) {
		repo := new(MockMealRepo)
		svc := NewService(repo, nil)

		meal := &models.Meal{ID: 7, HallID: 2, Day: "monday", MealType: "lunch", Price: 6000}
		repo.On("FindSlot", mock.Anything, uint(2), "monday", "lunch").Return(meal, nil)

		got, err := svc.ResolveSlot(context.Background(), 2, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), "Lunch")
		assert.NoError(t, err)
		assert.Equal(t, uint(7), got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("unknown meal type", func(t *testing.T) {
		repo := new(MockMealRepo)
		svc := NewService(repo, nil)

		_, err := svc.ResolveSlot(context.Background(), 2, time.Now(), "supper")
		assert.ErrorIs(t, err, errs.ErrMealUnavailable)
		repo.AssertNotCalled(t, "FindSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no slot configured", func(t *testing.T) {
		repo := new(MockMealRepo)
		svc := NewService(repo, nil)

		repo.On("FindSlot", mock.Anything, uint(2), "monday", "dinner").Return(nil, repositories.ErrMealNotFound)

		_, err := svc.ResolveSlot(context.Background(), 2, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC), "dinner")
		assert.ErrorIs(t, err, errs.ErrMealUnavailable)
	})
}
