package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messbook/internal/models"

	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{
		db: db,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	result := r.db.WithContext(ctx).Create(booking)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", result.Error)
	}
	return nil
}

func (r *bookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Hall").Preload("Meal").First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) GetByIDForUser(id, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Hall").Preload("Meal").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) FindActiveConflict(ctx context.Context, userID, hallID uint, mealType string, date time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hall_id = ? AND meal_type = ? AND date = ? AND status <> ?",
			userID, hallID, mealType, date, models.BookingStatusCancelled).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	return &booking, nil
}

// UpdateStatus transitions a booking from one status to another. The guard
// on the current status makes concurrent transitions safe: only one of two
// racing cancels can win.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uint, filter BookingFilter, limit, offset int) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{}).Where("bookings.user_id = ?", userID)

	if filter.Status != "" {
		q = q.Where("bookings.status = ?", filter.Status)
	}
	if filter.MealType != "" {
		q = q.Where("bookings.meal_type = ?", filter.MealType)
	}
	if filter.StartDate != nil {
		q = q.Where("bookings.date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("bookings.date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Joins("JOIN halls ON halls.id = bookings.hall_id").
			Joins("JOIN meals ON meals.id = bookings.meal_id").
			Where("halls.name ILIKE ? OR meals.menu_items::text ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []models.Booking
	err := q.Preload("Hall").Preload("Meal").
		Order("bookings.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *bookingRepository) CountByUser(ctx context.Context, userID uint, status string, start, end time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if !start.IsZero() || !end.IsZero() {
		q = q.Where("date BETWEEN ? AND ?", start, end)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
