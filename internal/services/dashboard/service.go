// Package dashboard computes read-side aggregates. Nothing here is stored:
// every figure is derived from the ledger and booking stores on demand, so
// there is no second source of truth to drift from them.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"messbook/internal/models"
	"messbook/internal/repositories"
)

// UserDashboard is the per-user overview screen.
type UserDashboard struct {
	Balance           int64 `json:"balance"`
	LedgerNet         int64 `json:"ledger_net"`
	SpentThisMonth    int64 `json:"spent_this_month"`
	BookingsThisMonth int64 `json:"bookings_this_month"`
	MealsConsumed     int64 `json:"meals_consumed"`
	UpcomingBookings  int64 `json:"upcoming_bookings"`
}

type Service interface {
	GetUserDashboard(ctx context.Context, userID uint) (*UserDashboard, error)
}

type service struct {
	wallets  repositories.WalletRepository
	bookings repositories.BookingRepository
}

func NewService(wallets repositories.WalletRepository, bookings repositories.BookingRepository) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if bookings == nil {
		panic("booking repository is required")
	}
	return &service{
		wallets:  wallets,
		bookings: bookings,
	}
}

func (s *service) GetUserDashboard(ctx context.Context, userID uint) (*UserDashboard, error) {
	wallet, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	net, err := s.wallets.GetLedgerNet(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	spent, err := s.wallets.GetSpendTotal(ctx, userID, startOfMonth, endOfMonth)
	if err != nil {
		return nil, err
	}

	monthBookings, err := s.bookings.CountByUser(ctx, userID, "", startOfMonth, endOfMonth)
	if err != nil {
		return nil, err
	}

	consumed, err := s.bookings.CountByUser(ctx, userID, models.BookingStatusConsumed, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	upcoming, err := s.bookings.CountByUser(ctx, userID, models.BookingStatusBooked, today, today.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}

	return &UserDashboard{
		Balance:           wallet.Balance,
		LedgerNet:         net,
		SpentThisMonth:    spent,
		BookingsThisMonth: monthBookings,
		MealsConsumed:     consumed,
		UpcomingBookings:  upcoming,
	}, nil
}
