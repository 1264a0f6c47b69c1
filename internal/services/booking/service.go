// Package booking implements the booking-and-settlement transaction: given
// a request, it verifies meal availability, checks for a conflicting
// booking, debits the wallet and records the booking and its ledger entry
// as one atomic unit of work.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"messbook/internal/models"
	"messbook/internal/repositories"
	"messbook/internal/services/catalog"
	"messbook/internal/services/wallet"
)

type service struct {
	catalog  SlotResolver
	bookings repositories.BookingRepository
	wallets  repositories.WalletRepository
	tx       repositories.TxManager
	cache    CacheOperator
	config   Config
	metrics  wallet.MetricsCollector
}

// NewService creates the booking orchestrator.
func NewService(
	slots SlotResolver,
	bookings repositories.BookingRepository,
	wallets repositories.WalletRepository,
	tx repositories.TxManager,
	cache CacheOperator,
	config Config,
	metrics wallet.MetricsCollector,
) Service {
	if slots == nil {
		panic("slot resolver is required")
	}
	if bookings == nil {
		panic("booking repository is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if tx == nil {
		panic("tx manager is required")
	}

	if config.IdempotencyTTL == 0 {
		config.IdempotencyTTL = defaultIdempotencyTTL
	}
	if config.ProcessingTimeout == 0 {
		config.ProcessingTimeout = defaultProcessingTimeout
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}

	return &service{
		catalog:  slots,
		bookings: bookings,
		wallets:  wallets,
		tx:       tx,
		cache:    cache,
		config:   config,
		metrics:  metrics,
	}
}

// CreateBooking runs the booking state machine:
//
//	validate -> resolve slot -> check conflict -> [debit + persist + ledger]
//
// The bracketed steps run inside one database transaction with a row lock
// on the wallet, so the wallet can never end up debited for a booking that
// does not exist: either everything commits or everything rolls back.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("create_booking", time.Since(start)) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	mealType := strings.ToLower(req.MealType)
	date := catalog.NormalizeDate(req.Date)

	if req.IdempotencyKey != "" {
		if result, err := s.claimIdempotencyKey(ctx, req); result != nil || err != nil {
			return result, err
		}
	}

	// Step order matters: resolve the slot and look for a conflict before
	// touching funds, so an impossible booking never reaches the wallet.
	slot, err := s.catalog.ResolveSlot(ctx, req.HallID, date, mealType)
	if err != nil {
		s.releaseIdempotencyKey(ctx, req)
		return nil, err
	}

	conflict, err := s.bookings.FindActiveConflict(ctx, req.UserID, req.HallID, mealType, date)
	if err != nil {
		s.releaseIdempotencyKey(ctx, req)
		return nil, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	if conflict != nil {
		s.releaseIdempotencyKey(ctx, req)
		return nil, ErrAlreadyBooked
	}

	// Cheap pre-check without a lock. The authoritative check happens under
	// the row lock inside the transaction.
	w, err := s.wallets.GetByUserID(req.UserID)
	if err != nil {
		s.releaseIdempotencyKey(ctx, req)
		return nil, s.mapRepoError(err)
	}
	if w.Balance < slot.Price {
		s.releaseIdempotencyKey(ctx, req)
		s.metrics.RecordError("create_booking", "insufficient_funds")
		return nil, ErrInsufficientFunds
	}

	hallName := ""
	if slot.Hall != nil {
		hallName = slot.Hall.Name
	}
	description := fmt.Sprintf("Booking for %s - %s", mealType, hallName)

	// Once fund reservation begins the request runs to completion even if
	// the caller disconnects; only the unit of work's own deadline applies.
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ProcessingTimeout)
	defer cancel()

	result := &Result{}
	err = s.tx.WithTransaction(workCtx, func(wallets repositories.WalletRepository, bookings repositories.BookingRepository) error {
		b := &models.Booking{
			UserID:   req.UserID,
			HallID:   req.HallID,
			MealID:   slot.ID,
			MealType: mealType,
			Date:     date,
			Price:    slot.Price, // copied now; later catalog changes don't touch this booking
			Status:   models.BookingStatusBooked,
		}
		// The partial unique index closes the race the conflict check above
		// cannot: a concurrent duplicate insert fails here and rolls the
		// whole unit back, debit included.
		if err := bookings.Create(workCtx, b); err != nil {
			return err
		}

		txn, err := wallets.Debit(workCtx, req.UserID, slot.Price, description, &b.ID)
		if err != nil {
			return err
		}

		w, err := wallets.GetByUserID(req.UserID)
		if err != nil {
			return err
		}

		result.Booking = b
		result.Transaction = txn
		result.NewBalance = w.Balance
		return nil
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, req)
		s.metrics.RecordError("create_booking", "transaction_failed")
		return nil, s.mapRepoError(err)
	}

	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, req.UserID)
	}
	s.recordIdempotencyResult(ctx, req, result.Booking.ID)
	s.metrics.RecordTransaction("debit", slot.Price)

	return result, nil
}

// CancelBooking marks a booked meal cancelled and refunds its price as a
// fresh compensating credit. The original debit is never mutated; the
// ledger stays append-only.
func (s *service) CancelBooking(ctx context.Context, userID, bookingID uint) (*Result, error) {
	b, err := s.bookings.GetByIDForUser(bookingID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.Status != models.BookingStatusBooked {
		return nil, ErrInvalidBookingState
	}

	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ProcessingTimeout)
	defer cancel()

	result := &Result{}
	err = s.tx.WithTransaction(workCtx, func(wallets repositories.WalletRepository, bookings repositories.BookingRepository) error {
		// Status guard makes racing cancels safe: the loser sees zero rows.
		if err := bookings.UpdateStatus(workCtx, b.ID, models.BookingStatusBooked, models.BookingStatusCancelled); err != nil {
			if errors.Is(err, repositories.ErrBookingNotFound) {
				return ErrInvalidBookingState
			}
			return err
		}

		txn, err := wallets.Credit(workCtx, userID, b.Price,
			fmt.Sprintf("Refund for cancelled %s booking", b.MealType), &b.ID)
		if err != nil {
			return err
		}

		w, err := wallets.GetByUserID(userID)
		if err != nil {
			return err
		}

		b.Status = models.BookingStatusCancelled
		result.Booking = b
		result.Transaction = txn
		result.NewBalance = w.Balance
		return nil
	})
	if err != nil {
		s.metrics.RecordError("cancel_booking", "transaction_failed")
		return nil, s.mapRepoError(err)
	}

	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, userID)
	}
	s.metrics.RecordTransaction("credit", b.Price)

	return result, nil
}

// ConsumeBooking marks a booked meal as served. No money moves.
func (s *service) ConsumeBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	err := s.bookings.UpdateStatus(ctx, bookingID, models.BookingStatusBooked, models.BookingStatusConsumed)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrInvalidBookingState
		}
		return nil, err
	}
	return s.bookings.GetByID(bookingID)
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID uint) (*models.Booking, error) {
	b, err := s.bookings.GetByIDForUser(bookingID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context, userID uint, filter repositories.BookingFilter, limit, offset int) ([]models.Booking, int64, error) {
	if filter.StartDate != nil {
		d := catalog.NormalizeDate(*filter.StartDate)
		filter.StartDate = &d
	}
	if filter.EndDate != nil {
		d := catalog.NormalizeDate(*filter.EndDate)
		filter.EndDate = &d
	}
	return s.bookings.ListByUser(ctx, userID, filter, limit, offset)
}

// Idempotency helpers. The key is claimed before any mutation; a replay
// either returns the recorded booking or, if the first attempt is still
// running, a retryable in-flight error.

func (s *service) claimIdempotencyKey(ctx context.Context, req CreateBookingRequest) (*Result, error) {
	if s.cache == nil {
		return nil, nil
	}

	claimed, err := s.cache.SetNX(ctx, s.idemKey(req), "pending", s.config.IdempotencyTTL)
	if err != nil {
		// Cache down: proceed without idempotency rather than refusing to
		// book; the store-level uniqueness still guards double bookings.
		return nil, nil
	}
	if claimed {
		return nil, nil
	}

	var bookingID uint
	found, err := s.cache.Get(ctx, s.idemResultKey(req), &bookingID)
	if err != nil || !found {
		return nil, ErrRequestInFlight
	}

	b, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, ErrRequestInFlight
	}
	w, err := s.wallets.GetByUserID(req.UserID)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	return &Result{Booking: b, NewBalance: w.Balance, Replayed: true}, nil
}

func (s *service) recordIdempotencyResult(ctx context.Context, req CreateBookingRequest, bookingID uint) {
	if s.cache == nil || req.IdempotencyKey == "" {
		return
	}
	s.cache.SetWithTTL(ctx, s.idemResultKey(req), bookingID, s.config.IdempotencyTTL)
}

func (s *service) releaseIdempotencyKey(ctx context.Context, req CreateBookingRequest) {
	if s.cache == nil || req.IdempotencyKey == "" {
		return
	}
	s.cache.Delete(ctx, s.idemKey(req))
}

func (s *service) idemKey(req CreateBookingRequest) string {
	return fmt.Sprintf("booking:idem:%d:%s", req.UserID, req.IdempotencyKey)
}

func (s *service) idemResultKey(req CreateBookingRequest) string {
	return fmt.Sprintf("booking:idem:%d:%s:result", req.UserID, req.IdempotencyKey)
}

func (s *service) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDuplicateBooking):
		return ErrAlreadyBooked
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return ErrInsufficientFunds
	case errors.Is(err, repositories.ErrWalletNotFound):
		return wallet.ErrWalletNotFound
	case errors.Is(err, repositories.ErrWalletInactive):
		return wallet.ErrWalletLocked
	default:
		return err
	}
}
