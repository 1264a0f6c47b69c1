package booking

import (
	"context"
	"testing"
	"time"

	"messbook/internal/models"
	"messbook/internal/repositories"
	"messbook/internal/services/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSlotResolver struct {
	mock.Mock
}

func (m *MockSlotResolver) ResolveSlot(ctx context.Context, hallID uint, date time.Time, mealType string) (*models.Meal, error) {
	args := m.Called(ctx, hallID, date, mealType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByID(id uint) (*models.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByIDForUser(id, userID uint) (*models.Booking, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepo) FindActiveConflict(ctx context.Context, userID, hallID uint, mealType string, date time.Time) (*models.Booking, error) {
	args := m.Called(ctx, userID, hallID, mealType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockBookingRepo) ListByUser(ctx context.Context, userID uint, filter repositories.BookingFilter, limit, offset int) ([]models.Booking, int64, error) {
	args := m.Called(ctx, userID, filter, limit, offset)
	return args.Get(0).([]models.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepo) CountByUser(ctx context.Context, userID uint, status string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, userID, status, start, end)
	return args.Get(0).(int64), args.Error(1)
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Create(w *models.Wallet) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) Update(w *models.Wallet) error {
	args := m.Called(w)
	return args.Error(0)
}

func (m *MockWalletRepo) Debit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, description, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockWalletRepo) Credit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount, description, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockWalletRepo) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletRepo) GetLedgerNet(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepo) GetSpendTotal(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

// stubTxManager hands the unit of work the same mocks the test configured,
// so expectations set on them cover the in-transaction calls too.
type stubTxManager struct {
	wallets  repositories.WalletRepository
	bookings repositories.BookingRepository
	err      error
	calls    int
	lastCtx  context.Context
}

func (m *stubTxManager) WithTransaction(ctx context.Context, fn func(repositories.WalletRepository, repositories.BookingRepository) error) error {
	m.calls++
	m.lastCtx = ctx
	if m.err != nil {
		return m.err
	}
	return fn(m.wallets, m.bookings)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}

func (m *MockCache) InvalidateWallet(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testMeal() *models.Meal {
	return &models.Meal{
		ID:       7,
		HallID:   2,
		Day:      "monday",
		MealType: models.MealTypeLunch,
		Price:    6000,
		Hall:     &models.Hall{ID: 2, Name: "North Mess"},
	}
}

func testRequest() CreateBookingRequest {
	return CreateBookingRequest{
		UserID:   1,
		HallID:   2,
		MealType: "lunch",
		Date:     time.Date(2026, 3, 2, 13, 45, 0, 0, time.UTC), // monday, mid-day timestamp
	}
}

func newTestService(slots *MockSlotResolver, bookings *MockBookingRepo, wallets *MockWalletRepo, tx *stubTxManager, cache CacheOperator) Service {
	return NewService(slots, bookings, wallets, tx, cache, Config{}, &wallet.NoopMetricsCollector{})
}

func TestCreateBooking_Success(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	meal := testMeal()
	req := testRequest()
	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(meal, nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).Return(nil, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 10000}, nil).Once()

	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Booking) bool {
		return b.UserID == 1 && b.MealID == 7 && b.Price == 6000 &&
			b.Status == models.BookingStatusBooked && b.Date.Equal(normalized)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Booking).ID = 42
	}).Return(nil)

	bookingID := uint(42)
	txn := &models.Transaction{ID: 9, UserID: 1, Amount: 6000, Type: models.TransactionTypeDebit, BookingID: &bookingID}
	wallets.On("Debit", mock.Anything, uint(1), int64(6000), "Booking for lunch - North Mess", mock.MatchedBy(func(id *uint) bool {
		return id != nil && *id == 42
	})).Return(txn, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 4000}, nil).Once()

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CreateBooking(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, uint(42), result.Booking.ID)
	assert.Equal(t, int64(6000), result.Transaction.Amount)
	assert.Equal(t, int64(4000), result.NewBalance)
	assert.False(t, result.Replayed)
	assert.Equal(t, 1, tx.calls)

	slots.AssertExpectations(t)
	bookings.AssertExpectations(t)
	wallets.AssertExpectations(t)
}

func TestCreateBooking_InsufficientFunds(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(testMeal(), nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).Return(nil, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 500}, nil)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CreateBooking(context.Background(), testRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	// The wallet must be untouched: no transaction was even started.
	assert.Equal(t, 0, tx.calls)
	wallets.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_AlreadyBooked(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(testMeal(), nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).
		Return(&models.Booking{ID: 11, Status: models.BookingStatusBooked}, nil)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CreateBooking(context.Background(), testRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.Equal(t, 0, tx.calls)
}

func TestCreateBooking_SameDayDifferentTimestampsCollide(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	// Morning and evening timestamps both normalize to the same day, so the
	// conflict lookup sees the same key for both.
	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(testMeal(), nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).
		Return(&models.Booking{ID: 11, Status: models.BookingStatusBooked}, nil)

	req := testRequest()
	req.Date = time.Date(2026, 3, 2, 22, 15, 0, 0, time.UTC)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	_, err := svc.CreateBooking(context.Background(), req)

	assert.ErrorIs(t, err, ErrAlreadyBooked)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_MealUnavailable(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(nil, ErrMealUnavailable)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CreateBooking(context.Background(), testRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrMealUnavailable)
	assert.Equal(t, 0, tx.calls)
	wallets.AssertNotCalled(t, "GetByUserID", mock.Anything)
}

func TestCreateBooking_DuplicateRaceInsideTransaction(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(testMeal(), nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).Return(nil, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 10000}, nil)

	// A concurrent booking slipped in between the conflict check and the
	// insert; the store rejects the duplicate and the whole unit rolls back.
	bookings.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicateBooking)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CreateBooking(context.Background(), testRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	wallets.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"missing user", func(r *CreateBookingRequest) { r.UserID = 0 }},
		{"missing hall", func(r *CreateBookingRequest) { r.HallID = 0 }},
		{"bad meal type", func(r *CreateBookingRequest) { r.MealType = "supper" }},
		{"zero date", func(r *CreateBookingRequest) { r.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := new(MockSlotResolver)
			bookings := new(MockBookingRepo)
			wallets := new(MockWalletRepo)
			tx := &stubTxManager{wallets: wallets, bookings: bookings}

			req := testRequest()
			tt.mutate(&req)

			svc := newTestService(slots, bookings, wallets, tx, nil)
			result, err := svc.CreateBooking(context.Background(), req)

			assert.Nil(t, result)
			assert.Error(t, err)
			assert.Equal(t, 0, tx.calls)
		})
	}
}

func TestCreateBooking_IdempotentReplay(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}
	cache := new(MockCache)

	req := testRequest()
	req.IdempotencyKey = "retry-abc"

	// Key already claimed and the first attempt recorded its booking.
	cache.On("SetNX", mock.Anything, "booking:idem:1:retry-abc", mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Get", mock.Anything, "booking:idem:1:retry-abc:result", mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*uint) = 42
		}).Return(true, nil)

	bookings.On("GetByID", uint(42)).Return(&models.Booking{ID: 42, UserID: 1, Price: 6000}, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 4000}, nil)

	svc := newTestService(slots, bookings, wallets, tx, cache)
	result, err := svc.CreateBooking(context.Background(), req)

	assert.NoError(t, err)
	assert.True(t, result.Replayed)
	assert.Equal(t, uint(42), result.Booking.ID)
	// No second debit.
	assert.Equal(t, 0, tx.calls)
	slots.AssertNotCalled(t, "ResolveSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_IdempotencyKeyInFlight(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}
	cache := new(MockCache)

	req := testRequest()
	req.IdempotencyKey = "retry-abc"

	cache.On("SetNX", mock.Anything, "booking:idem:1:retry-abc", mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Get", mock.Anything, "booking:idem:1:retry-abc:result", mock.Anything).Return(false, nil)

	svc := newTestService(slots, bookings, wallets, tx, cache)
	result, err := svc.CreateBooking(context.Background(), req)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRequestInFlight)
	assert.Equal(t, 0, tx.calls)
}

func TestCreateBooking_UsesConfiguredTimeout(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	meal := testMeal()
	req := testRequest()
	normalized := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	slots.On("ResolveSlot", mock.Anything, uint(2), normalized, "lunch").Return(meal, nil)
	bookings.On("FindActiveConflict", mock.Anything, uint(1), uint(2), "lunch", normalized).Return(nil, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 10000}, nil).Once()
	bookings.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Booking).ID = 42
	}).Return(nil)
	wallets.On("Debit", mock.Anything, uint(1), int64(6000), mock.Anything, mock.Anything).
		Return(&models.Transaction{ID: 9, UserID: 1, Amount: 6000, Type: models.TransactionTypeDebit}, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 4000}, nil).Once()

	svc := NewService(slots, bookings, wallets, tx, nil,
		Config{ProcessingTimeout: 5 * time.Second}, &wallet.NoopMetricsCollector{})

	before := time.Now()
	_, err := svc.CreateBooking(context.Background(), req)
	assert.NoError(t, err)

	deadline, ok := tx.lastCtx.Deadline()
	assert.True(t, ok, "unit of work should carry a deadline")
	assert.LessOrEqual(t, deadline.Sub(before), 5*time.Second+time.Second)
	assert.Greater(t, deadline.Sub(before), time.Duration(0))
}

func TestCancelBooking_RefundsAsSeparateCredit(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	b := &models.Booking{ID: 42, UserID: 1, Price: 6000, MealType: "lunch", Status: models.BookingStatusBooked}
	bookings.On("GetByIDForUser", uint(42), uint(1)).Return(b, nil)
	bookings.On("UpdateStatus", mock.Anything, uint(42), models.BookingStatusBooked, models.BookingStatusCancelled).Return(nil)

	bookingID := uint(42)
	refund := &models.Transaction{ID: 15, UserID: 1, Amount: 6000, Type: models.TransactionTypeCredit, BookingID: &bookingID}
	wallets.On("Credit", mock.Anything, uint(1), int64(6000), "Refund for cancelled lunch booking", mock.MatchedBy(func(id *uint) bool {
		return id != nil && *id == 42
	})).Return(refund, nil)
	wallets.On("GetByUserID", uint(1)).Return(&models.Wallet{UserID: 1, Balance: 10000}, nil)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CancelBooking(context.Background(), 1, 42)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, result.Booking.Status)
	assert.Equal(t, models.TransactionTypeCredit, result.Transaction.Type)
	assert.Equal(t, int64(10000), result.NewBalance)
	wallets.AssertExpectations(t)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	b := &models.Booking{ID: 42, UserID: 1, Status: models.BookingStatusCancelled}
	bookings.On("GetByIDForUser", uint(42), uint(1)).Return(b, nil)

	svc := newTestService(slots, bookings, wallets, tx, nil)
	result, err := svc.CancelBooking(context.Background(), 1, 42)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidBookingState)
	// No refund for a booking that was never active.
	assert.Equal(t, 0, tx.calls)
}

func TestConsumeBooking(t *testing.T) {
	slots := new(MockSlotResolver)
	bookings := new(MockBookingRepo)
	wallets := new(MockWalletRepo)
	tx := &stubTxManager{wallets: wallets, bookings: bookings}

	t.Run("marks booked meal consumed", func(t *testing.T) {
		bookings.On("UpdateStatus", mock.Anything, uint(42), models.BookingStatusBooked, models.BookingStatusConsumed).Return(nil).Once()
		bookings.On("GetByID", uint(42)).Return(&models.Booking{ID: 42, Status: models.BookingStatusConsumed}, nil).Once()

		svc := newTestService(slots, bookings, wallets, tx, nil)
		b, err := svc.ConsumeBooking(context.Background(), 42)

		assert.NoError(t, err)
		assert.Equal(t, models.BookingStatusConsumed, b.Status)
	})

	t.Run("rejects non-booked state", func(t *testing.T) {
		bookings.On("UpdateStatus", mock.Anything, uint(43), models.BookingStatusBooked, models.BookingStatusConsumed).
			Return(repositories.ErrBookingNotFound).Once()

		svc := newTestService(slots, bookings, wallets, tx, nil)
		b, err := svc.ConsumeBooking(context.Background(), 43)

		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidBookingState)
	})
}
