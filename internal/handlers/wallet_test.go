package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"messbook/internal/models"
	"messbook/internal/services/payment"
	"messbook/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletService) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) TopUp(ctx context.Context, userID uint, amount int64, fundingRef string) (*wallet.TopUpResult, error) {
	args := m.Called(ctx, userID, amount, fundingRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.TopUpResult), args.Error(1)
}

func (m *MockWalletService) ValidateTopUpAmount(amount int64) error {
	args := m.Called(amount)
	return args.Error(0)
}

func (m *MockWalletService) GetSummary(ctx context.Context, userID uint, limit, offset int) (*wallet.Summary, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Summary), args.Error(1)
}

func (m *MockWalletService) Reconcile(ctx context.Context, userID uint) (*wallet.Reconciliation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Reconciliation), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ChargeCard(card payment.Card, amount int64, currency, description string) (string, error) {
	args := m.Called(card, amount, currency, description)
	return args.String(0), args.Error(1)
}

func newTopUpApp(svc wallet.Service, gw payment.Gateway) *fiber.App {
	app := fiber.New()
	h := NewWalletHandler(svc, gw)
	app.Post("/api/wallet/topup", func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{UserID: 1, Role: "student"})
		return c.Next()
	}, h.TopUpWallet)
	return app
}

const testCardBody = `"card":{"number":"4242424242424242","expiry_month":"12","expiry_year":"2030","cvc":"123"}`

// An amount the wallet would refuse must be rejected before the card
// gateway captures anything.
func TestTopUpWallet_ValidatesBeforeCharging(t *testing.T) {
	svc := new(MockWalletService)
	gw := new(MockGateway)
	app := newTopUpApp(svc, gw)

	svc.On("ValidateTopUpAmount", int64(5000000)).Return(wallet.ErrAmountExceedsMax)

	body := `{"amount":5000000,` + testCardBody + `}`
	req := httptest.NewRequest("POST", "/api/wallet/topup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	gw.AssertNotCalled(t, "ChargeCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTopUpWallet_CardChargeFeedsCredit(t *testing.T) {
	svc := new(MockWalletService)
	gw := new(MockGateway)
	app := newTopUpApp(svc, gw)

	svc.On("ValidateTopUpAmount", int64(50000)).Return(nil)
	svc.On("GetWallet", mock.Anything, uint(1)).Return(&models.Wallet{UserID: 1, Currency: "INR"}, nil)
	gw.On("ChargeCard", mock.Anything, int64(50000), "INR", mock.Anything).Return("ch_123", nil)
	svc.On("TopUp", mock.Anything, uint(1), int64(50000), "ch_123").
		Return(&wallet.TopUpResult{NewBalance: 50000, Transaction: &models.Transaction{ID: 1, Amount: 50000}}, nil)

	body := `{"amount":50000,` + testCardBody + `}`
	req := httptest.NewRequest("POST", "/api/wallet/topup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	svc.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestTopUpWallet_CashTopUpSkipsGateway(t *testing.T) {
	svc := new(MockWalletService)
	gw := new(MockGateway)
	app := newTopUpApp(svc, gw)

	svc.On("ValidateTopUpAmount", int64(20000)).Return(nil)
	svc.On("TopUp", mock.Anything, uint(1), int64(20000), "").
		Return(&wallet.TopUpResult{NewBalance: 20000, Transaction: &models.Transaction{ID: 2, Amount: 20000}}, nil)

	req := httptest.NewRequest("POST", "/api/wallet/topup", strings.NewReader(`{"amount":20000}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	gw.AssertNotCalled(t, "ChargeCard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertExpectations(t)
}
