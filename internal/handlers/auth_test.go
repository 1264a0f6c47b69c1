package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"messbook/internal/models"
	"messbook/internal/repositories"
	"messbook/internal/services/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(email, password string) (*models.User, string, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(refreshToken string) (string, string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	args := m.Called(userID, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) GetUserTokenVersion(userID uint) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockAuthService) GetUserByID(userID uint) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newRegisterApp(svc auth.Service) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(svc)
	app.Post("/api/register", h.RegisterUser)
	return app
}

func TestRegisterUser_RequiresRollNumber(t *testing.T) {
	svc := new(MockAuthService)
	app := newRegisterApp(svc)

	body := `{"email":"asha@example.edu","password":"changeme123","name":"Asha"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "roll_number")
	// Nothing should reach the service when validation fails.
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegisterUser_DuplicateEmailOrRollNumber(t *testing.T) {
	svc := new(MockAuthService)
	app := newRegisterApp(svc)

	svc.On("Register", mock.Anything, mock.Anything).Return(nil, repositories.ErrDuplicateUser)

	body := `{"email":"asha@example.edu","password":"changeme123","name":"Asha","roll_number":"2023CS101"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "email or roll number")
}

func TestRegisterUser_Success(t *testing.T) {
	svc := new(MockAuthService)
	app := newRegisterApp(svc)

	svc.On("Register", mock.Anything, mock.MatchedBy(func(in auth.RegisterInput) bool {
		return in.Email == "asha@example.edu" && in.RollNumber == "2023CS101"
	})).Return(&models.User{Model: gorm.Model{ID: 1}, Email: "asha@example.edu", Name: "Asha", RollNumber: "2023CS101", Role: "student"}, nil)

	body := `{"email":"asha@example.edu","password":"changeme123","name":"Asha","roll_number":"2023CS101"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "2023CS101")
	svc.AssertExpectations(t)
}
