// Package auth issues and validates the credentials that put an
// authenticated user id on every request. The booking core itself never
// re-validates identity; it trusts the id this gateway supplies.
package auth

import (
	"context"
	"errors"
	"log"

	"messbook/internal/models"
	"messbook/internal/repositories"
	"messbook/internal/services/wallet"
	"messbook/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserTokenVersion(userID uint) (int, error)
	GetUserByID(userID uint) (*models.User, error)
}

// RegisterInput is the data needed to create an account with its wallet.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	RollNumber string
}

type service struct {
	userRepo repositories.UserRepository
	wallets  wallet.Service
}

func NewService(userRepo repositories.UserRepository, wallets wallet.Service) Service {
	return &service{
		userRepo: userRepo,
		wallets:  wallets,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      input.Email,
		Password:   string(hashed),
		Name:       input.Name,
		RollNumber: input.RollNumber,
		Role:       "user",
		Status:     "active",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Every account gets a wallet; it starts at zero.
	w, err := s.wallets.CreateWallet(ctx, user.ID, "")
	if err != nil {
		return nil, err
	}
	user.WalletID = &w.ID
	user.Wallet = w
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: incorrect password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if claims.TokenVersion != user.TokenVersion {
		return "", "", ErrInvalidCredentials
	}

	return generateFor(user)
}

// Logout bumps the token version so every outstanding token is rejected.
func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	// Invalidate existing sessions.
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func generateFor(user *models.User) (string, string, error) {
	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
}
