package repositories

import (
	"context"
	"errors"
	"time"

	"messbook/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletInactive      = errors.New("wallet is not active")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrDuplicateWallet     = errors.New("wallet already exists")
)

// WalletRepository is the only component allowed to mutate wallet balances.
// Debit and Credit take a row lock on the wallet and append the paired
// ledger transaction; they are meaningful only on a repository bound to a
// database transaction (see ExecuteInTransaction / TxManager).
type WalletRepository interface {
	// Core wallet operations
	Create(wallet *models.Wallet) error
	GetByUserID(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	// Ledger operations. Amount is a positive magnitude in minor units.
	Debit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error)
	Credit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error)

	// Ledger reads
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
	GetLedgerNet(ctx context.Context, userID uint) (int64, error)
	GetSpendTotal(ctx context.Context, userID uint, start, end time.Time) (int64, error)

	// ExecuteInTransaction runs fn against a repository bound to one
	// database transaction.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
