package wallet

import (
	"context"

	"messbook/internal/models"
)

// Service defines the main wallet service interface. All amounts are
// positive magnitudes in integer minor units.
type Service interface {
	// Core wallet operations
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, userID uint) (int64, error)
	CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error)

	// Top-ups. fundingRef carries the external payment reference when the
	// top-up was funded by card; empty for manual credits.
	TopUp(ctx context.Context, userID uint, amount int64, fundingRef string) (*TopUpResult, error)

	// ValidateTopUpAmount checks amount against the top-up bounds without
	// touching any store. Callers that charge an external card must call it
	// before capturing money, so a credit that would be rejected never
	// charges the card.
	ValidateTopUpAmount(amount int64) error

	// Summary is the read path behind the wallet screen: balance plus the
	// most recent ledger transactions.
	GetSummary(ctx context.Context, userID uint, limit, offset int) (*Summary, error)

	// Reconcile recomputes the user's balance from the ledger alone.
	Reconcile(ctx context.Context, userID uint) (*Reconciliation, error)
}

// CacheOperator is the subset of the cache service the wallet needs.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
