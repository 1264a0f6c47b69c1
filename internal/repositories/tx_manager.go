package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a unit of work spanning the wallet and booking stores
// inside one database transaction. It is how the booking orchestrator gets
// fund reservation, booking persistence and the ledger entry to commit or
// roll back together.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(wallets WalletRepository, bookings BookingRepository) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTransaction(ctx context.Context, fn func(wallets WalletRepository, bookings BookingRepository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewWalletRepository(tx), NewBookingRepository(tx))
	})
}
