package models

import "time"

// Transaction types
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction is one ledger entry. The ledger is append-only: rows are never
// updated or deleted, so a user's balance history is fully reconstructable
// from their transactions alone. Every debit caused by a booking carries the
// booking's id.
type Transaction struct {
	ID          uint      `gorm:"primarykey"`
	UserID      uint      `gorm:"not null;index"`
	Amount      int64     `gorm:"not null"` // positive magnitude, minor units
	Type        string    `gorm:"not null"` // credit or debit
	Description string    `gorm:"not null"`
	BookingID   *uint     `gorm:"index"`
	Booking     *Booking  `gorm:"foreignKey:BookingID"`
	Reference   string    `gorm:"uniqueIndex"` // external reference / idempotency anchor
	CreatedAt   time.Time
}
