package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's prepaid balance in integer minor units. The balance
// is mutated only through the wallet repository inside a database
// transaction, and every change is paired with a Transaction row.
type Wallet struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"uniqueIndex;not null"`
	Balance      int64  `gorm:"not null;default:0"` // minor units, never negative
	Currency     string `gorm:"default:'INR'"`
	Status       string `gorm:"default:'active'"`
	StatusReason string `gorm:"default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Ensure balance starts at 0
	w.Balance = 0
	return nil
}
