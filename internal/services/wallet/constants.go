package wallet

import "time"

// Wallet statuses
const (
	StatusActive   = "active"
	StatusLocked   = "locked"
	StatusInactive = "inactive"
)

// Default configuration values
const (
	DefaultCurrency = "INR"
	// 10,000.00 in minor units; matches the seeded top-up cap.
	DefaultMaxTopUpAmount = int64(1000000)
	DefaultTimeout        = 30 * time.Second
)
