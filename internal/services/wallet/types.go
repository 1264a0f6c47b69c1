package wallet

import (
	"time"

	"messbook/internal/models"
)

// Config holds configuration for wallet operations. Amounts are minor units.
type Config struct {
	DefaultCurrency   string
	MaxTopUpAmount    int64 // per-transaction cap
	ProcessingTimeout time.Duration
}

// TopUpResult is returned by a successful top-up.
type TopUpResult struct {
	NewBalance  int64               `json:"new_balance"`
	Transaction *models.Transaction `json:"transaction"`
}

// Summary is the wallet read model: current balance plus recent ledger
// history, newest first.
type Summary struct {
	Balance      int64                `json:"balance"`
	Currency     string               `json:"currency"`
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
}

// Reconciliation compares the wallet row against the ledger-derived balance.
type Reconciliation struct {
	Balance   int64 `json:"balance"`
	LedgerNet int64 `json:"ledger_net"`
	Drift     int64 `json:"drift"` // zero when the ledger fully explains the balance
}

// MetricsCollector defines the interface for collecting wallet metrics.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount int64)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}
