package wallet

import errs "messbook/internal/errors"

// Service errors. These are the DomainError values handlers translate to
// HTTP responses.
var (
	ErrWalletNotFound    = errs.ErrWalletNotFound
	ErrWalletLocked      = errs.ErrWalletLocked
	ErrInvalidAmount     = errs.ErrInvalidAmount
	ErrAmountExceedsMax  = errs.ErrAmountExceedsLimit
	ErrInsufficientFunds = errs.ErrInsufficientBalance
)
