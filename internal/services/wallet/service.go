package wallet

import (
	"context"
	"errors"
	"fmt"

	"messbook/internal/models"
	"messbook/internal/repositories"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	config  Config
	metrics MetricsCollector
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	cache CacheOperator,
	config Config,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}

	if config.DefaultCurrency == "" {
		config.DefaultCurrency = DefaultCurrency
	}
	if config.MaxTopUpAmount == 0 {
		config.MaxTopUpAmount = DefaultMaxTopUpAmount
	}
	if config.ProcessingTimeout == 0 {
		config.ProcessingTimeout = DefaultTimeout
	}

	// Metrics is optional, create no-op collector if nil
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:    repo,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	// Try cache first
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
			s.metrics.RecordCacheHit("wallet")
			return wallet, nil
		}
		s.metrics.RecordCacheMiss("wallet")
	}

	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheWallet(ctx, wallet)
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, userID uint) (int64, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) CreateWallet(ctx context.Context, userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	wallet := &models.Wallet{
		UserID:   userID,
		Status:   StatusActive,
		Currency: currency,
	}

	if err := s.repo.Create(wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	if s.cache != nil {
		s.cache.CacheWallet(ctx, wallet)
	}
	return wallet, nil
}

// ValidateTopUpAmount applies the same bounds TopUp enforces, without any
// side effects.
func (s *service) ValidateTopUpAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > s.config.MaxTopUpAmount {
		return ErrAmountExceedsMax
	}
	return nil
}

func (s *service) TopUp(ctx context.Context, userID uint, amount int64, fundingRef string) (*TopUpResult, error) {
	if err := s.ValidateTopUpAmount(amount); err != nil {
		if errors.Is(err, ErrAmountExceedsMax) {
			s.metrics.RecordError("top_up", "amount_exceeds_limit")
		} else {
			s.metrics.RecordError("top_up", "invalid_amount")
		}
		return nil, err
	}

	description := "Wallet top-up"
	if fundingRef != "" {
		description = fmt.Sprintf("Wallet top-up (ref %s)", fundingRef)
	}

	// A top-up that funded from a card must finish even if the caller goes
	// away; only the configured deadline bounds the unit of work.
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ProcessingTimeout)
	defer cancel()

	var result TopUpResult
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		txn, err := tx.Credit(workCtx, userID, amount, description, nil)
		if err != nil {
			return err
		}
		wallet, err := tx.GetByUserID(userID)
		if err != nil {
			return err
		}
		result.Transaction = txn
		result.NewBalance = wallet.Balance
		return nil
	})
	if err != nil {
		s.metrics.RecordError("top_up", "transaction_failed")
		return nil, s.mapRepoError(err)
	}

	if s.cache != nil {
		s.cache.InvalidateWallet(ctx, userID)
	}
	s.metrics.RecordTransaction("credit", amount)

	return &result, nil
}

func (s *service) GetSummary(ctx context.Context, userID uint, limit, offset int) (*Summary, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, total, err := s.repo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	return &Summary{
		Balance:      wallet.Balance,
		Currency:     wallet.Currency,
		Transactions: txns,
		Total:        total,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, userID uint) (*Reconciliation, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	net, err := s.repo.GetLedgerNet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Reconciliation{
		Balance:   wallet.Balance,
		LedgerNet: net,
		Drift:     wallet.Balance - net,
	}, nil
}

func (s *service) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrWalletNotFound):
		return ErrWalletNotFound
	case errors.Is(err, repositories.ErrWalletInactive):
		return ErrWalletLocked
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return ErrInsufficientFunds
	case errors.Is(err, repositories.ErrInvalidAmount):
		return ErrInvalidAmount
	default:
		return err
	}
}
