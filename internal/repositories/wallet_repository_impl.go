package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	result := r.db.Create(wallet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateWallet
		}
		return fmt.Errorf("failed to create wallet: %w", result.Error)
	}
	return nil
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	result := r.db.Save(wallet)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet: %w", result.Error)
	}
	return nil
}

// Debit locks the wallet row, verifies the balance, decrements it and
// appends the debit ledger entry. The lock serializes concurrent debits for
// the same user; two debits whose combined amount exceeds the balance can
// never both succeed.
func (r *walletRepository) Debit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := r.lockWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	wallet.Balance -= amount
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return r.appendTransaction(ctx, userID, amount, models.TransactionTypeDebit, description, bookingID)
}

// Credit locks the wallet row, increments the balance and appends the credit
// ledger entry. Used for top-ups and for refund reversals on cancellation.
func (r *walletRepository) Credit(ctx context.Context, userID uint, amount int64, description string, bookingID *uint) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := r.lockWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	wallet.Balance += amount
	if err := r.db.WithContext(ctx).Save(wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to update wallet: %w", err)
	}

	return r.appendTransaction(ctx, userID, amount, models.TransactionTypeCredit, description, bookingID)
}

func (r *walletRepository) lockWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if wallet.Status != "active" {
		return nil, ErrWalletInactive
	}
	return &wallet, nil
}

func (r *walletRepository) appendTransaction(ctx context.Context, userID uint, amount int64, txType, description string, bookingID *uint) (*models.Transaction, error) {
	txn := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		BookingID:   bookingID,
		Reference:   uuid.NewString(),
	}
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txns []models.Transaction
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, total, nil
}

// GetLedgerNet returns credits minus debits for a user. For any wallet that
// started at zero this equals the current balance; the dashboard uses it to
// reconcile the wallet row against the ledger.
func (r *walletRepository) GetLedgerNet(ctx context.Context, userID uint) (int64, error) {
	var net int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE -amount END), 0)").
		Scan(&net).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return net, nil
}

func (r *walletRepository) GetSpendTotal(ctx context.Context, userID uint, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND created_at BETWEEN ? AND ?", userID, models.TransactionTypeDebit, start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get spend total: %w", err)
	}
	return total, nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &walletRepository{db: tx}
		return fn(txRepo)
	})
}
