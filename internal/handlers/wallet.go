package handlers

import (
	"fmt"
	"log"

	"messbook/internal/services/payment"
	"messbook/internal/services/wallet"
	"messbook/internal/utils"
	"messbook/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
	gateway       payment.Gateway
}

func NewWalletHandler(walletService wallet.Service, gateway payment.Gateway) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		gateway:       gateway,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"wallet": w,
	})
}

// TopUpWallet credits the wallet. When card details are supplied the card is
// charged first and the resulting charge id becomes the ledger reference;
// without a card the top-up is treated as a cash/counter deposit.
func (h *WalletHandler) TopUpWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount int64         `json:"amount"`
		Card   *payment.Card `json:"card,omitempty"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	// Bounds are checked before any money moves: an amount the wallet would
	// reject must never reach the card gateway.
	if err := h.walletService.ValidateTopUpAmount(input.Amount); err != nil {
		return respondDomainError(c, err)
	}

	fundingRef := ""
	if input.Card != nil {
		w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
		if err != nil {
			return respondDomainError(c, err)
		}
		fundingRef, err = h.gateway.ChargeCard(*input.Card, input.Amount, w.Currency,
			fmt.Sprintf("Wallet top-up for user %d", claims.UserID))
		if err != nil {
			log.Printf("card charge failed for user %d: %v", claims.UserID, err)
			return utils.BadRequest(c, "Card payment failed")
		}
	}

	result, err := h.walletService.TopUp(c.Context(), claims.UserID, input.Amount, fundingRef)
	if err != nil {
		if fundingRef != "" {
			// Money was captured but the credit failed; the charge reference
			// is the handle for the manual reversal.
			log.Printf("wallet credit failed after card charge %s for user %d: %v; charge requires reversal",
				fundingRef, claims.UserID, err)
		}
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Top up successful",
		"amount":      input.Amount,
		"new_balance": result.NewBalance,
		"transaction": result.Transaction,
	})
}

// GetTransactions returns the wallet balance plus the paginated ledger.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)

	summary, err := h.walletService.GetSummary(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}

	p.Total = summary.Total
	resp := pagination.Response(p, summary.Transactions)
	resp["balance"] = summary.Balance
	resp["currency"] = summary.Currency
	return utils.Success(c, resp)
}

// Reconcile recomputes the balance from the ledger and reports any drift.
func (h *WalletHandler) Reconcile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	rec, err := h.walletService.Reconcile(c.Context(), claims.UserID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, rec)
}
