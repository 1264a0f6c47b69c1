// Package payment charges external cards to fund wallet top-ups. The wallet
// itself never sees card details; it only receives the charge reference.
package payment

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
	"github.com/stripe/stripe-go/v72/token"
)

// Card carries the details of the funding card for a single charge.
type Card struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVC         string `json:"cvc"`
}

// Gateway charges a card and returns an external reference for the ledger.
type Gateway interface {
	ChargeCard(card Card, amount int64, currency, description string) (string, error)
}

type stripeGateway struct{}

func NewStripeGateway() Gateway {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &stripeGateway{}
}

func (g *stripeGateway) ChargeCard(card Card, amount int64, currency, description string) (string, error) {
	if amount <= 0 {
		return "", errors.New("charge amount must be positive")
	}

	src := card.Number
	// Test tokens (tok_visa etc.) skip tokenization.
	if !strings.HasPrefix(src, "tok_") {
		if !isValidCardNumber(card.Number) {
			return "", errors.New("invalid card number: failed validation check")
		}
		params := &stripe.TokenParams{
			Card: &stripe.CardParams{
				Number:   &card.Number,
				ExpMonth: &card.ExpiryMonth,
				ExpYear:  &card.ExpiryYear,
				CVC:      &card.CVC,
			},
		}
		stripeToken, err := token.New(params)
		if err != nil {
			return "", fmt.Errorf("stripe tokenization failed: %w", err)
		}
		src = stripeToken.ID
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(strings.ToLower(currency)),
		Description: stripe.String(description),
	}
	if err := params.SetSource(src); err != nil {
		return "", fmt.Errorf("failed to set charge source: %w", err)
	}

	ch, err := charge.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge failed: %w", err)
	}
	return ch.ID, nil
}

// Luhn check on the card number.
func isValidCardNumber(cardNumber string) bool {
	var sum int
	shouldDouble := false

	for i := len(cardNumber) - 1; i >= 0; i-- {
		if cardNumber[i] < '0' || cardNumber[i] > '9' {
			return false
		}
		digit := int(cardNumber[i] - '0')

		if shouldDouble {
			digit = digit * 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}
