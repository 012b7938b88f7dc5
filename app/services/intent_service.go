package services

import (
	"context"
	"errors"
	"math"

	"github.com/mobilemart/server/pkg/payment"
)

// ErrBadAmount rejects zero or negative charge amounts before the
// gateway sees them.
var ErrBadAmount = errors.New("charge amount must be positive")

// IntentService asks the payment gateway for a single-use charge intent
// and hands the client secret back to the browser. No local state.
type IntentService struct {
	gateway  payment.Gateway
	currency string
}

func NewIntentService(gateway payment.Gateway) *IntentService {
	return &IntentService{gateway: gateway, currency: "usd"}
}

// CreateIntent converts price from major to minor units (cents) and
// requests a card charge intent for it.
func (s *IntentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	amountMinor := int64(math.Round(price * 100))
	if amountMinor <= 0 {
		return "", ErrBadAmount
	}
	return s.gateway.CreateIntent(ctx, amountMinor, s.currency)
}
