// Package payment wraps the external card-payment gateway. The only
// contract the server relies on is: create a charge intent for an
// amount, get back a client secret the browser uses to complete the
// charge. Confirmation arrives later as a separate call carrying the
// gateway's transaction id.
package payment

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// ErrNoSecret means the gateway accepted the intent but returned no
// client secret; treated as a gateway failure.
var ErrNoSecret = errors.New("payment: gateway returned no client secret")

// Gateway creates single-use charge intents.
type Gateway interface {
	// CreateIntent requests a card charge intent for amountMinor
	// (smallest currency unit) and returns the client secret.
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error)
}

// Stripe is the production Gateway.
type Stripe struct{}

// NewStripe configures the shared stripe client with the secret key.
func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{}
}

func (s *Stripe) CreateIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: create intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return "", ErrNoSecret
	}
	return pi.ClientSecret, nil
}
