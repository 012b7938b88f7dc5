package controllers

import (
	"errors"
	"net/http"

	"github.com/mobilemart/server/app/services"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/response"
)

// PaymentController serves charge-intent creation and payment
// confirmation.
type PaymentController struct {
	intents    *services.IntentService
	settlement *services.SettlementService
}

func NewPaymentController(intents *services.IntentService, settlement *services.SettlementService) *PaymentController {
	return &PaymentController{intents: intents, settlement: settlement}
}

// CreateIntent handles POST /create-payment-intent. The body carries
// the price in major units; the gateway sees cents.
func (c *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price float64 `json:"price" validate:"required,gt=0"`
	}
	if !bindJSON(w, r, &body) {
		return
	}

	secret, err := c.intents.CreateIntent(r.Context(), body.Price)
	if errors.Is(err, services.ErrBadAmount) {
		response.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("create intent failed", "error", err)
		response.Error(w, http.StatusBadGateway, "payment gateway unavailable")
		return
	}

	response.Success(w, map[string]string{"clientSecret": secret})
}

// Confirm handles POST /payments — the gateway-confirmed charge. The
// response reflects the payment record only; the product and booking
// updates run through the settlement outbox.
func (c *PaymentController) Confirm(w http.ResponseWriter, r *http.Request) {
	var confirmation services.Confirmation
	if !bindJSON(w, r, &confirmation) {
		return
	}

	payment, alreadySettled, err := c.settlement.Confirm(r.Context(), confirmation)
	if err != nil {
		logger.WithCtx(r.Context()).Error("payment confirm failed",
			"transaction_id", confirmation.TransactionID, "error", err)
		response.StoreError(w)
		return
	}

	if alreadySettled {
		response.Success(w, payment)
		return
	}
	response.Created(w, payment)
}
