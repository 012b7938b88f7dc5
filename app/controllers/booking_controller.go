package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/response"
	"github.com/mobilemart/server/pkg/store"
)

// BookingController serves the buyer's bookings. Routes are gated by
// the token middleware only — no role check applies to bookings.
type BookingController struct {
	bookings *repositories.BookingRepository
}

func NewBookingController(bookings *repositories.BookingRepository) *BookingController {
	return &BookingController{bookings: bookings}
}

// List handles GET /bookings, scoped to the caller's email claim.
func (c *BookingController) List(w http.ResponseWriter, r *http.Request) {
	claim, _ := middleware.EmailFromCtx(r.Context())

	bookings, err := c.bookings.ByBuyer(r.Context(), claim)
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, bookings)
}

// Get handles GET /bookings/{id}.
func (c *BookingController) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := c.bookings.ByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, booking)
}

// Create handles POST /bookings. The buyer is the caller.
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	var booking models.Booking
	if !bindJSON(w, r, &booking) {
		return
	}

	claim, _ := middleware.EmailFromCtx(r.Context())
	booking.BuyerEmail = claim

	if err := c.bookings.Create(r.Context(), &booking); err != nil {
		response.StoreError(w)
		return
	}
	response.Created(w, booking)
}

// Delete handles DELETE /bookings/{id}. Only the owning buyer may
// delete a booking.
func (c *BookingController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := c.bookings.ByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}

	claim, _ := middleware.EmailFromCtx(r.Context())
	if booking.BuyerEmail != claim {
		response.Forbidden(w)
		return
	}

	if err := c.bookings.Delete(r.Context(), id); err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "deleted")
}
