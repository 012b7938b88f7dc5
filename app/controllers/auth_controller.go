package controllers

import (
	"errors"
	"net/http"

	"github.com/mobilemart/server/app/services"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/response"
)

// AuthController serves the token endpoint.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Token handles GET /jwt?email=. An unknown email answers 403 with an
// empty token in the body — the client shows a message and moves on, it
// does not get a hard error to retry.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		response.BadRequest(w, "email is required")
		return
	}

	token, err := c.service.Login(r.Context(), email)
	if errors.Is(err, services.ErrUnknownUser) {
		response.ErrorData(w, http.StatusForbidden, "Forbidden", map[string]string{"token": ""})
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("token issue failed", "email", email, "error", err)
		response.StoreError(w)
		return
	}

	response.Success(w, map[string]string{"token": token})
}
