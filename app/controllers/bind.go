package controllers

import (
	"net/http"

	"github.com/mobilemart/server/pkg/bind"
	"github.com/mobilemart/server/pkg/response"
	"github.com/mobilemart/server/pkg/validate"
)

// bindJSON decodes and validates the request body into dest. On failure
// it writes the error response and returns false.
func bindJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.BadRequest(w, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
