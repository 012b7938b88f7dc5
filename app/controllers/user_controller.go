package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/response"
	"github.com/mobilemart/server/pkg/store"
)

// UserController serves account lookups and the admin's user management.
type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// ByRole handles GET /users?role= (admin).
func (c *UserController) ByRole(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		response.BadRequest(w, "role is required")
		return
	}

	users, err := c.users.ByRole(r.Context(), role)
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, users)
}

// IsAdmin handles GET /users/admin/{email}. Open lookup the client uses
// to decide which dashboard to render; the real enforcement is rbac on
// the admin routes.
func (c *UserController) IsAdmin(w http.ResponseWriter, r *http.Request) {
	c.hasRole(w, r, models.RoleAdmin, "isAdmin")
}

// IsSeller handles GET /users/seller/{email}.
func (c *UserController) IsSeller(w http.ResponseWriter, r *http.Request) {
	c.hasRole(w, r, models.RoleSeller, "isSeller")
}

func (c *UserController) hasRole(w http.ResponseWriter, r *http.Request, role, field string) {
	email := chi.URLParam(r, "email")

	user, err := c.users.FindByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		response.Success(w, map[string]bool{field: false})
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}

	response.Success(w, map[string]bool{
		field: strings.EqualFold(models.NormalizeRole(user.Role), role),
	})
}

// Create handles POST /users — called after the client-side sign-up
// completes. A taken email answers 200 with a message instead of a
// second document.
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if !bindJSON(w, r, &user) {
		return
	}

	err := c.users.Create(r.Context(), &user)
	if errors.Is(err, repositories.ErrUserExists) {
		response.Message(w, "User already exists")
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Created(w, user)
}

// VerifySeller handles PUT /users/seller/{id} (admin).
func (c *UserController) VerifySeller(w http.ResponseWriter, r *http.Request) {
	err := c.users.VerifySeller(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "verified")
}

// Delete handles DELETE /users/{id} (admin).
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "deleted")
}
