package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/response"
	"github.com/mobilemart/server/pkg/store"
)

// ProductController serves category listings and the seller's product CRUD.
type ProductController struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
}

func NewProductController(products *repositories.ProductRepository, categories *repositories.CategoryRepository) *ProductController {
	return &ProductController{products: products, categories: categories}
}

// Categories handles GET /categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All(r.Context())
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, categories)
}

// ByCategory handles GET /products/{categoryId}.
func (c *ProductController) ByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.ByCategory(r.Context(), chi.URLParam(r, "categoryId"))
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, products)
}

// Mine handles GET /products?email= for sellers. The query email must
// be the caller's own — the token claim is the authority, not the query.
func (c *ProductController) Mine(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	claim, _ := middleware.EmailFromCtx(r.Context())
	if email == "" || email != claim {
		response.Forbidden(w)
		return
	}

	products, err := c.products.ByOwner(r.Context(), email)
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, products)
}

// Advertised handles GET /adproducts.
func (c *ProductController) Advertised(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.Advertised(r.Context())
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Success(w, products)
}

// Create handles POST /products. The owner is taken from the token
// claim, never from the body.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !bindJSON(w, r, &product) {
		return
	}

	claim, _ := middleware.EmailFromCtx(r.Context())
	product.OwnerEmail = claim

	if err := c.products.Create(r.Context(), &product); err != nil {
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.StoreError(w)
		return
	}
	response.Created(w, product)
}

// Advertise handles PUT /products/{id}, toggling the homepage flag.
func (c *ProductController) Advertise(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Advertise bool `json:"advertise"`
	}
	if !bindJSON(w, r, &body) {
		return
	}

	err := c.products.SetAdvertise(r.Context(), chi.URLParam(r, "id"), body.Advertise)
	if errors.Is(err, store.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "updated")
}

// Delete handles DELETE /products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.StoreError(w)
		return
	}
	response.Message(w, "deleted")
}
