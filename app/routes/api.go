package routes

import (
	"github.com/mobilemart/server/app/controllers"
	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/app/services"
	"github.com/mobilemart/server/config"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/outbox"
	"github.com/mobilemart/server/pkg/payment"
	"github.com/mobilemart/server/pkg/rbac"
	"github.com/mobilemart/server/pkg/router"
	"github.com/mobilemart/server/pkg/store"
)

// Deps carries the externally constructed collaborators the API is
// built on. Nothing here is a package-level singleton.
type Deps struct {
	Store   store.Store
	Gateway payment.Gateway
	Outbox  *outbox.Log
}

// RegisterAPI wires every route, guard and controller.
func RegisterAPI(r *router.Router, d Deps) {
	users := repositories.NewUserRepository(d.Store)
	products := repositories.NewProductRepository(d.Store)
	bookings := repositories.NewBookingRepository(d.Store)
	payments := repositories.NewPaymentRepository(d.Store)
	reports := repositories.NewReportRepository(d.Store)
	categories := repositories.NewCategoryRepository(d.Store)

	authService := services.NewAuthService(users, config.TokenTTL())
	settlement := services.NewSettlementService(payments, products, bookings, d.Outbox)
	intents := services.NewIntentService(d.Gateway)
	reporting := services.NewReportService(reports)

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(users)
	productController := controllers.NewProductController(products, categories)
	bookingController := controllers.NewBookingController(bookings)
	paymentController := controllers.NewPaymentController(intents, settlement)
	reportController := controllers.NewReportController(reporting, reports)

	// Roles are re-resolved from the store on every guarded call; the
	// cache only kicks in when ROLE_CACHE_TTL is set.
	roles := rbac.Cached(users, config.RoleCacheTTL())
	requireAdmin := rbac.Require(roles, models.RoleAdmin)
	requireSeller := rbac.Require(roles, models.RoleSeller)

	// Public surface.
	r.Get("/jwt", "auth.token", authController.Token)
	r.Get("/categories", "categories.list", productController.Categories)
	r.Get("/products/{categoryId}", "products.byCategory", productController.ByCategory)
	r.Get("/adproducts", "products.advertised", productController.Advertised)
	r.Post("/users", "users.create", userController.Create)
	r.Get("/users/admin/{email}", "users.isAdmin", userController.IsAdmin)
	r.Get("/users/seller/{email}", "users.isSeller", userController.IsSeller)

	// Token required, no role check. Bookings deliberately have no
	// role guard — any authenticated account may book.
	authed := r.Group("", middleware.Auth)
	authed.Get("/bookings", "bookings.list", bookingController.List)
	authed.Get("/bookings/{id}", "bookings.get", bookingController.Get)
	authed.Post("/bookings", "bookings.create", bookingController.Create)
	authed.Delete("/bookings/{id}", "bookings.delete", bookingController.Delete)
	authed.Post("/create-payment-intent", "payments.intent", paymentController.CreateIntent)
	authed.Post("/payments", "payments.confirm", paymentController.Confirm)
	authed.Post("/reportProducts", "reports.create", reportController.Create)

	// Seller-scoped.
	seller := r.Group("", middleware.Auth, requireSeller)
	seller.Get("/products", "products.mine", productController.Mine)
	seller.Post("/products", "products.create", productController.Create)
	seller.Put("/products/{id}", "products.advertise", productController.Advertise)
	seller.Delete("/products/{id}", "products.delete", productController.Delete)

	// Admin-scoped.
	admin := r.Group("", middleware.Auth, requireAdmin)
	admin.Get("/users", "users.byRole", userController.ByRole)
	admin.Put("/users/seller/{id}", "users.verifySeller", userController.VerifySeller)
	admin.Delete("/users/{id}", "users.delete", userController.Delete)
	admin.Get("/reportProducts", "reports.list", reportController.List)
	admin.Delete("/reportProducts/{id}", "reports.delete", reportController.Delete)
}
