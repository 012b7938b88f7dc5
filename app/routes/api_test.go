package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/app/models"
	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/app/routes"
	"github.com/mobilemart/server/pkg/outbox"
	"github.com/mobilemart/server/pkg/router"
	"github.com/mobilemart/server/pkg/store"
)

type stubGateway struct{}

func (stubGateway) CreateIntent(context.Context, int64, string) (string, error) {
	return "pi_secret_test", nil
}

type apiFixture struct {
	mem     *store.Memory
	handler http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	mem := store.NewMemory().
		Unique("users", "email").
		Unique("payments", "transactionId")

	users := repositories.NewUserRepository(mem)
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{Email: "admin@example.com", Role: "admin"}))
	require.NoError(t, users.Create(ctx, &models.User{Email: "seller@example.com", Role: "seller"}))
	require.NoError(t, users.Create(ctx, &models.User{Email: "buyer@example.com", Role: "buyer"}))

	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Store:   mem,
		Gateway: stubGateway{},
		Outbox:  outbox.New(mem, "settlement_outbox"),
	})

	return &apiFixture{mem: mem, handler: r.Handler()}
}

type apiResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed), rec.Body.String())
	return rec.Code, parsed
}

// tokenFor walks the real login endpoint instead of minting directly.
func (f *apiFixture) tokenFor(t *testing.T, email string) string {
	t.Helper()
	code, resp := f.do(t, http.MethodGet, "/jwt?email="+email, "", nil)
	require.Equal(t, http.StatusOK, code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data["token"])
	return data["token"]
}

func TestToken_UnknownEmailAnswersEmptyToken(t *testing.T) {
	f := newAPIFixture(t)

	code, resp := f.do(t, http.MethodGet, "/jwt?email=stranger@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	var data map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	token, ok := data["token"]
	assert.True(t, ok)
	assert.Empty(t, token)
}

func TestBookings_RequireToken(t *testing.T) {
	f := newAPIFixture(t)

	code, _ := f.do(t, http.MethodGet, "/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSellerRoutes_RejectBuyers(t *testing.T) {
	f := newAPIFixture(t)
	buyer := f.tokenFor(t, "buyer@example.com")

	code, _ := f.do(t, http.MethodPost, "/products", buyer, models.Product{
		CategoryID: "cat-1", Name: "Pixel 7", Price: 100,
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Zero(t, f.mem.Count("products"))
}

func TestAdminRoutes_RejectSellers(t *testing.T) {
	f := newAPIFixture(t)
	seller := f.tokenFor(t, "seller@example.com")

	code, _ := f.do(t, http.MethodGet, "/users?role=seller", seller, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdmin_ListsUsersByRole(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.tokenFor(t, "admin@example.com")

	code, resp := f.do(t, http.MethodGet, "/users?role=seller", admin, nil)
	require.Equal(t, http.StatusOK, code)

	var users []models.User
	require.NoError(t, json.Unmarshal(resp.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "seller@example.com", users[0].Email)
}

func TestProductCreate_ValidationFailure(t *testing.T) {
	f := newAPIFixture(t)
	seller := f.tokenFor(t, "seller@example.com")

	code, resp := f.do(t, http.MethodPost, "/products", seller, models.Product{Name: "Pixel 7"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, resp.Errors, "categoryId")
	assert.Contains(t, resp.Errors, "price")
	assert.Zero(t, f.mem.Count("products"))
}

func TestRoleLookups_ArePublic(t *testing.T) {
	f := newAPIFixture(t)

	code, resp := f.do(t, http.MethodGet, "/users/admin/admin@example.com", "", nil)
	require.Equal(t, http.StatusOK, code)
	var flags map[string]bool
	require.NoError(t, json.Unmarshal(resp.Data, &flags))
	assert.True(t, flags["isAdmin"])

	code, resp = f.do(t, http.MethodGet, "/users/admin/buyer@example.com", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &flags))
	assert.False(t, flags["isAdmin"])

	code, resp = f.do(t, http.MethodGet, "/users/seller/nobody@example.com", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &flags))
	assert.False(t, flags["isSeller"])
}

func TestPurchaseFlow_EndToEnd(t *testing.T) {
	f := newAPIFixture(t)
	seller := f.tokenFor(t, "seller@example.com")
	buyer := f.tokenFor(t, "buyer@example.com")

	// Seller lists a phone.
	code, resp := f.do(t, http.MethodPost, "/products", seller, models.Product{
		CategoryID: "cat-1", Name: "Pixel 7", Price: 250,
	})
	require.Equal(t, http.StatusCreated, code)

	var product models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	require.Equal(t, "seller@example.com", product.OwnerEmail)
	productID := product.ID.Hex()

	// Buyer books it.
	code, resp = f.do(t, http.MethodPost, "/bookings", buyer, models.Booking{
		ProductID: productID, Price: 250,
	})
	require.Equal(t, http.StatusCreated, code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &booking))
	assert.Equal(t, "buyer@example.com", booking.BuyerEmail)

	// Buyer asks for a charge intent.
	code, resp = f.do(t, http.MethodPost, "/create-payment-intent", buyer, map[string]float64{"price": 250})
	require.Equal(t, http.StatusOK, code)
	var intent map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &intent))
	assert.Equal(t, "pi_secret_test", intent["clientSecret"])

	// The gateway confirms the charge.
	confirmation := map[string]interface{}{
		"productId":     productID,
		"transactionId": "tx-e2e-1",
		"price":         250,
		"buyerEmail":    "buyer@example.com",
	}
	code, _ = f.do(t, http.MethodPost, "/payments", buyer, confirmation)
	require.Equal(t, http.StatusCreated, code)

	// The product vanishes from its category listing.
	code, resp = f.do(t, http.MethodGet, "/products/cat-1", "", nil)
	require.Equal(t, http.StatusOK, code)
	var listed []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	assert.Empty(t, listed)

	// The buyer's booking is marked paid.
	code, resp = f.do(t, http.MethodGet, "/bookings", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &bookings))
	require.Len(t, bookings, 1)
	assert.True(t, bookings[0].Paid)
	assert.Equal(t, "tx-e2e-1", bookings[0].TransactionID)

	// Replaying the confirmation is a no-op answered with 200.
	code, _ = f.do(t, http.MethodPost, "/payments", buyer, confirmation)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, f.mem.Count("payments"))
}

func TestBookingDelete_OnlyOwner(t *testing.T) {
	f := newAPIFixture(t)
	buyer := f.tokenFor(t, "buyer@example.com")
	seller := f.tokenFor(t, "seller@example.com")

	code, resp := f.do(t, http.MethodPost, "/bookings", buyer, models.Booking{ProductID: "p1"})
	require.Equal(t, http.StatusCreated, code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(resp.Data, &booking))
	path := fmt.Sprintf("/bookings/%s", booking.ID.Hex())

	code, _ = f.do(t, http.MethodDelete, path, seller, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 1, f.mem.Count("bookings"))

	code, _ = f.do(t, http.MethodDelete, path, buyer, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, f.mem.Count("bookings"))
}

func TestReportFlow(t *testing.T) {
	f := newAPIFixture(t)
	buyer := f.tokenFor(t, "buyer@example.com")
	admin := f.tokenFor(t, "admin@example.com")

	report := models.Report{ProductID: "p1", Reason: "fake listing"}

	code, _ := f.do(t, http.MethodPost, "/reportProducts", buyer, report)
	require.Equal(t, http.StatusCreated, code)

	code, resp := f.do(t, http.MethodPost, "/reportProducts", buyer, report)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product already reported", resp.Message)
	assert.Equal(t, 1, f.mem.Count("reportProducts"))

	// Only admins see the report queue.
	code, _ = f.do(t, http.MethodGet, "/reportProducts", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = f.do(t, http.MethodGet, "/reportProducts", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var reports []models.Report
	require.NoError(t, json.Unmarshal(resp.Data, &reports))
	require.Len(t, reports, 1)

	code, _ = f.do(t, http.MethodDelete, "/reportProducts/"+reports[0].ID.Hex(), admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Zero(t, f.mem.Count("reportProducts"))
}
