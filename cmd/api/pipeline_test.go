package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gigbay/internal/auth"
	"gigbay/internal/domain/offers"
	"gigbay/internal/domain/orders"
	"gigbay/internal/domain/storage"
	"gigbay/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The fakes embed the store interfaces and implement only what the handlers
// under test touch.

type fakeUsers struct {
	users.Store
	roles map[int64]string
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &users.User{ID: id, Username: "user", Email: "user@example.com", Role: role}, nil
}

type fakeOffers struct {
	offers.Store
}

func (f *fakeOffers) GetByID(_ context.Context, id int64) (*offers.Offer, error) {
	if id != 1 {
		return nil, offers.ErrNotFound
	}
	return &offers.Offer{ID: 1, OwnerID: 20, Title: "logo design", Description: "three concepts"}, nil
}

func (f *fakeOffers) Update(_ context.Context, _ int64, _ map[string]any) error { return nil }
func (f *fakeOffers) Delete(_ context.Context, _ int64) error                   { return nil }

type fakeOrders struct {
	orders.Store
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	if id != 1 {
		return nil, orders.ErrNotFound
	}
	return &orders.Order{ID: 1, CustomerID: 10, BusinessID: 20, Status: orders.StatusInProgress}, nil
}

func (f *fakeOrders) ListForUser(_ context.Context, _ int64) ([]orders.Order, error) {
	return []orders.Order{}, nil
}

func newTestApp(t *testing.T) *application {
	t.Helper()

	return &application{
		config: config{env: "test", auth: authConfig{
			basic: basicConfig{user: "admin", pass: "admin"},
		}},
		store: &storage.Container{
			Users: &fakeUsers{roles: map[int64]string{
				10: "customer",
				20: "business",
				30: "customer",
				99: "staff",
			}},
			Offers: &fakeOffers{},
			Orders: &fakeOrders{},
		},
		logger:        zap.NewNop().Sugar(),
		authenticator: auth.NewJWTAuthenticator("secret", "refresh-secret", time.Hour, 24*time.Hour, "gigbay", "gigbay"),
		orderNumbers:  orders.NewOrderNumberGenerator("order-secret"),
	}
}

func bearerFor(t *testing.T, app *application, userID int64, role string) string {
	t.Helper()

	token, _, err := app.authenticator.GenerateTokens(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, app *application, method, path, body, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	return rr
}

func TestMalformedBodyReportedBeforeCredentials(t *testing.T) {
	app := newTestApp(t)

	// No credentials at all: the broken body still wins.
	rr := do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Garbage token: same answer.
	rr = do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":`, "Bearer not-a-token")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown field counts as malformed too.
	rr = do(t, app, http.MethodPatch, "/v1/offers/1", `{"bogus":true}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnonymousMutationsAreUnauthorized(t *testing.T) {
	app := newTestApp(t)

	rr := do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":"new"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The target being absent changes nothing for an anonymous caller.
	rr = do(t, app, http.MethodPatch, "/v1/offers/999", `{"title":"new"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, app, http.MethodDelete, "/v1/offers/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, app, http.MethodPost, "/v1/orders", `{"offer_detail_id":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, app, http.MethodGet, "/v1/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestInvalidTokenIsTreatedAsAnonymous(t *testing.T) {
	app := newTestApp(t)

	rr := do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":"new"}`, "Bearer invalid")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Public reads still work with a broken token.
	rr = do(t, app, http.MethodGet, "/v1/offers/1", "", "Bearer invalid")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestPublicOfferRead(t *testing.T) {
	app := newTestApp(t)

	rr := do(t, app, http.MethodGet, "/v1/offers/1", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	// Offers are publicly listed, so absence is freely disclosed.
	rr = do(t, app, http.MethodGet, "/v1/offers/999", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOfferMutationOwnership(t *testing.T) {
	app := newTestApp(t)
	customer := bearerFor(t, app, 10, "customer")
	owner := bearerFor(t, app, 20, "business")
	staff := bearerFor(t, app, 99, "staff")

	// Someone else's offer.
	rr := do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":"hijack"}`, customer)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Absent offer: existence is public, so the caller learns it is gone.
	rr = do(t, app, http.MethodPatch, "/v1/offers/999", `{"title":"x"}`, customer)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The owner gets through.
	rr = do(t, app, http.MethodPatch, "/v1/offers/1", `{"title":"better title"}`, owner)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Staff too.
	rr = do(t, app, http.MethodDelete, "/v1/offers/1", "", staff)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestOrderExistenceStaysHidden(t *testing.T) {
	app := newTestApp(t)
	outsider := bearerFor(t, app, 30, "customer")
	participant := bearerFor(t, app, 10, "customer")
	staff := bearerFor(t, app, 99, "staff")

	// A non-participant gets the same answer for a real order and for a
	// made-up ID, so probing cannot separate them.
	existing := do(t, app, http.MethodGet, "/v1/orders/1", "", outsider)
	absent := do(t, app, http.MethodGet, "/v1/orders/999", "", outsider)
	assert.Equal(t, http.StatusForbidden, existing.Code)
	assert.Equal(t, existing.Code, absent.Code)

	// Participants read their own orders.
	rr := do(t, app, http.MethodGet, "/v1/orders/1", "", participant)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Staff is entitled to the truth about absence.
	rr = do(t, app, http.MethodGet, "/v1/orders/999", "", staff)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderCreateRoleGate(t *testing.T) {
	app := newTestApp(t)
	business := bearerFor(t, app, 20, "business")

	// Business accounts sell, they don't buy.
	rr := do(t, app, http.MethodPost, "/v1/orders", `{"offer_detail_id":1}`, business)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Malformed payload is reported first even for the wrong role.
	rr = do(t, app, http.MethodPost, "/v1/orders", `{"offer_detail_id":"one"}`, business)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOfferCreateRoleGate(t *testing.T) {
	app := newTestApp(t)
	customer := bearerFor(t, app, 10, "customer")

	body := `{
	  "title": "logo design",
	  "description": "three concepts",
	  "details": [
	    {"title":"basic","revisions":1,"delivery_time_in_days":3,"price":50,"features":["1 concept"],"offer_type":"basic"},
	    {"title":"standard","revisions":3,"delivery_time_in_days":5,"price":100,"features":["2 concepts"],"offer_type":"standard"},
	    {"title":"premium","revisions":5,"delivery_time_in_days":7,"price":200,"features":["3 concepts"],"offer_type":"premium"}
	  ]
	}`

	rr := do(t, app, http.MethodPost, "/v1/offers", body, customer)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Tiers must cover all three types; a duplicate tier is a payload problem
	// and is reported before the role gate.
	dup := strings.Replace(body, `"offer_type":"premium"`, `"offer_type":"basic"`, 1)
	rr = do(t, app, http.MethodPost, "/v1/offers", dup, customer)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthEndpointRequiresBasicAuth(t *testing.T) {
	app := newTestApp(t)

	rr := do(t, app, http.MethodGet, "/v1/health", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, app, http.MethodGet, "/v1/health", "", "Basic YWRtaW46YWRtaW4=")
	assert.Equal(t, http.StatusOK, rr.Code)
}
