package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/analytics"
	"github.com/electioncart/electioncart/internal/cart"
	"github.com/electioncart/electioncart/internal/checklist"
	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/orders"
	"github.com/electioncart/electioncart/internal/payment"
	"github.com/electioncart/electioncart/internal/status"
	"github.com/electioncart/electioncart/internal/testutil"
)

type stubGateway struct{}

func (stubGateway) CreateOrder(_ context.Context, amount decimal.Decimal, receipt string) (*payment.GatewayOrder, error) {
	return &payment.GatewayOrder{ID: "gw_" + receipt, Amount: payment.Subunits(amount), Currency: "INR"}, nil
}
func (stubGateway) VerifySignature(_, _, _ string) bool { return true }
func (stubGateway) KeyID() string                       { return "key_test" }

type env struct {
	db       *gorm.DB
	srv      *Server
	admin    *models.User
	customer *models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	log := slog.Default()

	notifier := notify.NewService(db)
	analyticsSvc := analytics.NewService(db, 0)
	checklists := checklist.NewService(db, notifier, analyticsSvc, log)
	orderSvc := orders.NewService(db, stubGateway{}, notifier, checklists, analyticsSvc, nil, log)
	carts := cart.NewService(db)

	e := &env{
		db:  db,
		srv: NewServer(db, carts, orderSvc, checklists, notifier, analyticsSvc, log),
	}
	e.admin = &models.User{Username: "admin", PhoneNumber: "9000000001", Role: models.RoleAdmin, APIToken: "admin-token"}
	e.customer = &models.User{Username: "candidate", PhoneNumber: "9000000002", Role: models.RoleUser, APIToken: "customer-token"}
	require.NoError(t, db.Create(e.admin).Error)
	require.NoError(t, db.Create(e.customer).Error)
	return e
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/orders/my-orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/api/orders/my-orders/", "no-such-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/api/orders/my-orders/", "customer-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminGuard(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/admin/orders/statistics/", "customer-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/orders/statistics/", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	e := newEnv(t)
	pkg := &models.Package{Name: "Starter Pack", Price: decimal.NewFromInt(1500), IsActive: true}
	require.NoError(t, e.db.Create(pkg).Error)

	w := e.do(t, http.MethodPost, "/api/cart/items/", "customer-token", gin.H{
		"product_type": "package",
		"product_id":   pkg.ID,
		"quantity":     2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/cart/", "customer-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view cart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.TotalItems)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(3000)))
}

func TestCreateOrderEmptyCart(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPost, "/api/orders/create/", "customer-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")
}

func TestAssignEndpointRejectsCustomerTarget(t *testing.T) {
	e := newEnv(t)
	order := &models.Order{
		UserID:      e.customer.ID,
		OrderNumber: models.NewOrderNumber(),
		Status:      status.ReadyForProcessing,
		TotalAmount: decimal.NewFromInt(1500),
	}
	require.NoError(t, e.db.Create(order).Error)

	w := e.do(t, http.MethodPost, "/api/admin/orders/1/assign/", "admin-token", gin.H{"staff_id": e.customer.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a staff member")
}

func TestAnalyticsValidation(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/admin/analytics/overview/?start_date=not-a-date", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/analytics/revenue-trend/?months=99", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/analytics/overview/", "admin-token", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// seedPaidOrder creates a completed order paid at the given time.
func (e *env) seedPaidOrder(t *testing.T, amount int64, paidAt time.Time) {
	t.Helper()
	order := &models.Order{
		UserID:             e.customer.ID,
		OrderNumber:        models.NewOrderNumber(),
		Status:             status.Completed,
		TotalAmount:        decimal.NewFromInt(amount),
		PaymentCompletedAt: &paidAt,
	}
	require.NoError(t, e.db.Create(order).Error)
}

func TestAnalyticsOverviewDefaultsToCurrentMonth(t *testing.T) {
	e := newEnv(t)
	e.seedPaidOrder(t, 2000, time.Now())
	e.seedPaidOrder(t, 9000, time.Now().AddDate(-1, 0, 0))

	w := e.do(t, http.MethodGet, "/api/admin/analytics/overview/", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Revenue analytics.RevenueMetrics `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Revenue.OrderCount, "year-old order is outside the default range")
	assert.True(t, body.Revenue.TotalRevenue.Equal(decimal.NewFromInt(2000)))
}

func TestAnalyticsGrowthEndpoint(t *testing.T) {
	e := newEnv(t)
	e.seedPaidOrder(t, 3000, time.Now())
	e.seedPaidOrder(t, 1000, time.Now().AddDate(-1, 0, 0))

	w := e.do(t, http.MethodGet, "/api/admin/analytics/yoy-growth/", "admin-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var growth analytics.GrowthMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &growth))
	assert.True(t, growth.CurrentRevenue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, growth.PreviousRevenue.Equal(decimal.NewFromInt(1000)))
	assert.InDelta(t, 200.0, growth.GrowthPercentage, 0.01)
}
