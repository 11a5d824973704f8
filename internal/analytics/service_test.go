package analytics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/status"
	"github.com/electioncart/electioncart/internal/testutil"
)

func seedOrders(t *testing.T, db *gorm.DB) (staff models.User) {
	t.Helper()

	customer := models.User{Username: "customer", PhoneNumber: "9200000001", Role: models.RoleUser, APIToken: "c"}
	staff = models.User{Username: "staff", PhoneNumber: "9200000002", Role: models.RoleStaff, APIToken: "s"}
	require.NoError(t, db.Create(&customer).Error)
	require.NoError(t, db.Create(&staff).Error)

	now := time.Now()
	paidAt := func(daysAgo int) *time.Time {
		ts := now.AddDate(0, 0, -daysAgo)
		return &ts
	}

	orders := []models.Order{
		{
			UserID: customer.ID, OrderNumber: "EC-1", TotalAmount: decimal.NewFromInt(1000),
			Status: status.Completed, PaymentCompletedAt: paidAt(1), AssignedToID: &staff.ID,
			Items: []models.OrderItem{
				{ProductType: models.ProductPackage, ProductID: 1, ProductName: "Basic", Quantity: 2, Price: decimal.NewFromInt(500)},
			},
		},
		{
			UserID: customer.ID, OrderNumber: "EC-2", TotalAmount: decimal.NewFromInt(3000),
			Status: status.InProgress, PaymentCompletedAt: paidAt(2), AssignedToID: &staff.ID,
			Items: []models.OrderItem{
				{ProductType: models.ProductPackage, ProductID: 1, ProductName: "Basic", Quantity: 1, Price: decimal.NewFromInt(500)},
				{ProductType: models.ProductCampaign, ProductID: 1, ProductName: "Door to Door", Quantity: 500, Price: decimal.NewFromInt(5)},
			},
		},
		// Unpaid order: counts toward conversion but not revenue.
		{
			UserID: customer.ID, OrderNumber: "EC-3", TotalAmount: decimal.NewFromInt(9999),
			Status: status.PendingPayment,
		},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}
	return staff
}

func TestGetRevenueMetrics(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	m, err := svc.GetRevenueMetrics(nil, nil)
	require.NoError(t, err)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(4000)), "got %s", m.TotalRevenue)
	assert.Equal(t, int64(2), m.OrderCount)
	assert.True(t, m.AverageOrderValue.Equal(decimal.NewFromInt(2000)), "got %s", m.AverageOrderValue)
}

func TestGetRevenueMetricsEmptyRange(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	start := time.Now().AddDate(1, 0, 0)
	end := start.AddDate(0, 1, 0)
	m, err := svc.GetRevenueMetrics(&start, &end)
	require.NoError(t, err)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Equal(t, int64(0), m.OrderCount)
}

func TestGetTopProducts(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	products, err := svc.GetTopProducts(5, nil, nil)
	require.NoError(t, err)
	require.Len(t, products, 2)

	// Campaign sold 500 units, package 3.
	assert.Equal(t, "Door to Door", products[0].ProductName)
	assert.Equal(t, int64(500), products[0].QuantitySold)
	assert.True(t, products[0].Revenue.Equal(decimal.NewFromInt(2500)), "got %s", products[0].Revenue)

	assert.Equal(t, "Basic", products[1].ProductName)
	assert.Equal(t, int64(3), products[1].QuantitySold)
	assert.True(t, products[1].Revenue.Equal(decimal.NewFromInt(1500)), "got %s", products[1].Revenue)
}

func TestGetTopProductsLimit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	products, err := svc.GetTopProducts(1, nil, nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Door to Door", products[0].ProductName)
}

func TestGetStaffPerformance(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	staff := seedOrders(t, db)

	idle := models.User{Username: "idle", PhoneNumber: "9200000003", Role: models.RoleStaff, APIToken: "i"}
	require.NoError(t, db.Create(&idle).Error)

	performance, err := svc.GetStaffPerformance(nil, nil)
	require.NoError(t, err)
	require.Len(t, performance, 2)

	assert.Equal(t, staff.ID, performance[0].StaffID)
	assert.Equal(t, int64(2), performance[0].AssignedOrders)
	assert.Equal(t, int64(1), performance[0].CompletedOrders)
	assert.Equal(t, 50.0, performance[0].CompletionRate)

	assert.Equal(t, idle.ID, performance[1].StaffID)
	assert.Equal(t, int64(0), performance[1].AssignedOrders)
	assert.Equal(t, 0.0, performance[1].CompletionRate)
}

func TestGetStatusDistribution(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	distribution, err := svc.GetStatusDistribution(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), distribution[status.Completed].Count)
	assert.Equal(t, "Completed", distribution[status.Completed].Label)
	assert.Equal(t, int64(1), distribution[status.InProgress].Count)
	assert.Equal(t, int64(1), distribution[status.PendingPayment].Count)
}

func TestGetConversionRate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	m, err := svc.GetConversionRate(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.TotalOrders)
	assert.Equal(t, int64(2), m.PaidOrders)
	assert.Equal(t, 66.67, m.ConversionRate)
}

func TestGetRevenueTrend(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	trend, err := svc.GetRevenueTrend(12)
	require.NoError(t, err)
	require.NotEmpty(t, trend)

	var total decimal.Decimal
	var count int64
	for _, m := range trend {
		total = total.Add(m.Revenue)
		count += m.OrderCount
	}
	assert.True(t, total.Equal(decimal.NewFromInt(4000)), "got %s", total)
	assert.Equal(t, int64(2), count)
}

func TestGetYearOverYearGrowth(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	customer := models.User{Username: "returning", PhoneNumber: "9200000009", Role: models.RoleUser, APIToken: "r"}
	require.NoError(t, db.Create(&customer).Error)
	lastYear := time.Now().AddDate(-1, 0, -1)
	require.NoError(t, db.Create(&models.Order{
		UserID: customer.ID, OrderNumber: "EC-OLD", TotalAmount: decimal.NewFromInt(2000),
		Status: status.Completed, PaymentCompletedAt: &lastYear,
	}).Error)

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	g, err := svc.GetYearOverYearGrowth(start, end, start.AddDate(-1, 0, 0), end.AddDate(-1, 0, 0))
	require.NoError(t, err)

	assert.True(t, g.CurrentRevenue.Equal(decimal.NewFromInt(4000)), "got %s", g.CurrentRevenue)
	assert.True(t, g.PreviousRevenue.Equal(decimal.NewFromInt(2000)), "got %s", g.PreviousRevenue)
	assert.True(t, g.GrowthAmount.Equal(decimal.NewFromInt(2000)), "got %s", g.GrowthAmount)
	assert.InDelta(t, 100.0, g.GrowthPercentage, 0.01)
}

func TestCacheHitAndInvalidate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	customer := models.User{Username: "c", PhoneNumber: "9200000009", Role: models.RoleUser, APIToken: "x"}
	require.NoError(t, db.Create(&customer).Error)

	m, err := svc.GetRevenueMetrics(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.OrderCount)

	// A new paid order is invisible until the namespace is flushed.
	now := time.Now()
	order := models.Order{
		UserID: customer.ID, OrderNumber: "EC-9", TotalAmount: decimal.NewFromInt(100),
		Status: status.ReadyForProcessing, PaymentCompletedAt: &now,
	}
	require.NoError(t, db.Create(&order).Error)

	m, err = svc.GetRevenueMetrics(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), m.OrderCount, "cached value served within TTL")

	svc.Invalidate()
	m, err = svc.GetRevenueMetrics(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.OrderCount)
}

func TestCacheKeyNormalization(t *testing.T) {
	a := cacheKey("metric", map[string]any{"start": "2026-01-01", "end": "2026-02-01"})
	b := cacheKey("metric", map[string]any{"end": "2026-02-01", "start": "2026-01-01"})
	c := cacheKey("metric", map[string]any{"start": "2026-01-01", "end": "2026-03-01"})
	assert.Equal(t, a, b, "argument order must not split the cache")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "analytics:metric:"))
}

func TestExportCSV(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db, time.Minute)
	seedOrders(t, db)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(&buf, nil, nil, 5))

	out := buf.String()
	for _, section := range []string{
		"Revenue Metrics",
		"Conversion Metrics",
		"Top Products",
		"Staff Performance",
		"Order Status Distribution",
	} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "Door to Door")
	assert.Contains(t, out, "4000.00")
}
