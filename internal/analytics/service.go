// Package analytics computes read-only business rollups over orders and
// caches them for the dashboard. Every public metric is cached under a key
// derived from the metric name and its normalized arguments; assignment and
// completion mutations flush the whole namespace.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/status"
)

type Service struct {
	db    *gorm.DB
	store *store
}

func NewService(db *gorm.DB, ttl time.Duration) *Service {
	return &Service{db: db, store: newStore(ttl)}
}

// Invalidate drops every cached analytics entry.
func (s *Service) Invalidate() {
	s.store.flush()
}

// DefaultRange returns the current calendar month, used when a caller
// supplies no explicit date range.
func DefaultRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}

type RevenueMetrics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	OrderCount        int64           `json:"order_count"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

func (s *Service) paidOrders(start, end *time.Time) *gorm.DB {
	q := s.db.Model(&models.Order{}).
		Where("status IN ?", status.Paid()).
		Where("payment_completed_at IS NOT NULL")
	if start != nil {
		q = q.Where("payment_completed_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("payment_completed_at <= ?", *end)
	}
	return q
}

// GetRevenueMetrics returns total, count and average over paid orders in the
// range.
func (s *Service) GetRevenueMetrics(start, end *time.Time) (RevenueMetrics, error) {
	key := cacheKey("revenue_metrics", map[string]any{"start": timeArg(start), "end": timeArg(end)})
	if v, ok := s.store.get(key); ok {
		return v.(RevenueMetrics), nil
	}

	var m RevenueMetrics
	err := s.paidOrders(start, end).
		Select("COALESCE(SUM(total_amount), 0) AS total_revenue, COUNT(id) AS order_count, COALESCE(AVG(total_amount), 0) AS average_order_value").
		Scan(&m).Error
	if err != nil {
		return RevenueMetrics{}, fmt.Errorf("aggregate revenue: %w", err)
	}

	s.store.set(key, m)
	return m, nil
}

type TopProduct struct {
	ProductType  models.ProductType `json:"product_type"`
	ProductID    uint               `json:"product_id"`
	ProductName  string             `json:"product_name"`
	QuantitySold int64              `json:"quantity_sold"`
	Revenue      decimal.Decimal    `json:"revenue"`
}

// GetTopProducts returns the best sellers by quantity over paid orders.
// Product names come from the order-item snapshot, so renamed catalog
// entries keep their historical name here.
func (s *Service) GetTopProducts(limit int, start, end *time.Time) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	key := cacheKey("top_products", map[string]any{"limit": limit, "start": timeArg(start), "end": timeArg(end)})
	if v, ok := s.store.get(key); ok {
		return v.([]TopProduct), nil
	}

	q := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", status.Paid()).
		Where("orders.payment_completed_at IS NOT NULL")
	if start != nil {
		q = q.Where("orders.payment_completed_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("orders.payment_completed_at <= ?", *end)
	}

	var products []TopProduct
	err := q.
		Select("order_items.product_type AS product_type, order_items.product_id AS product_id, order_items.product_name AS product_name, SUM(order_items.quantity) AS quantity_sold, SUM(order_items.price * order_items.quantity) AS revenue").
		Group("order_items.product_type, order_items.product_id, order_items.product_name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&products).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate top products: %w", err)
	}

	s.store.set(key, products)
	return products, nil
}

type StaffPerformance struct {
	StaffID         uint    `json:"staff_id"`
	StaffName       string  `json:"staff_name"`
	PhoneNumber     string  `json:"phone_number"`
	Role            string  `json:"role"`
	AssignedOrders  int64   `json:"assigned_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	CompletionRate  float64 `json:"completion_rate"`
}

// GetStaffPerformance returns per-staff assigned/completed counts and the
// completion rate, busiest staff first. Every staff and admin user appears,
// including those with no assignments.
func (s *Service) GetStaffPerformance(start, end *time.Time) ([]StaffPerformance, error) {
	key := cacheKey("staff_performance", map[string]any{"start": timeArg(start), "end": timeArg(end)})
	if v, ok := s.store.get(key); ok {
		return v.([]StaffPerformance), nil
	}

	var staff []models.User
	err := s.db.Where("role IN ?", []string{models.RoleStaff, models.RoleAdmin}).Find(&staff).Error
	if err != nil {
		return nil, fmt.Errorf("load staff users: %w", err)
	}

	q := s.db.Model(&models.Order{}).Where("assigned_to_id IS NOT NULL")
	if start != nil {
		q = q.Where("updated_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("updated_at <= ?", *end)
	}

	type staffRow struct {
		AssignedToID   uint
		AssignedCount  int64
		CompletedCount int64
	}
	var rows []staffRow
	err = q.
		Select("assigned_to_id, COUNT(id) AS assigned_count, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed_count", status.Completed).
		Group("assigned_to_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate staff performance: %w", err)
	}

	lookup := make(map[uint]staffRow, len(rows))
	for _, r := range rows {
		lookup[r.AssignedToID] = r
	}

	performance := make([]StaffPerformance, 0, len(staff))
	for _, u := range staff {
		row := lookup[u.ID]
		rate := 0.0
		if row.AssignedCount > 0 {
			rate = round2(float64(row.CompletedCount) / float64(row.AssignedCount) * 100)
		}
		performance = append(performance, StaffPerformance{
			StaffID:         u.ID,
			StaffName:       u.Username,
			PhoneNumber:     u.PhoneNumber,
			Role:            u.Role,
			AssignedOrders:  row.AssignedCount,
			CompletedOrders: row.CompletedCount,
			CompletionRate:  rate,
		})
	}
	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].AssignedOrders > performance[j].AssignedOrders
	})

	s.store.set(key, performance)
	return performance, nil
}

type StatusCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// GetStatusDistribution returns order counts by status over orders created
// in the range.
func (s *Service) GetStatusDistribution(start, end *time.Time) (map[status.Status]StatusCount, error) {
	key := cacheKey("status_distribution", map[string]any{"start": timeArg(start), "end": timeArg(end)})
	if v, ok := s.store.get(key); ok {
		return v.(map[status.Status]StatusCount), nil
	}

	q := s.db.Model(&models.Order{})
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at <= ?", *end)
	}

	type row struct {
		Status status.Status
		Count  int64
	}
	var rows []row
	if err := q.Select("status, COUNT(id) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate status distribution: %w", err)
	}

	distribution := make(map[status.Status]StatusCount, len(rows))
	for _, r := range rows {
		distribution[r.Status] = StatusCount{Label: status.Label(r.Status), Count: r.Count}
	}

	s.store.set(key, distribution)
	return distribution, nil
}

type ConversionMetrics struct {
	TotalOrders    int64   `json:"total_orders"`
	PaidOrders     int64   `json:"paid_orders"`
	ConversionRate float64 `json:"conversion_rate"`
}

// GetConversionRate returns paid orders over total orders created in the
// range.
func (s *Service) GetConversionRate(start, end *time.Time) (ConversionMetrics, error) {
	key := cacheKey("conversion_rate", map[string]any{"start": timeArg(start), "end": timeArg(end)})
	if v, ok := s.store.get(key); ok {
		return v.(ConversionMetrics), nil
	}

	createdIn := func() *gorm.DB {
		q := s.db.Model(&models.Order{})
		if start != nil {
			q = q.Where("created_at >= ?", *start)
		}
		if end != nil {
			q = q.Where("created_at <= ?", *end)
		}
		return q
	}

	var m ConversionMetrics
	if err := createdIn().Count(&m.TotalOrders).Error; err != nil {
		return ConversionMetrics{}, fmt.Errorf("count orders: %w", err)
	}
	if err := createdIn().Where("payment_completed_at IS NOT NULL").Count(&m.PaidOrders).Error; err != nil {
		return ConversionMetrics{}, fmt.Errorf("count paid orders: %w", err)
	}
	if m.TotalOrders > 0 {
		m.ConversionRate = round2(float64(m.PaidOrders) / float64(m.TotalOrders) * 100)
	}

	s.store.set(key, m)
	return m, nil
}

type MonthlyRevenue struct {
	Month      string          `json:"month"`
	MonthLabel string          `json:"month_label"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int64           `json:"order_count"`
}

// GetRevenueTrend returns monthly revenue over the trailing N months.
// Bucketing happens in Go so the query stays portable across databases.
func (s *Service) GetRevenueTrend(months int) ([]MonthlyRevenue, error) {
	key := cacheKey("revenue_trend", map[string]any{"months": months})
	if v, ok := s.store.get(key); ok {
		return v.([]MonthlyRevenue), nil
	}

	end := time.Now()
	start := end.AddDate(0, -months, 0)

	type row struct {
		PaymentCompletedAt time.Time
		TotalAmount        decimal.Decimal
	}
	var rows []row
	err := s.paidOrders(&start, &end).
		Select("payment_completed_at, total_amount").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load paid orders for trend: %w", err)
	}

	buckets := make(map[string]*MonthlyRevenue)
	for _, r := range rows {
		month := r.PaymentCompletedAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &MonthlyRevenue{
				Month:      month,
				MonthLabel: r.PaymentCompletedAt.Format("January 2006"),
			}
			buckets[month] = b
		}
		b.Revenue = b.Revenue.Add(r.TotalAmount)
		b.OrderCount++
	}

	trend := make([]MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, *b)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Month < trend[j].Month })

	s.store.set(key, trend)
	return trend, nil
}

type GrowthMetrics struct {
	CurrentRevenue   decimal.Decimal `json:"current_revenue"`
	PreviousRevenue  decimal.Decimal `json:"previous_revenue"`
	GrowthPercentage float64         `json:"growth_percentage"`
	GrowthAmount     decimal.Decimal `json:"growth_amount"`
}

// GetYearOverYearGrowth compares revenue between two periods.
func (s *Service) GetYearOverYearGrowth(currentStart, currentEnd, previousStart, previousEnd time.Time) (GrowthMetrics, error) {
	current, err := s.GetRevenueMetrics(&currentStart, &currentEnd)
	if err != nil {
		return GrowthMetrics{}, err
	}
	previous, err := s.GetRevenueMetrics(&previousStart, &previousEnd)
	if err != nil {
		return GrowthMetrics{}, err
	}

	g := GrowthMetrics{
		CurrentRevenue:  current.TotalRevenue,
		PreviousRevenue: previous.TotalRevenue,
		GrowthAmount:    current.TotalRevenue.Sub(previous.TotalRevenue),
	}
	if previous.TotalRevenue.IsPositive() {
		change, _ := g.GrowthAmount.Div(previous.TotalRevenue).Float64()
		g.GrowthPercentage = round2(change * 100)
	}
	return g, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
