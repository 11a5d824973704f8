package checklist

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/status"
	"github.com/electioncart/electioncart/internal/testutil"
)

type fakeCache struct{ invalidations int }

func (f *fakeCache) Invalidate() { f.invalidations++ }

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeCache) {
	t.Helper()
	db := testutil.NewDB(t)
	cache := &fakeCache{}
	svc := NewService(db, notify.NewService(db), cache, slog.Default())
	return svc, db, cache
}

func TestCalculateProgress(t *testing.T) {
	opt := func(completed bool) models.ChecklistItem {
		return models.ChecklistItem{IsOptional: true, Completed: completed}
	}
	req := func(completed bool) models.ChecklistItem {
		return models.ChecklistItem{Completed: completed}
	}

	tests := []struct {
		name  string
		items []models.ChecklistItem
		want  Progress
	}{
		{
			"empty checklist is vacuously complete",
			nil,
			Progress{TotalItems: 0, CompletedItems: 0, RequiredItems: 0, CompletedRequired: 0, ProgressPercentage: 100},
		},
		{
			"only optional items is vacuously complete",
			[]models.ChecklistItem{opt(false), opt(true)},
			Progress{TotalItems: 2, CompletedItems: 1, RequiredItems: 0, CompletedRequired: 0, ProgressPercentage: 100},
		},
		{
			"optional items excluded from percentage",
			[]models.ChecklistItem{req(true), req(true), req(false), req(false), opt(false)},
			Progress{TotalItems: 5, CompletedItems: 2, RequiredItems: 4, CompletedRequired: 2, ProgressPercentage: 50},
		},
		{
			"completed optional item counts in totals only",
			[]models.ChecklistItem{req(false), opt(true)},
			Progress{TotalItems: 2, CompletedItems: 1, RequiredItems: 1, CompletedRequired: 0, ProgressPercentage: 0},
		},
		{
			"percentage floors",
			[]models.ChecklistItem{req(true), req(false), req(false)},
			Progress{TotalItems: 3, CompletedItems: 1, RequiredItems: 3, CompletedRequired: 1, ProgressPercentage: 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateProgress(tt.items))
		})
	}
}

// seedAssignedOrder creates a staff user, a package with checklist templates
// (4 required + 1 optional), and an order for that package already assigned
// to the staff member, with its checklist generated.
func seedAssignedOrder(t *testing.T, svc *Service, db *gorm.DB) (*models.Order, *models.User, *models.OrderChecklist) {
	t.Helper()

	admin := models.User{Username: "admin", PhoneNumber: "9100000001", Role: models.RoleAdmin, APIToken: "a"}
	staff := models.User{Username: "staff", PhoneNumber: "9100000002", Role: models.RoleStaff, APIToken: "s"}
	customer := models.User{Username: "customer", PhoneNumber: "9100000003", Role: models.RoleUser, APIToken: "c"}
	for _, u := range []*models.User{&admin, &staff, &customer} {
		require.NoError(t, db.Create(u).Error)
	}

	pkg := models.Package{Name: "Rally Package", Price: decimal.NewFromInt(25000), IsActive: true}
	require.NoError(t, db.Create(&pkg).Error)

	templates := []models.ChecklistTemplateItem{
		{ProductType: models.ProductPackage, ProductID: pkg.ID, Name: "Review uploaded resources", OrderIndex: 0},
		{ProductType: models.ProductPackage, ProductID: pkg.ID, Name: "Prepare materials", OrderIndex: 1},
		{ProductType: models.ProductPackage, ProductID: pkg.ID, Name: "Schedule delivery", OrderIndex: 2},
		{ProductType: models.ProductPackage, ProductID: pkg.ID, Name: "Final quality check", OrderIndex: 3},
		{ProductType: models.ProductPackage, ProductID: pkg.ID, Name: "Collect customer feedback", OrderIndex: 4, IsOptional: true},
	}
	require.NoError(t, db.Create(&templates).Error)

	order := models.Order{
		UserID:       customer.ID,
		OrderNumber:  models.NewOrderNumber(),
		TotalAmount:  decimal.NewFromInt(25000),
		Status:       status.Assigned,
		AssignedToID: &staff.ID,
		Items: []models.OrderItem{
			{ProductType: models.ProductPackage, ProductID: pkg.ID, ProductName: pkg.Name, Quantity: 1, Price: pkg.Price},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	checklist, err := svc.GenerateForOrder(&order)
	require.NoError(t, err)
	require.Len(t, checklist.Items, 5)

	return &order, &staff, checklist
}

func TestGenerateForOrder(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, _, checklist := seedAssignedOrder(t, svc, db)

	assert.Equal(t, "Review uploaded resources", checklist.Items[0].Description)
	assert.Equal(t, "Collect customer feedback", checklist.Items[4].Description)
	assert.True(t, checklist.Items[4].IsOptional)
	for i, item := range checklist.Items {
		assert.Equal(t, i, item.OrderIndex)
		assert.NotNil(t, item.TemplateItemID)
		assert.False(t, item.Completed)
	}
}

func TestGenerateForOrderDeduplicatesProducts(t *testing.T) {
	svc, db, _ := newTestService(t)
	order, _, _ := seedAssignedOrder(t, svc, db)

	// Add a second item for the same package; regeneration must not
	// duplicate template items.
	item := models.OrderItem{
		OrderID:     order.ID,
		ProductType: models.ProductPackage,
		ProductID:   order.Items[0].ProductID,
		ProductName: order.Items[0].ProductName,
		Quantity:    2,
		Price:       order.Items[0].Price,
	}
	require.NoError(t, db.Create(&item).Error)

	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	checklist, err := svc.GenerateForOrder(&reloaded)
	require.NoError(t, err)
	assert.Len(t, checklist.Items, 5)
}

func TestGenerateForOrderReusesExistingChecklist(t *testing.T) {
	svc, db, _ := newTestService(t)
	order, staff, checklist := seedAssignedOrder(t, svc, db)

	_, err := svc.ToggleItem(checklist.Items[0].ID, true, staff)
	require.NoError(t, err)

	again, err := svc.GenerateForOrder(order)
	require.NoError(t, err)
	assert.Equal(t, checklist.ID, again.ID)
	require.Len(t, again.Items, 5)
	assert.True(t, again.Items[0].Completed, "reuse must not discard completed work")
}

func TestGenerateForOrderWithoutTemplates(t *testing.T) {
	svc, db, _ := newTestService(t)

	customer := models.User{Username: "c2", PhoneNumber: "9100000010", Role: models.RoleUser, APIToken: "c2"}
	require.NoError(t, db.Create(&customer).Error)
	campaign := models.Campaign{Name: "Door to Door", Price: decimal.NewFromInt(5), Unit: "house", IsActive: true}
	require.NoError(t, db.Create(&campaign).Error)

	order := models.Order{
		UserID:      customer.ID,
		OrderNumber: models.NewOrderNumber(),
		TotalAmount: decimal.NewFromInt(5000),
		Status:      status.Assigned,
		Items: []models.OrderItem{
			{ProductType: models.ProductCampaign, ProductID: campaign.ID, ProductName: campaign.Name, Quantity: 1000, Price: campaign.Price},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	checklist, err := svc.GenerateForOrder(&order)
	require.NoError(t, err)
	assert.Empty(t, checklist.Items)

	progress, err := svc.ProgressForOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.ProgressPercentage)
}

func TestToggleItemProgressAndStatus(t *testing.T) {
	svc, db, cache := newTestService(t)
	order, staff, checklist := seedAssignedOrder(t, svc, db)

	// First required item: 25%, assigned -> in_progress, milestone notification.
	res, err := svc.ToggleItem(checklist.Items[0].ID, true, staff)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Progress.ProgressPercentage)
	assert.Equal(t, status.InProgress, res.OrderStatus)
	assert.True(t, res.Item.Completed)
	require.NotNil(t, res.Item.CompletedByID)
	assert.Equal(t, staff.ID, *res.Item.CompletedByID)
	assert.NotNil(t, res.Item.CompletedAt)

	var progressNotes int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("type = ?", models.NotificationProgressUpdate).Count(&progressNotes).Error)
	assert.Equal(t, int64(1), progressNotes, "crossing 25%% notifies the seeded admin")

	// Second required item: 50%.
	res, err = svc.ToggleItem(checklist.Items[1].ID, true, staff)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress.ProgressPercentage)
	assert.Equal(t, status.InProgress, res.OrderStatus)

	// Optional item completion changes totals but not the percentage.
	res, err = svc.ToggleItem(checklist.Items[4].ID, true, staff)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Progress.ProgressPercentage)
	assert.Equal(t, 3, res.Progress.CompletedItems)
	assert.Equal(t, 2, res.Progress.CompletedRequired)

	// Remaining required items: 100%, order completed, cache flushed.
	_, err = svc.ToggleItem(checklist.Items[2].ID, true, staff)
	require.NoError(t, err)
	res, err = svc.ToggleItem(checklist.Items[3].ID, true, staff)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress.ProgressPercentage)
	assert.Equal(t, status.Completed, res.OrderStatus)
	assert.Equal(t, 1, cache.invalidations)

	var completed int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("type = ?", models.NotificationOrderCompleted).Count(&completed).Error)
	assert.Equal(t, int64(1), completed)

	// Unchecking after completion never retracts the status.
	res, err = svc.ToggleItem(checklist.Items[3].ID, false, staff)
	require.NoError(t, err)
	assert.Equal(t, 75, res.Progress.ProgressPercentage)
	assert.Equal(t, status.Completed, res.OrderStatus)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, status.Completed, reloaded.Status)
}

func TestToggleItemMilestoneNotifications(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, staff, checklist := seedAssignedOrder(t, svc, db)

	// seedAssignedOrder creates one admin; milestone crossings notify them.
	_, err := svc.ToggleItem(checklist.Items[0].ID, true, staff) // 0 -> 25
	require.NoError(t, err)
	_, err = svc.ToggleItem(checklist.Items[0].ID, false, staff) // 25 -> 0, crossing down
	require.NoError(t, err)

	var notes []models.Notification
	require.NoError(t, db.Where("type = ?", models.NotificationProgressUpdate).
		Order("id").Find(&notes).Error)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "25% complete")
	assert.Contains(t, notes[1].Message, "0% complete")
}

func TestToggleItemNotAssignee(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, _, checklist := seedAssignedOrder(t, svc, db)

	other := models.User{Username: "other", PhoneNumber: "9100000009", Role: models.RoleStaff, APIToken: "o"}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.ToggleItem(checklist.Items[0].ID, true, &other)
	assert.ErrorIs(t, err, ErrNotAssignee)

	var item models.ChecklistItem
	require.NoError(t, db.First(&item, checklist.Items[0].ID).Error)
	assert.False(t, item.Completed, "rejected toggle must not mutate")
}

func TestToggleItemAdminMayToggleAnyOrder(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, _, checklist := seedAssignedOrder(t, svc, db)

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)

	res, err := svc.ToggleItem(checklist.Items[0].ID, true, &admin)
	require.NoError(t, err)
	assert.True(t, res.Item.Completed)
}

func TestToggleItemNotFound(t *testing.T) {
	svc, db, _ := newTestService(t)
	_, staff, _ := seedAssignedOrder(t, svc, db)

	_, err := svc.ToggleItem(99999, true, staff)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
