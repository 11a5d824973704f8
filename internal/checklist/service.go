// Package checklist generates per-order task lists from product templates
// and drives order status from their completion.
package checklist

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/catalog"
	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/status"
)

var (
	ErrItemNotFound = errors.New("checklist item not found")
	ErrNotAssignee  = errors.New("order is not assigned to this user")
)

// CacheInvalidator flushes derived read-side state when an order completes.
type CacheInvalidator interface {
	Invalidate()
}

type Service struct {
	db       *gorm.DB
	notifier *notify.Service
	cache    CacheInvalidator
	log      *slog.Logger
}

func NewService(db *gorm.DB, notifier *notify.Service, cache CacheInvalidator, log *slog.Logger) *Service {
	return &Service{db: db, notifier: notifier, cache: cache, log: log}
}

// Progress is the canonical completion summary of a checklist. Optional
// items are excluded from both the numerator and the denominator of the
// percentage; every consumer (status transitions, serializers) goes through
// this one computation.
type Progress struct {
	TotalItems         int `json:"total_items"`
	CompletedItems     int `json:"completed_items"`
	RequiredItems      int `json:"required_items"`
	CompletedRequired  int `json:"completed_required"`
	ProgressPercentage int `json:"progress_percentage"`
}

// CalculateProgress computes the completion summary for a set of checklist
// items. A checklist with no required items is vacuously 100% complete,
// regardless of how many optional items it has.
func CalculateProgress(items []models.ChecklistItem) Progress {
	p := Progress{TotalItems: len(items)}
	for _, item := range items {
		if item.Completed {
			p.CompletedItems++
		}
		if item.IsOptional {
			continue
		}
		p.RequiredItems++
		if item.Completed {
			p.CompletedRequired++
		}
	}

	if p.RequiredItems == 0 {
		p.ProgressPercentage = 100
		return p
	}
	p.ProgressPercentage = p.CompletedRequired * 100 / p.RequiredItems
	return p
}

// GenerateForOrder creates the order's checklist from the checklist
// templates of the products it references. An existing checklist with items
// is reused untouched, so reassignment never discards completed work. Each
// template item is copied with its order index and optional flag and keeps a
// back-reference to the template.
func (s *Service) GenerateForOrder(order *models.Order) (*models.OrderChecklist, error) {
	var checklist models.OrderChecklist
	err := s.db.Where("order_id = ?", order.ID).First(&checklist).Error
	switch {
	case err == nil:
		var count int64
		if err := s.db.Model(&models.ChecklistItem{}).Where("checklist_id = ?", checklist.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count checklist items: %w", err)
		}
		if count > 0 {
			return s.loadChecklist(checklist.ID)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		checklist = models.OrderChecklist{OrderID: order.ID}
		if err := s.db.Create(&checklist).Error; err != nil {
			return nil, fmt.Errorf("create checklist: %w", err)
		}
	default:
		return nil, fmt.Errorf("load checklist: %w", err)
	}

	templateItems, err := catalog.TemplateItemsForOrder(s.db, order)
	if err != nil {
		return nil, err
	}
	if len(templateItems) == 0 {
		// No templates: the checklist stays empty and progress is
		// vacuously 100%.
		return s.loadChecklist(checklist.ID)
	}

	items := make([]models.ChecklistItem, 0, len(templateItems))
	for _, tmpl := range templateItems {
		tmplID := tmpl.ID
		items = append(items, models.ChecklistItem{
			ChecklistID:    checklist.ID,
			TemplateItemID: &tmplID,
			Description:    tmpl.Name,
			OrderIndex:     tmpl.OrderIndex,
			IsOptional:     tmpl.IsOptional,
		})
	}
	if err := s.db.Create(&items).Error; err != nil {
		return nil, fmt.Errorf("create checklist items: %w", err)
	}

	return s.loadChecklist(checklist.ID)
}

func (s *Service) loadChecklist(id uint) (*models.OrderChecklist, error) {
	var checklist models.OrderChecklist
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Items.CompletedBy").
		First(&checklist, id).Error
	if err != nil {
		return nil, fmt.Errorf("load checklist %d: %w", id, err)
	}
	return &checklist, nil
}

// ProgressForOrder returns the progress summary of an order's checklist, or
// a vacuous 100% when no checklist exists yet.
func (s *Service) ProgressForOrder(orderID uint) (Progress, error) {
	var checklist models.OrderChecklist
	err := s.db.Preload("Items").Where("order_id = ?", orderID).First(&checklist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalculateProgress(nil), nil
		}
		return Progress{}, fmt.Errorf("load checklist for order %d: %w", orderID, err)
	}
	return CalculateProgress(checklist.Items), nil
}

// ToggleResult is what a checklist toggle reports back to the caller.
type ToggleResult struct {
	Item        models.ChecklistItem `json:"checklist_item"`
	Progress    Progress             `json:"order_progress"`
	OrderStatus status.Status        `json:"order_status"`
}

// ToggleItem sets the completion state of a checklist item and recomputes
// the order's status from the new progress. The item update and the status
// update run in one transaction so concurrent toggles cannot interleave
// between them. Staff may only toggle items of orders assigned to them;
// admins may toggle any.
func (s *Service) ToggleItem(itemID uint, completed bool, actor *models.User) (*ToggleResult, error) {
	var item models.ChecklistItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("load checklist item %d: %w", itemID, err)
	}

	var checklist models.OrderChecklist
	if err := s.db.First(&checklist, item.ChecklistID).Error; err != nil {
		return nil, fmt.Errorf("load checklist %d: %w", item.ChecklistID, err)
	}

	var order models.Order
	if err := s.db.Preload("AssignedTo").Preload("User").First(&order, checklist.OrderID).Error; err != nil {
		return nil, fmt.Errorf("load order %d: %w", checklist.OrderID, err)
	}

	if actor.Role == models.RoleStaff && (order.AssignedToID == nil || *order.AssignedToID != actor.ID) {
		return nil, ErrNotAssignee
	}

	var (
		result     ToggleResult
		prevPct    int
		nextPct    int
		completing bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var items []models.ChecklistItem
		if err := tx.Where("checklist_id = ?", checklist.ID).Order("order_index").Find(&items).Error; err != nil {
			return fmt.Errorf("load checklist items: %w", err)
		}
		prevPct = CalculateProgress(items).ProgressPercentage

		item.Completed = completed
		if completed {
			now := time.Now()
			item.CompletedAt = &now
			item.CompletedByID = &actor.ID
		} else {
			item.CompletedAt = nil
			item.CompletedByID = nil
		}
		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("save checklist item: %w", err)
		}

		for i := range items {
			if items[i].ID == item.ID {
				items[i] = item
			}
		}
		progress := CalculateProgress(items)
		nextPct = progress.ProgressPercentage

		next := status.Next(order.Status, status.ProgressRecomputed(nextPct))
		if next != order.Status {
			completing = next == status.Completed
			order.Status = next
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", next).Error; err != nil {
				return fmt.Errorf("update order status: %w", err)
			}
		}

		result = ToggleResult{Item: item, Progress: progress, OrderStatus: order.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notifications are best-effort and live outside the transaction.
	if len(status.MilestonesCrossed(prevPct, nextPct)) > 0 {
		if err := s.notifier.NotifyAdminsProgress(&order, nextPct); err != nil {
			s.log.Error("progress notification failed", "order", order.OrderNumber, "progress", nextPct, "error", err)
		}
	}
	if completing {
		if err := s.notifier.NotifyAdminsCompleted(&order); err != nil {
			s.log.Error("completion notification failed", "order", order.OrderNumber, "error", err)
		}
		s.cache.Invalidate()
		s.log.Info("order completed", "order", order.OrderNumber)
	}

	return &result, nil
}
