// Package notify creates and serves in-app notifications for staff and
// admin users. Dispatch is synchronous and best-effort: callers log a failed
// create and move on, it never rolls back the business transaction that
// triggered it.
package notify

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/models"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// WithTx returns a view of the service bound to tx, for callers that create
// notifications inside an open transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx}
}

// Notify creates one notification row per recipient.
func (s *Service) Notify(recipients []models.User, ntype, title, message string, order *models.Order) error {
	if len(recipients) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(recipients))
	for _, r := range recipients {
		n := models.Notification{
			UserID:  r.ID,
			Type:    ntype,
			Title:   title,
			Message: message,
		}
		if order != nil {
			n.OrderID = &order.ID
		}
		notifications = append(notifications, n)
	}

	if err := s.db.Create(&notifications).Error; err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (s *Service) admins() ([]models.User, error) {
	var admins []models.User
	if err := s.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("load admin users: %w", err)
	}
	return admins, nil
}

// NotifyAdminsNewOrder tells every admin an order has all its resources and
// is ready for processing.
func (s *Service) NotifyAdminsNewOrder(order *models.Order) error {
	admins, err := s.admins()
	if err != nil {
		return err
	}
	phone := ""
	if order.User != nil {
		phone = order.User.PhoneNumber
	}
	msg := fmt.Sprintf("Order %s from %s is ready for processing. Total: ₹%s",
		order.OrderNumber, phone, order.TotalAmount.StringFixed(2))
	return s.Notify(admins, models.NotificationNewOrder, "New Order Ready for Processing", msg, order)
}

// NotifyStaffAssigned tells a staff member an order has been assigned to them.
func (s *Service) NotifyStaffAssigned(order *models.Order, staff *models.User) error {
	msg := fmt.Sprintf("Order %s has been assigned to you. Total items: %d",
		order.OrderNumber, order.TotalItems())
	return s.Notify([]models.User{*staff}, models.NotificationOrderAssigned, "New Order Assigned", msg, order)
}

// NotifyAdminsProgress tells every admin an order crossed a progress
// milestone.
func (s *Service) NotifyAdminsProgress(order *models.Order, progressPct int) error {
	admins, err := s.admins()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Order %s is now %d%% complete.", order.OrderNumber, progressPct)
	return s.Notify(admins, models.NotificationProgressUpdate, "Order Progress Update", msg, order)
}

// NotifyAdminsCompleted tells every admin an order has been completed.
func (s *Service) NotifyAdminsCompleted(order *models.Order) error {
	admins, err := s.admins()
	if err != nil {
		return err
	}
	by := "staff"
	if order.AssignedTo != nil {
		by = order.AssignedTo.PhoneNumber
	}
	msg := fmt.Sprintf("Order %s has been completed by %s.", order.OrderNumber, by)
	return s.Notify(admins, models.NotificationOrderCompleted, "Order Completed", msg, order)
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *Service) GetUserNotifications(user *models.User, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.Where("user_id = ?", user.ID).Order("created_at DESC, id DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flips the read flag on a notification owned by user. A
// notification belonging to someone else reports ErrNotFound; ownership is
// deliberately indistinguishable from existence.
func (s *Service) MarkAsRead(id uint, user *models.User) (*models.Notification, error) {
	var n models.Notification
	err := s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load notification %d: %w", id, err)
	}

	n.IsRead = true
	if err := s.db.Save(&n).Error; err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return &n, nil
}

// MarkAllAsRead flips every unread notification of the user and returns the
// number affected.
func (s *Service) MarkAllAsRead(user *models.User) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
