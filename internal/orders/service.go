// Package orders implements the customer- and admin-facing order workflow:
// checkout from a cart, payment confirmation, resource uploads, and staff
// assignment. Status transitions go through the status package; the services
// here only decide which event occurred.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/catalog"
	"github.com/electioncart/electioncart/internal/checklist"
	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/payment"
	"github.com/electioncart/electioncart/internal/status"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrItemNotFound     = errors.New("order item not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrWrongStatus      = errors.New("order status does not allow this operation")
	ErrAlreadyUploaded  = errors.New("resources already uploaded for this order item")
	ErrSignatureInvalid = errors.New("payment signature verification failed")
	ErrOrderMismatch    = errors.New("payment references do not match this order")
	ErrNotStaff         = errors.New("user is not a staff member")
	ErrValidation       = errors.New("validation failed")
)

// Gateway is the slice of the payment client the order workflow needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*payment.GatewayOrder, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	KeyID() string
}

// FileStore persists uploaded resource files.
type FileStore interface {
	SaveImage(fh *multipart.FileHeader, subdir string) (string, error)
	SaveUpload(fh *multipart.FileHeader, def *models.ResourceFieldDefinition, subdir string) (string, error)
	Remove(path string) error
}

// Invalidator flushes the analytics cache namespace.
type Invalidator interface {
	Invalidate()
}

type Service struct {
	db         *gorm.DB
	gateway    Gateway
	notifier   *notify.Service
	checklists *checklist.Service
	analytics  Invalidator
	files      FileStore
	log        *slog.Logger
}

func NewService(db *gorm.DB, gateway Gateway, notifier *notify.Service, checklists *checklist.Service, analytics Invalidator, files FileStore, log *slog.Logger) *Service {
	return &Service{
		db:         db,
		gateway:    gateway,
		notifier:   notifier,
		checklists: checklists,
		analytics:  analytics,
		files:      files,
		log:        log,
	}
}

// CheckoutResult is what order creation hands back to the frontend so it can
// open the gateway's checkout widget.
type CheckoutResult struct {
	Order          *models.Order `json:"order"`
	GatewayOrderID string        `json:"gateway_order_id"`
	GatewayKeyID   string        `json:"gateway_key_id"`
	Amount         int64         `json:"amount"` // smallest currency unit
}

// CreateFromCart converts the user's cart into a pending-payment order,
// registers it with the payment gateway, and empties the cart.
func (s *Service) CreateFromCart(ctx context.Context, user *models.User) (*CheckoutResult, error) {
	var cart models.Cart
	err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("added_at, id")
	}).Where("user_id = ?", user.ID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		UserID:      user.ID,
		OrderNumber: models.NewOrderNumber(),
		Status:      status.PendingPayment,
		TotalAmount: decimal.Zero,
	}
	for _, ci := range cart.Items {
		product, err := catalog.Resolve(s.db, ci.ProductType, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: cart references %s %d", ErrValidation, ci.ProductType, ci.ProductID)
		}
		item := models.OrderItem{
			ProductType: product.Type,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    ci.Quantity,
			Price:       product.Price,
		}
		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, order.TotalAmount, order.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("register order with gateway: %w", err)
	}
	order.GatewayOrderID = gatewayOrder.ID
	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("gateway_order_id", gatewayOrder.ID).Error; err != nil {
		return nil, fmt.Errorf("store gateway order id: %w", err)
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	s.log.Info("order created", "order", order.OrderNumber, "total", order.TotalAmount)
	return &CheckoutResult{
		Order:          &order,
		GatewayOrderID: gatewayOrder.ID,
		GatewayKeyID:   s.gateway.KeyID(),
		Amount:         payment.Subunits(order.TotalAmount),
	}, nil
}

// PaymentConfirmation carries the gateway callback fields the frontend
// relays after a successful payment.
type PaymentConfirmation struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewaySignature string `json:"gateway_signature" binding:"required"`
}

// VerifyPayment validates the gateway signature and moves the order from
// pending_payment to pending_resources. The order must belong to the caller;
// anything else reads as not found.
func (s *Service) VerifyPayment(orderID, userID uint, conf PaymentConfirmation) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	if conf.GatewayOrderID != order.GatewayOrderID {
		return nil, ErrOrderMismatch
	}
	if !s.gateway.VerifySignature(conf.GatewayOrderID, conf.GatewayPaymentID, conf.GatewaySignature) {
		return nil, ErrSignatureInvalid
	}

	now := time.Now()
	order.GatewayPaymentID = &conf.GatewayPaymentID
	order.GatewaySignature = &conf.GatewaySignature
	order.PaymentCompletedAt = &now
	order.Status = status.Next(order.Status, status.PaymentVerified())

	if err := s.db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("save order %d: %w", orderID, err)
	}

	s.log.Info("payment verified", "order", order.OrderNumber)
	return &order, nil
}

// GetOrder returns an order owned by the user with items and checklist
// loaded.
func (s *Service) GetOrder(orderID, userID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.Resource").
		Preload("Items.FieldValues").
		Preload("Checklist.Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return &order, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *Service) ListUserOrders(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// StaticUpload is the fixed-shape resource submission.
type StaticUpload struct {
	OrderItemID     uint
	CandidatePhoto  *multipart.FileHeader
	PartyLogo       *multipart.FileHeader
	CampaignSlogan  string
	PreferredDate   time.Time
	WhatsappNumber  string
	AdditionalNotes string
}

// PendingItem describes an order item still waiting for resources.
type PendingItem struct {
	ID       uint               `json:"id"`
	ItemType models.ProductType `json:"item_type"`
	ItemName string             `json:"item_name"`
	Quantity int                `json:"quantity"`
}

// UploadResult reports a successful submission and where the order stands.
type UploadResult struct {
	Resource             any           `json:"resource"`
	OrderStatus          status.Status `json:"order_status"`
	AllResourcesUploaded bool          `json:"all_resources_uploaded"`
	PendingItems         []PendingItem `json:"pending_items"`
}

func validateWhatsappNumber(value string) error {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return fmt.Errorf("%w: whatsapp number must be at least 10 digits", ErrValidation)
	}
	if digits > 15 {
		return fmt.Errorf("%w: whatsapp number cannot exceed 15 digits", ErrValidation)
	}
	return nil
}

// loadOrderForUpload fetches the order and the target item and runs the
// checks shared by both upload paths.
func (s *Service) loadOrderForUpload(orderID, userID, itemID uint) (*models.Order, *models.OrderItem, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("User").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	if order.Status != status.PendingResources && order.Status != status.ReadyForProcessing {
		return nil, nil, fmt.Errorf("%w: cannot upload resources for order with status %s", ErrWrongStatus, order.Status)
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, nil, ErrItemNotFound
	}
	if item.ResourcesUploaded {
		return nil, nil, ErrAlreadyUploaded
	}
	return &order, item, nil
}

// finishUpload flips the item flag, recomputes the order status, and (when
// the last item just got its resources) notifies the admins, all inside the
// caller's transaction. The notification error is logged, never propagated:
// delivery is best-effort and must not roll back the upload.
func (s *Service) finishUpload(tx *gorm.DB, order *models.Order, item *models.OrderItem) (bool, error) {
	if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Update("resources_uploaded", true).Error; err != nil {
		return false, fmt.Errorf("mark item uploaded: %w", err)
	}
	item.ResourcesUploaded = true

	allUploaded := order.AllResourcesUploaded()
	if allUploaded {
		next := status.Next(order.Status, status.ResourcesComplete())
		if next != order.Status {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", next).Error; err != nil {
				return false, fmt.Errorf("update order status: %w", err)
			}
			order.Status = next
			if err := s.notifier.WithTx(tx).NotifyAdminsNewOrder(order); err != nil {
				s.log.Error("new-order notification failed", "order", order.OrderNumber, "error", err)
			}
		}
	}
	return allUploaded, nil
}

// removeFiles discards files saved ahead of a transaction that did not
// commit. Failures are logged; the caller's error is the one that matters.
func (s *Service) removeFiles(paths ...string) {
	for _, path := range paths {
		if err := s.files.Remove(path); err != nil {
			s.log.Error("orphaned upload cleanup failed", "path", path, "error", err)
		}
	}
}

func (s *Service) pendingItems(order *models.Order) []PendingItem {
	var pending []PendingItem
	for _, item := range order.PendingResourceItems() {
		pending = append(pending, PendingItem{
			ID:       item.ID,
			ItemType: item.ProductType,
			ItemName: item.ProductName,
			Quantity: item.Quantity,
		})
	}
	return pending
}

// UploadResources records the fixed-shape resource submission for an order
// item. The submission, the item flag, the status flip, and the admin
// notification all happen in one transaction.
func (s *Service) UploadResources(orderID, userID uint, upload StaticUpload) (*UploadResult, error) {
	order, item, err := s.loadOrderForUpload(orderID, userID, upload.OrderItemID)
	if err != nil {
		return nil, err
	}

	if upload.CandidatePhoto == nil || upload.PartyLogo == nil {
		return nil, fmt.Errorf("%w: candidate photo and party logo are required", ErrValidation)
	}
	if strings.TrimSpace(upload.CampaignSlogan) == "" {
		return nil, fmt.Errorf("%w: campaign slogan is required", ErrValidation)
	}
	if upload.PreferredDate.IsZero() {
		return nil, fmt.Errorf("%w: preferred date is required", ErrValidation)
	}
	if err := validateWhatsappNumber(upload.WhatsappNumber); err != nil {
		return nil, err
	}

	photoPath, err := s.files.SaveImage(upload.CandidatePhoto, "resources/photos")
	if err != nil {
		return nil, fmt.Errorf("%w: candidate photo: %s", ErrValidation, err)
	}
	logoPath, err := s.files.SaveImage(upload.PartyLogo, "resources/logos")
	if err != nil {
		return nil, fmt.Errorf("%w: party logo: %s", ErrValidation, err)
	}

	resource := models.OrderResource{
		OrderItemID:     item.ID,
		CandidatePhoto:  photoPath,
		PartyLogo:       logoPath,
		CampaignSlogan:  upload.CampaignSlogan,
		PreferredDate:   upload.PreferredDate,
		WhatsappNumber:  upload.WhatsappNumber,
		AdditionalNotes: upload.AdditionalNotes,
	}

	var allUploaded bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&resource).Error; err != nil {
			return fmt.Errorf("create resource submission: %w", err)
		}
		var err error
		allUploaded, err = s.finishUpload(tx, order, item)
		return err
	})
	if err != nil {
		s.removeFiles(photoPath, logoPath)
		return nil, err
	}

	return &UploadResult{
		Resource:             resource,
		OrderStatus:          order.Status,
		AllResourcesUploaded: allUploaded,
		PendingItems:         s.pendingItems(order),
	}, nil
}

// DynamicUpload is a submission against a product's field definitions.
// Values holds text and number fields by field name; Files holds image and
// document fields.
type DynamicUpload struct {
	OrderItemID uint
	Values      map[string]string
	Files       map[string]*multipart.FileHeader
}

// UploadDynamicResources validates a dynamic submission against the
// product's field definitions and records one field value per definition.
func (s *Service) UploadDynamicResources(orderID, userID uint, upload DynamicUpload) (*UploadResult, error) {
	order, item, err := s.loadOrderForUpload(orderID, userID, upload.OrderItemID)
	if err != nil {
		return nil, err
	}

	defs, err := catalog.FieldDefinitionsFor(s.db, item.ProductType, item.ProductID)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: product has no dynamic resource fields", ErrValidation)
	}

	values := make([]models.ResourceFieldValue, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		value, err := s.buildFieldValue(def, item.ID, upload)
		if err != nil {
			return nil, err
		}
		if value != nil {
			values = append(values, *value)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: submission contains no field values", ErrValidation)
	}

	var allUploaded bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&values).Error; err != nil {
			return fmt.Errorf("create field values: %w", err)
		}
		var err error
		allUploaded, err = s.finishUpload(tx, order, item)
		return err
	})
	if err != nil {
		for _, v := range values {
			if v.FilePath != "" {
				s.removeFiles(v.FilePath)
			}
		}
		return nil, err
	}

	return &UploadResult{
		Resource:             values,
		OrderStatus:          order.Status,
		AllResourcesUploaded: allUploaded,
		PendingItems:         s.pendingItems(order),
	}, nil
}

// buildFieldValue validates one field of a dynamic submission. Missing
// optional fields yield nil.
func (s *Service) buildFieldValue(def *models.ResourceFieldDefinition, itemID uint, upload DynamicUpload) (*models.ResourceFieldValue, error) {
	value := models.ResourceFieldValue{
		OrderItemID:       itemID,
		FieldDefinitionID: def.ID,
		FieldName:         def.Name,
		FieldType:         def.FieldType,
	}

	switch def.FieldType {
	case models.FieldText:
		text, ok := upload.Values[def.Name]
		if !ok || strings.TrimSpace(text) == "" {
			if def.Required {
				return nil, fmt.Errorf("%w: field %q is required", ErrValidation, def.Name)
			}
			return nil, nil
		}
		if def.MinLength != nil && len(text) < *def.MinLength {
			return nil, fmt.Errorf("%w: field %q must be at least %d characters", ErrValidation, def.Name, *def.MinLength)
		}
		if def.MaxLength != nil && len(text) > *def.MaxLength {
			return nil, fmt.Errorf("%w: field %q cannot exceed %d characters", ErrValidation, def.Name, *def.MaxLength)
		}
		value.TextValue = text

	case models.FieldNumber:
		raw, ok := upload.Values[def.Name]
		if !ok || strings.TrimSpace(raw) == "" {
			if def.Required {
				return nil, fmt.Errorf("%w: field %q is required", ErrValidation, def.Name)
			}
			return nil, nil
		}
		number, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: field %q must be a number", ErrValidation, def.Name)
		}
		f, _ := number.Float64()
		if def.MinValue != nil && f < *def.MinValue {
			return nil, fmt.Errorf("%w: field %q must be at least %v", ErrValidation, def.Name, *def.MinValue)
		}
		if def.MaxValue != nil && f > *def.MaxValue {
			return nil, fmt.Errorf("%w: field %q cannot exceed %v", ErrValidation, def.Name, *def.MaxValue)
		}
		value.NumberValue = &f

	case models.FieldImage, models.FieldDocument:
		fh, ok := upload.Files[def.Name]
		if !ok || fh == nil {
			if def.Required {
				return nil, fmt.Errorf("%w: field %q requires a file", ErrValidation, def.Name)
			}
			return nil, nil
		}
		path, err := s.files.SaveUpload(fh, def, "resources/dynamic")
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %s", ErrValidation, def.Name, err)
		}
		value.FilePath = path

	default:
		return nil, fmt.Errorf("%w: field %q has unsupported type %q", ErrValidation, def.Name, def.FieldType)
	}

	return &value, nil
}

// UploadedItem describes an order item whose resources are in.
type UploadedItem struct {
	ID         uint               `json:"id"`
	ItemType   models.ProductType `json:"item_type"`
	ItemName   string             `json:"item_name"`
	Quantity   int                `json:"quantity"`
	UploadedAt *time.Time         `json:"uploaded_at,omitempty"`
}

// ResourceStatus summarizes where an order stands on resource uploads.
type ResourceStatus struct {
	OrderID              uint           `json:"order_id"`
	OrderNumber          string         `json:"order_number"`
	Status               status.Status  `json:"status"`
	TotalItems           int            `json:"total_items"`
	ProgressPercentage   int            `json:"progress_percentage"`
	AllResourcesUploaded bool           `json:"all_resources_uploaded"`
	PendingItems         []PendingItem  `json:"pending_items"`
	UploadedItems        []UploadedItem `json:"uploaded_items"`
}

// GetResourceStatus reports upload progress for an order owned by the user.
func (s *Service) GetResourceStatus(orderID, userID uint) (*ResourceStatus, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Items.Resource").
		Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	result := ResourceStatus{
		OrderID:              order.ID,
		OrderNumber:          order.OrderNumber,
		Status:               order.Status,
		TotalItems:           order.TotalItems(),
		ProgressPercentage:   order.ResourceUploadProgress(),
		AllResourcesUploaded: order.AllResourcesUploaded(),
		PendingItems:         s.pendingItems(&order),
	}
	for _, item := range order.Items {
		if !item.ResourcesUploaded {
			continue
		}
		uploaded := UploadedItem{
			ID:       item.ID,
			ItemType: item.ProductType,
			ItemName: item.ProductName,
			Quantity: item.Quantity,
		}
		if item.Resource != nil {
			uploaded.UploadedAt = &item.Resource.UploadedAt
		}
		result.UploadedItems = append(result.UploadedItems, uploaded)
	}
	return &result, nil
}

// Assign sets the order's assignee, generates the checklist, notifies the
// staff member, and flushes the analytics cache. Only users with role staff
// or admin can be assigned; reassignment reuses the existing checklist.
func (s *Service) Assign(orderID, staffID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	var staff models.User
	if err := s.db.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: staff user %d does not exist", ErrValidation, staffID)
		}
		return nil, fmt.Errorf("load staff user %d: %w", staffID, err)
	}
	if !staff.IsStaffOrAdmin() {
		return nil, ErrNotStaff
	}

	switch order.Status {
	case status.ReadyForProcessing, status.Assigned, status.InProgress:
		// First assignment or reassignment.
	default:
		return nil, fmt.Errorf("%w: cannot assign order with status %s", ErrWrongStatus, order.Status)
	}

	order.AssignedToID = &staff.ID
	order.AssignedTo = &staff
	order.Status = status.Next(order.Status, status.AssignedToStaff())

	err = s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Updates(map[string]any{"assigned_to_id": staff.ID, "status": order.Status}).Error
	if err != nil {
		return nil, fmt.Errorf("assign order %d: %w", orderID, err)
	}

	if _, err := s.checklists.GenerateForOrder(&order); err != nil {
		return nil, fmt.Errorf("generate checklist: %w", err)
	}

	if err := s.notifier.NotifyStaffAssigned(&order, &staff); err != nil {
		s.log.Error("assignment notification failed", "order", order.OrderNumber, "error", err)
	}
	s.analytics.Invalidate()
	s.log.Info("order assigned", "order", order.OrderNumber, "staff", staff.Username)

	return s.AdminGetOrder(order.ID)
}

// AdminGetOrder returns any order with everything loaded, no ownership
// filter.
func (s *Service) AdminGetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("User").
		Preload("AssignedTo").
		Preload("Items").
		Preload("Items.Resource").
		Preload("Items.FieldValues").
		Preload("Checklist.Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Preload("Checklist.Items.CompletedBy").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}
	return &order, nil
}

// ListFilter narrows the admin and staff order lists.
type ListFilter struct {
	Status       status.Status
	AssignedToID *uint
	Unassigned   bool
	Search       string
}

// List returns orders newest-first, filtered.
func (s *Service) List(filter ListFilter) ([]models.Order, error) {
	q := s.db.Preload("User").Preload("AssignedTo").Preload("Items").
		Order("created_at DESC, id DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Unassigned {
		q = q.Where("assigned_to_id IS NULL")
	} else if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Select("orders.*").Joins("JOIN users ON users.id = orders.user_id").
			Where("orders.order_number LIKE ? OR users.phone_number LIKE ? OR users.username LIKE ?", pattern, pattern, pattern)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Statistics is the admin dashboard's order count summary.
type Statistics struct {
	Pending    int64 `json:"pending"`
	Assigned   int64 `json:"assigned"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

// GetStatistics counts orders by workflow stage.
func (s *Service) GetStatistics() (*Statistics, error) {
	var stats Statistics
	count := func(dst *int64, statuses ...status.Status) error {
		q := s.db.Model(&models.Order{})
		if len(statuses) > 0 {
			q = q.Where("status IN ?", statuses)
		}
		return q.Count(dst).Error
	}

	if err := count(&stats.Pending, status.PendingPayment, status.PendingResources); err != nil {
		return nil, fmt.Errorf("count pending orders: %w", err)
	}
	if err := count(&stats.Assigned, status.Assigned); err != nil {
		return nil, fmt.Errorf("count assigned orders: %w", err)
	}
	if err := count(&stats.InProgress, status.InProgress); err != nil {
		return nil, fmt.Errorf("count in-progress orders: %w", err)
	}
	if err := count(&stats.Completed, status.Completed); err != nil {
		return nil, fmt.Errorf("count completed orders: %w", err)
	}
	if err := count(&stats.Total); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	return &stats, nil
}
