package server

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/invoice"
	"github.com/electioncart/electioncart/internal/orders"
)

func (s *Server) createOrder(c *gin.Context) {
	result, err := s.orders.CreateFromCart(c.Request.Context(), currentUser(c))
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"order":            result.Order,
		"gateway_order_id": result.GatewayOrderID,
		"gateway_key_id":   result.GatewayKeyID,
		"amount":           result.Amount,
	})
}

func (s *Server) myOrders(c *gin.Context) {
	list, err := s.orders.ListUserOrders(currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.GetOrder(orderID, currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) paymentSuccess(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var conf orders.PaymentConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := s.orders.VerifyPayment(orderID, currentUser(c).ID, conf)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "payment verified",
		"order":   order,
	})
}

func (s *Server) uploadResources(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.PostForm("order_item_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order_item_id")
		return
	}

	upload := orders.StaticUpload{
		OrderItemID:     uint(itemID),
		CampaignSlogan:  c.PostForm("campaign_slogan"),
		WhatsappNumber:  c.PostForm("whatsapp_number"),
		AdditionalNotes: c.PostForm("additional_notes"),
	}
	if raw := c.PostForm("preferred_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "preferred_date must be YYYY-MM-DD")
			return
		}
		upload.PreferredDate = date
	}
	if fh, err := c.FormFile("candidate_photo"); err == nil {
		upload.CandidatePhoto = fh
	}
	if fh, err := c.FormFile("party_logo"); err == nil {
		upload.PartyLogo = fh
	}

	result, err := s.orders.UploadResources(orderID, currentUser(c).ID, upload)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":                true,
		"message":                "resources uploaded",
		"resource":               result.Resource,
		"order_status":           result.OrderStatus,
		"all_resources_uploaded": result.AllResourcesUploaded,
		"pending_items":          result.PendingItems,
	})
}

func (s *Server) uploadDynamicResources(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "expected multipart form data")
		return
	}

	itemID, err := strconv.ParseUint(c.PostForm("order_item_id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order_item_id")
		return
	}

	upload := orders.DynamicUpload{
		OrderItemID: uint(itemID),
		Values:      map[string]string{},
		Files:       map[string]*multipart.FileHeader{},
	}
	for name, values := range form.Value {
		if name == "order_item_id" || len(values) == 0 {
			continue
		}
		upload.Values[name] = values[0]
	}
	for name, files := range form.File {
		if len(files) > 0 {
			upload.Files[name] = files[0]
		}
	}

	result, err := s.orders.UploadDynamicResources(orderID, currentUser(c).ID, upload)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":                true,
		"message":                "resources uploaded",
		"field_values":           result.Resource,
		"order_status":           result.OrderStatus,
		"all_resources_uploaded": result.AllResourcesUploaded,
		"pending_items":          result.PendingItems,
	})
}

func (s *Server) orderResources(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.GetOrder(orderID, currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items":        order.Items,
	})
}

func (s *Server) resourceStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rs, err := s.orders.GetResourceStatus(orderID, currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs)
}

func (s *Server) orderInvoice(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.GetOrder(orderID, currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	order.User = currentUser(c)

	if order.PaymentCompletedAt == nil {
		respondError(c, http.StatusBadRequest, "invoice is available after payment")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="invoice-`+order.OrderNumber+`.pdf"`)
	if err := invoice.Generate(order, c.Writer); err != nil {
		s.log.Error("invoice generation failed", "order", order.OrderNumber, "error", err)
		respondError(c, http.StatusInternalServerError, "invoice generation failed")
	}
}
