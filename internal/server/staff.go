package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/orders"
)

// staffListOrders shows staff their own assignments; admins see every
// assigned order.
func (s *Server) staffListOrders(c *gin.Context) {
	user := currentUser(c)

	filter := orders.ListFilter{}
	if user.Role != models.RoleAdmin {
		filter.AssignedToID = &user.ID
	}

	list, err := s.orders.List(filter)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	if user.Role == models.RoleAdmin {
		assigned := list[:0]
		for _, o := range list {
			if o.AssignedToID != nil {
				assigned = append(assigned, o)
			}
		}
		list = assigned
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

func (s *Server) staffGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.AdminGetOrder(orderID)
	if err != nil {
		s.serviceError(c, err)
		return
	}

	user := currentUser(c)
	if user.Role != models.RoleAdmin && (order.AssignedToID == nil || *order.AssignedToID != user.ID) {
		respondError(c, http.StatusNotFound, "order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

type toggleChecklistRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func (s *Server) toggleChecklistItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	var req toggleChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.checklists.ToggleItem(itemID, *req.Completed, currentUser(c))
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"item":         result.Item,
		"progress":     result.Progress,
		"order_status": result.OrderStatus,
	})
}
