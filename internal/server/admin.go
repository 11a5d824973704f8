package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/orders"
	"github.com/electioncart/electioncart/internal/status"
)

func (s *Server) adminListOrders(c *gin.Context) {
	filter := orders.ListFilter{Search: c.Query("search")}

	if raw := c.Query("status"); raw != "" {
		st := status.Status(raw)
		if !status.IsValid(st) {
			respondError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = st
	}
	switch raw := c.Query("assigned_to"); raw {
	case "":
	case "unassigned":
		filter.Unassigned = true
	default:
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid assigned_to filter")
			return
		}
		staffID := uint(id)
		filter.AssignedToID = &staffID
	}

	list, err := s.orders.List(filter)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

func (s *Server) adminOrderStatistics(c *gin.Context) {
	stats, err := s.orders.GetStatistics()
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminGetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := s.orders.AdminGetOrder(orderID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type assignOrderRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

func (s *Server) assignOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req assignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := s.orders.Assign(orderID, req.StaffID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "order assigned",
		"order":   order,
	})
}

func (s *Server) listStaff(c *gin.Context) {
	var staff []models.User
	err := s.db.Where("role IN ?", []string{models.RoleStaff, models.RoleAdmin}).
		Order("username").
		Find(&staff).Error
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff, "count": len(staff)})
}
