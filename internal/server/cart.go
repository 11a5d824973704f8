package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/models"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (s *Server) getCart(c *gin.Context) {
	view, err := s.carts.Get(currentUser(c).ID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addCartItemRequest struct {
	ProductType models.ProductType `json:"product_type" binding:"required"`
	ProductID   uint               `json:"product_id" binding:"required"`
	Quantity    int                `json:"quantity" binding:"required,min=1"`
}

func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.ProductType.IsValid() {
		respondError(c, http.StatusBadRequest, "invalid product_type")
		return
	}

	view, err := s.carts.AddItem(currentUser(c).ID, req.ProductType, req.ProductID, req.Quantity)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "cart": view})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.carts.UpdateQuantity(currentUser(c).ID, itemID, req.Quantity)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": view})
}

func (s *Server) removeCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := s.carts.RemoveItem(currentUser(c).ID, itemID)
	if err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": view})
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(currentUser(c).ID); err != nil {
		s.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
}
