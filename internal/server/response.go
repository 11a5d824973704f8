package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/electioncart/electioncart/internal/cart"
	"github.com/electioncart/electioncart/internal/catalog"
	"github.com/electioncart/electioncart/internal/checklist"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/orders"
)

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// serviceError maps service sentinel errors to HTTP codes. Anything
// unrecognized is a 500 carrying the error text.
func (s *Server) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, orders.ErrItemNotFound),
		errors.Is(err, notify.ErrNotFound),
		errors.Is(err, checklist.ErrItemNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, catalog.ErrUnknownProduct):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, checklist.ErrNotAssignee):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrWrongStatus),
		errors.Is(err, orders.ErrAlreadyUploaded),
		errors.Is(err, orders.ErrSignatureInvalid),
		errors.Is(err, orders.ErrOrderMismatch),
		errors.Is(err, orders.ErrNotStaff),
		errors.Is(err, orders.ErrValidation),
		errors.Is(err, cart.ErrProductInactive),
		errors.Is(err, cart.ErrBadQuantity):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
