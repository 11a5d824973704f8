// Package server wires the HTTP surface: route groups per audience, token
// auth middleware, and handlers that translate between HTTP and the service
// packages.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/electioncart/electioncart/internal/analytics"
	"github.com/electioncart/electioncart/internal/cart"
	"github.com/electioncart/electioncart/internal/checklist"
	"github.com/electioncart/electioncart/internal/database"
	"github.com/electioncart/electioncart/internal/models"
	"github.com/electioncart/electioncart/internal/notify"
	"github.com/electioncart/electioncart/internal/orders"
)

type Server struct {
	router     *gin.Engine
	db         *gorm.DB
	carts      *cart.Service
	orders     *orders.Service
	checklists *checklist.Service
	notifier   *notify.Service
	analytics  *analytics.Service
	log        *slog.Logger
}

// NewServer creates a new server instance
func NewServer(db *gorm.DB, carts *cart.Service, orderSvc *orders.Service, checklists *checklist.Service, notifier *notify.Service, analyticsSvc *analytics.Service, log *slog.Logger) *Server {
	router := gin.Default()

	server := &Server{
		router:     router,
		db:         db,
		carts:      carts,
		orders:     orderSvc,
		checklists: checklists,
		notifier:   notifier,
		analytics:  analyticsSvc,
		log:        log,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
	}

	cartAPI := api.Group("/cart", s.requireAuth())
	{
		cartAPI.GET("/", s.getCart)
		cartAPI.POST("/items/", s.addCartItem)
		cartAPI.PATCH("/items/:id/", s.updateCartItem)
		cartAPI.DELETE("/items/:id/", s.removeCartItem)
		cartAPI.DELETE("/", s.clearCart)
	}

	orderAPI := api.Group("/orders", s.requireAuth())
	{
		orderAPI.POST("/create/", s.createOrder)
		orderAPI.GET("/my-orders/", s.myOrders)
		orderAPI.GET("/:id/", s.getOrder)
		orderAPI.POST("/:id/payment-success/", s.paymentSuccess)
		orderAPI.POST("/:id/upload-resources/", s.uploadResources)
		orderAPI.POST("/:id/upload-dynamic-resources/", s.uploadDynamicResources)
		orderAPI.GET("/:id/resources/", s.orderResources)
		orderAPI.GET("/:id/resource-status/", s.resourceStatus)
		orderAPI.GET("/:id/invoice/", s.orderInvoice)
	}

	adminAPI := api.Group("/admin", s.requireAuth(), s.requireRole(models.RoleAdmin))
	{
		adminAPI.GET("/orders/", s.adminListOrders)
		adminAPI.GET("/orders/statistics/", s.adminOrderStatistics)
		adminAPI.GET("/orders/:id/", s.adminGetOrder)
		adminAPI.POST("/orders/:id/assign/", s.assignOrder)
		adminAPI.GET("/staff/", s.listStaff)

		adminAPI.GET("/notifications/", s.listNotifications)
		adminAPI.POST("/notifications/:id/mark-read/", s.markNotificationRead)
		adminAPI.POST("/notifications/mark-all-read/", s.markAllNotificationsRead)

		adminAPI.GET("/analytics/overview/", s.analyticsOverview)
		adminAPI.GET("/analytics/revenue-trend/", s.analyticsRevenueTrend)
		adminAPI.GET("/analytics/top-products/", s.analyticsTopProducts)
		adminAPI.GET("/analytics/staff-performance/", s.analyticsStaffPerformance)
		adminAPI.GET("/analytics/order-distribution/", s.analyticsOrderDistribution)
		adminAPI.GET("/analytics/yoy-growth/", s.analyticsGrowth)
		adminAPI.GET("/analytics/export/", s.analyticsExport)
	}

	staffAPI := api.Group("/staff", s.requireAuth(), s.requireRole(models.RoleStaff, models.RoleAdmin))
	{
		staffAPI.GET("/orders/", s.staffListOrders)
		staffAPI.GET("/orders/:id/", s.staffGetOrder)
		staffAPI.PATCH("/checklist/:item_id/", s.toggleChecklistItem)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	if err := database.HealthCheck(s.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "electioncart",
		"version": "0.1.0",
	})
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
