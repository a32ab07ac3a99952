package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"soufra_admin/internal/changefeed"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
	"soufra_admin/internal/services"

	"github.com/gin-gonic/gin"
)

// UnauthorizedPath is where the dashboard sends accounts that lack access.
const UnauthorizedPath = "/unauthorized"

type APIHandler struct {
	authService       services.AuthService
	restaurantService services.RestaurantService
	menuService       services.MenuService
	orderService      services.OrderService
	cartService       services.CartService
	feed              changefeed.Subscriber
	refreshInterval   time.Duration
	logger            *logger.Logger

	streamsClosed chan struct{}
	closeOnce     sync.Once
}

func NewAPIHandler(
	authService services.AuthService,
	restaurantService services.RestaurantService,
	menuService services.MenuService,
	orderService services.OrderService,
	cartService services.CartService,
	feed changefeed.Subscriber,
	refreshInterval time.Duration,
	log *logger.Logger,
) *APIHandler {
	return &APIHandler{
		authService:       authService,
		restaurantService: restaurantService,
		menuService:       menuService,
		orderService:      orderService,
		cartService:       cartService,
		feed:              feed,
		refreshInterval:   refreshInterval,
		logger:            log,
		streamsClosed:     make(chan struct{}),
	}
}

// CloseStreams ends every open live view and refuses new ones. http.Server
// does not cancel in-flight requests on Shutdown, so the server calls this
// through RegisterOnShutdown.
func (h *APIHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.streamsClosed) })
}

// RegisterRoutes mounts every endpoint under /api.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/health", h.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/sign-up", h.SignUp)
		auth.POST("/sign-in", h.SignIn)
		auth.POST("/sign-out", h.SignOut)
	}

	admin := api.Group("", RequireSuperAdmin(h.authService, h.logger))
	{
		admin.GET("/auth/session", h.CurrentSession)
		admin.POST("/status/next", h.StatusNext)

		admin.GET("/restaurants", h.ListRestaurants)
		admin.POST("/restaurants", h.CreateRestaurant)
		admin.GET("/restaurant-slugs/:slug", h.GetRestaurantBySlug)

		restaurant := admin.Group("/restaurants/:restaurant_id")
		restaurant.GET("", h.GetRestaurant)
		restaurant.PUT("", h.UpdateRestaurant)

		restaurant.GET("/categories", h.ListCategories)
		restaurant.POST("/categories", h.CreateCategory)
		restaurant.PUT("/categories/:category_id", h.UpdateCategory)

		restaurant.GET("/menu-items", h.ListMenuItems)
		restaurant.POST("/menu-items", h.CreateMenuItem)
		restaurant.GET("/menu-items/:item_id", h.GetMenuItem)
		restaurant.PUT("/menu-items/:item_id", h.UpdateMenuItem)
		restaurant.DELETE("/menu-items/:item_id", h.DeleteMenuItem)
		restaurant.PATCH("/menu-items/:item_id/availability", h.SetAvailability)
		restaurant.POST("/menu-items/:item_id/quote", h.QuoteMenuItem)

		restaurant.GET("/orders", h.ListOrders)
		restaurant.POST("/orders", h.CreateOrder)
		restaurant.GET("/orders/:order_id", h.GetOrder)
		restaurant.PATCH("/orders/:order_id", h.UpdateOrder)
		restaurant.DELETE("/orders/:order_id", h.DeleteOrder)
		restaurant.GET("/orders/:order_id/next-status", h.GetNextStatus)
		restaurant.POST("/orders/:order_id/advance", h.AdvanceOrder)
		restaurant.POST("/orders/:order_id/cancel", h.CancelOrder)

		restaurant.GET("/live-orders", h.LiveOrders)
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError writes err with the status its kind maps to.
func (h *APIHandler) respondError(c *gin.Context, err error) {
	writeError(c, h.logger, err)
}

func writeError(c *gin.Context, log *logger.Logger, err error) {
	var missing *models.MissingRequiredOptionError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missing_groups": missing.Groups})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, models.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "redirect": UnauthorizedPath})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error("request_failed", "Request failed", err, map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
}
