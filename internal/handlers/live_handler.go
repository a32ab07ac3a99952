package handlers

import (
	"context"
	"io"
	"time"

	"soufra_admin/internal/models"
	"soufra_admin/internal/projection"

	"github.com/gin-gonic/gin"
)

// elapsedTick re-sends the view while active orders exist so their timers move.
const elapsedTick = time.Second

// LiveOrders streams the live order view of a restaurant as server-sent events.
// A fresh view is sent after every change and once per tick while any order is
// active.
func (h *APIHandler) LiveOrders(c *gin.Context) {
	restaurantID := c.Param("restaurant_id")
	if _, err := h.restaurantService.GetRestaurant(c.Request.Context(), restaurantID); err != nil {
		h.respondError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	menuItems := h.loadMenu(ctx, restaurantID, map[string]models.MenuItem{})

	watcher := projection.NewWatcher(restaurantID, h.orderService, h.feed, h.refreshInterval, h.logger)
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	ticker := time.NewTicker(elapsedTick)
	defer ticker.Stop()

	h.logger.Info("live_view_opened", "Live order view opened", map[string]interface{}{
		"restaurant_id": restaurantID,
		"request_id":    c.GetString(requestIDKey),
	})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	finished := false
	c.Stream(func(w io.Writer) bool {
		tick := false
		select {
		case <-ctx.Done():
			return false
		case <-h.streamsClosed:
			return false
		case err := <-done:
			finished = true
			if err != nil {
				h.logger.Error("live_view_failed", "Live order view stopped", err, map[string]interface{}{
					"restaurant_id": restaurantID,
				})
			}
			return false
		case <-watcher.Updates():
			// Updates also fire on the watcher's periodic refresh.
			menuItems = h.loadMenu(ctx, restaurantID, menuItems)
		case <-ticker.C:
			tick = true
		}

		view := projection.BuildView(watcher.Projection().Orders(), time.Now().UTC(), menuItems)
		if tick && len(view.Active) == 0 {
			return true
		}
		c.SSEvent("orders", view)
		return true
	})

	if !finished {
		cancel()
		<-done
	}
	h.logger.Info("live_view_closed", "Live order view closed", map[string]interface{}{
		"restaurant_id": restaurantID,
	})
}

// loadMenu returns the current menu index of a restaurant, or fallback when it
// cannot be read.
func (h *APIHandler) loadMenu(ctx context.Context, restaurantID string, fallback map[string]models.MenuItem) map[string]models.MenuItem {
	menuItems, err := h.menuService.MenuIndex(ctx, restaurantID)
	if err != nil {
		if ctx.Err() == nil {
			h.logger.Warn("live_menu_unavailable", "Set menu details may be stale in the live view", map[string]interface{}{
				"restaurant_id": restaurantID,
				"error":         err.Error(),
			})
		}
		return fallback
	}
	return menuItems
}
