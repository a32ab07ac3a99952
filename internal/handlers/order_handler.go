package handlers

import (
	"context"
	"net/http"

	"soufra_admin/internal/models"
	"soufra_admin/internal/orderflow"
	"soufra_admin/internal/services"

	"github.com/gin-gonic/gin"
)

// Order bodies carry already priced items, menu lines to price on the server,
// or both. Priced lines are appended after the items.
type createOrderRequest struct {
	models.CreateOrderInput
	Lines []services.CartLine `json:"lines,omitempty"`
}

type updateOrderRequest struct {
	models.OrderPatch
	Lines []services.CartLine `json:"lines,omitempty"`
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("restaurant_id"), c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	restaurantID := c.Param("restaurant_id")

	items, err := h.withPricedLines(c.Request.Context(), restaurantID, req.Items, req.Lines)
	if err != nil {
		h.respondError(c, err)
		return
	}
	req.Items = items

	order, err := h.orderService.CreateOrder(c.Request.Context(), restaurantID, req.CreateOrderInput)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	restaurantID := c.Param("restaurant_id")

	if req.Lines != nil {
		var current []models.OrderItemInput
		if req.Items != nil {
			current = *req.Items
		}
		items, err := h.withPricedLines(c.Request.Context(), restaurantID, current, req.Lines)
		if err != nil {
			h.respondError(c, err)
			return
		}
		req.Items = &items
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), restaurantID, c.Param("order_id"), req.OrderPatch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) withPricedLines(ctx context.Context, restaurantID string, items []models.OrderItemInput, lines []services.CartLine) ([]models.OrderItemInput, error) {
	if len(lines) == 0 {
		return items, nil
	}
	priced, err := h.cartService.PriceLines(ctx, restaurantID, lines)
	if err != nil {
		return nil, err
	}
	return append(append([]models.OrderItemInput{}, items...), priced...), nil
}

func (h *APIHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("restaurant_id"), c.Param("order_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) GetNextStatus(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("restaurant_id"), c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nextStatusResponse(h.orderService.NextStatus(*order)))
}

func (h *APIHandler) AdvanceOrder(c *gin.Context) {
	order, err := h.orderService.AdvanceOrder(c.Request.Context(), c.Param("restaurant_id"), c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("restaurant_id"), c.Param("order_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// StatusNext answers the status-advance query for an order type and status
// without touching any order.
func (h *APIHandler) StatusNext(c *gin.Context) {
	var req struct {
		OrderType models.OrderType   `json:"order_type" binding:"required"`
		Status    models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, nextStatusResponse(orderflow.Advance(req.OrderType, req.Status)))
}

func nextStatusResponse(next models.OrderStatus, ok bool) gin.H {
	if !ok {
		return gin.H{"next_status": nil}
	}
	return gin.H{"next_status": next}
}
