package handlers

import (
	"net/http"

	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListMenuItems(c *gin.Context) {
	items, err := h.menuService.ListMenuItems(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *APIHandler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.menuService.CreateMenuItem(c.Request.Context(), c.Param("restaurant_id"), &item); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *APIHandler) GetMenuItem(c *gin.Context) {
	item, err := h.menuService.GetMenuItem(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *APIHandler) UpdateMenuItem(c *gin.Context) {
	var changes models.MenuItem
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"), &changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *APIHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.menuService.DeleteMenuItem(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) SetAvailability(c *gin.Context) {
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.menuService.SetAvailability(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"), *req.IsAvailable); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("item_id"), "is_available": *req.IsAvailable})
}

func (h *APIHandler) QuoteMenuItem(c *gin.Context) {
	var req struct {
		Selections menu.Selections `json:"selections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.menuService.Quote(c.Request.Context(), c.Param("restaurant_id"), c.Param("item_id"), req.Selections)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
