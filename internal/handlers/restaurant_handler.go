package handlers

import (
	"net/http"

	"soufra_admin/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.restaurantService.ListRestaurants(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *APIHandler) CreateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := c.ShouldBindJSON(&restaurant); err != nil {
		badRequest(c, err)
		return
	}
	restaurant.ID = ""

	if err := h.restaurantService.CreateRestaurant(c.Request.Context(), &restaurant); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, restaurant)
}

func (h *APIHandler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.restaurantService.GetRestaurant(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *APIHandler) GetRestaurantBySlug(c *gin.Context) {
	restaurant, err := h.restaurantService.GetRestaurantBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (h *APIHandler) UpdateRestaurant(c *gin.Context) {
	var changes models.Restaurant
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, err)
		return
	}

	restaurant, err := h.restaurantService.UpdateRestaurant(c.Request.Context(), c.Param("restaurant_id"), &changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

// Categories

func (h *APIHandler) ListCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context(), c.Param("restaurant_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *APIHandler) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.menuService.CreateCategory(c.Request.Context(), c.Param("restaurant_id"), &category); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *APIHandler) UpdateCategory(c *gin.Context) {
	var changes models.Category
	if err := c.ShouldBindJSON(&changes); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.menuService.UpdateCategory(c.Request.Context(), c.Param("restaurant_id"), c.Param("category_id"), &changes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}
