package services

import (
	"context"
	"fmt"

	"soufra_admin/internal/cart"
	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"
)

// CartLine asks for quantity units of a menu item with the given selections.
type CartLine struct {
	MenuItemID string          `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	Selections menu.Selections `json:"selections,omitempty"`
}

// CartService prices cart lines against the current menu of a restaurant.
type CartService interface {
	PriceLines(ctx context.Context, restaurantID string, lines []CartLine) ([]models.OrderItemInput, error)
}

type cartService struct {
	menuService MenuService
}

func NewCartService(menuService MenuService) CartService {
	return &cartService{menuService: menuService}
}

func (s *cartService) PriceLines(ctx context.Context, restaurantID string, lines []CartLine) ([]models.OrderItemInput, error) {
	c := cart.New()
	for i, line := range lines {
		if line.MenuItemID == "" {
			return nil, models.NewValidationError(fmt.Sprintf("lines[%d]", i), "menu_item_id is required")
		}
		item, err := s.menuService.GetMenuItem(ctx, restaurantID, line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
		if _, err := c.Add(*item, line.Selections, line.Quantity); err != nil {
			return nil, fmt.Errorf("lines[%d]: %w", i, err)
		}
	}
	return c.Items(), nil
}
