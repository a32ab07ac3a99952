// Package cart builds the line items of a new or edited order before it is submitted.
package cart

import (
	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"

	"github.com/google/uuid"
)

// Line is one entry of a cart. ID is local to the cart and never persisted.
type Line struct {
	ID              string                  `json:"id"`
	MenuItemID      *string                 `json:"menu_item_id,omitempty"`
	Name            string                  `json:"name"`
	BasePrice       float64                 `json:"base_price"`
	Price           float64                 `json:"price"`
	Quantity        int                     `json:"quantity"`
	SelectedOptions []models.SelectedOption `json:"selected_options"`
}

type Cart struct {
	lines []Line
	newID func() string
}

func New() *Cart {
	return &Cart{newID: uuid.NewString}
}

// FromOrder loads the items of an existing order for editing. Each line keeps its
// historical price; base price comes from the current menu when the item still exists.
func FromOrder(order models.Order, menuItems map[string]models.MenuItem) *Cart {
	c := New()
	for _, item := range order.OrderItems {
		basePrice := item.PriceAtTime
		if item.MenuItemID != nil {
			if current, ok := menuItems[*item.MenuItemID]; ok {
				basePrice = current.Price
			}
		}
		options := make([]models.SelectedOption, len(item.SelectedOptions))
		copy(options, item.SelectedOptions)

		c.lines = append(c.lines, Line{
			ID:              c.newID(),
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			BasePrice:       basePrice,
			Price:           item.PriceAtTime,
			Quantity:        item.Quantity,
			SelectedOptions: options,
		})
	}
	return c
}

// Add validates sel against item, prices it and appends a new line.
func (c *Cart) Add(item models.MenuItem, sel menu.Selections, quantity int) (Line, error) {
	if !item.IsAvailable {
		return Line{}, models.NewValidationError("menu_item_id", "%s is not available", item.Name)
	}
	if err := menu.Validate(item, sel); err != nil {
		return Line{}, err
	}
	if quantity < 1 {
		quantity = 1
	}

	itemID := item.ID
	line := Line{
		ID:              c.newID(),
		MenuItemID:      &itemID,
		Name:            item.Name,
		BasePrice:       item.Price,
		Price:           menu.Price(item, sel),
		Quantity:        quantity,
		SelectedOptions: menu.BuildSelectedOptions(item, sel),
	}
	c.lines = append(c.lines, line)
	return line, nil
}

func (c *Cart) Remove(lineID string) bool {
	for i, line := range c.lines {
		if line.ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity changes the quantity of a line, never going below one.
func (c *Cart) SetQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return models.NewValidationError("line_id", "no cart line %q", lineID)
}

func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

// Items converts the cart into the items of an order create or update call.
func (c *Cart) Items() []models.OrderItemInput {
	items := make([]models.OrderItemInput, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, models.OrderItemInput{
			MenuItemID:      line.MenuItemID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			Price:           line.Price,
			SelectedOptions: line.SelectedOptions,
		})
	}
	return items
}
