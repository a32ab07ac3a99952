package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID              string                             `json:"id" gorm:"primaryKey;size:36"`
	OrderID         string                             `json:"order_id" gorm:"size:36;not null;index"`
	MenuItemID      *string                            `json:"menu_item_id,omitempty" gorm:"size:36"`
	Name            string                             `json:"name" gorm:"not null"`
	Quantity        int                                `json:"quantity" gorm:"not null"`
	PriceAtTime     float64                            `json:"price_at_time" gorm:"not null"`
	SelectedOptions datatypes.JSONSlice[SelectedOption] `json:"selected_options"`
	Position        int                                `json:"position" gorm:"not null;default:0"`
	CreatedAt       time.Time                          `json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i OrderItem) LineTotal() float64 {
	return i.PriceAtTime * float64(i.Quantity)
}

// SelectedOption is the snapshot of one chosen option, kept on the order item so it
// survives later menu edits. ItemID is set when the choice is itself a menu item.
type SelectedOption struct {
	GroupName  string  `json:"group_name"`
	Name       string  `json:"name"`
	ChoiceName string  `json:"choice_name"`
	Price      float64 `json:"price"`
	ItemID     *string `json:"item_id,omitempty"`
}

// OrderItemInput is one priced line submitted for an order.
type OrderItemInput struct {
	MenuItemID      *string          `json:"menu_item_id,omitempty"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Price           float64          `json:"price"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
}

// TotalOf returns the sum of price * quantity over items.
func TotalOf(items []OrderItemInput) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
