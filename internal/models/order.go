package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;size:36"`
	RestaurantID   string      `json:"restaurant_id" gorm:"size:36;not null;index"`
	OrderType      OrderType   `json:"order_type" gorm:"not null"`
	Status         OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TableNumber    *string     `json:"table_number,omitempty"`
	TotalAmount    float64     `json:"total_amount" gorm:"not null"`
	SpecialRequest *string     `json:"special_request,omitempty" gorm:"type:text"`
	CreatedAt      time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time   `json:"updated_at"`
	OrderItems     []OrderItem `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderType string

const (
	DineIn   OrderType = "dine_in"
	TakeAway OrderType = "take_away"
	Delivery OrderType = "delivery"

	// TakeOut is a legacy spelling of TakeAway still present in old rows.
	TakeOut OrderType = "take_out"
)

// Normalize maps legacy aliases onto their current type.
func (t OrderType) Normalize() OrderType {
	if t == TakeOut {
		return TakeAway
	}
	return t
}

func (t OrderType) IsValid() bool {
	switch t.Normalize() {
	case DineIn, TakeAway, Delivery:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderServed         OrderStatus = "served"
	OrderCompleted      OrderStatus = "completed"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// CalculateTotal sums price_at_time * quantity over the order's items.
func (o *Order) CalculateTotal() float64 {
	var total float64
	for _, item := range o.OrderItems {
		total += item.LineTotal()
	}
	return total
}

// CreateOrderInput is the payload accepted by order creation.
type CreateOrderInput struct {
	OrderType      OrderType        `json:"order_type"`
	TableNumber    *string          `json:"table_number,omitempty"`
	SpecialRequest *string          `json:"special_request,omitempty"`
	Items          []OrderItemInput `json:"items"`
}

// OrderPatch carries the fields an update may change. Nil fields are left untouched;
// a non-nil Items replaces every line item of the order.
type OrderPatch struct {
	Status         *OrderStatus      `json:"status,omitempty"`
	OrderType      *OrderType        `json:"order_type,omitempty"`
	TableNumber    *string           `json:"table_number,omitempty"`
	TotalAmount    *float64          `json:"total_amount,omitempty"`
	SpecialRequest *string           `json:"special_request,omitempty"`
	Items          *[]OrderItemInput `json:"items,omitempty"`
}
