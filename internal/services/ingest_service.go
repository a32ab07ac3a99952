package services

import (
	"context"
	"encoding/json"
	"strings"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
)

// ExternalOrderMessage is the body of a message on the external orders queue.
type ExternalOrderMessage struct {
	RestaurantID   string           `json:"restaurant_id"`
	OrderType      models.OrderType `json:"order_type"`
	TableNumber    *string          `json:"table_number,omitempty"`
	SpecialRequest *string          `json:"special_request,omitempty"`
	Items          []CartLine       `json:"items"`
}

// IngestService turns orders placed outside the admin (kiosk, website) into
// regular orders priced against the current menu.
type IngestService interface {
	HandleExternalOrder(ctx context.Context, body []byte) (*models.Order, error)
}

type ingestService struct {
	carts  CartService
	orders OrderService
	logger *logger.Logger
}

func NewIngestService(carts CartService, orders OrderService, log *logger.Logger) IngestService {
	return &ingestService{carts: carts, orders: orders, logger: log}
}

func (s *ingestService) HandleExternalOrder(ctx context.Context, body []byte) (*models.Order, error) {
	var msg ExternalOrderMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, models.NewValidationError("body", "malformed order message: %v", err)
	}
	msg.RestaurantID = strings.TrimSpace(msg.RestaurantID)
	if msg.RestaurantID == "" {
		return nil, models.NewValidationError("restaurant_id", "is required")
	}
	if len(msg.Items) == 0 {
		return nil, models.NewValidationError("items", "an order needs at least one item")
	}

	items, err := s.carts.PriceLines(ctx, msg.RestaurantID, msg.Items)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, msg.RestaurantID, models.CreateOrderInput{
		OrderType:      msg.OrderType,
		TableNumber:    msg.TableNumber,
		SpecialRequest: msg.SpecialRequest,
		Items:          items,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("external_order_ingested", "External order stored", map[string]interface{}{
		"restaurant_id": order.RestaurantID,
		"order_id":      order.ID,
		"items":         len(items),
	})
	return order, nil
}
