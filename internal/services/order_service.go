package services

import (
	"context"
	"fmt"
	"strings"

	"soufra_admin/internal/changefeed"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
	"soufra_admin/internal/orderflow"
	"soufra_admin/internal/repository"
)

type OrderService interface {
	CreateOrder(ctx context.Context, restaurantID string, input models.CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, restaurantID, orderID string, patch models.OrderPatch) (*models.Order, error)
	DeleteOrder(ctx context.Context, restaurantID, orderID string) error
	AdvanceOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
	CancelOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
	NextStatus(order models.Order) (models.OrderStatus, bool)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	restaurantRepo repository.RestaurantRepository
	publisher      changefeed.Publisher
	logger         *logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	restaurantRepo repository.RestaurantRepository,
	publisher changefeed.Publisher,
	log *logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		publisher:      publisher,
		logger:         log,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, restaurantID string, input models.CreateOrderInput) (*models.Order, error) {
	if !input.OrderType.IsValid() {
		return nil, models.NewValidationError("order_type", "unknown order type %q", input.OrderType)
	}
	if len(input.Items) == 0 {
		return nil, models.NewValidationError("items", "an order needs at least one item")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	if _, err := s.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID, err)
	}

	orderType := input.OrderType.Normalize()
	order := &models.Order{
		RestaurantID:   restaurantID,
		OrderType:      orderType,
		Status:         models.OrderPending,
		TableNumber:    tableFor(orderType, input.TableNumber),
		TotalAmount:    models.TotalOf(input.Items),
		SpecialRequest: trimmed(input.SpecialRequest),
	}

	if err := s.orderRepo.Create(ctx, order, toOrderItems(input.Items)); err != nil {
		s.logger.Error("order_create_failed", "Failed to create order", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	s.logger.Info("order_created", "Order created", map[string]interface{}{
		"restaurant_id": restaurantID,
		"order_id":      order.ID,
		"order_type":    order.OrderType,
		"total_amount":  order.TotalAmount,
	})
	s.publish(ctx, changefeed.OrderEvent(changefeed.Insert, order, nil))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, restaurantID, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return s.orderRepo.ListByRestaurant(ctx, restaurantID)
}

func (s *orderService) UpdateOrder(ctx context.Context, restaurantID, orderID string, patch models.OrderPatch) (*models.Order, error) {
	if patch.Items != nil {
		if err := validateItems(*patch.Items); err != nil {
			return nil, err
		}
	}

	before, after, err := s.orderRepo.Update(ctx, restaurantID, orderID, func(current *models.Order) (*[]models.OrderItem, error) {
		return applyPatch(current, patch)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order_updated", "Order updated", map[string]interface{}{
		"restaurant_id": restaurantID,
		"order_id":      orderID,
		"from_status":   before.Status,
		"to_status":     after.Status,
		"items_changed": patch.Items != nil,
	})
	s.publish(ctx, changefeed.OrderEvent(changefeed.Update, after, before))
	return after, nil
}

// applyPatch edits current in place and returns the replacement items, if any.
func applyPatch(current *models.Order, patch models.OrderPatch) (*[]models.OrderItem, error) {
	from := current.Status
	fromType := current.OrderType

	if patch.OrderType != nil {
		if !patch.OrderType.IsValid() {
			return nil, models.NewValidationError("order_type", "unknown order type %q", *patch.OrderType)
		}
		current.OrderType = patch.OrderType.Normalize()
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if err := orderflow.ValidateStatusChange(current.OrderType, from, current.Status); err != nil {
		return nil, err
	}
	// A new type must still know the status the order ends up in.
	if current.OrderType != fromType.Normalize() && !orderflow.IsAllowed(current.OrderType, current.Status) {
		return nil, models.NewValidationError("order_type", "status %q is not valid for %s orders", current.Status, current.OrderType)
	}

	if patch.TableNumber != nil {
		current.TableNumber = patch.TableNumber
	}
	current.TableNumber = tableFor(current.OrderType, current.TableNumber)

	if patch.SpecialRequest != nil {
		current.SpecialRequest = trimmed(patch.SpecialRequest)
	}

	if patch.Items == nil {
		if patch.TotalAmount != nil {
			if *patch.TotalAmount < 0 {
				return nil, models.NewValidationError("total_amount", "must be >= 0")
			}
			current.TotalAmount = *patch.TotalAmount
		}
		return nil, nil
	}

	if len(*patch.Items) == 0 && current.Status != models.OrderCancelled {
		return nil, models.NewValidationError("items", "an order needs at least one item unless it is cancelled")
	}
	items := toOrderItems(*patch.Items)
	current.TotalAmount = models.TotalOf(*patch.Items)
	return &items, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, restaurantID, orderID string) error {
	deleted, err := s.orderRepo.Delete(ctx, restaurantID, orderID)
	if err != nil {
		return err
	}

	s.logger.Info("order_deleted", "Order deleted", map[string]interface{}{
		"restaurant_id": restaurantID,
		"order_id":      orderID,
	})
	s.publish(ctx, changefeed.OrderEvent(changefeed.Delete, nil, deleted))
	return nil
}

func (s *orderService) AdvanceOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	next, ok := orderflow.Next(*order)
	if !ok {
		return nil, models.NewValidationError("status", "order in status %q has no next step", order.Status)
	}
	return s.UpdateOrder(ctx, restaurantID, orderID, models.OrderPatch{Status: &next})
}

func (s *orderService) CancelOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error) {
	cancelled := models.OrderCancelled
	return s.UpdateOrder(ctx, restaurantID, orderID, models.OrderPatch{Status: &cancelled})
}

func (s *orderService) NextStatus(order models.Order) (models.OrderStatus, bool) {
	return orderflow.Next(order)
}

func (s *orderService) publish(ctx context.Context, event changefeed.Event) {
	// Don't fail the write if the notification fails; live views refresh periodically.
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("order_event_publish_failed", "Failed to publish order change", err, map[string]interface{}{
			"restaurant_id": event.RestaurantID,
			"order_id":      event.OrderID(),
			"event":         event.Type,
		})
	}
}

func validateItems(items []models.OrderItemInput) error {
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			return models.NewValidationError(field, "name is required")
		}
		if item.Quantity < 1 {
			return models.NewValidationError(field, "quantity must be at least 1")
		}
		if item.Price < 0 {
			return models.NewValidationError(field, "price must be >= 0")
		}
	}
	return nil
}

func toOrderItems(items []models.OrderItemInput) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		options := item.SelectedOptions
		if options == nil {
			options = []models.SelectedOption{}
		}
		out = append(out, models.OrderItem{
			MenuItemID:      item.MenuItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			PriceAtTime:     item.Price,
			SelectedOptions: options,
		})
	}
	return out
}

// tableFor keeps a table number only for dine-in orders.
func tableFor(orderType models.OrderType, table *string) *string {
	if orderType != models.DineIn {
		return nil
	}
	return trimmed(table)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
