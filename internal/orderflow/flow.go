// Package orderflow defines the status sequence each order type moves through.
package orderflow

import (
	"soufra_admin/internal/models"
)

var flows = map[models.OrderType][]models.OrderStatus{
	models.DineIn: {
		models.OrderPending,
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderServed,
	},
	models.TakeAway: {
		models.OrderPending,
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderCompleted,
	},
	models.Delivery: {
		models.OrderPending,
		models.OrderConfirmed,
		models.OrderPreparing,
		models.OrderReady,
		models.OrderOutForDelivery,
		models.OrderDelivered,
	},
}

// Flow returns the ordered statuses for orderType. Legacy aliases are resolved and
// unknown types fall back to the dine-in flow.
func Flow(orderType models.OrderType) []models.OrderStatus {
	flow, ok := flows[orderType.Normalize()]
	if !ok {
		flow = flows[models.DineIn]
	}
	out := make([]models.OrderStatus, len(flow))
	copy(out, flow)
	return out
}

// Advance returns the status that follows status in the flow of orderType.
// It reports false when status is not part of the flow or is its last step.
func Advance(orderType models.OrderType, status models.OrderStatus) (models.OrderStatus, bool) {
	flow := Flow(orderType)
	for i, s := range flow {
		if s != status {
			continue
		}
		if i == len(flow)-1 {
			return "", false
		}
		return flow[i+1], true
	}
	return "", false
}

// Next is Advance applied to an order.
func Next(order models.Order) (models.OrderStatus, bool) {
	return Advance(order.OrderType, order.Status)
}

func IsTerminal(status models.OrderStatus) bool {
	switch status {
	case models.OrderServed, models.OrderCompleted, models.OrderDelivered, models.OrderCancelled:
		return true
	}
	return false
}

func IsActive(status models.OrderStatus) bool {
	switch status {
	case models.OrderPending, models.OrderConfirmed, models.OrderPreparing, models.OrderReady, models.OrderOutForDelivery:
		return true
	}
	return false
}

func IsPast(status models.OrderStatus) bool {
	switch status {
	case models.OrderDelivered, models.OrderServed, models.OrderCompleted:
		return true
	}
	return false
}

// AllowedStatuses lists every status an order of orderType may be set to.
func AllowedStatuses(orderType models.OrderType) []models.OrderStatus {
	return append(Flow(orderType), models.OrderCancelled)
}

func IsAllowed(orderType models.OrderType, status models.OrderStatus) bool {
	for _, s := range AllowedStatuses(orderType) {
		if s == status {
			return true
		}
	}
	return false
}

// ValidateStatusChange rejects a status write that the order type does not know
// or that tries to revive a cancelled order.
func ValidateStatusChange(orderType models.OrderType, from, to models.OrderStatus) error {
	if from == to {
		return nil
	}
	if from == models.OrderCancelled {
		return models.NewValidationError("status", "order is cancelled and cannot move to %q", to)
	}
	if !IsAllowed(orderType, to) {
		return models.NewValidationError("status", "status %q is not valid for %s orders", to, orderType.Normalize())
	}
	return nil
}
