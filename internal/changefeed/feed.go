// Package changefeed carries insert, update and delete notifications for a
// restaurant's orders from the writers to live views.
package changefeed

import (
	"context"

	"soufra_admin/internal/models"
)

type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
)

// Event describes one change to an order header. New is set for inserts and
// updates, Old for updates and deletes.
type Event struct {
	Type         EventType     `json:"type"`
	Table        string        `json:"table"`
	RestaurantID string        `json:"restaurant_id"`
	New          *models.Order `json:"new,omitempty"`
	Old          *models.Order `json:"old,omitempty"`
}

// OrderID returns the id of the order the event is about.
func (e Event) OrderID() string {
	if e.New != nil {
		return e.New.ID
	}
	if e.Old != nil {
		return e.Old.ID
	}
	return ""
}

func OrderEvent(eventType EventType, newRow, oldRow *models.Order) Event {
	ev := Event{Type: eventType, Table: "orders", New: headerOnly(newRow), Old: headerOnly(oldRow)}
	switch {
	case newRow != nil:
		ev.RestaurantID = newRow.RestaurantID
	case oldRow != nil:
		ev.RestaurantID = oldRow.RestaurantID
	}
	return ev
}

func headerOnly(order *models.Order) *models.Order {
	if order == nil {
		return nil
	}
	header := *order
	header.OrderItems = nil
	return &header
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscription delivers the events of one restaurant until Close is called.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, restaurantID string) (Subscription, error)
}

// Feed is a transport that both publishes and subscribes.
type Feed interface {
	Publisher
	Subscriber
}

// Channel names the pub/sub channel of a restaurant's orders.
func Channel(restaurantID string) string {
	return "orders:" + restaurantID
}
