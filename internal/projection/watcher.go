package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soufra_admin/internal/changefeed"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
)

const (
	DefaultRefreshInterval = 15 * time.Second
	defaultFetchTimeout    = 10 * time.Second
)

// ErrFeedClosed is returned by Run when the change feed ends underneath it.
var ErrFeedClosed = errors.New("change feed closed")

// Fetcher loads orders with their items.
type Fetcher interface {
	GetOrder(ctx context.Context, restaurantID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error)
}

// Watcher keeps a Projection of one restaurant's orders current for as long as
// Run is executing.
type Watcher struct {
	restaurantID    string
	fetcher         Fetcher
	feed            changefeed.Subscriber
	refreshInterval time.Duration
	fetchTimeout    time.Duration
	logger          *logger.Logger
	projection      *Projection
	updates         chan struct{}
}

func NewWatcher(restaurantID string, fetcher Fetcher, feed changefeed.Subscriber, refreshInterval time.Duration, log *logger.Logger) *Watcher {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	return &Watcher{
		restaurantID:    restaurantID,
		fetcher:         fetcher,
		feed:            feed,
		refreshInterval: refreshInterval,
		fetchTimeout:    defaultFetchTimeout,
		logger:          log,
		projection:      New(),
		updates:         make(chan struct{}, 1),
	}
}

func (w *Watcher) Projection() *Projection { return w.projection }

// Updates signals after the projection changed. Signals coalesce: a reader
// that falls behind sees one pending signal, not one per change.
func (w *Watcher) Updates() <-chan struct{} { return w.updates }

// Run subscribes to the feed, loads the initial snapshot and then applies events
// and periodic refreshes until ctx is done. The subscription is always closed
// before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	sub, err := w.feed.Subscribe(ctx, w.restaurantID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to order changes: %w", err)
	}
	defer sub.Close()

	if err := w.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return ErrFeedClosed
			}
			if w.Apply(ctx, ev) {
				w.notify()
			}
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("live_refresh_failed", "Periodic order refresh failed", err, map[string]interface{}{
					"restaurant_id": w.restaurantID,
				})
			}
		}
	}
}

// Refresh replaces the projection with a full snapshot from the store.
func (w *Watcher) Refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	orders, err := w.fetcher.ListOrders(fetchCtx, w.restaurantID)
	if err != nil {
		return err
	}
	w.projection.Replace(orders)
	w.notify()
	return nil
}

// Apply reconciles one change event into the projection and reports whether
// the projection changed.
func (w *Watcher) Apply(ctx context.Context, ev changefeed.Event) bool {
	if ev.RestaurantID != "" && ev.RestaurantID != w.restaurantID {
		return false
	}
	id := ev.OrderID()
	if id == "" {
		return false
	}

	switch ev.Type {
	case changefeed.Insert:
		order, ok := w.fetch(ctx, id)
		if !ok {
			return false
		}
		return w.projection.InsertIfAbsent(*order)

	case changefeed.Update:
		if ev.New != nil && ev.New.Status == models.OrderCancelled {
			return w.projection.Remove(id)
		}
		order, ok := w.fetch(ctx, id)
		if !ok {
			return false
		}
		return w.projection.Upsert(*order)

	case changefeed.Delete:
		return w.projection.Remove(id)
	}
	return false
}

// fetch loads an order. An order that no longer exists is dropped from the
// projection and reported as not found.
func (w *Watcher) fetch(ctx context.Context, id string) (*models.Order, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()

	order, err := w.fetcher.GetOrder(fetchCtx, w.restaurantID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if w.projection.Remove(id) {
				w.notify()
			}
			return nil, false
		}
		w.logger.Error("live_fetch_failed", "Failed to fetch changed order", err, map[string]interface{}{
			"restaurant_id": w.restaurantID,
			"order_id":      id,
		})
		return nil, false
	}
	return order, true
}

func (w *Watcher) notify() {
	select {
	case w.updates <- struct{}{}:
	default:
	}
}
