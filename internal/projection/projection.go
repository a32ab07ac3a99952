// Package projection keeps a restaurant's orders in memory for the live view and
// reconciles them with change events and periodic refreshes.
package projection

import (
	"sync"

	"soufra_admin/internal/models"
)

// Projection is the ordered, in-memory collection of displayed orders.
// Cancelled orders are never kept.
type Projection struct {
	mu     sync.RWMutex
	orders []models.Order
}

func New() *Projection {
	return &Projection{}
}

// Replace swaps the whole collection for a fresh snapshot.
func (p *Projection) Replace(orders []models.Order) {
	kept := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status != models.OrderCancelled {
			kept = append(kept, order)
		}
	}

	p.mu.Lock()
	p.orders = kept
	p.mu.Unlock()
}

// InsertIfAbsent appends order unless an order with the same id is tracked.
func (p *Projection) InsertIfAbsent(order models.Order) bool {
	if order.Status == models.OrderCancelled {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.indexOf(order.ID) >= 0 {
		return false
	}
	p.orders = append(p.orders, order)
	return true
}

// Upsert replaces the tracked order with the same id, or appends it. A tracked
// order with a later updated_at wins over the incoming one. A cancelled order
// is removed instead.
func (p *Projection) Upsert(order models.Order) bool {
	if order.Status == models.OrderCancelled {
		return p.Remove(order.ID)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(order.ID)
	if i < 0 {
		p.orders = append(p.orders, order)
		return true
	}
	if p.orders[i].UpdatedAt.After(order.UpdatedAt) {
		return false
	}
	p.orders[i] = order
	return true
}

func (p *Projection) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return false
	}
	p.orders = append(p.orders[:i], p.orders[i+1:]...)
	return true
}

func (p *Projection) Get(id string) (models.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if i := p.indexOf(id); i >= 0 {
		return p.orders[i], true
	}
	return models.Order{}, false
}

// Orders returns a copy of the collection in its current order.
func (p *Projection) Orders() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.Order, len(p.orders))
	copy(out, p.orders)
	return out
}

func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.orders)
}

// indexOf must be called with p.mu held.
func (p *Projection) indexOf(id string) int {
	for i := range p.orders {
		if p.orders[i].ID == id {
			return i
		}
	}
	return -1
}
