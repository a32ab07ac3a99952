package projection

import (
	"sort"
	"time"

	"soufra_admin/internal/models"
	"soufra_admin/internal/orderflow"
)

// Component describes one dish of a set menu line, with the text that is read
// from the current menu rather than from the order snapshot.
type Component struct {
	GroupName   string  `json:"group_name"`
	ChoiceName  string  `json:"choice_name"`
	ItemID      string  `json:"item_id"`
	Description string  `json:"description,omitempty"`
	Steps       *string `json:"steps,omitempty"`
}

type OrderView struct {
	models.Order
	ElapsedSeconds int64                  `json:"elapsed_seconds"`
	NextStatus     *models.OrderStatus    `json:"next_status,omitempty"`
	Components     map[string][]Component `json:"components,omitempty"`
}

type View struct {
	Active      []OrderView `json:"active"`
	Past        []OrderView `json:"past"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Partition splits orders into the active queue, oldest first, and past orders,
// newest first. Cancelled orders appear in neither.
func Partition(orders []models.Order) (active, past []models.Order) {
	active = []models.Order{}
	past = []models.Order{}
	for _, order := range orders {
		switch {
		case orderflow.IsActive(order.Status):
			active = append(active, order)
		case orderflow.IsPast(order.Status):
			past = append(past, order)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].CreatedAt.After(past[j].CreatedAt)
	})
	return active, past
}

// Elapsed is how long an order took (terminal orders) or has been open so far.
func Elapsed(order models.Order, now time.Time) time.Duration {
	if orderflow.IsTerminal(order.Status) && !order.UpdatedAt.IsZero() {
		return order.UpdatedAt.Sub(order.CreatedAt)
	}
	return now.Sub(order.CreatedAt)
}

// BuildView renders both partitions at now. menuItems is used to describe the
// dishes of set-menu lines; it may be nil.
func BuildView(orders []models.Order, now time.Time, menuItems map[string]models.MenuItem) View {
	active, past := Partition(orders)
	return View{
		Active:      renderAll(active, now, menuItems),
		Past:        renderAll(past, now, menuItems),
		GeneratedAt: now,
	}
}

func renderAll(orders []models.Order, now time.Time, menuItems map[string]models.MenuItem) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, render(order, now, menuItems))
	}
	return views
}

func render(order models.Order, now time.Time, menuItems map[string]models.MenuItem) OrderView {
	view := OrderView{
		Order:          order,
		ElapsedSeconds: int64(Elapsed(order, now) / time.Second),
	}
	if next, ok := orderflow.Next(order); ok {
		view.NextStatus = &next
	}

	for _, item := range order.OrderItems {
		for _, option := range item.SelectedOptions {
			if option.ItemID == nil {
				continue
			}
			component := Component{
				GroupName:  option.GroupName,
				ChoiceName: option.ChoiceName,
				ItemID:     *option.ItemID,
			}
			if linked, ok := menuItems[*option.ItemID]; ok {
				component.Description = linked.Description
				component.Steps = linked.Steps
			}
			if view.Components == nil {
				view.Components = make(map[string][]Component)
			}
			view.Components[item.ID] = append(view.Components[item.ID], component)
		}
	}
	return view
}
