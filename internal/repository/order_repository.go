package repository

import (
	"context"
	"time"

	"soufra_admin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderMutation edits the loaded header in place and returns the items that
// replace the current ones, or nil to keep them.
type OrderMutation func(current *models.Order) (*[]models.OrderItem, error)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, restaurantID, id string) (*models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error)
	Update(ctx context.Context, restaurantID, id string, mutate OrderMutation) (before, after *models.Order, err error)
	Delete(ctx context.Context, restaurantID, id string) (*models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Create writes the header and its items in one transaction. A failure of the
// item write is reported as a PartialWriteError; the header is rolled back with it.
func (r *orderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return wrapErr("create order", err)
		}
		if err := insertItems(tx, order.ID, items); err != nil {
			return &models.PartialWriteError{OrderID: order.ID, Err: err}
		}
		order.OrderItems = items
		return nil
	})
}

func insertItems(tx *gorm.DB, orderID string, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
		items[i].Position = i
	}
	return tx.Create(&items).Error
}

func (r *orderRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.Order, error) {
	var order models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&order).Error
	if err != nil {
		return nil, wrapErr("get order", err)
	}
	return &order, nil
}

func (r *orderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	return orders, nil
}

// Update loads the order, lets mutate change it and writes the header and, when
// returned, the replacement items inside one transaction. Items are replaced
// wholesale: every existing row is deleted before the new set is inserted.
func (r *orderRepository) Update(ctx context.Context, restaurantID, id string, mutate OrderMutation) (*models.Order, *models.Order, error) {
	var before, after models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&before).Error; err != nil {
			return wrapErr("load order", err)
		}

		current := before
		items, err := mutate(&current)
		if err != nil {
			return err
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND restaurant_id = ?", id, restaurantID).
			Updates(map[string]interface{}{
				"order_type":      current.OrderType,
				"status":          current.Status,
				"table_number":    current.TableNumber,
				"total_amount":    current.TotalAmount,
				"special_request": current.SpecialRequest,
				"updated_at":      time.Now().UTC(),
			})
		if result.Error != nil {
			return wrapErr("update order", result.Error)
		}
		if result.RowsAffected == 0 {
			return wrapErr("update order", gorm.ErrRecordNotFound)
		}

		if items != nil {
			if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
				return &models.PartialWriteError{OrderID: id, Err: err}
			}
			if err := insertItems(tx, id, *items); err != nil {
				return &models.PartialWriteError{OrderID: id, Err: err}
			}
		}

		if err := withItems(tx).Where("id = ?", id).First(&after).Error; err != nil {
			return wrapErr("reload order", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &before, &after, nil
}

func (r *orderRepository) Delete(ctx context.Context, restaurantID, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&order).Error; err != nil {
			return wrapErr("load order", err)
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return wrapErr("delete order items", err)
		}
		if err := tx.Delete(&models.Order{}, "id = ?", id).Error; err != nil {
			return wrapErr("delete order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
