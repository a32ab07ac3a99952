package repository

import (
	"context"

	"soufra_admin/internal/models"

	"gorm.io/gorm"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, restaurantID, id string) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, restaurantID string, ids []string) ([]models.MenuItem, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	SetAvailability(ctx context.Context, restaurantID, id string, available bool) error
	Delete(ctx context.Context, restaurantID, id string) error
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return wrapErr("create menu item", r.db.WithContext(ctx).Create(item).Error)
}

func (r *menuItemRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&item).Error
	if err != nil {
		return nil, wrapErr("get menu item", err)
	}
	return &item, nil
}

func (r *menuItemRepository) GetByIDs(ctx context.Context, restaurantID string, ids []string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("restaurant_id = ? AND id IN ?", restaurantID, ids).Find(&items).Error
	if err != nil {
		return nil, wrapErr("get menu items", err)
	}
	return items, nil
}

func (r *menuItemRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, wrapErr("list menu items", err)
	}
	return items, nil
}

func (r *menuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	return wrapErr("update menu item", r.db.WithContext(ctx).Save(item).Error)
}

func (r *menuItemRepository) SetAvailability(ctx context.Context, restaurantID, id string, available bool) error {
	result := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("is_available", available)
	if result.Error != nil {
		return wrapErr("set menu item availability", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapErr("set menu item availability", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *menuItemRepository) Delete(ctx context.Context, restaurantID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, restaurantID).Delete(&models.MenuItem{})
	if result.Error != nil {
		return wrapErr("delete menu item", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapErr("delete menu item", gorm.ErrRecordNotFound)
	}
	return nil
}
