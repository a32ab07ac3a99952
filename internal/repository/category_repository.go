package repository

import (
	"context"

	"soufra_admin/internal/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, restaurantID, id string) (*models.Category, error)
	ListWithItems(ctx context.Context, restaurantID string) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return wrapErr("create category", r.db.WithContext(ctx).Omit("MenuItems").Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, restaurantID, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&category).Error
	if err != nil {
		return nil, wrapErr("get category", err)
	}
	return &category, nil
}

func (r *categoryRepository) ListWithItems(ctx context.Context, restaurantID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return wrapErr("update category", r.db.WithContext(ctx).Omit("MenuItems").Save(category).Error)
}
