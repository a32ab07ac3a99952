package repository

import (
	"context"

	"soufra_admin/internal/models"

	"gorm.io/gorm"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	GetAll(ctx context.Context) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return wrapErr("create restaurant", r.db.WithContext(ctx).Create(restaurant).Error)
}

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, wrapErr("get restaurant", err)
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		return nil, wrapErr("get restaurant by slug", err)
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetAll(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&restaurants).Error; err != nil {
		return nil, wrapErr("list restaurants", err)
	}
	return restaurants, nil
}

func (r *restaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	return wrapErr("update restaurant", r.db.WithContext(ctx).Save(restaurant).Error)
}
