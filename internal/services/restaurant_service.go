package services

import (
	"context"
	"errors"
	"strings"

	"soufra_admin/internal/models"
	"soufra_admin/internal/repository"
)

type RestaurantService interface {
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	GetRestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id string, changes *models.Restaurant) (*models.Restaurant, error)
}

type restaurantService struct {
	restaurantRepo repository.RestaurantRepository
}

func NewRestaurantService(restaurantRepo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{restaurantRepo: restaurantRepo}
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.Name = strings.TrimSpace(restaurant.Name)
	if restaurant.Name == "" {
		return models.NewValidationError("name", "is required")
	}
	if restaurant.Slug == "" {
		restaurant.Slug = models.Slugify(restaurant.Name)
	}
	if err := s.ensureSlugFree(ctx, restaurant.Slug, ""); err != nil {
		return err
	}
	return s.restaurantRepo.Create(ctx, restaurant)
}

func (s *restaurantService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.restaurantRepo.GetByID(ctx, id)
}

func (s *restaurantService) GetRestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	return s.restaurantRepo.GetBySlug(ctx, slug)
}

func (s *restaurantService) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.restaurantRepo.GetAll(ctx)
}

func (s *restaurantService) UpdateRestaurant(ctx context.Context, id string, changes *models.Restaurant) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(changes.Name); name != "" {
		restaurant.Name = name
	}
	if changes.Slug != "" && changes.Slug != restaurant.Slug {
		slug := models.Slugify(changes.Slug)
		if err := s.ensureSlugFree(ctx, slug, restaurant.ID); err != nil {
			return nil, err
		}
		restaurant.Slug = slug
	}
	restaurant.Description = changes.Description
	restaurant.Address = changes.Address
	restaurant.Phone = changes.Phone

	if err := s.restaurantRepo.Update(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) ensureSlugFree(ctx context.Context, slug, ownerID string) error {
	if strings.Trim(slug, "-") == "" {
		return models.NewValidationError("slug", "name must contain letters or digits")
	}
	existing, err := s.restaurantRepo.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return models.NewValidationError("slug", "%q is already taken", slug)
	}
	return nil
}
