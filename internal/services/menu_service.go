package services

import (
	"context"
	"errors"
	"strings"

	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"
	"soufra_admin/internal/repository"
)

type MenuService interface {
	CreateCategory(ctx context.Context, restaurantID string, category *models.Category) error
	UpdateCategory(ctx context.Context, restaurantID, categoryID string, changes *models.Category) (*models.Category, error)
	ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error)

	CreateMenuItem(ctx context.Context, restaurantID string, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, restaurantID, itemID string) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	MenuIndex(ctx context.Context, restaurantID string) (map[string]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, restaurantID, itemID string, changes *models.MenuItem) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, restaurantID, itemID string, available bool) error
	DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error
	Quote(ctx context.Context, restaurantID, itemID string, sel menu.Selections) (*Quote, error)
}

// Quote is the priced result of a selection on a menu item.
type Quote struct {
	MenuItemID      string                  `json:"menu_item_id"`
	BasePrice       float64                 `json:"base_price"`
	Price           float64                 `json:"price"`
	SelectedOptions []models.SelectedOption `json:"selected_options"`
}

type menuService struct {
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
}

func NewMenuService(categoryRepo repository.CategoryRepository, menuItemRepo repository.MenuItemRepository) MenuService {
	return &menuService{categoryRepo: categoryRepo, menuItemRepo: menuItemRepo}
}

func (s *menuService) CreateCategory(ctx context.Context, restaurantID string, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return models.NewValidationError("name", "is required")
	}
	category.ID = ""
	category.RestaurantID = restaurantID
	category.MenuItems = nil
	return s.categoryRepo.Create(ctx, category)
}

func (s *menuService) UpdateCategory(ctx context.Context, restaurantID, categoryID string, changes *models.Category) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, restaurantID, categoryID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(changes.Name); name != "" {
		category.Name = name
	}
	category.SortOrder = changes.SortOrder
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *menuService) ListCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return s.categoryRepo.ListWithItems(ctx, restaurantID)
}

func (s *menuService) CreateMenuItem(ctx context.Context, restaurantID string, item *models.MenuItem) error {
	item.ID = ""
	item.RestaurantID = restaurantID
	if err := s.prepare(ctx, item); err != nil {
		return err
	}
	return s.menuItemRepo.Create(ctx, item)
}

func (s *menuService) GetMenuItem(ctx context.Context, restaurantID, itemID string) (*models.MenuItem, error) {
	return s.menuItemRepo.GetByID(ctx, restaurantID, itemID)
}

func (s *menuService) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return s.menuItemRepo.ListByRestaurant(ctx, restaurantID)
}

func (s *menuService) MenuIndex(ctx context.Context, restaurantID string) (map[string]models.MenuItem, error) {
	items, err := s.menuItemRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.MenuItem, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, restaurantID, itemID string, changes *models.MenuItem) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}

	item.CategoryID = changes.CategoryID
	item.Name = changes.Name
	item.Description = changes.Description
	item.Steps = changes.Steps
	item.Price = changes.Price
	item.ImageURL = changes.ImageURL
	item.IsAvailable = changes.IsAvailable
	item.ItemType = changes.ItemType
	item.Options = changes.Options

	if err := s.prepare(ctx, item); err != nil {
		return nil, err
	}
	if err := s.menuItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *menuService) SetAvailability(ctx context.Context, restaurantID, itemID string, available bool) error {
	return s.menuItemRepo.SetAvailability(ctx, restaurantID, itemID, available)
}

func (s *menuService) DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error {
	return s.menuItemRepo.Delete(ctx, restaurantID, itemID)
}

func (s *menuService) Quote(ctx context.Context, restaurantID, itemID string, sel menu.Selections) (*Quote, error) {
	item, err := s.menuItemRepo.GetByID(ctx, restaurantID, itemID)
	if err != nil {
		return nil, err
	}
	if err := menu.Validate(*item, sel); err != nil {
		return nil, err
	}
	return &Quote{
		MenuItemID:      item.ID,
		BasePrice:       item.Price,
		Price:           menu.Price(*item, sel),
		SelectedOptions: menu.BuildSelectedOptions(*item, sel),
	}, nil
}

// prepare validates item and normalizes its option groups before a write.
func (s *menuService) prepare(ctx context.Context, item *models.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return models.NewValidationError("name", "is required")
	}
	if item.Price < 0 {
		return models.NewValidationError("price", "must be >= 0")
	}
	if item.ItemType == "" {
		item.ItemType = models.SingleItem
	}
	item.Options = menu.NormalizeOptionGroups(item.Options)
	if err := menu.ValidateOptionGroups(item.ItemType, item.Options); err != nil {
		return err
	}
	if _, err := s.categoryRepo.GetByID(ctx, item.RestaurantID, item.CategoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewValidationError("category_id", "unknown category %q", item.CategoryID)
		}
		return err
	}
	return s.checkLinkedItems(ctx, item)
}

// checkLinkedItems ensures every choice that points at a menu item points at an
// existing item of the same restaurant other than the item itself.
func (s *menuService) checkLinkedItems(ctx context.Context, item *models.MenuItem) error {
	ids := menu.LinkedItemIDs(item.Options)
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id == item.ID && item.ID != "" {
			return models.NewValidationError("options", "an item cannot contain itself")
		}
	}

	found, err := s.menuItemRepo.GetByIDs(ctx, item.RestaurantID, ids)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(found))
	for _, linked := range found {
		known[linked.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return models.NewValidationError("options", "linked menu item %q does not exist", id)
		}
	}
	return nil
}
