package services

import (
	"context"
	"testing"

	"soufra_admin/internal/changefeed"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
	"soufra_admin/internal/repository"
	"soufra_admin/internal/testutil"
)

type fixture struct {
	feed        *changefeed.Memory
	restaurants RestaurantService
	menu        MenuService
	orders      OrderService
	carts       CartService
	restaurant  *models.Restaurant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := logger.Discard()

	restaurantRepo := repository.NewRestaurantRepository(db)
	feed := changefeed.NewMemory()
	f := &fixture{
		feed:        feed,
		restaurants: NewRestaurantService(restaurantRepo),
		menu:        NewMenuService(repository.NewCategoryRepository(db), repository.NewMenuItemRepository(db)),
		orders:      NewOrderService(repository.NewOrderRepository(db), restaurantRepo, feed, log),
	}
	f.carts = NewCartService(f.menu)

	f.restaurant = &models.Restaurant{Name: "Beit Sitti"}
	if err := f.restaurants.CreateRestaurant(context.Background(), f.restaurant); err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return f
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := f.menu.CreateCategory(context.Background(), f.restaurant.ID, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

func (f *fixture) item(t *testing.T, item *models.MenuItem) *models.MenuItem {
	t.Helper()
	if err := f.menu.CreateMenuItem(context.Background(), f.restaurant.ID, item); err != nil {
		t.Fatalf("seed menu item %q: %v", item.Name, err)
	}
	return item
}

func strPtr(s string) *string { return &s }

func mansafAndTea() []models.OrderItemInput {
	return []models.OrderItemInput{
		{Name: "Mansaf", Quantity: 2, Price: 1000},
		{Name: "Tea", Quantity: 1, Price: 500, SelectedOptions: []models.SelectedOption{
			{GroupName: "Sweetness", Name: "No sugar", ChoiceName: "No sugar"},
		}},
	}
}
