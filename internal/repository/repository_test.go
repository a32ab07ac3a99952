package repository

import (
	"context"
	"errors"
	"testing"

	"soufra_admin/internal/models"
	"soufra_admin/internal/testutil"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func seedRestaurant(t *testing.T, db *gorm.DB, name string) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{Name: name, Slug: models.Slugify(name)}
	if err := NewRestaurantRepository(db).Create(context.Background(), restaurant); err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return restaurant
}

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	repo := NewOrderRepository(db)

	order := &models.Order{
		RestaurantID: restaurant.ID,
		OrderType:    models.DineIn,
		Status:       models.OrderPending,
		TableNumber:  strPtr("4"),
		TotalAmount:  2500,
	}
	items := []models.OrderItem{
		{Name: "Mansaf", Quantity: 2, PriceAtTime: 1000},
		{Name: "Tea", Quantity: 1, PriceAtTime: 500, SelectedOptions: []models.SelectedOption{
			{GroupName: "Sweetness", Name: "No sugar", ChoiceName: "No sugar"},
		}},
	}
	if err := repo.Create(ctx, order, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID == "" {
		t.Fatal("expected order id to be generated")
	}

	got, err := repo.GetByID(ctx, restaurant.ID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.OrderItems) != 2 || got.OrderItems[0].Name != "Mansaf" || got.OrderItems[1].Name != "Tea" {
		t.Fatalf("expected items in submitted order, got %+v", got.OrderItems)
	}
	if len(got.OrderItems[1].SelectedOptions) != 1 || got.OrderItems[1].SelectedOptions[0].Name != "No sugar" {
		t.Fatalf("expected selected options to round trip, got %+v", got.OrderItems[1].SelectedOptions)
	}

	if _, err := repo.GetByID(ctx, "another-restaurant", order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for foreign restaurant, got %v", err)
	}
}

func TestOrderRepositoryListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	other := seedRestaurant(t, db, "Other Place")
	repo := NewOrderRepository(db)

	for _, restaurantID := range []string{restaurant.ID, restaurant.ID, other.ID} {
		order := &models.Order{RestaurantID: restaurantID, OrderType: models.TakeAway, Status: models.OrderPending}
		if err := repo.Create(ctx, order, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	orders, err := repo.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for restaurant, got %d", len(orders))
	}
	if orders[0].CreatedAt.Before(orders[1].CreatedAt) {
		t.Fatal("expected newest order first")
	}
}

func TestOrderRepositoryUpdateReplacesItems(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	repo := NewOrderRepository(db)

	order := &models.Order{RestaurantID: restaurant.ID, OrderType: models.DineIn, Status: models.OrderPending}
	if err := repo.Create(ctx, order, []models.OrderItem{{Name: "Old", Quantity: 1, PriceAtTime: 100}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, after, err := repo.Update(ctx, restaurant.ID, order.ID, func(current *models.Order) (*[]models.OrderItem, error) {
		current.Status = models.OrderConfirmed
		items := []models.OrderItem{{Name: "New A", Quantity: 1, PriceAtTime: 10}, {Name: "New B", Quantity: 3, PriceAtTime: 20}}
		return &items, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before.Status != models.OrderPending || after.Status != models.OrderConfirmed {
		t.Fatalf("expected pending -> confirmed, got %q -> %q", before.Status, after.Status)
	}
	if len(after.OrderItems) != 2 || after.OrderItems[0].Name != "New A" || after.OrderItems[1].Name != "New B" {
		t.Fatalf("expected replaced items, got %+v", after.OrderItems)
	}

	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 stored items, got %d", count)
	}
}

func TestOrderRepositoryUpdateKeepsItemsWhenNil(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	repo := NewOrderRepository(db)

	order := &models.Order{RestaurantID: restaurant.ID, OrderType: models.DineIn, Status: models.OrderPending}
	repo.Create(ctx, order, []models.OrderItem{{Name: "Keep", Quantity: 1, PriceAtTime: 100}})

	_, after, err := repo.Update(ctx, restaurant.ID, order.ID, func(current *models.Order) (*[]models.OrderItem, error) {
		current.Status = models.OrderPreparing
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(after.OrderItems) != 1 || after.OrderItems[0].Name != "Keep" {
		t.Fatalf("expected items untouched, got %+v", after.OrderItems)
	}
}

func TestOrderRepositoryUpdateAbortsOnMutationError(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	repo := NewOrderRepository(db)

	order := &models.Order{RestaurantID: restaurant.ID, OrderType: models.DineIn, Status: models.OrderPending}
	repo.Create(ctx, order, nil)

	rejected := models.NewValidationError("status", "nope")
	_, _, err := repo.Update(ctx, restaurant.ID, order.ID, func(current *models.Order) (*[]models.OrderItem, error) {
		current.Status = models.OrderServed
		return nil, rejected
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	got, _ := repo.GetByID(ctx, restaurant.ID, order.ID)
	if got.Status != models.OrderPending {
		t.Fatalf("expected status to stay pending, got %q", got.Status)
	}

	if _, _, err := repo.Update(ctx, restaurant.ID, "missing", func(*models.Order) (*[]models.OrderItem, error) {
		return nil, nil
	}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderRepositoryDelete(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")
	repo := NewOrderRepository(db)

	order := &models.Order{RestaurantID: restaurant.ID, OrderType: models.Delivery, Status: models.OrderPending}
	repo.Create(ctx, order, []models.OrderItem{{Name: "Falafel", Quantity: 1, PriceAtTime: 300}})

	deleted, err := repo.Delete(ctx, restaurant.ID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted.ID != order.ID {
		t.Fatalf("expected deleted header to be returned, got %q", deleted.ID)
	}
	if _, err := repo.GetByID(ctx, restaurant.ID, order.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected items to be deleted, got %d", count)
	}
}

func TestMenuItemRepositoryAvailabilityAndScope(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Beit Sitti")

	category := &models.Category{RestaurantID: restaurant.ID, Name: "Mains"}
	if err := NewCategoryRepository(db).Create(ctx, category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	repo := NewMenuItemRepository(db)
	item := &models.MenuItem{
		RestaurantID: restaurant.ID,
		CategoryID:   category.ID,
		Name:         "Maqluba",
		Price:        1200,
		IsAvailable:  true,
		ItemType:     models.SetMenu,
		Options: []models.OptionGroup{{
			ID: "g1", Name: "Side", MinSelection: 1, MaxSelection: 1,
			Choices: []models.OptionChoice{{ID: "c1", Name: "Salad", IsAvailable: true}},
		}},
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.SetAvailability(ctx, restaurant.ID, item.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := repo.GetByID(ctx, restaurant.ID, item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsAvailable {
		t.Fatal("expected item to be unavailable")
	}
	if len(got.Options) != 1 || got.Options[0].Choices[0].Name != "Salad" {
		t.Fatalf("expected options to round trip, got %+v", got.Options)
	}

	if err := repo.SetAvailability(ctx, "other", item.ID, true); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for foreign restaurant, got %v", err)
	}

	found, err := repo.GetByIDs(ctx, restaurant.ID, []string{item.ID, "missing"})
	if err != nil || len(found) != 1 {
		t.Fatalf("expected one item, got %d (%v)", len(found), err)
	}

	categories, err := NewCategoryRepository(db).ListWithItems(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || len(categories[0].MenuItems) != 1 {
		t.Fatalf("expected category with its item, got %+v", categories)
	}

	if err := repo.Delete(ctx, restaurant.ID, item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, restaurant.ID, item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestRestaurantRepositoryBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	restaurant := seedRestaurant(t, db, "Abu Shukri's Hummus")

	got, err := NewRestaurantRepository(db).GetBySlug(ctx, "abu-shukri-s-hummus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != restaurant.ID {
		t.Fatalf("expected %q, got %q", restaurant.ID, got.ID)
	}

	if _, err := NewRestaurantRepository(db).GetBySlug(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
