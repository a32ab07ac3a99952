package services

import (
	"context"
	"errors"
	"testing"

	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"
)

func lunchSet(categoryID, mainID string) *models.MenuItem {
	return &models.MenuItem{
		CategoryID:  categoryID,
		Name:        "Lunch Set",
		Price:       1500,
		IsAvailable: true,
		ItemType:    models.SetMenu,
		Options: []models.OptionGroup{
			{ID: "starter", Name: "Starter", MinSelection: 1, MaxSelection: 1, Choices: []models.OptionChoice{
				{ID: "hummus", Name: "Hummus", IsAvailable: true},
				{ID: "fattoush", Name: "Fattoush", ExtraPrice: 150, IsAvailable: true},
			}},
			{ID: "main", Name: "Main", MinSelection: 1, Choices: []models.OptionChoice{
				{ID: "mansaf", Name: "Mansaf", ItemID: &mainID, ExtraPrice: 300, IsAvailable: true},
			}},
			{ID: "sides", Name: "Sides", MaxSelection: 2, Choices: []models.OptionChoice{
				{ID: "rice", Name: "Rice", IsAvailable: true},
				{ID: "bread", Name: "Bread", ExtraPrice: 50, IsAvailable: true},
				{ID: "fries", Name: "Fries", IsAvailable: false},
			}},
		},
	}
}

func TestCreateMenuItemNormalizesOptions(t *testing.T) {
	f := newFixture(t)
	mains := f.category(t, "Mains")
	mansaf := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Mansaf", Price: 1000, IsAvailable: true})

	set := lunchSet(mains.ID, mansaf.ID)
	set.Options[0].ID = ""
	f.item(t, set)

	got, err := f.menu.GetMenuItem(context.Background(), f.restaurant.ID, set.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Options[0].ID == "" {
		t.Error("expected a generated group id")
	}
	if got.Options[1].MaxSelection != 1 {
		t.Errorf("expected unset max selection to default to 1, got %d", got.Options[1].MaxSelection)
	}
	if got.ItemType != models.SetMenu {
		t.Errorf("expected set menu, got %s", got.ItemType)
	}
	if mansaf.ItemType != models.SingleItem {
		t.Errorf("expected item type to default to single, got %s", mansaf.ItemType)
	}
}

func TestCreateMenuItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	other := &models.Restaurant{Name: "Other Place"}
	if err := f.restaurants.CreateRestaurant(ctx, other); err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	foreignCategory := &models.Category{Name: "Elsewhere"}
	if err := f.menu.CreateCategory(ctx, other.ID, foreignCategory); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	tests := []struct {
		name string
		item *models.MenuItem
	}{
		{name: "blank name", item: &models.MenuItem{CategoryID: mains.ID, Name: " "}},
		{name: "negative price", item: &models.MenuItem{CategoryID: mains.ID, Name: "Tea", Price: -1}},
		{name: "unknown category", item: &models.MenuItem{CategoryID: "nope", Name: "Tea"}},
		{name: "category of another restaurant", item: &models.MenuItem{CategoryID: foreignCategory.ID, Name: "Tea"}},
		{name: "single with options", item: &models.MenuItem{CategoryID: mains.ID, Name: "Tea", Options: []models.OptionGroup{
			{Name: "Sugar", MaxSelection: 1},
		}}},
		{name: "unknown linked item", item: lunchSet(mains.ID, "ghost")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.menu.CreateMenuItem(ctx, f.restaurant.ID, tt.item)
			if !errors.Is(err, models.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateMenuItemRejectsSelfReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	mansaf := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Mansaf", Price: 1000, IsAvailable: true})
	set := f.item(t, lunchSet(mains.ID, mansaf.ID))

	changes := lunchSet(mains.ID, set.ID)
	if _, err := f.menu.UpdateMenuItem(ctx, f.restaurant.ID, set.ID, changes); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	changes = lunchSet(mains.ID, mansaf.ID)
	changes.Price = 1800
	updated, err := f.menu.UpdateMenuItem(ctx, f.restaurant.ID, set.ID, changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 1800 || updated.ID != set.ID {
		t.Fatalf("unexpected update result %+v", updated)
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	mansaf := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Mansaf", Price: 1000, IsAvailable: true})
	set := f.item(t, lunchSet(mains.ID, mansaf.ID))

	quote, err := f.menu.Quote(ctx, f.restaurant.ID, set.ID, menu.Selections{
		"starter": {"fattoush"},
		"main":    {"mansaf"},
		"sides":   {"rice", "bread"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 2000 {
		t.Errorf("expected 1500 + 150 + 300 + 50 = 2000, got %v", quote.Price)
	}
	if len(quote.SelectedOptions) != 4 || quote.SelectedOptions[1].ItemID == nil || *quote.SelectedOptions[1].ItemID != mansaf.ID {
		t.Errorf("unexpected selected options %+v", quote.SelectedOptions)
	}

	_, err = f.menu.Quote(ctx, f.restaurant.ID, set.ID, menu.Selections{"starter": {"hummus"}})
	var missing *models.MissingRequiredOptionError
	if !errors.As(err, &missing) || len(missing.Groups) != 1 || missing.Groups[0] != "Main" {
		t.Fatalf("expected missing Main group, got %v", err)
	}

	_, err = f.menu.Quote(ctx, f.restaurant.ID, set.ID, menu.Selections{"starter": {"hummus"}, "main": {"mansaf"}, "sides": {"fries"}})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected unavailable choice to be rejected, got %v", err)
	}
}

func TestAvailabilityAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	tea := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Tea", Price: 100, IsAvailable: true})

	if err := f.menu.SetAvailability(ctx, f.restaurant.ID, tea.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	index, err := f.menu.MenuIndex(ctx, f.restaurant.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index[tea.ID].IsAvailable {
		t.Fatal("expected tea to be unavailable")
	}

	categories, err := f.menu.ListCategories(ctx, f.restaurant.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || len(categories[0].MenuItems) != 1 {
		t.Fatalf("expected one category with one item, got %+v", categories)
	}

	if err := f.menu.DeleteMenuItem(ctx, f.restaurant.ID, tea.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.menu.SetAvailability(ctx, f.restaurant.ID, tea.ID, true); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestaurantSlugs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.restaurant.Slug != "beit-sitti" {
		t.Fatalf("expected slug beit-sitti, got %q", f.restaurant.Slug)
	}
	dup := &models.Restaurant{Name: "Beit  Sitti"}
	if err := f.restaurants.CreateRestaurant(ctx, dup); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected duplicate slug to be rejected, got %v", err)
	}

	got, err := f.restaurants.GetRestaurantBySlug(ctx, "beit-sitti")
	if err != nil || got.ID != f.restaurant.ID {
		t.Fatalf("expected lookup by slug, got %v, %v", got, err)
	}

	updated, err := f.restaurants.UpdateRestaurant(ctx, f.restaurant.ID, &models.Restaurant{Name: "Beit Sitti Amman", Slug: "Beit Sitti Amman"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Slug != "beit-sitti-amman" {
		t.Fatalf("expected new slug, got %q", updated.Slug)
	}
}
