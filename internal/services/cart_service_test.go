package services

import (
	"context"
	"errors"
	"testing"

	"soufra_admin/internal/menu"
	"soufra_admin/internal/models"
)

func TestPriceLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	mansaf := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Mansaf", Price: 1000, IsAvailable: true})
	set := f.item(t, lunchSet(mains.ID, mansaf.ID))

	items, err := f.carts.PriceLines(ctx, f.restaurant.ID, []CartLine{
		{MenuItemID: mansaf.ID, Quantity: 2},
		{MenuItemID: set.ID, Quantity: 1, Selections: menu.Selections{"starter": {"hummus"}, "main": {"mansaf"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two items, got %d", len(items))
	}
	if got := models.TotalOf(items); got != 3800 {
		t.Errorf("expected 2*1000 + 1800 = 3800, got %v", got)
	}
	if len(items[1].SelectedOptions) != 2 {
		t.Errorf("expected selected options on the set line, got %+v", items[1].SelectedOptions)
	}
}

func TestPriceLinesRejectsBadLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mains := f.category(t, "Mains")
	soldOut := f.item(t, &models.MenuItem{CategoryID: mains.ID, Name: "Maqluba", Price: 900})

	if _, err := f.carts.PriceLines(ctx, f.restaurant.ID, []CartLine{{MenuItemID: soldOut.ID, Quantity: 1}}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected unavailable item to be rejected, got %v", err)
	}
	if _, err := f.carts.PriceLines(ctx, f.restaurant.ID, []CartLine{{MenuItemID: "missing", Quantity: 1}}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.carts.PriceLines(ctx, f.restaurant.ID, []CartLine{{Quantity: 1}}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected missing id to be rejected, got %v", err)
	}
}
