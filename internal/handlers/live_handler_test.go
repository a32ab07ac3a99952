package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"soufra_admin/internal/models"
	"soufra_admin/internal/projection"

	"github.com/gin-gonic/gin"
)

// nextView reads server-sent events until the next orders payload.
func nextView(t *testing.T, reader *bufio.Reader) projection.View {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		payload, ok := strings.CutPrefix(strings.TrimSpace(line), "data:")
		if !ok {
			continue
		}
		var view projection.View
		if err := json.Unmarshal([]byte(payload), &view); err != nil {
			t.Fatalf("decode view %q: %v", payload, err)
		}
		return view
	}
}

func TestLiveOrdersStream(t *testing.T) {
	s := newTestServer(t)
	restaurant, dish, _ := s.seedMenu(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/restaurants/"+restaurant.ID+"/live-orders", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	reader := bufio.NewReader(resp.Body)

	initial := nextView(t, reader)
	if len(initial.Active) != 0 || len(initial.Past) != 0 {
		t.Fatalf("expected an empty view, got %+v", initial)
	}

	w := s.do(t, http.MethodPost, "/api/restaurants/"+restaurant.ID+"/orders", gin.H{
		"order_type": "take_away",
		"lines":      []gin.H{{"menu_item_id": dish.ID, "quantity": 2}},
	})
	expectStatus(t, w, http.StatusCreated)
	var order models.Order
	decode(t, w, &order)

	for {
		view := nextView(t, reader)
		if len(view.Active) == 0 {
			continue
		}
		got := view.Active[0]
		if got.ID != order.ID || got.TotalAmount != 2000 {
			t.Fatalf("unexpected active order %+v", got.Order)
		}
		if got.NextStatus == nil || *got.NextStatus != models.OrderConfirmed {
			t.Fatalf("expected next status confirmed, got %v", got.NextStatus)
		}
		break
	}
}

func TestLiveOrdersUnknownRestaurant(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(t, http.MethodGet, "/api/restaurants/missing/live-orders", nil), http.StatusNotFound)
}

// openStream opens the live view of a restaurant and returns a reader over its events.
func openStream(t *testing.T, s *testServer, server *httptest.Server, restaurantID string) (*bufio.Reader, func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/restaurants/"+restaurantID+"/live-orders", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		t.Fatalf("open stream: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	return bufio.NewReader(resp.Body), func() {
		resp.Body.Close()
		cancel()
	}
}

func TestLiveOrdersStopOnCloseStreams(t *testing.T) {
	s := newTestServer(t)
	restaurant, _, _ := s.seedMenu(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	reader, closeStream := openStream(t, s, server, restaurant.ID)
	defer closeStream()
	nextView(t, reader)
	if s.feed.Subscribers(restaurant.ID) != 1 {
		t.Fatalf("expected one feed subscription, got %d", s.feed.Subscribers(restaurant.ID))
	}

	s.handler.CloseStreams()

	if _, err := io.ReadAll(reader); err != nil {
		t.Fatalf("expected the stream to end cleanly, got %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for s.feed.Subscribers(restaurant.ID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected the feed subscription to be released")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Closing twice is safe and new streams end right away.
	s.handler.CloseStreams()
	again, closeAgain := openStream(t, s, server, restaurant.ID)
	defer closeAgain()
	if _, err := io.ReadAll(again); err != nil {
		t.Fatalf("expected the new stream to end, got %v", err)
	}
}

func TestLiveOrdersPicksUpMenuEdits(t *testing.T) {
	s := newTestServer(t)
	restaurant, dish, set := s.seedMenu(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	reader, closeStream := openStream(t, s, server, restaurant.ID)
	defer closeStream()
	nextView(t, reader)

	base := "/api/restaurants/" + restaurant.ID
	w := s.do(t, http.MethodPost, base+"/orders", gin.H{
		"order_type": "take_away",
		"lines":      []gin.H{{"menu_item_id": set.ID, "quantity": 1, "selections": gin.H{"main": []string{"mansaf"}}}},
	})
	expectStatus(t, w, http.StatusCreated)
	var order models.Order
	decode(t, w, &order)

	w = s.do(t, http.MethodPut, base+"/menu-items/"+dish.ID, gin.H{
		"category_id":  dish.CategoryID,
		"name":         dish.Name,
		"price":        dish.Price,
		"is_available": true,
		"description":  "Lamb in jameed",
	})
	expectStatus(t, w, http.StatusOK)

	w = s.do(t, http.MethodPost, base+"/orders/"+order.ID+"/advance", nil)
	expectStatus(t, w, http.StatusOK)

	// A tick may render the advanced order before the menu is reloaded; the
	// view sent for the change itself carries the new text.
	for {
		view := nextView(t, reader)
		if len(view.Active) == 0 || view.Active[0].Status != models.OrderConfirmed {
			continue
		}
		for _, components := range view.Active[0].Components {
			for _, component := range components {
				if component.ItemID == dish.ID && component.Description == "Lamb in jameed" {
					return
				}
			}
		}
	}
}
