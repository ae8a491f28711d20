package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"institute/core/order"
)

func orderServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(Config{BaseURL: srv.URL, FileBaseURL: srv.URL + "/files"})
}

func fakeOrders(n int) []order.Order {
	ords := make([]order.Order, n)
	for i := range ords {
		ords[i] = order.Order{
			ID:            fmt.Sprintf("order-%02d", i),
			StudentNumber: "ST000042",
			Status:        order.Pending,
		}
	}
	return ords
}

func TestOrderStorePaging(t *testing.T) {
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/student-orders/records/filter/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(fakeOrders(25))
	})

	s := NewOrderStore(c)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if s.Len() != 25 {
		t.Fatalf("Len() = %d, want 25", s.Len())
	}
	if s.Pages() != 3 {
		t.Fatalf("Pages() = %d, want 3", s.Pages())
	}

	if got := len(s.Page()); got != 10 {
		t.Errorf("page 1 has %d rows, want 10", got)
	}
	if s.PrevEnabled() {
		t.Error("Prev enabled on the first page")
	}
	if !s.NextEnabled() {
		t.Error("Next disabled on the first page")
	}

	s.NextPage()
	s.NextPage()

	if s.PageNum() != 3 {
		t.Fatalf("PageNum() = %d, want 3", s.PageNum())
	}
	if got := len(s.Page()); got != 5 {
		t.Errorf("last page has %d rows, want 5", got)
	}
	if s.NextEnabled() {
		t.Error("Next enabled on the last page")
	}

	// Paging off the end is a no-op.
	s.NextPage()
	if s.PageNum() != 3 {
		t.Errorf("PageNum() = %d after NextPage on the last page, want 3", s.PageNum())
	}

	if first := s.Page()[0]; first.ID != "order-20" {
		t.Errorf("last page starts at %s, want order-20", first.ID)
	}
}

func TestOrderStoreFilterResetsPage(t *testing.T) {
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("order_status"); got != "packed" {
			json.NewEncoder(w).Encode(fakeOrders(25))
			return
		}
		json.NewEncoder(w).Encode(fakeOrders(4))
	})

	s := NewOrderStore(c)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	s.NextPage()

	if err := s.SetFilter(context.Background(), order.FilterParams{Status: "packed"}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	if s.PageNum() != 1 {
		t.Errorf("PageNum() = %d after filter change, want 1", s.PageNum())
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if s.NextEnabled() {
		t.Error("Next enabled with a single page")
	}
}

func TestOrderStoreClearsOnFetchFailure(t *testing.T) {
	fail := false
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "db down"})
			return
		}
		json.NewEncoder(w).Encode(fakeOrders(12))
	})

	s := NewOrderStore(c)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fail = true
	err := s.Refresh(context.Background())
	if err == nil {
		t.Fatal("Refresh succeeded against a failing backend")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = %v, want 500 APIError", err)
	}

	if s.Len() != 0 {
		t.Errorf("store kept %d stale rows after a failed fetch", s.Len())
	}
	if got := s.Page(); got != nil {
		t.Errorf("Page() = %v after a failed fetch, want empty", got)
	}
}
