package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"institute/core/enrollment"
)

func TestEnrollmentReviewDecide(t *testing.T) {
	approve := http.StatusOK
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			if got := r.URL.Query().Get("status"); got != "pending" {
				t.Errorf("list fetched with status=%q, want pending", got)
			}
			json.NewEncoder(w).Encode([]enrollment.Enrollment{
				{ID: "e1", Status: enrollment.StatusPending},
				{ID: "e2", Status: enrollment.StatusPending},
			})

		case r.Method == http.MethodPut:
			if approve != http.StatusOK {
				w.WriteHeader(approve)
				json.NewEncoder(w).Encode(map[string]string{"error": "already decided"})
				return
			}
			json.NewEncoder(w).Encode(enrollment.Enrollment{ID: "e1", Status: enrollment.StatusApproved})

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	l := NewEnrollmentReviewList(c)
	if err := l.Load(context.Background(), enrollment.FilterParams{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(l.Rows()) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(l.Rows()))
	}

	if err := l.Approve(context.Background(), "e1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rows := l.Rows(); len(rows) != 1 || rows[0].ID != "e2" {
		t.Fatalf("rows after approve = %v, want just e2", rows)
	}

	// A refused decision puts the row back.
	approve = http.StatusConflict
	if err := l.Reject(context.Background(), "e2"); err == nil {
		t.Fatal("Reject succeeded against a refusing backend")
	}
	if rows := l.Rows(); len(rows) != 1 || rows[0].ID != "e2" {
		t.Fatalf("rows after failed reject = %v, want e2 restored", rows)
	}
}
