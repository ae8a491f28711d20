package test

import (
	"context"
	"net/http"
	"testing"

	"institute/client"
	"institute/core/order"
)

func TestOrderWorkflow(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()

	crs := env.SeedCourse(t, false)
	bkt := env.SeedBucket(t, crs.ID, 150000)
	pack := env.SeedPack(t, bkt.ID, 80000, 750)

	studentToken, number := env.SignupStudent(t, "Nimal Perera", "nimal@students.test", "student-pass-1")

	place := map[string]any{
		"pack_id":       pack.ID,
		"address_line1": "24 Temple Road",
		"city":          "Kandy",
		"district":      "Kandy",
		"postal_code":   "20000",
		"phone1":        "0771234567",
	}

	var first, second order.Order
	env.Post(t, studentToken, "/student-orders", place, &first, http.StatusCreated)
	env.Post(t, studentToken, "/student-orders", place, &second, http.StatusCreated)

	if first.Status != order.Pending {
		t.Fatalf("new order status = %q, want pending", first.Status)
	}
	if first.StudentNumber != number {
		t.Fatalf("order student number = %q, want %q", first.StudentNumber, number)
	}

	admin := env.AdminClient(t)

	store := client.NewOrderStore(admin)
	if err := store.SetFilter(ctx, order.FilterParams{StudentNumber: number}); err != nil {
		t.Fatalf("filtering orders: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("filtered %d orders, want 2", store.Len())
	}

	// Narrowing by course reaches the orders through pack and bucket.
	if err := store.SetFilter(ctx, order.FilterParams{StudentNumber: number, CourseID: crs.ID}); err != nil {
		t.Fatalf("filtering orders by course: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("course filter matched %d orders, want 2", store.Len())
	}

	e := client.NewDetailEditor(admin, first)
	e.TrackingNo = "CJ123456789LK"
	e.CODAmount = "800.00"
	e.WeightKg = "0.75"

	if e.ActionLabel() != "Update to packed" {
		t.Fatalf("ActionLabel() = %q", e.ActionLabel())
	}

	if _, err := e.Advance(ctx); err != nil {
		t.Fatalf("advancing to packed: %v", err)
	}
	if got := e.Order().Status; got != order.Packed {
		t.Fatalf("status after advance = %q, want packed", got)
	}
	if e.Order().TrackingNo == nil || *e.Order().TrackingNo != "CJ123456789LK" {
		t.Fatalf("tracking number not persisted: %v", e.Order().TrackingNo)
	}
	if e.Order().CODAmount == nil || *e.Order().CODAmount != 80000 {
		t.Fatalf("cod amount not persisted: %v", e.Order().CODAmount)
	}

	if _, err := e.Advance(ctx); err != nil {
		t.Fatalf("advancing to handed over: %v", err)
	}
	if e.Editable() {
		t.Fatal("editor still editable after hand over")
	}

	// Field edits are refused once handed over, both client and server side.
	if _, err := e.Update(ctx); err == nil {
		t.Fatal("field update accepted on a frozen order")
	}
	tracking := "tampered"
	if _, err := admin.UpdateOrder(ctx, first.ID, order.OrderUp{TrackingNo: &tracking}, false); err == nil {
		t.Fatal("server accepted a shipping edit on a frozen order")
	}

	if _, err := e.Advance(ctx); err != nil {
		t.Fatalf("advancing to delivered: %v", err)
	}
	if e.Order().Status != order.Delivered {
		t.Fatalf("status = %q, want delivered", e.Order().Status)
	}
	if e.Order().DeliveredAt == nil {
		t.Fatal("delivered order has no delivery timestamp")
	}
	if _, ok := e.NextStatus(); ok {
		t.Fatal("delivered order still has a next status")
	}

	// Skipping ahead is rejected.
	handed := order.HandedOver
	if _, err := admin.UpdateOrder(ctx, second.ID, order.OrderUp{Status: &handed}, false); err == nil {
		t.Fatal("server accepted a pipeline skip")
	}

	// Cancelling a live order needs the override form.
	cancelled := order.Cancelled
	if _, err := admin.UpdateOrder(ctx, second.ID, order.OrderUp{Status: &cancelled}, false); err == nil {
		t.Fatal("server accepted cancellation without override")
	}
	ord, err := admin.UpdateOrder(ctx, second.ID, order.OrderUp{Status: &cancelled}, true)
	if err != nil {
		t.Fatalf("cancelling with override: %v", err)
	}
	if ord.Status != order.Cancelled {
		t.Fatalf("status after override = %q, want cancelled", ord.Status)
	}

	// Override does not resurrect a delivered order.
	returned := order.Returned
	if _, err := admin.UpdateOrder(ctx, first.ID, order.OrderUp{Status: &returned}, true); err == nil {
		t.Fatal("server moved a delivered order to returned")
	}

	if err := store.SetFilter(ctx, order.FilterParams{StudentNumber: number, Status: "cancelled"}); err != nil {
		t.Fatalf("filtering cancelled orders: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("cancelled filter matched %d orders, want 1", store.Len())
	}
}
