package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"institute/core/order"
)

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }

func TestEditorSeedsFromRecord(t *testing.T) {
	e := NewDetailEditor(nil, order.Order{
		ID:          "42",
		Status:      order.Packed,
		TrackingNo:  strptr("CJ123456789LK"),
		CODAmount:   intptr(1250),
		WeightGrams: intptr(750),
	})

	if e.TrackingNo != "CJ123456789LK" {
		t.Errorf("TrackingNo = %q", e.TrackingNo)
	}
	if e.CODAmount != "12.50" {
		t.Errorf("CODAmount = %q, want 12.50", e.CODAmount)
	}
	if e.WeightKg != "0.75" {
		t.Errorf("WeightKg = %q, want 0.75", e.WeightKg)
	}
	if !e.Editable() {
		t.Error("packed order not editable")
	}
}

func TestEditorDefaults(t *testing.T) {
	e := NewDetailEditor(nil, order.Order{ID: "42", Status: order.Pending})

	if e.TrackingNo != "" {
		t.Errorf("TrackingNo = %q, want empty", e.TrackingNo)
	}
	if e.CODAmount != "0.00" {
		t.Errorf("CODAmount = %q, want 0.00", e.CODAmount)
	}
	if e.WeightKg != "0.25" {
		t.Errorf("WeightKg = %q, want 0.25", e.WeightKg)
	}
}

func TestEditorActionLabel(t *testing.T) {
	labels := map[order.Status]string{
		order.Pending:    "Update to packed",
		order.Packed:     "Update to handed over",
		order.HandedOver: "Update to delivered",
		order.Delivered:  "Update",
		order.Returned:   "Update",
		order.Cancelled:  "Update",
	}

	for status, want := range labels {
		e := NewDetailEditor(nil, order.Order{ID: "42", Status: status})
		if got := e.ActionLabel(); got != want {
			t.Errorf("ActionLabel() for %q = %q, want %q", status, got, want)
		}
	}
}

func TestEditorRejectsMalformedAmount(t *testing.T) {
	for _, bad := range []string{"", "abc", "12,50", "1.2.3", "NaN", "-5"} {
		e := NewDetailEditor(nil, order.Order{ID: "42", Status: order.Pending})
		e.CODAmount = bad

		if _, err := e.Update(context.Background()); err == nil {
			t.Errorf("Update accepted COD amount %q", bad)
		}
	}
}

func TestEditorFrozenRefusesFieldUpdate(t *testing.T) {
	e := NewDetailEditor(nil, order.Order{ID: "42", Status: order.HandedOver})

	if e.Editable() {
		t.Error("handed-over order still editable")
	}
	if _, err := e.Update(context.Background()); err == nil {
		t.Error("Update accepted on a frozen order")
	}
	if !strings.Contains(e.ActionLabel(), "delivered") {
		t.Errorf("ActionLabel() = %q, want the delivered step", e.ActionLabel())
	}
}

func TestEditorAdvanceSendsFieldsAndNextStatus(t *testing.T) {
	var got order.OrderUp
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/student-orders/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding update: %v", err)
		}

		json.NewEncoder(w).Encode(order.Order{
			ID:          "42",
			Status:      *got.Status,
			TrackingNo:  got.TrackingNo,
			CODAmount:   got.CODAmount,
			WeightGrams: got.WeightGrams,
		})
	})

	e := NewDetailEditor(c, order.Order{ID: "42", Status: order.Pending})
	e.TrackingNo = "CJ987654321LK"
	e.CODAmount = "19.90"
	e.WeightKg = "1.5"

	ord, err := e.Advance(context.Background())
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if got.Status == nil || *got.Status != order.Packed {
		t.Errorf("sent status %v, want packed", got.Status)
	}
	if got.CODAmount == nil || *got.CODAmount != 1990 {
		t.Errorf("sent cod_amount %v, want 1990", got.CODAmount)
	}
	if got.WeightGrams == nil || *got.WeightGrams != 1500 {
		t.Errorf("sent weight_grams %v, want 1500", got.WeightGrams)
	}
	if got.TrackingNo == nil || *got.TrackingNo != "CJ987654321LK" {
		t.Errorf("sent tracking_no %v", got.TrackingNo)
	}

	if ord.Status != order.Packed {
		t.Errorf("confirmed status %q, want packed", ord.Status)
	}
	if e.Order().Status != order.Packed {
		t.Errorf("editor still on %q after advance", e.Order().Status)
	}
	if e.ActionLabel() != "Update to handed over" {
		t.Errorf("ActionLabel() = %q after advance", e.ActionLabel())
	}
}

func TestEditorAdvanceFrozenOmitsFields(t *testing.T) {
	var got order.OrderUp
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding update: %v", err)
		}
		json.NewEncoder(w).Encode(order.Order{
			ID:         "42",
			Status:     *got.Status,
			TrackingNo: strptr("CJ123456789LK"),
		})
	})

	e := NewDetailEditor(c, order.Order{
		ID:         "42",
		Status:     order.HandedOver,
		TrackingNo: strptr("CJ123456789LK"),
	})
	e.TrackingNo = "tampered"

	if _, err := e.Advance(context.Background()); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if got.Status == nil || *got.Status != order.Delivered {
		t.Errorf("sent status %v, want delivered", got.Status)
	}
	if got.TrackingNo != nil {
		t.Errorf("frozen advance sent tracking_no %q", *got.TrackingNo)
	}
	if got.CODAmount != nil || got.WeightGrams != nil {
		t.Error("frozen advance sent shipping fields")
	}

	if e.TrackingNo != "CJ123456789LK" {
		t.Errorf("editor reseeded TrackingNo = %q, want the confirmed value", e.TrackingNo)
	}
}

func TestEditorUpdateKeepsStatus(t *testing.T) {
	var got order.OrderUp
	c := orderServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding update: %v", err)
		}
		json.NewEncoder(w).Encode(order.Order{
			ID:          "42",
			Status:      *got.Status,
			TrackingNo:  got.TrackingNo,
			CODAmount:   got.CODAmount,
			WeightGrams: got.WeightGrams,
		})
	})

	e := NewDetailEditor(c, order.Order{ID: "42", Status: order.Packed})
	e.TrackingNo = "CJ555555555LK"

	if _, err := e.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got.Status == nil || *got.Status != order.Packed {
		t.Errorf("sent status %v, want packed unchanged", got.Status)
	}
	if e.Order().Status != order.Packed {
		t.Errorf("status moved to %q on a plain update", e.Order().Status)
	}
}
