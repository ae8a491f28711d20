package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"institute/core/order"
)

// PageSize is the fixed client-side page length for order lists.
const PageSize = 10

// OrderStore holds the current filtered order set. Filtering happens
// server-side through query parameters; paging happens here over the full
// result. Every filter change or successful mutation refetches wholesale.
type OrderStore struct {
	c      *Client
	filter order.FilterParams
	rows   []order.Order
	page   int
}

func NewOrderStore(c *Client) *OrderStore {
	return &OrderStore{c: c, page: 1}
}

// SetFilter installs a new filter and refetches, resetting to page 1.
func (s *OrderStore) SetFilter(ctx context.Context, f order.FilterParams) error {
	s.filter = f
	s.page = 1
	return s.Refresh(ctx)
}

// Refresh refetches the filtered set. On failure the store is cleared
// rather than left showing stale records.
func (s *OrderStore) Refresh(ctx context.Context) error {
	rows, err := s.c.FilterOrders(ctx, s.filter)
	if err != nil {
		s.rows = nil
		return err
	}

	s.rows = rows
	if s.page > s.Pages() {
		s.page = s.Pages()
	}
	return nil
}

func (s *OrderStore) Len() int { return len(s.rows) }

func (s *OrderStore) Pages() int {
	n := (len(s.rows) + PageSize - 1) / PageSize
	if n < 1 {
		n = 1
	}
	return n
}

func (s *OrderStore) PageNum() int { return s.page }

// Page returns the records visible on the current page.
func (s *OrderStore) Page() []order.Order {
	lo := (s.page - 1) * PageSize
	if lo >= len(s.rows) {
		return nil
	}

	hi := lo + PageSize
	if hi > len(s.rows) {
		hi = len(s.rows)
	}

	return s.rows[lo:hi]
}

func (s *OrderStore) NextEnabled() bool { return s.page < s.Pages() }

func (s *OrderStore) PrevEnabled() bool { return s.page > 1 }

func (s *OrderStore) NextPage() {
	if s.NextEnabled() {
		s.page++
	}
}

func (s *OrderStore) PrevPage() {
	if s.PrevEnabled() {
		s.page--
	}
}

// Editor field defaults: the dialog always seeds numeric inputs with a
// parseable value even when the record has none yet.
const (
	DefaultCODAmount = "0.00"
	DefaultWeightKg  = "0.25"
)

// DetailEditor buffers in-progress edits to one order's shipping fields
// (tracking number, COD amount, package weight) and submits them, plain or
// bundled with the next forward status. It never mutates locally before
// the round trip, so a failure leaves everything as it was.
type DetailEditor struct {
	c   *Client
	ord order.Order

	TrackingNo string
	CODAmount  string
	WeightKg   string
}

func NewDetailEditor(c *Client, ord order.Order) *DetailEditor {
	e := &DetailEditor{c: c}
	e.seed(ord)
	return e
}

func (e *DetailEditor) seed(ord order.Order) {
	e.ord = ord

	e.TrackingNo = ""
	if ord.TrackingNo != nil {
		e.TrackingNo = *ord.TrackingNo
	}

	e.CODAmount = DefaultCODAmount
	if ord.CODAmount != nil {
		e.CODAmount = formatAmount(*ord.CODAmount)
	}

	e.WeightKg = DefaultWeightKg
	if ord.WeightGrams != nil {
		e.WeightKg = formatWeight(*ord.WeightGrams)
	}
}

// Order returns the last server-confirmed record backing the editor.
func (e *DetailEditor) Order() order.Order { return e.ord }

// Editable reports whether the shipping inputs are live. It checks the
// persisted status only: a locally pending advance that the server has
// not confirmed yet must not reopen the fields.
func (e *DetailEditor) Editable() bool { return !e.ord.Status.Frozen() }

// NextStatus is the engine-computed forward step, if any.
func (e *DetailEditor) NextStatus() (order.Status, bool) { return e.ord.Status.Next() }

// ActionLabel is the caption for the advance control: "Update to packed",
// "Update to handed over", ... or plain "Update" when the pipeline ends.
func (e *DetailEditor) ActionLabel() string {
	next, ok := e.ord.Status.Next()
	if !ok {
		return "Update"
	}
	return fmt.Sprintf("Update to %s", next)
}

// Update submits the edited fields with the status left unchanged. The
// dialog stays open afterwards, so the editor re-seeds from the updated
// record and remains usable.
func (e *DetailEditor) Update(ctx context.Context) (order.Order, error) {
	if !e.Editable() {
		return order.Order{}, errors.New("shipping details are frozen once the order is handed over")
	}

	up, err := e.fields()
	if err != nil {
		return order.Order{}, err
	}

	status := e.ord.Status
	up.Status = &status

	return e.submit(ctx, up)
}

// Advance submits the engine-computed next status, bundling the edited
// fields while they are still editable.
func (e *DetailEditor) Advance(ctx context.Context) (order.Order, error) {
	next, ok := e.ord.Status.Next()
	if !ok {
		return order.Order{}, fmt.Errorf("order status %q has no next step", e.ord.Status)
	}

	up := order.OrderUp{}
	if e.Editable() {
		var err error
		if up, err = e.fields(); err != nil {
			return order.Order{}, err
		}
	}
	up.Status = &next

	return e.submit(ctx, up)
}

func (e *DetailEditor) submit(ctx context.Context, up order.OrderUp) (order.Order, error) {
	ord, err := e.c.UpdateOrder(ctx, e.ord.ID, up, false)
	if err != nil {
		return order.Order{}, err
	}

	e.seed(ord)
	return ord, nil
}

// fields parses the text inputs. Malformed numeric input is rejected here
// with a validation error instead of being silently sent as zero.
func (e *DetailEditor) fields() (order.OrderUp, error) {
	cod, err := parseAmount(e.CODAmount)
	if err != nil {
		return order.OrderUp{}, fmt.Errorf("cash-on-delivery amount: %w", err)
	}

	grams, err := parseWeight(e.WeightKg)
	if err != nil {
		return order.OrderUp{}, fmt.Errorf("package weight: %w", err)
	}

	tracking := e.TrackingNo
	return order.OrderUp{
		TrackingNo:  &tracking,
		CODAmount:   &cod,
		WeightGrams: &grams,
	}, nil
}

func parseAmount(text string) (int, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a valid amount", text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must not be negative", text)
	}
	return int(math.Round(v * 100)), nil
}

func formatAmount(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func parseWeight(text string) (int, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a valid weight", text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%q must not be negative", text)
	}
	return int(math.Round(v * 1000)), nil
}

func formatWeight(grams int) string {
	return strconv.FormatFloat(float64(grams)/1000, 'f', -1, 64)
}
