package order

import "fmt"

type Status string

const (
	Pending    Status = "pending"
	Packed     Status = "packed"
	HandedOver Status = "handed over"
	Delivered  Status = "delivered"
	Returned   Status = "returned"
	Cancelled  Status = "cancelled"
)

// pipeline is the forward fulfillment path. Returned and cancelled sit
// outside it and are reachable only through an administrative override.
var pipeline = []Status{Pending, Packed, HandedOver, Delivered}

func (s Status) Valid() bool {
	switch s {
	case Pending, Packed, HandedOver, Delivered, Returned, Cancelled:
		return true
	}
	return false
}

// Next returns the single following status on the forward pipeline. ok is
// false for terminal statuses and for the override side states.
func (s Status) Next() (Status, bool) {
	for i, st := range pipeline[:len(pipeline)-1] {
		if st == s {
			return pipeline[i+1], true
		}
	}
	return "", false
}

func (s Status) Terminal() bool {
	switch s {
	case Delivered, Returned, Cancelled:
		return true
	}
	return false
}

// Frozen reports whether the shipping details (tracking number, COD
// amount, weight) may no longer change: from handed over onward.
func (s Status) Frozen() bool {
	switch s {
	case HandedOver, Delivered, Returned, Cancelled:
		return true
	}
	return false
}

// CanTransition checks an admin-requested move. Repeating the current
// status is a no-op and always legal; otherwise only the single forward
// step is, unless override permits parking a live order on returned or
// cancelled.
func (s Status) CanTransition(to Status, override bool) error {
	if !to.Valid() {
		return fmt.Errorf("%q is not a valid order status", to)
	}

	if to == s {
		return nil
	}

	if next, ok := s.Next(); ok && to == next {
		return nil
	}

	if override && !s.Terminal() && (to == Returned || to == Cancelled) {
		return nil
	}

	return fmt.Errorf("cannot move order from %q to %q", s, to)
}
