package client

import (
	"context"

	"institute/core/enrollment"
	"institute/core/payment"
)

// EnrollmentReviewList is the admin queue of pending enrollment requests.
// Deciding a row applies optimistically: the row leaves the pending view
// at once and comes back only if the server refuses the change.
type EnrollmentReviewList struct {
	c    *Client
	sync *ListSync[enrollment.Enrollment]
}

func NewEnrollmentReviewList(c *Client) *EnrollmentReviewList {
	return &EnrollmentReviewList{
		c:    c,
		sync: NewListSync(func(e enrollment.Enrollment) string { return e.ID }),
	}
}

// Load fetches the pending requests matching the filter. The status filter
// is forced to pending; that is the queue this list reviews.
func (l *EnrollmentReviewList) Load(ctx context.Context, f enrollment.FilterParams) error {
	f.Status = enrollment.StatusPending

	rows, err := l.c.FilterEnrollments(ctx, f)
	if err != nil {
		l.sync.Replace(nil)
		return err
	}

	l.sync.Replace(rows)
	return nil
}

func (l *EnrollmentReviewList) Rows() []enrollment.Enrollment { return l.sync.Rows() }

func (l *EnrollmentReviewList) InFlight(id string) bool { return l.sync.InFlight(id) }

// Approve resolves the request in the student's favor.
func (l *EnrollmentReviewList) Approve(ctx context.Context, id string) error {
	return l.decide(ctx, id, enrollment.StatusApproved)
}

// Reject turns the request down.
func (l *EnrollmentReviewList) Reject(ctx context.Context, id string) error {
	return l.decide(ctx, id, enrollment.StatusRejected)
}

func (l *EnrollmentReviewList) decide(ctx context.Context, id, status string) error {
	apply := func(e enrollment.Enrollment) (enrollment.Enrollment, bool) {
		e.Status = status
		return e, status == enrollment.StatusPending
	}
	call := func(ctx context.Context) error {
		_, err := l.c.UpdateEnrollmentStatus(ctx, id, status)
		return err
	}
	return l.sync.Mutate(ctx, id, apply, call)
}

// PaymentReviewList is the same queue shape for uploaded payment slips.
type PaymentReviewList struct {
	c    *Client
	sync *ListSync[payment.Payment]
}

func NewPaymentReviewList(c *Client) *PaymentReviewList {
	return &PaymentReviewList{
		c:    c,
		sync: NewListSync(func(p payment.Payment) string { return p.ID }),
	}
}

func (l *PaymentReviewList) Load(ctx context.Context, f payment.FilterParams) error {
	f.Status = payment.StatusPending

	rows, err := l.c.FilterPayments(ctx, f)
	if err != nil {
		l.sync.Replace(nil)
		return err
	}

	l.sync.Replace(rows)
	return nil
}

func (l *PaymentReviewList) Rows() []payment.Payment { return l.sync.Rows() }

func (l *PaymentReviewList) InFlight(id string) bool { return l.sync.InFlight(id) }

// SlipURL resolves the scanned slip attached to a request, empty when the
// payment came through an online provider instead.
func (l *PaymentReviewList) SlipURL(p payment.Payment) string {
	if p.SlipPath == nil {
		return ""
	}
	return l.c.FileURL(*p.SlipPath)
}

func (l *PaymentReviewList) Approve(ctx context.Context, id string) error {
	return l.decide(ctx, id, payment.StatusApproved)
}

func (l *PaymentReviewList) Reject(ctx context.Context, id string) error {
	return l.decide(ctx, id, payment.StatusRejected)
}

func (l *PaymentReviewList) decide(ctx context.Context, id, status string) error {
	apply := func(p payment.Payment) (payment.Payment, bool) {
		p.Status = status
		return p, status == payment.StatusPending
	}
	call := func(ctx context.Context) error {
		_, err := l.c.UpdatePaymentStatus(ctx, id, status)
		return err
	}
	return l.sync.Mutate(ctx, id, apply, call)
}
