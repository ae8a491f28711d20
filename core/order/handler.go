package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"
	"institute/core/student"
	"institute/core/studypack"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

// HandleCreate places a study-pack order for the logged-in student. Orders
// always start out pending.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil || clm.StudentID == "" {
			return weberr.NotAuthorized(errors.New("student not authenticated"))
		}

		var on OrderNew
		if err := web.Decode(w, r, &on); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(on); err != nil {
			return weberr.Unprocessable(err)
		}

		if _, err := studypack.Fetch(ctx, db, on.PackID); err != nil {
			return weberr.NotFound(err)
		}

		std, err := student.Fetch(ctx, db, clm.StudentID)
		if err != nil {
			return fmt.Errorf("fetching student for order: %w", err)
		}

		now := time.Now().UTC()
		ord := Order{
			ID:            validate.GenerateID(),
			StudentNumber: std.Number,
			PackID:        on.PackID,
			AddressLine1:  on.AddressLine1,
			AddressLine2:  on.AddressLine2,
			City:          on.City,
			District:      on.District,
			PostalCode:    on.PostalCode,
			Phone1:        on.Phone1,
			Phone2:        on.Phone2,
			Status:        Pending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := Create(ctx, db, ord); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func HandleFilter(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := FilterParams{
			StudentNumber: web.Query(r, "student_number"),
			Status:        web.Query(r, "order_status"),
			CourseID:      web.Query(r, "course_id"),
			BucketID:      web.Query(r, "course_bucket_id"),
		}

		if f.Status != "" && !Status(f.Status).Valid() {
			return weberr.BadRequest(fmt.Errorf("%q is not a valid order status", f.Status))
		}
		for _, id := range []string{f.CourseID, f.BucketID} {
			if id != "" {
				if err := validate.CheckID(id); err != nil {
					return weberr.BadRequest(err)
				}
			}
		}

		ords, err := Filter(ctx, db, f)
		if err != nil {
			return fmt.Errorf("filtering orders: %w", err)
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

// HandleUpdate applies an admin's partial update: shipping details and/or
// a status move. Shipping details are frozen from "handed over" onward;
// the ?override=true form additionally permits parking a live order on
// returned or cancelled outside the forward pipeline.
func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var up OrderUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.Unprocessable(err)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		touchesShipping := up.TrackingNo != nil || up.CODAmount != nil || up.WeightGrams != nil
		if touchesShipping && ord.Status.Frozen() {
			err := errors.New("shipping details are frozen once the order is handed over")
			return weberr.Unprocessable(err)
		}

		if up.TrackingNo != nil {
			ord.TrackingNo = up.TrackingNo
		}
		if up.CODAmount != nil {
			ord.CODAmount = up.CODAmount
		}
		if up.WeightGrams != nil {
			ord.WeightGrams = up.WeightGrams
		}

		now := time.Now().UTC()

		if up.Status != nil {
			override := web.Query(r, "override") == "true"
			if err := ord.Status.CanTransition(*up.Status, override); err != nil {
				return weberr.Unprocessable(err)
			}

			if *up.Status == Delivered && ord.Status != Delivered {
				ord.DeliveredAt = &now
			}
			ord.Status = *up.Status
		}

		ord.UpdatedAt = now

		if err := Update(ctx, db, ord); err != nil {
			return fmt.Errorf("updating order: %w", err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}
