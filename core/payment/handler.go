package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/background"
	"institute/api/web"
	"institute/api/weberr"
	"institute/core/bucket"
	"institute/core/claims"
	"institute/core/student"
	"institute/files"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

type Mailer interface {
	Send(to, subject, body string) error
}

func HandleFilter(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := FilterParams{
			StudentNumber: web.Query(r, "student_number"),
			BucketID:      web.Query(r, "course_bucket_id"),
			Status:        web.Query(r, "status"),
		}

		if f.BucketID != "" {
			if err := validate.CheckID(f.BucketID); err != nil {
				return weberr.BadRequest(err)
			}
		}

		pays, err := Filter(ctx, db, f)
		if err != nil {
			return fmt.Errorf("filtering payment requests: %w", err)
		}

		return web.Respond(ctx, w, pays, http.StatusOK)
	}
}

// HandleCreateSlip files a bank-slip payment request: a multipart body
// with the request data and the scanned slip.
func HandleCreateSlip(db *sqlx.DB, store *files.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil || clm.StudentID == "" {
			return weberr.NotAuthorized(errors.New("student not authenticated"))
		}

		var sn SlipNew
		f, fh, err := web.DecodeMultipart(r, &sn, "slip")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if fh == nil {
			return weberr.BadRequest(errors.New("slip file is required"))
		}
		defer f.Close()

		if err := validate.Check(sn); err != nil {
			return weberr.Unprocessable(err)
		}

		if _, err := bucket.Fetch(ctx, db, sn.BucketID); err != nil {
			return weberr.NotFound(err)
		}

		rel, err := store.Save(f, "slips", fh.Filename)
		if err != nil {
			return fmt.Errorf("storing slip file: %w", err)
		}

		now := time.Now().UTC()
		pay := Payment{
			ID:        validate.GenerateID(),
			StudentID: clm.StudentID,
			BucketID:  sn.BucketID,
			SlipPath:  &rel,
			Amount:    sn.Amount,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, pay); err != nil {
			return fmt.Errorf("creating payment request: %w", err)
		}

		created, err := Fetch(ctx, db, pay.ID)
		if err != nil {
			return fmt.Errorf("fetching created payment request: %w", err)
		}

		return web.Respond(ctx, w, created, http.StatusCreated)
	}
}

// HandleUpdateStatus records the slip review decision and notifies the
// student off the request path. Approval is what unlocks the bucket.
func HandleUpdateStatus(db *sqlx.DB, mailer Mailer, bg *background.Background) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var su StatusUp
		if err := web.Decode(w, r, &su); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(su); err != nil {
			return weberr.Unprocessable(err)
		}

		pay, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		if err := UpdateStatus(ctx, db, id, su.Status); err != nil {
			return fmt.Errorf("updating payment request status: %w", err)
		}

		pay.Status = su.Status
		pay.UpdatedAt = time.Now().UTC()

		if mailer != nil && su.Status != StatusPending {
			std, err := student.Fetch(ctx, db, pay.StudentID)
			if err != nil {
				return fmt.Errorf("fetching student for notification: %w", err)
			}

			subject := fmt.Sprintf("Payment %s", su.Status)
			body := fmt.Sprintf("Your payment for %s has been %s.", pay.BucketName, su.Status)
			bg.Add(func() error {
				return mailer.Send(std.Email, subject, body)
			})
		}

		return web.Respond(ctx, w, pay, http.StatusOK)
	}
}
