package enrollment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/background"
	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"
	"institute/core/student"
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
			CourseID:      web.Query(r, "course_id"),
			Status:        web.Query(r, "status"),
		}

		if f.CourseID != "" {
			if err := validate.CheckID(f.CourseID); err != nil {
				return weberr.BadRequest(err)
			}
		}

		enrs, err := Filter(ctx, db, f)
		if err != nil {
			return fmt.Errorf("filtering enrollments: %w", err)
		}

		return web.Respond(ctx, w, enrs, http.StatusOK)
	}
}

// HandleCreate files an enrollment request for the logged-in student. It
// starts out pending until an admin reviews it.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil || clm.StudentID == "" {
			return weberr.NotAuthorized(errors.New("student not authenticated"))
		}

		var en EnrollmentNew
		if err := web.Decode(w, r, &en); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(en); err != nil {
			return weberr.Unprocessable(err)
		}

		now := time.Now().UTC()
		enr := Enrollment{
			ID:        validate.GenerateID(),
			StudentID: clm.StudentID,
			CourseID:  en.CourseID,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, enr); err != nil {
			return fmt.Errorf("creating enrollment: %w", err)
		}

		created, err := Fetch(ctx, db, enr.ID)
		if err != nil {
			return fmt.Errorf("fetching created enrollment: %w", err)
		}

		return web.Respond(ctx, w, created, http.StatusCreated)
	}
}

// HandleUpdateStatus records the admin's review decision and notifies the
// student off the request path.
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

		enr, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		if err := UpdateStatus(ctx, db, id, su.Status); err != nil {
			return fmt.Errorf("updating enrollment status: %w", err)
		}

		enr.Status = su.Status
		enr.UpdatedAt = time.Now().UTC()

		if mailer != nil && su.Status != StatusPending {
			std, err := student.Fetch(ctx, db, enr.StudentID)
			if err != nil {
				return fmt.Errorf("fetching student for notification: %w", err)
			}

			subject := fmt.Sprintf("Enrollment %s", su.Status)
			body := fmt.Sprintf("Your enrollment request for %s has been %s.", enr.CourseName, su.Status)
			bg.Add(func() error {
				return mailer.Send(std.Email, subject, body)
			})
		}

		return web.Respond(ctx, w, enr, http.StatusOK)
	}
}
