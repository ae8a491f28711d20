package bucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

func HandleListByCourse(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "course_id")
		if err := validate.CheckID(courseID); err != nil {
			return weberr.BadRequest(err)
		}

		bkts, err := ListByCourse(ctx, db, courseID)
		if err != nil {
			return fmt.Errorf("listing buckets: %w", err)
		}

		return web.Respond(ctx, w, bkts, http.StatusOK)
	}
}

func HandleListOwned(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil || clm.StudentID == "" {
			return weberr.NotAuthorized(errors.New("student not authenticated"))
		}

		bkts, err := ListOwned(ctx, db, clm.StudentID)
		if err != nil {
			return fmt.Errorf("listing owned buckets: %w", err)
		}

		return web.Respond(ctx, w, bkts, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		bkt, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, bkt, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var bn BucketNew
		if err := web.Decode(w, r, &bn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(bn); err != nil {
			return weberr.Unprocessable(err)
		}

		now := time.Now().UTC()
		bkt := Bucket{
			ID:        validate.GenerateID(),
			CourseID:  bn.CourseID,
			Name:      bn.Name,
			Month:     bn.Month,
			Price:     bn.Price,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, bkt); err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}

		return web.Respond(ctx, w, bkt, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var bu BucketUp
		if err := web.Decode(w, r, &bu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(bu); err != nil {
			return weberr.Unprocessable(err)
		}

		bkt, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		if bu.Name != nil {
			bkt.Name = *bu.Name
		}
		if bu.Month != nil {
			bkt.Month = *bu.Month
		}
		if bu.Price != nil {
			bkt.Price = *bu.Price
		}
		bkt.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, bkt); err != nil {
			return fmt.Errorf("updating bucket: %w", err)
		}

		return web.Respond(ctx, w, bkt, http.StatusOK)
	}
}
