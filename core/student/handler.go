package student

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if courseID := web.Query(r, "course_id"); courseID != "" {
			if err := validate.CheckID(courseID); err != nil {
				return weberr.BadRequest(err)
			}

			stds, err := ListByCourse(ctx, db, courseID)
			if err != nil {
				return fmt.Errorf("listing course roster: %w", err)
			}

			return web.Respond(ctx, w, stds, http.StatusOK)
		}

		stds, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing students: %w", err)
		}

		return web.Respond(ctx, w, stds, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		std, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, std, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var sn StudentNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(sn); err != nil {
			return weberr.Unprocessable(err)
		}

		now := time.Now().UTC()
		std := Student{
			ID:        validate.GenerateID(),
			Number:    GenerateNumber(),
			Name:      sn.Name,
			Email:     sn.Email,
			Phone:     sn.Phone,
			Address:   sn.Address,
			District:  sn.District,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, std); err != nil {
			return fmt.Errorf("creating student: %w", err)
		}

		return web.Respond(ctx, w, std, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var su StudentUp
		if err := web.Decode(w, r, &su); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(su); err != nil {
			return weberr.Unprocessable(err)
		}

		std, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		if su.Name != nil {
			std.Name = *su.Name
		}
		if su.Email != nil {
			std.Email = *su.Email
		}
		if su.Phone != nil {
			std.Phone = *su.Phone
		}
		if su.Address != nil {
			std.Address = *su.Address
		}
		if su.District != nil {
			std.District = *su.District
		}
		std.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, std); err != nil {
			return fmt.Errorf("updating student: %w", err)
		}

		return web.Respond(ctx, w, std, http.StatusOK)
	}
}
