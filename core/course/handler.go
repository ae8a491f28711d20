package course

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
		crss, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing courses: %w", err)
		}

		return web.Respond(ctx, w, crss, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		crs, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, crs, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn CourseNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.Unprocessable(err)
		}

		now := time.Now().UTC()
		crs := Course{
			ID:          validate.GenerateID(),
			Name:        cn.Name,
			Description: cn.Description,
			Grade:       cn.Grade,
			Free:        cn.Free,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, crs); err != nil {
			return fmt.Errorf("creating course: %w", err)
		}

		return web.Respond(ctx, w, crs, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		var cu CourseUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cu); err != nil {
			return weberr.Unprocessable(err)
		}

		crs, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		if cu.Name != nil {
			crs.Name = *cu.Name
		}
		if cu.Description != nil {
			crs.Description = *cu.Description
		}
		if cu.Grade != nil {
			crs.Grade = *cu.Grade
		}
		if cu.Free != nil {
			crs.Free = *cu.Free
		}
		crs.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, crs); err != nil {
			return fmt.Errorf("updating course: %w", err)
		}

		return web.Respond(ctx, w, crs, http.StatusOK)
	}
}
