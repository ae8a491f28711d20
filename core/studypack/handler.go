package studypack

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
		sps, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing study packs: %w", err)
		}

		return web.Respond(ctx, w, sps, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		sp, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, sp, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var spn StudyPackNew
		if err := web.Decode(w, r, &spn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(spn); err != nil {
			return weberr.Unprocessable(err)
		}

		now := time.Now().UTC()
		sp := StudyPack{
			ID:          validate.GenerateID(),
			BucketID:    spn.BucketID,
			Title:       spn.Title,
			Description: spn.Description,
			Price:       spn.Price,
			WeightGrams: spn.WeightGrams,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, sp); err != nil {
			return fmt.Errorf("creating study pack: %w", err)
		}

		return web.Respond(ctx, w, sp, http.StatusCreated)
	}
}
