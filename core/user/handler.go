package user

import (
	"context"
	"errors"
	"net/http"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(err)
		}

		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		if clm.Role != claims.RoleAdmin && clm.UserID != id {
			return weberr.NotAuthorized(errors.New("cannot access another user"))
		}

		usr, err := Fetch(ctx, db, id)
		if err != nil {
			return weberr.NotFound(err)
		}

		return web.Respond(ctx, w, usr, http.StatusOK)
	}
}
