package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/bucket"
	"institute/core/claims"
	"institute/files"
	"institute/validate"

	"github.com/jmoiron/sqlx"
)

// HandleListByBucket serves the bucket's material. Admins always see it;
// students only once the bucket is unlocked for them.
func HandleListByBucket(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		bucketID := web.Param(r, "bucket_id")
		if err := validate.CheckID(bucketID); err != nil {
			return weberr.BadRequest(err)
		}

		if !claims.IsAdmin(ctx) {
			clm, err := claims.Get(ctx)
			if err != nil || clm.StudentID == "" {
				return weberr.NotAuthorized(errors.New("student not authenticated"))
			}

			ok, err := bucket.Unlocked(ctx, db, clm.StudentID, bucketID)
			if err != nil {
				return fmt.Errorf("checking bucket access: %w", err)
			}
			if !ok {
				return weberr.NotAuthorized(errors.New("bucket is not unlocked for this student"))
			}
		}

		cnts, err := ListByBucket(ctx, db, bucketID)
		if err != nil {
			return fmt.Errorf("listing contents: %w", err)
		}

		return web.Respond(ctx, w, cnts, http.StatusOK)
	}
}

// HandleCreate accepts a multipart body: a JSON "data" field with the
// content metadata and a "file" field with the material itself.
func HandleCreate(db *sqlx.DB, store *files.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		bucketID := web.Param(r, "bucket_id")
		if err := validate.CheckID(bucketID); err != nil {
			return weberr.BadRequest(err)
		}

		var cn ContentNew
		f, fh, err := web.DecodeMultipart(r, &cn, "file")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if fh == nil {
			return weberr.BadRequest(errors.New("content file is required"))
		}
		defer f.Close()

		if err := validate.Check(cn); err != nil {
			return weberr.Unprocessable(err)
		}

		if _, err := bucket.Fetch(ctx, db, bucketID); err != nil {
			return weberr.NotFound(err)
		}

		rel, err := store.Save(f, "contents", fh.Filename)
		if err != nil {
			return fmt.Errorf("storing content file: %w", err)
		}

		now := time.Now().UTC()
		cnt := Content{
			ID:        validate.GenerateID(),
			BucketID:  bucketID,
			Title:     cn.Title,
			Kind:      cn.Kind,
			FilePath:  rel,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := Create(ctx, db, cnt); err != nil {
			return fmt.Errorf("creating content: %w", err)
		}

		return web.Respond(ctx, w, cnt, http.StatusCreated)
	}
}
