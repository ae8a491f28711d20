package assignment

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

		asgs, err := ListByBucket(ctx, db, bucketID)
		if err != nil {
			return fmt.Errorf("listing assignments: %w", err)
		}

		return web.Respond(ctx, w, asgs, http.StatusOK)
	}
}

// HandleCreate takes a multipart body so the assignment sheet can be
// attached on creation. The attachment is optional.
func HandleCreate(db *sqlx.DB, store *files.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var an AssignmentNew
		f, fh, err := web.DecodeMultipart(r, &an, "file")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(an); err != nil {
			return weberr.Unprocessable(err)
		}

		var rel string
		if fh != nil {
			defer f.Close()
			if rel, err = store.Save(f, "assignments", fh.Filename); err != nil {
				return fmt.Errorf("storing assignment file: %w", err)
			}
		}

		now := time.Now().UTC()
		asg := Assignment{
			ID:          validate.GenerateID(),
			BucketID:    an.BucketID,
			Title:       an.Title,
			Description: an.Description,
			DueDate:     an.DueDate,
			FilePath:    rel,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := Create(ctx, db, asg); err != nil {
			return fmt.Errorf("creating assignment: %w", err)
		}

		return web.Respond(ctx, w, asg, http.StatusCreated)
	}
}

// HandleSubmit stores a student's answer file. Re-submitting replaces the
// previous file for that student; the bucket must be unlocked and the due
// date not yet past.
func HandleSubmit(db *sqlx.DB, store *files.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		assignmentID := web.Param(r, "id")
		if err := validate.CheckID(assignmentID); err != nil {
			return weberr.BadRequest(err)
		}

		clm, err := claims.Get(ctx)
		if err != nil || clm.StudentID == "" {
			return weberr.NotAuthorized(errors.New("student not authenticated"))
		}

		var sn SubmissionNew
		f, fh, err := web.DecodeMultipart(r, &sn, "file")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if fh == nil {
			return weberr.BadRequest(errors.New("submission file is required"))
		}
		defer f.Close()

		asg, err := Fetch(ctx, db, assignmentID)
		if err != nil {
			return weberr.NotFound(err)
		}

		ok, err := bucket.Unlocked(ctx, db, clm.StudentID, asg.BucketID)
		if err != nil {
			return fmt.Errorf("checking bucket access: %w", err)
		}
		if !ok {
			return weberr.NotAuthorized(errors.New("bucket is not unlocked for this student"))
		}

		now := time.Now().UTC()
		if asg.DueDate != nil && now.After(*asg.DueDate) {
			err := errors.New("the assignment due date has passed")
			return weberr.Unprocessable(err)
		}

		rel, err := store.Save(f, "submissions", fh.Filename)
		if err != nil {
			return fmt.Errorf("storing submission file: %w", err)
		}

		sub := Submission{
			ID:           validate.GenerateID(),
			AssignmentID: assignmentID,
			StudentID:    clm.StudentID,
			FilePath:     rel,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := CreateSubmission(ctx, db, sub); err != nil {
			return fmt.Errorf("creating submission: %w", err)
		}

		return web.Respond(ctx, w, sub, http.StatusCreated)
	}
}

func HandleListSubmissions(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		assignmentID := web.Param(r, "id")
		if err := validate.CheckID(assignmentID); err != nil {
			return weberr.BadRequest(err)
		}

		subs, err := ListSubmissions(ctx, db, assignmentID)
		if err != nil {
			return fmt.Errorf("listing submissions: %w", err)
		}

		return web.Respond(ctx, w, subs, http.StatusOK)
	}
}

func HandleGrade(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		submissionID := web.Param(r, "id")
		if err := validate.CheckID(submissionID); err != nil {
			return weberr.BadRequest(err)
		}

		var gu GradeUp
		if err := web.Decode(w, r, &gu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(gu); err != nil {
			return weberr.Unprocessable(err)
		}

		if err := UpdateGrade(ctx, db, submissionID, gu.Grade); err != nil {
			return fmt.Errorf("grading submission: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
