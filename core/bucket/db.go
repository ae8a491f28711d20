package bucket

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, bkt Bucket) error {
	const q = `
	INSERT INTO buckets
		(bucket_id, course_id, name, month, price, created_at, updated_at)
	VALUES
		(:bucket_id, :course_id, :name, :month, :price, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, bkt); err != nil {
		return fmt.Errorf("inserting bucket: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Bucket, error) {
	const q = `SELECT * FROM buckets WHERE bucket_id = $1`

	var bkt Bucket
	if err := sqlx.GetContext(ctx, db, &bkt, q, id); err != nil {
		return Bucket{}, fmt.Errorf("selecting bucket[%s]: %w", id, err)
	}

	return bkt, nil
}

func ListByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Bucket, error) {
	const q = `SELECT * FROM buckets WHERE course_id = $1 ORDER BY month, name`

	bkts := []Bucket{}
	if err := sqlx.SelectContext(ctx, db, &bkts, q, courseID); err != nil {
		return nil, fmt.Errorf("selecting buckets for course[%s]: %w", courseID, err)
	}

	return bkts, nil
}

// ListOwned returns the buckets the student has unlocked with an approved
// payment.
func ListOwned(ctx context.Context, db sqlx.ExtContext, studentID string) ([]Bucket, error) {
	const q = `
	SELECT b.* FROM buckets AS b
	JOIN payment_requests AS p ON p.bucket_id = b.bucket_id
	WHERE p.student_id = $1 AND p.status = 'approved'
	ORDER BY b.month, b.name`

	bkts := []Bucket{}
	if err := sqlx.SelectContext(ctx, db, &bkts, q, studentID); err != nil {
		return nil, fmt.Errorf("selecting owned buckets: %w", err)
	}

	return bkts, nil
}

// Unlocked reports whether the student can reach the bucket's gated
// material: either the owning course is free or an approved payment exists.
func Unlocked(ctx context.Context, db sqlx.ExtContext, studentID, bucketID string) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM buckets AS b
		JOIN courses AS c ON c.course_id = b.course_id
		WHERE b.bucket_id = $2 AND c.free
	) OR EXISTS (
		SELECT 1 FROM payment_requests
		WHERE student_id = $1 AND bucket_id = $2 AND status = 'approved'
	)`

	var ok bool
	if err := sqlx.GetContext(ctx, db, &ok, q, studentID, bucketID); err != nil {
		return false, fmt.Errorf("checking bucket[%s] access: %w", bucketID, err)
	}

	return ok, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, bkt Bucket) error {
	const q = `
	UPDATE buckets SET
		name = :name,
		month = :month,
		price = :price,
		updated_at = :updated_at
	WHERE bucket_id = :bucket_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, bkt); err != nil {
		return fmt.Errorf("updating bucket[%s]: %w", bkt.ID, err)
	}

	return nil
}
