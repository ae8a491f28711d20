package assignment

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, asg Assignment) error {
	const q = `
	INSERT INTO assignments
		(assignment_id, bucket_id, title, description, due_date, file_path, created_at, updated_at)
	VALUES
		(:assignment_id, :bucket_id, :title, :description, :due_date, :file_path, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, asg); err != nil {
		return fmt.Errorf("inserting assignment: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Assignment, error) {
	const q = `SELECT * FROM assignments WHERE assignment_id = $1`

	var asg Assignment
	if err := sqlx.GetContext(ctx, db, &asg, q, id); err != nil {
		return Assignment{}, fmt.Errorf("selecting assignment[%s]: %w", id, err)
	}

	return asg, nil
}

func ListByBucket(ctx context.Context, db sqlx.ExtContext, bucketID string) ([]Assignment, error) {
	const q = `SELECT * FROM assignments WHERE bucket_id = $1 ORDER BY due_date NULLS LAST, created_at`

	asgs := []Assignment{}
	if err := sqlx.SelectContext(ctx, db, &asgs, q, bucketID); err != nil {
		return nil, fmt.Errorf("selecting assignments for bucket[%s]: %w", bucketID, err)
	}

	return asgs, nil
}

func CreateSubmission(ctx context.Context, db sqlx.ExtContext, sub Submission) error {
	const q = `
	INSERT INTO submissions
		(submission_id, assignment_id, student_id, file_path, grade, created_at, updated_at)
	VALUES
		(:submission_id, :assignment_id, :student_id, :file_path, :grade, :created_at, :updated_at)
	ON CONFLICT (assignment_id, student_id) DO UPDATE SET
		file_path = EXCLUDED.file_path,
		updated_at = EXCLUDED.updated_at`

	if _, err := sqlx.NamedExecContext(ctx, db, q, sub); err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}

	return nil
}

func ListSubmissions(ctx context.Context, db sqlx.ExtContext, assignmentID string) ([]Submission, error) {
	const q = `SELECT * FROM submissions WHERE assignment_id = $1 ORDER BY created_at`

	subs := []Submission{}
	if err := sqlx.SelectContext(ctx, db, &subs, q, assignmentID); err != nil {
		return nil, fmt.Errorf("selecting submissions for assignment[%s]: %w", assignmentID, err)
	}

	return subs, nil
}

func UpdateGrade(ctx context.Context, db sqlx.ExtContext, submissionID string, grade int) error {
	const q = `UPDATE submissions SET grade = $2, updated_at = NOW() WHERE submission_id = $1`

	if _, err := db.ExecContext(ctx, q, submissionID, grade); err != nil {
		return fmt.Errorf("grading submission[%s]: %w", submissionID, err)
	}

	return nil
}
