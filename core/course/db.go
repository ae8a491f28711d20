package course

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, crs Course) error {
	const q = `
	INSERT INTO courses
		(course_id, name, description, grade, free, created_at, updated_at)
	VALUES
		(:course_id, :name, :description, :grade, :free, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, crs); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	const q = `SELECT * FROM courses WHERE course_id = $1`

	var crs Course
	if err := sqlx.GetContext(ctx, db, &crs, q, id); err != nil {
		return Course{}, fmt.Errorf("selecting course[%s]: %w", id, err)
	}

	return crs, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Course, error) {
	const q = `SELECT * FROM courses ORDER BY name`

	crss := []Course{}
	if err := sqlx.SelectContext(ctx, db, &crss, q); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}

	return crss, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, crs Course) error {
	const q = `
	UPDATE courses SET
		name = :name,
		description = :description,
		grade = :grade,
		free = :free,
		updated_at = :updated_at
	WHERE course_id = :course_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, crs); err != nil {
		return fmt.Errorf("updating course[%s]: %w", crs.ID, err)
	}

	return nil
}
