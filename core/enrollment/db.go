package enrollment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const selectCols = `
	e.enrollment_id, e.student_id, e.course_id, e.status, e.created_at, e.updated_at,
	s.student_number, s.name AS student_name, c.name AS course_name
	FROM enrollments AS e
	JOIN students AS s ON s.student_id = e.student_id
	JOIN courses AS c ON c.course_id = e.course_id`

func Create(ctx context.Context, db sqlx.ExtContext, enr Enrollment) error {
	const q = `
	INSERT INTO enrollments
		(enrollment_id, student_id, course_id, status, created_at, updated_at)
	VALUES
		(:enrollment_id, :student_id, :course_id, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, enr); err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Enrollment, error) {
	q := `SELECT` + selectCols + ` WHERE e.enrollment_id = $1`

	var enr Enrollment
	if err := sqlx.GetContext(ctx, db, &enr, q, id); err != nil {
		return Enrollment{}, fmt.Errorf("selecting enrollment[%s]: %w", id, err)
	}

	return enr, nil
}

// Filter lists enrollments matching the given parameters; empty parameters
// do not constrain the result.
func Filter(ctx context.Context, db sqlx.ExtContext, f FilterParams) ([]Enrollment, error) {
	var conds []string
	var args []interface{}

	if f.StudentNumber != "" {
		args = append(args, f.StudentNumber)
		conds = append(conds, fmt.Sprintf("s.student_number = $%d", len(args)))
	}
	if f.CourseID != "" {
		args = append(args, f.CourseID)
		conds = append(conds, fmt.Sprintf("e.course_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("e.status = $%d", len(args)))
	}

	q := `SELECT` + selectCols
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY e.created_at DESC"

	enrs := []Enrollment{}
	if err := sqlx.SelectContext(ctx, db, &enrs, q, args...); err != nil {
		return nil, fmt.Errorf("filtering enrollments: %w", err)
	}

	return enrs, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id, status string) error {
	const q = `UPDATE enrollments SET status = $2, updated_at = NOW() WHERE enrollment_id = $1`

	if _, err := db.ExecContext(ctx, q, id, status); err != nil {
		return fmt.Errorf("updating enrollment[%s] status: %w", id, err)
	}

	return nil
}
