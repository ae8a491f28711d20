package student

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, std Student) error {
	const q = `
	INSERT INTO students
		(student_id, student_number, name, email, phone, address, district, created_at, updated_at)
	VALUES
		(:student_id, :student_number, :name, :email, :phone, :address, :district, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, std); err != nil {
		return fmt.Errorf("inserting student: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Student, error) {
	const q = `SELECT * FROM students WHERE student_id = $1`

	var std Student
	if err := sqlx.GetContext(ctx, db, &std, q, id); err != nil {
		return Student{}, fmt.Errorf("selecting student[%s]: %w", id, err)
	}

	return std, nil
}

func FetchByNumber(ctx context.Context, db sqlx.ExtContext, number string) (Student, error) {
	const q = `SELECT * FROM students WHERE student_number = $1`

	var std Student
	if err := sqlx.GetContext(ctx, db, &std, q, number); err != nil {
		return Student{}, fmt.Errorf("selecting student[%s]: %w", number, err)
	}

	return std, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Student, error) {
	const q = `SELECT * FROM students ORDER BY created_at DESC`

	stds := []Student{}
	if err := sqlx.SelectContext(ctx, db, &stds, q); err != nil {
		return nil, fmt.Errorf("selecting students: %w", err)
	}

	return stds, nil
}

// ListByCourse returns the roster of students with an approved enrollment
// on the course.
func ListByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Student, error) {
	const q = `
	SELECT s.* FROM students AS s
	JOIN enrollments AS e ON e.student_id = s.student_id
	WHERE e.course_id = $1 AND e.status = 'approved'
	ORDER BY s.student_number`

	stds := []Student{}
	if err := sqlx.SelectContext(ctx, db, &stds, q, courseID); err != nil {
		return nil, fmt.Errorf("selecting course roster: %w", err)
	}

	return stds, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, std Student) error {
	const q = `
	UPDATE students SET
		name = :name,
		email = :email,
		phone = :phone,
		address = :address,
		district = :district,
		updated_at = :updated_at
	WHERE student_id = :student_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, std); err != nil {
		return fmt.Errorf("updating student[%s]: %w", std.ID, err)
	}

	return nil
}
