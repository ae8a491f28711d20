package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO student_orders
		(order_id, student_number, pack_id, address_line1, address_line2, city, district,
		 postal_code, phone1, phone2, status, tracking_no, cod_amount, weight_grams,
		 created_at, delivered_at, updated_at)
	VALUES
		(:order_id, :student_number, :pack_id, :address_line1, :address_line2, :city, :district,
		 :postal_code, :phone1, :phone2, :status, :tracking_no, :cod_amount, :weight_grams,
		 :created_at, :delivered_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Order, error) {
	const q = `SELECT * FROM student_orders WHERE order_id = $1`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id); err != nil {
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, err)
	}

	return ord, nil
}

// Filter lists orders matching the given parameters. Course and bucket
// constraints go through the ordered pack's bucket.
func Filter(ctx context.Context, db sqlx.ExtContext, f FilterParams) ([]Order, error) {
	var conds []string
	var args []interface{}

	if f.StudentNumber != "" {
		args = append(args, f.StudentNumber)
		conds = append(conds, fmt.Sprintf("o.student_number = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if f.BucketID != "" {
		args = append(args, f.BucketID)
		conds = append(conds, fmt.Sprintf("sp.bucket_id = $%d", len(args)))
	}
	if f.CourseID != "" {
		args = append(args, f.CourseID)
		conds = append(conds, fmt.Sprintf("b.course_id = $%d", len(args)))
	}

	q := `
	SELECT o.* FROM student_orders AS o
	JOIN study_packs AS sp ON sp.pack_id = o.pack_id
	JOIN buckets AS b ON b.bucket_id = sp.bucket_id`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY o.created_at DESC"

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q, args...); err != nil {
		return nil, fmt.Errorf("filtering orders: %w", err)
	}

	return ords, nil
}

func Update(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	UPDATE student_orders SET
		status = :status,
		tracking_no = :tracking_no,
		cod_amount = :cod_amount,
		weight_grams = :weight_grams,
		delivered_at = :delivered_at,
		updated_at = :updated_at
	WHERE order_id = :order_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return fmt.Errorf("updating order[%s]: %w", ord.ID, err)
	}

	return nil
}
