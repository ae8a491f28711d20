package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const selectCols = `
	p.payment_id, p.student_id, p.bucket_id, p.provider_id, p.slip_path, p.amount,
	p.status, p.created_at, p.updated_at,
	s.student_number, s.name AS student_name, b.name AS bucket_name
	FROM payment_requests AS p
	JOIN students AS s ON s.student_id = p.student_id
	JOIN buckets AS b ON b.bucket_id = p.bucket_id`

func Create(ctx context.Context, db sqlx.ExtContext, pay Payment) error {
	const q = `
	INSERT INTO payment_requests
		(payment_id, student_id, bucket_id, provider_id, slip_path, amount, status, created_at, updated_at)
	VALUES
		(:payment_id, :student_id, :bucket_id, :provider_id, :slip_path, :amount, :status, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, pay); err != nil {
		return fmt.Errorf("inserting payment request: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Payment, error) {
	q := `SELECT` + selectCols + ` WHERE p.payment_id = $1`

	var pay Payment
	if err := sqlx.GetContext(ctx, db, &pay, q, id); err != nil {
		return Payment{}, fmt.Errorf("selecting payment request[%s]: %w", id, err)
	}

	return pay, nil
}

func FetchByProviderID(ctx context.Context, db sqlx.ExtContext, providerID string) (Payment, error) {
	q := `SELECT` + selectCols + ` WHERE p.provider_id = $1`

	var pay Payment
	if err := sqlx.GetContext(ctx, db, &pay, q, providerID); err != nil {
		return Payment{}, fmt.Errorf("selecting payment bound to provider[%s]: %w", providerID, err)
	}

	return pay, nil
}

func Filter(ctx context.Context, db sqlx.ExtContext, f FilterParams) ([]Payment, error) {
	var conds []string
	var args []interface{}

	if f.StudentNumber != "" {
		args = append(args, f.StudentNumber)
		conds = append(conds, fmt.Sprintf("s.student_number = $%d", len(args)))
	}
	if f.BucketID != "" {
		args = append(args, f.BucketID)
		conds = append(conds, fmt.Sprintf("p.bucket_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}

	q := `SELECT` + selectCols
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY p.created_at DESC"

	pays := []Payment{}
	if err := sqlx.SelectContext(ctx, db, &pays, q, args...); err != nil {
		return nil, fmt.Errorf("filtering payment requests: %w", err)
	}

	return pays, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id, status string) error {
	const q = `UPDATE payment_requests SET status = $2, updated_at = NOW() WHERE payment_id = $1`

	if _, err := db.ExecContext(ctx, q, id, status); err != nil {
		return fmt.Errorf("updating payment request[%s] status: %w", id, err)
	}

	return nil
}
