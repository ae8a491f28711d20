package content

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, cnt Content) error {
	const q = `
	INSERT INTO contents
		(content_id, bucket_id, title, kind, file_path, created_at, updated_at)
	VALUES
		(:content_id, :bucket_id, :title, :kind, :file_path, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, cnt); err != nil {
		return fmt.Errorf("inserting content: %w", err)
	}

	return nil
}

func ListByBucket(ctx context.Context, db sqlx.ExtContext, bucketID string) ([]Content, error) {
	const q = `SELECT * FROM contents WHERE bucket_id = $1 ORDER BY created_at`

	cnts := []Content{}
	if err := sqlx.SelectContext(ctx, db, &cnts, q, bucketID); err != nil {
		return nil, fmt.Errorf("selecting contents for bucket[%s]: %w", bucketID, err)
	}

	return cnts, nil
}
