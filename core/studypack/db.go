package studypack

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, sp StudyPack) error {
	const q = `
	INSERT INTO study_packs
		(pack_id, bucket_id, title, description, price, weight_grams, created_at, updated_at)
	VALUES
		(:pack_id, :bucket_id, :title, :description, :price, :weight_grams, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, sp); err != nil {
		return fmt.Errorf("inserting study pack: %w", err)
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (StudyPack, error) {
	const q = `SELECT * FROM study_packs WHERE pack_id = $1`

	var sp StudyPack
	if err := sqlx.GetContext(ctx, db, &sp, q, id); err != nil {
		return StudyPack{}, fmt.Errorf("selecting study pack[%s]: %w", id, err)
	}

	return sp, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]StudyPack, error) {
	const q = `SELECT * FROM study_packs ORDER BY created_at DESC`

	sps := []StudyPack{}
	if err := sqlx.SelectContext(ctx, db, &sps, q); err != nil {
		return nil, fmt.Errorf("selecting study packs: %w", err)
	}

	return sps, nil
}
