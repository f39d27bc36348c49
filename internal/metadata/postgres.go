package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radif/imagemeta/internal/image"
)

// PostgresRepository stores records in the images table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository on an open pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put upserts rec by image_id.
func (r *PostgresRepository) Put(ctx context.Context, rec *image.Record) error {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO images (image_id, user_id, tags, created_at, s3_key)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (image_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			tags = EXCLUDED.tags,
			created_at = EXCLUDED.created_at,
			s3_key = EXCLUDED.s3_key`,
		rec.ImageID, rec.UserID, tags, rec.CreatedAt, rec.S3Key,
	)
	if err != nil {
		return fmt.Errorf("put record %s: %w", rec.ImageID, err)
	}
	return nil
}

// Get fetches a record by image_id.
func (r *PostgresRepository) Get(ctx context.Context, imageID string) (*image.Record, error) {
	rec := &image.Record{}
	err := r.db.QueryRow(ctx,
		`SELECT image_id, user_id, tags, created_at, s3_key
		 FROM images WHERE image_id = $1`,
		imageID,
	).Scan(&rec.ImageID, &rec.UserID, &rec.Tags, &rec.CreatedAt, &rec.S3Key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, image.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", imageID, err)
	}
	return rec, nil
}

// Delete removes the row for imageID.
func (r *PostgresRepository) Delete(ctx context.Context, imageID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM images WHERE image_id = $1`, imageID); err != nil {
		return fmt.Errorf("delete record %s: %w", imageID, err)
	}
	return nil
}

// Scan returns every row. No ORDER BY: callers get whatever order the table yields.
func (r *PostgresRepository) Scan(ctx context.Context) ([]image.Record, error) {
	rows, err := r.db.Query(ctx, `SELECT image_id, user_id, tags, created_at, s3_key FROM images`)
	if err != nil {
		return nil, fmt.Errorf("scan images: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (image.Record, error) {
		var rec image.Record
		err := row.Scan(&rec.ImageID, &rec.UserID, &rec.Tags, &rec.CreatedAt, &rec.S3Key)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect images: %w", err)
	}
	return records, nil
}
