package postgres

import (
	"context"
	"database/sql"

	"printshop/internal/model"
	"printshop/internal/repository"
)

// BannerPostgres is a PostgreSQL implementation of repository.BannerRepository.
type BannerPostgres struct {
	db *sql.DB
}

// NewBannerPostgres creates a new BannerPostgres repository.
func NewBannerPostgres(db *sql.DB) *BannerPostgres {
	return &BannerPostgres{db: db}
}

var _ repository.BannerRepository = (*BannerPostgres)(nil)

func scanBanner(row rowScanner) (*model.HomeBanner, error) {
	var b model.HomeBanner
	if err := row.Scan(&b.ID, &b.ObjectKey, &b.PublicURL, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BannerPostgres) Create(ctx context.Context, b *model.HomeBanner) (*model.HomeBanner, error) {
	const q = `
		INSERT INTO home_banners (id, object_key, public_url, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, object_key, public_url, created_at
	`
	return scanBanner(r.db.QueryRowContext(ctx, q, b.ID, b.ObjectKey, b.PublicURL, b.CreatedAt))
}

func (r *BannerPostgres) FindByID(ctx context.Context, id string) (*model.HomeBanner, error) {
	const q = `SELECT id, object_key, public_url, created_at FROM home_banners WHERE id = $1`
	return scanBanner(r.db.QueryRowContext(ctx, q, id))
}

func (r *BannerPostgres) List(ctx context.Context) ([]model.HomeBanner, error) {
	const q = `
		SELECT id, object_key, public_url, created_at
		FROM home_banners
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.HomeBanner, 0)
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *BannerPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM home_banners WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
